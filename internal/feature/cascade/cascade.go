// Package cascade deletes categories, posts and users together with everything that depends on them.
// The schema carries no ON DELETE rules; each delete here is one transaction.
package cascade

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"newsportal/internal/domain"
	"newsportal/internal/repo"
	"newsportal/pkg/utils"
)

var deletes = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "cascade_deletes_total", Help: "Cascade deletions by entity and outcome"},
	[]string{"entity", "outcome"},
)

func init() { prometheus.MustRegister(deletes) }

// Report counts the rows a cascade touched.
type Report struct {
	Relinked int64 `json:"relinked,omitempty"`
	Posts    int64 `json:"posts,omitempty"`
	Comments int64 `json:"comments,omitempty"`
	Ratings  int64 `json:"ratings,omitempty"`
}

type Coordinator struct{ store *repo.Store }

func New(s *repo.Store) *Coordinator { return &Coordinator{store: s} }

// DeleteCategory moves the category's posts onto the fallback category and deletes it.
// The fallback category cannot be deleted while it still holds posts.
func (c *Coordinator) DeleteCategory(ctx context.Context, id string) (Report, error) {
	var rep Report
	err := c.run(ctx, "category", func(tx *repo.Store) error {
		cat, err := tx.Categories().FindByID(ctx, id)
		if err != nil {
			return domain.Internal("load category", err)
		}
		if cat == nil {
			return domain.NotFound("category not found")
		}
		n, err := tx.Posts().CountByCategory(ctx, id)
		if err != nil {
			return domain.Internal("count posts", err)
		}
		if n > 0 {
			if cat.Slug == domain.FallbackCategorySlug {
				return domain.Conflict("the fallback category still has posts")
			}
			fb, err := ensureFallback(ctx, tx)
			if err != nil {
				return err
			}
			if rep.Relinked, err = tx.Posts().Relink(ctx, id, fb.ID); err != nil {
				return domain.Internal("relink posts", err)
			}
		}
		if _, err := tx.Categories().Delete(ctx, id); err != nil {
			return domain.Internal("delete category", err)
		}
		return nil
	})
	return rep, err
}

func (c *Coordinator) DeletePost(ctx context.Context, id string) (Report, error) {
	var rep Report
	err := c.run(ctx, "post", func(tx *repo.Store) error {
		p, err := tx.Posts().FindByID(ctx, id)
		if err != nil {
			return domain.Internal("load post", err)
		}
		if p == nil {
			return domain.NotFound("post not found")
		}
		return deletePosts(ctx, tx, []string{id}, &rep)
	})
	return rep, err
}

// DeleteUser removes the user, their ratings and comments, their posts, and everything on those posts.
func (c *Coordinator) DeleteUser(ctx context.Context, id string) (Report, error) {
	var rep Report
	err := c.run(ctx, "user", func(tx *repo.Store) error {
		u, err := tx.Users().FindByID(ctx, id)
		if err != nil {
			return domain.Internal("load user", err)
		}
		if u == nil {
			return domain.NotFound("user not found")
		}
		n, err := tx.Ratings().DeleteByUser(ctx, id)
		if err != nil {
			return domain.Internal("delete user ratings", err)
		}
		rep.Ratings += n
		if n, err = tx.Comments().DeleteByAuthor(ctx, id); err != nil {
			return domain.Internal("delete user comments", err)
		}
		rep.Comments += n
		ids, err := tx.Posts().IDsByAuthor(ctx, id)
		if err != nil {
			return domain.Internal("collect posts", err)
		}
		if err := deletePosts(ctx, tx, ids, &rep); err != nil {
			return err
		}
		if _, err := tx.Users().Delete(ctx, id); err != nil {
			return domain.Internal("delete user", err)
		}
		return nil
	})
	return rep, err
}

func deletePosts(ctx context.Context, tx *repo.Store, ids []string, rep *Report) error {
	if len(ids) == 0 {
		return nil
	}
	n, err := tx.Comments().DeleteByPosts(ctx, ids)
	if err != nil {
		return domain.Internal("delete post comments", err)
	}
	rep.Comments += n
	if n, err = tx.Ratings().DeleteByPosts(ctx, ids); err != nil {
		return domain.Internal("delete post ratings", err)
	}
	rep.Ratings += n
	if n, err = tx.Posts().DeleteByIDs(ctx, ids); err != nil {
		return domain.Internal("delete posts", err)
	}
	rep.Posts += n
	return nil
}

// ensureFallback inserts the fallback category unless it exists and returns the stored row.
func ensureFallback(ctx context.Context, tx *repo.Store) (*domain.Category, error) {
	cats := tx.Categories()
	err := cats.CreateIfAbsent(ctx, &domain.Category{
		ID:   utils.NewID(),
		Name: domain.FallbackCategoryName,
		Slug: domain.FallbackCategorySlug,
	})
	if err != nil {
		return nil, domain.Internal("ensure fallback category", err)
	}
	fb, err := cats.FindBySlug(ctx, domain.FallbackCategorySlug)
	if err != nil || fb == nil {
		return nil, domain.Internal("load fallback category", err)
	}
	return fb, nil
}

func (c *Coordinator) run(ctx context.Context, entity string, fn func(tx *repo.Store) error) error {
	err := c.store.Transaction(ctx, fn)
	switch {
	case err == nil:
		deletes.WithLabelValues(entity, "ok").Inc()
		return nil
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrConflict):
		deletes.WithLabelValues(entity, "rejected").Inc()
		return err
	}
	deletes.WithLabelValues(entity, "error").Inc()
	var de *domain.Error
	if errors.As(err, &de) && de.Kind == domain.ErrInternal {
		return err
	}
	// commit failures and cancelled contexts surface here unclassified
	return domain.Internal("delete "+entity, err)
}
