package service

import (
	"context"
	"strings"

	"newsportal/internal/core/auth"
	"newsportal/internal/domain"
	"newsportal/internal/repo"
)

type NewsQuery struct {
	Category string `form:"category"` // slug
	Offset   int    `form:"offset"`
	Limit    int    `form:"limit"`
}

// PostDetail is a published post with everything the article page shows.
type PostDetail struct {
	PostView
	ContentHTML string        `json:"contentHtml"`
	Comments    []CommentView `json:"comments"`
	MyRating    *int          `json:"myRating"`
}

// News lists published posts, newest first, optionally narrowed to one category slug.
// An unknown slug yields an empty page.
func (s *Service) News(ctx context.Context, p *domain.Principal, q NewsQuery) (*Page[PostView], error) {
	if err := auth.Authorize(p, auth.NewsList, ""); err != nil {
		return nil, err
	}
	offset, limit := window(q.Offset, q.Limit)
	page := &Page[PostView]{Items: []PostView{}, Offset: offset, Limit: limit}
	f := repo.PostFilter{PublishedOnly: true, Offset: offset, Limit: limit}
	if slug := strings.TrimSpace(q.Category); slug != "" {
		c, err := s.store.Categories().FindBySlug(ctx, slug)
		if err != nil {
			return nil, domain.Internal("load category", err)
		}
		if c == nil {
			return page, nil
		}
		f.CategoryID = c.ID
	}
	posts, total, err := s.store.Posts().List(ctx, f)
	if err != nil {
		return nil, domain.Internal("list news", err)
	}
	if page.Items, err = s.postViews(ctx, posts); err != nil {
		return nil, err
	}
	page.Total = total
	return page, nil
}

// Article returns a post with its comments and ratings. Drafts are visible to admins only.
func (s *Service) Article(ctx context.Context, p *domain.Principal, id string) (*PostDetail, error) {
	if err := auth.Authorize(p, auth.PostRead, ""); err != nil {
		return nil, err
	}
	post, err := s.loadPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.Published && !p.IsAdmin() {
		return nil, domain.NotFound("post not found")
	}
	views, err := s.postViews(ctx, []domain.Post{*post})
	if err != nil {
		return nil, err
	}
	comments, err := s.store.Comments().ListByPost(ctx, id)
	if err != nil {
		return nil, domain.Internal("list comments", err)
	}
	cv, err := s.commentViews(ctx, comments, false)
	if err != nil {
		return nil, err
	}
	d := &PostDetail{PostView: views[0], ContentHTML: RenderHTML(post.Content), Comments: cv}
	if p != nil {
		if d.MyRating, err = s.ratings.UserRating(ctx, p.ID, id); err != nil {
			return nil, err
		}
	}
	return d, nil
}
