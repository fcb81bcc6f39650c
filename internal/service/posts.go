package service

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"

	"newsportal/internal/core/auth"
	"newsportal/internal/domain"
	"newsportal/internal/feature/cascade"
	"newsportal/internal/feature/rating"
	"newsportal/internal/repo"
	"newsportal/pkg/utils"
)

type PostInput struct {
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Excerpt    *string `json:"excerpt"`
	Image      *string `json:"image"`
	Published  bool    `json:"published"`
	CategoryID *string `json:"categoryId"`
}

func (in *PostInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.Excerpt = optional(in.Excerpt, strings.TrimSpace)
	in.Image = optional(in.Image, strings.TrimSpace)
	in.CategoryID = optional(in.CategoryID, strings.TrimSpace)
}

func (in PostInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&in.Content, validation.Required),
		validation.Field(&in.Excerpt, validation.NilOrNotEmpty, validation.Length(0, 500)),
	)
}

// optional applies fn to *v and drops the value when the result is empty.
func optional(v *string, fn func(string) string) *string {
	if v == nil {
		return nil
	}
	s := fn(*v)
	if s == "" {
		return nil
	}
	return &s
}

// PostView is a post as it appears in listings.
type PostView struct {
	domain.Post
	AuthorName   string         `json:"authorName"`
	CategoryName string         `json:"categoryName,omitempty"`
	CategorySlug string         `json:"categorySlug,omitempty"`
	CommentCount int64          `json:"commentCount"`
	Rating       rating.Summary `json:"rating"`
}

// AdminPosts lists posts including drafts, newest first.
func (s *Service) AdminPosts(ctx context.Context, p *domain.Principal, offset, limit int) (*Page[PostView], error) {
	if err := auth.Authorize(p, auth.PostList, ""); err != nil {
		return nil, err
	}
	offset, limit = window(offset, limit)
	posts, total, err := s.store.Posts().List(ctx, repo.PostFilter{Offset: offset, Limit: limit})
	if err != nil {
		return nil, domain.Internal("list posts", err)
	}
	views, err := s.postViews(ctx, posts)
	if err != nil {
		return nil, err
	}
	return &Page[PostView]{Items: views, Total: total, Offset: offset, Limit: limit}, nil
}

func (s *Service) AdminPost(ctx context.Context, p *domain.Principal, id string) (*PostView, error) {
	if err := auth.Authorize(p, auth.PostList, ""); err != nil {
		return nil, err
	}
	post, err := s.loadPost(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.postViews(ctx, []domain.Post{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *Service) CreatePost(ctx context.Context, p *domain.Principal, in PostInput) (*domain.Post, error) {
	if err := auth.Authorize(p, auth.PostCreate, ""); err != nil {
		return nil, err
	}
	in.normalize()
	if err := invalid(in.Validate()); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	post := &domain.Post{ID: utils.NewID(), AuthorID: p.ID}
	apply(post, in, time.Now())
	if err := s.store.Posts().Create(ctx, post); err != nil {
		return nil, domain.Internal("create post", err)
	}
	return post, nil
}

func (s *Service) UpdatePost(ctx context.Context, p *domain.Principal, id string, in PostInput) (*domain.Post, error) {
	if err := auth.Authorize(p, auth.PostUpdate, ""); err != nil {
		return nil, err
	}
	in.normalize()
	if err := invalid(in.Validate()); err != nil {
		return nil, err
	}
	post, err := s.loadPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	apply(post, in, time.Now())
	if err := s.store.Posts().Update(ctx, post); err != nil {
		return nil, domain.Internal("update post", err)
	}
	return post, nil
}

func (s *Service) DeletePost(ctx context.Context, p *domain.Principal, id string) (cascade.Report, error) {
	if err := auth.Authorize(p, auth.PostDelete, ""); err != nil {
		return cascade.Report{}, err
	}
	rep, err := s.cascade.DeletePost(ctx, id)
	if err != nil {
		return rep, err
	}
	s.log.Info("post deleted", zap.String("id", id), zap.String("by", p.ID),
		zap.Int64("comments", rep.Comments), zap.Int64("ratings", rep.Ratings))
	return rep, nil
}

// apply copies in onto post. PublishedAt is stamped on the first publish and cleared on unpublish.
func apply(post *domain.Post, in PostInput, now time.Time) {
	post.Title = in.Title
	post.Content = in.Content
	post.Excerpt = in.Excerpt
	post.Image = in.Image
	post.CategoryID = in.CategoryID
	post.Published = in.Published
	switch {
	case in.Published && post.PublishedAt == nil:
		post.PublishedAt = &now
	case !in.Published:
		post.PublishedAt = nil
	}
}

func (s *Service) checkCategory(ctx context.Context, id *string) error {
	if id == nil {
		return nil
	}
	c, err := s.store.Categories().FindByID(ctx, *id)
	if err != nil {
		return domain.Internal("load category", err)
	}
	if c == nil {
		return domain.InvalidInput("category does not exist")
	}
	return nil
}

func (s *Service) loadPost(ctx context.Context, id string) (*domain.Post, error) {
	post, err := s.store.Posts().FindByID(ctx, id)
	if err != nil {
		return nil, domain.Internal("load post", err)
	}
	if post == nil {
		return nil, domain.NotFound("post not found")
	}
	return post, nil
}

// postViews decorates posts with author, category, comment count and rating summary.
func (s *Service) postViews(ctx context.Context, posts []domain.Post) ([]PostView, error) {
	ids := make([]string, 0, len(posts))
	var authorIDs, catIDs []string
	for _, p := range posts {
		ids = append(ids, p.ID)
		authorIDs = append(authorIDs, p.AuthorID)
		if p.CategoryID != nil {
			catIDs = append(catIDs, *p.CategoryID)
		}
	}
	authors, err := s.store.Users().FindByIDs(ctx, authorIDs)
	if err != nil {
		return nil, domain.Internal("load authors", err)
	}
	cats, err := s.store.Categories().FindByIDs(ctx, catIDs)
	if err != nil {
		return nil, domain.Internal("load categories", err)
	}
	comments, err := s.store.Comments().CountPerPost(ctx, ids)
	if err != nil {
		return nil, domain.Internal("count comments", err)
	}
	sums, err := s.ratings.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]PostView, 0, len(posts))
	for _, p := range posts {
		v := PostView{
			Post:         p,
			AuthorName:   authors[p.AuthorID].Name,
			CommentCount: comments[p.ID],
			Rating:       sums[p.ID],
		}
		if p.CategoryID != nil {
			c := cats[*p.CategoryID]
			v.CategoryName, v.CategorySlug = c.Name, c.Slug
		}
		out = append(out, v)
	}
	return out, nil
}
