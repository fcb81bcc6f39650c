package service

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"newsportal/internal/core/auth"
	"newsportal/internal/domain"
	"newsportal/pkg/utils"
)

type CommentInput struct {
	PostID  string `json:"postId"`
	Content string `json:"content"`
}

type CommentView struct {
	domain.Comment
	AuthorName string `json:"authorName"`
	PostTitle  string `json:"postTitle,omitempty"`
}

func (s *Service) CreateComment(ctx context.Context, p *domain.Principal, in CommentInput) (*domain.Comment, error) {
	if err := auth.Authorize(p, auth.CommentCreate, ""); err != nil {
		return nil, err
	}
	in.Content = strings.TrimSpace(in.Content)
	err := validation.ValidateStruct(&in,
		validation.Field(&in.PostID, validation.Required),
		validation.Field(&in.Content, validation.Required, validation.Length(1, 5000)),
	)
	if err := invalid(err); err != nil {
		return nil, err
	}
	post, err := s.store.Posts().FindByID(ctx, in.PostID)
	if err != nil {
		return nil, domain.Internal("load post", err)
	}
	if post == nil {
		return nil, domain.InvalidInput("post does not exist")
	}
	c := &domain.Comment{ID: utils.NewID(), Content: in.Content, AuthorID: p.ID, PostID: post.ID}
	if err := s.store.Comments().Create(ctx, c); err != nil {
		return nil, domain.Internal("create comment", err)
	}
	return c, nil
}

// UpdateComment edits a comment's text. Only its author or an admin may do so.
func (s *Service) UpdateComment(ctx context.Context, p *domain.Principal, id, content string) (*domain.Comment, error) {
	if p == nil {
		return nil, auth.Authorize(nil, auth.CommentUpdate, "")
	}
	content = strings.TrimSpace(content)
	if err := invalid(validation.Validate(content, validation.Required, validation.Length(1, 5000))); err != nil {
		return nil, err
	}
	c, err := s.loadComment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(p, auth.CommentUpdate, c.AuthorID); err != nil {
		return nil, err
	}
	c.Content = content
	if err := s.store.Comments().Update(ctx, c); err != nil {
		return nil, domain.Internal("update comment", err)
	}
	return c, nil
}

func (s *Service) DeleteComment(ctx context.Context, p *domain.Principal, id string) error {
	if p == nil {
		return auth.Authorize(nil, auth.CommentDelete, "")
	}
	c, err := s.loadComment(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.Authorize(p, auth.CommentDelete, c.AuthorID); err != nil {
		return err
	}
	if _, err := s.store.Comments().Delete(ctx, id); err != nil {
		return domain.Internal("delete comment", err)
	}
	return nil
}

// MyComments lists the caller's own comments with the titles of the posts they are on.
func (s *Service) MyComments(ctx context.Context, p *domain.Principal) ([]CommentView, error) {
	if err := auth.Authorize(p, auth.ProfileRead, ""); err != nil {
		return nil, err
	}
	cs, err := s.store.Comments().ListByAuthor(ctx, p.ID)
	if err != nil {
		return nil, domain.Internal("list comments", err)
	}
	return s.commentViews(ctx, cs, true)
}

func (s *Service) AdminComments(ctx context.Context, p *domain.Principal, offset, limit int) (*Page[CommentView], error) {
	if err := auth.Authorize(p, auth.CommentModerate, ""); err != nil {
		return nil, err
	}
	offset, limit = window(offset, limit)
	cs, total, err := s.store.Comments().List(ctx, offset, limit)
	if err != nil {
		return nil, domain.Internal("list comments", err)
	}
	views, err := s.commentViews(ctx, cs, true)
	if err != nil {
		return nil, err
	}
	return &Page[CommentView]{Items: views, Total: total, Offset: offset, Limit: limit}, nil
}

func (s *Service) loadComment(ctx context.Context, id string) (*domain.Comment, error) {
	c, err := s.store.Comments().FindByID(ctx, id)
	if err != nil {
		return nil, domain.Internal("load comment", err)
	}
	if c == nil {
		return nil, domain.NotFound("comment not found")
	}
	return c, nil
}

func (s *Service) commentViews(ctx context.Context, cs []domain.Comment, withPost bool) ([]CommentView, error) {
	authorIDs := make([]string, 0, len(cs))
	postIDs := make([]string, 0, len(cs))
	for _, c := range cs {
		authorIDs = append(authorIDs, c.AuthorID)
		postIDs = append(postIDs, c.PostID)
	}
	authors, err := s.store.Users().FindByIDs(ctx, authorIDs)
	if err != nil {
		return nil, domain.Internal("load authors", err)
	}
	posts := map[string]domain.Post{}
	if withPost {
		if posts, err = s.store.Posts().FindByIDs(ctx, postIDs); err != nil {
			return nil, domain.Internal("load posts", err)
		}
	}
	out := make([]CommentView, 0, len(cs))
	for _, c := range cs {
		out = append(out, CommentView{Comment: c, AuthorName: authors[c.AuthorID].Name, PostTitle: posts[c.PostID].Title})
	}
	return out, nil
}
