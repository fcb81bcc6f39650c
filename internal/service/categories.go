package service

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"

	"newsportal/internal/core/auth"
	"newsportal/internal/domain"
	"newsportal/internal/feature/cascade"
	"newsportal/internal/repo"
	"newsportal/pkg/utils"
)

type CategoryInput struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
}

func (in *CategoryInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = resolveSlug(in.Slug, in.Name)
	if in.Description != nil {
		d := strings.TrimSpace(*in.Description)
		in.Description = &d
		if d == "" {
			in.Description = nil
		}
	}
}

func (in CategoryInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 128)),
		validation.Field(&in.Slug, validation.Required, validation.Length(1, 191)),
	)
}

type CategoryView struct {
	domain.Category
	PostCount int64 `json:"postCount"`
}

// Categories lists every category with its number of published posts.
func (s *Service) Categories(ctx context.Context, p *domain.Principal) ([]CategoryView, error) {
	return s.listCategories(ctx, p, true)
}

// AdminCategories counts drafts as well.
func (s *Service) AdminCategories(ctx context.Context, p *domain.Principal) ([]CategoryView, error) {
	return s.listCategories(ctx, p, false)
}

func (s *Service) listCategories(ctx context.Context, p *domain.Principal, publishedOnly bool) ([]CategoryView, error) {
	if err := auth.Authorize(p, auth.CategoryList, ""); err != nil {
		return nil, err
	}
	cats, err := s.store.Categories().List(ctx)
	if err != nil {
		return nil, domain.Internal("list categories", err)
	}
	counts, err := s.store.Posts().CountPerCategory(ctx, publishedOnly)
	if err != nil {
		return nil, domain.Internal("count posts", err)
	}
	out := make([]CategoryView, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryView{Category: c, PostCount: counts[c.ID]})
	}
	return out, nil
}

func (s *Service) CreateCategory(ctx context.Context, p *domain.Principal, in CategoryInput) (*domain.Category, error) {
	if err := auth.Authorize(p, auth.CategoryCreate, ""); err != nil {
		return nil, err
	}
	in.normalize()
	if err := invalid(in.Validate()); err != nil {
		return nil, err
	}
	cats := s.store.Categories()
	if taken, err := cats.FindBySlug(ctx, in.Slug); err != nil {
		return nil, domain.Internal("load category", err)
	} else if taken != nil {
		return nil, domain.Conflict("slug already in use")
	}
	c := &domain.Category{ID: utils.NewID(), Name: in.Name, Slug: in.Slug, Description: in.Description}
	if err := cats.Create(ctx, c); err != nil {
		if repo.IsDuplicateKey(err) {
			return nil, domain.Conflict("slug already in use")
		}
		return nil, domain.Internal("create category", err)
	}
	return c, nil
}

func (s *Service) UpdateCategory(ctx context.Context, p *domain.Principal, id string, in CategoryInput) (*domain.Category, error) {
	if err := auth.Authorize(p, auth.CategoryUpdate, ""); err != nil {
		return nil, err
	}
	in.normalize()
	if err := invalid(in.Validate()); err != nil {
		return nil, err
	}
	cats := s.store.Categories()
	c, err := cats.FindByID(ctx, id)
	if err != nil {
		return nil, domain.Internal("load category", err)
	}
	if c == nil {
		return nil, domain.NotFound("category not found")
	}
	if in.Slug != c.Slug {
		if taken, err := cats.FindBySlug(ctx, in.Slug); err != nil {
			return nil, domain.Internal("load category", err)
		} else if taken != nil {
			return nil, domain.Conflict("slug already in use")
		}
	}
	c.Name, c.Slug, c.Description = in.Name, in.Slug, in.Description
	if err := cats.Update(ctx, c); err != nil {
		if repo.IsDuplicateKey(err) {
			return nil, domain.Conflict("slug already in use")
		}
		return nil, domain.Internal("update category", err)
	}
	return c, nil
}

func (s *Service) DeleteCategory(ctx context.Context, p *domain.Principal, id string) (cascade.Report, error) {
	if err := auth.Authorize(p, auth.CategoryDelete, ""); err != nil {
		return cascade.Report{}, err
	}
	rep, err := s.cascade.DeleteCategory(ctx, id)
	if err != nil {
		return rep, err
	}
	s.log.Info("category deleted", zap.String("id", id), zap.String("by", p.ID), zap.Int64("relinked", rep.Relinked))
	return rep, nil
}
