package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"newsportal/internal/domain"
)

type CategoryRepo struct{ db *gorm.DB }

func (r *CategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// CreateIfAbsent inserts c unless its slug is already taken; the unique index decides.
func (r *CategoryRepo) CreateIfAbsent(ctx context.Context, c *domain.Category) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
		Create(c).Error
}

func (r *CategoryRepo) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	return first[domain.Category](r.db.WithContext(ctx), "id = ?", id)
}

func (r *CategoryRepo) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return first[domain.Category](r.db.WithContext(ctx), "slug = ?", slug)
}

func (r *CategoryRepo) FindByIDs(ctx context.Context, ids []string) (map[string]domain.Category, error) {
	out := make(map[string]domain.Category, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var cs []domain.Category
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&cs).Error; err != nil {
		return nil, err
	}
	for _, c := range cs {
		out[c.ID] = c
	}
	return out, nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	var cs []domain.Category
	err := r.db.WithContext(ctx).Order("created_at desc").Find(&cs).Error
	return cs, err
}

func (r *CategoryRepo) Count(ctx context.Context, slug string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Category{}).Where("slug = ?", slug).Count(&n).Error
	return n, err
}

func (r *CategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CategoryRepo) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Category{})
	return res.RowsAffected, res.Error
}
