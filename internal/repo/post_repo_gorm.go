package repo

import (
	"context"

	"gorm.io/gorm"

	"newsportal/internal/domain"
)

type PostRepo struct{ db *gorm.DB }

type PostFilter struct {
	PublishedOnly bool
	CategoryID    string
	Offset        int
	Limit         int
}

func (r *PostRepo) Create(ctx context.Context, p *domain.Post) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PostRepo) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	return first[domain.Post](r.db.WithContext(ctx), "id = ?", id)
}

func (r *PostRepo) FindByIDs(ctx context.Context, ids []string) (map[string]domain.Post, error) {
	out := make(map[string]domain.Post, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var ps []domain.Post
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ps).Error; err != nil {
		return nil, err
	}
	for _, p := range ps {
		out[p.ID] = p
	}
	return out, nil
}

func (r *PostRepo) List(ctx context.Context, f PostFilter) ([]domain.Post, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Post{})
	if f.PublishedOnly {
		tx = tx.Where("published = ?", true)
	}
	if f.CategoryID != "" {
		tx = tx.Where("category_id = ?", f.CategoryID)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var ps []domain.Post
	if err := tx.Order("created_at desc").Offset(f.Offset).Limit(f.Limit).Find(&ps).Error; err != nil {
		return nil, 0, err
	}
	return ps, total, nil
}

func (r *PostRepo) Update(ctx context.Context, p *domain.Post) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PostRepo) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Post{}).Where("category_id = ?", categoryID).Count(&n).Error
	return n, err
}

// CountPerCategory counts posts grouped by category; uncategorized posts are skipped.
func (r *PostRepo) CountPerCategory(ctx context.Context, publishedOnly bool) (map[string]int64, error) {
	var rows []struct {
		CategoryID string
		N          int64
	}
	tx := r.db.WithContext(ctx).Model(&domain.Post{}).
		Select("category_id, COUNT(*) AS n").
		Where("category_id IS NOT NULL")
	if publishedOnly {
		tx = tx.Where("published = ?", true)
	}
	if err := tx.Group("category_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.CategoryID] = row.N
	}
	return out, nil
}

func (r *PostRepo) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Post{}).Where("author_id = ?", authorID).Count(&n).Error
	return n, err
}

// Relink moves every post of category from onto category to.
func (r *PostRepo) Relink(ctx context.Context, from, to string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Post{}).
		Where("category_id = ?", from).
		Update("category_id", to)
	return res.RowsAffected, res.Error
}

func (r *PostRepo) IDsByAuthor(ctx context.Context, authorID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&domain.Post{}).Where("author_id = ?", authorID).Pluck("id", &ids).Error
	return ids, err
}

func (r *PostRepo) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.Post{})
	return res.RowsAffected, res.Error
}
