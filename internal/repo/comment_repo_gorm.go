package repo

import (
	"context"

	"gorm.io/gorm"

	"newsportal/internal/domain"
)

type CommentRepo struct{ db *gorm.DB }

func (r *CommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CommentRepo) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	return first[domain.Comment](r.db.WithContext(ctx), "id = ?", id)
}

func (r *CommentRepo) Update(ctx context.Context, c *domain.Comment) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CommentRepo) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Comment{})
	return res.RowsAffected, res.Error
}

func (r *CommentRepo) ListByPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	var cs []domain.Comment
	err := r.db.WithContext(ctx).Where("post_id = ?", postID).Order("created_at desc").Find(&cs).Error
	return cs, err
}

func (r *CommentRepo) ListByAuthor(ctx context.Context, authorID string) ([]domain.Comment, error) {
	var cs []domain.Comment
	err := r.db.WithContext(ctx).Where("author_id = ?", authorID).Order("created_at desc").Find(&cs).Error
	return cs, err
}

func (r *CommentRepo) List(ctx context.Context, offset, limit int) ([]domain.Comment, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Comment{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var cs []domain.Comment
	if err := tx.Order("created_at desc").Offset(offset).Limit(limit).Find(&cs).Error; err != nil {
		return nil, 0, err
	}
	return cs, total, nil
}

func (r *CommentRepo) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Comment{}).Where("author_id = ?", authorID).Count(&n).Error
	return n, err
}

func (r *CommentRepo) CountPerPost(ctx context.Context, postIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		PostID string
		N      int64
	}
	err := r.db.WithContext(ctx).Model(&domain.Comment{}).
		Select("post_id, COUNT(*) AS n").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.PostID] = row.N
	}
	return out, nil
}

func (r *CommentRepo) DeleteByPosts(ctx context.Context, postIDs []string) (int64, error) {
	if len(postIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("post_id IN ?", postIDs).Delete(&domain.Comment{})
	return res.RowsAffected, res.Error
}

func (r *CommentRepo) DeleteByAuthor(ctx context.Context, authorID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("author_id = ?", authorID).Delete(&domain.Comment{})
	return res.RowsAffected, res.Error
}
