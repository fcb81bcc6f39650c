package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"newsportal/internal/domain"
)

type RatingRepo struct{ db *gorm.DB }

// RatingStats is the raw aggregate for one post.
type RatingStats struct {
	PostID string
	N      int64
	Total  int64
}

// Upsert inserts r or, when (user_id, post_id) already exists, overwrites that row's value.
// The existing row keeps its id; r.ID is only used for a fresh insert.
func (r *RatingRepo) Upsert(ctx context.Context, rt *domain.Rating) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(rt).Error
}

func (r *RatingRepo) FindByPair(ctx context.Context, userID, postID string) (*domain.Rating, error) {
	return first[domain.Rating](r.db.WithContext(ctx), "user_id = ? AND post_id = ?", userID, postID)
}

func (r *RatingRepo) CountByPost(ctx context.Context, postID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Rating{}).Where("post_id = ?", postID).Count(&n).Error
	return n, err
}

func (r *RatingRepo) Stats(ctx context.Context, postID string) (RatingStats, error) {
	st := RatingStats{PostID: postID}
	err := r.db.WithContext(ctx).Model(&domain.Rating{}).
		Select("COUNT(*) AS n, COALESCE(SUM(value), 0) AS total").
		Where("post_id = ?", postID).
		Scan(&st).Error
	st.PostID = postID
	return st, err
}

func (r *RatingRepo) StatsPerPost(ctx context.Context, postIDs []string) (map[string]RatingStats, error) {
	out := make(map[string]RatingStats, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var rows []RatingStats
	err := r.db.WithContext(ctx).Model(&domain.Rating{}).
		Select("post_id, COUNT(*) AS n, COALESCE(SUM(value), 0) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.PostID] = row
	}
	return out, nil
}

func (r *RatingRepo) DeleteByPosts(ctx context.Context, postIDs []string) (int64, error) {
	if len(postIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("post_id IN ?", postIDs).Delete(&domain.Rating{})
	return res.RowsAffected, res.Error
}

func (r *RatingRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.Rating{})
	return res.RowsAffected, res.Error
}
