package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Store bundles the entity repositories over one *gorm.DB, which may be a transaction.
type Store struct{ db *gorm.DB }

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) Users() *UserRepo         { return &UserRepo{db: s.db} }
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{db: s.db} }
func (s *Store) Posts() *PostRepo         { return &PostRepo{db: s.db} }
func (s *Store) Comments() *CommentRepo   { return &CommentRepo{db: s.db} }
func (s *Store) Ratings() *RatingRepo     { return &RatingRepo{db: s.db} }

// Transaction runs fn against a transactional Store. Returning an error rolls back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// IsDuplicateKey reports a unique constraint violation. Drivers word it differently
// and gorm only translates when TranslateError is on, so fall back to the message.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}

func first[T any](q *gorm.DB, where string, args ...any) (*T, error) {
	var v T
	err := q.Where(where, args...).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}
