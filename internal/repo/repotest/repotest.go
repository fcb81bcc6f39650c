// Package repotest opens throwaway sqlite stores and seeds fixtures for tests.
package repotest

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"newsportal/internal/core/database"
	"newsportal/internal/domain"
	"newsportal/internal/repo"
	"newsportal/pkg/utils"
)

// NewStore returns a migrated Store backed by a sqlite file under t.TempDir().
// The pool holds a single connection, so code inside a transaction must use the tx store.
func NewStore(t testing.TB) *repo.Store {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          "file:" + filepath.Join(t.TempDir(), "news.db") + "?_busy_timeout=5000",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return repo.NewStore(db)
}

var seq int

func next() int { seq++; return seq }

func User(t testing.TB, s *repo.Store, role domain.Role) *domain.User {
	t.Helper()
	n := next()
	u := &domain.User{
		ID:           utils.NewID(),
		Email:        fmt.Sprintf("user%d@example.com", n),
		Name:         fmt.Sprintf("user %d", n),
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, s.Users().Create(context.Background(), u))
	return u
}

func Category(t testing.TB, s *repo.Store, slug string) *domain.Category {
	t.Helper()
	c := &domain.Category{ID: utils.NewID(), Name: slug, Slug: slug}
	require.NoError(t, s.Categories().Create(context.Background(), c))
	return c
}

// Post creates a published post; categoryID may be empty.
func Post(t testing.TB, s *repo.Store, authorID, categoryID string) *domain.Post {
	t.Helper()
	now := time.Now()
	p := &domain.Post{
		ID:          utils.NewID(),
		Title:       fmt.Sprintf("post %d", next()),
		Content:     "body",
		Published:   true,
		PublishedAt: &now,
		AuthorID:    authorID,
	}
	if categoryID != "" {
		p.CategoryID = &categoryID
	}
	require.NoError(t, s.Posts().Create(context.Background(), p))
	return p
}

func Comment(t testing.TB, s *repo.Store, authorID, postID string) *domain.Comment {
	t.Helper()
	c := &domain.Comment{ID: utils.NewID(), Content: "nice", AuthorID: authorID, PostID: postID}
	require.NoError(t, s.Comments().Create(context.Background(), c))
	return c
}

func Rating(t testing.TB, s *repo.Store, userID, postID string, value int) *domain.Rating {
	t.Helper()
	r := &domain.Rating{ID: utils.NewID(), Value: value, UserID: userID, PostID: postID}
	require.NoError(t, s.Ratings().Upsert(context.Background(), r))
	return r
}
