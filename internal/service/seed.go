package service

import (
	"context"

	"go.uber.org/zap"

	"newsportal/internal/domain"
	"newsportal/internal/repo"
	"newsportal/pkg/utils"
)

type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

var seedCategories = []domain.Category{
	{Name: "Політика", Slug: "politics", Description: ptr("Політичні новини України та світу")},
	{Name: "Економіка", Slug: "economics", Description: ptr("Економічні новини та аналітика")},
	{Name: "Технології", Slug: "technology", Description: ptr("Новини технологій та IT")},
}

func ptr(s string) *string { return &s }

// Seed inserts the starter categories and the admin account. Existing rows are left as they are,
// so it is safe to run on every start.
func Seed(ctx context.Context, store *repo.Store, opt SeedOptions, l *zap.Logger) error {
	if l == nil {
		l = zap.NewNop()
	}
	return store.Transaction(ctx, func(tx *repo.Store) error {
		for _, c := range seedCategories {
			c.ID = utils.NewID()
			if err := tx.Categories().CreateIfAbsent(ctx, &c); err != nil {
				return domain.Internal("seed category "+c.Slug, err)
			}
		}
		email := normalizeEmail(opt.AdminEmail)
		if email == "" {
			return nil
		}
		existing, err := tx.Users().FindByEmail(ctx, email)
		if err != nil {
			return domain.Internal("load admin", err)
		}
		if existing != nil {
			return nil
		}
		hash, err := utils.HashPassword(opt.AdminPassword)
		if err != nil {
			return domain.Internal("hash admin password", err)
		}
		name := opt.AdminName
		if name == "" {
			name = "Administrator"
		}
		admin := &domain.User{ID: utils.NewID(), Email: email, Name: name, PasswordHash: hash, Role: domain.RoleAdmin}
		if err := tx.Users().Create(ctx, admin); err != nil {
			return domain.Internal("create admin", err)
		}
		l.Info("seeded admin account", zap.String("email", email))
		return nil
	})
}
