package service

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"go.uber.org/zap"

	"newsportal/internal/core/auth"
	"newsportal/internal/domain"
	"newsportal/internal/feature/cascade"
	"newsportal/internal/repo"
	"newsportal/pkg/utils"
)

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in RegisterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 64)),
		validation.Field(&in.Email, validation.Required, is.EmailFormat.Error("invalid email address")),
		validation.Field(&in.Password, validation.Required,
			validation.RuneLength(6, 72).Error("password must be 6 to 72 characters")),
	)
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *domain.User `json:"user"`
}

type ProfileInput struct {
	Name        string `json:"name"`
	Bio         string `json:"bio"`
	Image       string `json:"image"`
	BannerColor string `json:"bannerColor"`
}

type ProfileView struct {
	domain.User
	PostCount    int64 `json:"postCount"`
	CommentCount int64 `json:"commentCount"`
}

type UserUpdateInput struct {
	Name string      `json:"name"`
	Role domain.Role `json:"role"`
}

type UserQuery struct {
	Q      string `form:"q"`
	Offset int    `form:"offset"`
	Limit  int    `form:"limit"`
}

func normalizeEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

// Register creates a USER account.
func (s *Service) Register(ctx context.Context, p *domain.Principal, in RegisterInput) (*domain.User, error) {
	if err := auth.Authorize(p, auth.AuthRegister, ""); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := invalid(in.Validate()); err != nil {
		return nil, err
	}
	users := s.store.Users()
	if taken, err := users.FindByEmail(ctx, in.Email); err != nil {
		return nil, domain.Internal("load user", err)
	} else if taken != nil {
		return nil, domain.Conflict("email already registered")
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, domain.Internal("hash password", err)
	}
	u := &domain.User{ID: utils.NewID(), Email: in.Email, Name: in.Name, PasswordHash: hash, Role: domain.RoleUser}
	if err := users.Create(ctx, u); err != nil {
		if repo.IsDuplicateKey(err) {
			return nil, domain.Conflict("email already registered")
		}
		return nil, domain.Internal("create user", err)
	}
	return u, nil
}

// Login exchanges credentials for a bearer token. Unknown email and wrong password look the same.
func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if err := auth.Authorize(nil, auth.AuthLogin, ""); err != nil {
		return nil, err
	}
	in.Email = normalizeEmail(in.Email)
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required),
		validation.Field(&in.Password, validation.Required),
	)
	if err := invalid(err); err != nil {
		return nil, err
	}
	u, err := s.store.Users().FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, domain.Internal("load user", err)
	}
	if u == nil || !utils.CheckPassword(in.Password, u.PasswordHash) {
		return nil, domain.Unauthenticated("invalid email or password")
	}
	tok, err := s.jwt.Issue(u.ID, u.Role)
	if err != nil {
		return nil, domain.Internal("issue token", err)
	}
	return &LoginResult{Token: tok, ExpiresAt: time.Now().Add(s.jwt.TTL), User: u}, nil
}

// Logout revokes the token identified by tokenID for the rest of its lifetime.
func (s *Service) Logout(ctx context.Context, p *domain.Principal, tokenID string, remaining time.Duration) error {
	if err := auth.Authorize(p, auth.AuthLogout, ""); err != nil {
		return err
	}
	if tokenID == "" || remaining <= 0 || s.revoker == nil {
		return nil
	}
	if err := s.revoker.Revoke(ctx, tokenID, remaining); err != nil {
		return domain.Internal("revoke token", err)
	}
	return nil
}

func (s *Service) Profile(ctx context.Context, p *domain.Principal) (*ProfileView, error) {
	if err := auth.Authorize(p, auth.ProfileRead, ""); err != nil {
		return nil, err
	}
	u, err := s.loadUser(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	v := &ProfileView{User: *u}
	if v.PostCount, err = s.store.Posts().CountByAuthor(ctx, u.ID); err != nil {
		return nil, domain.Internal("count posts", err)
	}
	if v.CommentCount, err = s.store.Comments().CountByAuthor(ctx, u.ID); err != nil {
		return nil, domain.Internal("count comments", err)
	}
	return v, nil
}

func (s *Service) UpdateProfile(ctx context.Context, p *domain.Principal, in ProfileInput) (*domain.User, error) {
	if err := auth.Authorize(p, auth.ProfileUpdate, ""); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Bio = strings.TrimSpace(in.Bio)
	in.Image = strings.TrimSpace(in.Image)
	in.BannerColor = strings.TrimSpace(in.BannerColor)
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 64)),
		validation.Field(&in.Bio, validation.Length(0, 500)),
		validation.Field(&in.Image, validation.Length(0, 500)),
		validation.Field(&in.BannerColor, validation.Length(0, 32)),
	)
	if err := invalid(err); err != nil {
		return nil, err
	}
	u, err := s.loadUser(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	u.Name, u.Bio, u.Image, u.BannerColor = in.Name, in.Bio, in.Image, in.BannerColor
	if err := s.store.Users().Update(ctx, u); err != nil {
		return nil, domain.Internal("update user", err)
	}
	return u, nil
}

func (s *Service) Users(ctx context.Context, p *domain.Principal, q UserQuery) (*Page[domain.User], error) {
	if err := auth.Authorize(p, auth.UserRead, ""); err != nil {
		return nil, err
	}
	offset, limit := window(q.Offset, q.Limit)
	users, total, err := s.store.Users().List(ctx, q.Q, offset, limit)
	if err != nil {
		return nil, domain.Internal("list users", err)
	}
	return &Page[domain.User]{Items: users, Total: total, Offset: offset, Limit: limit}, nil
}

func (s *Service) User(ctx context.Context, p *domain.Principal, id string) (*domain.User, error) {
	if err := auth.Authorize(p, auth.UserRead, ""); err != nil {
		return nil, err
	}
	return s.loadUser(ctx, id)
}

func (s *Service) UpdateUser(ctx context.Context, p *domain.Principal, id string, in UserUpdateInput) (*domain.User, error) {
	if err := auth.Authorize(p, auth.UserUpdate, ""); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 64)),
		validation.Field(&in.Role, validation.Required,
			validation.In(domain.RoleUser, domain.RoleAdmin).Error("role must be USER or ADMIN")),
	)
	if err := invalid(err); err != nil {
		return nil, err
	}
	u, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Name, u.Role = in.Name, in.Role
	if err := s.store.Users().Update(ctx, u); err != nil {
		return nil, domain.Internal("update user", err)
	}
	return u, nil
}

func (s *Service) DeleteUser(ctx context.Context, p *domain.Principal, id string) (cascade.Report, error) {
	if err := auth.Authorize(p, auth.UserDelete, ""); err != nil {
		return cascade.Report{}, err
	}
	rep, err := s.cascade.DeleteUser(ctx, id)
	if err != nil {
		return rep, err
	}
	s.log.Info("user deleted", zap.String("id", id), zap.String("by", p.ID),
		zap.Int64("posts", rep.Posts), zap.Int64("comments", rep.Comments), zap.Int64("ratings", rep.Ratings))
	return rep, nil
}

func (s *Service) loadUser(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return nil, domain.Internal("load user", err)
	}
	if u == nil {
		return nil, domain.NotFound("user not found")
	}
	return u, nil
}
