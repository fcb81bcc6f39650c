package auth

import "newsportal/internal/domain"

type Action string

const (
	CategoryList   Action = "category.list"
	CategoryCreate Action = "category.create"
	CategoryUpdate Action = "category.update"
	CategoryDelete Action = "category.delete"

	NewsList   Action = "news.list"
	PostRead   Action = "post.read"
	PostList   Action = "post.list" // admin listing, includes drafts
	PostCreate Action = "post.create"
	PostUpdate Action = "post.update"
	PostDelete Action = "post.delete"

	CommentCreate   Action = "comment.create"
	CommentUpdate   Action = "comment.update"
	CommentDelete   Action = "comment.delete"
	CommentModerate Action = "comment.moderate"

	RatingSubmit Action = "rating.submit"

	UserRead   Action = "user.read"
	UserUpdate Action = "user.update"
	UserDelete Action = "user.delete"

	ProfileRead   Action = "profile.read"
	ProfileUpdate Action = "profile.update"

	AuthRegister Action = "auth.register"
	AuthLogin    Action = "auth.login"
	AuthLogout   Action = "auth.logout"
)

type scope int

const (
	scopePublic scope = iota + 1
	scopeAuthenticated
	scopeOwner
	scopeAdmin
)

var scopes = map[Action]scope{
	CategoryList: scopePublic,
	NewsList:     scopePublic,
	PostRead:     scopePublic,
	AuthRegister: scopePublic,
	AuthLogin:    scopePublic,

	CommentCreate: scopeAuthenticated,
	RatingSubmit:  scopeAuthenticated,
	ProfileRead:   scopeAuthenticated,
	ProfileUpdate: scopeAuthenticated,
	AuthLogout:    scopeAuthenticated,

	CommentUpdate: scopeOwner,
	CommentDelete: scopeOwner,

	CategoryCreate:  scopeAdmin,
	CategoryUpdate:  scopeAdmin,
	CategoryDelete:  scopeAdmin,
	PostList:        scopeAdmin,
	PostCreate:      scopeAdmin,
	PostUpdate:      scopeAdmin,
	PostDelete:      scopeAdmin,
	CommentModerate: scopeAdmin,
	UserRead:        scopeAdmin,
	UserUpdate:      scopeAdmin,
	UserDelete:      scopeAdmin,
}

// Authorize decides whether p may perform a on a resource owned by ownerID.
// It returns nil to allow, or a domain error of kind Unauthenticated or Forbidden.
// ownerID is only consulted for owner-scoped actions.
func Authorize(p *domain.Principal, a Action, ownerID string) error {
	switch scopes[a] {
	case scopePublic:
		return nil
	case scopeAuthenticated:
		if p == nil {
			return domain.Unauthenticated("authentication required")
		}
		return nil
	case scopeOwner:
		if p == nil {
			return domain.Unauthenticated("authentication required")
		}
		if p.IsAdmin() || (ownerID != "" && p.ID == ownerID) {
			return nil
		}
		return domain.Forbidden("access denied")
	case scopeAdmin:
		if p.IsAdmin() {
			return nil
		}
		return domain.Forbidden("access denied")
	default:
		return domain.Forbidden("access denied")
	}
}
