package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"newsportal/internal/domain"
	"newsportal/internal/service"
	"newsportal/internal/transport/http/ez"
)

type Auth struct{ base }

func (h *Auth) Priority() int { return 10 }

type registerOut struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

func (h *Auth) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g, h.log)

	ez.RegisterAction(e, ez.Action[service.RegisterInput, registerOut]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.RegisterInput) (registerOut, error) {
			u, err := h.svc.Register(ctx(c), ez.Principal(c), *in)
			if err != nil {
				return registerOut{}, err
			}
			return registerOut{Message: "registration successful", User: u}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[service.LoginInput, *service.LoginResult]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.LoginInput) (*service.LoginResult, error) {
			return h.svc.Login(ctx(c), *in)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, message]{
		Method: http.MethodPost,
		Path:   "/auth/logout",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (message, error) {
			var tokenID string
			var remaining time.Duration
			if cl := ez.Claims(c); cl != nil {
				tokenID, remaining = cl.ID, cl.Remaining()
			}
			if err := h.svc.Logout(ctx(c), ez.Principal(c), tokenID, remaining); err != nil {
				return message{}, err
			}
			return message{Message: "logged out"}, nil
		},
	})
}

type Profile struct{ base }

func (h *Profile) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g, h.log)

	ez.RegisterAction(e, ez.Action[struct{}, *service.ProfileView]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*service.ProfileView, error) {
			return h.svc.Profile(ctx(c), ez.Principal(c))
		},
	})

	ez.RegisterAction(e, ez.Action[service.ProfileInput, *domain.User]{
		Method: http.MethodPut,
		Path:   "/me",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.ProfileInput) (*domain.User, error) {
			return h.svc.UpdateProfile(ctx(c), ez.Principal(c), *in)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []service.CommentView]{
		Method: http.MethodGet,
		Path:   "/me/comments",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]service.CommentView, error) {
			return h.svc.MyComments(ctx(c), ez.Principal(c))
		},
	})
}
