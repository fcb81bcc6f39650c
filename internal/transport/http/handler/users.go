package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"newsportal/internal/domain"
	"newsportal/internal/service"
	"newsportal/internal/transport/http/ez"
)

type Users struct{ base }

func (h *Users) MountAdmin(g *gin.RouterGroup) {
	e := ez.New(g, h.log)

	ez.RegisterAction(e, ez.Action[service.UserQuery, *service.Page[domain.User]]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *service.UserQuery) (*service.Page[domain.User], error) {
			return h.svc.Users(ctx(c), ez.Principal(c), *in)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return h.svc.User(ctx(c), ez.Principal(c), c.Param("id"))
		},
	})

	ez.RegisterAction(e, ez.Action[service.UserUpdateInput, *domain.User]{
		Method: http.MethodPut,
		Path:   "/users/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.UserUpdateInput) (*domain.User, error) {
			return h.svc.UpdateUser(ctx(c), ez.Principal(c), c.Param("id"), *in)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, deleted]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (deleted, error) {
			rep, err := h.svc.DeleteUser(ctx(c), ez.Principal(c), c.Param("id"))
			if err != nil {
				return deleted{}, err
			}
			return deleted{Message: "user deleted", Report: rep}, nil
		},
	})
}
