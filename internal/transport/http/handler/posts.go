package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"newsportal/internal/domain"
	"newsportal/internal/service"
	"newsportal/internal/transport/http/ez"
)

// Posts is the editorial side; drafts are visible here.
type Posts struct{ base }

func (h *Posts) MountAdmin(g *gin.RouterGroup) {
	e := ez.New(g, h.log)

	ez.RegisterAction(e, ez.Action[pageQuery, *service.Page[service.PostView]]{
		Method: http.MethodGet,
		Path:   "/posts",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *pageQuery) (*service.Page[service.PostView], error) {
			return h.svc.AdminPosts(ctx(c), ez.Principal(c), in.Offset, in.Limit)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *service.PostView]{
		Method: http.MethodGet,
		Path:   "/posts/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*service.PostView, error) {
			return h.svc.AdminPost(ctx(c), ez.Principal(c), c.Param("id"))
		},
	})

	ez.RegisterAction(e, ez.Action[service.PostInput, *domain.Post]{
		Method: http.MethodPost,
		Path:   "/posts",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.PostInput) (*domain.Post, error) {
			return h.svc.CreatePost(ctx(c), ez.Principal(c), *in)
		},
	})

	ez.RegisterAction(e, ez.Action[service.PostInput, *domain.Post]{
		Method: http.MethodPut,
		Path:   "/posts/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.PostInput) (*domain.Post, error) {
			return h.svc.UpdatePost(ctx(c), ez.Principal(c), c.Param("id"), *in)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, deleted]{
		Method: http.MethodDelete,
		Path:   "/posts/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (deleted, error) {
			rep, err := h.svc.DeletePost(ctx(c), ez.Principal(c), c.Param("id"))
			if err != nil {
				return deleted{}, err
			}
			return deleted{Message: "post deleted", Report: rep}, nil
		},
	})
}
