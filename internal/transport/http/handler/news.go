package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"newsportal/internal/service"
	"newsportal/internal/transport/http/ez"
)

// News is the public reading side.
type News struct{ base }

func (h *News) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g, h.log)

	ez.RegisterAction(e, ez.Action[service.NewsQuery, *service.Page[service.PostView]]{
		Method: http.MethodGet,
		Path:   "/news",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *service.NewsQuery) (*service.Page[service.PostView], error) {
			return h.svc.News(ctx(c), ez.Principal(c), *in)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *service.PostDetail]{
		Method: http.MethodGet,
		Path:   "/news/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*service.PostDetail, error) {
			return h.svc.Article(ctx(c), ez.Principal(c), c.Param("id"))
		},
	})
}
