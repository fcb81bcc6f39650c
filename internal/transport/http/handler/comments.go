package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"newsportal/internal/domain"
	"newsportal/internal/service"
	"newsportal/internal/transport/http/ez"
)

type Comments struct{ base }

type commentEdit struct {
	Content string `json:"content"`
}

type pageQuery struct {
	Offset int `form:"offset"`
	Limit  int `form:"limit"`
}

func (h *Comments) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g, h.log)

	ez.RegisterAction(e, ez.Action[service.CommentInput, *domain.Comment]{
		Method: http.MethodPost,
		Path:   "/comments",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.CommentInput) (*domain.Comment, error) {
			return h.svc.CreateComment(ctx(c), ez.Principal(c), *in)
		},
	})

	ez.RegisterAction(e, ez.Action[commentEdit, *domain.Comment]{
		Method: http.MethodPut,
		Path:   "/comments/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *commentEdit) (*domain.Comment, error) {
			return h.svc.UpdateComment(ctx(c), ez.Principal(c), c.Param("id"), in.Content)
		},
	})

	h.mountDelete(e)
}

func (h *Comments) MountAdmin(g *gin.RouterGroup) {
	e := ez.New(g, h.log)

	ez.RegisterAction(e, ez.Action[pageQuery, *service.Page[service.CommentView]]{
		Method: http.MethodGet,
		Path:   "/comments",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *pageQuery) (*service.Page[service.CommentView], error) {
			return h.svc.AdminComments(ctx(c), ez.Principal(c), in.Offset, in.Limit)
		},
	})

	h.mountDelete(e)
}

func (h *Comments) mountDelete(e ez.Group) {
	ez.RegisterAction(e, ez.Action[struct{}, message]{
		Method: http.MethodDelete,
		Path:   "/comments/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (message, error) {
			if err := h.svc.DeleteComment(ctx(c), ez.Principal(c), c.Param("id")); err != nil {
				return message{}, err
			}
			return message{Message: "comment deleted"}, nil
		},
	})
}

type Ratings struct{ base }

func (h *Ratings) MountAPI(g *gin.RouterGroup) {
	ez.RegisterAction(ez.New(g, h.log), ez.Action[service.RatingInput, *service.RatingResult]{
		Method: http.MethodPost,
		Path:   "/ratings",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.RatingInput) (*service.RatingResult, error) {
			return h.svc.SubmitRating(ctx(c), ez.Principal(c), *in)
		},
	})
}
