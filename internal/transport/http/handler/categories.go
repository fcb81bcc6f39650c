package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"newsportal/internal/domain"
	"newsportal/internal/feature/cascade"
	"newsportal/internal/service"
	"newsportal/internal/transport/http/ez"
)

type Categories struct{ base }

type deleted struct {
	Message string         `json:"message"`
	Report  cascade.Report `json:"report"`
}

func (h *Categories) MountAPI(g *gin.RouterGroup) {
	ez.RegisterAction(ez.New(g, h.log), ez.Action[struct{}, []service.CategoryView]{
		Method: http.MethodGet,
		Path:   "/categories",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]service.CategoryView, error) {
			return h.svc.Categories(ctx(c), ez.Principal(c))
		},
	})
}

func (h *Categories) MountAdmin(g *gin.RouterGroup) {
	e := ez.New(g, h.log)

	ez.RegisterAction(e, ez.Action[struct{}, []service.CategoryView]{
		Method: http.MethodGet,
		Path:   "/categories",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]service.CategoryView, error) {
			return h.svc.AdminCategories(ctx(c), ez.Principal(c))
		},
	})

	ez.RegisterAction(e, ez.Action[service.CategoryInput, *domain.Category]{
		Method: http.MethodPost,
		Path:   "/categories",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.CategoryInput) (*domain.Category, error) {
			return h.svc.CreateCategory(ctx(c), ez.Principal(c), *in)
		},
	})

	ez.RegisterAction(e, ez.Action[service.CategoryInput, *domain.Category]{
		Method: http.MethodPut,
		Path:   "/categories/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.CategoryInput) (*domain.Category, error) {
			return h.svc.UpdateCategory(ctx(c), ez.Principal(c), c.Param("id"), *in)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, deleted]{
		Method: http.MethodDelete,
		Path:   "/categories/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (deleted, error) {
			rep, err := h.svc.DeleteCategory(ctx(c), ez.Principal(c), c.Param("id"))
			if err != nil {
				return deleted{}, err
			}
			return deleted{Message: "category deleted", Report: rep}, nil
		},
	})
}
