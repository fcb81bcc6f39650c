// Package handler binds the portal's use cases to HTTP routes. Each type mounts itself on the
// user API, the admin API, or both.
package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"newsportal/internal/service"
)

type base struct {
	svc *service.Service
	log *zap.Logger
}

func ctx(c *gin.Context) context.Context { return c.Request.Context() }

type message struct {
	Message string `json:"message"`
}

// Modules returns every handler, ready for router.Registry.
func Modules(svc *service.Service, l *zap.Logger) []any {
	b := base{svc: svc, log: l}
	return []any{
		&Auth{b},
		&Profile{b},
		&Categories{b},
		&News{b},
		&Comments{b},
		&Ratings{b},
		&Posts{b},
		&Users{b},
	}
}
