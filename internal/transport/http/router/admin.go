package router

import "github.com/gin-gonic/gin"

// NewAdminEngine serves the management API under /admin/v1. Access is decided per action
// in the service layer, so it shares the user engine's middleware chain.
func NewAdminEngine(d Deps) *gin.Engine {
	r := newEngine(d, "admin")
	d.Registry.MountAllAdmin(r.Group("/admin/v1"))
	return r
}
