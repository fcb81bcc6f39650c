package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"newsportal/internal/core/auth"
	"newsportal/internal/core/config"
	"newsportal/internal/core/server"
	mdw "newsportal/internal/transport/http/middleware"
)

type Deps struct {
	Log      *zap.Logger
	JWT      *auth.JWTer
	Revoker  auth.Revoker
	Limits   config.Limits
	Registry *Registry
}

// NewAPIEngine serves the reader-facing API under /api/v1.
func NewAPIEngine(d Deps) *gin.Engine {
	r := newEngine(d, "api")
	d.Registry.MountAllAPI(r.Group("/api/v1"))
	return r
}

func newEngine(d Deps, name string) *gin.Engine {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	lim := withDefaults(d.Limits)
	r := server.NewRouter(d.Log)
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(rate.Limit(lim.RPS), lim.Burst),
		mdw.RateLimitPerIP(rate.Limit(lim.PerIPRPS), lim.PerIPBurst, lim.PerIPBuckets),
		mdw.ConcurrencyLimit(lim.MaxInFlight),
		mdw.MaxBodyBytes(lim.MaxBodyBytes),
		mdw.Timeout(time.Duration(lim.RequestTimeoutSec)*time.Second),
		mdw.SimpleRecovery(d.Log),
		mdw.Metrics(name),
		mdw.AccessLog(d.Log),
		mdw.AuthJWT(d.JWT, d.Revoker, d.Log),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", mdw.MetricsHandler())
	return r
}

// withDefaults fills unset limits so a zero Limits never blocks every request.
func withDefaults(l config.Limits) config.Limits {
	if l.RPS <= 0 {
		l.RPS, l.Burst = 200, 400
	}
	if l.Burst <= 0 {
		l.Burst = max(1, int(l.RPS*2))
	}
	if l.PerIPRPS <= 0 {
		l.PerIPRPS, l.PerIPBurst = 20, 40
	}
	if l.PerIPBurst <= 0 {
		l.PerIPBurst = max(1, int(l.PerIPRPS*2))
	}
	if l.MaxInFlight <= 0 {
		l.MaxInFlight = 300
	}
	if l.MaxBodyBytes <= 0 {
		l.MaxBodyBytes = 16 << 20
	}
	if l.RequestTimeoutSec <= 0 {
		l.RequestTimeoutSec = 10
	}
	return l
}
