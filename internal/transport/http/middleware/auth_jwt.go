package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"newsportal/internal/core/auth"
	"newsportal/internal/transport/http/ez"
	resp "newsportal/internal/transport/http/response"
)

// AuthJWT resolves the caller from a bearer token. Requests without an Authorization header
// continue anonymously; a bad, expired or revoked token is rejected. Access rules are applied
// later by the service layer.
func AuthJWT(j *auth.JWTer, rv auth.Revoker, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if ah == "" {
			c.Next()
			return
		}
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.Abort(c, resp.CodeUnauthorized, "invalid token")
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			resp.Abort(c, resp.CodeUnauthorized, "invalid token")
			return
		}
		if rv != nil && claims.ID != "" {
			revoked, err := rv.IsRevoked(c, claims.ID)
			if err != nil {
				l.Error("token revocation lookup", zap.Error(err), zap.String("rid", c.GetString(KeyRequestID)))
				resp.Abort(c, resp.CodeServerError, "internal error")
				return
			}
			if revoked {
				resp.Abort(c, resp.CodeUnauthorized, "token revoked")
				return
			}
		}
		ez.SetClaims(c, claims)
		c.Next()
	}
}
