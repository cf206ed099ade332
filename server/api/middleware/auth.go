package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/neuromation/neuro-admin/pkg/token"
)

// RequireAdminToken creates middleware that requires the admin bearer token.
//
// The Authorization header must carry "Bearer <token>"; the token is compared
// with the configured one in constant time. Failures get a generic message so
// callers cannot tell a malformed token from a wrong one.
func RequireAdminToken(verifier *token.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided, err := token.ParseBearer(c.GetHeader("Authorization"))
		if err == nil && !verifier.Verify(provided) {
			err = token.ErrMismatch
		}
		if err != nil {
			GetLogger(c).Debug("authentication failed", zap.Error(err))
			c.Header("WWW-Authenticate", `Bearer realm="neuro-admin"`)
			abortWithError(c, http.StatusUnauthorized, "unauthorized", "Authentication failed")
			return
		}
		c.Next()
	}
}
