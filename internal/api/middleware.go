package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/SO-Ctrix/Node-Packer/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ctxKey string

const (
	CtxClaims    ctxKey = "claims"
	CtxRequestID ctxKey = "request_id"
)

const headerRequestID = "X-Request-ID"

// RequestID tags every request with an id, reusing the caller's
// X-Request-ID when present. Error logs carry the same id.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(string(CtxRequestID), id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(string(CtxRequestID))
}

// RequireWrite demands a bearer token with the write scope. It lets every
// request through when no signing key is configured.
func RequireWrite(signingKey []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(signingKey) == 0 {
			c.Next()
			return
		}
		authz := c.GetHeader("Authorization")
		if authz == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		parts := strings.SplitN(authz, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}
		claims, err := auth.ParseToken(signingKey, parts[1], auth.ScopeWrite)
		switch {
		case errors.Is(err, auth.ErrMissingScope):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient scope"})
			return
		case err != nil:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(string(CtxClaims), claims)
		c.Next()
	}
}

// actor names who made a write request: the token subject, or "anonymous"
// when the write routes are open.
func actor(c *gin.Context) string {
	if v, ok := c.Get(string(CtxClaims)); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims.Subject
		}
	}
	return "anonymous"
}
