package middlewares

import (
	"context"
	"net/http"
	"strings"

	"meal-tracker/services/auth"

	"github.com/gin-gonic/gin"
)

const (
	SessionKey = "session"
	TokenKey   = "token"
)

// Resolver maps a bearer token to its live session.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*auth.Session, error)
}

// AuthMiddleware rejects requests without a live session.
func AuthMiddleware(resolver Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearer(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}
		if !attach(c, resolver, token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Next()
	}
}

// OptionalAuthMiddleware attaches the session when a valid token is sent and
// lets anonymous requests through. A token that does not resolve is still rejected.
func OptionalAuthMiddleware(resolver Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearer(c)
		if !ok {
			c.Next()
			return
		}
		if !attach(c, resolver, token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Next()
	}
}

// CurrentSession returns the session attached by the auth middlewares.
func CurrentSession(c *gin.Context) (*auth.Session, bool) {
	return auth.FromContext(c.Request.Context())
}

func bearer(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

func attach(c *gin.Context, resolver Resolver, token string) bool {
	session, err := resolver.Resolve(c.Request.Context(), token)
	if err != nil {
		return false
	}
	c.Set(SessionKey, session)
	c.Set(TokenKey, token)
	c.Request = c.Request.WithContext(auth.WithSession(c.Request.Context(), session))
	return true
}
