package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"meal-tracker/services/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubResolver map[string]*auth.Session

func (s stubResolver) Resolve(ctx context.Context, token string) (*auth.Session, error) {
	if session, ok := s[token]; ok {
		return session, nil
	}
	return nil, auth.ErrSessionNotFound
}

func newEngine(middleware gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/whoami", middleware, func(c *gin.Context) {
		session, ok := CurrentSession(c)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"user_id": ""})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": session.UserID, "token": c.GetString(TokenKey)})
	})
	return engine
}

func request(engine *gin.Engine, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	engine.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	resolver := stubResolver{"good": {ID: "s1", UserID: "user-1"}}
	engine := newEngine(AuthMiddleware(resolver))

	w := request(engine, "Bearer good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"user-1","token":"good"}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, request(engine, "").Code)
	assert.Equal(t, http.StatusUnauthorized, request(engine, "Basic good").Code)
	assert.Equal(t, http.StatusUnauthorized, request(engine, "Bearer bad").Code)
}

func TestOptionalAuthMiddleware(t *testing.T) {
	resolver := stubResolver{"good": {ID: "s1", UserID: "user-1"}}
	engine := newEngine(OptionalAuthMiddleware(resolver))

	w := request(engine, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":""}`, w.Body.String())

	w = request(engine, "Bearer good")
	assert.JSONEq(t, `{"user_id":"user-1","token":"good"}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, request(engine, "Bearer bad").Code)
}
