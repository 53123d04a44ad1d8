package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ims/backend/internal/domain/identity"
	"github.com/ims/backend/internal/infrastructure/auth"
	"github.com/ims/backend/internal/infrastructure/config"
)

func newTestRouter(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-for-middleware",
		AccessTokenExpiration: time.Hour,
		Issuer:                "ims-test",
	}, auth.NewInMemoryTokenBlacklist())

	engine := gin.New()
	engine.Use(RequestID())
	engine.Use(JWTAuth(JWTConfig{
		JWTService: jwtService,
		SkipPaths:  []string{"/public"},
	}))
	engine.GET("/public", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/private", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c).String(), "role": c.GetString(JWTRoleKey)})
	})
	engine.GET("/admin", AdminOnly(), func(c *gin.Context) { c.Status(http.StatusOK) })

	return engine, jwtService
}

func issueToken(t *testing.T, jwtService *auth.JWTService, role identity.Role) string {
	t.Helper()
	user, err := identity.NewUser("mw@example.com", "password123", "Middleware User", role)
	require.NoError(t, err)

	token, _, err := jwtService.Issue(context.Background(), user)
	require.NoError(t, err)
	return token
}

func TestJWTAuthSkipPath(t *testing.T) {
	engine, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthMissingToken(t *testing.T) {
	engine, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestJWTAuthValidToken(t *testing.T) {
	engine, jwtService := newTestRouter(t)
	token := issueToken(t, jwtService, identity.RoleStaff)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "staff")
}

func TestJWTAuthMalformedHeader(t *testing.T) {
	engine, jwtService := newTestRouter(t)
	token := issueToken(t, jwtService, identity.RoleStaff)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", token)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminOnly(t *testing.T) {
	engine, jwtService := newTestRouter(t)

	staffToken := issueToken(t, jwtService, identity.RoleStaff)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+staffToken)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminToken := issueToken(t, jwtService, identity.RoleAdmin)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
