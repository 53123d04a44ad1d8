package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ims/backend/internal/infrastructure/auth"
	"github.com/ims/backend/internal/interfaces/http/dto"
)

// Context keys set by the JWT middleware
const (
	JWTClaimsKey = "jwt_claims"
	JWTUserIDKey = "jwt_user_id"
	JWTRoleKey   = "jwt_role"
	JWTTokenKey  = "jwt_token"

	authHeaderKey = "Authorization"
	bearerPrefix  = "Bearer "
)

// JWTConfig holds JWT middleware configuration
type JWTConfig struct {
	JWTService *auth.JWTService
	// SkipPaths are exact paths that do not require authentication
	SkipPaths []string
	Logger    *zap.Logger
}

// JWTAuth validates the bearer token and stores its claims in the context
func JWTAuth(cfg JWTConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		authHeader := c.GetHeader(authHeaderKey)
		if authHeader == "" {
			abortUnauthorized(c, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, bearerPrefix)
		claims, err := cfg.JWTService.Validate(c.Request.Context(), tokenString)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Debug("Token validation failed",
					zap.Error(err),
					zap.String("path", c.Request.URL.Path),
				)
			}
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTRoleKey, claims.Role)
		c.Set(JWTTokenKey, tokenString)
		c.Next()
	}
}

// AdminOnly rejects requests whose token does not carry the admin role
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(JWTRoleKey) != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(
				dto.ErrCodeForbidden,
				"Administrator role required",
				GetRequestID(c),
			))
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user's ID, uuid.Nil when unauthenticated
func GetUserID(c *gin.Context) uuid.UUID {
	idStr := c.GetString(JWTUserIDKey)
	if idStr == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// GetToken returns the raw bearer token for the current request
func GetToken(c *gin.Context) string {
	return c.GetString(JWTTokenKey)
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
		dto.ErrCodeUnauthorized,
		message,
		GetRequestID(c),
	))
}
