package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/ims/backend/internal/application/identity"
	"github.com/ims/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication and user access endpoints
type AuthHandler struct {
	BaseHandler
	authService   *identityapp.AuthService
	accessService *identityapp.AccessService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService, accessService *identityapp.AccessService) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		accessService: accessService,
	}
}

// RegisterRoutes registers auth routes on the given group. Register
// and access updates are admin only, wired by the caller.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	auth := rg.Group("/auth")
	auth.POST("/login", h.Login)
	auth.POST("/logout", h.Logout)
	auth.GET("/me", h.Me)
	auth.PUT("/me", h.UpdateProfile)
	auth.GET("/me/locations", h.MyLocations)
	auth.POST("/register", adminOnly, h.Register)

	users := rg.Group("/users")
	users.GET("/:id", adminOnly, h.GetUser)
	users.PUT("/:id/access", adminOnly, h.UpdateAccess)
}

// Login exchanges credentials for an access token
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Logout revokes the current access token
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.GetToken(c)
	if token == "" {
		h.BadRequest(c, "No token to revoke")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Me returns the authenticated user
func (h *AuthHandler) Me(c *gin.Context) {
	userID := middleware.GetUserID(c)
	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// UpdateProfile changes the authenticated user's own profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req identityapp.UpdateProfileRequest
	if err := bindJSON(c, &req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	user, err := h.authService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// MyLocations returns the locations the authenticated user may act on
func (h *AuthHandler) MyLocations(c *gin.Context) {
	userID := middleware.GetUserID(c)
	locations, err := h.accessService.AccessibleLocations(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, locations)
}

// Register creates a new user account
func (h *AuthHandler) Register(c *gin.Context) {
	var req identityapp.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, user)
}

// GetUser returns a user by ID
func (h *AuthHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// UpdateAccess replaces a user's location scoping
func (h *AuthHandler) UpdateAccess(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	var req identityapp.UpdateAccessRequest
	if err := bindJSON(c, &req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.authService.UpdateAccess(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}
