package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/identity"
	"github.com/ims/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TokenIssuer issues and revokes access tokens. The JWT implementation
// lives in the auth infrastructure package.
type TokenIssuer interface {
	Issue(ctx context.Context, user *identity.User) (string, time.Time, error)
	Revoke(ctx context.Context, token string) error
}

// RegisterRequest carries the input for creating a user account
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=admin staff"`
}

// UpdateProfileRequest carries a user's own profile changes
type UpdateProfileRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone,omitempty"`
}

// LoginRequest carries the credentials for a login attempt
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateAccessRequest replaces a user's location scoping
type UpdateAccessRequest struct {
	DefaultLocationID  *uuid.UUID  `json:"default_location_id,omitempty"`
	AllowedLocationIDs []uuid.UUID `json:"allowed_location_ids,omitempty"`
}

// UserResponse is the outward representation of a user
type UserResponse struct {
	ID                 uuid.UUID   `json:"id"`
	Email              string      `json:"email"`
	FullName           string      `json:"full_name"`
	Phone              string      `json:"phone,omitempty"`
	Role               string      `json:"role"`
	IsActive           bool        `json:"is_active"`
	DefaultLocationID  *uuid.UUID  `json:"default_location_id,omitempty"`
	AllowedLocationIDs []uuid.UUID `json:"allowed_location_ids,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
}

// LoginResponse carries the issued token and the authenticated user
type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	ExpiresAt   time.Time     `json:"expires_at"`
	User        *UserResponse `json:"user"`
}

// NewUserResponse maps a user to its response representation
func NewUserResponse(user *identity.User) *UserResponse {
	allowed := make([]uuid.UUID, 0, len(user.AllowedLocations))
	for _, grant := range user.AllowedLocations {
		allowed = append(allowed, grant.LocationID)
	}

	return &UserResponse{
		ID:                 user.ID,
		Email:              user.Email,
		FullName:           user.FullName,
		Phone:              user.Phone,
		Role:               string(user.Role),
		IsActive:           user.IsActive,
		DefaultLocationID:  user.DefaultLocationID,
		AllowedLocationIDs: allowed,
		CreatedAt:          user.CreatedAt,
	}
}

// AuthService handles registration, login and logout
type AuthService struct {
	userRepo identity.UserRepository
	tokens   TokenIssuer
	logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo identity.UserRepository, tokens TokenIssuer, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register creates a new user account
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	if existing, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	role := identity.RoleStaff
	if req.Role != "" {
		role = identity.Role(req.Role)
	}

	user, err := identity.NewUser(req.Email, req.Password, req.FullName, role)
	if err != nil {
		return nil, err
	}
	user.Phone = req.Phone
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return NewUserResponse(user), nil
}

// Login verifies credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	if !user.IsActive || !user.CheckPassword(req.Password) {
		return nil, shared.ErrUnauthorized
	}

	token, expiresAt, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID.String()))

	return &LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        NewUserResponse(user),
	}, nil
}

// Logout revokes the presented token
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// GetUser loads a single user
func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewUserResponse(user), nil
}

// UpdateProfile changes the authenticated user's own profile
func (s *AuthService) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := user.UpdateProfile(req.FullName, req.Phone); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return NewUserResponse(user), nil
}

// UpdateAccess replaces a user's location scoping
func (s *AuthService) UpdateAccess(ctx context.Context, id uuid.UUID, req UpdateAccessRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.SetDefaultLocation(req.DefaultLocationID)
	user.GrantLocations(req.AllowedLocationIDs)

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return NewUserResponse(user), nil
}
