package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role represents a user's role in the system
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleStaff
}

// User is the aggregate root for authentication and access scoping.
// Admins can reach every active location; staff are limited to their
// AllowedLocationIDs, falling back to DefaultLocationID when the set
// is empty, and to nothing at all when neither is configured.
type User struct {
	shared.BaseAggregateRoot
	Email             string         `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash      string         `gorm:"type:varchar(255);not null"`
	FullName          string         `gorm:"type:varchar(100);not null"`
	Phone             string         `gorm:"type:varchar(50)"`
	Role              Role           `gorm:"type:varchar(20);not null;default:'staff'"`
	IsActive          bool           `gorm:"not null;default:true"`
	DefaultLocationID *uuid.UUID     `gorm:"type:uuid"`
	AllowedLocations  []UserLocation `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// UserLocation grants a staff user access to one location
type UserLocation struct {
	UserID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	LocationID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// TableName returns the table name for GORM
func (UserLocation) TableName() string {
	return "user_locations"
}

// NewUser creates a new user with a bcrypt-hashed password
func NewUser(email, password, fullName string, role Role) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_EMAIL", "A valid email address is required")
	}
	if len(password) < 8 {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters long")
	}
	if strings.TrimSpace(fullName) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Full name is required")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		PasswordHash:      string(hash),
		FullName:          strings.TrimSpace(fullName),
		Role:              role,
		IsActive:          true,
	}, nil
}

// CheckPassword verifies a plaintext password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword replaces the stored hash
func (u *User) ChangePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters long")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// UpdateProfile changes the user's display name and phone number
func (u *User) UpdateProfile(fullName, phone string) error {
	if strings.TrimSpace(fullName) == "" {
		return shared.NewDomainError("INVALID_NAME", "Full name is required")
	}

	u.FullName = strings.TrimSpace(fullName)
	u.Phone = strings.TrimSpace(phone)
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// SetDefaultLocation sets the fallback location for scoping
func (u *User) SetDefaultLocation(locationID *uuid.UUID) {
	u.DefaultLocationID = locationID
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// GrantLocations replaces the explicit location grants
func (u *User) GrantLocations(locationIDs []uuid.UUID) {
	grants := make([]UserLocation, 0, len(locationIDs))
	seen := make(map[uuid.UUID]struct{}, len(locationIDs))
	for _, id := range locationIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		grants = append(grants, UserLocation{UserID: u.ID, LocationID: id})
	}

	u.AllowedLocations = grants
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// ScopedLocationIDs resolves which location IDs scope this user's
// queries. The second return value is true for admins, who are not
// limited to a fixed set.
func (u *User) ScopedLocationIDs() ([]uuid.UUID, bool) {
	if u.IsAdmin() {
		return nil, true
	}
	if len(u.AllowedLocations) > 0 {
		ids := make([]uuid.UUID, 0, len(u.AllowedLocations))
		for _, grant := range u.AllowedLocations {
			ids = append(ids, grant.LocationID)
		}
		return ids, false
	}
	if u.DefaultLocationID != nil {
		return []uuid.UUID{*u.DefaultLocationID}, false
	}
	return nil, false
}

// CanAccessLocation checks a single location against the user's scope
func (u *User) CanAccessLocation(locationID uuid.UUID) bool {
	ids, all := u.ScopedLocationIDs()
	if all {
		return true
	}
	for _, id := range ids {
		if id == locationID {
			return true
		}
	}
	return false
}

// Deactivate marks the user as inactive
func (u *User) Deactivate() {
	u.IsActive = false
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}
