package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/identity"
	"github.com/ims/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new user repository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Save persists the user and replaces their location grants
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("AllowedLocations").Save(user).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).
			Delete(&identity.UserLocation{}).Error; err != nil {
			return err
		}
		if len(user.AllowedLocations) == 0 {
			return nil
		}
		return tx.Create(&user.AllowedLocations).Error
	})
}

// FindByID finds a user with their location grants
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var user identity.User
	err := r.db.WithContext(ctx).
		Preload("AllowedLocations").
		First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var user identity.User
	err := r.db.WithContext(ctx).
		Preload("AllowedLocations").
		First(&user, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindAll returns paginated users
func (r *GormUserRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[identity.User], error) {
	query := r.db.WithContext(ctx).Model(&identity.User{})

	if filter.Search != "" {
		query = query.Where("email ILIKE ? OR full_name ILIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	if role, ok := filter.Filters["role"]; ok {
		query = query.Where("role = ?", role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var users []identity.User
	if err := applyFilter(query, filter).Preload("AllowedLocations").Find(&users).Error; err != nil {
		return nil, err
	}

	return shared.NewPaginated(users, total, filter.Page, filter.PageSize), nil
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
