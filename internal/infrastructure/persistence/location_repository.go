package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/location"
	"github.com/ims/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormLocationRepository implements location.LocationRepository using GORM
type GormLocationRepository struct {
	db *gorm.DB
}

// NewGormLocationRepository creates a new location repository
func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// Save creates or updates a location
func (r *GormLocationRepository) Save(ctx context.Context, loc *location.Location) error {
	return r.db.WithContext(ctx).Save(loc).Error
}

// FindByID finds a location by ID
func (r *GormLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*location.Location, error) {
	var loc location.Location
	if err := r.db.WithContext(ctx).First(&loc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &loc, nil
}

// FindByIDs finds multiple locations by their IDs
func (r *GormLocationRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]location.Location, error) {
	if len(ids) == 0 {
		return []location.Location{}, nil
	}

	var locations []location.Location
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

// FindAll returns paginated locations
func (r *GormLocationRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[location.Location], error) {
	query := r.db.WithContext(ctx).Model(&location.Location{})

	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if isActive, ok := filter.Filters["is_active"]; ok {
		query = query.Where("is_active = ?", isActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var locations []location.Location
	if err := applyFilter(query, filter).Find(&locations).Error; err != nil {
		return nil, err
	}

	return shared.NewPaginated(locations, total, filter.Page, filter.PageSize), nil
}

// Delete removes a location
func (r *GormLocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&location.Location{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ location.LocationRepository = (*GormLocationRepository)(nil)
