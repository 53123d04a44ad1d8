package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/inventory"
	"github.com/ims/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormMovementRepository implements inventory.MovementRepository using
// GORM. The ledger is append-only, so only Create is ever issued.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new movement repository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Save appends a movement to the ledger
func (r *GormMovementRepository) Save(ctx context.Context, movement *inventory.Movement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindByID finds a movement by ID
func (r *GormMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Movement, error) {
	var movement inventory.Movement
	if err := r.db.WithContext(ctx).First(&movement, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// FindAll returns the paginated ledger
func (r *GormMovementRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[inventory.Movement], error) {
	return r.FindByLocations(ctx, nil, filter)
}

// FindByLocations returns paginated movements limited to the given
// locations; a nil slice means no restriction.
func (r *GormMovementRepository) FindByLocations(ctx context.Context, locationIDs []uuid.UUID, filter shared.Filter) (*shared.Paginated[inventory.Movement], error) {
	query := r.db.WithContext(ctx).Model(&inventory.Movement{})
	if locationIDs != nil {
		if len(locationIDs) == 0 {
			return shared.NewPaginated([]inventory.Movement{}, 0, filter.Page, filter.PageSize), nil
		}
		query = query.Where("location_id IN ? OR destination_location_id IN ?", locationIDs, locationIDs)
	}
	if productID, ok := filter.Filters["product_id"]; ok {
		query = query.Where("product_id = ?", productID)
	}
	if movementType, ok := filter.Filters["type"]; ok {
		query = query.Where("type = ?", movementType)
	}
	if reference, ok := filter.Filters["reference"]; ok {
		query = query.Where("reference = ?", reference)
	}
	if dateFrom, ok := filter.Filters["date_from"]; ok {
		query = query.Where("created_at >= ?", dateFrom)
	}
	if dateTo, ok := filter.Filters["date_to"]; ok {
		query = query.Where("created_at < ?", dateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var movements []inventory.Movement
	if err := applyFilter(query, filter).Find(&movements).Error; err != nil {
		return nil, err
	}

	return shared.NewPaginated(movements, total, filter.Page, filter.PageSize), nil
}

var _ inventory.MovementRepository = (*GormMovementRepository)(nil)
