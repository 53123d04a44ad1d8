package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/inventory"
	"github.com/ims/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockRepository implements inventory.StockRepository using GORM
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new stock repository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// GetOrCreate returns the stock record for the pair, inserting an
// empty one if missing. The insert ignores conflicts so concurrent
// first movements for the same pair cannot fail on the unique index.
func (r *GormStockRepository) GetOrCreate(ctx context.Context, productID, locationID uuid.UUID) (*inventory.LocationStock, error) {
	stock := inventory.NewLocationStock(productID, locationID)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "location_id"}},
			DoNothing: true,
		}).
		Create(stock).Error; err != nil {
		return nil, err
	}

	return r.find(ctx, r.db, productID, locationID)
}

// FindForUpdate loads the stock record with SELECT ... FOR UPDATE so
// concurrent movements on the same pair serialize on the row lock.
// Only meaningful inside a transaction.
func (r *GormStockRepository) FindForUpdate(ctx context.Context, productID, locationID uuid.UUID) (*inventory.LocationStock, error) {
	return r.find(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), productID, locationID)
}

func (r *GormStockRepository) find(ctx context.Context, db *gorm.DB, productID, locationID uuid.UUID) (*inventory.LocationStock, error) {
	var stock inventory.LocationStock
	err := db.WithContext(ctx).
		First(&stock, "product_id = ? AND location_id = ?", productID, locationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &stock, nil
}

// FindByProduct finds all stock records for a product
func (r *GormStockRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.LocationStock, error) {
	var stocks []inventory.LocationStock
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// FindByLocation returns paginated stock records for one location
func (r *GormStockRepository) FindByLocation(ctx context.Context, locationID uuid.UUID, filter shared.Filter) (*shared.Paginated[inventory.LocationStock], error) {
	return r.FindByLocations(ctx, []uuid.UUID{locationID}, filter)
}

// FindByLocations returns paginated stock records limited to the given
// locations; a nil slice means no restriction.
func (r *GormStockRepository) FindByLocations(ctx context.Context, locationIDs []uuid.UUID, filter shared.Filter) (*shared.Paginated[inventory.LocationStock], error) {
	query := r.db.WithContext(ctx).Model(&inventory.LocationStock{})
	if locationIDs != nil {
		if len(locationIDs) == 0 {
			return shared.NewPaginated([]inventory.LocationStock{}, 0, filter.Page, filter.PageSize), nil
		}
		query = query.Where("location_id IN ?", locationIDs)
	}
	if productID, ok := filter.Filters["product_id"]; ok {
		query = query.Where("product_id = ?", productID)
	}
	if hasStock, ok := filter.Filters["has_stock"]; ok && hasStock == true {
		query = query.Where("quantity > 0")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var stocks []inventory.LocationStock
	if err := applyFilter(query, filter).Find(&stocks).Error; err != nil {
		return nil, err
	}

	return shared.NewPaginated(stocks, total, filter.Page, filter.PageSize), nil
}

// SaveWithLock persists the record with a version check. A row changed
// by someone else since it was read yields a concurrency conflict.
func (r *GormStockRepository) SaveWithLock(ctx context.Context, stock *inventory.LocationStock) error {
	result := r.db.WithContext(ctx).
		Model(stock).
		Where("id = ? AND version = ?", stock.ID, stock.Version-1).
		Updates(map[string]interface{}{
			"quantity":   stock.Quantity,
			"version":    stock.Version,
			"updated_at": stock.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

var _ inventory.StockRepository = (*GormStockRepository)(nil)
