package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/partner"
	"github.com/ims/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSupplierRepository implements partner.SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new supplier repository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// Save creates or updates a supplier
func (r *GormSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

// FindByID finds a supplier by ID
func (r *GormSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	var supplier partner.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

// FindByTaxID finds a supplier by its unique tax ID
func (r *GormSupplierRepository) FindByTaxID(ctx context.Context, taxID string) (*partner.Supplier, error) {
	var supplier partner.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "tax_id = ?", taxID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

// FindAll returns paginated suppliers
func (r *GormSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[partner.Supplier], error) {
	query := r.db.WithContext(ctx).Model(&partner.Supplier{})

	if filter.Search != "" {
		query = query.Where("name ILIKE ? OR tax_id ILIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	if isActive, ok := filter.Filters["is_active"]; ok {
		query = query.Where("is_active = ?", isActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var suppliers []partner.Supplier
	if err := applyFilter(query, filter).Find(&suppliers).Error; err != nil {
		return nil, err
	}

	return shared.NewPaginated(suppliers, total, filter.Page, filter.PageSize), nil
}

// LastPurchaseDate returns the newest order date among the supplier's
// purchase orders, or nil when there are none
func (r *GormSupplierRepository) LastPurchaseDate(ctx context.Context, supplierID uuid.UUID) (*time.Time, error) {
	var last *time.Time
	err := r.db.WithContext(ctx).
		Table("purchase_orders").
		Where("supplier_id = ?", supplierID).
		Select("MAX(order_date)").
		Scan(&last).Error
	if err != nil {
		return nil, err
	}
	return last, nil
}

// Delete removes a supplier. The foreign key from purchase orders is
// RESTRICT, so the database refuses while orders still reference it.
func (r *GormSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&partner.Supplier{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ partner.SupplierRepository = (*GormSupplierRepository)(nil)
