package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/purchasing"
	"github.com/ims/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPurchaseOrderRepository implements
// purchasing.PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new purchase order repository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// Save persists the order and its items. Item updates replace the
// whole association set, matching the aggregate's ReplaceItems.
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *purchasing.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(order).Error; err != nil {
			return err
		}
		if err := tx.Where("purchase_order_id = ?", order.ID).
			Delete(&purchasing.PurchaseOrderItem{}).Error; err != nil {
			return err
		}
		if len(order.Items) == 0 {
			return nil
		}
		for i := range order.Items {
			order.Items[i].PurchaseOrderID = order.ID
		}
		return tx.Create(&order.Items).Error
	})
}

// SaveWithLock persists the order fields with a version check,
// yielding a concurrency conflict when the row moved underneath us
func (r *GormPurchaseOrderRepository) SaveWithLock(ctx context.Context, order *purchasing.PurchaseOrder) error {
	result := r.db.WithContext(ctx).
		Model(order).
		Where("id = ? AND version = ?", order.ID, order.Version-1).
		Updates(map[string]interface{}{
			"status":           order.Status,
			"received_date":    order.ReceivedDate,
			"payment_terms":    order.PaymentTerms,
			"payment_due_date": order.PaymentDueDate,
			"is_paid":          order.IsPaid,
			"notes":            order.Notes,
			"version":          order.Version,
			"updated_at":       order.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID finds an order with its items
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	return r.findByID(ctx, r.db, id)
}

// FindByIDForUpdate loads the order with SELECT ... FOR UPDATE so a
// concurrent receive of the same order blocks until this transaction
// finishes. Only meaningful inside a transaction.
func (r *GormPurchaseOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	return r.findByID(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormPurchaseOrderRepository) findByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	var order purchasing.PurchaseOrder
	err := db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll returns paginated orders with their items
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[purchasing.PurchaseOrder], error) {
	query := r.db.WithContext(ctx).Model(&purchasing.PurchaseOrder{})

	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if locationID, ok := filter.Filters["destination_location_id"]; ok {
		query = query.Where("destination_location_id = ?", locationID)
	}
	if isPaid, ok := filter.Filters["is_paid"]; ok {
		query = query.Where("is_paid = ?", isPaid)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var orders []purchasing.PurchaseOrder
	if err := applyFilter(query, filter).Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}

	return shared.NewPaginated(orders, total, filter.Page, filter.PageSize), nil
}

// FindBySupplier returns paginated orders for one supplier
func (r *GormPurchaseOrderRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) (*shared.Paginated[purchasing.PurchaseOrder], error) {
	if filter.Filters == nil {
		filter.Filters = make(map[string]interface{})
	}
	query := r.db.WithContext(ctx).Model(&purchasing.PurchaseOrder{}).
		Where("supplier_id = ?", supplierID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var orders []purchasing.PurchaseOrder
	if err := applyFilter(query, filter).Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}

	return shared.NewPaginated(orders, total, filter.Page, filter.PageSize), nil
}

// CountBySupplier counts the orders referencing a supplier
func (r *GormPurchaseOrderRepository) CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&purchasing.PurchaseOrder{}).
		Where("supplier_id = ?", supplierID).
		Count(&count).Error
	return count, err
}

// Delete removes an order and its items
func (r *GormPurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("purchase_order_id = ?", id).
			Delete(&purchasing.PurchaseOrderItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&purchasing.PurchaseOrder{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

var _ purchasing.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
