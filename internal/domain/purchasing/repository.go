package purchasing

import (
	"context"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
)

// PurchaseOrderRepository defines the persistence contract for
// purchase orders. Loads always include the item lines.
type PurchaseOrderRepository interface {
	Save(ctx context.Context, order *PurchaseOrder) error
	// SaveWithLock persists the order only if its version still
	// matches, returning shared.ErrConcurrencyConflict otherwise
	SaveWithLock(ctx context.Context, order *PurchaseOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	// FindByIDForUpdate loads the order with a row lock held for the
	// duration of the surrounding transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[PurchaseOrder], error)
	FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) (*shared.Paginated[PurchaseOrder], error)
	CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
