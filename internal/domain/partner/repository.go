package partner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
)

// SupplierRepository defines the persistence contract for suppliers
type SupplierRepository interface {
	Save(ctx context.Context, supplier *Supplier) error
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	FindByTaxID(ctx context.Context, taxID string) (*Supplier, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Supplier], error)
	// LastPurchaseDate returns the newest order date among the
	// supplier's purchase orders, or nil when there are none
	LastPurchaseDate(ctx context.Context, supplierID uuid.UUID) (*time.Time, error)
	// Delete removes the supplier; implementations must refuse while
	// purchase orders still reference it
	Delete(ctx context.Context, id uuid.UUID) error
}
