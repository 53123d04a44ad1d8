package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
)

// StockRepository defines the persistence contract for stock records
type StockRepository interface {
	// GetOrCreate returns the stock record for the pair, creating an
	// empty one if none exists yet
	GetOrCreate(ctx context.Context, productID, locationID uuid.UUID) (*LocationStock, error)
	// FindForUpdate loads the stock record with a row lock held for
	// the duration of the surrounding transaction
	FindForUpdate(ctx context.Context, productID, locationID uuid.UUID) (*LocationStock, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]LocationStock, error)
	FindByLocation(ctx context.Context, locationID uuid.UUID, filter shared.Filter) (*shared.Paginated[LocationStock], error)
	FindByLocations(ctx context.Context, locationIDs []uuid.UUID, filter shared.Filter) (*shared.Paginated[LocationStock], error)
	// SaveWithLock persists the record only if its version still
	// matches, returning shared.ErrConcurrencyConflict otherwise
	SaveWithLock(ctx context.Context, stock *LocationStock) error
}

// MovementRepository defines the persistence contract for the ledger.
// Movements are append-only; there is no update or delete.
type MovementRepository interface {
	Save(ctx context.Context, movement *Movement) error
	FindByID(ctx context.Context, id uuid.UUID) (*Movement, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Movement], error)
	FindByLocations(ctx context.Context, locationIDs []uuid.UUID, filter shared.Filter) (*shared.Paginated[Movement], error)
}
