package location

import (
	"context"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
)

// LocationRepository defines the persistence contract for locations
type LocationRepository interface {
	Save(ctx context.Context, location *Location) error
	FindByID(ctx context.Context, id uuid.UUID) (*Location, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Location, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Location], error)
	Delete(ctx context.Context, id uuid.UUID) error
}
