package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
)

// ProductRepository defines the persistence contract for products
type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Product], error)
	Delete(ctx context.Context, id uuid.UUID) error
}
