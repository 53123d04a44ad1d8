package catalog

import (
	"github.com/ims/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	EventTypeProductCreated     = "catalog.product.created"
	EventTypeProductCostChanged = "catalog.product.cost_changed"
)

// ProductCreatedEvent is raised when a new product is registered
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// NewProductCreatedEvent creates a new product created event
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, "Product", product.ID),
		Name:            product.Name,
		Price:           product.Price,
	}
}

// ProductCostChangedEvent is raised when receiving updates the
// weighted-average cost of a product.
type ProductCostChangedEvent struct {
	shared.BaseDomainEvent
	OldPrice decimal.Decimal `json:"old_price"`
	NewPrice decimal.Decimal `json:"new_price"`
}

// NewProductCostChangedEvent creates a new cost changed event
func NewProductCostChangedEvent(product *Product, oldPrice, newPrice decimal.Decimal) *ProductCostChangedEvent {
	return &ProductCostChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCostChanged, "Product", product.ID),
		OldPrice:        oldPrice,
		NewPrice:        newPrice,
	}
}
