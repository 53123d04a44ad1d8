package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
)

// LocationStock tracks the on-hand quantity of one product at one
// location. There is at most one row per (product, location) pair and
// the quantity can never go below zero.
type LocationStock struct {
	shared.BaseAggregateRoot
	ProductID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stock_product_location"`
	LocationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stock_product_location"`
	Quantity   int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (LocationStock) TableName() string {
	return "location_stocks"
}

// NewLocationStock creates an empty stock record for a product at a location
func NewLocationStock(productID, locationID uuid.UUID) *LocationStock {
	return &LocationStock{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		LocationID:        locationID,
		Quantity:          0,
	}
}

// Increase adds quantity to the stock record
func (s *LocationStock) Increase(quantity int64) error {
	if quantity <= 0 {
		return shared.ErrInvalidQuantity
	}

	s.Quantity += quantity
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// Decrease removes quantity from the stock record.
// The balance may never go negative.
func (s *LocationStock) Decrease(quantity int64) error {
	if quantity <= 0 {
		return shared.ErrInvalidQuantity
	}
	if s.Quantity < quantity {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient stock: available %d, requested %d", s.Quantity, quantity))
	}

	s.Quantity -= quantity
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetQuantity overwrites the balance with an absolute value.
// Used by adjustment movements such as stock counts.
func (s *LocationStock) SetQuantity(quantity int64) error {
	if quantity < 0 {
		return shared.ErrInvalidQuantity
	}

	s.Quantity = quantity
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}
