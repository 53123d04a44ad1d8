package inventory

import (
	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MovementType represents the kind of stock movement
type MovementType string

const (
	MovementTypeIn       MovementType = "IN"
	MovementTypeOut      MovementType = "OUT"
	MovementTypeAdjust   MovementType = "ADJ"
	MovementTypeTransfer MovementType = "TRANSFER"
)

// IsValid checks if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeIn, MovementTypeOut, MovementTypeAdjust, MovementTypeTransfer:
		return true
	}
	return false
}

// Movement is one immutable row of the stock ledger. Movements are
// only ever inserted, never updated or deleted; the current balance of
// a stock record is always reproducible by replaying its movements.
//
// Quantity semantics depend on the type: IN, OUT and TRANSFER carry
// the amount moved, ADJ carries the new absolute balance. A TRANSFER
// row debits LocationID and credits DestinationLocationID in a single
// record.
type Movement struct {
	shared.BaseEntity
	Type                  MovementType    `gorm:"type:varchar(10);not null;index"`
	ProductID             uuid.UUID       `gorm:"type:uuid;not null;index:idx_movements_product_location"`
	LocationID            uuid.UUID       `gorm:"type:uuid;not null;index:idx_movements_product_location"`
	DestinationLocationID *uuid.UUID      `gorm:"type:uuid"`
	Quantity              int64           `gorm:"not null"`
	UnitPrice             decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	BalanceBefore         int64           `gorm:"not null"`
	BalanceAfter          int64           `gorm:"not null"`
	Note                  string          `gorm:"type:text"`
	Reference             string          `gorm:"type:varchar(100);index"`
	CreatedByID           *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Movement) TableName() string {
	return "stock_movements"
}

// NewMovement creates a validated ledger row. Balance columns are
// filled in by the ledger service once the stock rows are locked.
func NewMovement(movementType MovementType, productID, locationID uuid.UUID, quantity int64, unitPrice decimal.Decimal) (*Movement, error) {
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Unknown movement type")
	}
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &Movement{
		BaseEntity: shared.NewBaseEntity(),
		Type:       movementType,
		ProductID:  productID,
		LocationID: locationID,
		Quantity:   quantity,
		UnitPrice:  unitPrice.Round(2),
	}, nil
}

// WithDestination sets the destination location for a transfer.
// Only valid on TRANSFER rows and the destination must differ from
// the source.
func (m *Movement) WithDestination(destinationID uuid.UUID) error {
	if m.Type != MovementTypeTransfer {
		return shared.ErrInvalidTransfer
	}
	if destinationID == m.LocationID {
		return shared.ErrInvalidTransfer
	}

	m.DestinationLocationID = &destinationID
	return nil
}

// Validate checks the cross-field invariants before the row is persisted
func (m *Movement) Validate() error {
	if !m.Type.IsValid() {
		return shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Unknown movement type")
	}
	if err := validateQuantity(m.Quantity); err != nil {
		return err
	}
	if m.Type == MovementTypeTransfer {
		if m.DestinationLocationID == nil || *m.DestinationLocationID == m.LocationID {
			return shared.ErrInvalidTransfer
		}
	} else if m.DestinationLocationID != nil {
		return shared.ErrInvalidTransfer
	}
	return nil
}

func validateQuantity(quantity int64) error {
	if quantity <= 0 {
		return shared.ErrInvalidQuantity
	}
	return nil
}
