package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// RecordMovementRequest carries the input for one ledger write
type RecordMovementRequest struct {
	ProductID             uuid.UUID        `json:"product_id" validate:"required"`
	LocationID            uuid.UUID        `json:"location_id" validate:"required"`
	DestinationLocationID *uuid.UUID       `json:"destination_location_id,omitempty"`
	Type                  string           `json:"type" validate:"required,oneof=IN OUT ADJ TRANSFER"`
	Quantity              int64            `json:"quantity" validate:"gt=0"`
	UnitPrice             *decimal.Decimal `json:"unit_price,omitempty"`
	Note                  string           `json:"note,omitempty"`
	Reference             string           `json:"reference,omitempty"`
	UserID                *uuid.UUID       `json:"-"`
}

// TransferRequest carries the input for a stock transfer
type TransferRequest struct {
	ProductID      uuid.UUID  `json:"product_id" validate:"required"`
	FromLocationID uuid.UUID  `json:"from_location_id" validate:"required"`
	ToLocationID   uuid.UUID  `json:"to_location_id" validate:"required"`
	Quantity       int64      `json:"quantity" validate:"gt=0"`
	Note           string     `json:"note,omitempty"`
	UserID         *uuid.UUID `json:"-"`
}

// MovementResponse is the outward representation of a ledger row
type MovementResponse struct {
	ID                    uuid.UUID       `json:"id"`
	Type                  string          `json:"type"`
	ProductID             uuid.UUID       `json:"product_id"`
	LocationID            uuid.UUID       `json:"location_id"`
	DestinationLocationID *uuid.UUID      `json:"destination_location_id,omitempty"`
	Quantity              int64           `json:"quantity"`
	UnitPrice             decimal.Decimal `json:"unit_price"`
	BalanceBefore         int64           `json:"balance_before"`
	BalanceAfter          int64           `json:"balance_after"`
	Note                  string          `json:"note,omitempty"`
	Reference             string          `json:"reference,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
}

// NewMovementResponse maps a movement to its response representation
func NewMovementResponse(m *inventory.Movement) *MovementResponse {
	return &MovementResponse{
		ID:                    m.ID,
		Type:                  string(m.Type),
		ProductID:             m.ProductID,
		LocationID:            m.LocationID,
		DestinationLocationID: m.DestinationLocationID,
		Quantity:              m.Quantity,
		UnitPrice:             m.UnitPrice,
		BalanceBefore:         m.BalanceBefore,
		BalanceAfter:          m.BalanceAfter,
		Note:                  m.Note,
		Reference:             m.Reference,
		CreatedAt:             m.CreatedAt,
	}
}

// StockResponse is the outward representation of a stock record
type StockResponse struct {
	ProductID  uuid.UUID `json:"product_id"`
	LocationID uuid.UUID `json:"location_id"`
	Quantity   int64     `json:"quantity"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewStockResponse maps a stock record to its response representation
func NewStockResponse(s *inventory.LocationStock) *StockResponse {
	return &StockResponse{
		ProductID:  s.ProductID,
		LocationID: s.LocationID,
		Quantity:   s.Quantity,
		UpdatedAt:  s.UpdatedAt,
	}
}
