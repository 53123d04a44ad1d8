package inventory

import (
	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
)

const (
	EventTypeMovementRecorded = "inventory.movement.recorded"
	EventTypeStockDepleted    = "inventory.stock.depleted"
)

// MovementRecordedEvent is raised after a ledger row is committed
type MovementRecordedEvent struct {
	shared.BaseDomainEvent
	MovementType MovementType `json:"movement_type"`
	ProductID    uuid.UUID    `json:"product_id"`
	LocationID   uuid.UUID    `json:"location_id"`
	Quantity     int64        `json:"quantity"`
	BalanceAfter int64        `json:"balance_after"`
}

// NewMovementRecordedEvent creates a new movement recorded event
func NewMovementRecordedEvent(movement *Movement) *MovementRecordedEvent {
	return &MovementRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMovementRecorded, "Movement", movement.ID),
		MovementType:    movement.Type,
		ProductID:       movement.ProductID,
		LocationID:      movement.LocationID,
		Quantity:        movement.Quantity,
		BalanceAfter:    movement.BalanceAfter,
	}
}

// StockDepletedEvent is raised when a movement drives a balance to zero
type StockDepletedEvent struct {
	shared.BaseDomainEvent
	ProductID  uuid.UUID `json:"product_id"`
	LocationID uuid.UUID `json:"location_id"`
}

// NewStockDepletedEvent creates a new stock depleted event
func NewStockDepletedEvent(stock *LocationStock) *StockDepletedEvent {
	return &StockDepletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockDepleted, "LocationStock", stock.ID),
		ProductID:       stock.ProductID,
		LocationID:      stock.LocationID,
	}
}
