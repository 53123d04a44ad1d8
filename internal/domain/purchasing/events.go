package purchasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
)

const (
	EventTypeOrderCreated  = "purchasing.order.created"
	EventTypeOrderReceived = "purchasing.order.received"
)

// OrderCreatedEvent is raised when a purchase order is opened
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	SupplierID            uuid.UUID `json:"supplier_id"`
	DestinationLocationID uuid.UUID `json:"destination_location_id"`
}

// NewOrderCreatedEvent creates a new order created event
func NewOrderCreatedEvent(order *PurchaseOrder) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent:       shared.NewBaseDomainEvent(EventTypeOrderCreated, "PurchaseOrder", order.ID),
		SupplierID:            order.SupplierID,
		DestinationLocationID: order.DestinationLocationID,
	}
}

// OrderReceivedEvent is raised when an order transitions to received
type OrderReceivedEvent struct {
	shared.BaseDomainEvent
	SupplierID            uuid.UUID  `json:"supplier_id"`
	DestinationLocationID uuid.UUID  `json:"destination_location_id"`
	ReceivedDate          *time.Time `json:"received_date"`
	ItemCount             int        `json:"item_count"`
}

// NewOrderReceivedEvent creates a new order received event
func NewOrderReceivedEvent(order *PurchaseOrder) *OrderReceivedEvent {
	return &OrderReceivedEvent{
		BaseDomainEvent:       shared.NewBaseDomainEvent(EventTypeOrderReceived, "PurchaseOrder", order.ID),
		SupplierID:            order.SupplierID,
		DestinationLocationID: order.DestinationLocationID,
		ReceivedDate:          order.ReceivedDate,
		ItemCount:             len(order.Items),
	}
}
