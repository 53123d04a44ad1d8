package purchasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/purchasing"
	"github.com/shopspring/decimal"
)

// OrderItemRequest is one product line in a create or update request
type OrderItemRequest struct {
	ProductID   uuid.UUID       `json:"product_id" validate:"required"`
	Quantity    int64           `json:"quantity" validate:"gt=0"`
	CostPerUnit decimal.Decimal `json:"cost_per_unit" validate:"required"`
}

// CreateOrderRequest carries the input for opening a purchase order
type CreateOrderRequest struct {
	SupplierID            uuid.UUID          `json:"supplier_id" validate:"required"`
	DestinationLocationID uuid.UUID          `json:"destination_location_id" validate:"required"`
	OrderDate             *time.Time         `json:"order_date,omitempty"`
	PaymentTerms          *int               `json:"payment_terms,omitempty" validate:"omitempty,gt=0"`
	Notes                 string             `json:"notes,omitempty"`
	Items                 []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	UserID                *uuid.UUID         `json:"-"`
}

// UpdateOrderRequest replaces the mutable fields of a pending order
type UpdateOrderRequest struct {
	PaymentTerms *int               `json:"payment_terms,omitempty" validate:"omitempty,gt=0"`
	Notes        *string            `json:"notes,omitempty"`
	Items        []OrderItemRequest `json:"items,omitempty" validate:"omitempty,min=1,dive"`
}

// UpdateStatusRequest carries a requested status transition
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved received canceled"`
}

// OrderItemResponse is the outward representation of an order line
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Quantity    int64           `json:"quantity"`
	CostPerUnit decimal.Decimal `json:"cost_per_unit"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse is the outward representation of a purchase order
type OrderResponse struct {
	ID                    uuid.UUID           `json:"id"`
	SupplierID            uuid.UUID           `json:"supplier_id"`
	DestinationLocationID uuid.UUID           `json:"destination_location_id"`
	Status                string              `json:"status"`
	OrderDate             time.Time           `json:"order_date"`
	ReceivedDate          *time.Time          `json:"received_date,omitempty"`
	PaymentTerms          *int                `json:"payment_terms,omitempty"`
	PaymentDueDate        *time.Time          `json:"payment_due_date,omitempty"`
	IsPaid                bool                `json:"is_paid"`
	Notes                 string              `json:"notes,omitempty"`
	TotalCost             decimal.Decimal     `json:"total_cost"`
	Items                 []OrderItemResponse `json:"items"`
	CreatedAt             time.Time           `json:"created_at"`
	UpdatedAt             time.Time           `json:"updated_at"`
}

// ReceiveResponse reports the outcome of receiving an order
type ReceiveResponse struct {
	Order          *OrderResponse `json:"order"`
	ItemsProcessed int            `json:"items_processed"`
}

// NewOrderResponse maps a purchase order to its response representation
func NewOrderResponse(order *purchasing.PurchaseOrder) *OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			CostPerUnit: item.CostPerUnit,
			Subtotal:    item.Subtotal(),
		})
	}

	return &OrderResponse{
		ID:                    order.ID,
		SupplierID:            order.SupplierID,
		DestinationLocationID: order.DestinationLocationID,
		Status:                string(order.Status),
		OrderDate:             order.OrderDate,
		ReceivedDate:          order.ReceivedDate,
		PaymentTerms:          order.PaymentTerms,
		PaymentDueDate:        order.PaymentDueDate,
		IsPaid:                order.IsPaid,
		Notes:                 order.Notes,
		TotalCost:             order.TotalCost(),
		Items:                 items,
		CreatedAt:             order.CreatedAt,
		UpdatedAt:             order.UpdatedAt,
	}
}
