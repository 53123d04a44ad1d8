package purchasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderStatus represents where a purchase order sits in its lifecycle
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusApproved OrderStatus = "approved"
	OrderStatusReceived OrderStatus = "received"
	OrderStatusCanceled OrderStatus = "canceled"
)

// IsValid checks if the order status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusApproved, OrderStatusReceived, OrderStatusCanceled:
		return true
	}
	return false
}

// IsTerminal reports whether the status admits no further transition
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusReceived || s == OrderStatusCanceled
}

// CanTransitionTo checks if a transition to the target status is allowed
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusApproved || target == OrderStatusCanceled
	case OrderStatusApproved:
		return target == OrderStatusReceived || target == OrderStatusCanceled
	}
	return false
}

// PurchaseOrder is the aggregate root for the purchasing workflow.
// Once received the order is immutable: no status change, no item
// edits. PaymentTerms overrides the supplier's terms when set.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	SupplierID            uuid.UUID           `gorm:"type:uuid;not null;index"`
	DestinationLocationID uuid.UUID           `gorm:"type:uuid;not null;index"`
	Status                OrderStatus         `gorm:"type:varchar(20);not null;default:'pending';index"`
	OrderDate             time.Time           `gorm:"not null"`
	ReceivedDate          *time.Time          `gorm:""`
	PaymentTerms          *int                `gorm:""`
	PaymentDueDate        *time.Time          `gorm:""`
	IsPaid                bool                `gorm:"not null;default:false"`
	Notes                 string              `gorm:"type:text"`
	CreatedByID           *uuid.UUID          `gorm:"type:uuid"`
	Items                 []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// PurchaseOrderItem is one product line of a purchase order.
// A product may appear at most once per order.
type PurchaseOrderItem struct {
	shared.BaseEntity
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_po_items_order_product"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_po_items_order_product"`
	Quantity        int64           `gorm:"not null"`
	CostPerUnit     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// Subtotal returns quantity times unit cost for this line
func (i PurchaseOrderItem) Subtotal() decimal.Decimal {
	return i.CostPerUnit.Mul(decimal.NewFromInt(i.Quantity))
}

// NewPurchaseOrder creates a pending purchase order
func NewPurchaseOrder(supplierID, destinationLocationID uuid.UUID, orderDate time.Time, createdBy *uuid.UUID) *PurchaseOrder {
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	order := &PurchaseOrder{
		BaseAggregateRoot:     shared.NewBaseAggregateRoot(),
		SupplierID:            supplierID,
		DestinationLocationID: destinationLocationID,
		Status:                OrderStatusPending,
		OrderDate:             orderDate,
		CreatedByID:           createdBy,
		Items:                 make([]PurchaseOrderItem, 0),
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order
}

// AddItem appends a product line. Items can only change while the
// order is still pending.
func (o *PurchaseOrder) AddItem(productID uuid.UUID, quantity int64, costPerUnit decimal.Decimal) error {
	if o.Status != OrderStatusPending {
		return shared.ErrInvalidTransition
	}
	if quantity <= 0 {
		return shared.ErrInvalidQuantity
	}
	if !costPerUnit.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Cost per unit must be greater than zero")
	}
	for _, item := range o.Items {
		if item.ProductID == productID {
			return shared.NewDomainError("DUPLICATE_ITEM", "Product already present on this order")
		}
	}

	o.Items = append(o.Items, PurchaseOrderItem{
		BaseEntity:      shared.NewBaseEntity(),
		PurchaseOrderID: o.ID,
		ProductID:       productID,
		Quantity:        quantity,
		CostPerUnit:     costPerUnit.Round(2),
	})
	o.UpdatedAt = time.Now()

	return nil
}

// ReplaceItems swaps the full item set. Only valid while pending,
// so received orders can never have their lines rewritten.
func (o *PurchaseOrder) ReplaceItems(items []PurchaseOrderItem) error {
	if o.Status != OrderStatusPending {
		return shared.ErrInvalidTransition
	}

	o.Items = make([]PurchaseOrderItem, 0, len(items))
	for _, item := range items {
		if err := o.AddItem(item.ProductID, item.Quantity, item.CostPerUnit); err != nil {
			return err
		}
	}

	return nil
}

// SetPaymentTerms overrides the supplier's payment terms for this order
func (o *PurchaseOrder) SetPaymentTerms(days int) error {
	if o.Status.IsTerminal() {
		return shared.ErrInvalidTransition
	}
	if days <= 0 {
		return shared.NewDomainError("INVALID_PAYMENT_TERMS", "Payment terms must be positive")
	}

	o.PaymentTerms = &days
	o.UpdatedAt = time.Now()

	return nil
}

// Approve moves the order from pending to approved
func (o *PurchaseOrder) Approve() error {
	if !o.Status.CanTransitionTo(OrderStatusApproved) {
		return shared.ErrInvalidTransition
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Cannot approve an order without items")
	}

	o.Status = OrderStatusApproved
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// Cancel terminates the order before it is received
func (o *PurchaseOrder) Cancel() error {
	if !o.Status.CanTransitionTo(OrderStatusCanceled) {
		return shared.ErrInvalidTransition
	}

	o.Status = OrderStatusCanceled
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// MarkReceived finalizes the order. The receiving service calls this
// after posting the ledger movements; supplierTerms is the fallback
// when the order carries no override.
func (o *PurchaseOrder) MarkReceived(receivedDate time.Time, supplierTerms int) error {
	if !o.Status.CanTransitionTo(OrderStatusReceived) {
		return shared.ErrInvalidTransition
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Cannot receive an order without items")
	}

	if receivedDate.IsZero() {
		receivedDate = time.Now()
	}

	o.Status = OrderStatusReceived
	if o.ReceivedDate == nil {
		o.ReceivedDate = &receivedDate
	}
	if o.PaymentDueDate == nil {
		terms := supplierTerms
		if o.PaymentTerms != nil {
			terms = *o.PaymentTerms
		}
		due := o.ReceivedDate.AddDate(0, 0, terms)
		o.PaymentDueDate = &due
	}
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderReceivedEvent(o))

	return nil
}

// MarkPaid toggles the manual paid flag
func (o *PurchaseOrder) MarkPaid(paid bool) {
	o.IsPaid = paid
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// TotalCost sums the item subtotals. It is always derived, never stored.
func (o *PurchaseOrder) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}
