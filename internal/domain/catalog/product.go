package catalog

import (
	"strings"
	"time"

	"github.com/ims/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product represents a product/SKU in the catalog.
// It is the aggregate root for product-related operations.
// Price is the current weighted-average unit cost; it is overwritten
// only by purchase order receiving, never edited directly once stock
// has been received.
type Product struct {
	shared.BaseAggregateRoot
	Name        string          `gorm:"type:varchar(100);not null;index"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	IsActive    bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(name, description string, price decimal.Decimal) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price must be greater than zero")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Description:       description,
		Price:             price.Round(2),
		IsActive:          true,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = strings.TrimSpace(name)
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetPrice overwrites the weighted-average unit cost.
// Reserved for the costing path; the price must stay positive.
func (p *Product) SetPrice(price decimal.Decimal) error {
	if price.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_PRICE", "Price must be greater than zero")
	}

	old := p.Price
	p.Price = price.Round(2)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	if !old.Equal(p.Price) {
		p.AddDomainEvent(NewProductCostChangedEvent(p, old, p.Price))
	}

	return nil
}

// Activate marks the product as active
func (p *Product) Activate() {
	p.IsActive = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Deactivate marks the product as inactive.
// Inactive products reject all inventory movements.
func (p *Product) Deactivate() {
	p.IsActive = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

func validateProductName(name string) error {
	if len(strings.TrimSpace(name)) < 2 {
		return shared.NewDomainError("INVALID_NAME", "Name must be at least 2 characters long")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 100 characters")
	}
	return nil
}
