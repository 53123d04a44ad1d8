package partner

import (
	"strings"
	"time"

	"github.com/ims/backend/internal/domain/shared"
)

// DefaultPaymentTermsDays is applied when a supplier is created
// without explicit terms.
const DefaultPaymentTermsDays = 30

// Supplier represents a vendor purchase orders are placed against.
// PaymentTerms is the number of days the supplier grants before an
// order's payment falls due; individual orders may override it.
type Supplier struct {
	shared.BaseAggregateRoot
	Name         string `gorm:"type:varchar(100);not null;index"`
	TaxID        string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Email        string `gorm:"type:varchar(255)"`
	Phone        string `gorm:"type:varchar(50)"`
	PaymentTerms int    `gorm:"not null;default:30"`
	IsActive     bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier
func NewSupplier(name, taxID string, paymentTerms int) (*Supplier, error) {
	if len(strings.TrimSpace(name)) < 2 {
		return nil, shared.NewDomainError("INVALID_NAME", "Name must be at least 2 characters long")
	}
	if strings.TrimSpace(taxID) == "" {
		return nil, shared.NewDomainError("INVALID_TAX_ID", "Tax ID is required")
	}
	if paymentTerms < 0 {
		return nil, shared.NewDomainError("INVALID_PAYMENT_TERMS", "Payment terms cannot be negative")
	}
	if paymentTerms == 0 {
		paymentTerms = DefaultPaymentTermsDays
	}

	return &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		TaxID:             strings.TrimSpace(taxID),
		PaymentTerms:      paymentTerms,
		IsActive:          true,
	}, nil
}

// Update updates the supplier's information
func (s *Supplier) Update(name, email, phone string, paymentTerms int) error {
	if len(strings.TrimSpace(name)) < 2 {
		return shared.NewDomainError("INVALID_NAME", "Name must be at least 2 characters long")
	}
	if paymentTerms <= 0 {
		return shared.NewDomainError("INVALID_PAYMENT_TERMS", "Payment terms must be positive")
	}

	s.Name = strings.TrimSpace(name)
	s.Email = email
	s.Phone = phone
	s.PaymentTerms = paymentTerms
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// Deactivate marks the supplier as inactive
func (s *Supplier) Deactivate() {
	s.IsActive = false
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// PaymentDueDate derives the due date from the most recent order date.
// Returns nil when the supplier has no orders yet.
func (s *Supplier) PaymentDueDate(lastPurchaseDate *time.Time) *time.Time {
	if lastPurchaseDate == nil {
		return nil
	}
	due := lastPurchaseDate.AddDate(0, 0, s.PaymentTerms)
	return &due
}
