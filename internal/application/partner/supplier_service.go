package partner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/partner"
	"github.com/ims/backend/internal/domain/purchasing"
	"github.com/ims/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CreateSupplierRequest carries the input for registering a supplier
type CreateSupplierRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=100"`
	TaxID        string `json:"tax_id" validate:"required"`
	Email        string `json:"email,omitempty" validate:"omitempty,email"`
	Phone        string `json:"phone,omitempty"`
	PaymentTerms int    `json:"payment_terms,omitempty" validate:"omitempty,gt=0"`
}

// UpdateSupplierRequest carries the editable supplier fields
type UpdateSupplierRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=100"`
	Email        string `json:"email,omitempty" validate:"omitempty,email"`
	Phone        string `json:"phone,omitempty"`
	PaymentTerms int    `json:"payment_terms" validate:"required,gt=0"`
}

// SupplierResponse is the outward representation of a supplier.
// The payment fields are derived live from the supplier's purchase
// orders, never stored.
type SupplierResponse struct {
	ID               uuid.UUID             `json:"id"`
	Name             string                `json:"name"`
	TaxID            string                `json:"tax_id"`
	Email            string                `json:"email,omitempty"`
	Phone            string                `json:"phone,omitempty"`
	PaymentTerms     int                   `json:"payment_terms"`
	IsActive         bool                  `json:"is_active"`
	LastPurchaseDate *time.Time            `json:"last_purchase_date,omitempty"`
	PaymentDueDate   *time.Time            `json:"payment_due_date,omitempty"`
	PaymentStatus    partner.PaymentStatus `json:"payment_status"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// SupplierService manages suppliers and their derived payment state
type SupplierService struct {
	supplierRepo partner.SupplierRepository
	orderRepo    purchasing.PurchaseOrderRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewSupplierService creates a new supplier service
func NewSupplierService(supplierRepo partner.SupplierRepository, orderRepo purchasing.PurchaseOrderRepository, logger *zap.Logger) *SupplierService {
	return &SupplierService{
		supplierRepo: supplierRepo,
		orderRepo:    orderRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateSupplier registers a new supplier
func (s *SupplierService) CreateSupplier(ctx context.Context, req CreateSupplierRequest) (*SupplierResponse, error) {
	if existing, err := s.supplierRepo.FindByTaxID(ctx, req.TaxID); err == nil && existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	supplier, err := partner.NewSupplier(req.Name, req.TaxID, req.PaymentTerms)
	if err != nil {
		return nil, err
	}
	supplier.Email = req.Email
	supplier.Phone = req.Phone

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	s.logger.Info("supplier created",
		zap.String("supplier_id", supplier.ID.String()),
		zap.String("tax_id", supplier.TaxID))

	return s.toResponse(ctx, supplier)
}

// UpdateSupplier edits a supplier
func (s *SupplierService) UpdateSupplier(ctx context.Context, id uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := supplier.Update(req.Name, req.Email, req.Phone, req.PaymentTerms); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, supplier)
}

// GetSupplier loads a supplier with its derived payment state
func (s *SupplierService) GetSupplier(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, supplier)
}

// ListSuppliers returns paginated suppliers with derived payment state
func (s *SupplierService) ListSuppliers(ctx context.Context, filter shared.Filter) (*shared.Paginated[SupplierResponse], error) {
	page, err := s.supplierRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]SupplierResponse, 0, len(page.Items))
	for i := range page.Items {
		resp, err := s.toResponse(ctx, &page.Items[i])
		if err != nil {
			return nil, err
		}
		items = append(items, *resp)
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

// DeleteSupplier removes a supplier unless purchase orders still
// reference it
func (s *SupplierService) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	if _, err := s.supplierRepo.FindByID(ctx, id); err != nil {
		return err
	}

	count, err := s.orderRepo.CountBySupplier(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("SUPPLIER_IN_USE", "Supplier still has purchase orders")
	}

	return s.supplierRepo.Delete(ctx, id)
}

func (s *SupplierService) toResponse(ctx context.Context, supplier *partner.Supplier) (*SupplierResponse, error) {
	lastPurchase, err := s.supplierRepo.LastPurchaseDate(ctx, supplier.ID)
	if err != nil {
		return nil, err
	}
	dueDate := supplier.PaymentDueDate(lastPurchase)

	return &SupplierResponse{
		ID:               supplier.ID,
		Name:             supplier.Name,
		TaxID:            supplier.TaxID,
		Email:            supplier.Email,
		Phone:            supplier.Phone,
		PaymentTerms:     supplier.PaymentTerms,
		IsActive:         supplier.IsActive,
		LastPurchaseDate: lastPurchase,
		PaymentDueDate:   dueDate,
		PaymentStatus:    partner.BucketPaymentStatus(dueDate, s.now()),
		CreatedAt:        supplier.CreatedAt,
		UpdatedAt:        supplier.UpdatedAt,
	}, nil
}
