package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/inventory"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateProductRequest carries the input for registering a product
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,min=2,max=100"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price" validate:"required"`
}

// UpdateProductRequest carries the editable product fields.
// Price is deliberately absent: cost updates only flow in through
// purchase order receiving.
type UpdateProductRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description,omitempty"`
}

// ProductStock is one location's balance in a product response
type ProductStock struct {
	LocationID uuid.UUID `json:"location_id"`
	Quantity   int64     `json:"quantity"`
}

// ProductResponse is the outward representation of a product
type ProductResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	IsActive    bool            `json:"is_active"`
	TotalStock  int64           `json:"total_stock"`
	Stock       []ProductStock  `json:"stock,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewProductResponse maps a product to its response representation
func NewProductResponse(product *catalog.Product) *ProductResponse {
	return &ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		IsActive:    product.IsActive,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

// ProductService manages the product catalog
type ProductService struct {
	productRepo catalog.ProductRepository
	stockRepo   inventory.StockRepository
	logger      *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(productRepo catalog.ProductRepository, stockRepo inventory.StockRepository, logger *zap.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		stockRepo:   stockRepo,
		logger:      logger,
	}
}

// CreateProduct registers a new product
func (s *ProductService) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.Name, req.Description, req.Price)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name))

	return NewProductResponse(product), nil
}

// UpdateProduct edits the product's basic information
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	return NewProductResponse(product), nil
}

// GetProduct loads a product with its per-location balances
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := NewProductResponse(product)
	stocks, err := s.stockRepo.FindByProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, stock := range stocks {
		response.Stock = append(response.Stock, ProductStock{
			LocationID: stock.LocationID,
			Quantity:   stock.Quantity,
		})
		response.TotalStock += stock.Quantity
	}

	return response, nil
}

// ListProducts returns paginated products
func (s *ProductService) ListProducts(ctx context.Context, filter shared.Filter) (*shared.Paginated[ProductResponse], error) {
	page, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ProductResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, *NewProductResponse(&page.Items[i]))
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

// DeactivateProduct soft-disables a product. Its history and balances
// stay queryable but new movements are rejected.
func (s *ProductService) DeactivateProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	product.Deactivate()
	return s.productRepo.Save(ctx, product)
}

// ActivateProduct re-enables a product
func (s *ProductService) ActivateProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	product.Activate()
	return s.productRepo.Save(ctx, product)
}
