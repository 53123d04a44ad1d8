package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	appinventory "github.com/ims/backend/internal/application/inventory"
	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/inventory"
	"github.com/ims/backend/internal/domain/location"
	"github.com/ims/backend/internal/domain/purchasing"
	"github.com/ims/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderMetrics records business counters for the purchasing workflow.
// A nil recorder disables metrics.
type OrderMetrics interface {
	OrderReceived(ctx context.Context, itemCount int)
}

// PurchaseOrderService orchestrates the purchase order lifecycle.
// Receiving is the interesting part: it posts IN movements through
// the ledger and recomputes weighted-average costs, all inside one
// transaction with the status change.
type PurchaseOrderService struct {
	scope        TransactionScope
	orderRepo    purchasing.PurchaseOrderRepository
	productRepo  catalog.ProductRepository
	locationRepo location.LocationRepository
	ledger       *appinventory.LedgerService
	eventBus     shared.EventPublisher
	metrics      OrderMetrics
	logger       *zap.Logger
}

// NewPurchaseOrderService creates a new purchase order service
func NewPurchaseOrderService(
	scope TransactionScope,
	orderRepo purchasing.PurchaseOrderRepository,
	productRepo catalog.ProductRepository,
	locationRepo location.LocationRepository,
	ledger *appinventory.LedgerService,
	eventBus shared.EventPublisher,
	metrics OrderMetrics,
	logger *zap.Logger,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		scope:        scope,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		ledger:       ledger,
		eventBus:     eventBus,
		metrics:      metrics,
		logger:       logger,
	}
}

// CreateOrder opens a pending purchase order
func (s *PurchaseOrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	loc, err := s.locationRepo.FindByID(ctx, req.DestinationLocationID)
	if err != nil {
		return nil, err
	}
	if !loc.IsActive {
		return nil, shared.NewDomainError("INACTIVE_LOCATION", "Destination location is not active")
	}

	var order *purchasing.PurchaseOrder
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.SupplierRepo().FindByID(ctx, req.SupplierID); err != nil {
			return err
		}

		orderDate := time.Now()
		if req.OrderDate != nil {
			orderDate = *req.OrderDate
		}
		order = purchasing.NewPurchaseOrder(req.SupplierID, req.DestinationLocationID, orderDate, req.UserID)
		order.Notes = req.Notes
		if req.PaymentTerms != nil {
			if err := order.SetPaymentTerms(*req.PaymentTerms); err != nil {
				return err
			}
		}

		for _, item := range req.Items {
			product, err := repos.ProductRepo().FindByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if !product.IsActive {
				return shared.ErrInactiveProduct
			}
			if err := order.AddItem(item.ProductID, item.Quantity, item.CostPerUnit); err != nil {
				return err
			}
		}

		return repos.OrderRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase order created",
		zap.String("order_id", order.ID.String()),
		zap.String("supplier_id", order.SupplierID.String()),
		zap.Int("items", len(order.Items)))

	s.publishEvents(ctx, order)

	return NewOrderResponse(order), nil
}

// UpdateOrder edits a pending order. Item updates replace the whole
// set; orders past pending reject any edit.
func (s *PurchaseOrderService) UpdateOrder(ctx context.Context, orderID uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	var order *purchasing.PurchaseOrder
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.OrderRepo().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status != purchasing.OrderStatusPending {
			return shared.ErrInvalidTransition
		}

		if req.Notes != nil {
			order.Notes = *req.Notes
		}
		if req.PaymentTerms != nil {
			if err := order.SetPaymentTerms(*req.PaymentTerms); err != nil {
				return err
			}
		}
		if req.Items != nil {
			items := make([]purchasing.PurchaseOrderItem, 0, len(req.Items))
			for _, item := range req.Items {
				if _, err := repos.ProductRepo().FindByID(ctx, item.ProductID); err != nil {
					return err
				}
				items = append(items, purchasing.PurchaseOrderItem{
					ProductID:   item.ProductID,
					Quantity:    item.Quantity,
					CostPerUnit: item.CostPerUnit,
				})
			}
			if err := order.ReplaceItems(items); err != nil {
				return err
			}
		}

		order.IncrementVersion()
		return repos.OrderRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	return NewOrderResponse(order), nil
}

// Approve moves a pending order to approved
func (s *PurchaseOrderService) Approve(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, orderID, func(order *purchasing.PurchaseOrder) error {
		return order.Approve()
	})
}

// Cancel terminates a pending or approved order
func (s *PurchaseOrderService) Cancel(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, orderID, func(order *purchasing.PurchaseOrder) error {
		return order.Cancel()
	})
}

// MarkPaid toggles the manual paid flag on the order
func (s *PurchaseOrderService) MarkPaid(ctx context.Context, orderID uuid.UUID, paid bool) (*OrderResponse, error) {
	return s.transition(ctx, orderID, func(order *purchasing.PurchaseOrder) error {
		order.MarkPaid(paid)
		return nil
	})
}

func (s *PurchaseOrderService) transition(ctx context.Context, orderID uuid.UUID, fn func(*purchasing.PurchaseOrder) error) (*OrderResponse, error) {
	var order *purchasing.PurchaseOrder
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.OrderRepo().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := fn(order); err != nil {
			return err
		}
		return repos.OrderRepo().SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return NewOrderResponse(order), nil
}

// UpdateStatus is the generic transition endpoint. Entering received
// always delegates to Receive so stock and costing side effects can
// never be skipped.
func (s *PurchaseOrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, userID *uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	target := purchasing.OrderStatus(req.Status)
	if !target.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	}

	switch target {
	case purchasing.OrderStatusApproved:
		return s.Approve(ctx, orderID)
	case purchasing.OrderStatusCanceled:
		return s.Cancel(ctx, orderID)
	case purchasing.OrderStatusReceived:
		result, err := s.Receive(ctx, orderID, userID)
		if err != nil {
			return nil, err
		}
		return result.Order, nil
	default:
		return nil, shared.ErrInvalidTransition
	}
}

// Receive finalizes an approved order. For each item the current
// destination balance and product cost feed the weighted-average
// computation, an IN movement is posted through the ledger, and the
// product cost is overwritten. Everything including the status change
// commits atomically or not at all.
func (s *PurchaseOrderService) Receive(ctx context.Context, orderID uuid.UUID, userID *uuid.UUID) (*ReceiveResponse, error) {
	var order *purchasing.PurchaseOrder
	var processed int

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.OrderRepo().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(purchasing.OrderStatusReceived) {
			return shared.ErrInvalidTransition
		}

		supplier, err := repos.SupplierRepo().FindByID(ctx, order.SupplierID)
		if err != nil {
			return err
		}

		for _, item := range order.Items {
			product, err := repos.ProductRepo().FindByID(ctx, item.ProductID)
			if err != nil {
				return err
			}

			unitPrice := item.CostPerUnit
			movement, _, err := s.ledger.RecordInTransaction(ctx, repos, appinventory.RecordMovementRequest{
				ProductID:  item.ProductID,
				LocationID: order.DestinationLocationID,
				Type:       string(inventory.MovementTypeIn),
				Quantity:   item.Quantity,
				UnitPrice:  &unitPrice,
				Note:       fmt.Sprintf("Received purchase order %s", order.ID),
				Reference:  order.ID.String(),
				UserID:     userID,
			})
			if err != nil {
				return err
			}

			// BalanceBefore was captured under the stock row lock, so
			// the costing input cannot race a concurrent movement.
			newCost := inventory.WeightedAverageCost(movement.BalanceBefore, product.Price, item.Quantity, item.CostPerUnit)
			if err := product.SetPrice(newCost); err != nil {
				return err
			}
			if err := repos.ProductRepo().Save(ctx, product); err != nil {
				return err
			}
			processed++
		}

		if err := order.MarkReceived(time.Now(), supplier.PaymentTerms); err != nil {
			return err
		}
		return repos.OrderRepo().SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase order received",
		zap.String("order_id", order.ID.String()),
		zap.Int("items_processed", processed))

	if s.metrics != nil {
		s.metrics.OrderReceived(ctx, processed)
	}
	s.publishEvents(ctx, order)

	return &ReceiveResponse{Order: NewOrderResponse(order), ItemsProcessed: processed}, nil
}

// GetOrder loads a single order with its items
func (s *PurchaseOrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return NewOrderResponse(order), nil
}

// ListOrders returns paginated orders
func (s *PurchaseOrderService) ListOrders(ctx context.Context, filter shared.Filter) (*shared.Paginated[OrderResponse], error) {
	page, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return mapOrderPage(page), nil
}

// ListOrdersBySupplier returns paginated orders for one supplier
func (s *PurchaseOrderService) ListOrdersBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) (*shared.Paginated[OrderResponse], error) {
	page, err := s.orderRepo.FindBySupplier(ctx, supplierID, filter)
	if err != nil {
		return nil, err
	}
	return mapOrderPage(page), nil
}

// DeleteOrder removes an order that never reached received
func (s *PurchaseOrderService) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status == purchasing.OrderStatusReceived {
			return shared.ErrInvalidTransition
		}
		return repos.OrderRepo().Delete(ctx, orderID)
	})
}

func (s *PurchaseOrderService) publishEvents(ctx context.Context, order *purchasing.PurchaseOrder) {
	if s.eventBus == nil {
		return
	}
	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish order events",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
	}
	order.ClearDomainEvents()
}

func mapOrderPage(page *shared.Paginated[purchasing.PurchaseOrder]) *shared.Paginated[OrderResponse] {
	items := make([]OrderResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, *NewOrderResponse(&page.Items[i]))
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
}
