package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/inventory"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MovementMetrics records business counters for ledger writes.
// Implementations live in the telemetry package; a nil recorder
// disables metrics.
type MovementMetrics interface {
	MovementRecorded(ctx context.Context, movementType string, quantity int64)
	InsufficientStockRejected(ctx context.Context)
}

// LedgerService owns every write to stock balances. All mutations go
// through RecordMovement so that the movement table stays a complete
// audit trail of the quantities.
type LedgerService struct {
	scope        TransactionScope
	stockRepo    inventory.StockRepository
	movementRepo inventory.MovementRepository
	eventBus     shared.EventPublisher
	metrics      MovementMetrics
	logger       *zap.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	scope TransactionScope,
	stockRepo inventory.StockRepository,
	movementRepo inventory.MovementRepository,
	eventBus shared.EventPublisher,
	metrics MovementMetrics,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		scope:        scope,
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		eventBus:     eventBus,
		metrics:      metrics,
		logger:       logger,
	}
}

// RecordMovement validates, applies and persists one stock movement
// atomically. The stock rows involved are locked for the duration of
// the transaction; on any error nothing is committed.
func (s *LedgerService) RecordMovement(ctx context.Context, req RecordMovementRequest) (*MovementResponse, error) {
	movementType := inventory.MovementType(strings.ToUpper(req.Type))
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Unknown movement type")
	}
	if movementType == inventory.MovementTypeTransfer && req.DestinationLocationID == nil {
		return nil, shared.ErrInvalidTransfer
	}

	var recorded *inventory.Movement
	var depleted *inventory.LocationStock

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		recorded, depleted, err = s.RecordInTransaction(ctx, repos, req)
		return err
	})
	if err != nil {
		if shared.IsDomainError(err, "INSUFFICIENT_STOCK") && s.metrics != nil {
			s.metrics.InsufficientStockRejected(ctx)
		}
		return nil, err
	}

	s.logger.Info("stock movement recorded",
		zap.String("movement_id", recorded.ID.String()),
		zap.String("type", string(recorded.Type)),
		zap.String("product_id", recorded.ProductID.String()),
		zap.String("location_id", recorded.LocationID.String()),
		zap.Int64("quantity", recorded.Quantity),
		zap.Int64("balance_after", recorded.BalanceAfter))

	if s.metrics != nil {
		s.metrics.MovementRecorded(ctx, string(recorded.Type), recorded.Quantity)
	}
	s.publishEvents(ctx, recorded, depleted)

	return NewMovementResponse(recorded), nil
}

// RecordInTransaction applies one movement against repositories that
// already participate in a caller-owned transaction. The purchasing
// workflow uses this to post receipts inside its own transaction.
// Returns the persisted movement and, when the write emptied the
// source balance, the depleted stock record.
func (s *LedgerService) RecordInTransaction(ctx context.Context, repos TransactionalRepositories, req RecordMovementRequest) (*inventory.Movement, *inventory.LocationStock, error) {
	movementType := inventory.MovementType(strings.ToUpper(req.Type))

	product, err := repos.ProductRepo().FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, nil, err
	}
	if !product.IsActive {
		return nil, nil, shared.ErrInactiveProduct
	}

	unitPrice := decimal.Zero
	switch {
	case req.UnitPrice != nil:
		unitPrice = *req.UnitPrice
	case movementType == inventory.MovementTypeIn || movementType == inventory.MovementTypeOut:
		// snapshot the current cost when the caller gives none
		unitPrice = product.Price
	}

	movement, err := inventory.NewMovement(movementType, req.ProductID, req.LocationID, req.Quantity, unitPrice)
	if err != nil {
		return nil, nil, err
	}
	movement.Note = req.Note
	movement.Reference = req.Reference
	movement.CreatedByID = req.UserID
	if movementType == inventory.MovementTypeTransfer {
		if req.DestinationLocationID == nil {
			return nil, nil, shared.ErrInvalidTransfer
		}
		if err := movement.WithDestination(*req.DestinationLocationID); err != nil {
			return nil, nil, err
		}
	}
	if err := movement.Validate(); err != nil {
		return nil, nil, err
	}

	source, err := s.applyMovement(ctx, repos, movement)
	if err != nil {
		return nil, nil, err
	}

	if err := repos.MovementRepo().Save(ctx, movement); err != nil {
		return nil, nil, err
	}

	var depleted *inventory.LocationStock
	if source.Quantity == 0 && movementType != inventory.MovementTypeAdjust {
		depleted = source
	}
	return movement, depleted, nil
}

// Transfer moves stock between two locations as a single atomic
// TRANSFER movement. The source is debited and the destination
// credited inside one transaction, logged as one ledger row.
func (s *LedgerService) Transfer(ctx context.Context, req TransferRequest) (*MovementResponse, error) {
	return s.RecordMovement(ctx, RecordMovementRequest{
		ProductID:             req.ProductID,
		LocationID:            req.FromLocationID,
		DestinationLocationID: &req.ToLocationID,
		Type:                  string(inventory.MovementTypeTransfer),
		Quantity:              req.Quantity,
		Note:                  req.Note,
		UserID:                req.UserID,
	})
}

// applyMovement locks the stock rows, applies the delta for the
// movement type and fills in the movement's balance columns. Transfer
// rows are locked in a deterministic order so two opposing transfers
// cannot deadlock.
func (s *LedgerService) applyMovement(ctx context.Context, repos TransactionalRepositories, movement *inventory.Movement) (*inventory.LocationStock, error) {
	stockRepo := repos.StockRepo()

	if movement.Type != inventory.MovementTypeTransfer {
		stock, err := s.lockStock(ctx, stockRepo, movement.ProductID, movement.LocationID)
		if err != nil {
			return nil, err
		}

		movement.BalanceBefore = stock.Quantity
		switch movement.Type {
		case inventory.MovementTypeIn:
			err = stock.Increase(movement.Quantity)
		case inventory.MovementTypeOut:
			err = stock.Decrease(movement.Quantity)
		case inventory.MovementTypeAdjust:
			err = stock.SetQuantity(movement.Quantity)
		}
		if err != nil {
			return nil, err
		}
		movement.BalanceAfter = stock.Quantity

		if err := stockRepo.SaveWithLock(ctx, stock); err != nil {
			return nil, err
		}
		return stock, nil
	}

	destinationID := *movement.DestinationLocationID
	locations := []uuid.UUID{movement.LocationID, destinationID}
	if locations[1].String() < locations[0].String() {
		locations[0], locations[1] = locations[1], locations[0]
	}

	locked := make(map[uuid.UUID]*inventory.LocationStock, 2)
	for _, locationID := range locations {
		stock, err := s.lockStock(ctx, stockRepo, movement.ProductID, locationID)
		if err != nil {
			return nil, err
		}
		locked[locationID] = stock
	}

	source := locked[movement.LocationID]
	destination := locked[destinationID]

	movement.BalanceBefore = source.Quantity
	if err := source.Decrease(movement.Quantity); err != nil {
		return nil, err
	}
	if err := destination.Increase(movement.Quantity); err != nil {
		return nil, err
	}
	movement.BalanceAfter = source.Quantity

	for _, locationID := range locations {
		if err := stockRepo.SaveWithLock(ctx, locked[locationID]); err != nil {
			return nil, err
		}
	}
	return source, nil
}

// lockStock ensures the row exists and then acquires its row lock
func (s *LedgerService) lockStock(ctx context.Context, repo inventory.StockRepository, productID, locationID uuid.UUID) (*inventory.LocationStock, error) {
	if _, err := repo.GetOrCreate(ctx, productID, locationID); err != nil {
		return nil, err
	}
	return repo.FindForUpdate(ctx, productID, locationID)
}

func (s *LedgerService) publishEvents(ctx context.Context, movement *inventory.Movement, depleted *inventory.LocationStock) {
	if s.eventBus == nil {
		return
	}

	events := []shared.DomainEvent{inventory.NewMovementRecordedEvent(movement)}
	if depleted != nil {
		events = append(events, inventory.NewStockDepletedEvent(depleted))
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish movement events",
			zap.String("movement_id", movement.ID.String()),
			zap.Error(err))
	}
}

// GetProductStock returns the per-location balances of a product
func (s *LedgerService) GetProductStock(ctx context.Context, productID uuid.UUID) ([]*StockResponse, error) {
	stocks, err := s.stockRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	responses := make([]*StockResponse, 0, len(stocks))
	for i := range stocks {
		responses = append(responses, NewStockResponse(&stocks[i]))
	}
	return responses, nil
}

// ListStockByLocations returns paginated stock records limited to the
// given locations. Callers resolve the location set from the user's
// access scope before invoking this.
func (s *LedgerService) ListStockByLocations(ctx context.Context, locationIDs []uuid.UUID, filter shared.Filter) (*shared.Paginated[StockResponse], error) {
	page, err := s.stockRepo.FindByLocations(ctx, locationIDs, filter)
	if err != nil {
		return nil, err
	}
	return mapPage(page, func(stock *inventory.LocationStock) StockResponse {
		return *NewStockResponse(stock)
	}), nil
}

// ListStock returns paginated stock records across all locations
func (s *LedgerService) ListStock(ctx context.Context, filter shared.Filter) (*shared.Paginated[StockResponse], error) {
	return s.ListStockByLocations(ctx, nil, filter)
}

// ListMovements returns the paginated ledger, optionally limited to a
// set of locations
func (s *LedgerService) ListMovements(ctx context.Context, locationIDs []uuid.UUID, filter shared.Filter) (*shared.Paginated[MovementResponse], error) {
	var page *shared.Paginated[inventory.Movement]
	var err error
	if locationIDs == nil {
		page, err = s.movementRepo.FindAll(ctx, filter)
	} else {
		page, err = s.movementRepo.FindByLocations(ctx, locationIDs, filter)
	}
	if err != nil {
		return nil, err
	}
	return mapPage(page, func(m *inventory.Movement) MovementResponse {
		return *NewMovementResponse(m)
	}), nil
}

func mapPage[I any, O any](page *shared.Paginated[I], mapFn func(*I) O) *shared.Paginated[O] {
	items := make([]O, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, mapFn(&page.Items[i]))
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
}
