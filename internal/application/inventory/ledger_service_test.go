package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/inventory"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stockKey struct {
	productID  uuid.UUID
	locationID uuid.UUID
}

type fakeStockRepo struct {
	stocks map[stockKey]*inventory.LocationStock
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{stocks: make(map[stockKey]*inventory.LocationStock)}
}

func (r *fakeStockRepo) GetOrCreate(_ context.Context, productID, locationID uuid.UUID) (*inventory.LocationStock, error) {
	key := stockKey{productID, locationID}
	if stock, ok := r.stocks[key]; ok {
		return stock, nil
	}
	stock := inventory.NewLocationStock(productID, locationID)
	r.stocks[key] = stock
	return stock, nil
}

func (r *fakeStockRepo) FindForUpdate(_ context.Context, productID, locationID uuid.UUID) (*inventory.LocationStock, error) {
	stock, ok := r.stocks[stockKey{productID, locationID}]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return stock, nil
}

func (r *fakeStockRepo) FindByProduct(_ context.Context, productID uuid.UUID) ([]inventory.LocationStock, error) {
	var out []inventory.LocationStock
	for key, stock := range r.stocks {
		if key.productID == productID {
			out = append(out, *stock)
		}
	}
	return out, nil
}

func (r *fakeStockRepo) FindByLocation(_ context.Context, locationID uuid.UUID, _ shared.Filter) (*shared.Paginated[inventory.LocationStock], error) {
	var out []inventory.LocationStock
	for key, stock := range r.stocks {
		if key.locationID == locationID {
			out = append(out, *stock)
		}
	}
	return shared.NewPaginated(out, int64(len(out)), 1, 20), nil
}

func (r *fakeStockRepo) FindByLocations(_ context.Context, locationIDs []uuid.UUID, _ shared.Filter) (*shared.Paginated[inventory.LocationStock], error) {
	var out []inventory.LocationStock
	for key, stock := range r.stocks {
		for _, id := range locationIDs {
			if key.locationID == id {
				out = append(out, *stock)
			}
		}
	}
	return shared.NewPaginated(out, int64(len(out)), 1, 20), nil
}

func (r *fakeStockRepo) SaveWithLock(_ context.Context, stock *inventory.LocationStock) error {
	r.stocks[stockKey{stock.ProductID, stock.LocationID}] = stock
	return nil
}

func (r *fakeStockRepo) quantity(productID, locationID uuid.UUID) int64 {
	if stock, ok := r.stocks[stockKey{productID, locationID}]; ok {
		return stock.Quantity
	}
	return 0
}

type fakeMovementRepo struct {
	movements []*inventory.Movement
}

func (r *fakeMovementRepo) Save(_ context.Context, movement *inventory.Movement) error {
	r.movements = append(r.movements, movement)
	return nil
}

func (r *fakeMovementRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.Movement, error) {
	for _, m := range r.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeMovementRepo) FindAll(_ context.Context, _ shared.Filter) (*shared.Paginated[inventory.Movement], error) {
	out := make([]inventory.Movement, 0, len(r.movements))
	for _, m := range r.movements {
		out = append(out, *m)
	}
	return shared.NewPaginated(out, int64(len(out)), 1, 20), nil
}

func (r *fakeMovementRepo) FindByLocations(_ context.Context, locationIDs []uuid.UUID, _ shared.Filter) (*shared.Paginated[inventory.Movement], error) {
	var out []inventory.Movement
	for _, m := range r.movements {
		for _, id := range locationIDs {
			if m.LocationID == id {
				out = append(out, *m)
			}
		}
	}
	return shared.NewPaginated(out, int64(len(out)), 1, 20), nil
}

type fakeProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *fakeProductRepo) Save(_ context.Context, product *catalog.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return product, nil
}

func (r *fakeProductRepo) FindAll(_ context.Context, _ shared.Filter) (*shared.Paginated[catalog.Product], error) {
	return shared.NewPaginated([]catalog.Product{}, 0, 1, 20), nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

type ledgerFixture struct {
	service   *LedgerService
	stocks    *fakeStockRepo
	movements *fakeMovementRepo
	products  *fakeProductRepo
	product   *catalog.Product
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()

	stocks := newFakeStockRepo()
	movements := &fakeMovementRepo{}
	products := newFakeProductRepo()

	product, err := catalog.NewProduct("Widget", "", decimal.NewFromFloat(10.00))
	require.NoError(t, err)
	require.NoError(t, products.Save(context.Background(), product))

	scope := NewNoOpTransactionScope(stocks, movements, products)
	service := NewLedgerService(scope, stocks, movements, nil, nil, zap.NewNop())

	return &ledgerFixture{
		service:   service,
		stocks:    stocks,
		movements: movements,
		products:  products,
		product:   product,
	}
}

func TestLedgerService_RecordMovement_In(t *testing.T) {
	f := newLedgerFixture(t)
	locationID := uuid.New()

	resp, err := f.service.RecordMovement(context.Background(), RecordMovementRequest{
		ProductID:  f.product.ID,
		LocationID: locationID,
		Type:       "IN",
		Quantity:   100,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(0), resp.BalanceBefore)
	assert.Equal(t, int64(100), resp.BalanceAfter)
	// unit price defaults to the product's current cost
	assert.Equal(t, "10.00", resp.UnitPrice.StringFixed(2))
	assert.Equal(t, int64(100), f.stocks.quantity(f.product.ID, locationID))
	assert.Len(t, f.movements.movements, 1)
}

func TestLedgerService_RecordMovement_Out(t *testing.T) {
	f := newLedgerFixture(t)
	locationID := uuid.New()

	_, err := f.service.RecordMovement(context.Background(), RecordMovementRequest{
		ProductID: f.product.ID, LocationID: locationID, Type: "IN", Quantity: 100,
	})
	require.NoError(t, err)

	resp, err := f.service.RecordMovement(context.Background(), RecordMovementRequest{
		ProductID: f.product.ID, LocationID: locationID, Type: "OUT", Quantity: 40,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(100), resp.BalanceBefore)
	assert.Equal(t, int64(60), resp.BalanceAfter)
	assert.Equal(t, int64(60), f.stocks.quantity(f.product.ID, locationID))
}

func TestLedgerService_RecordMovement_OutInsufficient(t *testing.T) {
	f := newLedgerFixture(t)
	locationID := uuid.New()

	_, err := f.service.RecordMovement(context.Background(), RecordMovementRequest{
		ProductID: f.product.ID, LocationID: locationID, Type: "IN", Quantity: 10,
	})
	require.NoError(t, err)

	_, err = f.service.RecordMovement(context.Background(), RecordMovementRequest{
		ProductID: f.product.ID, LocationID: locationID, Type: "OUT", Quantity: 11,
	})
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.EqualError(t, err, "Insufficient stock: available 10, requested 11")

	// the failed call must leave no trace
	assert.Equal(t, int64(10), f.stocks.quantity(f.product.ID, locationID))
	assert.Len(t, f.movements.movements, 1)
}

func TestLedgerService_RecordMovement_Adjust(t *testing.T) {
	f := newLedgerFixture(t)
	locationID := uuid.New()

	_, err := f.service.RecordMovement(context.Background(), RecordMovementRequest{
		ProductID: f.product.ID, LocationID: locationID, Type: "IN", Quantity: 100,
	})
	require.NoError(t, err)

	// adjustment sets the absolute balance, not a delta
	resp, err := f.service.RecordMovement(context.Background(), RecordMovementRequest{
		ProductID: f.product.ID, LocationID: locationID, Type: "ADJ", Quantity: 42,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(100), resp.BalanceBefore)
	assert.Equal(t, int64(42), resp.BalanceAfter)
	assert.Equal(t, int64(42), f.stocks.quantity(f.product.ID, locationID))
}

func TestLedgerService_RecordMovement_InactiveProduct(t *testing.T) {
	f := newLedgerFixture(t)
	f.product.Deactivate()

	_, err := f.service.RecordMovement(context.Background(), RecordMovementRequest{
		ProductID: f.product.ID, LocationID: uuid.New(), Type: "IN", Quantity: 10,
	})
	assert.ErrorIs(t, err, shared.ErrInactiveProduct)
	assert.Empty(t, f.movements.movements)
}

func TestLedgerService_RecordMovement_UnknownProduct(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.service.RecordMovement(context.Background(), RecordMovementRequest{
		ProductID: uuid.New(), LocationID: uuid.New(), Type: "IN", Quantity: 10,
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestLedgerService_RecordMovement_ExplicitUnitPrice(t *testing.T) {
	f := newLedgerFixture(t)
	price := decimal.NewFromFloat(8.00)

	resp, err := f.service.RecordMovement(context.Background(), RecordMovementRequest{
		ProductID:  f.product.ID,
		LocationID: uuid.New(),
		Type:       "IN",
		Quantity:   50,
		UnitPrice:  &price,
	})
	require.NoError(t, err)
	assert.Equal(t, "8.00", resp.UnitPrice.StringFixed(2))
}

func TestLedgerService_Transfer(t *testing.T) {
	f := newLedgerFixture(t)
	source := uuid.New()
	destination := uuid.New()

	_, err := f.service.RecordMovement(context.Background(), RecordMovementRequest{
		ProductID: f.product.ID, LocationID: source, Type: "IN", Quantity: 100,
	})
	require.NoError(t, err)

	resp, err := f.service.Transfer(context.Background(), TransferRequest{
		ProductID:      f.product.ID,
		FromLocationID: source,
		ToLocationID:   destination,
		Quantity:       30,
	})
	require.NoError(t, err)

	assert.Equal(t, "TRANSFER", resp.Type)
	require.NotNil(t, resp.DestinationLocationID)
	assert.Equal(t, destination, *resp.DestinationLocationID)
	assert.Equal(t, int64(70), f.stocks.quantity(f.product.ID, source))
	assert.Equal(t, int64(30), f.stocks.quantity(f.product.ID, destination))

	// one ledger row for the whole transfer, carrying source balances
	assert.Len(t, f.movements.movements, 2)
	assert.Equal(t, int64(100), resp.BalanceBefore)
	assert.Equal(t, int64(70), resp.BalanceAfter)
}

func TestLedgerService_Transfer_InsufficientStock(t *testing.T) {
	f := newLedgerFixture(t)
	source := uuid.New()
	destination := uuid.New()

	_, err := f.service.RecordMovement(context.Background(), RecordMovementRequest{
		ProductID: f.product.ID, LocationID: source, Type: "IN", Quantity: 5,
	})
	require.NoError(t, err)

	_, err = f.service.Transfer(context.Background(), TransferRequest{
		ProductID:      f.product.ID,
		FromLocationID: source,
		ToLocationID:   destination,
		Quantity:       10,
	})
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.EqualError(t, err, "Insufficient stock: available 5, requested 10")
	assert.Equal(t, int64(5), f.stocks.quantity(f.product.ID, source))
	assert.Equal(t, int64(0), f.stocks.quantity(f.product.ID, destination))
}

func TestLedgerService_Transfer_SameLocation(t *testing.T) {
	f := newLedgerFixture(t)
	locationID := uuid.New()

	_, err := f.service.Transfer(context.Background(), TransferRequest{
		ProductID:      f.product.ID,
		FromLocationID: locationID,
		ToLocationID:   locationID,
		Quantity:       10,
	})
	assert.ErrorIs(t, err, shared.ErrInvalidTransfer)
}

func TestLedgerService_RecordMovement_TransferWithoutDestination(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.service.RecordMovement(context.Background(), RecordMovementRequest{
		ProductID: f.product.ID, LocationID: uuid.New(), Type: "TRANSFER", Quantity: 10,
	})
	assert.ErrorIs(t, err, shared.ErrInvalidTransfer)
}
