package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	identityapp "github.com/ims/backend/internal/application/identity"
	inventoryapp "github.com/ims/backend/internal/application/inventory"
	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/identity"
	"github.com/ims/backend/internal/domain/inventory"
	"github.com/ims/backend/internal/domain/location"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/infrastructure/auth"
	"github.com/ims/backend/internal/infrastructure/config"
	"github.com/ims/backend/internal/interfaces/http/middleware"
)

type stockKey struct {
	productID  uuid.UUID
	locationID uuid.UUID
}

type memStockRepo struct {
	stocks map[stockKey]*inventory.LocationStock
}

func newMemStockRepo() *memStockRepo {
	return &memStockRepo{stocks: make(map[stockKey]*inventory.LocationStock)}
}

func (r *memStockRepo) GetOrCreate(_ context.Context, productID, locationID uuid.UUID) (*inventory.LocationStock, error) {
	key := stockKey{productID, locationID}
	if stock, ok := r.stocks[key]; ok {
		return stock, nil
	}
	stock := inventory.NewLocationStock(productID, locationID)
	r.stocks[key] = stock
	return stock, nil
}

func (r *memStockRepo) FindForUpdate(_ context.Context, productID, locationID uuid.UUID) (*inventory.LocationStock, error) {
	stock, ok := r.stocks[stockKey{productID, locationID}]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return stock, nil
}

func (r *memStockRepo) FindByProduct(_ context.Context, productID uuid.UUID) ([]inventory.LocationStock, error) {
	var out []inventory.LocationStock
	for key, stock := range r.stocks {
		if key.productID == productID {
			out = append(out, *stock)
		}
	}
	return out, nil
}

func (r *memStockRepo) FindByLocation(_ context.Context, locationID uuid.UUID, _ shared.Filter) (*shared.Paginated[inventory.LocationStock], error) {
	var out []inventory.LocationStock
	for key, stock := range r.stocks {
		if key.locationID == locationID {
			out = append(out, *stock)
		}
	}
	return shared.NewPaginated(out, int64(len(out)), 1, 20), nil
}

// A nil slice means no restriction, mirroring the gorm repository
func (r *memStockRepo) FindByLocations(_ context.Context, locationIDs []uuid.UUID, _ shared.Filter) (*shared.Paginated[inventory.LocationStock], error) {
	var out []inventory.LocationStock
	for key, stock := range r.stocks {
		if locationIDs == nil {
			out = append(out, *stock)
			continue
		}
		for _, id := range locationIDs {
			if key.locationID == id {
				out = append(out, *stock)
			}
		}
	}
	return shared.NewPaginated(out, int64(len(out)), 1, 20), nil
}

func (r *memStockRepo) SaveWithLock(_ context.Context, stock *inventory.LocationStock) error {
	r.stocks[stockKey{stock.ProductID, stock.LocationID}] = stock
	return nil
}

type memMovementRepo struct {
	movements []*inventory.Movement
}

func (r *memMovementRepo) Save(_ context.Context, movement *inventory.Movement) error {
	r.movements = append(r.movements, movement)
	return nil
}

func (r *memMovementRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.Movement, error) {
	for _, m := range r.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memMovementRepo) FindAll(_ context.Context, _ shared.Filter) (*shared.Paginated[inventory.Movement], error) {
	out := make([]inventory.Movement, 0, len(r.movements))
	for _, m := range r.movements {
		out = append(out, *m)
	}
	return shared.NewPaginated(out, int64(len(out)), 1, 20), nil
}

func (r *memMovementRepo) FindByLocations(_ context.Context, locationIDs []uuid.UUID, _ shared.Filter) (*shared.Paginated[inventory.Movement], error) {
	var out []inventory.Movement
	for _, m := range r.movements {
		if locationIDs == nil {
			out = append(out, *m)
			continue
		}
		for _, id := range locationIDs {
			if m.LocationID == id || (m.DestinationLocationID != nil && *m.DestinationLocationID == id) {
				out = append(out, *m)
			}
		}
	}
	return shared.NewPaginated(out, int64(len(out)), 1, 20), nil
}

type memProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func (r *memProductRepo) Save(_ context.Context, product *catalog.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return product, nil
}

func (r *memProductRepo) FindAll(_ context.Context, _ shared.Filter) (*shared.Paginated[catalog.Product], error) {
	out := make([]catalog.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return shared.NewPaginated(out, int64(len(out)), 1, 20), nil
}

func (r *memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

type memUserRepo struct {
	users map[uuid.UUID]*identity.User
}

func (r *memUserRepo) Save(_ context.Context, user *identity.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*identity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memUserRepo) FindAll(_ context.Context, _ shared.Filter) (*shared.Paginated[identity.User], error) {
	out := make([]identity.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return shared.NewPaginated(out, int64(len(out)), 1, 20), nil
}

type memLocationRepo struct {
	locations map[uuid.UUID]*location.Location
}

func (r *memLocationRepo) Save(_ context.Context, loc *location.Location) error {
	r.locations[loc.ID] = loc
	return nil
}

func (r *memLocationRepo) FindByID(_ context.Context, id uuid.UUID) (*location.Location, error) {
	loc, ok := r.locations[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return loc, nil
}

func (r *memLocationRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]location.Location, error) {
	var out []location.Location
	for _, id := range ids {
		if loc, ok := r.locations[id]; ok {
			out = append(out, *loc)
		}
	}
	return out, nil
}

func (r *memLocationRepo) FindAll(_ context.Context, _ shared.Filter) (*shared.Paginated[location.Location], error) {
	out := make([]location.Location, 0, len(r.locations))
	for _, l := range r.locations {
		out = append(out, *l)
	}
	return shared.NewPaginated(out, int64(len(out)), 1, 20), nil
}

func (r *memLocationRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.locations, id)
	return nil
}

type inventoryFixture struct {
	engine     *gin.Engine
	jwtService *auth.JWTService
	users      *memUserRepo
	stocks     *memStockRepo
	product    *catalog.Product
	locationA  uuid.UUID
	locationB  uuid.UUID
}

func newInventoryFixture(t *testing.T) *inventoryFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	stocks := newMemStockRepo()
	movements := &memMovementRepo{}
	products := &memProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
	users := &memUserRepo{users: make(map[uuid.UUID]*identity.User)}
	locations := &memLocationRepo{locations: make(map[uuid.UUID]*location.Location)}

	product, err := catalog.NewProduct("Widget", "", decimal.NewFromFloat(10.00))
	require.NoError(t, err)
	require.NoError(t, products.Save(context.Background(), product))

	locA, err := location.NewLocation("Main Store", "")
	require.NoError(t, err)
	locB, err := location.NewLocation("Warehouse", "")
	require.NoError(t, err)
	require.NoError(t, locations.Save(context.Background(), locA))
	require.NoError(t, locations.Save(context.Background(), locB))

	// Seed 100 units in each location
	for _, locID := range []uuid.UUID{locA.ID, locB.ID} {
		stock, err := stocks.GetOrCreate(context.Background(), product.ID, locID)
		require.NoError(t, err)
		require.NoError(t, stock.Increase(100))
	}

	scope := inventoryapp.NewNoOpTransactionScope(stocks, movements, products)
	ledgerService := inventoryapp.NewLedgerService(scope, stocks, movements, nil, nil, zap.NewNop())
	accessService := identityapp.NewAccessService(users, locations)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-for-handlers",
		AccessTokenExpiration: time.Hour,
		Issuer:                "ims-test",
	}, auth.NewInMemoryTokenBlacklist())

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.JWTAuth(middleware.JWTConfig{JWTService: jwtService}))
	api := engine.Group("/api/v1")
	NewInventoryHandler(ledgerService, accessService).RegisterRoutes(api)

	return &inventoryFixture{
		engine:     engine,
		jwtService: jwtService,
		users:      users,
		stocks:     stocks,
		product:    product,
		locationA:  locA.ID,
		locationB:  locB.ID,
	}
}

func (f *inventoryFixture) tokenFor(t *testing.T, role identity.Role, grants ...uuid.UUID) string {
	t.Helper()
	user, err := identity.NewUser(fmt.Sprintf("%s@example.com", uuid.NewString()[:8]), "password123", "Test User", role)
	require.NoError(t, err)
	if len(grants) > 0 {
		user.GrantLocations(grants)
	}
	require.NoError(t, f.users.Save(context.Background(), user))

	token, _, err := f.jwtService.Issue(context.Background(), user)
	require.NoError(t, err)
	return token
}

func (f *inventoryFixture) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func TestInventoryHandler_ListStock_ScopedToGrants(t *testing.T) {
	f := newInventoryFixture(t)
	token := f.tokenFor(t, identity.RoleStaff, f.locationA)

	w := f.request(t, http.MethodGet, "/api/v1/inventory/stock", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []inventoryapp.StockResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, f.locationA, resp.Data[0].LocationID)
}

func TestInventoryHandler_ListStock_AdminSeesAll(t *testing.T) {
	f := newInventoryFixture(t)
	token := f.tokenFor(t, identity.RoleAdmin)

	w := f.request(t, http.MethodGet, "/api/v1/inventory/stock", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []inventoryapp.StockResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
}

func TestInventoryHandler_ListStock_FilterOutsideScope(t *testing.T) {
	f := newInventoryFixture(t)
	token := f.tokenFor(t, identity.RoleStaff, f.locationA)

	w := f.request(t, http.MethodGet, "/api/v1/inventory/stock?location_id="+f.locationB.String(), token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}

func TestInventoryHandler_ListStock_NoGrantsEmptyResult(t *testing.T) {
	f := newInventoryFixture(t)
	token := f.tokenFor(t, identity.RoleStaff)

	w := f.request(t, http.MethodGet, "/api/v1/inventory/stock", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []inventoryapp.StockResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data)
}

func TestInventoryHandler_RecordMovement_OutsideScope(t *testing.T) {
	f := newInventoryFixture(t)
	token := f.tokenFor(t, identity.RoleStaff, f.locationA)

	w := f.request(t, http.MethodPost, "/api/v1/inventory/movements", token, gin.H{
		"product_id":  f.product.ID,
		"location_id": f.locationB,
		"type":        "OUT",
		"quantity":    10,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, int64(100), f.stocks.stocks[stockKey{f.product.ID, f.locationB}].Quantity)
}

func TestInventoryHandler_RecordMovement_WithinScope(t *testing.T) {
	f := newInventoryFixture(t)
	token := f.tokenFor(t, identity.RoleStaff, f.locationA)

	w := f.request(t, http.MethodPost, "/api/v1/inventory/movements", token, gin.H{
		"product_id":  f.product.ID,
		"location_id": f.locationA,
		"type":        "OUT",
		"quantity":    30,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int64(70), f.stocks.stocks[stockKey{f.product.ID, f.locationA}].Quantity)
}

func TestInventoryHandler_InsufficientStockMapsTo422(t *testing.T) {
	f := newInventoryFixture(t)
	token := f.tokenFor(t, identity.RoleAdmin)

	w := f.request(t, http.MethodPost, "/api/v1/inventory/movements", token, gin.H{
		"product_id":  f.product.ID,
		"location_id": f.locationA,
		"type":        "OUT",
		"quantity":    500,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "INSUFFICIENT_STOCK")
}

func TestInventoryHandler_Transfer_RequiresBothLocations(t *testing.T) {
	f := newInventoryFixture(t)
	token := f.tokenFor(t, identity.RoleStaff, f.locationA)

	w := f.request(t, http.MethodPost, "/api/v1/inventory/transfers", token, gin.H{
		"product_id":       f.product.ID,
		"from_location_id": f.locationA,
		"to_location_id":   f.locationB,
		"quantity":         10,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	token = f.tokenFor(t, identity.RoleStaff, f.locationA, f.locationB)
	w = f.request(t, http.MethodPost, "/api/v1/inventory/transfers", token, gin.H{
		"product_id":       f.product.ID,
		"from_location_id": f.locationA,
		"to_location_id":   f.locationB,
		"quantity":         10,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int64(90), f.stocks.stocks[stockKey{f.product.ID, f.locationA}].Quantity)
	assert.Equal(t, int64(110), f.stocks.stocks[stockKey{f.product.ID, f.locationB}].Quantity)
}
