package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ims/backend/internal/domain/purchasing"
	"github.com/ims/backend/internal/domain/shared"
)

func newOrderTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&purchasing.PurchaseOrder{}, &purchasing.PurchaseOrderItem{})
	require.NoError(t, err)

	return db
}

func newTestOrder(t *testing.T, items int) *purchasing.PurchaseOrder {
	t.Helper()

	order := purchasing.NewPurchaseOrder(uuid.New(), uuid.New(), time.Now(), nil)
	for i := 0; i < items; i++ {
		require.NoError(t, order.AddItem(uuid.New(), int64(10*(i+1)), decimal.NewFromFloat(5.50)))
	}
	return order
}

func TestGormPurchaseOrderRepository_SaveAndFind(t *testing.T) {
	repo := NewGormPurchaseOrderRepository(newOrderTestDB(t))
	ctx := context.Background()

	order := newTestOrder(t, 2)
	require.NoError(t, repo.Save(ctx, order))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.SupplierID, found.SupplierID)
	assert.Equal(t, purchasing.OrderStatusPending, found.Status)
	require.Len(t, found.Items, 2)
	assert.Equal(t, int64(10), found.Items[0].Quantity)
}

func TestGormPurchaseOrderRepository_FindByIDNotFound(t *testing.T) {
	repo := NewGormPurchaseOrderRepository(newOrderTestDB(t))

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormPurchaseOrderRepository_SaveReplacesItems(t *testing.T) {
	repo := NewGormPurchaseOrderRepository(newOrderTestDB(t))
	ctx := context.Background()

	order := newTestOrder(t, 2)
	require.NoError(t, repo.Save(ctx, order))

	require.NoError(t, order.ReplaceItems([]purchasing.PurchaseOrderItem{
		{ProductID: uuid.New(), Quantity: 7, CostPerUnit: decimal.NewFromFloat(3.25)},
	}))
	require.NoError(t, repo.Save(ctx, order))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, int64(7), found.Items[0].Quantity)
}

func TestGormPurchaseOrderRepository_SaveWithLock(t *testing.T) {
	repo := NewGormPurchaseOrderRepository(newOrderTestDB(t))
	ctx := context.Background()

	order := newTestOrder(t, 1)
	require.NoError(t, repo.Save(ctx, order))

	require.NoError(t, order.Approve())
	require.NoError(t, repo.SaveWithLock(ctx, order))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, purchasing.OrderStatusApproved, found.Status)
	assert.Equal(t, order.Version, found.Version)
}

func TestGormPurchaseOrderRepository_SaveWithLockConflict(t *testing.T) {
	repo := NewGormPurchaseOrderRepository(newOrderTestDB(t))
	ctx := context.Background()

	order := newTestOrder(t, 1)
	require.NoError(t, repo.Save(ctx, order))

	// A stale copy whose version check no longer matches the row
	stale := *order
	stale.Version = order.Version + 5

	err := repo.SaveWithLock(ctx, &stale)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}

func TestGormPurchaseOrderRepository_FindAllStatusFilter(t *testing.T) {
	repo := NewGormPurchaseOrderRepository(newOrderTestDB(t))
	ctx := context.Background()

	pending := newTestOrder(t, 1)
	require.NoError(t, repo.Save(ctx, pending))

	approved := newTestOrder(t, 1)
	require.NoError(t, approved.Approve())
	require.NoError(t, repo.Save(ctx, approved))

	filter := shared.DefaultFilter()
	filter.Filters["status"] = "approved"

	page, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, approved.ID, page.Items[0].ID)
	assert.Equal(t, int64(1), page.Total)
}

func TestGormPurchaseOrderRepository_CountBySupplier(t *testing.T) {
	repo := NewGormPurchaseOrderRepository(newOrderTestDB(t))
	ctx := context.Background()

	order := newTestOrder(t, 1)
	require.NoError(t, repo.Save(ctx, order))

	count, err := repo.CountBySupplier(ctx, order.SupplierID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.CountBySupplier(ctx, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGormPurchaseOrderRepository_Delete(t *testing.T) {
	db := newOrderTestDB(t)
	repo := NewGormPurchaseOrderRepository(db)
	ctx := context.Background()

	order := newTestOrder(t, 2)
	require.NoError(t, repo.Save(ctx, order))

	require.NoError(t, repo.Delete(ctx, order.ID))

	_, err := repo.FindByID(ctx, order.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var itemCount int64
	require.NoError(t, db.Model(&purchasing.PurchaseOrderItem{}).Count(&itemCount).Error)
	assert.Zero(t, itemCount)

	assert.ErrorIs(t, repo.Delete(ctx, order.ID), shared.ErrNotFound)
}
