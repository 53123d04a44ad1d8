package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/inventory"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockStockRepository creates a GormStockRepository with a mocked SQL connection
func newMockStockRepository(t *testing.T) (*GormStockRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormStockRepository(gormDB), mock, mockDB
}

func TestGormStockRepository_FindForUpdate(t *testing.T) {
	t.Run("locks and returns existing row", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		stockID := uuid.New()
		productID := uuid.New()
		locationID := uuid.New()

		rows := sqlmock.NewRows([]string{
			"id", "created_at", "updated_at", "version", "product_id", "location_id", "quantity",
		}).AddRow(stockID, time.Now(), time.Now(), 1, productID, locationID, int64(40))

		mock.ExpectQuery(`SELECT \* FROM "location_stocks" WHERE product_id = \$1 AND location_id = \$2 ORDER BY "location_stocks"\."id" LIMIT \$3 FOR UPDATE`).
			WithArgs(productID, locationID, 1).
			WillReturnRows(rows)

		stock, err := repo.FindForUpdate(context.Background(), productID, locationID)

		require.NoError(t, err)
		assert.Equal(t, stockID, stock.ID)
		assert.Equal(t, int64(40), stock.Quantity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing row to not found", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		locationID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "location_stocks"`).
			WithArgs(productID, locationID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindForUpdate(context.Background(), productID, locationID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormStockRepository_SaveWithLock(t *testing.T) {
	t.Run("updates row when version matches", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		stock := inventory.NewLocationStock(uuid.New(), uuid.New())
		require.NoError(t, stock.Increase(25))

		mock.ExpectExec(`UPDATE "location_stocks" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SaveWithLock(context.Background(), stock)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns conflict when no row matches the version", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		stock := inventory.NewLocationStock(uuid.New(), uuid.New())
		require.NoError(t, stock.Increase(25))

		mock.ExpectExec(`UPDATE "location_stocks" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveWithLock(context.Background(), stock)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}
