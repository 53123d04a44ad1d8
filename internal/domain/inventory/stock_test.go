package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationStock_Increase(t *testing.T) {
	stock := NewLocationStock(uuid.New(), uuid.New())

	require.NoError(t, stock.Increase(100))
	assert.Equal(t, int64(100), stock.Quantity)
	assert.Equal(t, 2, stock.GetVersion())

	require.NoError(t, stock.Increase(50))
	assert.Equal(t, int64(150), stock.Quantity)
}

func TestLocationStock_Increase_RejectsNonPositive(t *testing.T) {
	stock := NewLocationStock(uuid.New(), uuid.New())

	assert.ErrorIs(t, stock.Increase(0), shared.ErrInvalidQuantity)
	assert.ErrorIs(t, stock.Increase(-10), shared.ErrInvalidQuantity)
	assert.Equal(t, int64(0), stock.Quantity)
}

func TestLocationStock_Decrease(t *testing.T) {
	stock := NewLocationStock(uuid.New(), uuid.New())
	require.NoError(t, stock.Increase(100))

	require.NoError(t, stock.Decrease(40))
	assert.Equal(t, int64(60), stock.Quantity)

	require.NoError(t, stock.Decrease(60))
	assert.Equal(t, int64(0), stock.Quantity)
}

func TestLocationStock_Decrease_InsufficientStock(t *testing.T) {
	stock := NewLocationStock(uuid.New(), uuid.New())
	require.NoError(t, stock.Increase(10))

	err := stock.Decrease(11)
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.Equal(t, "Insufficient stock: available 10, requested 11", err.Error())
	assert.Equal(t, int64(10), stock.Quantity)
}

func TestLocationStock_SetQuantity(t *testing.T) {
	stock := NewLocationStock(uuid.New(), uuid.New())
	require.NoError(t, stock.Increase(100))

	require.NoError(t, stock.SetQuantity(42))
	assert.Equal(t, int64(42), stock.Quantity)

	require.NoError(t, stock.SetQuantity(0))
	assert.Equal(t, int64(0), stock.Quantity)

	assert.ErrorIs(t, stock.SetQuantity(-1), shared.ErrInvalidQuantity)
}
