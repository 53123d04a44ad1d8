package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovementType_IsValid(t *testing.T) {
	assert.True(t, MovementTypeIn.IsValid())
	assert.True(t, MovementTypeOut.IsValid())
	assert.True(t, MovementTypeAdjust.IsValid())
	assert.True(t, MovementTypeTransfer.IsValid())
	assert.False(t, MovementType("RETURN").IsValid())
	assert.False(t, MovementType("").IsValid())
}

func TestNewMovement(t *testing.T) {
	movement, err := NewMovement(MovementTypeIn, uuid.New(), uuid.New(), 50, decimal.NewFromFloat(8.00))
	require.NoError(t, err)
	assert.Equal(t, MovementTypeIn, movement.Type)
	assert.Equal(t, int64(50), movement.Quantity)
	assert.True(t, movement.UnitPrice.Equal(decimal.NewFromFloat(8.00)))
}

func TestNewMovement_QuantityValidation(t *testing.T) {
	productID := uuid.New()
	locationID := uuid.New()

	_, err := NewMovement(MovementTypeIn, productID, locationID, 0, decimal.Zero)
	assert.ErrorIs(t, err, shared.ErrInvalidQuantity)

	_, err = NewMovement(MovementTypeOut, productID, locationID, -5, decimal.Zero)
	assert.ErrorIs(t, err, shared.ErrInvalidQuantity)

	// quantity must be positive for every type, adjustments included
	_, err = NewMovement(MovementTypeAdjust, productID, locationID, 0, decimal.Zero)
	assert.ErrorIs(t, err, shared.ErrInvalidQuantity)

	_, err = NewMovement(MovementTypeAdjust, productID, locationID, -1, decimal.Zero)
	assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
}

func TestNewMovement_RejectsUnknownType(t *testing.T) {
	_, err := NewMovement(MovementType("RETURN"), uuid.New(), uuid.New(), 1, decimal.Zero)
	assert.Error(t, err)
}

func TestMovement_WithDestination(t *testing.T) {
	source := uuid.New()
	destination := uuid.New()

	transfer, err := NewMovement(MovementTypeTransfer, uuid.New(), source, 10, decimal.Zero)
	require.NoError(t, err)

	require.NoError(t, transfer.WithDestination(destination))
	require.NotNil(t, transfer.DestinationLocationID)
	assert.Equal(t, destination, *transfer.DestinationLocationID)
	assert.NoError(t, transfer.Validate())
}

func TestMovement_WithDestination_SameLocation(t *testing.T) {
	source := uuid.New()

	transfer, err := NewMovement(MovementTypeTransfer, uuid.New(), source, 10, decimal.Zero)
	require.NoError(t, err)

	assert.ErrorIs(t, transfer.WithDestination(source), shared.ErrInvalidTransfer)
}

func TestMovement_WithDestination_NonTransfer(t *testing.T) {
	movement, err := NewMovement(MovementTypeIn, uuid.New(), uuid.New(), 10, decimal.Zero)
	require.NoError(t, err)

	assert.ErrorIs(t, movement.WithDestination(uuid.New()), shared.ErrInvalidTransfer)
}

func TestMovement_Validate(t *testing.T) {
	t.Run("transfer without destination", func(t *testing.T) {
		transfer, err := NewMovement(MovementTypeTransfer, uuid.New(), uuid.New(), 10, decimal.Zero)
		require.NoError(t, err)
		assert.ErrorIs(t, transfer.Validate(), shared.ErrInvalidTransfer)
	})

	t.Run("destination on non-transfer", func(t *testing.T) {
		movement, err := NewMovement(MovementTypeOut, uuid.New(), uuid.New(), 10, decimal.Zero)
		require.NoError(t, err)
		destination := uuid.New()
		movement.DestinationLocationID = &destination
		assert.ErrorIs(t, movement.Validate(), shared.ErrInvalidTransfer)
	})
}
