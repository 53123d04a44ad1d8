package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	fail     bool
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.fail {
		return errors.New("handler failure")
	}
	h.received = append(h.received, event)
	return nil
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func newTestEvent(eventType string) shared.DomainEvent {
	event := shared.NewBaseDomainEvent(eventType, "Test", uuid.New())
	return &event
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := &recordingHandler{types: []string{"inventory.movement.recorded"}}
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("inventory.movement.recorded")))
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("purchasing.order.created")))

	// only the subscribed type arrives
	assert.Len(t, handler.received, 1)
}

func TestInMemoryEventBus_CatchAllHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := &recordingHandler{}
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(),
		newTestEvent("inventory.movement.recorded"),
		newTestEvent("purchasing.order.received"),
	))

	assert.Len(t, handler.received, 2)
}

func TestInMemoryEventBus_HandlerFailureDoesNotAbort(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	failing := &recordingHandler{types: []string{"test.event"}, fail: true}
	working := &recordingHandler{types: []string{"test.event"}}
	bus.Subscribe(failing)
	bus.Subscribe(working)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("test.event")))
	assert.Len(t, working.received, 1)
}
