// Package telemetry provides OpenTelemetry business metrics for the
// inventory and purchasing workflows. Counters are created against
// the global meter provider; with no SDK installed they are no-ops,
// so recording is always safe.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/ims/backend"

// Metrics holds the business counters
type Metrics struct {
	movementsRecorded   metric.Int64Counter
	movementQuantity    metric.Int64Counter
	insufficientStock   metric.Int64Counter
	ordersReceived      metric.Int64Counter
	orderItemsProcessed metric.Int64Counter
}

// NewMetrics creates the business counters against the global meter provider
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)

	movementsRecorded, err := meter.Int64Counter(
		"ims.inventory.movements",
		metric.WithDescription("Number of stock movements recorded"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create movements counter: %w", err)
	}

	movementQuantity, err := meter.Int64Counter(
		"ims.inventory.movement_quantity",
		metric.WithDescription("Total quantity moved, by movement type"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create movement quantity counter: %w", err)
	}

	insufficientStock, err := meter.Int64Counter(
		"ims.inventory.insufficient_stock_rejections",
		metric.WithDescription("Movements rejected for insufficient stock"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create insufficient stock counter: %w", err)
	}

	ordersReceived, err := meter.Int64Counter(
		"ims.purchasing.orders_received",
		metric.WithDescription("Purchase orders received"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create orders received counter: %w", err)
	}

	orderItemsProcessed, err := meter.Int64Counter(
		"ims.purchasing.order_items_processed",
		metric.WithDescription("Purchase order items posted to stock on receipt"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create order items counter: %w", err)
	}

	return &Metrics{
		movementsRecorded:   movementsRecorded,
		movementQuantity:    movementQuantity,
		insufficientStock:   insufficientStock,
		ordersReceived:      ordersReceived,
		orderItemsProcessed: orderItemsProcessed,
	}, nil
}

// MovementRecorded counts one committed ledger write
func (m *Metrics) MovementRecorded(ctx context.Context, movementType string, quantity int64) {
	attrs := metric.WithAttributes(attribute.String("movement_type", movementType))
	m.movementsRecorded.Add(ctx, 1, attrs)
	m.movementQuantity.Add(ctx, quantity, attrs)
}

// InsufficientStockRejected counts a movement rejected for lack of stock
func (m *Metrics) InsufficientStockRejected(ctx context.Context) {
	m.insufficientStock.Add(ctx, 1)
}

// OrderReceived counts one received purchase order
func (m *Metrics) OrderReceived(ctx context.Context, itemCount int) {
	m.ordersReceived.Add(ctx, 1)
	m.orderItemsProcessed.Add(ctx, int64(itemCount))
}
