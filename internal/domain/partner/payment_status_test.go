package partner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketPaymentStatus(t *testing.T) {
	today := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

	dueIn := func(days int) *time.Time {
		d := today.AddDate(0, 0, days)
		return &d
	}

	tests := []struct {
		name    string
		dueDate *time.Time
		want    PaymentStatus
	}{
		{"no due date", nil, PaymentStatusNoInvoices},
		{"ten days late", dueIn(-10), PaymentStatusOverdue},
		{"one day late", dueIn(-1), PaymentStatusOverdue},
		{"due today", dueIn(0), PaymentStatusDueToday},
		{"due tomorrow", dueIn(1), PaymentStatusDueSoon},
		{"due in three days", dueIn(3), PaymentStatusDueSoon},
		{"due in four days", dueIn(4), PaymentStatusDueWeek},
		{"due in seven days", dueIn(7), PaymentStatusDueWeek},
		{"due in eight days", dueIn(8), PaymentStatusCurrent},
		{"due next month", dueIn(30), PaymentStatusCurrent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BucketPaymentStatus(tt.dueDate, today))
		})
	}
}

func TestBucketPaymentStatus_IgnoresTimeOfDay(t *testing.T) {
	today := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)
	due := time.Date(2026, 3, 11, 0, 1, 0, 0, time.UTC)

	assert.Equal(t, PaymentStatusDueSoon, BucketPaymentStatus(&due, today))
}

func TestNewSupplier(t *testing.T) {
	supplier, err := NewSupplier("Acme Metals", "TAX-001", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultPaymentTermsDays, supplier.PaymentTerms)
	assert.True(t, supplier.IsActive)

	_, err = NewSupplier("A", "TAX-002", 30)
	assert.Error(t, err)

	_, err = NewSupplier("Acme Metals", "  ", 30)
	assert.Error(t, err)

	_, err = NewSupplier("Acme Metals", "TAX-003", -5)
	assert.Error(t, err)
}

func TestSupplier_PaymentDueDate(t *testing.T) {
	supplier, err := NewSupplier("Acme Metals", "TAX-001", 30)
	require.NoError(t, err)

	assert.Nil(t, supplier.PaymentDueDate(nil))

	ordered := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	due := supplier.PaymentDueDate(&ordered)
	require.NotNil(t, due)
	assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), *due)
}
