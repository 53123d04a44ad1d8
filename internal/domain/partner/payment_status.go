package partner

import "time"

// PaymentStatus is a live bucket label describing how close a
// supplier's next payment is to falling due. It is always derived,
// never stored.
type PaymentStatus string

const (
	PaymentStatusNoInvoices PaymentStatus = "no_invoices"
	PaymentStatusOverdue    PaymentStatus = "overdue"
	PaymentStatusDueToday   PaymentStatus = "due_today"
	PaymentStatusDueSoon    PaymentStatus = "due_soon"
	PaymentStatusDueWeek    PaymentStatus = "due_week"
	PaymentStatusCurrent    PaymentStatus = "current"
)

// BucketPaymentStatus classifies a due date against a reference day.
// Both timestamps are truncated to whole days so the comparison is
// calendar-based, not clock-based.
func BucketPaymentStatus(dueDate *time.Time, today time.Time) PaymentStatus {
	if dueDate == nil {
		return PaymentStatusNoInvoices
	}

	days := daysBetween(today, *dueDate)
	switch {
	case days < 0:
		return PaymentStatusOverdue
	case days == 0:
		return PaymentStatusDueToday
	case days <= 3:
		return PaymentStatusDueSoon
	case days <= 7:
		return PaymentStatusDueWeek
	default:
		return PaymentStatusCurrent
	}
}

func daysBetween(from, to time.Time) int {
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	to = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
