package domain

import "time"

// QuotaTransactionType represents the business reason for a ledger entry
type QuotaTransactionType string

const (
	TxPurchase   QuotaTransactionType = "purchase"
	TxBooking    QuotaTransactionType = "booking"
	TxRefund     QuotaTransactionType = "refund"
	TxAdjustment QuotaTransactionType = "adjustment"
)

// UserQuota is a user's prepaid lesson-hour balance.
// Never mutated directly - only through quota transactions.
// Invariant: 0 <= UsedHours <= TotalHours at all times.
type UserQuota struct {
	UserID     int64
	TotalHours float64
	UsedHours  float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RemainingHours is derived, recomputed on read
func (q *UserQuota) RemainingHours() float64 {
	return q.TotalHours - q.UsedHours
}

// CanDebit returns true if the balance covers the requested hours
func (q *UserQuota) CanDebit(hours float64) bool {
	return q.RemainingHours() >= hours
}

// QuotaTransaction is an append-only ledger entry.
// Corrections are made via refund/adjustment entries, never edits.
type QuotaTransaction struct {
	ID          int64
	UserID      int64
	HoursChange float64 // отрицательное значение - списание
	Type        QuotaTransactionType
	Description string

	BookingID *int64
	PackageID *int64

	// IdempotencyKey защищает от дублирования записи при повторе запроса
	IdempotencyKey string

	CreatedAt time.Time
}

// IsDebit returns true for entries that consume hours
func (t *QuotaTransaction) IsDebit() bool {
	return t.HoursChange < 0
}
