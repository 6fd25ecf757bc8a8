package bookings

import (
	"context"

	"github.com/avmakarov/DrivingSchool-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, status domain.BookingStatus, reason string) error
}

// QuotaRepository интерфейс репозитория квоты часов
// Используется для возврата часов при отмене бронирования
type QuotaRepository interface {
	CreditUsed(ctx context.Context, userID int64, hours float64) error
	AppendTransaction(ctx context.Context, tx *domain.QuotaTransaction) (*domain.QuotaTransaction, error)
	GetDebitByBookingID(ctx context.Context, bookingID int64) (*domain.QuotaTransaction, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
