package quota

import (
	"context"

	"github.com/avmakarov/DrivingSchool-BookingService/internal/domain"
)

// QuotaRepository интерфейс репозитория квоты часов
type QuotaRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.UserQuota, error)
	CreditUsed(ctx context.Context, userID int64, hours float64) error
	CreditTotal(ctx context.Context, userID int64, hours float64) error
	AppendTransaction(ctx context.Context, tx *domain.QuotaTransaction) (*domain.QuotaTransaction, error)
	GetTransactionsByUser(ctx context.Context, userID int64) ([]*domain.QuotaTransaction, error)
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
