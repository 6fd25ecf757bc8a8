package create_booking

import (
	"context"
	"time"

	"github.com/avmakarov/DrivingSchool-BookingService/internal/domain"
	"github.com/avmakarov/DrivingSchool-BookingService/internal/integrations/calendarservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByDate(ctx context.Context, date time.Time, includeInactive bool) ([]*domain.Booking, error)
	AttachQuotaTransaction(ctx context.Context, id int64, quotaTransactionID int64, status domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, status domain.BookingStatus, reason string) error
}

// QuotaRepository интерфейс репозитория квоты часов
type QuotaRepository interface {
	Debit(ctx context.Context, userID int64, hours float64) error
	AppendTransaction(ctx context.Context, tx *domain.QuotaTransaction) (*domain.QuotaTransaction, error)
	GetDebitByBookingID(ctx context.Context, bookingID int64) (*domain.QuotaTransaction, error)
}

// ScheduleRepository интерфейс репозитория конфигурации расписания
type ScheduleRepository interface {
	GetScheduleConfig(ctx context.Context) (*domain.ScheduleConfig, error)
	GetBufferPolicy(ctx context.Context) (*domain.BufferPolicy, error)
}

// CalendarClient интерфейс клиента внешнего календарного коннектора
type CalendarClient interface {
	GetBlockedEventsWithGracefulDegradation(ctx context.Context, date time.Time) ([]calendarservice.Event, error)
}

// TransactionManager интерфейс менеджера транзакций
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
