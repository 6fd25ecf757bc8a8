package schedule

import (
	"context"

	"github.com/avmakarov/DrivingSchool-BookingService/internal/domain"
)

// ScheduleRepository интерфейс репозитория конфигурации расписания
type ScheduleRepository interface {
	GetScheduleConfig(ctx context.Context) (*domain.ScheduleConfig, error)
	UpdateScheduleConfig(ctx context.Context, config *domain.ScheduleConfig) error
	GetBufferPolicy(ctx context.Context) (*domain.BufferPolicy, error)
	UpdateBufferPolicy(ctx context.Context, policy *domain.BufferPolicy) error
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
