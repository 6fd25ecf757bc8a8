package create_booking

import (
	"time"

	"github.com/avmakarov/DrivingSchool-BookingService/internal/domain"
	"github.com/avmakarov/DrivingSchool-BookingService/pkg/types"
)

// Request входные данные для создания бронирования
type Request struct {
	UserID     int64
	LessonType domain.LessonType
	Date       time.Time
	StartTime  types.TimeString

	// DurationMinutes при нуле подставляется длительность
	// из конфигурации расписания
	DurationMinutes int

	Location string
	Notes    *string
}

// Response результат создания бронирования
type Response struct {
	BookingID       int64
	UserID          int64
	LessonType      domain.LessonType
	Date            time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Location        string
	Status          domain.BookingStatus
	HoursUsed       float64
	Notes           *string
	CreatedAt       time.Time

	QuotaTransaction QuotaTransactionInfo

	// Warnings информационные находки (back-to-back примыкание),
	// не блокирующие бронирование
	Warnings []string
}

// QuotaTransactionInfo запись ledger, списавшая часы за урок
type QuotaTransactionInfo struct {
	ID          int64
	HoursChange float64
	Type        domain.QuotaTransactionType
	Description string
	CreatedAt   time.Time
}
