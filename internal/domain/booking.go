package domain

import (
	"time"

	"github.com/avmakarov/DrivingSchool-BookingService/pkg/types"
)

// BookingStatus represents the status of a lesson booking
type BookingStatus string

const (
	StatusPending           BookingStatus = "pending"
	StatusConfirmed         BookingStatus = "confirmed"
	StatusInProgress        BookingStatus = "in_progress"
	StatusCompleted         BookingStatus = "completed"
	StatusCancelledByUser   BookingStatus = "cancelled_by_user"
	StatusCancelledBySchool BookingStatus = "cancelled_by_school"
	StatusNoShow            BookingStatus = "no_show"
)

// LessonType represents the kind of driving lesson
type LessonType string

const (
	LessonStandard        LessonType = "standard"
	LessonCityDriving     LessonType = "city_driving"
	LessonHighway         LessonType = "highway"
	LessonTestPreparation LessonType = "test_preparation"
	LessonExam            LessonType = "exam"
)

// Booking represents a driving lesson booking in the system
type Booking struct {
	ID              int64
	UserID          int64
	LessonType      LessonType
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Location        string

	Status BookingStatus

	// Quota bookkeeping: hours debited for this lesson and the
	// ledger transaction that debited them
	HoursUsed          float64
	QuotaTransactionID *int64

	Notes *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking occupies its time slot
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelledByUser &&
		b.Status != StatusCancelledBySchool &&
		b.Status != StatusNoShow
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelledByUser || b.Status == StatusCancelledBySchool
}

// EndTime returns the end of the booked interval
func (b *Booking) EndTime() (types.TimeString, error) {
	return b.StartTime.AddMinutes(b.DurationMinutes)
}

// BookingsFilter фильтр для выборки бронирований
type BookingsFilter struct {
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отменённые и no-show
}
