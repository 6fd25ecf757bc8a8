package create_booking

import (
	"time"

	"github.com/avmakarov/DrivingSchool-BookingService/internal/domain"
	createBooking "github.com/avmakarov/DrivingSchool-BookingService/internal/usecase/create_booking"
	"github.com/avmakarov/DrivingSchool-BookingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	LessonType      string  `json:"lessonType"`
	BookingDate     string  `json:"bookingDate"` // "2025-10-15"
	StartTime       string  `json:"startTime"`   // "10:00"
	DurationMinutes int     `json:"durationMinutes,omitempty"`
	Location        string  `json:"location,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// QuotaTransactionResponse запись ledger в HTTP ответе
type QuotaTransactionResponse struct {
	ID          int64   `json:"id"`
	HoursChange float64 `json:"hoursChange"`
	Type        string  `json:"type"`
	Description string  `json:"description,omitempty"`
	CreatedAt   string  `json:"createdAt"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64   `json:"id"`
	UserID          int64   `json:"userId"`
	LessonType      string  `json:"lessonType"`
	BookingDate     string  `json:"bookingDate"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Location        string  `json:"location,omitempty"`
	Status          string  `json:"status"`
	HoursUsed       float64 `json:"hoursUsed"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`

	QuotaTransaction QuotaTransactionResponse `json:"quotaTransaction"`

	Warnings []string `json:"warnings,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (createBooking.Request, error) {
	// Парсим дату
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return createBooking.Request{}, err
	}

	// Парсим время
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return createBooking.Request{}, err
	}

	return createBooking.Request{
		UserID:          userID,
		LessonType:      domain.LessonType(r.LessonType),
		Date:            bookingDate,
		StartTime:       startTime,
		DurationMinutes: r.DurationMinutes,
		Location:        r.Location,
		Notes:           r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.BookingID,
		UserID:          resp.UserID,
		LessonType:      string(resp.LessonType),
		BookingDate:     resp.Date.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		EndTime:         resp.EndTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Location:        resp.Location,
		Status:          string(resp.Status),
		HoursUsed:       resp.HoursUsed,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		QuotaTransaction: QuotaTransactionResponse{
			ID:          resp.QuotaTransaction.ID,
			HoursChange: resp.QuotaTransaction.HoursChange,
			Type:        string(resp.QuotaTransaction.Type),
			Description: resp.QuotaTransaction.Description,
			CreatedAt:   resp.QuotaTransaction.CreatedAt.Format(time.RFC3339),
		},
		Warnings: resp.Warnings,
	}
}
