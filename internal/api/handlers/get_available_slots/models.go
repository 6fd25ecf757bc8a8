package get_available_slots

import (
	"time"

	"github.com/avmakarov/DrivingSchool-BookingService/internal/domain"
	getAvailableSlots "github.com/avmakarov/DrivingSchool-BookingService/internal/usecase/get_available_slots"
)

// SlotResponse один слот в HTTP ответе
type SlotResponse struct {
	StartTime       string `json:"startTime"` // "10:00"
	EndTime         string `json:"endTime"`   // "11:00"
	DurationMinutes int    `json:"durationMinutes"`
	Available       bool   `json:"available"`
	Reason          string `json:"reason,omitempty"`
}

// SlotsResponse HTTP response model
type SlotsResponse struct {
	Date  string         `json:"date"` // "2025-10-15"
	Slots []SlotResponse `json:"slots"`

	// CalendarDegraded true, когда внешний календарь был недоступен
	// и занятость посчитана только по бронированиям
	CalendarDegraded bool `json:"calendarDegraded,omitempty"`
}

// ToUseCaseRequest конвертирует параметры запроса в модель use case
func ToUseCaseRequest(dateStr string) (getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return getAvailableSlots.Request{}, err
	}

	return getAvailableSlots.Request{Date: date}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *SlotsResponse {
	out := &SlotsResponse{
		Date:             resp.Date.Format(domain.DateFormat),
		Slots:            make([]SlotResponse, 0, len(resp.Slots)),
		CalendarDegraded: resp.CalendarDegraded,
	}

	for _, slot := range resp.Slots {
		slotResp := SlotResponse{
			StartTime:       slot.StartTime.String(),
			DurationMinutes: slot.DurationMinutes,
			Available:       slot.Available,
			Reason:          slot.Reason,
		}
		if end, err := slot.EndTime(); err == nil {
			slotResp.EndTime = end.String()
		}
		out.Slots = append(out.Slots, slotResp)
	}

	return out
}
