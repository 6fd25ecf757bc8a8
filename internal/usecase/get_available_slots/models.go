package get_available_slots

import (
	"time"

	"github.com/avmakarov/DrivingSchool-BookingService/internal/domain"
)

// Request входные данные для получения доступных слотов
type Request struct {
	Date time.Time
}

// Response результат расчёта доступности на дату
type Response struct {
	Date  time.Time
	Slots []domain.TimeSlot

	// CalendarDegraded выставляется, когда календарный коннектор был
	// недоступен и занятость посчитана только по бронированиям
	CalendarDegraded bool
}
