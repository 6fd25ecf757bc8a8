package create_booking

import (
	"time"

	"github.com/avmakarov/DrivingSchool-BookingService/internal/domain"
)

// isPastDate проверяет, что дата строго раньше сегодняшней (по дням)
func isPastDate(date, now time.Time) bool {
	dateDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, date.Location())
	return dateDay.Before(nowDay)
}

// hoursForDuration переводит длительность урока в часы квоты
func hoursForDuration(durationMinutes int) float64 {
	return float64(durationMinutes) / domain.MinutesPerQuotaHour
}
