package create_booking

import (
	"github.com/avmakarov/DrivingSchool-BookingService/internal/domain"
	"github.com/avmakarov/DrivingSchool-BookingService/internal/integrations/calendarservice"
	"github.com/avmakarov/DrivingSchool-BookingService/pkg/types"
)

// buildBusyIntervals собирает занятые интервалы из активных бронирований
// и заблокированных событий внешнего календаря
func buildBusyIntervals(bookings []*domain.Booking, events []calendarservice.Event, day domain.DayConfig) []domain.BusyInterval {
	busy := make([]domain.BusyInterval, 0, len(bookings)+len(events))

	for _, booking := range bookings {
		interval, err := domain.BusyIntervalFromBooking(booking)
		if err != nil {
			continue
		}
		busy = append(busy, interval)
	}

	for _, event := range events {
		label := event.Title
		if label == "" {
			label = domain.UnavailableReasonDefault
		}

		if event.AllDay {
			busy = append(busy, domain.BusyInterval{
				Start:  day.OpenTime,
				End:    day.CloseTime,
				Source: domain.SourceAdminEvent,
				Label:  label,
			})
			continue
		}

		start, err := types.NewTimeStringFromString(event.StartTime)
		if err != nil {
			continue
		}
		end, err := types.NewTimeStringFromString(event.EndTime)
		if err != nil {
			continue
		}
		if !start.IsBefore(end) {
			continue
		}

		busy = append(busy, domain.BusyInterval{
			Start:  start,
			End:    end,
			Source: domain.SourceAdminEvent,
			Label:  label,
		})
	}

	return busy
}
