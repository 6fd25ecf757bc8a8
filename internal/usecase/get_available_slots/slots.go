package get_available_slots

import (
	"time"

	"github.com/avmakarov/DrivingSchool-BookingService/internal/domain"
	"github.com/avmakarov/DrivingSchool-BookingService/internal/integrations/calendarservice"
	"github.com/avmakarov/DrivingSchool-BookingService/pkg/types"
)

// computeSlots строит сетку слотов рабочего дня и размечает доступность.
//
// Кандидаты идут от открытия с шагом в длительность урока. Слот доступен
// только при полном отсутствии находок детектора конфликтов, включая
// информационное back-to-back примыкание. После конфликтного слота сетка
// перепривязывается к концу занятого интервала плюс буфер: так при
// занятом 10:00-11:00 и буфере 30 мин первым свободным становится 11:30,
// а не 12:00.
//
// Функция детерминированная: одинаковые входы дают одинаковый результат,
// слоты упорядочены по возрастанию времени начала.
func computeSlots(day domain.DayConfig, durationMinutes, bufferMinutes int, busy []domain.BusyInterval) []domain.TimeSlot {
	slots := make([]domain.TimeSlot, 0)

	current := day.OpenTime
	for {
		interval, err := domain.NewInterval(current, durationMinutes)
		if err != nil {
			// Слот пересёк границу суток - сетка закончилась
			break
		}
		if interval.End.IsAfter(day.CloseTime) {
			break
		}

		findings := domain.CheckConflicts(interval, busy, bufferMinutes)

		slot := domain.TimeSlot{
			StartTime:       current,
			DurationMinutes: durationMinutes,
			Available:       len(findings) == 0,
		}
		if !slot.Available {
			slot.Reason = findings[0].With
			if slot.Reason == "" {
				slot.Reason = domain.UnavailableReasonDefault
			}
		}
		slots = append(slots, slot)

		current = nextSlotStart(interval, busy, bufferMinutes, len(findings) > 0)
	}

	return slots
}

// nextSlotStart возвращает начало следующего кандидата.
// Для свободного слота - конец текущего; для конфликтного - максимум из
// конца текущего и "конец занятого интервала + буфер" по всем интервалам,
// конфликтующим с текущим слотом
func nextSlotStart(interval domain.Interval, busy []domain.BusyInterval, bufferMinutes int, conflicted bool) types.TimeString {
	next := interval.End

	if conflicted {
		for _, b := range busy {
			pair := domain.CheckConflicts(interval, []domain.BusyInterval{b}, bufferMinutes)
			if len(pair) == 0 {
				continue
			}

			clearStart, err := b.End.AddMinutes(bufferMinutes)
			if err != nil {
				continue
			}
			if clearStart.IsAfter(next) {
				next = clearStart
			}
		}
	}

	return next
}

// buildBusyIntervals собирает занятые интервалы из активных бронирований
// и заблокированных событий внешнего календаря.
// Некорректные интервалы (невалидное время) пропускаются.
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
		interval, ok := busyIntervalFromEvent(event, day)
		if !ok {
			continue
		}
		busy = append(busy, interval)
	}

	return busy
}

// busyIntervalFromEvent конвертирует событие календаря в занятый интервал.
// All-day события блокируют весь рабочий день.
func busyIntervalFromEvent(event calendarservice.Event, day domain.DayConfig) (domain.BusyInterval, bool) {
	label := event.Title
	if label == "" {
		label = domain.UnavailableReasonDefault
	}

	if event.AllDay {
		return domain.BusyInterval{
			Start:  day.OpenTime,
			End:    day.CloseTime,
			Source: domain.SourceAdminEvent,
			Label:  label,
		}, true
	}

	start, err := types.NewTimeStringFromString(event.StartTime)
	if err != nil {
		return domain.BusyInterval{}, false
	}
	end, err := types.NewTimeStringFromString(event.EndTime)
	if err != nil {
		return domain.BusyInterval{}, false
	}
	if !start.IsBefore(end) {
		return domain.BusyInterval{}, false
	}

	return domain.BusyInterval{
		Start:  start,
		End:    end,
		Source: domain.SourceAdminEvent,
		Label:  label,
	}, true
}

// isPastDate проверяет, что дата строго раньше сегодняшней (по дням)
func isPastDate(date, now time.Time) bool {
	dateDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, date.Location())
	return dateDay.Before(nowDay)
}
