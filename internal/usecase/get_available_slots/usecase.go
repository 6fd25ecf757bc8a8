package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/avmakarov/DrivingSchool-BookingService/internal/domain"
	"github.com/avmakarov/DrivingSchool-BookingService/internal/infra/storage/schedule"
	"github.com/avmakarov/DrivingSchool-BookingService/internal/integrations/calendarservice"
)

// UseCase расчёт доступных слотов на дату
type UseCase struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	calendar     CalendarClient
	timeProvider TimeProvider
	log          Logger
}

// NewUseCase создает новый экземпляр UseCase
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	calendar CalendarClient,
	log Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		calendar:     calendar,
		timeProvider: &RealTimeProvider{},
		log:          log,
	}
}

// Execute возвращает сетку слотов на дату с пометками доступности.
// Для прошедшей даты, выходного дня и дня каникул возвращается пустой
// список слотов - день полностью недоступен.
func (uc *UseCase) Execute(ctx context.Context, req Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	resp := &Response{
		Date:  req.Date,
		Slots: []domain.TimeSlot{},
	}

	// 2. Прошедшие даты недоступны целиком
	if isPastDate(req.Date, uc.timeProvider.Now()) {
		return resp, nil
	}

	// 3. Загружаем конфигурацию расписания
	// Если конфигурация ещё не сохранялась - работаем с дефолтной
	cfg, err := uc.scheduleRepo.GetScheduleConfig(ctx)
	if err != nil {
		if errors.Is(err, schedule.ErrScheduleNotFound) {
			cfg = domain.DefaultScheduleConfig()
		} else {
			uc.log.Error("Failed to load schedule config: %v", err)
			return nil, fmt.Errorf("%w: failed to load schedule config: %v", ErrInternal, err)
		}
	}

	// 4. Каникулы и выключенные дни недели недоступны целиком
	if cfg.IsVacation(req.Date) {
		return resp, nil
	}
	day := cfg.DayFor(req.Date)
	if !day.Enabled {
		return resp, nil
	}

	// 5. Собираем занятость: активные бронирования
	bookings, err := uc.bookingRepo.GetByDate(ctx, req.Date, false)
	if err != nil {
		uc.log.Error("Failed to load bookings for %s: %v", req.Date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: failed to load bookings: %v", ErrInternal, err)
	}

	// 6. Заблокированные события внешнего календаря.
	// При недоступности коннектора применяем graceful degradation:
	// считаем занятость только по бронированиям
	events, err := uc.calendar.GetBlockedEventsWithGracefulDegradation(ctx, req.Date)
	if err != nil {
		if !errors.Is(err, calendarservice.ErrServiceDegraded) {
			return nil, fmt.Errorf("%w: calendar client: %v", ErrInternal, err)
		}
		events = []calendarservice.Event{}
		resp.CalendarDegraded = true
	}

	// 7. Строим и размечаем сетку слотов
	busy := buildBusyIntervals(bookings, events, day)
	resp.Slots = computeSlots(day, cfg.LessonDurationMinutes, cfg.BufferTimeMinutes, busy)

	return resp, nil
}
