package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avmakarov/DrivingSchool-BookingService/internal/domain"
	"github.com/avmakarov/DrivingSchool-BookingService/internal/infra/storage/schedule"
	"github.com/avmakarov/DrivingSchool-BookingService/internal/integrations/calendarservice"
	"github.com/avmakarov/DrivingSchool-BookingService/pkg/types"
)

// --- mocks ---

type mockBookingRepo struct {
	bookings []*domain.Booking
	err      error
}

func (m *mockBookingRepo) GetByDate(_ context.Context, _ time.Time, _ bool) ([]*domain.Booking, error) {
	return m.bookings, m.err
}

type mockScheduleRepo struct {
	config *domain.ScheduleConfig
	err    error
}

func (m *mockScheduleRepo) GetScheduleConfig(_ context.Context) (*domain.ScheduleConfig, error) {
	return m.config, m.err
}

type mockCalendarClient struct {
	events []calendarservice.Event
	err    error
}

func (m *mockCalendarClient) GetBlockedEventsWithGracefulDegradation(_ context.Context, _ time.Time) ([]calendarservice.Event, error) {
	return m.events, m.err
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- fixtures ---

// Понедельник 1 сентября 2025, школа работает 09:00-17:00
var testDate = time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

func testScheduleConfig() *domain.ScheduleConfig {
	cfg := domain.DefaultScheduleConfig()
	cfg.Days[time.Monday] = domain.DayConfig{
		Enabled:   true,
		OpenTime:  types.TimeString("09:00"),
		CloseTime: types.TimeString("17:00"),
	}
	return cfg
}

func newTestUseCase(bookingRepo *mockBookingRepo, scheduleRepo *mockScheduleRepo, calendar *mockCalendarClient) *UseCase {
	uc := NewUseCase(bookingRepo, scheduleRepo, calendar, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: time.Date(2025, 8, 25, 12, 0, 0, 0, time.UTC)}
	return uc
}

func confirmedBooking(start string, durationMinutes int) *domain.Booking {
	return &domain.Booking{
		ID:              1,
		UserID:          42,
		LessonType:      domain.LessonStandard,
		BookingDate:     testDate,
		StartTime:       types.TimeString(start),
		DurationMinutes: durationMinutes,
		Status:          domain.StatusConfirmed,
	}
}

func slotStarts(slots []domain.TimeSlot) []string {
	starts := make([]string, 0, len(slots))
	for _, s := range slots {
		starts = append(starts, s.StartTime.String())
	}
	return starts
}

func availableStarts(slots []domain.TimeSlot) []string {
	starts := make([]string, 0, len(slots))
	for _, s := range slots {
		if s.Available {
			starts = append(starts, s.StartTime.String())
		}
	}
	return starts
}

// --- tests ---

func TestExecute_EmptyDay(t *testing.T) {
	uc := newTestUseCase(
		&mockBookingRepo{},
		&mockScheduleRepo{config: testScheduleConfig()},
		&mockCalendarClient{},
	)

	resp, err := uc.Execute(context.Background(), Request{Date: testDate})
	require.NoError(t, err)

	// 09:00-17:00 при длительности 60 минут - восемь слотов, все доступны
	assert.Equal(t,
		[]string{"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00"},
		slotStarts(resp.Slots),
	)
	for _, slot := range resp.Slots {
		assert.True(t, slot.Available, "slot %s", slot.StartTime)
		assert.Empty(t, slot.Reason)
	}
	assert.False(t, resp.CalendarDegraded)
}

func TestExecute_ReanchorsAfterBusyInterval(t *testing.T) {
	// Занято 10:00-11:00, буфер 30 минут: слот 09:00 недоступен
	// (зазор до урока 0 минут), первый доступный - 11:30
	uc := newTestUseCase(
		&mockBookingRepo{bookings: []*domain.Booking{confirmedBooking("10:00", 60)}},
		&mockScheduleRepo{config: testScheduleConfig()},
		&mockCalendarClient{},
	)

	resp, err := uc.Execute(context.Background(), Request{Date: testDate})
	require.NoError(t, err)

	require.NotEmpty(t, resp.Slots)
	first := resp.Slots[0]
	assert.Equal(t, types.TimeString("09:00"), first.StartTime)
	assert.False(t, first.Available)
	assert.NotEmpty(t, first.Reason)

	assert.Equal(t,
		[]string{"11:30", "12:30", "13:30", "14:30", "15:30"},
		availableStarts(resp.Slots),
	)
}

func TestExecute_Deterministic(t *testing.T) {
	bookings := []*domain.Booking{confirmedBooking("10:00", 60), confirmedBooking("14:00", 60)}

	uc := newTestUseCase(
		&mockBookingRepo{bookings: bookings},
		&mockScheduleRepo{config: testScheduleConfig()},
		&mockCalendarClient{},
	)

	first, err := uc.Execute(context.Background(), Request{Date: testDate})
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), Request{Date: testDate})
	require.NoError(t, err)

	assert.Equal(t, first.Slots, second.Slots)
}

func TestExecute_PastDate(t *testing.T) {
	uc := newTestUseCase(
		&mockBookingRepo{},
		&mockScheduleRepo{config: testScheduleConfig()},
		&mockCalendarClient{},
	)
	uc.timeProvider = &fixedTimeProvider{now: time.Date(2025, 9, 2, 8, 0, 0, 0, time.UTC)}

	resp, err := uc.Execute(context.Background(), Request{Date: testDate})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_TodayIsNotPast(t *testing.T) {
	uc := newTestUseCase(
		&mockBookingRepo{},
		&mockScheduleRepo{config: testScheduleConfig()},
		&mockCalendarClient{},
	)
	// Сегодняшний день, время уже за полдень
	uc.timeProvider = &fixedTimeProvider{now: time.Date(2025, 9, 1, 15, 30, 0, 0, time.UTC)}

	resp, err := uc.Execute(context.Background(), Request{Date: testDate})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Slots)
}

func TestExecute_DisabledDay(t *testing.T) {
	cfg := testScheduleConfig()
	delete(cfg.Days, time.Monday)

	uc := newTestUseCase(
		&mockBookingRepo{},
		&mockScheduleRepo{config: cfg},
		&mockCalendarClient{},
	)

	resp, err := uc.Execute(context.Background(), Request{Date: testDate})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_VacationDay(t *testing.T) {
	cfg := testScheduleConfig()
	cfg.VacationDays[testDate.Format(domain.DateFormat)] = struct{}{}

	uc := newTestUseCase(
		&mockBookingRepo{},
		&mockScheduleRepo{config: cfg},
		&mockCalendarClient{},
	)

	resp, err := uc.Execute(context.Background(), Request{Date: testDate})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_ScheduleNotConfigured(t *testing.T) {
	// Дефолтная конфигурация: все дни выключены
	uc := newTestUseCase(
		&mockBookingRepo{},
		&mockScheduleRepo{err: schedule.ErrScheduleNotFound},
		&mockCalendarClient{},
	)

	resp, err := uc.Execute(context.Background(), Request{Date: testDate})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_CalendarDegraded(t *testing.T) {
	uc := newTestUseCase(
		&mockBookingRepo{},
		&mockScheduleRepo{config: testScheduleConfig()},
		&mockCalendarClient{err: calendarservice.ErrServiceDegraded},
	)

	resp, err := uc.Execute(context.Background(), Request{Date: testDate})
	require.NoError(t, err)

	// Доступность считается только по бронированиям
	assert.True(t, resp.CalendarDegraded)
	assert.Len(t, resp.Slots, 8)
}

func TestExecute_CalendarEventBlocks(t *testing.T) {
	uc := newTestUseCase(
		&mockBookingRepo{},
		&mockScheduleRepo{config: testScheduleConfig()},
		&mockCalendarClient{events: []calendarservice.Event{
			{StartTime: "12:00", EndTime: "13:00", Title: "Техобслуживание"},
		}},
	)

	resp, err := uc.Execute(context.Background(), Request{Date: testDate})
	require.NoError(t, err)

	// Слот 11:00 примыкает к событию вплотную и недоступен,
	// сетка перепривязывается к 13:30 (конец события + буфер)
	assert.Equal(t,
		[]string{"09:00", "10:00", "11:00", "13:30", "14:30", "15:30"},
		slotStarts(resp.Slots),
	)

	blocked := resp.Slots[2]
	assert.Equal(t, types.TimeString("11:00"), blocked.StartTime)
	assert.False(t, blocked.Available)
	assert.Equal(t, "Техобслуживание", blocked.Reason)

	assert.Equal(t,
		[]string{"09:00", "10:00", "13:30", "14:30", "15:30"},
		availableStarts(resp.Slots),
	)
}

func TestExecute_AllDayEventBlocksEverything(t *testing.T) {
	uc := newTestUseCase(
		&mockBookingRepo{},
		&mockScheduleRepo{config: testScheduleConfig()},
		&mockCalendarClient{events: []calendarservice.Event{
			{AllDay: true, Title: "Выходной"},
		}},
	)

	resp, err := uc.Execute(context.Background(), Request{Date: testDate})
	require.NoError(t, err)

	require.NotEmpty(t, resp.Slots)
	for _, slot := range resp.Slots {
		assert.False(t, slot.Available)
		assert.Equal(t, "Выходной", slot.Reason)
	}
}

func TestExecute_InvalidRequest(t *testing.T) {
	uc := newTestUseCase(&mockBookingRepo{}, &mockScheduleRepo{}, &mockCalendarClient{})

	_, err := uc.Execute(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_BookingRepoError(t *testing.T) {
	uc := newTestUseCase(
		&mockBookingRepo{err: errors.New("connection refused")},
		&mockScheduleRepo{config: testScheduleConfig()},
		&mockCalendarClient{},
	)

	_, err := uc.Execute(context.Background(), Request{Date: testDate})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestComputeSlots_SkipsInvalidEvent(t *testing.T) {
	day := testScheduleConfig().Days[time.Monday]

	busy := buildBusyIntervals(nil, []calendarservice.Event{
		{StartTime: "bad", EndTime: "13:00", Title: "Сломанное событие"},
		{StartTime: "14:00", EndTime: "13:00", Title: "Перевёрнутое событие"},
	}, day)

	assert.Empty(t, busy)
}
