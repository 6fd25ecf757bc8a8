package create_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avmakarov/DrivingSchool-BookingService/internal/domain"
	bookingstorage "github.com/avmakarov/DrivingSchool-BookingService/internal/infra/storage/booking"
	quotastorage "github.com/avmakarov/DrivingSchool-BookingService/internal/infra/storage/quota"
	"github.com/avmakarov/DrivingSchool-BookingService/internal/integrations/calendarservice"
	"github.com/avmakarov/DrivingSchool-BookingService/pkg/types"
)

// --- mocks ---

type cancelCall struct {
	bookingID int64
	status    domain.BookingStatus
	reason    string
}

type attachCall struct {
	bookingID int64
	txID      int64
	status    domain.BookingStatus
}

type mockBookingRepo struct {
	existing []*domain.Booking

	createErr   error
	created     *domain.Booking
	createCalls int

	attachErr     error
	attachErrOnce bool
	attachCalls   []attachCall

	cancelErr   error
	cancelCalls []cancelCall
}

func (m *mockBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	m.createCalls++
	if m.createErr != nil {
		return nil, m.createErr
	}
	booking.ID = 101
	booking.CreatedAt = time.Date(2025, 8, 25, 12, 0, 0, 0, time.UTC)
	booking.UpdatedAt = booking.CreatedAt
	m.created = booking
	return booking, nil
}

func (m *mockBookingRepo) GetByDate(_ context.Context, _ time.Time, _ bool) ([]*domain.Booking, error) {
	return m.existing, nil
}

func (m *mockBookingRepo) AttachQuotaTransaction(_ context.Context, id, txID int64, status domain.BookingStatus) error {
	if m.attachErr != nil {
		err := m.attachErr
		if m.attachErrOnce {
			m.attachErr = nil
		}
		return err
	}
	m.attachCalls = append(m.attachCalls, attachCall{bookingID: id, txID: txID, status: status})
	return nil
}

func (m *mockBookingRepo) Cancel(_ context.Context, id int64, status domain.BookingStatus, reason string) error {
	if m.cancelErr != nil {
		return m.cancelErr
	}
	m.cancelCalls = append(m.cancelCalls, cancelCall{bookingID: id, status: status, reason: reason})
	return nil
}

type mockQuotaRepo struct {
	debitErr    error
	debitCalls  int
	debitedUser int64
	debitedHrs  float64

	appendErr error
	appended  *domain.QuotaTransaction

	debitByBooking    *domain.QuotaTransaction
	debitByBookingErr error
}

func (m *mockQuotaRepo) Debit(_ context.Context, userID int64, hours float64) error {
	m.debitCalls++
	if m.debitErr != nil {
		return m.debitErr
	}
	m.debitedUser = userID
	m.debitedHrs = hours
	return nil
}

func (m *mockQuotaRepo) AppendTransaction(_ context.Context, tx *domain.QuotaTransaction) (*domain.QuotaTransaction, error) {
	if m.appendErr != nil {
		return nil, m.appendErr
	}
	tx.ID = 777
	tx.CreatedAt = time.Date(2025, 8, 25, 12, 0, 1, 0, time.UTC)
	m.appended = tx
	return tx, nil
}

func (m *mockQuotaRepo) GetDebitByBookingID(_ context.Context, _ int64) (*domain.QuotaTransaction, error) {
	if m.debitByBookingErr != nil {
		return nil, m.debitByBookingErr
	}
	return m.debitByBooking, nil
}

type mockScheduleRepo struct {
	config *domain.ScheduleConfig
	policy *domain.BufferPolicy
}

func (m *mockScheduleRepo) GetScheduleConfig(_ context.Context) (*domain.ScheduleConfig, error) {
	return m.config, nil
}

func (m *mockScheduleRepo) GetBufferPolicy(_ context.Context) (*domain.BufferPolicy, error) {
	return m.policy, nil
}

type mockCalendarClient struct {
	events []calendarservice.Event
	err    error
}

func (m *mockCalendarClient) GetBlockedEventsWithGracefulDegradation(_ context.Context, _ time.Time) ([]calendarservice.Event, error) {
	return m.events, m.err
}

// passTxManager выполняет функцию транзакции напрямую
type passTxManager struct{}

func (passTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
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

type fixture struct {
	bookingRepo  *mockBookingRepo
	quotaRepo    *mockQuotaRepo
	scheduleRepo *mockScheduleRepo
	calendar     *mockCalendarClient
	uc           *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		bookingRepo: &mockBookingRepo{},
		quotaRepo:   &mockQuotaRepo{},
		scheduleRepo: &mockScheduleRepo{
			config: testScheduleConfig(),
			policy: domain.DefaultBufferPolicy(),
		},
		calendar: &mockCalendarClient{},
	}

	f.uc = NewUseCase(f.bookingRepo, f.quotaRepo, f.scheduleRepo, f.calendar, passTxManager{}, nopLogger{})
	f.uc.timeProvider = &fixedTimeProvider{now: time.Date(2025, 8, 25, 12, 0, 0, 0, time.UTC)}
	f.uc.newIdempotencyKey = func() string { return "test-key" }

	return f
}

func validRequest() Request {
	return Request{
		UserID:     42,
		LessonType: domain.LessonStandard,
		Date:       testDate,
		StartTime:  types.TimeString("10:00"),
		Location:   "Площадка №1",
	}
}

func existingBooking(start string, durationMinutes int) *domain.Booking {
	return &domain.Booking{
		ID:              7,
		UserID:          99,
		LessonType:      domain.LessonStandard,
		BookingDate:     testDate,
		StartTime:       types.TimeString(start),
		DurationMinutes: durationMinutes,
		Status:          domain.StatusConfirmed,
	}
}

// --- tests ---

func TestExecute_HappyPath(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(101), resp.BookingID)
	assert.Equal(t, domain.StatusConfirmed, resp.Status)
	assert.Equal(t, types.TimeString("10:00"), resp.StartTime)
	assert.Equal(t, types.TimeString("11:00"), resp.EndTime)
	assert.Equal(t, domain.DefaultLessonDurationMinutes, resp.DurationMinutes)
	assert.Equal(t, 1.0, resp.HoursUsed)
	assert.Empty(t, resp.Warnings)

	// Бронирование создано в pending, подтверждено после списания
	require.NotNil(t, f.bookingRepo.created)
	assert.Equal(t, domain.StatusPending, f.bookingRepo.created.Status)
	require.Len(t, f.bookingRepo.attachCalls, 1)
	assert.Equal(t, attachCall{bookingID: 101, txID: 777, status: domain.StatusConfirmed}, f.bookingRepo.attachCalls[0])

	// Списание: один час, отрицательная запись ledger с идемпотентным ключом
	assert.Equal(t, int64(42), f.quotaRepo.debitedUser)
	assert.Equal(t, 1.0, f.quotaRepo.debitedHrs)
	require.NotNil(t, f.quotaRepo.appended)
	assert.Equal(t, -1.0, f.quotaRepo.appended.HoursChange)
	assert.Equal(t, domain.TxBooking, f.quotaRepo.appended.Type)
	assert.Equal(t, "test-key", f.quotaRepo.appended.IdempotencyKey)
	require.NotNil(t, f.quotaRepo.appended.BookingID)
	assert.Equal(t, int64(101), *f.quotaRepo.appended.BookingID)

	assert.Equal(t, int64(777), resp.QuotaTransaction.ID)
	assert.Empty(t, f.bookingRepo.cancelCalls)
}

func TestExecute_CustomDurationDebitsProportionally(t *testing.T) {
	f := newFixture()

	req := validRequest()
	req.DurationMinutes = 90

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1.5, resp.HoursUsed)
	assert.Equal(t, 1.5, f.quotaRepo.debitedHrs)
	assert.Equal(t, types.TimeString("11:30"), resp.EndTime)
}

func TestExecute_InsufficientQuotaCompensates(t *testing.T) {
	f := newFixture()
	f.quotaRepo.debitErr = quotastorage.ErrInsufficientQuota

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInsufficientQuota)

	// Pending-бронирование отменено школой с причиной
	require.Len(t, f.bookingRepo.cancelCalls, 1)
	call := f.bookingRepo.cancelCalls[0]
	assert.Equal(t, int64(101), call.bookingID)
	assert.Equal(t, domain.StatusCancelledBySchool, call.status)
	assert.Equal(t, msgInsufficientQuotaCancellation, call.reason)
}

func TestExecute_QuotaNotFoundCompensates(t *testing.T) {
	f := newFixture()
	f.quotaRepo.debitErr = quotastorage.ErrQuotaNotFound

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrQuotaNotFound)
	assert.Len(t, f.bookingRepo.cancelCalls, 1)
}

func TestExecute_CompensationFailureIsCritical(t *testing.T) {
	f := newFixture()
	f.quotaRepo.debitErr = quotastorage.ErrInsufficientQuota
	f.bookingRepo.cancelErr = errors.New("connection lost")

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrReconciliationRequired)
}

func TestExecute_OverlapRejected(t *testing.T) {
	f := newFixture()
	f.bookingRepo.existing = []*domain.Booking{existingBooking("10:30", 60)}

	_, err := f.uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrSlotNotAvailable)

	var slotErr *SlotUnavailableError
	require.ErrorAs(t, err, &slotErr)
	assert.Equal(t, domain.ConflictOverlap, slotErr.Finding.Kind)

	// До создания бронирования дело не дошло
	assert.Equal(t, 0, f.bookingRepo.createCalls)
	assert.Equal(t, 0, f.quotaRepo.debitCalls)
}

func TestExecute_InsufficientBufferRejected(t *testing.T) {
	f := newFixture()
	// Зазор 15 минут при буфере 30 по умолчанию
	f.bookingRepo.existing = []*domain.Booking{existingBooking("11:15", 60)}

	_, err := f.uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrSlotNotAvailable)

	var slotErr *SlotUnavailableError
	require.ErrorAs(t, err, &slotErr)
	assert.Equal(t, domain.ConflictInsufficientBuffer, slotErr.Finding.Kind)
	assert.NotEmpty(t, slotErr.Finding.Suggestion)
}

func TestExecute_BackToBackAllowedWithWarning(t *testing.T) {
	f := newFixture()
	// Урок заканчивается ровно в 10:00 - примыкание допустимо
	// даже при включенном буфере
	f.bookingRepo.existing = []*domain.Booking{existingBooking("09:00", 60)}

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusConfirmed, resp.Status)
	require.Len(t, resp.Warnings, 1)
	assert.Contains(t, resp.Warnings[0], "вплотную")
}

func TestExecute_AdaptiveBufferPerLessonType(t *testing.T) {
	f := newFixture()
	// Предыдущий урок заканчивается в 09:15: зазор до 10:00 - 45 минут
	f.bookingRepo.existing = []*domain.Booking{existingBooking("08:15", 60)}
	f.scheduleRepo.config.Days[time.Monday] = domain.DayConfig{
		Enabled:   true,
		OpenTime:  types.TimeString("08:00"),
		CloseTime: types.TimeString("17:00"),
	}
	f.scheduleRepo.policy = &domain.BufferPolicy{
		Enabled:        true,
		DefaultMinutes: 30,
		MinMinutes:     15,
		MaxMinutes:     60,
		Adaptive:       true,
		PerTypeMinutes: map[domain.LessonType]int{domain.LessonTestPreparation: 60},
	}

	// Для standard буфер 30: зазора 45 минут достаточно
	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, resp.Status)

	// Для test_preparation буфер 60: тот же слот отклоняется
	f2 := newFixture()
	f2.bookingRepo.existing = f.bookingRepo.existing
	f2.scheduleRepo.config = f.scheduleRepo.config
	f2.scheduleRepo.policy = f.scheduleRepo.policy

	req := validRequest()
	req.LessonType = domain.LessonTestPreparation

	_, err = f2.uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrSlotNotAvailable)

	var slotErr *SlotUnavailableError
	require.ErrorAs(t, err, &slotErr)
	assert.Equal(t, domain.ConflictInsufficientBuffer, slotErr.Finding.Kind)
}

func TestExecute_SlotTakenRace(t *testing.T) {
	// Конкурентная вставка проиграла частичному уникальному индексу
	f := newFixture()
	f.bookingRepo.createErr = bookingstorage.ErrSlotTaken

	_, err := f.uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrSlotNotAvailable)

	var slotErr *SlotUnavailableError
	require.ErrorAs(t, err, &slotErr)
	assert.Equal(t, domain.ConflictOverlap, slotErr.Finding.Kind)
	assert.Equal(t, 0, f.quotaRepo.debitCalls)
}

func TestExecute_CalendarEventBlocks(t *testing.T) {
	f := newFixture()
	f.calendar.events = []calendarservice.Event{
		{StartTime: "10:30", EndTime: "11:30", Title: "Техобслуживание"},
	}

	_, err := f.uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrSlotNotAvailable)

	var slotErr *SlotUnavailableError
	require.ErrorAs(t, err, &slotErr)
	assert.Equal(t, "Техобслуживание", slotErr.Finding.With)
}

func TestExecute_CalendarDegradedStillBooks(t *testing.T) {
	f := newFixture()
	f.calendar.err = calendarservice.ErrServiceDegraded

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, resp.Status)
}

func TestExecute_AmbiguousDebitReconciledAsCommitted(t *testing.T) {
	// Timeout на подтверждении, но запись ledger существует:
	// списание прошло, бронирование подтверждается при сверке
	f := newFixture()
	f.bookingRepo.attachErr = errors.New("timeout")
	f.bookingRepo.attachErrOnce = true
	f.quotaRepo.debitByBooking = &domain.QuotaTransaction{
		ID:          777,
		UserID:      42,
		HoursChange: -1,
		Type:        domain.TxBooking,
	}

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusConfirmed, resp.Status)
	assert.Equal(t, int64(777), resp.QuotaTransaction.ID)
	require.Len(t, f.bookingRepo.attachCalls, 1)
	assert.Equal(t, attachCall{bookingID: 101, txID: 777, status: domain.StatusConfirmed}, f.bookingRepo.attachCalls[0])
	assert.Empty(t, f.bookingRepo.cancelCalls)
}

func TestExecute_AmbiguousDebitConfirmRetryFails(t *testing.T) {
	// Запись ledger есть, но подтвердить бронирование так и не удалось
	f := newFixture()
	f.bookingRepo.attachErr = errors.New("timeout")
	f.quotaRepo.debitByBooking = &domain.QuotaTransaction{ID: 777, UserID: 42, HoursChange: -1}

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrReconciliationRequired)
}

func TestExecute_AmbiguousDebitNotInLedgerCompensates(t *testing.T) {
	f := newFixture()
	f.quotaRepo.appendErr = errors.New("connection reset")
	f.quotaRepo.debitByBookingErr = quotastorage.ErrTransactionNotFound

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInternal)
	assert.Len(t, f.bookingRepo.cancelCalls, 1)
}

func TestExecute_ReconciliationLookupFailure(t *testing.T) {
	f := newFixture()
	f.quotaRepo.appendErr = errors.New("connection reset")
	f.quotaRepo.debitByBookingErr = errors.New("connection still down")

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrReconciliationRequired)
	assert.Empty(t, f.bookingRepo.cancelCalls)
}

func TestExecute_DateInPast(t *testing.T) {
	f := newFixture()
	f.uc.timeProvider = &fixedTimeProvider{now: time.Date(2025, 9, 2, 8, 0, 0, 0, time.UTC)}

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrDateInPast)
}

func TestExecute_SchoolClosed(t *testing.T) {
	f := newFixture()
	delete(f.scheduleRepo.config.Days, time.Monday)

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSchoolClosed)
}

func TestExecute_VacationDay(t *testing.T) {
	f := newFixture()
	f.scheduleRepo.config.VacationDays[testDate.Format(domain.DateFormat)] = struct{}{}

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSchoolClosed)
}

func TestExecute_OutsideWorkingHours(t *testing.T) {
	f := newFixture()

	req := validRequest()
	req.StartTime = types.TimeString("16:30")

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)

	req.StartTime = types.TimeString("08:00")
	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)
}

func TestExecute_InvalidRequest(t *testing.T) {
	f := newFixture()

	cases := []struct {
		name   string
		mutate func(*Request)
	}{
		{"zero user", func(r *Request) { r.UserID = 0 }},
		{"zero date", func(r *Request) { r.Date = time.Time{} }},
		{"bad start time", func(r *Request) { r.StartTime = "25:00" }},
		{"unknown lesson type", func(r *Request) { r.LessonType = "karting" }},
		{"duration below minimum", func(r *Request) { r.DurationMinutes = 15 }},
		{"duration above maximum", func(r *Request) { r.DurationMinutes = 300 }},
	}

	for _, tc := range cases {
		req := validRequest()
		tc.mutate(&req)

		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput, tc.name)
	}
}
