package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/avmakarov/DrivingSchool-BookingService/internal/domain"
	bookingstorage "github.com/avmakarov/DrivingSchool-BookingService/internal/infra/storage/booking"
	quotastorage "github.com/avmakarov/DrivingSchool-BookingService/internal/infra/storage/quota"
	schedulestorage "github.com/avmakarov/DrivingSchool-BookingService/internal/infra/storage/schedule"
	"github.com/avmakarov/DrivingSchool-BookingService/internal/integrations/calendarservice"
)

// msgInsufficientQuotaCancellation причина отмены при нехватке часов
const msgInsufficientQuotaCancellation = "Недостаточно часов квоты"

// UseCase оркестратор создания бронирования.
//
// Бронирование проходит через две транзакции: резервирование слота
// (pending) и списание часов квоты (confirmed). Распределённой
// транзакции между шагами нет - при сбое списания pending-бронирование
// компенсируется отменой, при неоднозначном сбое выполняется сверка
// по ledger.
type UseCase struct {
	bookingRepo  BookingRepository
	quotaRepo    QuotaRepository
	scheduleRepo ScheduleRepository
	calendar     CalendarClient
	txManager    TransactionManager
	timeProvider TimeProvider
	log          Logger

	// newIdempotencyKey генерирует ключ идемпотентности записи ledger
	newIdempotencyKey func() string
}

// NewUseCase создает новый экземпляр UseCase
func NewUseCase(
	bookingRepo BookingRepository,
	quotaRepo QuotaRepository,
	scheduleRepo ScheduleRepository,
	calendar CalendarClient,
	txManager TransactionManager,
	log Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:       bookingRepo,
		quotaRepo:         quotaRepo,
		scheduleRepo:      scheduleRepo,
		calendar:          calendar,
		txManager:         txManager,
		timeProvider:      &RealTimeProvider{},
		log:               log,
		newIdempotencyKey: uuid.NewString,
	}
}

// Execute создает бронирование урока со списанием часов квоты
func (uc *UseCase) Execute(ctx context.Context, req Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	now := uc.timeProvider.Now()
	if isPastDate(req.Date, now) {
		return nil, ErrDateInPast
	}

	// 2. Загружаем конфигурацию расписания и политику буфера
	cfg, err := uc.loadScheduleConfig(ctx)
	if err != nil {
		return nil, err
	}
	policy, err := uc.loadBufferPolicy(ctx)
	if err != nil {
		return nil, err
	}

	// 3. Проверяем, что школа работает в этот день
	if cfg.IsVacation(req.Date) {
		return nil, fmt.Errorf("%w: vacation day", ErrSchoolClosed)
	}
	day := cfg.DayFor(req.Date)
	if !day.Enabled {
		return nil, fmt.Errorf("%w: %s is not a working day", ErrSchoolClosed, req.Date.Weekday())
	}

	// 4. Урок должен целиком помещаться в рабочие часы
	durationMinutes := req.DurationMinutes
	if durationMinutes == 0 {
		durationMinutes = cfg.LessonDurationMinutes
	}

	proposed, err := domain.NewInterval(req.StartTime, durationMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: interval: %v", ErrInvalidInput, err)
	}
	if proposed.Start.IsBefore(day.OpenTime) || proposed.End.IsAfter(day.CloseTime) {
		return nil, fmt.Errorf("%w: working hours are %s-%s",
			ErrOutsideWorkingHours, day.OpenTime, day.CloseTime)
	}

	// 5. Буфер для проверки конфликтов зависит от типа урока
	bufferMinutes := domain.ResolveBuffer(req.LessonType, policy)

	// 6. События внешнего календаря запрашиваем до транзакции:
	// HTTP-вызовов внутри транзакции быть не должно
	events, err := uc.calendar.GetBlockedEventsWithGracefulDegradation(ctx, req.Date)
	if err != nil {
		if !errors.Is(err, calendarservice.ErrServiceDegraded) {
			return nil, fmt.Errorf("%w: calendar client: %v", ErrInternal, err)
		}
		events = []calendarservice.Event{}
	}

	// 7. Транзакция резервирования: перечитываем занятость под FOR UPDATE,
	// проверяем конфликты и создаем pending-бронирование
	var booking *domain.Booking
	var warnings []string

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		existing, err := uc.bookingRepo.GetByDate(txCtx, req.Date, false)
		if err != nil {
			return fmt.Errorf("%w: failed to load bookings: %v", ErrInternal, err)
		}

		busy := buildBusyIntervals(existing, events, day)
		findings := domain.CheckConflicts(proposed, busy, bufferMinutes)

		// 7.1. Любая блокирующая находка отклоняет бронирование
		if blocking := domain.FirstBlocking(findings); blocking != nil {
			return &SlotUnavailableError{Finding: *blocking}
		}

		// 7.2. Back-to-back примыкание допустимо, фиксируем как warning
		warnings = warnings[:0]
		for _, f := range findings {
			uc.log.Warn("Booking user=%d date=%s time=%s: %s",
				req.UserID, req.Date.Format(domain.DateFormat), req.StartTime, f.Message)
			warnings = append(warnings, f.Message)
		}

		// 7.3. Создаем pending-бронирование
		// Частичный уникальный индекс закрывает гонку конкурентной вставки
		booking, err = uc.bookingRepo.Create(txCtx, &domain.Booking{
			UserID:          req.UserID,
			LessonType:      req.LessonType,
			BookingDate:     req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: durationMinutes,
			Location:        req.Location,
			Status:          domain.StatusPending,
			HoursUsed:       hoursForDuration(durationMinutes),
			Notes:           req.Notes,
		})
		if err != nil {
			if errors.Is(err, bookingstorage.ErrSlotTaken) {
				return &SlotUnavailableError{Finding: domain.ConflictFinding{
					Kind:       domain.ConflictOverlap,
					Severity:   domain.SeverityHigh,
					With:       "Забронированный урок",
					Message:    "слот уже занят другим бронированием",
					Suggestion: "выберите другое время",
				}}
			}
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// 8. Транзакция списания: дебет квоты, запись ledger и подтверждение
	ledgerTx, err := uc.debitAndConfirm(ctx, booking)
	if err != nil {
		return nil, err
	}

	booking.Status = domain.StatusConfirmed
	booking.QuotaTransactionID = &ledgerTx.ID

	endTime, err := booking.EndTime()
	if err != nil {
		return nil, fmt.Errorf("%w: end time: %v", ErrInternal, err)
	}

	uc.log.Info("Booking %d confirmed: user=%d date=%s time=%s-%s hours=%.2f ledger_tx=%d",
		booking.ID, booking.UserID, booking.BookingDate.Format(domain.DateFormat),
		booking.StartTime, endTime, booking.HoursUsed, ledgerTx.ID)

	return &Response{
		BookingID:       booking.ID,
		UserID:          booking.UserID,
		LessonType:      booking.LessonType,
		Date:            booking.BookingDate,
		StartTime:       booking.StartTime,
		EndTime:         endTime,
		DurationMinutes: booking.DurationMinutes,
		Location:        booking.Location,
		Status:          booking.Status,
		HoursUsed:       booking.HoursUsed,
		Notes:           booking.Notes,
		CreatedAt:       booking.CreatedAt,
		QuotaTransaction: QuotaTransactionInfo{
			ID:          ledgerTx.ID,
			HoursChange: ledgerTx.HoursChange,
			Type:        ledgerTx.Type,
			Description: ledgerTx.Description,
			CreatedAt:   ledgerTx.CreatedAt,
		},
		Warnings: warnings,
	}, nil
}

// debitAndConfirm списывает часы квоты, пишет запись ledger и переводит
// бронирование в confirmed одной SERIALIZABLE транзакцией.
// При сбое компенсирует pending-бронирование или выполняет сверку
func (uc *UseCase) debitAndConfirm(ctx context.Context, booking *domain.Booking) (*domain.QuotaTransaction, error) {
	var ledgerTx *domain.QuotaTransaction

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := uc.quotaRepo.Debit(txCtx, booking.UserID, booking.HoursUsed); err != nil {
			return err
		}

		tx, err := uc.quotaRepo.AppendTransaction(txCtx, &domain.QuotaTransaction{
			UserID:      booking.UserID,
			HoursChange: -booking.HoursUsed,
			Type:        domain.TxBooking,
			Description: fmt.Sprintf("Списание за урок %s %s", booking.BookingDate.Format(domain.DateFormat), booking.StartTime),
			BookingID:   &booking.ID,

			IdempotencyKey: uc.newIdempotencyKey(),
		})
		if err != nil {
			return err
		}

		if err := uc.bookingRepo.AttachQuotaTransaction(txCtx, booking.ID, tx.ID, domain.StatusConfirmed); err != nil {
			return err
		}

		ledgerTx = tx
		return nil
	})

	if err == nil {
		return ledgerTx, nil
	}

	// Однозначный отказ: часы не списаны, компенсируем бронирование
	if errors.Is(err, quotastorage.ErrInsufficientQuota) || errors.Is(err, quotastorage.ErrQuotaNotFound) {
		uc.log.Info("Debit rejected for booking %d (user=%d): %v", booking.ID, booking.UserID, err)

		if compErr := uc.compensate(ctx, booking.ID); compErr != nil {
			return nil, compErr
		}

		if errors.Is(err, quotastorage.ErrQuotaNotFound) {
			return nil, ErrQuotaNotFound
		}
		return nil, ErrInsufficientQuota
	}

	// Неоднозначный сбой (timeout, обрыв соединения): исход списания
	// неизвестен, сверяемся с ledger
	uc.log.Error("Ambiguous debit failure for booking %d (user=%d), reconciling: %v",
		booking.ID, booking.UserID, err)
	return uc.reconcileDebit(ctx, booking)
}

// compensate отменяет pending-бронирование, за которое не удалось
// списать часы
func (uc *UseCase) compensate(ctx context.Context, bookingID int64) error {
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		return uc.bookingRepo.Cancel(txCtx, bookingID, domain.StatusCancelledBySchool, msgInsufficientQuotaCancellation)
	})
	if err != nil {
		// Pending-бронирование осталось занимать слот без списанных часов
		uc.log.Error("CRITICAL: failed to compensate booking %d, manual reconciliation required: %v", bookingID, err)
		return fmt.Errorf("%w: booking %d: %v", ErrReconciliationRequired, bookingID, err)
	}
	return nil
}

// reconcileDebit выясняет фактический исход списания по ledger:
// запись есть - списание прошло, подтверждаем бронирование;
// записи нет - списания не было, компенсируем
func (uc *UseCase) reconcileDebit(ctx context.Context, booking *domain.Booking) (*domain.QuotaTransaction, error) {
	ledgerTx, err := uc.quotaRepo.GetDebitByBookingID(ctx, booking.ID)

	if err == nil {
		// Списание прошло - повторяем подтверждение
		confirmErr := uc.txManager.Do(ctx, func(txCtx context.Context) error {
			return uc.bookingRepo.AttachQuotaTransaction(txCtx, booking.ID, ledgerTx.ID, domain.StatusConfirmed)
		})
		if confirmErr != nil {
			uc.log.Error("CRITICAL: debit recorded but booking %d not confirmed, manual reconciliation required: %v",
				booking.ID, confirmErr)
			return nil, fmt.Errorf("%w: booking %d: %v", ErrReconciliationRequired, booking.ID, confirmErr)
		}

		uc.log.Info("Reconciliation: debit found for booking %d, confirmed with ledger_tx=%d", booking.ID, ledgerTx.ID)
		return ledgerTx, nil
	}

	if errors.Is(err, quotastorage.ErrTransactionNotFound) {
		// Списания не было - компенсируем и возвращаем исходный отказ
		if compErr := uc.compensate(ctx, booking.ID); compErr != nil {
			return nil, compErr
		}
		return nil, fmt.Errorf("%w: debit failed and was rolled back", ErrInternal)
	}

	uc.log.Error("CRITICAL: reconciliation lookup failed for booking %d, manual reconciliation required: %v",
		booking.ID, err)
	return nil, fmt.Errorf("%w: booking %d: %v", ErrReconciliationRequired, booking.ID, err)
}

// loadScheduleConfig загружает конфигурацию расписания
// с fallback на дефолтную
func (uc *UseCase) loadScheduleConfig(ctx context.Context) (*domain.ScheduleConfig, error) {
	cfg, err := uc.scheduleRepo.GetScheduleConfig(ctx)
	if err != nil {
		if errors.Is(err, schedulestorage.ErrScheduleNotFound) {
			return domain.DefaultScheduleConfig(), nil
		}
		return nil, fmt.Errorf("%w: failed to load schedule config: %v", ErrInternal, err)
	}
	return cfg, nil
}

// loadBufferPolicy загружает политику буфера с fallback на дефолтную
func (uc *UseCase) loadBufferPolicy(ctx context.Context) (*domain.BufferPolicy, error) {
	policy, err := uc.scheduleRepo.GetBufferPolicy(ctx)
	if err != nil {
		if errors.Is(err, schedulestorage.ErrBufferPolicyNotFound) {
			return domain.DefaultBufferPolicy(), nil
		}
		return nil, fmt.Errorf("%w: failed to load buffer policy: %v", ErrInternal, err)
	}
	return policy, nil
}
