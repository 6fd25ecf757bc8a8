package create_booking

import (
	"errors"
	"net/http"

	"github.com/avmakarov/DrivingSchool-BookingService/internal/api/handlers"
	"github.com/avmakarov/DrivingSchool-BookingService/internal/api/middleware"
	createBooking "github.com/avmakarov/DrivingSchool-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDateOrTime   = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgInvalidInput        = "некорректные данные бронирования"
	msgDateInPast          = "дата бронирования уже прошла"
	msgSchoolClosed        = "школа не работает в выбранную дату"
	msgOutsideWorkingHours = "выбранное время вне рабочих часов"
	msgSlotNotAvailable    = "выбранный временной слот недоступен"
	msgQuotaNotFound       = "квота часов не найдена"
	msgInsufficientQuota   = "недостаточно часов на балансе"
	msgReconciliation      = "бронирование в неопределённом состоянии, обратитесь в поддержку"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Обработка ошибок use case
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: user_id=%d, date=%s, time=%s",
				userID, req.BookingDate, req.StartTime)
			handlers.RespondConflict(w, slotUnavailableMessage(err))

		case errors.Is(err, createBooking.ErrInsufficientQuota):
			h.logger.Warn("POST /bookings - Insufficient quota: user_id=%d", userID)
			handlers.RespondConflict(w, msgInsufficientQuota)

		case errors.Is(err, createBooking.ErrQuotaNotFound):
			h.logger.Warn("POST /bookings - Quota not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgQuotaNotFound)

		case errors.Is(err, createBooking.ErrDateInPast):
			h.logger.Warn("POST /bookings - Date in past: user_id=%d, date=%s", userID, req.BookingDate)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, createBooking.ErrSchoolClosed):
			h.logger.Warn("POST /bookings - School closed: user_id=%d, date=%s", userID, req.BookingDate)
			handlers.RespondBadRequest(w, msgSchoolClosed)

		case errors.Is(err, createBooking.ErrOutsideWorkingHours):
			h.logger.Warn("POST /bookings - Outside working hours: user_id=%d, time=%s", userID, req.StartTime)
			handlers.RespondBadRequest(w, msgOutsideWorkingHours)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrReconciliationRequired):
			h.logger.Error("POST /bookings - Reconciliation required: user_id=%d, error=%v", userID, err)
			handlers.RespondError(w, http.StatusInternalServerError, msgReconciliation)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d",
		result.BookingID, userID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}

// slotUnavailableMessage извлекает из ошибки сообщение конфликта
// с подсказкой, если она есть
func slotUnavailableMessage(err error) string {
	var slotErr *createBooking.SlotUnavailableError
	if !errors.As(err, &slotErr) {
		return msgSlotNotAvailable
	}

	msg := slotErr.Finding.Message
	if slotErr.Finding.Suggestion != "" {
		msg += ": " + slotErr.Finding.Suggestion
	}
	return msg
}
