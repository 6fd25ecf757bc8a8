package credit_quota

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avmakarov/DrivingSchool-BookingService/internal/api/handlers"
	"github.com/avmakarov/DrivingSchool-BookingService/internal/api/middleware"
	"github.com/avmakarov/DrivingSchool-BookingService/internal/service/quota"
	"github.com/avmakarov/DrivingSchool-BookingService/internal/service/quota/models"
)

const (
	msgInvalidUserID      = "некорректный ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "некорректные данные пополнения"
)

type Handler struct {
	service QuotaService
	logger  Logger
}

func NewHandler(service QuotaService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/users/{userId}/quota/credit
// Пополнение квоты: покупка пакета часов или корректировка
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем userId из URL
	vars := mux.Vars(r)
	userIDStr := vars["userId"]

	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("POST /users/{id}/quota/credit - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	if _, ok := middleware.GetUserID(r.Context()); !ok {
		h.logger.Warn("POST /users/{id}/quota/credit - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CreditQuotaRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /users/{id}/quota/credit - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Credit(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, quota.ErrInvalidInput):
			h.logger.Warn("POST /users/{id}/quota/credit - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /users/{id}/quota/credit - Failed to credit quota: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /users/{id}/quota/credit - Quota credited successfully: user_id=%d, hours=%.2f, ledger_tx=%d",
		userID, req.Hours, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
