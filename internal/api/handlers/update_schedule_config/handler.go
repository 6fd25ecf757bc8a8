package update_schedule_config

import (
	"errors"
	"net/http"

	"github.com/avmakarov/DrivingSchool-BookingService/internal/api/handlers"
	"github.com/avmakarov/DrivingSchool-BookingService/internal/api/middleware"
	"github.com/avmakarov/DrivingSchool-BookingService/internal/service/schedule"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgEmptyRequest       = "не передано ни одной секции конфигурации"
	msgInvalidConfig      = "некорректная конфигурация расписания"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/schedule-config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	if _, ok := middleware.GetUserID(r.Context()); !ok {
		h.logger.Warn("PUT /schedule-config - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateScheduleConfigRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /schedule-config - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if req.Schedule == nil && req.BufferPolicy == nil {
		h.logger.Warn("PUT /schedule-config - Empty request")
		handlers.RespondBadRequest(w, msgEmptyRequest)
		return
	}

	if req.Schedule != nil {
		if err := h.service.UpdateSchedule(r.Context(), *req.Schedule); err != nil {
			h.respondUpdateError(w, "schedule", err)
			return
		}
	}

	if req.BufferPolicy != nil {
		if err := h.service.UpdateBufferPolicy(r.Context(), *req.BufferPolicy); err != nil {
			h.respondUpdateError(w, "buffer policy", err)
			return
		}
	}

	h.logger.Info("PUT /schedule-config - Schedule config updated successfully")
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) respondUpdateError(w http.ResponseWriter, section string, err error) {
	switch {
	case errors.Is(err, schedule.ErrInvalidInput):
		h.logger.Warn("PUT /schedule-config - Invalid %s: %v", section, err)
		handlers.RespondBadRequest(w, msgInvalidConfig)

	default:
		h.logger.Error("PUT /schedule-config - Failed to update %s: %v", section, err)
		handlers.RespondInternalError(w)
	}
}
