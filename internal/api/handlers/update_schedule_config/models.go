package update_schedule_config

import "github.com/avmakarov/DrivingSchool-BookingService/internal/service/schedule/models"

// UpdateScheduleConfigRequest HTTP request model.
// Обе секции опциональны - обновляется то, что передано
type UpdateScheduleConfigRequest struct {
	Schedule     *models.ScheduleConfigDTO `json:"schedule,omitempty"`
	BufferPolicy *models.BufferPolicyDTO   `json:"bufferPolicy,omitempty"`
}
