package update_schedule_config

import (
	"context"

	"github.com/avmakarov/DrivingSchool-BookingService/internal/service/schedule/models"
)

type ScheduleService interface {
	UpdateSchedule(ctx context.Context, dto models.ScheduleConfigDTO) error
	UpdateBufferPolicy(ctx context.Context, dto models.BufferPolicyDTO) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
