package get_quota

import (
	"context"

	"github.com/avmakarov/DrivingSchool-BookingService/internal/service/quota/models"
)

type QuotaService interface {
	GetBalance(ctx context.Context, userID int64) (*models.QuotaResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
