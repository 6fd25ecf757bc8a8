package get_quota_history

import (
	"context"

	"github.com/avmakarov/DrivingSchool-BookingService/internal/service/quota/models"
)

type QuotaService interface {
	History(ctx context.Context, userID int64) (*models.TransactionListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
