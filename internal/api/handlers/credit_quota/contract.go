package credit_quota

import (
	"context"

	"github.com/avmakarov/DrivingSchool-BookingService/internal/service/quota/models"
)

type QuotaService interface {
	Credit(ctx context.Context, userID int64, req *models.CreditQuotaRequest) (*models.TransactionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
