package quota

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/avmakarov/DrivingSchool-BookingService/internal/domain"
	quotaRepo "github.com/avmakarov/DrivingSchool-BookingService/internal/infra/storage/quota"
	"github.com/avmakarov/DrivingSchool-BookingService/internal/service/quota/models"
)

// Service сервис квоты часов: баланс и append-only история операций
type Service struct {
	quotaRepo QuotaRepository
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса квоты
func NewService(
	quotaRepo QuotaRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		quotaRepo: quotaRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// GetBalance получает текущий баланс квоты пользователя
func (s *Service) GetBalance(ctx context.Context, userID int64) (*models.QuotaResponse, error) {
	s.logger.Info("GetBalance: fetching quota for user=%d", userID)

	quota, err := s.quotaRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, quotaRepo.ErrQuotaNotFound) {
			s.logger.Warn("GetBalance: quota for user=%d not found", userID)
			return nil, ErrQuotaNotFound
		}
		s.logger.Error("GetBalance: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetBalance - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainQuota(quota), nil
}

// Credit пополняет квоту часов (покупка пакета или корректировка)
// Пополнение и запись в ledger выполняются одной транзакцией
func (s *Service) Credit(ctx context.Context, userID int64, req *models.CreditQuotaRequest) (*models.TransactionResponse, error) {
	s.logger.Info("Credit: crediting %.2f hours to user=%d, type=%s", req.Hours, userID, req.Type)

	if req.Hours <= 0 {
		s.logger.Warn("Credit: non-positive hours=%.2f for user=%d", req.Hours, userID)
		return nil, fmt.Errorf("%w: hours must be positive", ErrInvalidInput)
	}

	creditType, err := models.ToDomainCreditType(req.Type)
	if err != nil {
		s.logger.Warn("Credit: invalid type=%s for user=%d", req.Type, userID)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var ledgerTx *domain.QuotaTransaction

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.quotaRepo.CreditTotal(txCtx, userID, req.Hours); err != nil {
			return err
		}

		tx, err := s.quotaRepo.AppendTransaction(txCtx, &domain.QuotaTransaction{
			UserID:      userID,
			HoursChange: req.Hours,
			Type:        creditType,
			Description: req.Description,
			PackageID:   req.PackageID,

			IdempotencyKey: uuid.NewString(),
		})
		if err != nil {
			return err
		}

		ledgerTx = tx
		return nil
	})
	if err != nil {
		s.logger.Error("Credit: failed to credit user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: Credit - transaction error: %v", ErrInternal, err)
	}

	s.logger.Info("Credit: successfully credited %.2f hours to user=%d, ledger_tx=%d", req.Hours, userID, ledgerTx.ID)
	return models.FromDomainTransaction(ledgerTx), nil
}

// Refund возвращает часы за бронирование встречной записью ledger.
// Сумма возврата берётся из исходного списания
func (s *Service) Refund(ctx context.Context, userID int64, bookingID int64, description string) (*models.TransactionResponse, error) {
	s.logger.Info("Refund: refunding booking id=%d for user=%d", bookingID, userID)

	var ledgerTx *domain.QuotaTransaction

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		debit, err := s.quotaRepo.GetDebitByBookingID(txCtx, bookingID)
		if err != nil {
			return err
		}

		hours := -debit.HoursChange
		if err := s.quotaRepo.CreditUsed(txCtx, userID, hours); err != nil {
			return err
		}

		tx, err := s.quotaRepo.AppendTransaction(txCtx, &domain.QuotaTransaction{
			UserID:      userID,
			HoursChange: hours,
			Type:        domain.TxRefund,
			Description: description,
			BookingID:   &bookingID,

			IdempotencyKey: uuid.NewString(),
		})
		if err != nil {
			return err
		}

		ledgerTx = tx
		return nil
	})
	if err != nil {
		if errors.Is(err, quotaRepo.ErrTransactionNotFound) {
			s.logger.Warn("Refund: no debit found for booking id=%d", bookingID)
			return nil, ErrDebitNotFound
		}
		if errors.Is(err, quotaRepo.ErrInsufficientQuota) {
			s.logger.Warn("Refund: refund exceeds used hours for user=%d, booking id=%d", userID, bookingID)
			return nil, ErrInsufficientQuota
		}
		s.logger.Error("Refund: failed to refund booking id=%d for user=%d: %v", bookingID, userID, err)
		return nil, fmt.Errorf("%w: Refund - transaction error: %v", ErrInternal, err)
	}

	s.logger.Info("Refund: successfully refunded booking id=%d for user=%d, ledger_tx=%d", bookingID, userID, ledgerTx.ID)
	return models.FromDomainTransaction(ledgerTx), nil
}

// History получает историю операций пользователя, новые первыми
func (s *Service) History(ctx context.Context, userID int64) (*models.TransactionListResponse, error) {
	s.logger.Info("History: fetching transactions for user=%d", userID)

	transactions, err := s.quotaRepo.GetTransactionsByUser(ctx, userID)
	if err != nil {
		s.logger.Error("History: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: History - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("History: successfully fetched %d transactions for user=%d", len(transactions), userID)
	return models.FromDomainTransactionList(transactions), nil
}
