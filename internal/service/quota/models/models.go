package models

import (
	"errors"
	"time"

	"github.com/avmakarov/DrivingSchool-BookingService/internal/domain"
)

var (
	// ErrInvalidTransactionType возвращается при некорректном типе операции
	ErrInvalidTransactionType = errors.New("invalid quota transaction type")
)

// Request модели

// CreditQuotaRequest запрос на пополнение квоты часов
type CreditQuotaRequest struct {
	Hours       float64 `json:"hours"`
	Type        string  `json:"type"` // "purchase" | "adjustment"
	Description string  `json:"description"`
	PackageID   *int64  `json:"packageId,omitempty"`
}

// Response модели

// QuotaResponse ответ с балансом квоты пользователя
type QuotaResponse struct {
	UserID         int64   `json:"userId"`
	TotalHours     float64 `json:"totalHours"`
	UsedHours      float64 `json:"usedHours"`
	RemainingHours float64 `json:"remainingHours"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// TransactionResponse запись истории операций с квотой
type TransactionResponse struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"userId"`
	HoursChange float64 `json:"hoursChange"`
	Type        string  `json:"type"`
	Description string  `json:"description,omitempty"`

	BookingID *int64 `json:"bookingId,omitempty"`
	PackageID *int64 `json:"packageId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// TransactionListResponse ответ с историей операций
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// Методы конвертации

// FromDomainQuota конвертирует domain модель в DTO
func FromDomainQuota(q *domain.UserQuota) *QuotaResponse {
	if q == nil {
		return nil
	}

	return &QuotaResponse{
		UserID:         q.UserID,
		TotalHours:     q.TotalHours,
		UsedHours:      q.UsedHours,
		RemainingHours: q.RemainingHours(),
		UpdatedAt:      q.UpdatedAt,
	}
}

// FromDomainTransaction конвертирует запись ledger в DTO
func FromDomainTransaction(t *domain.QuotaTransaction) *TransactionResponse {
	if t == nil {
		return nil
	}

	return &TransactionResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		HoursChange: t.HoursChange,
		Type:        string(t.Type),
		Description: t.Description,
		BookingID:   t.BookingID,
		PackageID:   t.PackageID,
		CreatedAt:   t.CreatedAt,
	}
}

// FromDomainTransactionList конвертирует список записей ledger в DTO
func FromDomainTransactionList(transactions []*domain.QuotaTransaction) *TransactionListResponse {
	resp := &TransactionListResponse{
		Transactions: make([]TransactionResponse, 0, len(transactions)),
	}

	for _, t := range transactions {
		if txResp := FromDomainTransaction(t); txResp != nil {
			resp.Transactions = append(resp.Transactions, *txResp)
		}
	}

	return resp
}

// ToDomainCreditType конвертирует строку в тип операции пополнения.
// Списания и возвраты создаются только внутренними потоками
func ToDomainCreditType(creditType string) (domain.QuotaTransactionType, error) {
	switch domain.QuotaTransactionType(creditType) {
	case domain.TxPurchase:
		return domain.TxPurchase, nil
	case domain.TxAdjustment:
		return domain.TxAdjustment, nil
	default:
		return "", ErrInvalidTransactionType
	}
}
