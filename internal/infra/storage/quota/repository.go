package quota

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/avmakarov/DrivingSchool-BookingService/internal/domain"
	"github.com/avmakarov/DrivingSchool-BookingService/pkg/dbmetrics"
	"github.com/avmakarov/DrivingSchool-BookingService/pkg/psqlbuilder"
)

// uniqueViolation код ошибки Postgres при нарушении unique constraint
const uniqueViolation = "23505"

// transactionColumns полный список колонок таблицы quota_transactions
var transactionColumns = []string{
	"id",
	"user_id",
	"hours_change",
	"type",
	"description",
	"booking_id",
	"package_id",
	"idempotency_key",
	"created_at",
}

// Repository репозиторий квоты часов: баланс + append-only ledger
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория квоты
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByUserID получает текущий баланс квоты пользователя
func (r *Repository) GetByUserID(ctx context.Context, userID int64) (*domain.UserQuota, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"user_id",
		"total_hours",
		"used_hours",
		"created_at",
		"updated_at",
	).
		From("user_quotas").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	var quota domain.UserQuota
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&quota.UserID,
		&quota.TotalHours,
		&quota.UsedHours,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrQuotaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - scan quota: %v", ErrScanRow, err)
	}

	quota.CreatedAt = createdAt.Time
	quota.UpdatedAt = updatedAt.Time

	return &quota, nil
}

// Debit списывает hours часов одним условным UPDATE:
// проверка остатка и инкремент used_hours выполняются атомарно,
// два конкурентных списания не могут оба пройти по устаревшему балансу.
//
// RowsAffected == 0 означает либо отсутствие строки квоты, либо
// недостаточный остаток - различаем отдельным чтением
func (r *Repository) Debit(ctx context.Context, userID int64, hours float64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("user_quotas").
		Set("used_hours", squirrel.Expr("used_hours + ?", hours)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Expr("total_hours - used_hours >= ?", hours)).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Debit - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Debit - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Debit - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		if _, err := r.GetByUserID(ctx, userID); err != nil {
			if errors.Is(err, ErrQuotaNotFound) {
				return ErrQuotaNotFound
			}
			return err
		}
		return ErrInsufficientQuota
	}

	return nil
}

// CreditUsed возвращает hours часов в остаток, уменьшая used_hours
// Используется при возврате за отменённый урок
func (r *Repository) CreditUsed(ctx context.Context, userID int64, hours float64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// used_hours не может уйти в минус - возврат больше списанного
	// указывает на ошибку в вызывающем коде
	query, args, err := psqlbuilder.Update("user_quotas").
		Set("used_hours", squirrel.Expr("used_hours - ?", hours)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Expr("used_hours >= ?", hours)).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: CreditUsed - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: CreditUsed - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: CreditUsed - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		if _, err := r.GetByUserID(ctx, userID); err != nil {
			return err
		}
		return ErrInsufficientQuota
	}

	return nil
}

// CreditTotal увеличивает total_hours (покупка пакета, корректировка)
// Создает строку квоты при первом пополнении
func (r *Repository) CreditTotal(ctx context.Context, userID int64, hours float64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("user_quotas").
		Columns("user_id", "total_hours", "used_hours").
		Values(userID, hours, 0).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET total_hours = user_quotas.total_hours + EXCLUDED.total_hours, updated_at = NOW()").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: CreditTotal - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CreditTotal - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

// AppendTransaction добавляет запись в ledger
// Ledger append-only: записи никогда не изменяются и не удаляются,
// корректировки выполняются встречными записями
func (r *Repository) AppendTransaction(ctx context.Context, tx *domain.QuotaTransaction) (*domain.QuotaTransaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("quota_transactions").
		Columns(
			"user_id",
			"hours_change",
			"type",
			"description",
			"booking_id",
			"package_id",
			"idempotency_key",
		).
		Values(
			tx.UserID,
			tx.HoursChange,
			tx.Type,
			tx.Description,
			tx.BookingID,
			tx.PackageID,
			tx.IdempotencyKey,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: AppendTransaction - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&tx.ID, &createdAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrDuplicateTransaction
		}
		return nil, fmt.Errorf("%w: AppendTransaction - execute insert: %v", ErrExecQuery, err)
	}

	tx.CreatedAt = createdAt.Time

	return tx, nil
}

// GetTransactionsByUser получает историю операций пользователя, новые первыми
func (r *Repository) GetTransactionsByUser(ctx context.Context, userID int64) ([]*domain.QuotaTransaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(transactionColumns...).
		From("quota_transactions").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC, id DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetTransactionsByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetTransactionsByUser - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetDebitByBookingID находит списание за конкретное бронирование
// Используется для возврата при отмене и для сверки после
// неоднозначной ошибки списания
func (r *Repository) GetDebitByBookingID(ctx context.Context, bookingID int64) (*domain.QuotaTransaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(transactionColumns...).
		From("quota_transactions").
		Where(squirrel.Eq{"booking_id": bookingID}).
		Where(squirrel.Eq{"type": domain.TxBooking}).
		Where(squirrel.Lt{"hours_change": 0}).
		OrderBy("id ASC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetDebitByBookingID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	tx, err := scanTransaction(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetDebitByBookingID - scan transaction: %v", ErrScanRow, err)
	}

	return tx, nil
}

// scanTransaction сканирует одну строку в domain.QuotaTransaction
func scanTransaction(scan func(dest ...interface{}) error) (*domain.QuotaTransaction, error) {
	var tx domain.QuotaTransaction
	var createdAt sql.NullTime

	err := scan(
		&tx.ID,
		&tx.UserID,
		&tx.HoursChange,
		&tx.Type,
		&tx.Description,
		&tx.BookingID,
		&tx.PackageID,
		&tx.IdempotencyKey,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	tx.CreatedAt = createdAt.Time

	return &tx, nil
}

// scanTransactions сканирует результаты запроса в слайс записей ledger
func scanTransactions(rows *sql.Rows) ([]*domain.QuotaTransaction, error) {
	transactions := make([]*domain.QuotaTransaction, 0)

	for rows.Next() {
		tx, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: scanTransactions - scan row: %v", ErrScanRow, err)
		}
		transactions = append(transactions, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanTransactions - rows error: %v", ErrScanRow, err)
	}

	return transactions, nil
}
