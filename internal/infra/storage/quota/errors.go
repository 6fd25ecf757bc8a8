package quota

import "errors"

var (
	// ErrQuotaNotFound возвращается, когда у пользователя нет строки квоты
	ErrQuotaNotFound = errors.New("quota.repository: quota not found")

	// ErrInsufficientQuota возвращается, когда остатка часов не хватает
	// для списания - условный UPDATE не затронул ни одной строки
	ErrInsufficientQuota = errors.New("quota.repository: insufficient quota")

	// ErrTransactionNotFound возвращается, когда запись ledger не найдена
	ErrTransactionNotFound = errors.New("quota.repository: transaction not found")

	// ErrDuplicateTransaction возвращается при повторе idempotency key
	ErrDuplicateTransaction = errors.New("quota.repository: duplicate transaction")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("quota.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("quota.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("quota.repository: failed to scan row")
)
