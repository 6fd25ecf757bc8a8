package quota

import "errors"

var (
	// ErrQuotaNotFound возвращается, когда у пользователя нет квоты часов
	ErrQuotaNotFound = errors.New("user quota not found")

	// ErrDebitNotFound возвращается, когда списание за бронирование не найдено
	ErrDebitNotFound = errors.New("debit transaction not found")

	// ErrInsufficientQuota возвращается, когда возврат превышает списанные часы
	ErrInsufficientQuota = errors.New("insufficient quota hours")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
