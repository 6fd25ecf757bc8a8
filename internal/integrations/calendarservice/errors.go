package calendarservice

import "errors"

var (
	// ErrNotConnected возвращается, когда внешний календарь не подключён
	ErrNotConnected = errors.New("calendar is not connected")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("calendarservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от коннектора
	ErrInvalidResponse = errors.New("calendarservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что коннектор недоступен и доступность считается только
	// по бронированиям в нашей БД
	ErrServiceDegraded = errors.New("calendarservice unavailable: graceful degradation applied")
)
