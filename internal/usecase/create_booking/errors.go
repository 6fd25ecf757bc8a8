package create_booking

import (
	"errors"
	"fmt"

	"github.com/avmakarov/DrivingSchool-BookingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrDateInPast возвращается при попытке бронирования на прошедшую дату
	ErrDateInPast = errors.New("create_booking: booking date is in the past")

	// ErrSchoolClosed возвращается для выходного дня или дня каникул
	ErrSchoolClosed = errors.New("create_booking: school is closed on this date")

	// ErrOutsideWorkingHours возвращается, когда урок не помещается
	// в рабочие часы дня
	ErrOutsideWorkingHours = errors.New("create_booking: requested time is outside working hours")

	// ErrSlotNotAvailable возвращается при блокирующем конфликте слота
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrQuotaNotFound возвращается, когда у пользователя нет квоты часов
	ErrQuotaNotFound = errors.New("create_booking: user quota not found")

	// ErrInsufficientQuota возвращается при нехватке часов на балансе
	ErrInsufficientQuota = errors.New("create_booking: insufficient quota hours")

	// ErrReconciliationRequired возвращается, когда компенсация или сверка
	// после сбоя списания не удалась и требуется ручное вмешательство
	ErrReconciliationRequired = errors.New("create_booking: booking left in inconsistent state, reconciliation required")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// SlotUnavailableError несёт детали блокирующего конфликта.
// Совместима с errors.Is(err, ErrSlotNotAvailable)
type SlotUnavailableError struct {
	Finding domain.ConflictFinding
}

// Error возвращает текст ошибки с сообщением конфликта
func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("%v: %s", ErrSlotNotAvailable, e.Finding.Message)
}

// Unwrap поддерживает сопоставление через errors.Is
func (e *SlotUnavailableError) Unwrap() error {
	return ErrSlotNotAvailable
}
