package schedule

import "errors"

var (
	// ErrScheduleNotFound возвращается, когда расписание ещё не настроено
	ErrScheduleNotFound = errors.New("schedule.repository: schedule not found")

	// ErrBufferPolicyNotFound возвращается, когда политика буфера не настроена
	ErrBufferPolicyNotFound = errors.New("schedule.repository: buffer policy not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
