package calendarservice

// Event событие внешнего календаря, блокирующее время для бронирования
// (отпуск инструктора, техобслуживание автомобиля и т.п.)
type Event struct {
	ID        string `json:"id"`
	Date      string `json:"date"`       // YYYY-MM-DD
	StartTime string `json:"start_time"` // HH:MM
	EndTime   string `json:"end_time"`   // HH:MM
	Title     string `json:"title"`
	AllDay    bool   `json:"all_day"`
}

// StatusResponse статус подключения внешнего календаря
type StatusResponse struct {
	Connected bool   `json:"connected"`
	Provider  string `json:"provider,omitempty"`
}

// ErrorResponse модель ошибки от календарного коннектора
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
