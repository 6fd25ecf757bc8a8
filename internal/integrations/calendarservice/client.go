package calendarservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент внешнего календарного коннектора
// Коннектор отдаёт события, заблокированные администратором
// (read-only с точки зрения этого сервиса)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента календарного коннектора
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetBlockedEvents получает заблокированные события на указанную дату
func (c *Client) GetBlockedEvents(ctx context.Context, date time.Time) ([]Event, error) {
	url := fmt.Sprintf("%s/internal/calendar/events?date=%s", c.baseURL, date.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusConflict:
		return nil, ErrNotConnected
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var events []Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return events, nil
}

// GetBlockedEventsWithGracefulDegradation получает заблокированные события
// с graceful degradation: при недоступности коннектора возвращает
// ErrServiceDegraded, и доступность считается только по бронированиям
func (c *Client) GetBlockedEventsWithGracefulDegradation(ctx context.Context, date time.Time) ([]Event, error) {
	events, err := c.GetBlockedEvents(ctx, date)
	if err != nil {
		// Отключённый календарь - штатная ситуация, блокировок просто нет
		if err == ErrNotConnected {
			c.log.Info("Calendar not connected, no admin-blocked events for %s", date.Format("2006-01-02"))
			return []Event{}, nil
		}

		// Для остальных ошибок (timeout, 5xx, ошибки парсинга) применяем
		// graceful degradation и повышаем уровень логирования до ERROR
		c.log.Error("Calendar connector unavailable, applying graceful degradation for %s: %v",
			date.Format("2006-01-02"), err)
		return nil, fmt.Errorf("%w: date=%s, error=%v", ErrServiceDegraded, date.Format("2006-01-02"), err)
	}

	return events, nil
}

// IsConnected проверяет статус подключения внешнего календаря
// Polling и backoff - ответственность вызывающей стороны
func (c *Client) IsConnected(ctx context.Context) (bool, error) {
	url := fmt.Sprintf("%s/internal/calendar/status", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var status StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return false, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return status.Connected, nil
}
