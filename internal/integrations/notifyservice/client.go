// Package notifyservice клиент сервиса уведомлений.
//
// Уведомление о созданной записи отправляется fire-and-forget ПОСЛЕ
// успешного коммита и не входит в атомарную транзакцию бронирования:
// недоступность уведомлений не должна ни откатывать, ни задерживать коммит.
package notifyservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("notifyservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("notifyservice client: invalid response")
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// AppointmentBookedEvent событие успешного бронирования для планирования напоминаний
type AppointmentBookedEvent struct {
	AppointmentID int64  `json:"appointment_id"`
	Reference     string `json:"reference"`
	BarberID      int64  `json:"barber_id"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	ServiceName   string `json:"service_name"`
	Date          string `json:"date"`       // YYYY-MM-DD
	StartTime     string `json:"start_time"` // HH:MM
}

// Client клиент для работы с NotifyService
type Client struct {
	baseURL    string
	httpClient *http.Client
	enabled    bool
	log        Logger
}

// NewClient создает новый экземпляр клиента NotifyService.
// При enabled=false все отправки превращаются в no-op.
func NewClient(baseURL string, timeout time.Duration, enabled bool, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		enabled: enabled,
		log:     log,
	}
}

// AppointmentBooked отправляет уведомление о созданной записи.
// Best-effort: ошибка логируется и возвращается, но вызывающая сторона
// не должна транслировать её клиенту.
func (c *Client) AppointmentBooked(ctx context.Context, event AppointmentBookedEvent) error {
	if !c.enabled {
		return nil
	}

	url := fmt.Sprintf("%s/internal/notifications/appointment-booked", c.baseURL)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal event: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("NotifyService unavailable, reminder for appointment id=%d will not be scheduled: %v",
			event.AppointmentID, err)
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		c.log.Warn("NotifyService rejected event for appointment id=%d: status=%d body=%s",
			event.AppointmentID, resp.StatusCode, string(body))
		return fmt.Errorf("%w: unexpected status code %d", ErrInvalidResponse, resp.StatusCode)
	}

	c.log.Info("Booking notification sent: appointment_id=%d reference=%s", event.AppointmentID, event.Reference)
	return nil
}
