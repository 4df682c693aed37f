package create_appointment

import (
	"time"

	"github.com/sharpcut/SC-SchedulingService/internal/domain"
	bookAppointment "github.com/sharpcut/SC-SchedulingService/internal/usecase/book_appointment"
	"github.com/sharpcut/SC-SchedulingService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	BarberID      int64   `json:"barberId"`
	ServiceID     int64   `json:"serviceId"`
	CustomerName  string  `json:"customerName"`
	CustomerPhone string  `json:"customerPhone"`
	Date          string  `json:"date"`      // "2026-03-10"
	StartTime     string  `json:"startTime"` // "10:00"
	Notes         *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64   `json:"id"`
	Reference       string  `json:"reference"`
	BarberID        int64   `json:"barberId"`
	ServiceID       int64   `json:"serviceId"`
	CustomerUserID  int64   `json:"customerUserId"`
	CustomerName    string  `json:"customerName"`
	CustomerPhone   string  `json:"customerPhone"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	ServiceName     string  `json:"serviceName"`
	ServicePrice    float64 `json:"servicePrice"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(customerUserID int64) (*bookAppointment.Request, error) {
	// Парсим дату
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	// Парсим время
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &bookAppointment.Request{
		BarberID:       r.BarberID,
		ServiceID:      r.ServiceID,
		CustomerUserID: customerUserID,
		CustomerName:   r.CustomerName,
		CustomerPhone:  r.CustomerPhone,
		Date:           date,
		StartTime:      startTime,
		Notes:          r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		Reference:       resp.Reference,
		BarberID:        resp.BarberID,
		ServiceID:       resp.ServiceID,
		CustomerUserID:  resp.CustomerUserID,
		CustomerName:    resp.CustomerName,
		CustomerPhone:   resp.CustomerPhone,
		Date:            resp.Date.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		ServiceName:     resp.ServiceName,
		ServicePrice:    resp.ServicePrice,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
