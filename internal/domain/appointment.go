package domain

import (
	"time"

	"github.com/sharpcut/SC-SchedulingService/pkg/types"
)

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// Appointment represents a booked service appointment for a barber
type Appointment struct {
	ID              int64
	Reference       string // публичный код бронирования (uuid), отдается клиенту
	BarberID        int64
	ServiceID       int64
	CustomerUserID  int64
	CustomerName    string
	CustomerPhone   string
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          AppointmentStatus

	// Denormalized service data for history and conflict messages
	ServiceName  string
	ServicePrice float64

	Notes              *string
	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOccupying returns true if the appointment counts as using calendar time.
// Only occupying appointments participate in overlap checks.
func (a *Appointment) IsOccupying() bool {
	return a.Status == StatusPending ||
		a.Status == StatusConfirmed ||
		a.Status == StatusCompleted
}

// CanBeCancelled returns true if the appointment can still be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// IsCancelled returns true if the appointment has been cancelled or was a no-show
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled || a.Status == StatusNoShow
}

// EndTime возвращает время окончания записи
func (a *Appointment) EndTime() (types.TimeString, error) {
	return a.StartTime.AddMinutes(a.DurationMinutes)
}

// BarberDayFilter фильтр для выборки записей барбера
type BarberDayFilter struct {
	BarberID        int64      // Обязательный параметр
	Date            *time.Time // Конкретная дата (опционально)
	Status          *AppointmentStatus
	IncludeInactive bool // Включать ли отменённые и no-show записи
}
