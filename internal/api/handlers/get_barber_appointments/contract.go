package get_barber_appointments

import (
	"context"

	"github.com/sharpcut/SC-SchedulingService/internal/service/appointments/models"
)

type AppointmentService interface {
	GetBarberDay(ctx context.Context, req *models.GetBarberDayRequest) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
