package get_barber_appointments

import (
	"net/url"
	"time"

	"github.com/sharpcut/SC-SchedulingService/internal/domain"
	"github.com/sharpcut/SC-SchedulingService/internal/service/appointments/models"
	"github.com/sharpcut/SC-SchedulingService/pkg/ptr"
)

// ToServiceRequest собирает запрос сервиса из параметров маршрута и query.
// Все query параметры опциональны: date (YYYY-MM-DD), status, includeInactive.
func ToServiceRequest(barberID, userID int64, query url.Values) (*models.GetBarberDayRequest, error) {
	req := &models.GetBarberDayRequest{
		UserID:   userID,
		BarberID: barberID,
	}

	if dateStr := query.Get("date"); dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, err
		}
		req.Date = ptr.Ptr(date)
	}

	if status := query.Get("status"); status != "" {
		req.Status = ptr.Ptr(status)
	}

	req.IncludeInactive = query.Get("includeInactive") == "true"

	return req, nil
}
