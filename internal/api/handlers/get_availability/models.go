package get_availability

import (
	"time"

	"github.com/sharpcut/SC-SchedulingService/internal/domain"
	getAvailability "github.com/sharpcut/SC-SchedulingService/internal/usecase/get_availability"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string `json:"date"`
	BarberID        int64  `json:"barberId"`
	ServiceID       int64  `json:"serviceId"`
	DurationMinutes int    `json:"durationMinutes"`
	Slots           []Slot `json:"slots"`
}

// Slot модель временного слота
type Slot struct {
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Available       bool   `json:"available"`
	ConflictReason  string `json:"conflictReason,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailableSlotsResponse {
	slots := make([]Slot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = Slot{
			StartTime:       slot.StartTime.String(),
			DurationMinutes: slot.DurationMinutes,
			Available:       slot.Available,
			ConflictReason:  slot.ConflictReason,
		}
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		BarberID:        resp.BarberID,
		ServiceID:       resp.ServiceID,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}

// ToUseCaseRequest создает запрос use case из параметров маршрута и query
func ToUseCaseRequest(barberID, serviceID int64, dateStr string) (*getAvailability.Request, error) {
	// Парсим дату
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailability.Request{
		BarberID:  barberID,
		ServiceID: serviceID,
		Date:      date,
	}, nil
}
