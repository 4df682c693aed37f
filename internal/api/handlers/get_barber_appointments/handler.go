package get_barber_appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/sharpcut/SC-SchedulingService/internal/api/handlers"
	"github.com/sharpcut/SC-SchedulingService/internal/api/middleware"
	"github.com/sharpcut/SC-SchedulingService/internal/service/appointments"
)

const (
	msgInvalidBarberID = "некорректный ID барбера"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidFilter   = "некорректные параметры фильтрации"
	msgBarberNotFound  = "барбер не найден"
	msgForbidden       = "доступ запрещен"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/barbers/{barberId}/appointments
// Query params: date (optional, YYYY-MM-DD), status (optional), includeInactive (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем barberId из URL
	vars := mux.Vars(r)
	barberIDStr := vars["barberId"]

	barberID, err := strconv.ParseInt(barberIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /barbers/{barberId}/appointments - Invalid barber ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBarberID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /barbers/{barberId}/appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Формируем запрос к сервису (с парсингом query параметров)
	serviceReq, err := ToServiceRequest(barberID, userID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /barbers/{barberId}/appointments - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Получаем записи барбера (сервис сам проверит права доступа)
	result, err := h.service.GetBarberDay(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrBarberNotFound):
			h.logger.Warn("GET /barbers/{barberId}/appointments - Barber not found: barber_id=%d", barberID)
			handlers.RespondNotFound(w, msgBarberNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /barbers/{barberId}/appointments - Access denied: barber_id=%d, user_id=%d",
				barberID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /barbers/{barberId}/appointments - Invalid filter: barber_id=%d, error=%v",
				barberID, err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /barbers/{barberId}/appointments - Failed to get appointments: barber_id=%d, error=%v",
				barberID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /barbers/{barberId}/appointments - Appointments retrieved successfully: barber_id=%d, count=%d",
		barberID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
