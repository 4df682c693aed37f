package create_appointment

import (
	"errors"
	"net/http"

	"github.com/sharpcut/SC-SchedulingService/internal/api/handlers"
	"github.com/sharpcut/SC-SchedulingService/internal/api/middleware"
	bookAppointment "github.com/sharpcut/SC-SchedulingService/internal/usecase/book_appointment"
	"github.com/sharpcut/SC-SchedulingService/pkg/metrics"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgSlotUnavailable    = "выбранный временной слот уже занят"
	msgBarberNotFound     = "барбер не найден"
	msgBarberInactive     = "барбер недоступен для записи"
	msgServiceNotFound    = "услуга не найдена"
	msgBarberClosed       = "барбер не работает в выбранную дату"
	msgInvalidDateValue   = "некорректная дата записи"
	msgDateTooFar         = "дата записи слишком далеко в будущем"
	msgInvalidTimeSlot    = "некорректный временной слот"
	msgTooLateToBook      = "слишком поздно для записи на этот слот"
	msgTransientStore     = "временная ошибка сохранения, повторите запрос"

	transientRetryAfterSeconds = 1
)

type Handler struct {
	useCase BookAppointmentUseCase
	metrics *metrics.Metrics
	logger  Logger
}

// NewHandler создает handler создания записи. metricsCollector может быть nil.
func NewHandler(useCase BookAppointmentUseCase, metricsCollector *metrics.Metrics, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		metrics: metricsCollector,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		h.metrics.ObserveBooking(metrics.OutcomeValidation)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		h.metrics.ObserveBooking(metrics.OutcomeValidation)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Обработка ошибок use case
		switch {
		case errors.Is(err, bookAppointment.ErrSlotUnavailable):
			h.logger.Warn("POST /appointments - Slot unavailable: user_id=%d, barber_id=%d, time=%s",
				userID, req.BarberID, req.StartTime)
			h.metrics.ObserveBooking(metrics.OutcomeConflict)
			handlers.RespondError(w, http.StatusConflict, msgSlotUnavailable)

		case errors.Is(err, bookAppointment.ErrBarberNotFound):
			h.logger.Warn("POST /appointments - Barber not found: barber_id=%d", req.BarberID)
			h.metrics.ObserveBooking(metrics.OutcomeValidation)
			handlers.RespondNotFound(w, msgBarberNotFound)

		case errors.Is(err, bookAppointment.ErrBarberInactive):
			h.logger.Warn("POST /appointments - Barber inactive: barber_id=%d", req.BarberID)
			h.metrics.ObserveBooking(metrics.OutcomeValidation)
			handlers.RespondUnprocessableEntity(w, msgBarberInactive)

		case errors.Is(err, bookAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: service_id=%d", req.ServiceID)
			h.metrics.ObserveBooking(metrics.OutcomeValidation)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, bookAppointment.ErrBarberClosed):
			h.logger.Warn("POST /appointments - Barber closed: barber_id=%d, date=%s", req.BarberID, req.Date)
			h.metrics.ObserveBooking(metrics.OutcomeValidation)
			handlers.RespondUnprocessableEntity(w, msgBarberClosed)

		case errors.Is(err, bookAppointment.ErrInvalidDate):
			h.logger.Warn("POST /appointments - Invalid date: user_id=%d, date=%s", userID, req.Date)
			h.metrics.ObserveBooking(metrics.OutcomeValidation)
			handlers.RespondBadRequest(w, msgInvalidDateValue)

		case errors.Is(err, bookAppointment.ErrDateTooFarInFuture):
			h.logger.Warn("POST /appointments - Date too far in future: user_id=%d, date=%s", userID, req.Date)
			h.metrics.ObserveBooking(metrics.OutcomeValidation)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, bookAppointment.ErrInvalidTimeSlot):
			h.logger.Warn("POST /appointments - Invalid time slot: user_id=%d, time=%s", userID, req.StartTime)
			h.metrics.ObserveBooking(metrics.OutcomeValidation)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, bookAppointment.ErrTooLateToBook):
			h.logger.Warn("POST /appointments - Too late to book: user_id=%d, time=%s", userID, req.StartTime)
			h.metrics.ObserveBooking(metrics.OutcomeValidation)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, bookAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: user_id=%d, error=%v", userID, err)
			h.metrics.ObserveBooking(metrics.OutcomeValidation)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, bookAppointment.ErrTransientStore):
			h.logger.Warn("POST /appointments - Transient store error: user_id=%d, barber_id=%d, error=%v",
				userID, req.BarberID, err)
			h.metrics.ObserveBooking(metrics.OutcomeTransient)
			handlers.RespondServiceUnavailable(w, msgTransientStore, transientRetryAfterSeconds)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: user_id=%d, barber_id=%d, error=%v",
				userID, req.BarberID, err)
			h.metrics.ObserveBooking(metrics.OutcomeInternal)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, user_id=%d, barber_id=%d",
		result.ID, userID, req.BarberID)
	h.metrics.ObserveBooking(metrics.OutcomeCreated)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
