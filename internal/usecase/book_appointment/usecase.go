package book_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sharpcut/SC-SchedulingService/internal/domain"
	scheduleRepo "github.com/sharpcut/SC-SchedulingService/internal/infra/storage/schedule"
	catalogClient "github.com/sharpcut/SC-SchedulingService/internal/integrations/catalogservice"
	"github.com/sharpcut/SC-SchedulingService/internal/integrations/notifyservice"
	"github.com/sharpcut/SC-SchedulingService/internal/scheduling"
	"github.com/sharpcut/SC-SchedulingService/pkg/txmanager"
)

const notifyTimeout = 5 * time.Second

// UseCase use case для создания записи.
// Вся проверка доступности и вставка выполняются в одной сериализуемой
// транзакции: два конкурирующих запроса на один слот не могут закоммититься оба.
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	catalogClient   CatalogServiceClient
	notifyClient    NotifyServiceClient
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger

	granularityMinutes      int
	advanceBookingDays      int
	minBookingNoticeMinutes int
	commitTimeout           time.Duration
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	catalogClient CatalogServiceClient,
	notifyClient NotifyServiceClient,
	txManager TransactionManager,
	granularityMinutes int,
	advanceBookingDays int,
	minBookingNoticeMinutes int,
	commitTimeout time.Duration,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo:         appointmentRepo,
		scheduleRepo:            scheduleRepo,
		catalogClient:           catalogClient,
		notifyClient:            notifyClient,
		txManager:               txManager,
		timeProvider:            &RealTimeProvider{},
		logger:                  logger,
		granularityMinutes:      granularityMinutes,
		advanceBookingDays:      advanceBookingDays,
		minBookingNoticeMinutes: minBookingNoticeMinutes,
		commitTimeout:           commitTimeout,
	}
}

// Execute выполняет use case создания записи
// Использует сериализуемую транзакцию для предотвращения гонки данных
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookAppointment: user=%d, barber=%d, service=%d, date=%s, time=%s",
		req.CustomerUserID, req.BarberID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем барбера из каталога
	if _, err := uc.catalogClient.GetBarber(ctx, req.BarberID); err != nil {
		switch {
		case errors.Is(err, catalogClient.ErrBarberNotFound):
			uc.logger.Warn("BookAppointment: barber id=%d not found", req.BarberID)
			return nil, ErrBarberNotFound
		case errors.Is(err, catalogClient.ErrBarberInactive):
			uc.logger.Warn("BookAppointment: barber id=%d is not active", req.BarberID)
			return nil, ErrBarberInactive
		default:
			uc.logger.Error("BookAppointment: failed to get barber id=%d: %v", req.BarberID, err)
			return nil, fmt.Errorf("%w: failed to get barber: %v", ErrInternal, err)
		}
	}

	// 4. Получаем услугу (длительность и цена денормализуются в запись)
	service, err := uc.catalogClient.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("BookAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("BookAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if err := validateServiceDuration(service.DurationMinutes); err != nil {
		uc.logger.Warn("BookAppointment: service id=%d has invalid duration: %v", req.ServiceID, err)
		return nil, err
	}

	startMinutes, err := req.StartTime.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}
	endMinutes := startMinutes + service.DurationMinutes

	// 5. Ограничиваем время коммита: зависшая транзакция не должна
	// держать блокировки дольше дедлайна
	commitCtx, cancel := context.WithTimeout(ctx, uc.commitTimeout)
	defer cancel()

	// Переменная для хранения результата
	var result *domain.Appointment

	// 6. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(commitCtx, func(txCtx context.Context) error {
		// 6.1. Валидация даты
		if err := validateDate(req.Date, now, uc.advanceBookingDays); err != nil {
			uc.logger.Warn("BookAppointment: date validation failed: %v", err)
			return err
		}

		// 6.2. Исключение на дату: закрытый день перекрывает обычное расписание
		exception, err := uc.scheduleRepo.GetException(txCtx, req.BarberID, req.Date)
		if err != nil && !errors.Is(err, scheduleRepo.ErrExceptionNotFound) {
			uc.logger.Error("BookAppointment: failed to get exception: %v", err)
			return fmt.Errorf("%w: failed to get schedule exception: %v", ErrInternal, err)
		}
		if exception != nil && exception.IsClosed {
			uc.logger.Warn("BookAppointment: barber id=%d is closed on %s",
				req.BarberID, req.Date.Format(domain.DateFormat))
			return ErrBarberClosed
		}

		// 6.3. Рабочие окна на день недели
		daySchedule, err := uc.scheduleRepo.GetDaySchedule(txCtx, req.BarberID, int(req.Date.Weekday()))
		if err != nil {
			uc.logger.Error("BookAppointment: failed to get day schedule: %v", err)
			return fmt.Errorf("%w: failed to get day schedule: %v", ErrInternal, err)
		}

		openIntervals, err := scheduling.ResolveDay(daySchedule, exception)
		if err != nil {
			uc.logger.Error("BookAppointment: failed to resolve open intervals: %v", err)
			return fmt.Errorf("%w: failed to resolve open intervals: %v", ErrInternal, err)
		}
		if len(openIntervals) == 0 {
			uc.logger.Warn("BookAppointment: no open windows for barber id=%d on %s",
				req.BarberID, req.Date.Format(domain.DateFormat))
			return ErrBarberClosed
		}

		// 6.4. Валидация времени записи (minBookingNoticeMinutes)
		if err := validateBookingTime(req.Date, req.StartTime, now, uc.minBookingNoticeMinutes); err != nil {
			uc.logger.Warn("BookAppointment: booking time validation failed: %v", err)
			return err
		}

		// 6.5. Время начала должно лежать на сетке слотов, услуга -
		// целиком помещаться в одно рабочее окно
		if !scheduling.AlignedToGranularity(openIntervals, startMinutes, uc.granularityMinutes) {
			uc.logger.Warn("BookAppointment: start time %s is off the slot grid", req.StartTime)
			return fmt.Errorf("%w: start time is not aligned to the slot grid", ErrInvalidTimeSlot)
		}
		if !fitsOpenWindow(openIntervals, startMinutes, endMinutes) {
			uc.logger.Warn("BookAppointment: service does not fit working window at %s", req.StartTime)
			return fmt.Errorf("%w: service does not fit into the working window", ErrInvalidTimeSlot)
		}

		// 6.6. Получаем занятость барбера на дату с блокировкой (FOR UPDATE)
		filter := domain.BarberDayFilter{
			BarberID:        req.BarberID,
			Date:            &req.Date,
			IncludeInactive: false,
		}

		appointments, err := uc.appointmentRepo.GetByBarberWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("BookAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 6.7. Авторитетная проверка пересечений
		occupancy, err := scheduling.NewOccupancyIndex(appointments)
		if err != nil {
			uc.logger.Error("BookAppointment: failed to build occupancy index: %v", err)
			return fmt.Errorf("%w: failed to build occupancy index: %v", ErrInternal, err)
		}

		if occ := occupancy.Overlaps(startMinutes, endMinutes); occ != nil {
			uc.logger.Warn("BookAppointment: slot %s conflicts with %s", req.StartTime, occ.Describe())
			return fmt.Errorf("%w: conflicts with %s", ErrSlotUnavailable, occ.Describe())
		}

		// 6.8. Создаем запись с денормализацией данных услуги
		appt := &domain.Appointment{
			Reference:       uuid.NewString(),
			BarberID:        req.BarberID,
			ServiceID:       req.ServiceID,
			CustomerUserID:  req.CustomerUserID,
			CustomerName:    req.CustomerName,
			CustomerPhone:   req.CustomerPhone,
			Date:            req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: service.DurationMinutes,
			Status:          domain.StatusConfirmed,
			ServiceName:     service.Name,
			ServicePrice:    getServicePrice(service),
			Notes:           req.Notes,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("BookAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		// Конфликт сериализации после исчерпания ретраев и истекший дедлайн -
		// временные сбои: клиент может безопасно повторить запрос
		if errors.Is(err, txmanager.ErrSerializationFailure) || errors.Is(err, context.DeadlineExceeded) {
			uc.logger.Warn("BookAppointment: transient commit failure: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrTransientStore, err)
		}
		return nil, err
	}

	uc.logger.Info("BookAppointment: successfully created appointment id=%d reference=%s",
		result.ID, result.Reference)

	// 7. Уведомление о созданной записи отправляется после коммита и не влияет
	// на результат бронирования
	uc.sendBookedNotification(result)

	return &Response{
		ID:              result.ID,
		Reference:       result.Reference,
		BarberID:        result.BarberID,
		ServiceID:       result.ServiceID,
		CustomerUserID:  result.CustomerUserID,
		CustomerName:    result.CustomerName,
		CustomerPhone:   result.CustomerPhone,
		Date:            result.Date,
		StartTime:       result.StartTime,
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),
		ServiceName:     result.ServiceName,
		ServicePrice:    result.ServicePrice,
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}

// sendBookedNotification отправляет событие бронирования в фоне.
// Контекст запроса к этому моменту может быть уже отменен, поэтому
// используется отдельный контекст с собственным таймаутом.
func (uc *UseCase) sendBookedNotification(appt *domain.Appointment) {
	event := notifyservice.AppointmentBookedEvent{
		AppointmentID: appt.ID,
		Reference:     appt.Reference,
		BarberID:      appt.BarberID,
		CustomerName:  appt.CustomerName,
		CustomerPhone: appt.CustomerPhone,
		ServiceName:   appt.ServiceName,
		Date:          appt.Date.Format(domain.DateFormat),
		StartTime:     appt.StartTime.String(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := uc.notifyClient.AppointmentBooked(ctx, event); err != nil {
			uc.logger.Warn("BookAppointment: failed to send booked notification for id=%d: %v",
				appt.ID, err)
		}
	}()
}

// fitsOpenWindow возвращает true, если интервал [startMinutes, endMinutes)
// целиком помещается в одно из открытых окон
func fitsOpenWindow(openIntervals []scheduling.Interval, startMinutes, endMinutes int) bool {
	candidate := scheduling.Interval{Start: startMinutes, End: endMinutes}
	for _, window := range openIntervals {
		if window.Contains(candidate) {
			return true
		}
	}
	return false
}

// getServicePrice извлекает цену из услуги
// Если цена не указана (nil), возвращает 0.0
func getServicePrice(service *catalogClient.Service) float64 {
	if service.Price == nil {
		return 0.0
	}
	return *service.Price
}
