package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sharpcut/SC-SchedulingService/internal/domain"
	scheduleRepo "github.com/sharpcut/SC-SchedulingService/internal/infra/storage/schedule"
	catalogClient "github.com/sharpcut/SC-SchedulingService/internal/integrations/catalogservice"
	"github.com/sharpcut/SC-SchedulingService/internal/scheduling"
	"github.com/sharpcut/SC-SchedulingService/pkg/types"
)

// UseCase use case для получения сетки слотов барбера на дату.
// Чисто читающая, идемпотентная операция: безопасно пересчитывать на каждый
// запрос. Результат не кешируется - авторитетная проверка доступности
// в любом случае выполняется при коммите бронирования.
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	catalogClient   CatalogServiceClient
	timeProvider    TimeProvider
	logger          Logger

	granularityMinutes      int
	advanceBookingDays      int
	minBookingNoticeMinutes int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	catalogClient CatalogServiceClient,
	granularityMinutes int,
	advanceBookingDays int,
	minBookingNoticeMinutes int,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo:         appointmentRepo,
		scheduleRepo:            scheduleRepo,
		catalogClient:           catalogClient,
		timeProvider:            &RealTimeProvider{},
		logger:                  logger,
		granularityMinutes:      granularityMinutes,
		advanceBookingDays:      advanceBookingDays,
		minBookingNoticeMinutes: minBookingNoticeMinutes,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: barber=%d, service=%d, date=%s",
		req.BarberID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем барбера из каталога
	if _, err := uc.catalogClient.GetBarber(ctx, req.BarberID); err != nil {
		switch {
		case errors.Is(err, catalogClient.ErrBarberNotFound):
			uc.logger.Warn("GetAvailability: barber id=%d not found", req.BarberID)
			return nil, ErrBarberNotFound
		case errors.Is(err, catalogClient.ErrBarberInactive):
			uc.logger.Warn("GetAvailability: barber id=%d is not active", req.BarberID)
			return nil, ErrBarberInactive
		default:
			uc.logger.Error("GetAvailability: failed to get barber id=%d: %v", req.BarberID, err)
			return nil, fmt.Errorf("%w: failed to get barber: %v", ErrInternal, err)
		}
	}

	// 4. Получаем услугу (длительность определяет раскладку слотов)
	service, err := uc.catalogClient.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailability: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailability: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if err := validateServiceDuration(service.DurationMinutes); err != nil {
		uc.logger.Warn("GetAvailability: service id=%d has invalid duration: %v", req.ServiceID, err)
		return nil, err
	}

	// 5. Валидация даты
	if err := validateDate(req.Date, now, uc.advanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailability: date validation failed: %v", err)
		return nil, err
	}

	emptyResponse := &Response{
		Date:            req.Date,
		BarberID:        req.BarberID,
		ServiceID:       req.ServiceID,
		DurationMinutes: service.DurationMinutes,
		Slots:           []Slot{},
	}

	// 6. Исключение на дату: закрытый день - терминальный случай
	exception, err := uc.scheduleRepo.GetException(ctx, req.BarberID, req.Date)
	if err != nil && !errors.Is(err, scheduleRepo.ErrExceptionNotFound) {
		uc.logger.Error("GetAvailability: failed to get exception: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedule exception: %v", ErrInternal, err)
	}
	if exception != nil && exception.IsClosed {
		uc.logger.Info("GetAvailability: barber id=%d is closed on %s",
			req.BarberID, req.Date.Format(domain.DateFormat))
		return emptyResponse, nil
	}

	// 7. Расписание на день недели и открытые окна
	daySchedule, err := uc.scheduleRepo.GetDaySchedule(ctx, req.BarberID, int(req.Date.Weekday()))
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get day schedule: %v", err)
		return nil, fmt.Errorf("%w: failed to get day schedule: %v", ErrInternal, err)
	}

	openIntervals, err := scheduling.ResolveDay(daySchedule, exception)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to resolve open intervals: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve open intervals: %v", ErrInternal, err)
	}
	if len(openIntervals) == 0 {
		uc.logger.Info("GetAvailability: no open windows for barber id=%d on %s",
			req.BarberID, req.Date.Format(domain.DateFormat))
		return emptyResponse, nil
	}

	// 8. Генерируем кандидатов и фильтруем по минимальному времени до брони
	candidates := scheduling.Candidates(openIntervals, uc.granularityMinutes, service.DurationMinutes)
	candidates = uc.filterByNotice(candidates, req.Date, now)

	// 9. Загружаем занятость (только занимающие статусы)
	filter := domain.BarberDayFilter{
		BarberID:        req.BarberID,
		Date:            &req.Date,
		IncludeInactive: false,
	}
	appointments, err := uc.appointmentRepo.GetByBarberWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	occupancy, err := scheduling.NewOccupancyIndex(appointments)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to build occupancy index: %v", err)
		return nil, fmt.Errorf("%w: failed to build occupancy index: %v", ErrInternal, err)
	}

	// 10. Размечаем кандидатов доступностью
	slots, err := resolveSlots(candidates, service.DurationMinutes, occupancy)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to resolve slots: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve slots: %v", ErrInternal, err)
	}

	uc.logger.Info("GetAvailability: resolved %d slots for barber=%d, service=%d, date=%s",
		len(slots), req.BarberID, req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:            req.Date,
		BarberID:        req.BarberID,
		ServiceID:       req.ServiceID,
		DurationMinutes: service.DurationMinutes,
		Slots:           slots,
	}, nil
}

// filterByNotice отбрасывает кандидатов, нарушающих минимальное время до
// начала слота. Применяется только при запросе на сегодня: для будущих дат
// все кандидаты проходят.
func (uc *UseCase) filterByNotice(candidates []int, requestDate, now time.Time) []int {
	if !isSameDay(requestDate, now) {
		return candidates
	}

	minAllowed := now.Hour()*60 + now.Minute() + uc.minBookingNoticeMinutes

	filtered := make([]int, 0, len(candidates))
	for _, start := range candidates {
		if start >= minAllowed {
			filtered = append(filtered, start)
		}
	}
	return filtered
}

// resolveSlots размечает кандидатов результатами запросов к индексу занятости,
// сохраняя порядок кандидатов
func resolveSlots(candidates []int, durationMinutes int, occupancy *scheduling.OccupancyIndex) ([]Slot, error) {
	slots := make([]Slot, 0, len(candidates))

	for _, start := range candidates {
		startTime, err := types.NewTimeStringFromMinutes(start)
		if err != nil {
			return nil, err
		}

		slot := Slot{
			StartTime:       startTime,
			DurationMinutes: durationMinutes,
			Available:       true,
		}

		if occ := occupancy.Overlaps(start, start+durationMinutes); occ != nil {
			slot.Available = false
			slot.ConflictReason = fmt.Sprintf("занято: %s", occ.Describe())
		}

		slots = append(slots, slot)
	}

	return slots, nil
}
