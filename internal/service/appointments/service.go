package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/sharpcut/SC-SchedulingService/internal/domain"
	appointmentRepo "github.com/sharpcut/SC-SchedulingService/internal/infra/storage/appointment"
	catalogClient "github.com/sharpcut/SC-SchedulingService/internal/integrations/catalogservice"
	"github.com/sharpcut/SC-SchedulingService/internal/service/appointments/models"
)

// Service сервис для работы с записями
type Service struct {
	appointmentRepo AppointmentRepository
	catalogClient   CatalogServiceClient
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	catalogClient CatalogServiceClient,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		catalogClient:   catalogClient,
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Проверяет права доступа - клиент видит только свою запись,
// барбер - записи своего календаря
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, userID)

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if err := s.checkUserAccess(ctx, appt, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appt), nil
}

// GetCustomerAppointments получает историю записей клиента
// Опционально фильтрует по статусу
func (s *Service) GetCustomerAppointments(ctx context.Context, req *models.GetCustomerAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetCustomerAppointments: fetching appointments for user=%d, status=%v", req.UserID, req.Status)

	// Конвертируем статус из строки в domain.AppointmentStatus
	var domainStatus *domain.AppointmentStatus
	if req.Status != nil {
		status, err := models.ToDomainAppointmentStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerAppointments: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	appointments, err := s.appointmentRepo.GetByCustomer(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetCustomerAppointments: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetCustomerAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerAppointments: successfully fetched %d appointments for user=%d", len(appointments), req.UserID)
	return models.FromDomainAppointmentList(appointments), nil
}

// GetBarberDay получает календарь барбера с гибкой фильтрацией
// Поддерживает фильтрацию по дате, статусу и включению неактивных записей
// Доступно только самому барберу
func (s *Service) GetBarberDay(ctx context.Context, req *models.GetBarberDayRequest) (*models.AppointmentListResponse, error) {
	logMsg := fmt.Sprintf("GetBarberDay: fetching appointments for barber=%d, user=%d", req.BarberID, req.UserID)
	if req.Date != nil {
		logMsg += fmt.Sprintf(", date=%s", req.Date.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	// Проверяем права доступа барбера
	if err := s.checkBarberAccess(ctx, req.BarberID, req.UserID); err != nil {
		return nil, err
	}

	// Конвертируем request в domain фильтр
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetBarberDay: invalid filter for barber=%d: %v", req.BarberID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.GetByBarberWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetBarberDay: repository error for barber=%d: %v", req.BarberID, err)
		return nil, fmt.Errorf("%w: GetBarberDay - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBarberDay: successfully fetched %d appointments for barber=%d", len(appointments), req.BarberID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись
// Клиент может отменить только свою запись, барбер - любую запись
// своего календаря. Отмена освобождает слот для новых бронирований.
func (s *Service) Cancel(ctx context.Context, appointmentID int64, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", appointmentID, req.UserID)

	// Получаем запись
	appt, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Проверяем, можно ли отменить запись
	if !appt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", appointmentID, appt.Status)
		return ErrCannotCancel
	}

	// Проверяем права доступа: владелец записи или барбер
	if appt.CustomerUserID != req.UserID {
		if err := s.checkBarberAccess(ctx, appt.BarberID, req.UserID); err != nil {
			s.logger.Warn("Cancel: access denied for user=%d to cancel appointment id=%d", req.UserID, appointmentID)
			return ErrAccessDenied
		}
	}

	// Отменяем запись
	if err := s.appointmentRepo.Cancel(ctx, appointmentID, req.CancellationReason); err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
			s.logger.Warn("Cancel: appointment id=%d not found during cancellation", appointmentID)
			return ErrAppointmentNotFound
		case errors.Is(err, appointmentRepo.ErrCannotCancel):
			s.logger.Warn("Cancel: appointment id=%d changed status during cancellation", appointmentID)
			return ErrCannotCancel
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", appointmentID)
	return nil
}

// MarkCompleted помечает запись завершенной
// Доступно только барберу; завершенная запись продолжает занимать время в календаре
func (s *Service) MarkCompleted(ctx context.Context, appointmentID int64, userID int64) error {
	return s.updateStatusAsBarber(ctx, appointmentID, userID, domain.StatusCompleted)
}

// MarkNoShow помечает запись как неявку клиента
// Доступно только барберу; неявка освобождает слот в календаре
func (s *Service) MarkNoShow(ctx context.Context, appointmentID int64, userID int64) error {
	return s.updateStatusAsBarber(ctx, appointmentID, userID, domain.StatusNoShow)
}

func (s *Service) updateStatusAsBarber(ctx context.Context, appointmentID int64, userID int64, status domain.AppointmentStatus) error {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s by user=%d",
		appointmentID, status, userID)

	appt, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d not found", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа (только барбер)
	if err := s.checkBarberAccess(ctx, appt.BarberID, userID); err != nil {
		return err
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, appointmentID, status); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d not found during update", appointmentID)
			return ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated appointment id=%d to status=%s", appointmentID, status)
	return nil
}

// Вспомогательные методы

// checkUserAccess проверяет, что пользователь имеет доступ к записи
// Пользователь видит свою запись, барбер - записи своего календаря
func (s *Service) checkUserAccess(ctx context.Context, appt *domain.Appointment, userID int64) error {
	// Если пользователь владелец записи - доступ разрешён
	if appt.CustomerUserID == userID {
		return nil
	}

	// Проверяем, является ли пользователь барбером этой записи
	if err := s.checkBarberAccess(ctx, appt.BarberID, userID); err != nil {
		// Ошибка уже залогирована в checkBarberAccess
		return ErrAccessDenied
	}

	return nil
}

// checkBarberAccess проверяет, что пользователь является барбером календаря
func (s *Service) checkBarberAccess(ctx context.Context, barberID int64, userID int64) error {
	// Получаем барбера через CatalogService
	barber, err := s.catalogClient.GetBarber(ctx, barberID)
	if err != nil {
		// Неактивный барбер сохраняет доступ к своему календарю
		if !errors.Is(err, catalogClient.ErrBarberInactive) {
			if errors.Is(err, catalogClient.ErrBarberNotFound) {
				s.logger.Warn("checkBarberAccess: barber id=%d not found", barberID)
				return ErrBarberNotFound
			}
			s.logger.Error("checkBarberAccess: failed to get barber id=%d: %v", barberID, err)
			return fmt.Errorf("%w: checkBarberAccess - failed to get barber: %v", ErrInternal, err)
		}
	}

	if barber != nil && barber.StaffUserID == userID {
		s.logger.Info("checkBarberAccess: user=%d owns calendar of barber=%d", userID, barberID)
		return nil
	}

	s.logger.Warn("checkBarberAccess: user=%d has no access to calendar of barber=%d", userID, barberID)
	return ErrAccessDenied
}
