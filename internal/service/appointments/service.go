package appointments

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/NutriClinic-SchedulingService/internal/infra/storage/appointment"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/service/appointments/models"
)

// Service сервис для работы с записями на прием
type Service struct {
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает запись по ID
// Запись видят её провайдер и её пациент
func (s *Service) GetByID(ctx context.Context, id int64, actorID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for actor=%d", id, actorID)

	appt, err := s.getAppointment(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if appt.ProviderID != actorID && appt.PatientID != actorID {
		s.logger.Warn("GetByID: access denied for actor=%d to appointment id=%d", actorID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainAppointment(appt), nil
}

// ListProviderAppointments получает записи провайдера с фильтрацией
// Поддерживает фильтрацию по периоду [From, To), статусу и включению отмененных
// Доступно только самому провайдеру
func (s *Service) ListProviderAppointments(ctx context.Context, req *models.ListProviderAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListProviderAppointments: provider=%d, actor=%d, status=%v, includeCancelled=%t",
		req.ProviderID, req.ActorID, req.Status, req.IncludeCancelled)

	if req.ProviderID != req.ActorID {
		s.logger.Warn("ListProviderAppointments: actor=%d is not provider=%d", req.ActorID, req.ProviderID)
		return nil, ErrAccessDenied
	}

	if req.From != nil && req.To != nil && !req.From.Before(*req.To) {
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidTimeRange)
	}

	filter := domain.AppointmentsFilter{
		ProviderID:       req.ProviderID,
		From:             req.From,
		To:               req.To,
		IncludeCancelled: req.IncludeCancelled,
	}
	if req.Status != nil {
		status, err := parseStatus(*req.Status)
		if err != nil {
			s.logger.Warn("ListProviderAppointments: %v", err)
			return nil, err
		}
		filter.Status = &status
	}

	list, err := s.appointmentRepo.ListByProvider(ctx, filter)
	if err != nil {
		s.logger.Error("ListProviderAppointments: repository error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: ListProviderAppointments - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("ListProviderAppointments: fetched %d appointments for provider=%d", len(list), req.ProviderID)
	return models.FromDomainAppointmentList(list), nil
}

// ListPatientAppointments получает историю записей пациента
// Опционально фильтрует по статусу
func (s *Service) ListPatientAppointments(ctx context.Context, req *models.ListPatientAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListPatientAppointments: patient=%d, actor=%d, status=%v", req.PatientID, req.ActorID, req.Status)

	if req.PatientID != req.ActorID {
		s.logger.Warn("ListPatientAppointments: actor=%d is not patient=%d", req.ActorID, req.PatientID)
		return nil, ErrAccessDenied
	}

	var status *domain.AppointmentStatus
	if req.Status != nil {
		parsed, err := parseStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		status = &parsed
	}

	list, err := s.appointmentRepo.ListByPatient(ctx, req.PatientID, status)
	if err != nil {
		s.logger.Error("ListPatientAppointments: repository error for patient=%d: %v", req.PatientID, err)
		return nil, fmt.Errorf("%w: ListPatientAppointments - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainAppointmentList(list), nil
}

// Cancel отменяет запись и освобождает её время
// Отменить может провайдер или пациент записи
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%d by actor=%d", id, req.ActorID)

	if req.CancellationReason != nil && utf8.RuneCountInString(*req.CancellationReason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellation reason too long (max %d characters)", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	var result *domain.Appointment
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Строка блокируется до конца транзакции
		appt, err := s.getAppointment(txCtx, "Cancel", id)
		if err != nil {
			return err
		}

		if appt.ProviderID != req.ActorID && appt.PatientID != req.ActorID {
			s.logger.Warn("Cancel: access denied for actor=%d to appointment id=%d", req.ActorID, id)
			return ErrAccessDenied
		}

		if !appt.CanBeCancelled() {
			s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", id, appt.Status)
			return ErrCannotCancel
		}

		now := s.timeProvider.Now()
		if err := s.appointmentRepo.Cancel(txCtx, id, req.CancellationReason, now); err != nil {
			return s.repositoryError("Cancel", id, err)
		}

		appt.Status = domain.StatusCancelled
		appt.CancellationReason = req.CancellationReason
		appt.CancelledAt = &now
		result = appt
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: appointment id=%d cancelled", id)
	return models.FromDomainAppointment(result), nil
}

// UpdateStatus меняет статус записи по таблице переходов
// Доступно только провайдеру записи
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s by actor=%d", id, req.Status, req.ActorID)

	newStatus, err := parseStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: %v", err)
		return nil, err
	}

	var result *domain.Appointment
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		appt, err := s.getAppointment(txCtx, "UpdateStatus", id)
		if err != nil {
			return err
		}

		if appt.ProviderID != req.ActorID {
			s.logger.Warn("UpdateStatus: actor=%d is not the provider of appointment id=%d", req.ActorID, id)
			return ErrAccessDenied
		}

		if !appt.Status.CanTransitionTo(newStatus) {
			s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for appointment id=%d", appt.Status, newStatus, id)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, newStatus)
		}

		// Отмена через смену статуса фиксирует время отмены
		if newStatus == domain.StatusCancelled {
			now := s.timeProvider.Now()
			if err := s.appointmentRepo.Cancel(txCtx, id, nil, now); err != nil {
				return s.repositoryError("UpdateStatus", id, err)
			}
			appt.CancelledAt = &now
		} else if err := s.appointmentRepo.UpdateStatus(txCtx, id, newStatus); err != nil {
			return s.repositoryError("UpdateStatus", id, err)
		}

		appt.Status = newStatus
		result = appt
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateStatus: appointment id=%d moved to status=%s", id, newStatus)
	return models.FromDomainAppointment(result), nil
}

// Вспомогательные методы

func (s *Service) getAppointment(ctx context.Context, op string, id int64) (*domain.Appointment, error) {
	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.repositoryError(op, id, err)
	}
	return appt, nil
}

func (s *Service) repositoryError(op string, id int64, err error) error {
	if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
		s.logger.Warn("%s: appointment id=%d not found", op, id)
		return ErrAppointmentNotFound
	}
	s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
}

func parseStatus(raw string) (domain.AppointmentStatus, error) {
	status, err := domain.ParseAppointmentStatus(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidStatus, err)
	}
	return status, nil
}
