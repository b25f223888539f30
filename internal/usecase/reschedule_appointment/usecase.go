package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/NutriClinic-SchedulingService/internal/infra/storage/appointment"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/scheduling"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/service/providers"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/usecase/validate_slot"
	"github.com/m04kA/NutriClinic-SchedulingService/pkg/txmanager"
)

const metricsSource = "reschedule"

// UseCase use case для переноса записи на другое время
type UseCase struct {
	appointmentRepo        AppointmentRepository
	checker                SlotChecker
	directory              ProviderDirectory
	txManager              TransactionManager
	metrics                Metrics
	maxAppointmentDuration int
	timeProvider           TimeProvider
	logger                 Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	checker SlotChecker,
	directory ProviderDirectory,
	txManager TransactionManager,
	metrics Metrics,
	maxAppointmentDurationMinutes int,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo:        appointmentRepo,
		checker:                checker,
		directory:              directory,
		txManager:              txManager,
		metrics:                metrics,
		maxAppointmentDuration: maxAppointmentDurationMinutes,
		timeProvider:           &RealTimeProvider{},
		logger:                 logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет перенос записи.
// Новый интервал проверяется без учета самой переносимой записи,
// поэтому сдвиг внутри собственного времени не считается конфликтом.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleAppointment: appointment=%d, actor=%d, start=%s, duration=%d",
		req.AppointmentID, req.ActorID, req.StartAt.Format(time.RFC3339), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := uc.validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем запись и проверяем права
	current, err := uc.loadAppointment(ctx, req)
	if err != nil {
		return nil, err
	}

	// 3. Получаем часовой пояс провайдера
	provider, err := uc.directory.GetProvider(ctx, current.ProviderID)
	if err != nil {
		if errors.Is(err, providers.ErrProviderNotFound) {
			uc.logger.Warn("RescheduleAppointment: provider id=%d not found", current.ProviderID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("RescheduleAppointment: failed to get provider id=%d: %v", current.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %w", ErrInternal, err)
	}

	now := uc.timeProvider.Now()
	var updated domain.Appointment

	// 4. Повторная проверка и перенос в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Перечитываем запись с блокировкой: статус мог измениться
		appt, err := uc.loadAppointment(txCtx, req)
		if err != nil {
			return err
		}

		duration := req.DurationMinutes
		if duration == 0 {
			duration = appt.DurationMinutes
		}

		// 4.2. Проверяем новый интервал, исключая саму запись
		result, err := uc.checker.Check(txCtx, validate_slot.CheckInput{
			Provider:             provider,
			StartAt:              req.StartAt,
			DurationMinutes:      duration,
			Now:                  now,
			ExcludeAppointmentID: &appt.ID,
		})
		if err != nil {
			if errors.Is(err, validate_slot.ErrInvalidInput) {
				return fmt.Errorf("%w: %w", ErrInvalidInput, err)
			}
			return fmt.Errorf("%w: slot check failed: %w", ErrInternal, err)
		}
		if !result.Valid {
			uc.logger.Warn("RescheduleAppointment: slot rejected for appointment=%d: %s", appt.ID, result.Reason)
			return result.Err()
		}

		// 4.3. Переносим
		if err := uc.appointmentRepo.Reschedule(txCtx, appt.ID, req.StartAt, duration); err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotNotAvailable) {
				return &scheduling.SlotUnavailableError{Reason: domain.SlotReasonOccupied}
			}
			return fmt.Errorf("%w: failed to reschedule: %w", ErrInternal, err)
		}

		updated = *appt
		updated.ScheduledAt = req.StartAt
		updated.DurationMinutes = duration
		return nil
	})
	if err != nil {
		return nil, uc.handleTxError(req, err)
	}

	uc.metrics.RecordBooking(metricsSource, "rescheduled")
	uc.logger.Info("RescheduleAppointment: appointment=%d moved from %s to %s",
		updated.ID, current.ScheduledAt.Format(time.RFC3339), updated.ScheduledAt.Format(time.RFC3339))

	return &Response{
		ID:              updated.ID,
		ProviderID:      updated.ProviderID,
		PatientID:       updated.PatientID,
		ScheduledAt:     updated.ScheduledAt,
		EndsAt:          updated.EndsAt(),
		DurationMinutes: updated.DurationMinutes,
		Status:          updated.Status,
		PreviousStartAt: current.ScheduledAt,
	}, nil
}

// loadAppointment получает запись и проверяет, что её можно переносить
func (uc *UseCase) loadAppointment(ctx context.Context, req *Request) (*domain.Appointment, error) {
	appt, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("RescheduleAppointment: appointment id=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("RescheduleAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %w", ErrInternal, err)
	}

	if appt.ProviderID != req.ActorID {
		uc.logger.Warn("RescheduleAppointment: actor=%d is not the provider of appointment id=%d", req.ActorID, appt.ID)
		return nil, ErrAccessDenied
	}

	if !appt.CanBeRescheduled() {
		uc.logger.Warn("RescheduleAppointment: appointment id=%d has status=%s", appt.ID, appt.Status)
		return nil, fmt.Errorf("%w: status %s", ErrCannotReschedule, appt.Status)
	}

	return appt, nil
}

// validateRequest валидирует входные данные запроса
func (uc *UseCase) validateRequest(req *Request) error {
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}
	if req.ActorID <= 0 {
		return fmt.Errorf("%w: actorID must be positive", ErrInvalidInput)
	}
	if req.StartAt.IsZero() {
		return fmt.Errorf("%w: start time is required", ErrInvalidInput)
	}
	if req.DurationMinutes < 0 || req.DurationMinutes > uc.maxAppointmentDuration {
		return fmt.Errorf("%w: duration must be in range 1..%d minutes", ErrInvalidInput, uc.maxAppointmentDuration)
	}
	return nil
}

// handleTxError приводит ошибку транзакции к ошибкам use case
func (uc *UseCase) handleTxError(req *Request, err error) error {
	if errors.Is(err, txmanager.ErrRetriesExhausted) {
		uc.logger.Warn("RescheduleAppointment: serialization retries exhausted for appointment=%d: %v", req.AppointmentID, err)
		err = &scheduling.SlotUnavailableError{Reason: domain.SlotReasonOccupied}
	}

	var unavailable *scheduling.SlotUnavailableError
	if errors.As(err, &unavailable) {
		uc.metrics.RecordBooking(metricsSource, string(unavailable.Reason))
		return unavailable
	}

	switch {
	case errors.Is(err, ErrAppointmentNotFound),
		errors.Is(err, ErrAccessDenied),
		errors.Is(err, ErrCannotReschedule),
		errors.Is(err, ErrInvalidInput):
		return err
	case errors.Is(err, ErrInternal):
		uc.logger.Error("RescheduleAppointment: appointment=%d: %v", req.AppointmentID, err)
		return err
	default:
		uc.logger.Error("RescheduleAppointment: transaction failed for appointment=%d: %v", req.AppointmentID, err)
		return fmt.Errorf("%w: transaction failed: %w", ErrInternal, err)
	}
}
