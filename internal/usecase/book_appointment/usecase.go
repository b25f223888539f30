package book_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/NutriClinic-SchedulingService/internal/infra/storage/appointment"
	patientClient "github.com/m04kA/NutriClinic-SchedulingService/internal/integrations/patientservice"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/scheduling"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/service/providers"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/usecase/validate_slot"
	"github.com/m04kA/NutriClinic-SchedulingService/pkg/txmanager"
)

const outcomeCreated = "created"

// UseCase use case для записи пациента на прием.
// Общий для записи провайдером и публичной записи.
type UseCase struct {
	appointmentRepo        AppointmentRepository
	checker                SlotChecker
	directory              ProviderDirectory
	patientClient          PatientServiceClient
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
	patientClient PatientServiceClient,
	txManager TransactionManager,
	metrics Metrics,
	maxAppointmentDurationMinutes int,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo:        appointmentRepo,
		checker:                checker,
		directory:              directory,
		patientClient:          patientClient,
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

// Execute выполняет use case записи на прием
// Проверка слота и вставка выполняются в одной сериализуемой транзакции:
// либо запись создана, либо в БД ничего не изменилось.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookAppointment: provider=%d, patient=%d, start=%s, duration=%d, source=%s",
		req.ProviderID, req.PatientID, req.StartAt.Format(time.RFC3339), req.DurationMinutes, req.Source)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.maxAppointmentDuration); err != nil {
		uc.logger.Warn("BookAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем провайдера и его часовой пояс
	provider, err := uc.directory.GetProvider(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, providers.ErrProviderNotFound) {
			uc.logger.Warn("BookAppointment: provider id=%d not found", req.ProviderID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("BookAppointment: failed to get provider id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %w", ErrInternal, err)
	}

	// 4. Проверяем пациента
	patient, err := uc.patientClient.GetPatient(ctx, req.PatientID)
	if err != nil {
		if errors.Is(err, patientClient.ErrPatientNotFound) {
			uc.logger.Warn("BookAppointment: patient id=%d not found", req.PatientID)
			return nil, ErrPatientNotFound
		}
		uc.logger.Error("BookAppointment: failed to get patient id=%d: %v", req.PatientID, err)
		return nil, fmt.Errorf("%w: failed to get patient: %w", ErrInternal, err)
	}
	if patient.OrganizationID != 0 && !provider.BelongsTo(patient.OrganizationID) {
		uc.logger.Warn("BookAppointment: patient id=%d (org=%d) and provider id=%d (org=%d) are in different organizations",
			patient.ID, patient.OrganizationID, provider.ID, provider.OrganizationID)
		return nil, ErrPatientOrganizationMismatch
	}

	var created *domain.Appointment

	// 5. Повторная проверка слота и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Проверяем слот на данных, прочитанных в транзакции (записи блокируются FOR UPDATE)
		result, err := uc.checker.Check(txCtx, validate_slot.CheckInput{
			Provider:        provider,
			StartAt:         req.StartAt,
			DurationMinutes: req.DurationMinutes,
			Now:             now,
		})
		if err != nil {
			if errors.Is(err, validate_slot.ErrInvalidInput) {
				return fmt.Errorf("%w: %w", ErrInvalidInput, err)
			}
			return fmt.Errorf("%w: slot check failed: %w", ErrInternal, err)
		}

		if !result.Valid {
			uc.logger.Warn("BookAppointment: slot rejected for provider=%d at %s: %s",
				req.ProviderID, req.StartAt.Format(time.RFC3339), result.Reason)
			return result.Err()
		}

		// 5.2. Создаем запись
		appt, err := uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			ProviderID:      req.ProviderID,
			PatientID:       req.PatientID,
			ScheduledAt:     req.StartAt,
			DurationMinutes: req.DurationMinutes,
			Status:          domain.StatusScheduled,
			Source:          req.Source,
			Notes:           req.Notes,
		})
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotNotAvailable) {
				uc.logger.Warn("BookAppointment: concurrent booking took provider=%d at %s",
					req.ProviderID, req.StartAt.Format(time.RFC3339))
				return &scheduling.SlotUnavailableError{Reason: domain.SlotReasonOccupied}
			}
			return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}

		created = appt
		return nil
	})

	if err != nil {
		return nil, uc.handleTxError(req, err)
	}

	uc.metrics.RecordBooking(string(req.Source), outcomeCreated)
	uc.logger.Info("BookAppointment: created appointment id=%d for provider=%d, patient=%d at %s",
		created.ID, created.ProviderID, created.PatientID, created.ScheduledAt.Format(time.RFC3339))

	return toResponse(created), nil
}

// handleTxError приводит ошибку транзакции к ошибкам use case и пишет метрику исхода
func (uc *UseCase) handleTxError(req *Request, err error) error {
	// Конфликт сериализации, не разрешившийся повторами, означает, что слот заняли параллельно
	if errors.Is(err, txmanager.ErrRetriesExhausted) {
		uc.logger.Warn("BookAppointment: serialization retries exhausted for provider=%d: %v", req.ProviderID, err)
		err = &scheduling.SlotUnavailableError{Reason: domain.SlotReasonOccupied}
	}

	var unavailable *scheduling.SlotUnavailableError
	if errors.As(err, &unavailable) {
		uc.metrics.RecordBooking(string(req.Source), string(unavailable.Reason))
		return unavailable
	}

	uc.metrics.RecordBooking(string(req.Source), "error")
	if errors.Is(err, ErrInvalidInput) {
		uc.logger.Warn("BookAppointment: %v", err)
		return err
	}

	uc.logger.Error("BookAppointment: transaction failed for provider=%d: %v", req.ProviderID, err)
	if errors.Is(err, ErrInternal) {
		return err
	}
	return fmt.Errorf("%w: transaction failed: %w", ErrInternal, err)
}
