package public_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
	patientClient "github.com/m04kA/NutriClinic-SchedulingService/internal/integrations/patientservice"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/service/providers"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/usecase/book_appointment"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/usecase/validate_slot"
)

// UseCase use case публичной записи на прием со страницы организации
type UseCase struct {
	directory        ProviderDirectory
	checker          SlotChecker
	patientClient    PatientServiceClient
	booker           Booker
	offeredDurations []int
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	directory ProviderDirectory,
	checker SlotChecker,
	patientClient PatientServiceClient,
	booker Booker,
	offeredDurations []int,
	logger Logger,
) *UseCase {
	return &UseCase{
		directory:        directory,
		checker:          checker,
		patientClient:    patientClient,
		booker:           booker,
		offeredDurations: offeredDurations,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет публичную запись.
// Слот проверяется до создания пациента, окончательная проверка выполняется оркестратором бронирования.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("PublicBooking: organization=%d, provider=%d, start=%s, duration=%d",
		req.OrganizationID, req.ProviderID, req.StartAt.Format(time.RFC3339), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.offeredDurations); err != nil {
		uc.logger.Warn("PublicBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Провайдер должен состоять в организации и принимать публичную запись
	provider, err := uc.directory.GetProvider(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, providers.ErrProviderNotFound) {
			uc.logger.Warn("PublicBooking: provider id=%d not found", req.ProviderID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("PublicBooking: failed to get provider id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %w", ErrInternal, err)
	}
	if !provider.BelongsTo(req.OrganizationID) {
		uc.logger.Warn("PublicBooking: provider id=%d is not listed in organization id=%d", req.ProviderID, req.OrganizationID)
		return nil, ErrProviderNotFound
	}
	if !provider.AcceptsPublicBooking {
		uc.logger.Warn("PublicBooking: provider id=%d does not accept public booking", req.ProviderID)
		return nil, ErrPublicBookingDisabled
	}

	// 3. Предварительная проверка слота, чтобы не создавать пациента для заведомо занятого времени
	result, err := uc.checker.Check(ctx, validate_slot.CheckInput{
		Provider:        provider,
		StartAt:         req.StartAt,
		DurationMinutes: req.DurationMinutes,
		Now:             uc.timeProvider.Now(),
	})
	if err != nil {
		if errors.Is(err, validate_slot.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		uc.logger.Error("PublicBooking: slot check failed: %v", err)
		return nil, fmt.Errorf("%w: slot check failed: %w", ErrInternal, err)
	}
	if !result.Valid {
		uc.logger.Warn("PublicBooking: slot rejected for provider=%d at %s: %s",
			req.ProviderID, req.StartAt.Format(time.RFC3339), result.Reason)
		return nil, result.Err()
	}

	// 4. Находим или создаем пациента
	patient, err := uc.patientClient.FindOrCreate(ctx, patientClient.FindOrCreateRequest{
		OrganizationID: req.OrganizationID,
		FullName:       strings.TrimSpace(req.Visitor.FullName),
		Email:          req.Visitor.Email,
		Phone:          req.Visitor.Phone,
	})
	if err != nil {
		if errors.Is(err, patientClient.ErrInvalidPatientData) {
			uc.logger.Warn("PublicBooking: patient data rejected: %v", err)
			return nil, fmt.Errorf("%w: %w", ErrInvalidPatientData, err)
		}
		uc.logger.Error("PublicBooking: failed to find or create patient: %v", err)
		return nil, fmt.Errorf("%w: failed to find or create patient: %w", ErrInternal, err)
	}

	// 5. Бронируем тем же оркестратором, что и провайдер
	booked, err := uc.booker.Execute(ctx, &book_appointment.Request{
		ProviderID:      req.ProviderID,
		PatientID:       patient.ID,
		StartAt:         req.StartAt,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
		Source:          domain.SourcePublic,
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("PublicBooking: appointment id=%d created for patient=%d", booked.ID, booked.PatientID)

	return &Response{
		AppointmentID:   booked.ID,
		ProviderID:      booked.ProviderID,
		PatientID:       booked.PatientID,
		ScheduledAt:     booked.ScheduledAt,
		EndsAt:          booked.EndsAt,
		DurationMinutes: booked.DurationMinutes,
		Status:          booked.Status,
	}, nil
}
