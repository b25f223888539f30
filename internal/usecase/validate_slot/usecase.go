package validate_slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/service/providers"
	"github.com/m04kA/NutriClinic-SchedulingService/pkg/ptr"
)

// UseCase use case для повторной проверки выбранного слота
type UseCase struct {
	checker      *Checker
	directory    ProviderDirectory
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	checker *Checker,
	directory ProviderDirectory,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		checker:      checker,
		directory:    directory,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет проверку слота
// Результат "недоступен" - ожидаемый исход, он возвращается в Response, а не как ошибка
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ValidateSlot: provider=%d, start=%s, duration=%d, exclude=%v",
		req.ProviderID, req.StartAt.Format(time.RFC3339), req.DurationMinutes, ptr.Value(req.ExcludeAppointmentID))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ValidateSlot: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем провайдера и его часовой пояс
	provider, err := uc.directory.GetProvider(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, providers.ErrProviderNotFound) {
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("ValidateSlot: failed to get provider id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %w", ErrInternal, err)
	}

	// 3. Проверяем слот на актуальных данных
	result, err := uc.checker.Check(ctx, CheckInput{
		Provider:             provider,
		StartAt:              req.StartAt,
		DurationMinutes:      req.DurationMinutes,
		Now:                  uc.timeProvider.Now(),
		ExcludeAppointmentID: req.ExcludeAppointmentID,
	})
	if err != nil {
		uc.logger.Error("ValidateSlot: check failed for provider=%d: %v", req.ProviderID, err)
		return nil, err
	}

	outcome := "valid"
	if !result.Valid {
		outcome = string(result.Reason)
	}
	uc.metrics.RecordSlotValidation(outcome)
	uc.logger.Info("ValidateSlot: provider=%d, start=%s, result=%s",
		req.ProviderID, req.StartAt.Format(time.RFC3339), outcome)

	resp := &Response{
		ProviderID:      req.ProviderID,
		StartAt:         req.StartAt,
		EndAt:           req.StartAt.Add(time.Duration(req.DurationMinutes) * time.Minute),
		DurationMinutes: req.DurationMinutes,
		Valid:           result.Valid,
		Reason:          result.Reason,
		BlockTitle:      result.BlockTitle,
	}
	if result.Reason == domain.SlotReasonOccupied {
		resp.ConflictingAppointmentID = ptr.Ptr(result.ConflictingAppointmentID)
	}

	return resp, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ProviderID <= 0 {
		return fmt.Errorf("%w: providerID must be positive", ErrInvalidInput)
	}
	if req.StartAt.IsZero() {
		return fmt.Errorf("%w: start time is required", ErrInvalidInput)
	}
	if req.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}
	if req.ExcludeAppointmentID != nil && *req.ExcludeAppointmentID <= 0 {
		return fmt.Errorf("%w: excludeAppointmentID must be positive", ErrInvalidInput)
	}
	return nil
}
