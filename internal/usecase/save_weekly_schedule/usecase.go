package save_weekly_schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/scheduling"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/service/providers"
)

// maxWindowsPerWeek ограничение на размер расписания
const maxWindowsPerWeek = 7 * 24

// UseCase use case для сохранения недельного расписания провайдера
type UseCase struct {
	availabilityRepo AvailabilityRepository
	directory        ProviderDirectory
	txManager        TransactionManager
	metrics          Metrics
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	availabilityRepo AvailabilityRepository,
	directory ProviderDirectory,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		availabilityRepo: availabilityRepo,
		directory:        directory,
		txManager:        txManager,
		metrics:          metrics,
		logger:           logger,
	}
}

// Execute выполняет use case сохранения расписания.
// Сохранение отменяется целиком при первом найденном пересечении окон.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SaveWeeklySchedule: provider=%d, windows=%d", req.ProviderID, len(req.Windows))

	// 1. Валидация входных данных и каждого окна
	windows, err := buildWindows(req)
	if err != nil {
		uc.logger.Warn("SaveWeeklySchedule: validation failed: %v", err)
		uc.metrics.RecordScheduleSave("invalid")
		return nil, err
	}

	// 2. Проверка пересечений активных окон
	if conflict := scheduling.CheckOverlap(windows); conflict != nil {
		uc.logger.Warn("SaveWeeklySchedule: provider=%d: %v", req.ProviderID, conflict)
		uc.metrics.RecordScheduleSave("overlap")
		return nil, fmt.Errorf("%w: %w", ErrScheduleOverlap, conflict)
	}

	// 3. Проверяем существование провайдера
	if _, err := uc.directory.GetProvider(ctx, req.ProviderID); err != nil {
		if errors.Is(err, providers.ErrProviderNotFound) {
			uc.logger.Warn("SaveWeeklySchedule: provider id=%d not found", req.ProviderID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("SaveWeeklySchedule: failed to get provider id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %w", ErrInternal, err)
	}

	// 4. Заменяем окна провайдера в одной транзакции
	var saved []domain.AvailabilityWindow
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		result, err := uc.availabilityRepo.ReplaceForProvider(txCtx, req.ProviderID, windows)
		if err != nil {
			return err
		}
		saved = result
		return nil
	})
	if err != nil {
		uc.logger.Error("SaveWeeklySchedule: failed to save windows for provider=%d: %v", req.ProviderID, err)
		uc.metrics.RecordScheduleSave("error")
		return nil, fmt.Errorf("%w: failed to save windows: %w", ErrInternal, err)
	}

	uc.metrics.RecordScheduleSave("saved")
	uc.logger.Info("SaveWeeklySchedule: saved %d windows for provider=%d", len(saved), req.ProviderID)

	return &Response{
		ProviderID: req.ProviderID,
		Windows:    saved,
	}, nil
}

// buildWindows валидирует запрос и переводит окна в доменную модель
func buildWindows(req *Request) ([]domain.AvailabilityWindow, error) {
	if req.ProviderID <= 0 {
		return nil, fmt.Errorf("%w: providerID must be positive", ErrInvalidInput)
	}
	if len(req.Windows) > maxWindowsPerWeek {
		return nil, fmt.Errorf("%w: too many windows (max %d)", ErrInvalidInput, maxWindowsPerWeek)
	}

	windows := make([]domain.AvailabilityWindow, 0, len(req.Windows))
	for i, w := range req.Windows {
		window := domain.AvailabilityWindow{
			ProviderID: req.ProviderID,
			DayOfWeek:  w.DayOfWeek,
			StartTime:  w.StartTime,
			EndTime:    w.EndTime,
			Active:     w.Active,
		}
		if err := scheduling.ValidateWindow(window); err != nil {
			return nil, fmt.Errorf("%w: window #%d: %w", ErrInvalidInput, i+1, err)
		}
		windows = append(windows, window)
	}

	return windows, nil
}
