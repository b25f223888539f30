package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/scheduling"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/service/providers"
)

// UseCase use case для получения слотов провайдера на дату
type UseCase struct {
	availabilityRepo AvailabilityRepository
	exclusionRepo    ExclusionRepository
	appointmentRepo  AppointmentRepository
	directory        ProviderDirectory
	txManager        TransactionManager
	metrics          Metrics
	offeredDurations []int
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case.
// Пустой offeredDurations снимает ограничение на длительность.
func NewUseCase(
	availabilityRepo AvailabilityRepository,
	exclusionRepo ExclusionRepository,
	appointmentRepo AppointmentRepository,
	directory ProviderDirectory,
	txManager TransactionManager,
	metrics Metrics,
	offeredDurations []int,
	logger Logger,
) *UseCase {
	return &UseCase{
		availabilityRepo: availabilityRepo,
		exclusionRepo:    exclusionRepo,
		appointmentRepo:  appointmentRepo,
		directory:        directory,
		txManager:        txManager,
		metrics:          metrics,
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

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: provider=%d, date=%s, duration=%d",
		req.ProviderID, req.Date.Format(domain.DateFormat), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.offeredDurations); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем провайдера и его часовой пояс
	provider, err := uc.directory.GetProvider(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, providers.ErrProviderNotFound) {
			uc.logger.Warn("GetAvailableSlots: provider id=%d not found", req.ProviderID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get provider id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %w", ErrInternal, err)
	}

	// 3.1. Для публичного листинга провайдер должен состоять в организации и принимать запись
	if req.OrganizationID != 0 {
		if !provider.BelongsTo(req.OrganizationID) {
			uc.logger.Warn("GetAvailableSlots: provider id=%d is not in organization=%d", req.ProviderID, req.OrganizationID)
			return nil, ErrProviderNotFound
		}
		if !provider.AcceptsPublicBooking {
			uc.logger.Warn("GetAvailableSlots: provider id=%d does not accept public booking", req.ProviderID)
			return nil, ErrPublicBookingDisabled
		}
	}

	resp := &Response{
		ProviderID:      req.ProviderID,
		Date:            req.Date,
		DurationMinutes: req.DurationMinutes,
		Timezone:        provider.Location.String(),
		Location:        provider.Location,
		Slots:           []domain.Slot{},
	}

	// 4. Читаем окна, исключения и записи в одной read-only транзакции
	var (
		windows      []domain.AvailabilityWindow
		exclusions   []domain.ExclusionBlock
		appointments []domain.Appointment
	)
	err = uc.txManager.DoReadOnly(ctx, func(ctx context.Context) error {
		var err error
		windows, exclusions, appointments, err = uc.loadDay(ctx, req, provider)
		return err
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to load schedule data for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	if len(windows) == 0 {
		uc.logger.Info("GetAvailableSlots: provider=%d has no availability on %s",
			req.ProviderID, domain.WeekdayOf(req.Date.Weekday()))
		return resp, nil
	}
	resp.HasAvailability = true

	// 5. Генерируем слоты
	slots, err := scheduling.GenerateSlots(scheduling.GenerateInput{
		Date:            req.Date,
		Location:        provider.Location,
		DurationMinutes: req.DurationMinutes,
		Now:             now,
		Windows:         windows,
		Exclusions:      exclusions,
		Appointments:    appointments,
	})
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	resp.Slots = slots

	counts := domain.CountByReason(slots)
	for reason, count := range counts {
		uc.metrics.RecordSlots(reasonLabel(reason), count)
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots (%d available) for provider=%d, date=%s",
		len(slots), counts[domain.SlotReasonNone], req.ProviderID, req.Date.Format(domain.DateFormat))

	return resp, nil
}

// loadDay загружает активные окна дня недели, исключения и записи, которые могут пересечься
// с сутками провайдера. Если окон нет, исключения и записи не читаются.
func (uc *UseCase) loadDay(
	ctx context.Context,
	req *Request,
	provider *domain.Provider,
) ([]domain.AvailabilityWindow, []domain.ExclusionBlock, []domain.Appointment, error) {
	weekday := domain.WeekdayOf(req.Date.Weekday())
	windows, err := uc.availabilityRepo.ListActiveByDay(ctx, req.ProviderID, weekday)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get availability windows: %w", err)
	}
	if len(windows) == 0 {
		return nil, nil, nil, nil
	}

	day := scheduling.DayRange(req.Date, provider.Location)

	exclusions, err := uc.exclusionRepo.ListIntersecting(ctx, req.ProviderID, day.Start, day.End)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get exclusions: %w", err)
	}

	lookup := scheduling.AppointmentLookup(day)
	appointments, err := uc.appointmentRepo.ListByProvider(ctx, domain.AppointmentsFilter{
		ProviderID: req.ProviderID,
		From:       &lookup.Start,
		To:         &lookup.End,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get appointments: %w", err)
	}

	return windows, exclusions, appointments, nil
}

func reasonLabel(reason domain.SlotReason) string {
	if reason == domain.SlotReasonNone {
		return "available"
	}
	return string(reason)
}
