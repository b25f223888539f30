package validate_slot

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/scheduling"
	"github.com/m04kA/NutriClinic-SchedulingService/pkg/timewindow"
)

// Checker загружает из хранилищ данные, нужные для проверки одного слота,
// и запускает scheduling.ValidateSlot.
//
// Используется и usecase проверки слота, и оркестратором бронирования:
// внутри транзакции записи читаются с блокировкой FOR UPDATE.
type Checker struct {
	availabilityRepo AvailabilityRepository
	exclusionRepo    ExclusionRepository
	appointmentRepo  AppointmentRepository
}

// NewChecker создает проверку слотов
func NewChecker(
	availabilityRepo AvailabilityRepository,
	exclusionRepo ExclusionRepository,
	appointmentRepo AppointmentRepository,
) *Checker {
	return &Checker{
		availabilityRepo: availabilityRepo,
		exclusionRepo:    exclusionRepo,
		appointmentRepo:  appointmentRepo,
	}
}

// CheckInput параметры проверки слота
type CheckInput struct {
	Provider             *domain.Provider
	StartAt              time.Time
	DurationMinutes      int
	Now                  time.Time
	ExcludeAppointmentID *int64
}

// Check загружает окна дня недели, пересекающиеся исключения и записи и проверяет слот.
// Ошибка возвращается только для некорректного ввода или сбоя хранилища.
func (c *Checker) Check(ctx context.Context, in CheckInput) (scheduling.ValidationResult, error) {
	if in.DurationMinutes <= 0 {
		return scheduling.ValidationResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, scheduling.ErrInvalidDuration)
	}

	loc := in.Provider.Location
	span := timewindow.New(in.StartAt, in.DurationMinutes)
	weekday := domain.WeekdayOf(timewindow.LocalWeekday(in.StartAt, loc))

	windows, err := c.availabilityRepo.ListActiveByDay(ctx, in.Provider.ID, weekday)
	if err != nil {
		return scheduling.ValidationResult{}, fmt.Errorf("%w: failed to get availability windows: %w", ErrInternal, err)
	}

	exclusions, err := c.exclusionRepo.ListIntersecting(ctx, in.Provider.ID, span.Start, span.End)
	if err != nil {
		return scheduling.ValidationResult{}, fmt.Errorf("%w: failed to get exclusions: %w", ErrInternal, err)
	}

	lookup := scheduling.AppointmentLookup(span)
	appointments, err := c.appointmentRepo.ListByProvider(ctx, domain.AppointmentsFilter{
		ProviderID: in.Provider.ID,
		From:       &lookup.Start,
		To:         &lookup.End,
		ForUpdate:  true,
	})
	if err != nil {
		return scheduling.ValidationResult{}, fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
	}

	result, err := scheduling.ValidateSlot(scheduling.ValidateInput{
		StartAt:              in.StartAt,
		DurationMinutes:      in.DurationMinutes,
		Location:             loc,
		Now:                  in.Now,
		Windows:              windows,
		Exclusions:           exclusions,
		Appointments:         appointments,
		ExcludeAppointmentID: in.ExcludeAppointmentID,
	})
	if err != nil {
		return scheduling.ValidationResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	return result, nil
}
