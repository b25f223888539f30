package scheduling

import (
	"time"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
	"github.com/m04kA/NutriClinic-SchedulingService/pkg/timewindow"
)

// ValidateInput входные данные проверки конкретного слота
type ValidateInput struct {
	StartAt         time.Time
	DurationMinutes int
	Location        *time.Location // Часовой пояс провайдера, nil = UTC
	Now             time.Time

	Windows      []domain.AvailabilityWindow
	Exclusions   []domain.ExclusionBlock
	Appointments []domain.Appointment

	ExcludeAppointmentID *int64 // Запись, которая не считается занятостью (перенос самой себя)
}

// ValidationResult структурированный результат проверки слота
type ValidationResult struct {
	Valid                    bool
	Reason                   domain.SlotReason
	BlockTitle               string
	ConflictingAppointmentID int64
}

// Err возвращает nil для валидного результата, иначе *SlotUnavailableError
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return &SlotUnavailableError{
		Reason:                   r.Reason,
		BlockTitle:               r.BlockTitle,
		ConflictingAppointmentID: r.ConflictingAppointmentID,
	}
}

// ValidateSlot повторно проверяет выбранный слот. Проверки идут по порядку и
// останавливаются на первой неудаче:
//  1. слот не в прошлом;
//  2. есть активное окно дня недели, полностью содержащее слот;
//  3. слот не пересекается с блоком исключения;
//  4. слот не пересекается с другой неотмененной записью (кроме ExcludeAppointmentID).
//
// Ошибка возвращается только для некорректного ввода.
func ValidateSlot(in ValidateInput) (ValidationResult, error) {
	if in.DurationMinutes <= 0 {
		return ValidationResult{}, ErrInvalidDuration
	}
	if in.StartAt.IsZero() {
		return ValidationResult{}, ErrInvalidStart
	}

	span := timewindow.New(in.StartAt, in.DurationMinutes)

	if span.Start.Before(in.Now) {
		return ValidationResult{Reason: domain.SlotReasonPastTime}, nil
	}

	if !coveredByWindow(span, in.Windows, locationOrUTC(in.Location)) {
		return ValidationResult{Reason: domain.SlotReasonNoAvailability}, nil
	}

	if block := firstBlocking(span, in.Exclusions); block != nil {
		return ValidationResult{Reason: domain.SlotReasonBlocked, BlockTitle: block.Title}, nil
	}

	if appt := firstOccupying(span, in.Appointments, in.ExcludeAppointmentID); appt != nil {
		return ValidationResult{Reason: domain.SlotReasonOccupied, ConflictingAppointmentID: appt.ID}, nil
	}

	return ValidationResult{Valid: true}, nil
}

// coveredByWindow проверяет, что слот целиком лежит в одном активном окне
// дня недели, определенного по локальной дате начала слота
func coveredByWindow(span timewindow.Interval, windows []domain.AvailabilityWindow, loc *time.Location) bool {
	localStart := span.Start.In(loc)
	weekday := domain.WeekdayOf(localStart.Weekday())

	for _, w := range activeWindowsFor(windows, weekday) {
		windowSpan := timewindow.WallClockSpan(localStart, w.StartTime, w.EndTime, loc)
		if windowSpan.Contains(span) {
			return true
		}
	}
	return false
}
