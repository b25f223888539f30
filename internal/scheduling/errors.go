package scheduling

import (
	"errors"
	"fmt"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
)

var (
	// ErrInvalidDuration возвращается, когда длительность не положительна
	ErrInvalidDuration = errors.New("scheduling: duration must be a positive number of minutes")

	// ErrInvalidStart возвращается, когда не задано время начала слота
	ErrInvalidStart = errors.New("scheduling: start instant is required")

	// ErrInvalidWeekday возвращается для дня недели вне диапазона 0-6
	ErrInvalidWeekday = errors.New("scheduling: day of week must be in range 0..6")

	// ErrInvalidWindow возвращается, когда окно доступности имеет start >= end
	ErrInvalidWindow = errors.New("scheduling: window start must be before end")

	// ErrPastTime слот начинается в прошлом
	ErrPastTime = errors.New("scheduling: slot starts in the past")

	// ErrNoAvailability нет активного окна доступности, покрывающего слот
	ErrNoAvailability = errors.New("scheduling: no availability for the requested time")

	// ErrBlocked слот пересекается с блоком исключения
	ErrBlocked = errors.New("scheduling: slot is blocked")

	// ErrOccupied слот пересекается с другой записью
	ErrOccupied = errors.New("scheduling: slot is occupied")
)

// SlotUnavailableError describes why a concrete slot cannot be booked.
// It unwraps to one of ErrPastTime, ErrNoAvailability, ErrBlocked, ErrOccupied.
type SlotUnavailableError struct {
	Reason                   domain.SlotReason
	BlockTitle               string
	ConflictingAppointmentID int64
}

func (e *SlotUnavailableError) Error() string {
	switch e.Reason {
	case domain.SlotReasonBlocked:
		return fmt.Sprintf("%v: %s", e.Unwrap(), e.BlockTitle)
	case domain.SlotReasonOccupied:
		return fmt.Sprintf("%v: appointment id=%d", e.Unwrap(), e.ConflictingAppointmentID)
	default:
		return e.Unwrap().Error()
	}
}

func (e *SlotUnavailableError) Unwrap() error {
	return reasonError(e.Reason)
}

func reasonError(reason domain.SlotReason) error {
	switch reason {
	case domain.SlotReasonPastTime:
		return ErrPastTime
	case domain.SlotReasonNoAvailability:
		return ErrNoAvailability
	case domain.SlotReasonBlocked:
		return ErrBlocked
	case domain.SlotReasonOccupied:
		return ErrOccupied
	default:
		return fmt.Errorf("scheduling: unknown slot reason %q", reason)
	}
}

// OverlapConflict two active windows of the same weekday share wall-clock time.
// It is returned to the caller unmodified; nothing is auto-resolved.
type OverlapConflict struct {
	DayOfWeek domain.Weekday
	First     domain.AvailabilityWindow
	Second    domain.AvailabilityWindow
}

func (c *OverlapConflict) Error() string {
	return fmt.Sprintf("scheduling: windows overlap on %s: %s-%s and %s-%s",
		c.DayOfWeek,
		c.First.StartTime.Short(), c.First.EndTime.Short(),
		c.Second.StartTime.Short(), c.Second.EndTime.Short())
}
