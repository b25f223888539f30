package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/NutriClinic-SchedulingService/pkg/types"
)

// Weekday is a provider-local day of week, 0 = Sunday ... 6 = Saturday
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// WeekdayOf converts time.Weekday to Weekday
func WeekdayOf(d time.Weekday) Weekday {
	return Weekday(d)
}

// IsValid returns true for 0..6
func (d Weekday) IsValid() bool {
	return d >= Sunday && d <= Saturday
}

func (d Weekday) String() string {
	if !d.IsValid() {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return time.Weekday(d).String()
}

// AvailabilityWindow represents a recurring weekly block of bookable time for one provider
type AvailabilityWindow struct {
	ID         int64
	ProviderID int64
	DayOfWeek  Weekday
	StartTime  types.TimeString
	EndTime    types.TimeString
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DurationMinutes returns the window length in whole minutes
func (w *AvailabilityWindow) DurationMinutes() int {
	return (w.EndTime.Seconds() - w.StartTime.Seconds()) / 60
}

// Fits returns true if an appointment of the given duration can start at the window start
func (w *AvailabilityWindow) Fits(durationMinutes int) bool {
	return durationMinutes > 0 && w.DurationMinutes() >= durationMinutes
}

// WeeklySchedule is the full set of windows of one provider
type WeeklySchedule struct {
	ProviderID int64
	Windows    []AvailabilityWindow
}

// ForDay returns active windows for the given weekday in stored order
func (s *WeeklySchedule) ForDay(day Weekday) []AvailabilityWindow {
	result := make([]AvailabilityWindow, 0)
	for _, w := range s.Windows {
		if w.Active && w.DayOfWeek == day {
			result = append(result, w)
		}
	}
	return result
}
