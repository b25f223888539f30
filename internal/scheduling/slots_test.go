package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "time/tzdata"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
	"github.com/m04kA/NutriClinic-SchedulingService/pkg/timewindow"
)

// 2025-03-10 - понедельник
var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func at(hour, min int) time.Time {
	return time.Date(2025, 3, 10, hour, min, 0, 0, time.UTC)
}

func startsOf(slots []domain.Slot) []string {
	result := make([]string, len(slots))
	for i, s := range slots {
		result[i] = s.Start.Format("15:04")
	}
	return result
}

func TestGenerateSlots_EmptyDay(t *testing.T) {
	slots, err := GenerateSlots(GenerateInput{
		Date:            monday,
		DurationMinutes: 60,
		Now:             monday.AddDate(0, 0, -1),
		Windows:         []domain.AvailabilityWindow{window(1, domain.Monday, "08:00", "12:00")},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"08:00", "08:30", "09:00", "09:30", "10:00", "10:30", "11:00"}, startsOf(slots))
	for _, s := range slots {
		assert.True(t, s.Available)
		assert.Equal(t, domain.SlotReasonNone, s.Reason)
		assert.Equal(t, s.Start.Add(time.Hour), s.End)
	}
	assert.Equal(t, at(12, 0), slots[len(slots)-1].End)
}

func TestGenerateSlots_ExclusionBlocksOverlappingSlots(t *testing.T) {
	slots, err := GenerateSlots(GenerateInput{
		Date:            monday,
		DurationMinutes: 60,
		Now:             monday.AddDate(0, 0, -1),
		Windows:         []domain.AvailabilityWindow{window(1, domain.Monday, "08:00", "12:00")},
		Exclusions: []domain.ExclusionBlock{
			{ID: 1, StartAt: at(10, 0), EndAt: at(10, 30), Title: "Staff meeting", Kind: domain.ExclusionPersonal},
		},
	})
	require.NoError(t, err)
	require.Len(t, slots, 7)

	byStart := make(map[string]domain.Slot)
	for _, s := range slots {
		byStart[s.Start.Format("15:04")] = s
	}

	assert.True(t, byStart["08:00"].Available)
	assert.True(t, byStart["08:30"].Available)
	assert.True(t, byStart["09:00"].Available, "09:00-10:00 only touches the block")

	for _, start := range []string{"09:30", "10:00"} {
		s := byStart[start]
		assert.False(t, s.Available, start)
		assert.Equal(t, domain.SlotReasonBlocked, s.Reason, start)
		assert.Equal(t, "Staff meeting", s.BlockTitle, start)
	}

	assert.True(t, byStart["10:30"].Available)
}

func TestGenerateSlots_Precedence(t *testing.T) {
	slots, err := GenerateSlots(GenerateInput{
		Date:            monday,
		DurationMinutes: 30,
		Now:             at(9, 15),
		Windows:         []domain.AvailabilityWindow{window(1, domain.Monday, "08:00", "11:00")},
		Exclusions: []domain.ExclusionBlock{
			{ID: 1, StartAt: at(8, 0), EndAt: at(10, 0), Title: "Vacation", Kind: domain.ExclusionVacation},
		},
		Appointments: []domain.Appointment{
			{ID: 5, ScheduledAt: at(9, 30), DurationMinutes: 90, Status: domain.StatusScheduled},
		},
	})
	require.NoError(t, err)

	want := map[string]domain.SlotReason{
		"08:00": domain.SlotReasonPastTime,
		"08:30": domain.SlotReasonPastTime,
		"09:00": domain.SlotReasonPastTime,
		"09:30": domain.SlotReasonBlocked,
		"10:00": domain.SlotReasonOccupied,
		"10:30": domain.SlotReasonOccupied,
	}
	require.Len(t, slots, len(want))
	for _, s := range slots {
		assert.Equal(t, want[s.Start.Format("15:04")], s.Reason, s.Start.Format("15:04"))
		assert.False(t, s.Available)
	}
}

func TestGenerateSlots_CancelledAppointmentsReleaseTime(t *testing.T) {
	slots, err := GenerateSlots(GenerateInput{
		Date:            monday,
		DurationMinutes: 60,
		Now:             monday.AddDate(0, 0, -1),
		Windows:         []domain.AvailabilityWindow{window(1, domain.Monday, "09:00", "10:00")},
		Appointments: []domain.Appointment{
			{ID: 1, ScheduledAt: at(9, 0), DurationMinutes: 60, Status: domain.StatusCancelled},
		},
	})
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.True(t, slots[0].Available)
}

func TestGenerateSlots_NoWindowsForWeekday(t *testing.T) {
	slots, err := GenerateSlots(GenerateInput{
		Date:            monday,
		DurationMinutes: 60,
		Now:             monday,
		Windows: []domain.AvailabilityWindow{
			window(1, domain.Tuesday, "08:00", "12:00"),
		},
	})
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateSlots_WindowShorterThanDuration(t *testing.T) {
	slots, err := GenerateSlots(GenerateInput{
		Date:            monday,
		DurationMinutes: 90,
		Now:             monday,
		Windows:         []domain.AvailabilityWindow{window(1, domain.Monday, "08:00", "09:00")},
	})
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateSlots_MultipleWindowsSorted(t *testing.T) {
	slots, err := GenerateSlots(GenerateInput{
		Date:            monday,
		DurationMinutes: 45,
		Now:             monday,
		Windows: []domain.AvailabilityWindow{
			window(2, domain.Monday, "14:00", "15:30"),
			window(1, domain.Monday, "08:00", "09:00"),
		},
	})
	require.NoError(t, err)

	// 45 минут: шаг сетки 30 минут от начала окна, конец слота не выходит за окно
	assert.Equal(t, []string{"08:00", "14:00", "14:30"}, startsOf(slots))
	assert.Equal(t, at(8, 45), slots[0].End)
}

func TestGenerateSlots_OverlappingWindowsEmitDuplicates(t *testing.T) {
	slots, err := GenerateSlots(GenerateInput{
		Date:            monday,
		DurationMinutes: 60,
		Now:             monday,
		Windows: []domain.AvailabilityWindow{
			window(1, domain.Monday, "09:00", "11:00"),
			window(2, domain.Monday, "10:00", "11:00"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:00"}, startsOf(slots))
}

func TestGenerateSlots_InvalidDuration(t *testing.T) {
	for _, d := range []int{0, -30} {
		_, err := GenerateSlots(GenerateInput{Date: monday, DurationMinutes: d})
		assert.ErrorIs(t, err, ErrInvalidDuration)
	}
}

func TestGenerateSlots_Idempotent(t *testing.T) {
	in := GenerateInput{
		Date:            monday,
		DurationMinutes: 30,
		Now:             at(8, 40),
		Windows: []domain.AvailabilityWindow{
			window(1, domain.Monday, "08:00", "12:00"),
			window(2, domain.Monday, "13:00", "17:00"),
		},
		Exclusions: []domain.ExclusionBlock{
			{ID: 1, StartAt: at(13, 0), EndAt: at(14, 0), Title: "Lunch", Kind: domain.ExclusionPersonal},
		},
		Appointments: []domain.Appointment{
			{ID: 1, ScheduledAt: at(10, 0), DurationMinutes: 30, Status: domain.StatusConfirmed},
		},
	}

	first, err := GenerateSlots(in)
	require.NoError(t, err)
	second, err := GenerateSlots(in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// Свойства: доступные слоты лежат внутри окна, не пересекают исключения и записи;
// слоты упорядочены и стоят на 30-минутной сетке.
func TestGenerateSlots_Properties(t *testing.T) {
	windows := []domain.AvailabilityWindow{
		window(1, domain.Monday, "07:30", "12:00"),
		window(2, domain.Monday, "13:00", "19:00"),
		window(3, domain.Tuesday, "00:00", "24:00"),
	}
	exclusions := []domain.ExclusionBlock{
		{ID: 1, StartAt: at(9, 10), EndAt: at(9, 50), Title: "Call", Kind: domain.ExclusionOther},
		{ID: 2, StartAt: monday.AddDate(0, 0, -2), EndAt: at(8, 0), Title: "Holiday", Kind: domain.ExclusionHoliday},
	}
	appointments := []domain.Appointment{
		{ID: 1, ScheduledAt: at(13, 15), DurationMinutes: 45, Status: domain.StatusScheduled},
		{ID: 2, ScheduledAt: at(16, 0), DurationMinutes: 120, Status: domain.StatusConfirmed},
		{ID: 3, ScheduledAt: at(11, 0), DurationMinutes: 60, Status: domain.StatusCancelled},
	}

	for _, duration := range domain.DefaultOfferedDurations {
		slots, err := GenerateSlots(GenerateInput{
			Date:            monday,
			DurationMinutes: duration,
			Now:             at(7, 45),
			Windows:         windows,
			Exclusions:      exclusions,
			Appointments:    appointments,
		})
		require.NoError(t, err)

		for i, s := range slots {
			span := timewindow.Interval{Start: s.Start, End: s.End}

			if i > 0 {
				assert.True(t, slots[i-1].Start.Before(s.Start), "slots must be strictly ordered")
			}
			assert.Equal(t, 0, s.Start.Minute()%domain.SlotGridStepMinutes)
			assert.Equal(t, time.Duration(duration)*time.Minute, span.Duration())

			if !s.Available {
				continue
			}

			inWindow := false
			for _, w := range windows[:2] {
				if timewindow.WallClockSpan(monday, w.StartTime, w.EndTime, time.UTC).Contains(span) {
					inWindow = true
				}
			}
			assert.True(t, inWindow, "slot %s outside windows", s.Start)
			assert.False(t, s.Start.Before(at(7, 45)))

			for _, e := range exclusions {
				assert.False(t, span.Overlaps(timewindow.Interval{Start: e.StartAt, End: e.EndAt}))
			}
			for _, a := range appointments {
				if a.OccupiesTime() {
					assert.False(t, span.Overlaps(timewindow.New(a.ScheduledAt, a.DurationMinutes)))
				}
			}
		}
	}
}

func TestGenerateSlots_ProviderTimezone(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	slots, err := GenerateSlots(GenerateInput{
		Date:            monday,
		Location:        loc,
		DurationMinutes: 60,
		Now:             monday.AddDate(0, 0, -1),
		Windows:         []domain.AvailabilityWindow{window(1, domain.Monday, "09:00", "10:00")},
		Appointments: []domain.Appointment{
			// 06:00 UTC = 09:00 MSK
			{ID: 1, ScheduledAt: at(6, 0), DurationMinutes: 60, Status: domain.StatusScheduled},
		},
	})
	require.NoError(t, err)
	require.Len(t, slots, 1)

	assert.True(t, slots[0].Start.Equal(at(6, 0)))
	assert.Equal(t, domain.SlotReasonOccupied, slots[0].Reason)
}

func TestGenerateSlots_AppointmentFromPreviousEvening(t *testing.T) {
	slots, err := GenerateSlots(GenerateInput{
		Date:            monday,
		DurationMinutes: 30,
		Now:             monday.AddDate(0, 0, -1),
		Windows:         []domain.AvailabilityWindow{window(1, domain.Monday, "00:00", "01:00")},
		Appointments: []domain.Appointment{
			{ID: 1, ScheduledAt: at(0, 0).Add(-30 * time.Minute), DurationMinutes: 60, Status: domain.StatusScheduled},
		},
	})
	require.NoError(t, err)
	require.Len(t, slots, 2)

	assert.Equal(t, domain.SlotReasonOccupied, slots[0].Reason)
	assert.True(t, slots[1].Available)
}

func TestGenerateSlots_SpringForwardSkipsMissingHour(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 9 марта 2025 (воскресенье) часы в Нью-Йорке переводятся с 02:00 на 03:00
	sunday := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)

	slots, err := GenerateSlots(GenerateInput{
		Date:            sunday,
		Location:        loc,
		DurationMinutes: 30,
		Now:             sunday.AddDate(0, 0, -1),
		Windows:         []domain.AvailabilityWindow{window(1, domain.Sunday, "01:00", "04:00")},
	})
	require.NoError(t, err)

	local := make([]string, len(slots))
	for i, s := range slots {
		local[i] = s.Start.In(loc).Format("15:04")
	}
	assert.Equal(t, []string{"01:00", "01:30", "03:00", "03:30"}, local)

	for i := 1; i < len(slots); i++ {
		assert.Equal(t, 30*time.Minute, slots[i].Start.Sub(slots[i-1].Start), "slot %d", i)
	}
}

func TestGenerateSlots_SkipsOnlyTooShortWindows(t *testing.T) {
	slots, err := GenerateSlots(GenerateInput{
		Date:            monday,
		DurationMinutes: 60,
		Now:             monday.AddDate(0, 0, -1),
		Windows: []domain.AvailabilityWindow{
			window(1, domain.Monday, "08:00", "08:45"),
			window(2, domain.Monday, "10:00", "11:00"),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"10:00"}, startsOf(slots))
}

func TestAppointmentLookup(t *testing.T) {
	day := DayRange(monday, time.UTC)
	lookup := AppointmentLookup(day)

	assert.Equal(t, at(0, 0).Add(-time.Duration(domain.MaxAppointmentDurationMinutes)*time.Minute), lookup.Start)
	assert.Equal(t, monday.AddDate(0, 0, 1), lookup.End)
}
