package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
	"github.com/m04kA/NutriClinic-SchedulingService/pkg/types"
)

func window(id int64, day domain.Weekday, start, end string) domain.AvailabilityWindow {
	return domain.AvailabilityWindow{
		ID:        id,
		DayOfWeek: day,
		StartTime: types.MustTimeString(start),
		EndTime:   types.MustTimeString(end),
		Active:    true,
	}
}

func TestCheckOverlap(t *testing.T) {
	t.Run("overlapping windows on the same day", func(t *testing.T) {
		windows := []domain.AvailabilityWindow{
			window(1, domain.Monday, "09:00", "12:00"),
			window(2, domain.Monday, "11:00", "13:00"),
		}

		conflict := CheckOverlap(windows)

		require.NotNil(t, conflict)
		assert.Equal(t, domain.Monday, conflict.DayOfWeek)
		assert.Equal(t, int64(1), conflict.First.ID)
		assert.Equal(t, int64(2), conflict.Second.ID)
		assert.Contains(t, conflict.Error(), "09:00-12:00")
		assert.Contains(t, conflict.Error(), "11:00-13:00")
	})

	t.Run("touching windows do not overlap", func(t *testing.T) {
		windows := []domain.AvailabilityWindow{
			window(1, domain.Monday, "09:00", "12:00"),
			window(2, domain.Monday, "12:00", "13:00"),
		}

		assert.Nil(t, CheckOverlap(windows))
	})

	t.Run("input order does not matter", func(t *testing.T) {
		windows := []domain.AvailabilityWindow{
			window(2, domain.Monday, "11:00", "13:00"),
			window(1, domain.Monday, "09:00", "12:00"),
		}

		conflict := CheckOverlap(windows)

		require.NotNil(t, conflict)
		assert.Equal(t, int64(1), conflict.First.ID)
		assert.Equal(t, int64(2), conflict.Second.ID)
	})

	t.Run("inactive windows are ignored", func(t *testing.T) {
		inactive := window(2, domain.Monday, "11:00", "13:00")
		inactive.Active = false

		windows := []domain.AvailabilityWindow{
			window(1, domain.Monday, "09:00", "12:00"),
			inactive,
		}

		assert.Nil(t, CheckOverlap(windows))
	})

	t.Run("same times on different days are fine", func(t *testing.T) {
		windows := []domain.AvailabilityWindow{
			window(1, domain.Monday, "09:00", "12:00"),
			window(2, domain.Tuesday, "09:00", "12:00"),
		}

		assert.Nil(t, CheckOverlap(windows))
	})

	t.Run("first conflict by day then start time", func(t *testing.T) {
		windows := []domain.AvailabilityWindow{
			window(10, domain.Friday, "08:00", "10:00"),
			window(11, domain.Friday, "09:00", "11:00"),
			window(20, domain.Tuesday, "14:00", "16:00"),
			window(21, domain.Tuesday, "15:00", "17:00"),
			window(22, domain.Tuesday, "08:00", "10:00"),
			window(23, domain.Tuesday, "09:30", "10:30"),
		}

		for i := 0; i < 5; i++ {
			conflict := CheckOverlap(windows)
			require.NotNil(t, conflict)
			assert.Equal(t, domain.Tuesday, conflict.DayOfWeek)
			assert.Equal(t, int64(22), conflict.First.ID)
			assert.Equal(t, int64(23), conflict.Second.ID)
		}
	})

	t.Run("window nested inside another", func(t *testing.T) {
		windows := []domain.AvailabilityWindow{
			window(1, domain.Sunday, "08:00", "18:00"),
			window(2, domain.Sunday, "10:00", "11:00"),
			window(3, domain.Sunday, "12:00", "13:00"),
		}

		conflict := CheckOverlap(windows)

		require.NotNil(t, conflict)
		assert.Equal(t, int64(1), conflict.First.ID)
		assert.Equal(t, int64(2), conflict.Second.ID)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, CheckOverlap(nil))
	})
}

func TestValidateWindow(t *testing.T) {
	tests := []struct {
		name    string
		window  domain.AvailabilityWindow
		wantErr error
	}{
		{name: "valid", window: window(1, domain.Monday, "09:00", "12:00")},
		{name: "until midnight", window: window(1, domain.Monday, "20:00", "24:00")},
		{name: "start equals end", window: window(1, domain.Monday, "09:00", "09:00"), wantErr: ErrInvalidWindow},
		{name: "start after end", window: window(1, domain.Monday, "12:00", "09:00"), wantErr: ErrInvalidWindow},
		{name: "bad weekday", window: window(1, domain.Weekday(7), "09:00", "12:00"), wantErr: ErrInvalidWeekday},
		{
			name:    "malformed time",
			window:  domain.AvailabilityWindow{DayOfWeek: domain.Monday, StartTime: "9am", EndTime: "12:00:00"},
			wantErr: ErrInvalidWindow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWindow(tt.window)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
