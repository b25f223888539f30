package scheduling

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
	"github.com/m04kA/NutriClinic-SchedulingService/pkg/ptr"
)

func baseValidateInput() ValidateInput {
	return ValidateInput{
		StartAt:         at(10, 0),
		DurationMinutes: 60,
		Now:             at(7, 0),
		Windows:         []domain.AvailabilityWindow{window(1, domain.Monday, "08:00", "12:00")},
	}
}

func TestValidateSlot(t *testing.T) {
	existing := domain.Appointment{ID: 42, ScheduledAt: at(10, 0), DurationMinutes: 60, Status: domain.StatusScheduled}

	tests := []struct {
		name       string
		modify     func(in *ValidateInput)
		wantValid  bool
		wantReason domain.SlotReason
	}{
		{
			name:      "free slot",
			modify:    func(in *ValidateInput) {},
			wantValid: true,
		},
		{
			name:       "past time",
			modify:     func(in *ValidateInput) { in.Now = at(10, 1) },
			wantReason: domain.SlotReasonPastTime,
		},
		{
			name:       "no window for weekday",
			modify:     func(in *ValidateInput) { in.Windows = []domain.AvailabilityWindow{window(1, domain.Tuesday, "08:00", "12:00")} },
			wantReason: domain.SlotReasonNoAvailability,
		},
		{
			name:       "slot exceeds window end",
			modify:     func(in *ValidateInput) { in.StartAt = at(11, 30) },
			wantReason: domain.SlotReasonNoAvailability,
		},
		{
			name:       "inactive window",
			modify:     func(in *ValidateInput) { in.Windows[0].Active = false },
			wantReason: domain.SlotReasonNoAvailability,
		},
		{
			name: "slot spans two adjacent windows",
			modify: func(in *ValidateInput) {
				in.Windows = []domain.AvailabilityWindow{
					window(1, domain.Monday, "08:00", "10:30"),
					window(2, domain.Monday, "10:30", "12:00"),
				}
			},
			wantReason: domain.SlotReasonNoAvailability,
		},
		{
			name:      "slot ends exactly at window end",
			modify:    func(in *ValidateInput) { in.StartAt = at(11, 0) },
			wantValid: true,
		},
		{
			name:      "off-grid start inside window",
			modify:    func(in *ValidateInput) { in.StartAt = at(9, 10) },
			wantValid: true,
		},
		{
			name: "blocked by exclusion",
			modify: func(in *ValidateInput) {
				in.Exclusions = []domain.ExclusionBlock{{ID: 1, StartAt: at(10, 30), EndAt: at(13, 0), Title: "Conference"}}
			},
			wantReason: domain.SlotReasonBlocked,
		},
		{
			name: "exclusion touching the slot",
			modify: func(in *ValidateInput) {
				in.Exclusions = []domain.ExclusionBlock{{ID: 1, StartAt: at(11, 0), EndAt: at(13, 0), Title: "Conference"}}
			},
			wantValid: true,
		},
		{
			name:       "occupied by same interval",
			modify:     func(in *ValidateInput) { in.Appointments = []domain.Appointment{existing} },
			wantReason: domain.SlotReasonOccupied,
		},
		{
			name: "self edit excludes own appointment",
			modify: func(in *ValidateInput) {
				in.Appointments = []domain.Appointment{existing}
				in.ExcludeAppointmentID = ptr.Ptr(int64(42))
			},
			wantValid: true,
		},
		{
			name: "cancelled appointment does not occupy",
			modify: func(in *ValidateInput) {
				cancelled := existing
				cancelled.Status = domain.StatusCancelled
				in.Appointments = []domain.Appointment{cancelled}
			},
			wantValid: true,
		},
		{
			name: "past takes precedence over blocked",
			modify: func(in *ValidateInput) {
				in.Now = at(11, 0)
				in.Exclusions = []domain.ExclusionBlock{{ID: 1, StartAt: at(10, 0), EndAt: at(11, 0), Title: "Block"}}
			},
			wantReason: domain.SlotReasonPastTime,
		},
		{
			name: "blocked takes precedence over occupied",
			modify: func(in *ValidateInput) {
				in.Exclusions = []domain.ExclusionBlock{{ID: 1, StartAt: at(10, 0), EndAt: at(11, 0), Title: "Block"}}
				in.Appointments = []domain.Appointment{existing}
			},
			wantReason: domain.SlotReasonBlocked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseValidateInput()
			tt.modify(&in)

			result, err := ValidateSlot(in)
			require.NoError(t, err)

			assert.Equal(t, tt.wantValid, result.Valid)
			assert.Equal(t, tt.wantReason, result.Reason)
			if tt.wantValid {
				assert.NoError(t, result.Err())
			} else {
				assert.Error(t, result.Err())
			}
		})
	}
}

func TestValidateSlot_ResultDetails(t *testing.T) {
	in := baseValidateInput()
	in.Appointments = []domain.Appointment{
		{ID: 7, ScheduledAt: at(10, 30), DurationMinutes: 30, Status: domain.StatusConfirmed},
	}

	result, err := ValidateSlot(in)
	require.NoError(t, err)
	assert.Equal(t, int64(7), result.ConflictingAppointmentID)

	var unavailable *SlotUnavailableError
	require.True(t, errors.As(result.Err(), &unavailable))
	assert.Equal(t, domain.SlotReasonOccupied, unavailable.Reason)
	assert.ErrorIs(t, result.Err(), ErrOccupied)

	in = baseValidateInput()
	in.Exclusions = []domain.ExclusionBlock{{ID: 1, StartAt: at(9, 0), EndAt: at(10, 30), Title: "Dentist"}}

	result, err = ValidateSlot(in)
	require.NoError(t, err)
	assert.Equal(t, "Dentist", result.BlockTitle)
	assert.ErrorIs(t, result.Err(), ErrBlocked)
	assert.Contains(t, result.Err().Error(), "Dentist")
}

func TestValidateSlot_ProviderTimezone(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Yekaterinburg")
	require.NoError(t, err)

	in := baseValidateInput()
	in.Location = loc
	// 03:00 UTC = 08:00 в Екатеринбурге
	in.StartAt = at(3, 0)
	in.Now = at(0, 0)

	result, err := ValidateSlot(in)
	require.NoError(t, err)
	assert.True(t, result.Valid)

	in.StartAt = at(8, 0) // 13:00 local, вне окна
	result, err = ValidateSlot(in)
	require.NoError(t, err)
	assert.Equal(t, domain.SlotReasonNoAvailability, result.Reason)
	assert.ErrorIs(t, result.Err(), ErrNoAvailability)
}

func TestValidateSlot_InvalidInput(t *testing.T) {
	in := baseValidateInput()
	in.DurationMinutes = 0
	_, err := ValidateSlot(in)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	in = baseValidateInput()
	in.StartAt = time.Time{}
	_, err = ValidateSlot(in)
	assert.ErrorIs(t, err, ErrInvalidStart)
}

// Слот, выданный генератором как доступный, проходит валидацию на тех же данных
func TestValidateSlot_AgreesWithGenerator(t *testing.T) {
	windows := []domain.AvailabilityWindow{window(1, domain.Monday, "08:00", "12:00")}
	exclusions := []domain.ExclusionBlock{{ID: 1, StartAt: at(10, 0), EndAt: at(10, 30), Title: "Block"}}
	appointments := []domain.Appointment{{ID: 1, ScheduledAt: at(8, 0), DurationMinutes: 60, Status: domain.StatusScheduled}}
	now := at(7, 0)

	slots, err := GenerateSlots(GenerateInput{
		Date: monday, DurationMinutes: 60, Now: now,
		Windows: windows, Exclusions: exclusions, Appointments: appointments,
	})
	require.NoError(t, err)

	for _, s := range slots {
		result, err := ValidateSlot(ValidateInput{
			StartAt: s.Start, DurationMinutes: 60, Now: now,
			Windows: windows, Exclusions: exclusions, Appointments: appointments,
		})
		require.NoError(t, err)
		assert.Equal(t, s.Available, result.Valid, s.Start.Format("15:04"))
		if !s.Available {
			assert.Equal(t, s.Reason, result.Reason)
		}
	}
}
