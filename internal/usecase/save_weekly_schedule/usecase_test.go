package save_weekly_schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/scheduling"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/testutil/memstore"
	"github.com/m04kA/NutriClinic-SchedulingService/pkg/logger"
	"github.com/m04kA/NutriClinic-SchedulingService/pkg/types"
)

const providerID int64 = 9

func window(day domain.Weekday, start, end string, active bool) Window {
	return Window{
		DayOfWeek: day,
		StartTime: types.MustTimeString(start),
		EndTime:   types.MustTimeString(end),
		Active:    active,
	}
}

type fixture struct {
	availability *memstore.Availability
	tx           *memstore.TxManager
	metrics      *memstore.Metrics
	uc           *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		availability: memstore.NewAvailability(domain.AvailabilityWindow{
			ProviderID: providerID,
			DayOfWeek:  domain.Friday,
			StartTime:  types.MustTimeString("10:00"),
			EndTime:    types.MustTimeString("14:00"),
			Active:     true,
		}),
		tx:      &memstore.TxManager{},
		metrics: memstore.NewMetrics(),
	}
	directory := memstore.NewDirectory(&domain.Provider{ID: providerID, OrganizationID: 1, Location: time.UTC})
	f.uc = NewUseCase(f.availability, directory, f.tx, f.metrics, logger.NewNop())
	return f
}

func TestExecute_ReplacesSchedule(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), &Request{
		ProviderID: providerID,
		Windows: []Window{
			window(domain.Monday, "09:00", "12:00", true),
			window(domain.Monday, "12:00", "15:00", true),
			window(domain.Monday, "10:00", "11:00", false),
		},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Windows, 3)

	stored, err := f.availability.ListByProvider(context.Background(), providerID)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	for _, w := range stored {
		assert.Equal(t, domain.Monday, w.DayOfWeek, "previous Friday window is replaced")
	}
	assert.Equal(t, 1, f.metrics.Saves["saved"])
	assert.Equal(t, 1, f.tx.Calls)
}

func TestExecute_OverlapAbortsSave(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{
		ProviderID: providerID,
		Windows: []Window{
			window(domain.Monday, "09:00", "12:00", true),
			window(domain.Monday, "11:00", "13:00", true),
		},
	})
	require.ErrorIs(t, err, ErrScheduleOverlap)

	var conflict *scheduling.OverlapConflict
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, domain.Monday, conflict.DayOfWeek)
	assert.Equal(t, "09:00", conflict.First.StartTime.Short())
	assert.Equal(t, "11:00", conflict.Second.StartTime.Short())

	stored, err := f.availability.ListByProvider(context.Background(), providerID)
	require.NoError(t, err)
	require.Len(t, stored, 1, "existing schedule is untouched")
	assert.Equal(t, domain.Friday, stored[0].DayOfWeek)
	assert.Equal(t, 0, f.tx.Calls)
	assert.Equal(t, 1, f.metrics.Saves["overlap"])
}

func TestExecute_EmptyScheduleClearsWindows(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), &Request{ProviderID: providerID})
	require.NoError(t, err)
	assert.Empty(t, resp.Windows)

	stored, err := f.availability.ListByProvider(context.Background(), providerID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestExecute_InvalidWindows(t *testing.T) {
	tests := []struct {
		name    string
		windows []Window
		wantErr error
	}{
		{
			name:    "start after end",
			windows: []Window{window(domain.Monday, "12:00", "09:00", true)},
			wantErr: scheduling.ErrInvalidWindow,
		},
		{
			name:    "empty window",
			windows: []Window{window(domain.Monday, "09:00", "09:00", false)},
			wantErr: scheduling.ErrInvalidWindow,
		},
		{
			name:    "weekday out of range",
			windows: []Window{window(domain.Weekday(7), "09:00", "12:00", true)},
			wantErr: scheduling.ErrInvalidWeekday,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.uc.Execute(context.Background(), &Request{ProviderID: providerID, Windows: tt.windows})
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 1, f.metrics.Saves["invalid"])
		})
	}
}

func TestExecute_Errors(t *testing.T) {
	t.Run("unknown provider", func(t *testing.T) {
		f := newFixture()
		_, err := f.uc.Execute(context.Background(), &Request{ProviderID: 100})
		assert.ErrorIs(t, err, ErrProviderNotFound)
	})

	t.Run("storage failure", func(t *testing.T) {
		f := newFixture()
		f.availability.Err = errors.New("disk full")
		_, err := f.uc.Execute(context.Background(), &Request{
			ProviderID: providerID,
			Windows:    []Window{window(domain.Monday, "09:00", "12:00", true)},
		})
		assert.ErrorIs(t, err, ErrInternal)
		assert.Equal(t, 1, f.metrics.Saves["error"])
	})
}
