package book_appointment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/integrations/patientservice"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/scheduling"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/testutil/memstore"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/usecase/validate_slot"
	"github.com/m04kA/NutriClinic-SchedulingService/pkg/logger"
	"github.com/m04kA/NutriClinic-SchedulingService/pkg/ptr"
	"github.com/m04kA/NutriClinic-SchedulingService/pkg/txmanager"
	"github.com/m04kA/NutriClinic-SchedulingService/pkg/types"
)

const (
	providerID     int64 = 5
	organizationID int64 = 1
)

// 2025-03-10 - понедельник
func at(hour, min int) time.Time {
	return time.Date(2025, 3, 10, hour, min, 0, 0, time.UTC)
}

type fakePatients struct {
	patients map[int64]*patientservice.Patient
	err      error
}

func (f *fakePatients) GetPatient(_ context.Context, patientID int64) (*patientservice.Patient, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.patients[patientID]
	if !ok {
		return nil, patientservice.ErrPatientNotFound
	}
	return p, nil
}

// alwaysValid пропускает любой слот, чтобы проверить защиту на уровне хранилища
type alwaysValid struct{}

func (alwaysValid) Check(context.Context, validate_slot.CheckInput) (scheduling.ValidationResult, error) {
	return scheduling.ValidationResult{Valid: true}, nil
}

type fixture struct {
	appointments *memstore.Appointments
	exclusions   *memstore.Exclusions
	tx           *memstore.TxManager
	metrics      *memstore.Metrics
	patients     *fakePatients
	checker      SlotChecker
}

func newFixture() *fixture {
	availability := memstore.NewAvailability(domain.AvailabilityWindow{
		ProviderID: providerID,
		DayOfWeek:  domain.Monday,
		StartTime:  types.MustTimeString("08:00"),
		EndTime:    types.MustTimeString("12:00"),
		Active:     true,
	})
	f := &fixture{
		appointments: memstore.NewAppointments(),
		exclusions:   memstore.NewExclusions(),
		tx:           &memstore.TxManager{},
		metrics:      memstore.NewMetrics(),
		patients: &fakePatients{patients: map[int64]*patientservice.Patient{
			10: {ID: 10, OrganizationID: organizationID, FullName: "Anna Petrova"},
			11: {ID: 11, OrganizationID: organizationID, FullName: "Ivan Sidorov"},
			20: {ID: 20, OrganizationID: 2, FullName: "Other Clinic Patient"},
		}},
	}
	f.checker = validate_slot.NewChecker(availability, f.exclusions, f.appointments)
	return f
}

func (f *fixture) useCase() *UseCase {
	directory := memstore.NewDirectory(&domain.Provider{ID: providerID, OrganizationID: organizationID, Location: time.UTC})
	return NewUseCase(
		f.appointments, f.checker, directory, f.patients, f.tx, f.metrics,
		domain.MaxAppointmentDurationMinutes, logger.NewNop(),
	).WithTimeProvider(&memstore.Clock{T: at(7, 0)})
}

func request(patientID int64, start time.Time, minutes int) *Request {
	return &Request{
		ProviderID:      providerID,
		PatientID:       patientID,
		StartAt:         start,
		DurationMinutes: minutes,
		Notes:           ptr.Ptr("first visit"),
		Source:          domain.SourceProvider,
	}
}

func TestExecute_Creates(t *testing.T) {
	f := newFixture()

	resp, err := f.useCase().Execute(context.Background(), request(10, at(9, 0), 60))
	require.NoError(t, err)

	assert.NotZero(t, resp.ID)
	assert.Equal(t, domain.StatusScheduled, resp.Status)
	assert.Equal(t, domain.SourceProvider, resp.Source)
	assert.Equal(t, at(10, 0), resp.EndsAt)
	assert.Equal(t, "first visit", ptr.Value(resp.Notes))
	assert.Equal(t, 1, f.tx.Calls)
	assert.Len(t, f.appointments.All(), 1)
	assert.Equal(t, 1, f.metrics.Bookings["provider/created"])
}

func TestExecute_DoubleBookingFailsWithOccupied(t *testing.T) {
	f := newFixture()
	uc := f.useCase()

	first, err := uc.Execute(context.Background(), request(10, at(9, 0), 60))
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), request(11, at(9, 30), 30))
	require.ErrorIs(t, err, scheduling.ErrOccupied)

	var unavailable *scheduling.SlotUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, first.ID, unavailable.ConflictingAppointmentID)

	assert.Len(t, f.appointments.All(), 1, "nothing is written for the rejected booking")
	assert.Equal(t, 1, f.metrics.Bookings["provider/occupied"])
}

func TestExecute_RejectsUnavailableSlots(t *testing.T) {
	tests := []struct {
		name    string
		start   time.Time
		minutes int
		wantErr error
	}{
		{name: "past", start: at(6, 0), minutes: 30, wantErr: scheduling.ErrPastTime},
		{name: "outside availability", start: at(11, 30), minutes: 60, wantErr: scheduling.ErrNoAvailability},
		{name: "blocked", start: at(10, 0), minutes: 30, wantErr: scheduling.ErrBlocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.exclusions.Create(context.Background(), &domain.ExclusionBlock{
				ProviderID: providerID, StartAt: at(10, 0), EndAt: at(10, 30), Title: "Lunch", Kind: domain.ExclusionPersonal,
			})
			require.NoError(t, err)

			_, err = f.useCase().Execute(context.Background(), request(10, tt.start, tt.minutes))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.appointments.All())
		})
	}
}

func TestExecute_UniqueIndexViolationIsOccupied(t *testing.T) {
	f := newFixture()
	f.checker = alwaysValid{}
	_, err := f.appointments.Create(context.Background(), &domain.Appointment{
		ProviderID: providerID, PatientID: 11, ScheduledAt: at(9, 0), DurationMinutes: 30, Status: domain.StatusConfirmed,
	})
	require.NoError(t, err)

	_, err = f.useCase().Execute(context.Background(), request(10, at(9, 0), 30))
	assert.ErrorIs(t, err, scheduling.ErrOccupied)
	assert.Len(t, f.appointments.All(), 1)
}

func TestExecute_RetriesExhaustedIsOccupied(t *testing.T) {
	f := newFixture()
	f.tx.Err = fmt.Errorf("%w: could not serialize access", txmanager.ErrRetriesExhausted)

	_, err := f.useCase().Execute(context.Background(), request(10, at(9, 0), 30))
	assert.ErrorIs(t, err, scheduling.ErrOccupied)
}

func TestExecute_ConcurrentBookingsOfSameSlot(t *testing.T) {
	f := newFixture()
	uc := f.useCase()

	const attempts = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		success  int
		occupied int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), request(10, at(9, 0), 60))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				success++
			case errors.Is(err, scheduling.ErrOccupied):
				occupied++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, success)
	assert.Equal(t, attempts-1, occupied)
	assert.Len(t, f.appointments.All(), 1)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		prepare func(f *fixture)
		wantErr error
	}{
		{
			name:    "zero patient",
			req:     request(0, at(9, 0), 30),
			wantErr: ErrInvalidInput,
		},
		{
			name:    "duration above max",
			req:     request(10, at(9, 0), domain.MaxAppointmentDurationMinutes+30),
			wantErr: ErrInvalidInput,
		},
		{
			name: "unknown source",
			req: func() *Request {
				r := request(10, at(9, 0), 30)
				r.Source = "telegram"
				return r
			}(),
			wantErr: ErrInvalidInput,
		},
		{
			name: "unknown provider",
			req: func() *Request {
				r := request(10, at(9, 0), 30)
				r.ProviderID = 99
				return r
			}(),
			wantErr: ErrProviderNotFound,
		},
		{
			name:    "unknown patient",
			req:     request(404, at(9, 0), 30),
			wantErr: ErrPatientNotFound,
		},
		{
			name:    "patient of another organization",
			req:     request(20, at(9, 0), 30),
			wantErr: ErrPatientOrganizationMismatch,
		},
		{
			name:    "patient service down",
			req:     request(10, at(9, 0), 30),
			prepare: func(f *fixture) { f.patients.err = patientservice.ErrInternal },
			wantErr: ErrInternal,
		},
		{
			name:    "storage failure",
			req:     request(10, at(9, 0), 30),
			prepare: func(f *fixture) { f.appointments.Err = errors.New("connection reset") },
			wantErr: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.prepare != nil {
				tt.prepare(f)
			}
			_, err := f.useCase().Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
