// Package memstore contains in-memory implementations of the storage,
// directory and transaction contracts used by use case and service tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/NutriClinic-SchedulingService/internal/infra/storage/appointment"
	exclusionRepo "github.com/m04kA/NutriClinic-SchedulingService/internal/infra/storage/exclusion"
	"github.com/m04kA/NutriClinic-SchedulingService/internal/service/providers"
)

// Availability in-memory availability window store
type Availability struct {
	mu      sync.Mutex
	nextID  int64
	windows []domain.AvailabilityWindow
	Err     error
}

// NewAvailability returns a store seeded with windows (IDs are assigned when zero)
func NewAvailability(windows ...domain.AvailabilityWindow) *Availability {
	a := &Availability{}
	for _, w := range windows {
		a.nextID++
		if w.ID == 0 {
			w.ID = a.nextID
		}
		a.windows = append(a.windows, w)
	}
	return a
}

func (a *Availability) ListByProvider(_ context.Context, providerID int64) ([]domain.AvailabilityWindow, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return nil, a.Err
	}

	result := make([]domain.AvailabilityWindow, 0)
	for _, w := range a.windows {
		if w.ProviderID == providerID {
			result = append(result, w)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].DayOfWeek != result[j].DayOfWeek {
			return result[i].DayOfWeek < result[j].DayOfWeek
		}
		return result[i].StartTime.IsBefore(result[j].StartTime)
	})
	return result, nil
}

func (a *Availability) ListActiveByDay(ctx context.Context, providerID int64, day domain.Weekday) ([]domain.AvailabilityWindow, error) {
	all, err := a.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	schedule := domain.WeeklySchedule{ProviderID: providerID, Windows: all}
	return schedule.ForDay(day), nil
}

func (a *Availability) ReplaceForProvider(_ context.Context, providerID int64, windows []domain.AvailabilityWindow) ([]domain.AvailabilityWindow, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return nil, a.Err
	}

	kept := make([]domain.AvailabilityWindow, 0, len(a.windows))
	for _, w := range a.windows {
		if w.ProviderID != providerID {
			kept = append(kept, w)
		}
	}

	saved := make([]domain.AvailabilityWindow, 0, len(windows))
	for _, w := range windows {
		a.nextID++
		w.ID = a.nextID
		w.ProviderID = providerID
		saved = append(saved, w)
	}
	a.windows = append(kept, saved...)
	return saved, nil
}

// Exclusions in-memory exclusion block store
type Exclusions struct {
	mu     sync.Mutex
	nextID int64
	blocks []domain.ExclusionBlock
	Err    error
}

// NewExclusions returns a store seeded with blocks
func NewExclusions(blocks ...domain.ExclusionBlock) *Exclusions {
	e := &Exclusions{}
	for _, b := range blocks {
		e.nextID++
		if b.ID == 0 {
			b.ID = e.nextID
		}
		e.blocks = append(e.blocks, b)
	}
	return e
}

func (e *Exclusions) Create(_ context.Context, block *domain.ExclusionBlock) (*domain.ExclusionBlock, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return nil, e.Err
	}
	e.nextID++
	block.ID = e.nextID
	e.blocks = append(e.blocks, *block)
	return block, nil
}

func (e *Exclusions) GetByID(_ context.Context, id int64) (*domain.ExclusionBlock, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, b := range e.blocks {
		if b.ID == id {
			block := b
			return &block, nil
		}
	}
	return nil, exclusionRepo.ErrExclusionNotFound
}

func (e *Exclusions) ListIntersecting(_ context.Context, providerID int64, from, to time.Time) ([]domain.ExclusionBlock, error) {
	return e.list(func(b domain.ExclusionBlock) bool {
		return b.ProviderID == providerID && b.StartAt.Before(to) && b.EndAt.After(from)
	})
}

func (e *Exclusions) ListByProvider(_ context.Context, providerID int64, from *time.Time) ([]domain.ExclusionBlock, error) {
	return e.list(func(b domain.ExclusionBlock) bool {
		return b.ProviderID == providerID && (from == nil || b.EndAt.After(*from))
	})
}

func (e *Exclusions) Delete(_ context.Context, providerID, id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, b := range e.blocks {
		if b.ID == id && b.ProviderID == providerID {
			e.blocks = append(e.blocks[:i], e.blocks[i+1:]...)
			return nil
		}
	}
	return exclusionRepo.ErrExclusionNotFound
}

func (e *Exclusions) list(match func(domain.ExclusionBlock) bool) ([]domain.ExclusionBlock, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return nil, e.Err
	}
	result := make([]domain.ExclusionBlock, 0)
	for _, b := range e.blocks {
		if match(b) {
			result = append(result, b)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].StartAt.Before(result[j].StartAt) })
	return result, nil
}

// Appointments in-memory appointment store.
// Like the partial unique index in Postgres, it rejects a second
// non-cancelled appointment with the same provider and start instant.
type Appointments struct {
	mu           sync.Mutex
	nextID       int64
	appointments []domain.Appointment
	Err          error
}

// NewAppointments returns a store seeded with appointments
func NewAppointments(appointments ...domain.Appointment) *Appointments {
	s := &Appointments{}
	for _, a := range appointments {
		s.nextID++
		if a.ID == 0 {
			a.ID = s.nextID
		}
		s.appointments = append(s.appointments, a)
	}
	return s
}

func (s *Appointments) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.startTaken(appt.ProviderID, appt.ScheduledAt, 0) {
		return nil, fmt.Errorf("%w: Create - duplicate start", appointmentRepo.ErrSlotNotAvailable)
	}
	s.nextID++
	appt.ID = s.nextID
	s.appointments = append(s.appointments, *appt)
	return appt, nil
}

func (s *Appointments) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		appt := s.appointments[i]
		return &appt, nil
	}
	return nil, appointmentRepo.ErrAppointmentNotFound
}

func (s *Appointments) ListByProvider(_ context.Context, filter domain.AppointmentsFilter) ([]domain.Appointment, error) {
	return s.list(func(a domain.Appointment) bool {
		if a.ProviderID != filter.ProviderID {
			return false
		}
		if filter.From != nil && a.ScheduledAt.Before(*filter.From) {
			return false
		}
		if filter.To != nil && !a.ScheduledAt.Before(*filter.To) {
			return false
		}
		if filter.Status != nil {
			return a.Status == *filter.Status
		}
		return filter.IncludeCancelled || a.Status != domain.StatusCancelled
	})
}

func (s *Appointments) ListByPatient(_ context.Context, patientID int64, status *domain.AppointmentStatus) ([]domain.Appointment, error) {
	result, err := s.list(func(a domain.Appointment) bool {
		return a.PatientID == patientID && (status == nil || a.Status == *status)
	})
	if err != nil {
		return nil, err
	}
	// сначала новые
	sort.SliceStable(result, func(i, j int) bool { return result[i].ScheduledAt.After(result[j].ScheduledAt) })
	return result, nil
}

func (s *Appointments) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus) error {
	return s.update(id, func(a *domain.Appointment) error {
		a.Status = status
		return nil
	})
}

func (s *Appointments) Cancel(_ context.Context, id int64, reason *string, cancelledAt time.Time) error {
	return s.update(id, func(a *domain.Appointment) error {
		a.Status = domain.StatusCancelled
		a.CancellationReason = reason
		a.CancelledAt = &cancelledAt
		return nil
	})
}

func (s *Appointments) Reschedule(_ context.Context, id int64, scheduledAt time.Time, durationMinutes int) error {
	return s.update(id, func(a *domain.Appointment) error {
		if a.OccupiesTime() && s.startTaken(a.ProviderID, scheduledAt, id) {
			return fmt.Errorf("%w: Reschedule - duplicate start", appointmentRepo.ErrSlotNotAvailable)
		}
		a.ScheduledAt = scheduledAt
		a.DurationMinutes = durationMinutes
		return nil
	})
}

// All returns a copy of every stored appointment
func (s *Appointments) All() []domain.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Appointment(nil), s.appointments...)
}

func (s *Appointments) update(id int64, fn func(a *domain.Appointment) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	i := s.indexOf(id)
	if i < 0 {
		return appointmentRepo.ErrAppointmentNotFound
	}
	return fn(&s.appointments[i])
}

func (s *Appointments) list(match func(domain.Appointment) bool) ([]domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	result := make([]domain.Appointment, 0)
	for _, a := range s.appointments {
		if match(a) {
			result = append(result, a)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].ScheduledAt.Before(result[j].ScheduledAt) })
	return result, nil
}

func (s *Appointments) indexOf(id int64) int {
	for i, a := range s.appointments {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (s *Appointments) startTaken(providerID int64, at time.Time, exceptID int64) bool {
	for _, a := range s.appointments {
		if a.ID != exceptID && a.ProviderID == providerID && a.OccupiesTime() && a.ScheduledAt.Equal(at) {
			return true
		}
	}
	return false
}

// TxManager runs the function directly and counts calls
type TxManager struct {
	mu    sync.Mutex
	Calls int
	Err   error // returned instead of running fn
}

func (t *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.run(ctx, fn)
}

func (t *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.run(ctx, fn)
}

func (t *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.run(ctx, fn)
}

func (t *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	t.Calls++
	err := t.Err
	t.mu.Unlock()
	if err != nil {
		return err
	}
	return fn(ctx)
}

// Directory in-memory provider directory
type Directory struct {
	Providers map[int64]*domain.Provider
	Err       error
}

// NewDirectory returns a directory with the given providers
func NewDirectory(list ...*domain.Provider) *Directory {
	d := &Directory{Providers: make(map[int64]*domain.Provider)}
	for _, p := range list {
		d.Providers[p.ID] = p
	}
	return d
}

func (d *Directory) GetProvider(_ context.Context, providerID int64) (*domain.Provider, error) {
	if d.Err != nil {
		return nil, d.Err
	}
	p, ok := d.Providers[providerID]
	if !ok {
		return nil, providers.ErrProviderNotFound
	}
	return p, nil
}

// Clock fixed time provider
type Clock struct {
	T time.Time
}

func (c *Clock) Now() time.Time {
	return c.T
}

// Metrics records counters in maps
type Metrics struct {
	mu          sync.Mutex
	Slots       map[string]int
	Validations map[string]int
	Bookings    map[string]int // key: source/outcome
	Saves       map[string]int
}

// NewMetrics returns an empty recorder
func NewMetrics() *Metrics {
	return &Metrics{
		Slots:       make(map[string]int),
		Validations: make(map[string]int),
		Bookings:    make(map[string]int),
		Saves:       make(map[string]int),
	}
}

func (m *Metrics) RecordSlots(reason string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Slots[reason] += count
}

func (m *Metrics) RecordSlotValidation(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Validations[result]++
}

func (m *Metrics) RecordBooking(source, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Bookings[source+"/"+outcome]++
}

func (m *Metrics) RecordScheduleSave(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saves[outcome]++
}
