package domain

import (
	"fmt"
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// AllAppointmentStatuses lists every known status
var AllAppointmentStatuses = []AppointmentStatus{
	StatusScheduled,
	StatusConfirmed,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

// ParseAppointmentStatus converts a string into a known AppointmentStatus
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	for _, status := range AllAppointmentStatuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// allowedTransitions closed table of status changes managed by the appointment workflow
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusScheduled: {StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
}

// CanTransitionTo returns true if the status may change from s to next
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// BookingSource tells which flow created the appointment
type BookingSource string

const (
	SourceProvider BookingSource = "provider"
	SourcePublic   BookingSource = "public"
)

// Appointment represents a booked (or previously booked) encounter
type Appointment struct {
	ID              int64
	ProviderID      int64
	PatientID       int64
	ScheduledAt     time.Time
	DurationMinutes int
	Status          AppointmentStatus
	Source          BookingSource
	Notes           *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndsAt returns the end instant of the appointment
func (a *Appointment) EndsAt() time.Time {
	return a.ScheduledAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// OccupiesTime returns true if the appointment takes part in overlap checks.
// Only cancelled appointments release their time.
func (a *Appointment) OccupiesTime() bool {
	return a.Status != StatusCancelled
}

// CanBeCancelled returns true if the appointment can still be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status.CanTransitionTo(StatusCancelled)
}

// CanBeRescheduled returns true if the appointment time may still be changed
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status == StatusScheduled || a.Status == StatusConfirmed
}

// AppointmentsFilter фильтр для получения записей провайдера
type AppointmentsFilter struct {
	ProviderID       int64              // Обязательный параметр
	From             *time.Time         // scheduled_at >= From (опционально)
	To               *time.Time         // scheduled_at < To (опционально)
	Status           *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeCancelled bool               // Включать ли отмененные записи
	ForUpdate        bool               // Блокировать строки (только внутри транзакции)
}
