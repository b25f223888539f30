package public_booking

import (
	"time"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
)

// Request модель запроса публичной записи
type Request struct {
	OrganizationID  int64
	ProviderID      int64
	StartAt         time.Time
	DurationMinutes int
	Visitor         Visitor
	Notes           *string
}

// Visitor контактные данные посетителя
type Visitor struct {
	FullName string
	Email    *string
	Phone    *string
}

// Response модель ответа публичной записи
type Response struct {
	AppointmentID   int64
	ProviderID      int64
	PatientID       int64
	ScheduledAt     time.Time
	EndsAt          time.Time
	DurationMinutes int
	Status          domain.AppointmentStatus
}
