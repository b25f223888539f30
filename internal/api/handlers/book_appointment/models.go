package book_appointment

import (
	"time"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
	bookAppointment "github.com/m04kA/NutriClinic-SchedulingService/internal/usecase/book_appointment"
)

// BookAppointmentRequest HTTP request model
type BookAppointmentRequest struct {
	PatientID       int64     `json:"patientId"`
	StartAt         time.Time `json:"startAt"` // RFC 3339
	DurationMinutes int       `json:"durationMinutes"`
	Notes           *string   `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64     `json:"id"`
	ProviderID      int64     `json:"providerId"`
	PatientID       int64     `json:"patientId"`
	ScheduledAt     time.Time `json:"scheduledAt"`
	EndsAt          time.Time `json:"endsAt"`
	DurationMinutes int       `json:"durationMinutes"`
	Status          string    `json:"status"`
	Source          string    `json:"source"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedAt       string    `json:"createdAt"`
	UpdatedAt       string    `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *BookAppointmentRequest) ToUseCaseRequest(providerID int64) *bookAppointment.Request {
	return &bookAppointment.Request{
		ProviderID:      providerID,
		PatientID:       r.PatientID,
		StartAt:         r.StartAt,
		DurationMinutes: r.DurationMinutes,
		Notes:           r.Notes,
		Source:          domain.SourceProvider,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		ProviderID:      resp.ProviderID,
		PatientID:       resp.PatientID,
		ScheduledAt:     resp.ScheduledAt,
		EndsAt:          resp.EndsAt,
		DurationMinutes: resp.DurationMinutes,
		Status:          string(resp.Status),
		Source:          string(resp.Source),
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
