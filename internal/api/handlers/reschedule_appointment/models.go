package reschedule_appointment

import (
	"time"

	rescheduleAppointment "github.com/m04kA/NutriClinic-SchedulingService/internal/usecase/reschedule_appointment"
)

// RescheduleRequest HTTP request model
type RescheduleRequest struct {
	StartAt         time.Time `json:"startAt"`                   // RFC 3339
	DurationMinutes int       `json:"durationMinutes,omitempty"` // 0 - оставить прежнюю
}

// RescheduleResponse HTTP response model
type RescheduleResponse struct {
	ID              int64     `json:"id"`
	ProviderID      int64     `json:"providerId"`
	PatientID       int64     `json:"patientId"`
	ScheduledAt     time.Time `json:"scheduledAt"`
	EndsAt          time.Time `json:"endsAt"`
	DurationMinutes int       `json:"durationMinutes"`
	Status          string    `json:"status"`
	PreviousStartAt time.Time `json:"previousStartAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleRequest) ToUseCaseRequest(appointmentID, actorID int64) *rescheduleAppointment.Request {
	return &rescheduleAppointment.Request{
		AppointmentID:   appointmentID,
		ActorID:         actorID,
		StartAt:         r.StartAt,
		DurationMinutes: r.DurationMinutes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleAppointment.Response) *RescheduleResponse {
	return &RescheduleResponse{
		ID:              resp.ID,
		ProviderID:      resp.ProviderID,
		PatientID:       resp.PatientID,
		ScheduledAt:     resp.ScheduledAt,
		EndsAt:          resp.EndsAt,
		DurationMinutes: resp.DurationMinutes,
		Status:          string(resp.Status),
		PreviousStartAt: resp.PreviousStartAt,
	}
}
