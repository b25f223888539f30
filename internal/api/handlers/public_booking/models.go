package public_booking

import (
	"time"

	publicBooking "github.com/m04kA/NutriClinic-SchedulingService/internal/usecase/public_booking"
)

// PublicBookingRequest HTTP request model
type PublicBookingRequest struct {
	StartAt         time.Time `json:"startAt"` // RFC 3339
	DurationMinutes int       `json:"durationMinutes"`
	FullName        string    `json:"fullName"`
	Email           *string   `json:"email,omitempty"`
	Phone           *string   `json:"phone,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
}

// PublicBookingResponse HTTP response model
type PublicBookingResponse struct {
	AppointmentID   int64     `json:"appointmentId"`
	ProviderID      int64     `json:"providerId"`
	ScheduledAt     time.Time `json:"scheduledAt"`
	EndsAt          time.Time `json:"endsAt"`
	DurationMinutes int       `json:"durationMinutes"`
	Status          string    `json:"status"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *PublicBookingRequest) ToUseCaseRequest(organizationID, providerID int64) *publicBooking.Request {
	return &publicBooking.Request{
		OrganizationID:  organizationID,
		ProviderID:      providerID,
		StartAt:         r.StartAt,
		DurationMinutes: r.DurationMinutes,
		Visitor: publicBooking.Visitor{
			FullName: r.FullName,
			Email:    r.Email,
			Phone:    r.Phone,
		},
		Notes: r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response.
// ID пациента посетителю не возвращается.
func FromUseCaseResponse(resp *publicBooking.Response) *PublicBookingResponse {
	return &PublicBookingResponse{
		AppointmentID:   resp.AppointmentID,
		ProviderID:      resp.ProviderID,
		ScheduledAt:     resp.ScheduledAt,
		EndsAt:          resp.EndsAt,
		DurationMinutes: resp.DurationMinutes,
		Status:          string(resp.Status),
	}
}
