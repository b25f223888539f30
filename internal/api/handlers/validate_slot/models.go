package validate_slot

import (
	"time"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/api/handlers"
	validateSlot "github.com/m04kA/NutriClinic-SchedulingService/internal/usecase/validate_slot"
)

// ValidateSlotRequest HTTP request model
type ValidateSlotRequest struct {
	StartAt              time.Time `json:"startAt"` // RFC 3339
	DurationMinutes      int       `json:"durationMinutes"`
	ExcludeAppointmentID *int64    `json:"excludeAppointmentId,omitempty"`
}

// ValidateSlotResponse HTTP response model
type ValidateSlotResponse struct {
	ProviderID               int64     `json:"providerId"`
	StartAt                  time.Time `json:"startAt"`
	EndAt                    time.Time `json:"endAt"`
	DurationMinutes          int       `json:"durationMinutes"`
	Valid                    bool      `json:"valid"`
	Reason                   string    `json:"reason,omitempty"`
	Message                  string    `json:"message,omitempty"`
	BlockTitle               string    `json:"blockTitle,omitempty"`
	ConflictingAppointmentID *int64    `json:"conflictingAppointmentId,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ValidateSlotRequest) ToUseCaseRequest(providerID int64) *validateSlot.Request {
	return &validateSlot.Request{
		ProviderID:           providerID,
		StartAt:              r.StartAt,
		DurationMinutes:      r.DurationMinutes,
		ExcludeAppointmentID: r.ExcludeAppointmentID,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *validateSlot.Response) *ValidateSlotResponse {
	return &ValidateSlotResponse{
		ProviderID:               resp.ProviderID,
		StartAt:                  resp.StartAt,
		EndAt:                    resp.EndAt,
		DurationMinutes:          resp.DurationMinutes,
		Valid:                    resp.Valid,
		Reason:                   string(resp.Reason),
		Message:                  handlers.SlotReasonMessage(resp.Reason),
		BlockTitle:               resp.BlockTitle,
		ConflictingAppointmentID: resp.ConflictingAppointmentID,
	}
}
