package cancel_appointment

import (
	"strings"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/service/appointments/models"
)

// CancelAppointmentRequest HTTP request model
type CancelAppointmentRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelAppointmentRequest) ToServiceRequest(actorID int64) *models.CancelRequest {
	req := &models.CancelRequest{ActorID: actorID}
	if r.CancellationReason != nil {
		if reason := strings.TrimSpace(*r.CancellationReason); reason != "" {
			req.CancellationReason = &reason
		}
	}
	return req
}
