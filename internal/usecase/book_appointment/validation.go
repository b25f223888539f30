package book_appointment

import (
	"fmt"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, maxDurationMinutes int) error {
	if req.ProviderID <= 0 {
		return fmt.Errorf("%w: providerID must be positive", ErrInvalidInput)
	}

	if req.PatientID <= 0 {
		return fmt.Errorf("%w: patientID must be positive", ErrInvalidInput)
	}

	if req.StartAt.IsZero() {
		return fmt.Errorf("%w: start time is required", ErrInvalidInput)
	}

	if req.DurationMinutes <= 0 || req.DurationMinutes > maxDurationMinutes {
		return fmt.Errorf("%w: duration must be in range 1..%d minutes", ErrInvalidInput, maxDurationMinutes)
	}

	if req.Source != domain.SourceProvider && req.Source != domain.SourcePublic {
		return fmt.Errorf("%w: unknown booking source %q", ErrInvalidInput, req.Source)
	}

	// Проверяем длину заметок
	if req.Notes != nil && len([]rune(*req.Notes)) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes too long (max %d characters)", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}
