package get_available_slots

import (
	"fmt"
	"slices"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, offeredDurations []int) error {
	if req.ProviderID <= 0 {
		return fmt.Errorf("%w: providerID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.OrganizationID < 0 {
		return fmt.Errorf("%w: organizationID must not be negative", ErrInvalidInput)
	}

	if req.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}

	if len(offeredDurations) > 0 && !slices.Contains(offeredDurations, req.DurationMinutes) {
		return fmt.Errorf("%w: %d minutes, offered %v", ErrDurationNotOffered, req.DurationMinutes, offeredDurations)
	}

	return nil
}
