package public_booking

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"unicode/utf8"
)

const maxFullNameLength = 200

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, offeredDurations []int) error {
	if req.OrganizationID <= 0 {
		return fmt.Errorf("%w: organizationID must be positive", ErrInvalidInput)
	}
	if req.ProviderID <= 0 {
		return fmt.Errorf("%w: providerID must be positive", ErrInvalidInput)
	}
	if req.StartAt.IsZero() {
		return fmt.Errorf("%w: start time is required", ErrInvalidInput)
	}
	if req.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}
	if len(offeredDurations) > 0 && !slices.Contains(offeredDurations, req.DurationMinutes) {
		return fmt.Errorf("%w: duration %d is not offered", ErrInvalidInput, req.DurationMinutes)
	}

	name := strings.TrimSpace(req.Visitor.FullName)
	if name == "" {
		return fmt.Errorf("%w: full name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > maxFullNameLength {
		return fmt.Errorf("%w: full name too long (max %d characters)", ErrInvalidInput, maxFullNameLength)
	}

	// Нужен хотя бы один способ связи
	if isBlank(req.Visitor.Email) && isBlank(req.Visitor.Phone) {
		return fmt.Errorf("%w: email or phone is required", ErrInvalidInput)
	}
	if !isBlank(req.Visitor.Email) {
		if _, err := mail.ParseAddress(*req.Visitor.Email); err != nil {
			return fmt.Errorf("%w: invalid email", ErrInvalidInput)
		}
	}

	return nil
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
