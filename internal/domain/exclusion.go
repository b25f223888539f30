package domain

import (
	"fmt"
	"time"
)

// ExclusionKind categorical tag of an exclusion block
type ExclusionKind string

const (
	ExclusionPersonal ExclusionKind = "personal"
	ExclusionHoliday  ExclusionKind = "holiday"
	ExclusionVacation ExclusionKind = "vacation"
	ExclusionOther    ExclusionKind = "other"
)

// AllExclusionKinds lists every known kind
var AllExclusionKinds = []ExclusionKind{
	ExclusionPersonal,
	ExclusionHoliday,
	ExclusionVacation,
	ExclusionOther,
}

// ParseExclusionKind converts a string into a known ExclusionKind
func ParseExclusionKind(s string) (ExclusionKind, error) {
	for _, kind := range AllExclusionKinds {
		if string(kind) == s {
			return kind, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownExclusionKind, s)
}

// ExclusionBlock represents a concrete, one-off unavailable period of a provider.
// It may span several days.
type ExclusionBlock struct {
	ID         int64
	ProviderID int64
	StartAt    time.Time
	EndAt      time.Time
	Title      string
	Kind       ExclusionKind
	CreatedAt  time.Time
}
