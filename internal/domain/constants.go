package domain

import "errors"

// Slot generation constants
const (
	SlotGridStepMinutes = 30 // slots start every 30 minutes from the window start
)

// DefaultOfferedDurations durations (minutes) offered to booking UIs
var DefaultOfferedDurations = []int{30, 45, 60, 90, 120}

// Business validation constants
const (
	MaxAppointmentDurationMinutes = 480 // 8 hours
	MaxExclusionTitleLength       = 200
	MaxNotesLength                = 500
	MaxCancellationReasonLength   = 500
)

// Time format constants
const (
	TimeFormat = "15:04:05"   // HH:MM:SS
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

var (
	// ErrUnknownStatus возвращается при разборе неизвестного статуса записи
	ErrUnknownStatus = errors.New("domain: unknown appointment status")

	// ErrUnknownExclusionKind возвращается при разборе неизвестного типа исключения
	ErrUnknownExclusionKind = errors.New("domain: unknown exclusion kind")
)
