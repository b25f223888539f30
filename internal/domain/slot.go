package domain

import "time"

// SlotReason explains why a slot is unavailable. Empty for available slots.
type SlotReason string

const (
	SlotReasonNone     SlotReason = ""
	SlotReasonPastTime SlotReason = "past_time"
	SlotReasonBlocked  SlotReason = "blocked"
	SlotReasonOccupied SlotReason = "occupied"
)

// Slot is a derived, never persisted candidate interval [Start, End)
type Slot struct {
	Start           time.Time
	End             time.Time
	DurationMinutes int
	Available       bool
	Reason          SlotReason
	BlockTitle      string // title of the blocking exclusion when Reason == SlotReasonBlocked
}

// CountByReason counts slots grouped by reason ("" for available)
func CountByReason(slots []Slot) map[SlotReason]int {
	counts := make(map[SlotReason]int)
	for _, s := range slots {
		counts[s.Reason]++
	}
	return counts
}

// SlotReasonNoAvailability is reported by slot validation only: no active
// availability window of the weekday fully contains the requested interval.
const SlotReasonNoAvailability SlotReason = "no_availability"
