package domain

import "github.com/avmakarov/DrivingSchool-BookingService/pkg/types"

// UnavailableReasonDefault подпись для занятого слота без явной причины
const UnavailableReasonDefault = "Unavailable"

// TimeSlot represents a candidate bookable window within working hours.
// Derived value - recomputed on every availability query, never persisted.
type TimeSlot struct {
	StartTime       types.TimeString
	DurationMinutes int
	Available       bool

	// Reason is set for unavailable slots - the conflicting event's
	// label, or UnavailableReasonDefault
	Reason string
}

// EndTime returns the end of the slot window
func (s *TimeSlot) EndTime() (types.TimeString, error) {
	return s.StartTime.AddMinutes(s.DurationMinutes)
}
