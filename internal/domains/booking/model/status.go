package model

import "slices"

// Status is the lifecycle state of a booking. A booking starts PENDING and
// only ever moves along the transition table below; CANCELLED and COMPLETED
// are terminal.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCheckedIn Status = "CHECKED_IN"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn: {StatusCompleted},
}

// CanTransition reports whether moving from s to the given status is legal.
func (s Status) CanTransition(to Status) bool {
	return slices.Contains(transitions[s], to)
}

// Terminal reports whether the booking can no longer change state. Terminal
// bookings never count towards room occupancy.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCheckedIn, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

// TerminalStatuses returns the terminal set as strings, for SQL filters.
func TerminalStatuses() []string {
	return []string{string(StatusCancelled), string(StatusCompleted)}
}

// Event returns the stream event name announced when a booking enters s.
func (s Status) Event() string {
	switch s {
	case StatusPending:
		return "booking.reserved"
	case StatusConfirmed:
		return "booking.confirmed"
	case StatusCheckedIn:
		return "booking.checked_in"
	case StatusCompleted:
		return "booking.checked_out"
	case StatusCancelled:
		return "booking.cancelled"
	default:
		return "booking.unknown"
	}
}
