package model

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state of a reservation.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

// transitions holds the state changes allowed through the status endpoint. A
// status missing from the map is terminal. COMPLETED is written by the
// post-stay housekeeping job, never through a status update.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled},
}

// ParseStatus normalizes and validates a status string.
func ParseStatus(value string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(value)))

	switch status {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return status, nil
	default:
		return "", fmt.Errorf("unknown reservation status: %q", value)
	}
}

// CanTransitionTo reports whether moving from s to target is a legal state
// change.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}

	return false
}

// IsTerminal reports whether no further transitions are possible from s.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

func (s Status) String() string {
	return string(s)
}

// ActiveStatuses returns the statuses that block overlapping reservations.
// A cancelled reservation frees its dates.
func ActiveStatuses() []Status {
	return []Status{StatusPending, StatusConfirmed, StatusCompleted}
}
