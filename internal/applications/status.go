// Package applications tracks job applications on a kanban board.
//
// Valid status graph:
//
//	SAVED ──► APPLIED ──► INTERVIEW ──► OFFER ──► HIRED
//	  │          │            │           │
//	  └──────────┴────────────┴───────────┴──► REJECTED
//
// HIRED and REJECTED are terminal states.
package applications

import (
	"fmt"
	"strings"
)

// Status is a kanban column.
type Status string

// Statuses
const (
	StatusSaved     Status = "SAVED"
	StatusApplied   Status = "APPLIED"
	StatusInterview Status = "INTERVIEW"
	StatusOffer     Status = "OFFER"
	StatusHired     Status = "HIRED"
	StatusRejected  Status = "REJECTED"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[Status][]Status{
	StatusSaved:     {StatusApplied, StatusRejected},
	StatusApplied:   {StatusInterview, StatusRejected},
	StatusInterview: {StatusOffer, StatusRejected},
	StatusOffer:     {StatusHired, StatusRejected},
}

// Statuses returns every status in board order.
func Statuses() []Status {
	return []Status{StatusSaved, StatusApplied, StatusInterview, StatusOffer, StatusHired, StatusRejected}
}

// ParseStatus converts a raw string to a Status. Case is ignored.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Statuses() {
		if st == known {
			return st, nil
		}
	}
	return "", &InvalidStatusError{Value: s}
}

// IsTransitionAllowed reports whether moving from → to is permitted.
func IsTransitionAllowed(from, to Status) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func IsTerminal(s Status) bool {
	_, ok := validTransitions[s]
	return !ok
}

// InvalidStatusError is returned for unknown status names.
type InvalidStatusError struct {
	Value string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("unknown application status %q", e.Value)
}

// TransitionError is returned for a move the state machine forbids.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition %s → %s is not allowed", e.From, e.To)
}
