// Package requests implements the job-request lifecycle: creation by a
// company, accept/reject by the requested technician, cancellation by either
// party, and the acceptance-detail capture that accompanies an accept.
//
// Valid status graph:
//
//	pending ──► accepted
//	    │
//	    ├─────► rejected
//	    │
//	    └─────► cancelled
//
// accepted, rejected and cancelled are terminal states.
package requests

import "fmt"

// Status values mirror the job_requests.status column.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[Status][]Status{
	StatusPending: {StatusAccepted, StatusRejected, StatusCancelled},
	// terminal states have no outgoing transitions
}

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusPending, StatusAccepted, StatusRejected, StatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("unknown job request status %q", s)
}

// IsTransitionAllowed returns true when moving from → to is permitted.
func IsTransitionAllowed(from, to Status) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false // terminal state
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status has no outgoing transitions.
func IsTerminal(s Status) bool {
	_, ok := validTransitions[s]
	return !ok
}
