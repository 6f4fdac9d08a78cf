package model

import "fmt"

// OutcomeKind classifies the result of one delete attempt.
type OutcomeKind int

// Delete outcomes. Rate limiting is not represented here: the delete
// executor resolves a 429 internally by sleeping out the Retry-After and
// re-issuing the call once, and reports whatever that resolves to.
const (
	OutcomeDeleted OutcomeKind = iota
	OutcomeForbidden
	OutcomeFailed
	OutcomeNetworkFailure
)

// Outcome is the resolved result of one delete call.
type Outcome struct {
	Kind OutcomeKind

	// Status is the HTTP status code for OutcomeFailed.
	Status int
}

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeDeleted:
		return "deleted"
	case OutcomeForbidden:
		return "forbidden"
	case OutcomeNetworkFailure:
		return "network failure"
	default:
		return fmt.Sprintf("failed (status %d)", o.Status)
	}
}
