package classification

// OutcomeStatus replaces try/catch-and-fall-back control flow with an
// explicit three-way result consumed by the orchestrator's precedence table.
type OutcomeStatus int

const (
	OutcomeSuccess OutcomeStatus = iota
	OutcomeSkipped
	OutcomeFailed
)

func (s OutcomeStatus) String() string {
	switch s {
	case OutcomeSuccess:
		return "success"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FailureKind distinguishes why an external call failed. All kinds are
// non-fatal to the caller.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureConnRefused
	FailureTimeout
	FailureMalformed
	FailureOther
)

func (k FailureKind) String() string {
	switch k {
	case FailureConnRefused:
		return "connection_refused"
	case FailureTimeout:
		return "timeout"
	case FailureMalformed:
		return "malformed_response"
	case FailureOther:
		return "other"
	default:
		return "none"
	}
}

type AIOutcome struct {
	Status OutcomeStatus
	Label  string
	// Degraded marks a reply that was outside the closed label set and got
	// normalized to PERSONAL. Still a success for precedence purposes.
	Degraded bool
	Err      error
}

type MLOutcome struct {
	Status     OutcomeStatus
	Prediction MLPrediction
	Kind       FailureKind
	Err        error
}
