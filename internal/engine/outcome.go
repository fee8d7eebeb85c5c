package engine

// Outcome reports what a mutation did. Mutations never fail; a call that
// cannot apply degrades to a no-op and says why.
type Outcome int

const (
	// OutcomeApplied means state changed and was persisted.
	OutcomeApplied Outcome = iota
	// OutcomeNoChange means the operation was already applied.
	OutcomeNoChange
	OutcomeUnknownUnit
	OutcomeUnknownCard
	OutcomeUnknownSection
	OutcomeUnknownQuestion
	// OutcomePrerequisiteNotMet is only returned in strict mode.
	OutcomePrerequisiteNotMet
	OutcomeInvalidAmount
	// OutcomeNotLoaded means Load has not finished.
	OutcomeNotLoaded
)

// String returns a short label for logs and CLI output.
func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeNoChange:
		return "no change"
	case OutcomeUnknownUnit:
		return "unknown unit"
	case OutcomeUnknownCard:
		return "unknown card"
	case OutcomeUnknownSection:
		return "unknown section"
	case OutcomeUnknownQuestion:
		return "unknown question"
	case OutcomePrerequisiteNotMet:
		return "prerequisite not met"
	case OutcomeInvalidAmount:
		return "invalid amount"
	case OutcomeNotLoaded:
		return "not loaded"
	default:
		return "unknown"
	}
}

// Applied reports whether state changed.
func (o Outcome) Applied() bool {
	return o == OutcomeApplied
}
