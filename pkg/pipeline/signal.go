package pipeline

// Signal tells the pipeline how to continue after a step returns.
type Signal int

const (
	// Continue is the default signal, reset at the start of every pass.
	Continue Signal = iota
	// SkipRestOfPass stops the remaining steps of the current pass.
	SkipRestOfPass
	// StartAnotherPass asks for a new pass once the current one is finished.
	// Inside a group it stops the remaining children.
	StartAnotherPass
	// AbortPipeline stops the run immediately.
	AbortPipeline
)

func (s Signal) String() string {
	switch s {
	case Continue:
		return "continue"
	case SkipRestOfPass:
		return "skip_rest_of_pass"
	case StartAnotherPass:
		return "start_another_pass"
	case AbortPipeline:
		return "abort_pipeline"
	default:
		return "unknown"
	}
}

// stopsGroup reports whether a group must stop iterating its children.
func (s Signal) stopsGroup() bool {
	return s != Continue
}

// stopsPass reports whether the pipeline must stop iterating its top-level steps.
func (s Signal) stopsPass() bool {
	return s == SkipRestOfPass || s == AbortPipeline
}
