package model

// PipelineOption defines the interface for pipeline observers.
// Every hook returning an error stops the run with that error.
type PipelineOption interface {
	// New initialises the observer for the named pipeline.
	New(pipelineName string) error
	// PrepareStep runs once per tree position when the pipeline is built.
	PrepareStep(parentStep, step *StepInfo) error

	pipelinePassOption

	// OnStepResult runs after every step invocation, cache hits included.
	OnStepResult(step *StepInfo, result StepResult) error
	// Finish runs after the pipeline is finished, whatever the outcome.
	Finish() error
}

// pipelinePassOption defines the pass level hooks.
type pipelinePassOption interface {
	// BeforePass runs before the pass number pass (starting at 1).
	BeforePass(pass int) error
	// AfterPass runs after a pass completed, with the signal observed at its end.
	AfterPass(pass int, signal string) error
}
