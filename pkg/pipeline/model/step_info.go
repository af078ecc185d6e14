package model

import "time"

type StepKind string

const (
	PipelineKind StepKind = "pipeline"
	LeafKind     StepKind = "leaf"
	GroupKind    StepKind = "group"
)

// Step statuses recorded in the step diagnostics.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// PathSeparator joins step names into a path.
const PathSeparator = "/"

// StepInfo describes one position in the step tree.
// Path tells apart steps sharing a name under different parents. Siblings
// sharing a name share a path.
type StepInfo struct {
	Kind            StepKind
	Name            string
	Path            string
	Depth           int
	FingerprintKeys []string
}

// Root returns the info of the pipeline itself, parent of the top-level steps.
func Root(pipelineName string) *StepInfo {
	return &StepInfo{
		Kind: PipelineKind,
		Name: pipelineName,
		Path: pipelineName,
	}
}

// Child returns the path of a step named name below parent.
func (si *StepInfo) Child(name string) string {
	if si == nil || si.Path == "" {
		return name
	}

	return si.Path + PathSeparator + name
}

// StepResult is the outcome of one step invocation.
type StepResult struct {
	Status   string
	Err      error
	Duration time.Duration
	Cached   bool
}
