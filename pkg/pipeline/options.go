package pipeline

import (
	"log/slog"

	"github.com/askiada/go-passpipe/pkg/pipeline/model"
)

type Option func(p *Pipeline)

// WithName sets the diagnostic name of the pipeline.
func WithName(name string) Option {
	return func(p *Pipeline) {
		p.name = name
	}
}

// WithMaxPasses sets how many passes a run may take before failing.
func WithMaxPasses(maxPasses int) Option {
	return func(p *Pipeline) {
		p.maxPasses = maxPasses
	}
}

// WithLogger sets the logger used for pass level records.
// It is also handed to the steps when the context runs with the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithObserver registers observers notified of the pipeline lifecycle.
func WithObserver(observers ...model.PipelineOption) Option {
	return func(p *Pipeline) {
		p.observers = append(p.observers, observers...)
	}
}

type StepOption func(s *Step)

// WithFingerprint caches the step on the given context fields.
// Without this option a step always runs.
func WithFingerprint(keys ...string) StepOption {
	return func(s *Step) {
		s.fingerprintKeys = append([]string{}, keys...)
	}
}
