package pipeline

import (
	"github.com/askiada/go-passpipe/pkg/pipeline/measure"
)

// WithMeasure records per step metrics of every run into msr.
func WithMeasure(msr measure.Measure) Option {
	return WithObserver(measure.PipelineMeasure(msr))
}
