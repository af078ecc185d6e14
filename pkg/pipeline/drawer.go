package pipeline

import (
	"github.com/askiada/go-passpipe/pkg/pipeline/drawer"
	"github.com/askiada/go-passpipe/pkg/pipeline/measure"
)

// WithDrawer draws the step tree with d once a run finishes.
// msr may be nil; when set, register it with WithMeasure first so its
// metrics are up to date when the drawing is made.
func WithDrawer(d drawer.Drawer, msr measure.Measure) Option {
	return WithObserver(drawer.PipelineDrawer(d, msr))
}

// WithDOTFile writes the step tree to a Graphviz DOT file once a run finishes.
func WithDOTFile(fileName string, msr measure.Measure) Option {
	return WithDrawer(drawer.NewDOTDrawer(fileName), msr)
}
