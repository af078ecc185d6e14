package drawer

import (
	"time"

	"github.com/askiada/go-passpipe/pkg/pipeline/measure"
	"github.com/askiada/go-passpipe/pkg/pipeline/model"
)

// Drawer is an interface that defines the methods for drawing a step tree.
type Drawer interface {
	// AddStep adds a step to the drawer. Adding a path twice is a no-op.
	AddStep(step *model.StepInfo) error
	// AddLink adds a link between a parent step and its child.
	AddLink(parentPath, childPath string) error
	// SetStatus colours the step according to its last status.
	SetStatus(path, status string) error
	// SetTotalTime labels the step with the time elapsed since startTime.
	SetTotalTime(path string, startTime time.Time) error
	// AddMeasure labels and colours the steps with their metrics.
	AddMeasure(msr measure.Measure) error
	// Draw creates a file with the step graph.
	Draw() error
}
