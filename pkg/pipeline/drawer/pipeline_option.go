package drawer

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-passpipe/pkg/pipeline/measure"
	"github.com/askiada/go-passpipe/pkg/pipeline/model"
)

type pipelineDrawer struct {
	Drawer
	m         measure.Measure
	root      *model.StepInfo
	startTime time.Time
}

func (pd *pipelineDrawer) New(pipelineName string) error {
	pd.root = model.Root(pipelineName)

	err := pd.AddStep(pd.root)
	if err != nil {
		return errors.Wrap(err, "unable to add root step to drawer")
	}

	return nil
}

func (pd *pipelineDrawer) PrepareStep(parentStep, step *model.StepInfo) error {
	err := pd.AddStep(step)
	if err != nil {
		return err
	}

	err = pd.AddLink(parentStep.Path, step.Path)
	if err != nil {
		return err
	}

	return nil
}

func (pd *pipelineDrawer) BeforePass(pass int) error {
	if pass == 1 {
		pd.startTime = time.Now()
	}

	return nil
}

func (pd *pipelineDrawer) OnStepResult(step *model.StepInfo, result model.StepResult) error {
	status := result.Status
	if result.Cached {
		status = measure.CachedStatus
	}

	return pd.SetStatus(step.Path, status)
}

func (pd *pipelineDrawer) AfterPass(pass int, signal string) error {
	return nil
}

func (pd *pipelineDrawer) Finish() error {
	if pd.m != nil {
		err := pd.AddMeasure(pd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	if !pd.startTime.IsZero() {
		err := pd.SetTotalTime(pd.root.Path, pd.startTime)
		if err != nil {
			return errors.Wrap(err, "unable to set total time")
		}
	}

	err := pd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

// PipelineDrawer draws the step tree once the pipeline is finished.
// When measure is not nil, the steps are labelled with their metrics.
func PipelineDrawer(drawer Drawer, measure measure.Measure) model.PipelineOption {
	return &pipelineDrawer{Drawer: drawer, m: measure}
}
