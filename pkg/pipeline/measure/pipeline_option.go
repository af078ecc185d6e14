package measure

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-passpipe/pkg/pipeline/model"
)

var ErrUnknownStep = errors.New("unknown step")

type pipelineMeasure struct {
	Measure
}

func (pm *pipelineMeasure) New(pipelineName string) error {
	return nil
}

func (pm *pipelineMeasure) PrepareStep(parentStep, step *model.StepInfo) error {
	pm.AddMetric(step.Path)

	return nil
}

func (pm *pipelineMeasure) BeforePass(pass int) error {
	return nil
}

func (pm *pipelineMeasure) OnStepResult(step *model.StepInfo, result model.StepResult) error {
	mt := pm.GetMetric(step.Path)
	if mt == nil {
		return errors.Wrap(ErrUnknownStep, step.Path)
	}

	switch {
	case result.Cached:
		mt.AddCacheHit()
	case result.Status == model.StatusError:
		mt.AddError()
	default:
		mt.AddDuration(result.Duration)
	}

	return nil
}

func (pm *pipelineMeasure) AfterPass(pass int, signal string) error {
	pm.AddPass()

	return nil
}

func (pm *pipelineMeasure) Finish() error {
	return nil
}

// PipelineMeasure records the executions of every step into measure.
func PipelineMeasure(measure Measure) model.PipelineOption {
	return &pipelineMeasure{measure}
}
