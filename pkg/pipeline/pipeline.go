package pipeline

import (
	"log/slog"

	"github.com/pkg/errors"

	"github.com/askiada/go-passpipe/pkg/log"
	"github.com/askiada/go-passpipe/pkg/pipeline/model"
)

const (
	DefaultName      = "pipeline"
	DefaultMaxPasses = 3
)

// Pipeline runs an ordered list of steps, pass after pass, until no step
// requests another pass.
type Pipeline struct {
	steps     []*Step
	name      string
	maxPasses int
	logger    *slog.Logger
	observers []model.PipelineOption
	root      *model.StepInfo
	passes    int
}

// New creates a new pipeline.
func New(steps []*Step, opts ...Option) (*Pipeline, error) {
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}

	pipe := &Pipeline{
		steps:     append([]*Step(nil), steps...),
		name:      DefaultName,
		maxPasses: DefaultMaxPasses,
	}
	for _, opt := range opts {
		opt(pipe)
	}

	if pipe.maxPasses <= 0 {
		return nil, errors.Wrapf(ErrInvalidMaxPasses, "got %d", pipe.maxPasses)
	}

	pipe.root = model.Root(pipe.name)

	for _, obs := range pipe.observers {
		err := obs.New(pipe.name)
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	for _, step := range pipe.steps {
		err := pipe.prepare(pipe.root, step, 1)
		if err != nil {
			return nil, err
		}
	}

	return pipe, nil
}

// prepare checks the tree and announces every position to the observers.
func (p *Pipeline) prepare(parent *model.StepInfo, step *Step, depth int) error {
	if step == nil {
		return errors.Wrapf(ErrNilStep, "below %s", parent.Path)
	}

	info := step.info(parent, depth)
	for _, obs := range p.observers {
		err := obs.PrepareStep(parent, info)
		if err != nil {
			return errors.Wrapf(err, "unable to prepare step %s", info.Path)
		}
	}

	for _, child := range step.children {
		err := p.prepare(info, child, depth+1)
		if err != nil {
			return err
		}
	}

	return nil
}

func (p *Pipeline) Name() string {
	return p.name
}

func (p *Pipeline) MaxPasses() int {
	return p.maxPasses
}

// Passes returns the number of passes of the last run.
func (p *Pipeline) Passes() int {
	return p.passes
}

// Run executes passes over the steps until the run completes, is aborted, or
// fails. A step error is returned unchanged. A *PassLimitError is returned
// when another pass is requested after MaxPasses passes.
func (p *Pipeline) Run(ctx *Context) (out *Context, err error) {
	if ctx == nil {
		return nil, ErrNilContext
	}

	prevLogger, prevObservers := ctx.logger, ctx.observers

	if p.logger != nil && !ctx.ownLogger {
		ctx.logger = p.logger
	}

	ctx.observers = p.observers
	logger := ctx.Logger().With(log.Pipeline(p.name), log.RunID(ctx.RunID()))

	defer func() {
		ctx.logger, ctx.observers = prevLogger, prevObservers

		finishErr := p.finishRun()
		if finishErr != nil && err == nil {
			err = finishErr
		}
	}()

	p.passes = 0
	out = ctx

	for {
		out, err = p.runPass(out, logger)
		if err != nil {
			return out, err
		}

		signal := out.Signal()
		switch signal {
		case AbortPipeline:
			logger.Info("pipeline aborted", log.Pass(p.passes))

			return out, nil
		case StartAnotherPass:
			if p.passes >= p.maxPasses {
				logger.Error("pipeline exceeded its pass limit", log.Pass(p.passes))

				return out, &PassLimitError{Pipeline: p.name, MaxPasses: p.maxPasses}
			}

			logger.Info("pipeline starting another pass", log.Pass(p.passes+1))
		default:
			logger.Info("pipeline finished", log.Pass(p.passes), log.Signal(signal))

			return out, nil
		}
	}
}

func (p *Pipeline) runPass(ctx *Context, logger *slog.Logger) (*Context, error) {
	pass := p.passes + 1
	ctx.Continue()

	for _, obs := range p.observers {
		err := obs.BeforePass(pass)
		if err != nil {
			return ctx, errors.Wrapf(err, "unable to run before pass %d", pass)
		}
	}

	logger.Info("pass started", log.Pass(pass))

	for _, step := range p.steps {
		var err error

		ctx, err = step.run(ctx, p.root, 1)
		if err != nil {
			return ctx, err
		}

		if ctx.Signal().stopsPass() {
			break
		}
	}

	p.passes = pass

	for _, obs := range p.observers {
		err := obs.AfterPass(pass, ctx.Signal().String())
		if err != nil {
			return ctx, errors.Wrapf(err, "unable to run after pass %d", pass)
		}
	}

	return ctx, nil
}

func (p *Pipeline) finishRun() error {
	for _, obs := range p.observers {
		err := obs.Finish()
		if err != nil {
			return errors.Wrap(err, "unable to finish pipeline option")
		}
	}

	return nil
}
