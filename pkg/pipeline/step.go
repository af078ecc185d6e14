package pipeline

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-passpipe/pkg/log"
	"github.com/askiada/go-passpipe/pkg/pipeline/model"
)

// LogicFunc is the body of a leaf step.
// Returning a nil context keeps the one passed in.
type LogicFunc func(ctx *Context) (*Context, error)

type stepKind int

const (
	leafStep stepKind = iota
	groupStep
)

// Step is a node of the step tree: a leaf running a LogicFunc, or a group
// running its children in order.
type Step struct {
	kind            stepKind
	name            string
	fingerprintKeys []string
	children        []*Step
	logic           LogicFunc
}

// Func creates a leaf step running fn.
func Func(name string, fn LogicFunc, opts ...StepOption) *Step {
	step := &Step{
		kind:  leafStep,
		name:  name,
		logic: fn,
	}
	for _, opt := range opts {
		opt(step)
	}

	return step
}

// Group creates a step running children in order.
func Group(name string, children []*Step, opts ...StepOption) *Step {
	step := &Step{
		kind:     groupStep,
		name:     name,
		children: append([]*Step(nil), children...),
	}
	for _, opt := range opts {
		opt(step)
	}

	return step
}

// NewStep creates a group when children is not empty, a leaf running logic
// otherwise. A nil logic makes a leaf that leaves the context untouched.
func NewStep(name string, logic LogicFunc, children []*Step, opts ...StepOption) *Step {
	if len(children) > 0 {
		return Group(name, children, opts...)
	}

	return Func(name, logic, opts...)
}

func (s *Step) Name() string {
	return s.name
}

func (s *Step) IsGroup() bool {
	return s.kind == groupStep
}

func (s *Step) Children() []*Step {
	return append([]*Step(nil), s.children...)
}

// FingerprintKeys returns the context fields hashed for the cache, nil when the step is never cached.
func (s *Step) FingerprintKeys() []string {
	if s.fingerprintKeys == nil {
		return nil
	}

	return append([]string{}, s.fingerprintKeys...)
}

// Fingerprint hashes the fingerprinted fields of ctx.
// It returns an empty string when the step has no fingerprint keys.
func (s *Step) Fingerprint(ctx *Context) (string, error) {
	if s.fingerprintKeys == nil {
		return "", nil
	}

	fp, err := Fingerprint(ctx.project(s.fingerprintKeys))
	if err != nil {
		return "", errors.Wrapf(err, "unable to fingerprint step %s", s.name)
	}

	return fp, nil
}

// Run executes the step against ctx.
// A step whose fingerprint matches its last successful execution is skipped.
func (s *Step) Run(ctx *Context) (*Context, error) {
	return s.run(ctx, nil, 1)
}

func (s *Step) info(parent *model.StepInfo, depth int) *model.StepInfo {
	kind := model.LeafKind
	if s.kind == groupStep {
		kind = model.GroupKind
	}

	return &model.StepInfo{
		Kind:            kind,
		Name:            s.name,
		Path:            parent.Child(s.name),
		Depth:           depth,
		FingerprintKeys: s.FingerprintKeys(),
	}
}

func (s *Step) run(ctx *Context, parent *model.StepInfo, depth int) (*Context, error) {
	info := s.info(parent, depth)
	logger := ctx.Logger().With(log.Step(s.name), log.Depth(depth), log.RunID(ctx.RunID()))
	meta := ctx.meta(s.name)

	logger.Info("step started")

	fp, err := s.Fingerprint(ctx)
	if err != nil {
		return ctx, err
	}

	if fp != "" && meta.InputHash == fp && meta.Status == model.StatusOK {
		logger.Info("step skipped, cache hit")

		err = ctx.notify(info, model.StepResult{Status: meta.Status, Duration: meta.Duration, Cached: true})
		if err != nil {
			return ctx, errors.Wrapf(err, "unable to notify cache hit of step %s", s.name)
		}

		return ctx, nil
	}

	meta.InputHash = fp

	out, err := s.execute(ctx, meta, info, depth)
	if err != nil {
		logger.Error("step failed", log.Error(err), log.Duration(meta.Duration))

		notifyErr := ctx.notify(info, model.StepResult{Status: meta.Status, Err: err, Duration: meta.Duration})
		if notifyErr != nil {
			logger.Error("unable to notify step failure", log.Error(notifyErr))
		}

		return out, err
	}

	logger.Info("step finished", log.Status(meta.Status), log.Duration(meta.Duration))

	err = ctx.notify(info, model.StepResult{Status: meta.Status, Duration: meta.Duration})
	if err != nil {
		return out, errors.Wrapf(err, "unable to notify result of step %s", s.name)
	}

	return out, nil
}

// execute runs the body and records status, error and duration into meta.
func (s *Step) execute(ctx *Context, meta *StepMeta, info *model.StepInfo, depth int) (out *Context, err error) {
	start := time.Now()
	out = ctx

	defer func() {
		meta.Duration = time.Since(start).Round(time.Millisecond)
	}()

	defer func() {
		if rec := recover(); rec != nil {
			meta.Status = model.StatusError
			meta.Error = fmt.Sprint(rec)

			panic(rec)
		}
	}()

	if s.kind == groupStep {
		out, err = s.runChildren(ctx, info, depth)
	} else if s.logic != nil {
		var res *Context

		res, err = s.logic(ctx)
		if res != nil {
			out = res
		}
	}

	if err != nil {
		meta.Status = model.StatusError
		meta.Error = err.Error()

		return out, err
	}

	meta.Status = model.StatusOK

	return out, nil
}

func (s *Step) runChildren(ctx *Context, info *model.StepInfo, depth int) (*Context, error) {
	for _, child := range s.children {
		var err error

		ctx, err = child.run(ctx, info, depth+1)
		if err != nil {
			return ctx, err
		}

		if ctx.Signal().stopsGroup() {
			break
		}
	}

	return ctx, nil
}
