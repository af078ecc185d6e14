package pipeline

import (
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/askiada/go-passpipe/pkg/pipeline/model"
)

// StepMeta holds the diagnostics and cache record of a step.
type StepMeta struct {
	// InputHash is the fingerprint of the last execution, empty when the step is not cached.
	InputHash string
	// Status is model.StatusOK, model.StatusError or empty when the step never finished.
	Status string
	Error  string
	// Duration of the last execution, rounded to the millisecond.
	Duration time.Duration
}

// Context is the mutable state shared by every step of a run.
// It is owned by a single run at a time and must not be used concurrently.
type Context struct {
	// StepMeta is keyed by step name.
	StepMeta map[string]*StepMeta

	signal    Signal
	fields    map[string]any
	runID     string
	logger    *slog.Logger
	ownLogger bool
	observers []model.PipelineOption
}

type ContextOption func(c *Context)

// WithFields pre-populates the context payload.
func WithFields(fields map[string]any) ContextOption {
	return func(c *Context) {
		for k, v := range fields {
			c.fields[k] = v
		}
	}
}

// WithContextLogger sets the logger the steps log through.
func WithContextLogger(logger *slog.Logger) ContextOption {
	return func(c *Context) {
		if logger != nil {
			c.logger = logger
			c.ownLogger = true
		}
	}
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) ContextOption {
	return func(c *Context) {
		c.runID = id
	}
}

// NewContext creates a context with the Continue signal and an empty payload.
func NewContext(opts ...ContextOption) *Context {
	c := &Context{
		StepMeta: make(map[string]*StepMeta),
		fields:   make(map[string]any),
		runID:    uuid.NewString(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Context) RunID() string {
	return c.runID
}

func (c *Context) Logger() *slog.Logger {
	return c.logger
}

// Get returns the named field, or nil when it is not set.
func (c *Context) Get(key string) any {
	return c.fields[key]
}

// Lookup returns the named field and whether it is set.
func (c *Context) Lookup(key string) (any, bool) {
	v, ok := c.fields[key]

	return v, ok
}

func (c *Context) Set(key string, value any) {
	c.fields[key] = value
}

func (c *Context) Delete(key string) {
	delete(c.fields, key)
}

// Keys returns the payload field names, sorted.
func (c *Context) Keys() []string {
	keys := make([]string, 0, len(c.fields))
	for k := range c.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// Value returns the named field converted to T.
// The boolean is false when the field is missing or holds another type.
func Value[T any](c *Context, key string) (T, bool) {
	v, ok := c.fields[key].(T)

	return v, ok
}

// ValueOr returns the named field converted to T, or def.
func ValueOr[T any](c *Context, key string, def T) T {
	if v, ok := Value[T](c, key); ok {
		return v
	}

	return def
}

// Signal returns the current control signal.
func (c *Context) Signal() Signal {
	return c.signal
}

// Continue resets the signal.
func (c *Context) Continue() {
	c.signal = Continue
}

// SkipRestOfPass stops the remaining steps of the pass, unless the pipeline is aborted.
func (c *Context) SkipRestOfPass() {
	if c.signal != AbortPipeline {
		c.signal = SkipRestOfPass
	}
}

// StartAnotherPass requests a new pass, unless the pass is skipped or the pipeline is aborted.
func (c *Context) StartAnotherPass() {
	if c.signal != AbortPipeline && c.signal != SkipRestOfPass {
		c.signal = StartAnotherPass
	}
}

// AbortPipeline stops the run. It cannot be downgraded except by Continue.
func (c *Context) AbortPipeline() {
	c.signal = AbortPipeline
}

func (c *Context) meta(name string) *StepMeta {
	m, ok := c.StepMeta[name]
	if !ok {
		m = &StepMeta{}
		c.StepMeta[name] = m
	}

	return m
}

// project builds the fingerprint payload from the named fields.
func (c *Context) project(keys []string) map[string]any {
	payload := make(map[string]any, len(keys))
	for _, k := range keys {
		payload[k] = c.fields[k]
	}

	return payload
}

func (c *Context) notify(info *model.StepInfo, result model.StepResult) error {
	for _, obs := range c.observers {
		err := obs.OnStepResult(info, result)
		if err != nil {
			return err
		}
	}

	return nil
}
