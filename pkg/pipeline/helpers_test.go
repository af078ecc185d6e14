package pipeline_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/askiada/go-passpipe/pkg/pipeline"
)

// record appends the step name to the "seq" field so tests can inspect the execution order.
func record(t *testing.T, name string, opts ...pipeline.StepOption) *pipeline.Step {
	t.Helper()

	return pipeline.Func(name, func(ctx *pipeline.Context) (*pipeline.Context, error) {
		appendSeq(ctx, name)

		return ctx, nil
	}, opts...)
}

func appendSeq(ctx *pipeline.Context, name string) {
	seq := pipeline.ValueOr(ctx, "seq", []string{})
	ctx.Set("seq", append(seq, name))
}

// signalling records its name then calls signal on the context.
func signalling(t *testing.T, name string, signal func(ctx *pipeline.Context)) *pipeline.Step {
	t.Helper()

	return pipeline.Func(name, func(ctx *pipeline.Context) (*pipeline.Context, error) {
		appendSeq(ctx, name)
		signal(ctx)

		return ctx, nil
	})
}

// oneShot behaves like signalling on its first invocation only.
func oneShot(t *testing.T, name string, signal func(ctx *pipeline.Context)) *pipeline.Step {
	t.Helper()

	done := false

	return signalling(t, name, func(ctx *pipeline.Context) {
		if !done {
			signal(ctx)
			done = true
		}
	})
}

// counter increments the named field on every invocation.
func counter(name, field string, opts ...pipeline.StepOption) *pipeline.Step {
	return pipeline.Func(name, func(ctx *pipeline.Context) (*pipeline.Context, error) {
		ctx.Set(field, pipeline.ValueOr(ctx, field, 0)+1)

		return ctx, nil
	}, opts...)
}

func sequence(ctx *pipeline.Context) []string {
	return pipeline.ValueOr(ctx, "seq", []string(nil))
}

func newLoggedContext(t *testing.T, opts ...pipeline.ContextOption) (*pipeline.Context, *bytes.Buffer) {
	t.Helper()

	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	return pipeline.NewContext(append(opts, pipeline.WithContextLogger(logger))...), buf
}
