package pipeline

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNoSteps           = errors.New("pipeline must have at least one step")
	ErrNilStep           = errors.New("step must be set")
	ErrNilContext        = errors.New("context must be set")
	ErrInvalidMaxPasses  = errors.New("max passes must be greater than 0")
	ErrPassLimitExceeded = errors.New("pass limit exceeded")
)

// PassLimitError is returned when a step still requests another pass after
// the pipeline ran its maximum number of passes.
type PassLimitError struct {
	Pipeline  string
	MaxPasses int
}

func (e *PassLimitError) Error() string {
	return fmt.Sprintf("%s: exceeded %d passes", e.Pipeline, e.MaxPasses)
}

// Is makes errors.Is(err, ErrPassLimitExceeded) hold.
func (e *PassLimitError) Is(target error) bool {
	return target == ErrPassLimitExceeded
}
