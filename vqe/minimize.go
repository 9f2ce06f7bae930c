package vqe

import (
	"github.com/pkg/errors"
)

// Recorder receives the state after every optimizer step.
type Recorder interface {
	Record(s State) error
}

// MinimizeOptions are options for Minimize.
type MinimizeOptions struct {
	maxIterations int
	recorder      Recorder
}

// NewMinimizeOptions returns the default Minimize options.
func NewMinimizeOptions() MinimizeOptions {
	opt := MinimizeOptions{}
	opt.maxIterations = 1024
	return opt
}

// MaxIterations sets the iteration budget of a single Minimize call.
func (opt MinimizeOptions) MaxIterations(i int) MinimizeOptions {
	opt.maxIterations = i
	return opt
}

// Recorder sets the step recorder.
func (opt MinimizeOptions) Recorder(r Recorder) MinimizeOptions {
	opt.recorder = r
	return opt
}

// Minimize steps o from s until the run is terminal or the iteration
// budget is exhausted. A returned Ready state means the budget ran out
// and the search can be resumed by calling Minimize again with it.
// Failed runs are reported through the state, not the error.
func Minimize(o Optimizer, s State, cost CostFn, grad GradFn, options ...MinimizeOptions) (State, error) {
	opt := NewMinimizeOptions()
	if len(options) > 0 {
		opt = options[0]
	}

	for i := 0; i < opt.maxIterations; i++ {
		if s.Status != Ready {
			break
		}
		s = o.Step(s, cost, grad)
		if opt.recorder != nil {
			if err := opt.recorder.Record(s); err != nil {
				return s, errors.Wrap(err, "")
			}
		}
	}
	return s, nil
}
