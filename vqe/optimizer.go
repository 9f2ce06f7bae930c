// Package vqe provides variational optimization of parametrized cost
// functions, such as expectation values of qubit Hamiltonians.
// Optimizers are driven step by step over an explicit state, so that a
// search can be paused, recorded, and resumed.
package vqe

import (
	"math"
	"slices"

	"github.com/pkg/errors"
)

// ErrOptimizer reports that an optimization run entered the Failed state.
var ErrOptimizer = errors.New("optimizer failure")

// CostFn evaluates the cost at the given parameters.
type CostFn func(params []float64) (float64, error)

// GradFn evaluates the cost gradient at the given parameters.
type GradFn func(params []float64) ([]float64, error)

// Status is the phase of an optimization run.
type Status int

const (
	// Ready means the run can take further steps.
	Ready Status = iota
	// Converged means the run met its convergence criteria.
	Converged
	// Failed means the run stopped on a non-recoverable error.
	Failed
)

func (s Status) String() string {
	switch s {
	case Ready:
		return "READY"
	case Converged:
		return "CONVERGED"
	case Failed:
		return "FAILED"
	}
	return "UNKNOWN"
}

// State is the full state of an optimization run.
// Converged and Failed are terminal: stepping a terminal state returns it
// unchanged.
type State struct {
	Params []float64
	// Cost is the cost at Params, valid once Iter > 0.
	Cost float64
	Iter int
	// FuncCalls and GradCalls count cost and gradient evaluations.
	FuncCalls int
	GradCalls int
	Status    Status
	// Err describes the failure when Status is Failed.
	Err error

	// Adam moment accumulators.
	m1 []float64
	m2 []float64
}

// Optimizer advances an optimization run one step at a time.
type Optimizer interface {
	// InitState returns a Ready state at the given starting parameters.
	InitState(params []float64) State
	// Step evaluates cost and gradient once and updates the parameters.
	Step(s State, cost CostFn, grad GradFn) State
}

// AdamOptions are options for the Adam optimizer.
type AdamOptions struct {
	alpha float64
	beta1 float64
	beta2 float64
	eps   float64
	ftol  float64
	gtol  float64
}

// NewAdamOptions returns the default Adam options.
func NewAdamOptions() AdamOptions {
	opt := AdamOptions{}
	opt.alpha = 0.05
	opt.beta1 = 0.9
	opt.beta2 = 0.999
	opt.eps = 1e-9
	opt.ftol = 1e-5
	opt.gtol = 1e-6
	return opt
}

// Alpha sets the learning rate.
func (opt AdamOptions) Alpha(a float64) AdamOptions {
	opt.alpha = a
	return opt
}

// Beta1 sets the first moment decay rate.
func (opt AdamOptions) Beta1(b float64) AdamOptions {
	opt.beta1 = b
	return opt
}

// Beta2 sets the second moment decay rate.
func (opt AdamOptions) Beta2(b float64) AdamOptions {
	opt.beta2 = b
	return opt
}

// Ftol sets the relative cost plateau tolerance.
func (opt AdamOptions) Ftol(tol float64) AdamOptions {
	opt.ftol = tol
	return opt
}

// Gtol sets the gradient norm tolerance.
func (opt AdamOptions) Gtol(tol float64) AdamOptions {
	opt.gtol = tol
	return opt
}

// Adam is the Adam gradient descent optimizer.
// See Adam: A Method for Stochastic Optimization, Kingma and Ba,
// https://arxiv.org/abs/1412.6980.
type Adam struct {
	opt AdamOptions
}

// NewAdam returns an Adam optimizer.
func NewAdam(options ...AdamOptions) *Adam {
	opt := NewAdamOptions()
	if len(options) > 0 {
		opt = options[0]
	}
	return &Adam{opt: opt}
}

func (a *Adam) InitState(params []float64) State {
	return State{
		Params: slices.Clone(params),
		Cost:   math.NaN(),
		m1:     make([]float64, len(params)),
		m2:     make([]float64, len(params)),
	}
}

func (a *Adam) Step(s State, cost CostFn, grad GradFn) State {
	if s.Status != Ready {
		return s
	}

	c, err := cost(s.Params)
	s.FuncCalls++
	if err != nil {
		return fail(s, errors.Wrap(err, ""))
	}
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return fail(s, errors.Wrapf(ErrOptimizer, "cost %f at iteration %d", c, s.Iter))
	}

	g, err := grad(s.Params)
	s.GradCalls++
	if err != nil {
		return fail(s, errors.Wrap(err, ""))
	}

	gnorm := 0.0
	for _, gi := range g {
		if math.IsNaN(gi) || math.IsInf(gi, 0) {
			return fail(s, errors.Wrapf(ErrOptimizer, "gradient %f at iteration %d", gi, s.Iter))
		}
		gnorm += gi * gi
	}
	gnorm = math.Sqrt(gnorm)

	prev := s.Cost
	s.Cost = c
	s.Iter++
	if gnorm <= a.opt.gtol {
		s.Status = Converged
		return s
	}
	if !math.IsNaN(prev) {
		scale := math.Max(math.Max(math.Abs(c), math.Abs(prev)), 1)
		if math.Abs(c-prev) <= a.opt.ftol*scale {
			s.Status = Converged
			return s
		}
	}

	s.Params = slices.Clone(s.Params)
	s.m1 = slices.Clone(s.m1)
	s.m2 = slices.Clone(s.m2)
	b1t := math.Pow(a.opt.beta1, float64(s.Iter))
	b2t := math.Pow(a.opt.beta2, float64(s.Iter))
	for i, gi := range g {
		s.m1[i] = a.opt.beta1*s.m1[i] + (1-a.opt.beta1)*gi
		s.m2[i] = a.opt.beta2*s.m2[i] + (1-a.opt.beta2)*gi*gi
		mHat := s.m1[i] / (1 - b1t)
		vHat := s.m2[i] / (1 - b2t)
		s.Params[i] -= a.opt.alpha * mHat / (math.Sqrt(vHat) + a.opt.eps)
	}
	return s
}

func fail(s State, err error) State {
	s.Status = Failed
	s.Err = err
	return s
}
