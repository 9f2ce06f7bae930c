package solver

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/Mayank447/qchem/integral"
)

// LazyAO is an atomic orbital integral set that holds only a solver
// handle. Every accessor runs the solve anew; callers needing reuse must
// materialize once.
type LazyAO struct {
	mf MeanField
}

// NewLazyAO stores the solver handle without solving anything.
func NewLazyAO(mf MeanField) *LazyAO {
	return &LazyAO{mf: mf}
}

// Constant returns NaN when the solve fails; the failure surfaces with a
// proper error on OneBody or TwoBody.
func (l *LazyAO) Constant() float64 {
	r, err := l.mf.Solve()
	if err != nil {
		return math.NaN()
	}
	return r.Constant
}

func (l *LazyAO) OneBody() (*mat.Dense, error) {
	ao, err := l.solve()
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return ao.OneBody()
}

func (l *LazyAO) TwoBody() (*integral.Rank4, error) {
	ao, err := l.solve()
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return ao.TwoBody()
}

// Materialize runs the solve once and returns the eager set.
func (l *LazyAO) Materialize() (*integral.AO, error) {
	ao, err := l.solve()
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return ao, nil
}

func (l *LazyAO) solve() (*integral.AO, error) {
	r, err := l.mf.Solve()
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	ao, err := AO(r)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return ao, nil
}
