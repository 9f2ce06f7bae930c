// Package estimator computes expectation values of qubit operators over
// parametric statevectors, and adapts them into optimizer cost functions.
package estimator

import (
	"math"

	"github.com/fumin/tensor"
	"github.com/pkg/errors"

	"github.com/Mayank447/qchem/operator"
	"github.com/Mayank447/qchem/vqe"
)

// Estimator evaluates the expectation value of an operator at the given
// state parameters.
type Estimator interface {
	Estimate(state ParametricState, params []float64) (float64, error)
}

// Exact computes expectation values by dense matrix vector contraction.
type Exact struct {
	h   *tensor.Dense
	dim int
}

// NewExact builds an exact estimator of op over nQubits qubits.
func NewExact(op operator.Sum, nQubits int) (*Exact, error) {
	m, err := op.Matrix(nQubits)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	dim := m.Rows()

	h := tensor.Zeros(dim, dim)
	ijk := make([]int, 2)
	for i, row := range m.Dense() {
		for j, v := range row {
			if v == 0 {
				continue
			}
			ijk[0], ijk[1] = i, j
			h.SetAt(ijk, v)
		}
	}
	return &Exact{h: h, dim: dim}, nil
}

// Estimate returns the Rayleigh quotient <psi|H|psi> / <psi|psi>.
// It is safe for concurrent use.
func (e *Exact) Estimate(state ParametricState, params []float64) (float64, error) {
	psi := tensor.Zeros(1)
	if err := state.Vector(params, psi); err != nil {
		return 0, errors.Wrap(err, "")
	}
	if shape := psi.Shape(); shape[0] != e.dim || shape[1] != 1 {
		return 0, errors.Errorf("%v, expected (%d, 1)", shape, e.dim)
	}

	buf := tensor.Zeros(1)
	den := tensor.Contract(buf, psi.Conj(), psi, [][2]int{{0, 0}}).At(0, 0)
	if den == 0 {
		return 0, errors.Errorf("zero norm state")
	}

	hpsi := tensor.Contract(tensor.Zeros(1), e.h, psi, [][2]int{{1, 0}})
	num := tensor.Contract(buf, psi.Conj(), hpsi, [][2]int{{0, 0}}).At(0, 0)

	ev := num / den
	if math.IsNaN(float64(real(ev))) {
		return 0, errors.Errorf("expectation %v", ev)
	}
	return float64(real(ev)), nil
}

// Cost adapts the estimator over a fixed state into an optimizer cost
// function.
func Cost(e Estimator, state ParametricState) vqe.CostFn {
	return func(params []float64) (float64, error) {
		return e.Estimate(state, params)
	}
}
