package estimator

import (
	"github.com/fumin/tensor"
	"github.com/pkg/errors"
)

// ParametricState maps real optimizer parameters to a statevector.
type ParametricState interface {
	NumParams() int
	// Vector writes the statevector at the given parameters into dst,
	// reshaping it to (dim, 1). The vector need not be normalized.
	Vector(params []float64, dst *tensor.Dense) error
}

// Amplitudes parametrizes a statevector directly by its amplitudes, with
// consecutive parameter pairs forming the real and imaginary parts.
type Amplitudes struct {
	dim int
}

// NewAmplitudes returns an amplitude parametrization over nQubits qubits.
func NewAmplitudes(nQubits int) *Amplitudes {
	return &Amplitudes{dim: 1 << nQubits}
}

func (a *Amplitudes) NumParams() int { return 2 * a.dim }

func (a *Amplitudes) Vector(params []float64, dst *tensor.Dense) error {
	if len(params) != a.NumParams() {
		return errors.Errorf("%d parameters, expected %d", len(params), a.NumParams())
	}
	dst.Reset(a.dim, 1)
	ijk := make([]int, 2)
	for i := 0; i < a.dim; i++ {
		ijk[0] = i
		dst.SetAt(ijk, complex(float32(params[2*i]), float32(params[2*i+1])))
	}
	return nil
}
