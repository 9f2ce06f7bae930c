// Package solver defines the narrow contract to an external
// electronic-structure solver. The solver is a black box returning a
// converged mean-field coefficient matrix and raw orbital integrals; no
// self-consistent-field iteration happens in this module.
package solver

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/Mayank447/qchem/integral"
	"github.com/Mayank447/qchem/orbital"
)

// Result is a converged mean-field calculation.
type Result struct {
	// Coefficients maps the atomic orbital basis to molecular orbitals.
	Coefficients *mat.Dense
	// Constant is the nuclear repulsion energy.
	Constant float64
	// Hcore is the one-electron integral matrix in the atomic orbital basis.
	Hcore *mat.Dense
	// ERI is the two-electron repulsion tensor in chemist notation.
	ERI *integral.Rank4
	// NElectron is the electron count, Sz the spin projection.
	NElectron int
	Sz        int
}

// MeanField produces converged mean-field data for a fixed molecular
// geometry and basis.
type MeanField interface {
	Solve() (Result, error)
}

// Orbitals validates a solver result and wraps it as molecular orbitals.
func Orbitals(r Result) (*orbital.MolecularOrbitals, error) {
	if err := validate(r); err != nil {
		return nil, errors.Wrap(err, "")
	}
	mo, err := orbital.NewMolecularOrbitals(r.NElectron, r.Sz, r.Coefficients)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return mo, nil
}

// AO validates a solver result and wraps its raw integrals.
func AO(r Result) (*integral.AO, error) {
	if err := validate(r); err != nil {
		return nil, errors.Wrap(err, "")
	}
	ao, err := integral.NewAO(r.Constant, r.Hcore, r.ERI)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return ao, nil
}

func validate(r Result) error {
	rows, cols := r.Coefficients.Dims()
	if rows != cols {
		return errors.Wrapf(integral.ErrComputation, "non-square coefficient matrix %dx%d", rows, cols)
	}
	hr, hc := r.Hcore.Dims()
	if hr != hc || hr != rows {
		return errors.Wrapf(integral.ErrComputation, "one-electron matrix %dx%d, coefficients %dx%d", hr, hc, rows, cols)
	}
	if r.ERI.N() != rows {
		return errors.Wrapf(integral.ErrComputation, "two-electron tensor over %d orbitals, coefficients over %d", r.ERI.N(), rows)
	}
	if r.NElectron <= 0 {
		return errors.Wrapf(integral.ErrComputation, "%d electrons", r.NElectron)
	}
	return nil
}

// H2STO3G is a fixture backend with the canonical hydrogen molecule in the
// STO-3G basis at a bond length of 0.7414 angstrom. The integrals are given
// directly in the converged molecular orbital basis, so the coefficient
// matrix is the identity.
type H2STO3G struct{}

func (H2STO3G) Solve() (Result, error) {
	const (
		enuc  = 0.713754
		h00   = -1.252477
		h11   = -0.475934
		g0000 = 0.674493
		g1111 = 0.697397
		g0011 = 0.663472
		g0110 = 0.181287
	)

	coeff := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	hcore := mat.NewDense(2, 2, []float64{h00, 0, 0, h11})

	eri := integral.NewRank4(2)
	// (00|00), (11|11), (00|11), (01|10) and their permutations.
	eri.Set(0, 0, 0, 0, g0000)
	eri.Set(1, 1, 1, 1, g1111)
	eri.Set(0, 0, 1, 1, g0011)
	eri.Set(1, 1, 0, 0, g0011)
	for _, pqrs := range [][4]int{{0, 1, 1, 0}, {1, 0, 0, 1}, {0, 1, 0, 1}, {1, 0, 1, 0}} {
		eri.Set(pqrs[0], pqrs[1], pqrs[2], pqrs[3], g0110)
	}

	return Result{
		Coefficients: coeff,
		Constant:     enuc,
		Hcore:        hcore,
		ERI:          eri,
		NElectron:    2,
		Sz:           0,
	}, nil
}
