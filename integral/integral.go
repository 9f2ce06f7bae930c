// Package integral transforms electron integrals between the atomic
// orbital, spatial molecular orbital and spin orbital bases, and projects
// them onto an active space with the frozen core folded in.
//
// Two-electron integrals are stored in chemist notation (pq|rs).
//
// References:
//   - Modern Quantum Chemistry, Szabo and Ostlund, Section 3.3.
package integral

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrComputation marks malformed integral data, such as a non-square
	// coefficient matrix or mismatched tensor shapes.
	ErrComputation = errors.New("malformed integral data")
)

// Rank4 is a dense rank-4 tensor of two-electron integrals over n orbitals.
type Rank4 struct {
	n    int
	data []float64
}

// NewRank4 returns a zero rank-4 tensor over n orbitals.
func NewRank4(n int) *Rank4 {
	return &Rank4{n: n, data: make([]float64, n*n*n*n)}
}

func (t *Rank4) N() int { return t.n }

func (t *Rank4) At(p, q, r, s int) float64 {
	return t.data[((p*t.n+q)*t.n+r)*t.n+s]
}

func (t *Rank4) Set(p, q, r, s int, v float64) {
	t.data[((p*t.n+q)*t.n+r)*t.n+s] = v
}

// Integrals is a set of electron integrals in some orbital basis: a scalar
// constant, a one-electron matrix and a two-electron rank-4 tensor.
// Eager implementations return materialized arrays; lazy ones compute on
// every access and give no caching guarantee.
type Integrals interface {
	Constant() float64
	OneBody() (*mat.Dense, error)
	TwoBody() (*Rank4, error)
}

// AO holds materialized atomic orbital integrals.
type AO struct {
	constant float64
	hcore    *mat.Dense
	eri      *Rank4
}

// NewAO wraps raw atomic orbital integrals.
// constant is the nuclear repulsion energy, hcore the one-electron
// (kinetic plus nuclear attraction) matrix, and eri the two-electron
// repulsion tensor in chemist notation.
func NewAO(constant float64, hcore *mat.Dense, eri *Rank4) (*AO, error) {
	rows, cols := hcore.Dims()
	if rows != cols {
		return nil, errors.Wrapf(ErrComputation, "one-electron matrix %dx%d", rows, cols)
	}
	if eri.N() != rows {
		return nil, errors.Wrapf(ErrComputation, "two-electron tensor over %d orbitals, one-electron over %d", eri.N(), rows)
	}
	return &AO{constant: constant, hcore: hcore, eri: eri}, nil
}

func (ao *AO) Constant() float64 { return ao.constant }
func (ao *AO) OneBody() (*mat.Dense, error) { return ao.hcore, nil }
func (ao *AO) TwoBody() (*Rank4, error) { return ao.eri, nil }

// SpatialMO holds materialized integrals in the spatial molecular orbital
// basis. The same type also represents active space projections, whose
// constant includes the mean-field contribution of the frozen core.
type SpatialMO struct {
	constant float64
	one      *mat.Dense
	two      *Rank4
}

func (s *SpatialMO) Constant() float64 { return s.constant }
func (s *SpatialMO) OneBody() (*mat.Dense, error) { return s.one, nil }
func (s *SpatialMO) TwoBody() (*Rank4, error) { return s.two, nil }

// SpinMO holds materialized integrals in the spin orbital basis.
// Spin orbital 2p carries the alpha channel of spatial orbital p, and
// 2p+1 the beta channel.
type SpinMO struct {
	constant float64
	one      *mat.Dense
	two      *Rank4
}

func (s *SpinMO) Constant() float64 { return s.constant }
func (s *SpinMO) OneBody() (*mat.Dense, error) { return s.one, nil }
func (s *SpinMO) TwoBody() (*Rank4, error) { return s.two, nil }
