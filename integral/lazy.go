package integral

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// LazySpatialMO is a spatial molecular orbital integral set that holds only
// the atomic orbital source and the coefficient matrix. Every accessor runs
// the basis transform anew; callers needing reuse must materialize once.
type LazySpatialMO struct {
	ao    Integrals
	coeff *mat.Dense
}

// NewLazySpatialMO stores references to the atomic orbital source and the
// coefficient matrix without computing anything.
func NewLazySpatialMO(ao Integrals, coeff *mat.Dense) *LazySpatialMO {
	return &LazySpatialMO{ao: ao, coeff: coeff}
}

func (l *LazySpatialMO) Constant() float64 { return l.ao.Constant() }

func (l *LazySpatialMO) OneBody() (*mat.Dense, error) {
	hcore, err := l.ao.OneBody()
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	var tmp mat.Dense
	tmp.Mul(hcore, l.coeff)
	one := &mat.Dense{}
	one.Mul(l.coeff.T(), &tmp)
	return one, nil
}

func (l *LazySpatialMO) TwoBody() (*Rank4, error) {
	eri, err := l.ao.TwoBody()
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return quarterTransforms(eri, l.coeff), nil
}

// Materialize runs the full transform once and returns the eager set.
func (l *LazySpatialMO) Materialize() (*SpatialMO, error) {
	s, err := SpatialFromAO(l.ao, l.coeff)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return s, nil
}

// LazySpinMO is a spin orbital integral set computed on demand from a
// spatial molecular orbital source, which may itself be lazy.
type LazySpinMO struct {
	spatial Integrals
}

// NewLazySpinMO stores a reference to the spatial source without computing
// anything.
func NewLazySpinMO(spatial Integrals) *LazySpinMO {
	return &LazySpinMO{spatial: spatial}
}

func (l *LazySpinMO) Constant() float64 { return l.spatial.Constant() }

func (l *LazySpinMO) OneBody() (*mat.Dense, error) {
	one, err := l.spatial.OneBody()
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return spinOneBody(one), nil
}

func (l *LazySpinMO) TwoBody() (*Rank4, error) {
	two, err := l.spatial.TwoBody()
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return spinTwoBody(two), nil
}

// Materialize runs the spin expansion once and returns the eager set.
func (l *LazySpinMO) Materialize() (*SpinMO, error) {
	s, err := SpinFromSpatial(l.spatial)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return s, nil
}
