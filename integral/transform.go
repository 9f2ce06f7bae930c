package integral

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/Mayank447/qchem/orbital"
)

// SpatialFromAO transforms atomic orbital integrals into the spatial
// molecular orbital basis defined by the coefficient matrix.
// The two-electron tensor is transformed with four quarter transforms,
// costing O(n^5) instead of the naive O(n^8).
func SpatialFromAO(ao Integrals, coeff *mat.Dense) (*SpatialMO, error) {
	rows, cols := coeff.Dims()
	if rows != cols {
		return nil, errors.Wrapf(ErrComputation, "coefficient matrix %dx%d", rows, cols)
	}
	hcore, err := ao.OneBody()
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	hr, _ := hcore.Dims()
	if hr != rows {
		return nil, errors.Wrapf(ErrComputation, "coefficients over %d orbitals, integrals over %d", rows, hr)
	}
	eri, err := ao.TwoBody()
	if err != nil {
		return nil, errors.Wrap(err, "")
	}

	s := &SpatialMO{constant: ao.Constant()}

	// h' = C^T h C.
	var tmp mat.Dense
	tmp.Mul(hcore, coeff)
	s.one = &mat.Dense{}
	s.one.Mul(coeff.T(), &tmp)

	s.two = quarterTransforms(eri, coeff)
	return s, nil
}

// quarterTransforms applies the coefficient matrix to each of the four
// indices in turn: (pq|rs) = sum C[m,p] C[n,q] C[l,r] C[o,s] (mn|lo).
func quarterTransforms(eri *Rank4, coeff *mat.Dense) *Rank4 {
	n := eri.N()
	cur := eri
	for axis := 0; axis < 4; axis++ {
		next := NewRank4(n)
		for p := 0; p < n; p++ {
			for q := 0; q < n; q++ {
				for r := 0; r < n; r++ {
					for s := 0; s < n; s++ {
						var v float64
						// The transformed index is rotated to the last
						// position, so that after four passes every index
						// has been transformed exactly once and the
						// original order is restored.
						for m := 0; m < n; m++ {
							v += coeff.At(m, s) * cur.At(m, p, q, r)
						}
						next.Set(p, q, r, s, v)
					}
				}
			}
		}
		cur = next
	}
	return cur
}

// SpinFromSpatial expands spatial orbital integrals into the spin orbital
// basis. Cross-spin one-electron terms are zero, and only spin-conserving
// two-electron index combinations survive.
func SpinFromSpatial(spatial Integrals) (*SpinMO, error) {
	one, err := spatial.OneBody()
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	two, err := spatial.TwoBody()
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	s := &SpinMO{constant: spatial.Constant()}
	s.one = spinOneBody(one)
	s.two = spinTwoBody(two)
	return s, nil
}

func spinOneBody(one *mat.Dense) *mat.Dense {
	n, _ := one.Dims()
	out := mat.NewDense(2*n, 2*n, nil)
	for p := 0; p < n; p++ {
		for q := 0; q < n; q++ {
			v := one.At(p, q)
			out.Set(2*p, 2*q, v)
			out.Set(2*p+1, 2*q+1, v)
		}
	}
	return out
}

func spinTwoBody(two *Rank4) *Rank4 {
	n := two.N()
	out := NewRank4(2 * n)
	for p := 0; p < n; p++ {
		for q := 0; q < n; q++ {
			for r := 0; r < n; r++ {
				for t := 0; t < n; t++ {
					v := two.At(p, q, r, t)
					for _, sigma := range [2]int{0, 1} {
						for _, tau := range [2]int{0, 1} {
							out.Set(2*p+sigma, 2*q+sigma, 2*r+tau, 2*t+tau, v)
						}
					}
				}
			}
		}
	}
	return out
}

// ActiveSpatial projects full-space spatial molecular orbital integrals
// onto the active space. The frozen core contributes a mean-field shift to
// the constant and the one-electron matrix, and the retained arrays are
// restricted to the active indices.
//
// Projecting several active spaces from the same materialized full-space
// integrals performs no redundant basis transforms.
func ActiveSpatial(full Integrals, asmo *orbital.ActiveSpaceMolecularOrbitals) (*SpatialMO, error) {
	one, err := full.OneBody()
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	two, err := full.TwoBody()
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	rows, _ := one.Dims()
	if rows != asmo.NSpatialOrb() {
		return nil, errors.Wrapf(ErrComputation, "integrals over %d orbitals, active space over %d", rows, asmo.NSpatialOrb())
	}
	core, active := asmo.CoreOrbs(), asmo.ActiveOrbs()

	s := &SpatialMO{constant: full.Constant()}
	for _, i := range core {
		s.constant += 2 * one.At(i, i)
		for _, j := range core {
			s.constant += 2*two.At(i, i, j, j) - two.At(i, j, j, i)
		}
	}

	nAct := len(active)
	s.one = mat.NewDense(nAct, nAct, nil)
	for u, p := range active {
		for v, q := range active {
			h := one.At(p, q)
			for _, i := range core {
				h += 2*two.At(p, q, i, i) - two.At(p, i, i, q)
			}
			s.one.Set(u, v, h)
		}
	}

	s.two = NewRank4(nAct)
	for u, p := range active {
		for v, q := range active {
			for w, r := range active {
				for x, t := range active {
					s.two.Set(u, v, w, x, two.At(p, q, r, t))
				}
			}
		}
	}
	return s, nil
}

// ActiveSpin projects full-space spin orbital integrals onto the active
// space, folding the frozen core in the spin orbital basis directly.
// It agrees with projecting in the spatial basis and expanding afterwards.
func ActiveSpin(full Integrals, asmo *orbital.ActiveSpaceMolecularOrbitals) (*SpinMO, error) {
	one, err := full.OneBody()
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	two, err := full.TwoBody()
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	rows, _ := one.Dims()
	if rows != 2*asmo.NSpatialOrb() {
		return nil, errors.Wrapf(ErrComputation, "integrals over %d spin orbitals, active space over %d", rows, 2*asmo.NSpatialOrb())
	}

	core := spinOrbs(asmo.CoreOrbs())
	active := spinOrbs(asmo.ActiveOrbs())

	s := &SpinMO{constant: full.Constant()}
	for _, i := range core {
		s.constant += one.At(i, i)
		for _, j := range core {
			s.constant += 0.5 * (two.At(i, i, j, j) - two.At(i, j, j, i))
		}
	}

	nAct := len(active)
	s.one = mat.NewDense(nAct, nAct, nil)
	for u, p := range active {
		for v, q := range active {
			h := one.At(p, q)
			for _, i := range core {
				h += two.At(p, q, i, i) - two.At(p, i, i, q)
			}
			s.one.Set(u, v, h)
		}
	}

	s.two = NewRank4(nAct)
	for u, p := range active {
		for v, q := range active {
			for w, r := range active {
				for x, t := range active {
					s.two.Set(u, v, w, x, two.At(p, q, r, t))
				}
			}
		}
	}
	return s, nil
}

// spinOrbs expands spatial orbital indices into interleaved spin orbital
// indices, alpha before beta.
func spinOrbs(spatial []int) []int {
	so := make([]int, 0, 2*len(spatial))
	for _, p := range spatial {
		so = append(so, 2*p, 2*p+1)
	}
	return so
}
