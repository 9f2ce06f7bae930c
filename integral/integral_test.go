package integral

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/Mayank447/qchem/orbital"
)

// tol is the agreement tolerance between independent transform paths,
// consistent with double precision accumulation error.
const tol = 1e-8

func TestSpatialFromAO(t *testing.T) {
	t.Parallel()
	tests := []struct {
		n int
	}{
		{n: 2},
		{n: 3},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%d", test.n), func(t *testing.T) {
			t.Parallel()
			rnd := rand.New(rand.NewPCG(7, uint64(test.n)))
			ao := randAO(rnd, test.n)
			coeff := randCoeff(rnd, test.n)

			s, err := SpatialFromAO(ao, coeff)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			one, _ := s.OneBody()
			two, _ := s.TwoBody()

			// Reference one-electron transform.
			hcore, _ := ao.OneBody()
			for p := 0; p < test.n; p++ {
				for q := 0; q < test.n; q++ {
					var want float64
					for m := 0; m < test.n; m++ {
						for nn := 0; nn < test.n; nn++ {
							want += coeff.At(m, p) * coeff.At(nn, q) * hcore.At(m, nn)
						}
					}
					if math.Abs(one.At(p, q)-want) > tol {
						t.Fatalf("%d %d %f %f", p, q, one.At(p, q), want)
					}
				}
			}

			// Reference four-index transform, naive O(n^8).
			eri, _ := ao.TwoBody()
			for p := 0; p < test.n; p++ {
				for q := 0; q < test.n; q++ {
					for r := 0; r < test.n; r++ {
						for u := 0; u < test.n; u++ {
							var want float64
							for m := 0; m < test.n; m++ {
								for nn := 0; nn < test.n; nn++ {
									for l := 0; l < test.n; l++ {
										for o := 0; o < test.n; o++ {
											want += coeff.At(m, p) * coeff.At(nn, q) * coeff.At(l, r) * coeff.At(o, u) * eri.At(m, nn, l, o)
										}
									}
								}
							}
							if math.Abs(two.At(p, q, r, u)-want) > tol {
								t.Fatalf("%d %d %d %d %f %f", p, q, r, u, two.At(p, q, r, u), want)
							}
						}
					}
				}
			}
		})
	}
}

func TestTwoBodySymmetry(t *testing.T) {
	t.Parallel()
	rnd := rand.New(rand.NewPCG(11, 13))
	const n = 3
	ao := randAO(rnd, n)
	s, err := SpatialFromAO(ao, randCoeff(rnd, n))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	two, _ := s.TwoBody()

	for p := 0; p < n; p++ {
		for q := 0; q < n; q++ {
			for r := 0; r < n; r++ {
				for u := 0; u < n; u++ {
					v := two.At(p, q, r, u)
					if math.Abs(v-two.At(q, p, r, u)) > tol {
						t.Fatalf("%d %d %d %d", p, q, r, u)
					}
					if math.Abs(v-two.At(p, q, u, r)) > tol {
						t.Fatalf("%d %d %d %d", p, q, r, u)
					}
					if math.Abs(v-two.At(r, u, p, q)) > tol {
						t.Fatalf("%d %d %d %d", p, q, r, u)
					}
				}
			}
		}
	}
}

func TestActiveSpaceRoundTrip(t *testing.T) {
	t.Parallel()
	tests := []struct {
		n         int
		nElectron int
		as        orbital.ActiveSpace
	}{
		{n: 4, nElectron: 4, as: orbital.CAS(2, 2)},
		{n: 5, nElectron: 6, as: orbital.CAS(2, 3)},
		{n: 5, nElectron: 6, as: orbital.ActiveSpace{NEle: 2, NOrb: 2, ActiveOrbs: []int{1, 3}}},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%d %d cas(%d,%d)", test.n, test.nElectron, test.as.NEle, test.as.NOrb), func(t *testing.T) {
			t.Parallel()
			rnd := rand.New(rand.NewPCG(3, uint64(test.n)))
			ao := randAO(rnd, test.n)
			full, err := SpatialFromAO(ao, randCoeff(rnd, test.n))
			if err != nil {
				t.Fatalf("%+v", err)
			}
			asmo := newASMO(t, test.nElectron, test.n, test.as)

			// Path A: project in the spatial basis, then expand to spin.
			activeSpatial, err := ActiveSpatial(full, asmo)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			a, err := SpinFromSpatial(activeSpatial)
			if err != nil {
				t.Fatalf("%+v", err)
			}

			// Path B: expand to spin first, then fold the core there.
			fullSpin, err := SpinFromSpatial(full)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			b, err := ActiveSpin(fullSpin, asmo)
			if err != nil {
				t.Fatalf("%+v", err)
			}

			if math.Abs(a.Constant()-b.Constant()) > tol {
				t.Fatalf("%f %f", a.Constant(), b.Constant())
			}
			aOne, _ := a.OneBody()
			bOne, _ := b.OneBody()
			nSpin := 2 * asmo.NActiveOrb()
			for p := 0; p < nSpin; p++ {
				for q := 0; q < nSpin; q++ {
					if math.Abs(aOne.At(p, q)-bOne.At(p, q)) > tol {
						t.Fatalf("%d %d %f %f", p, q, aOne.At(p, q), bOne.At(p, q))
					}
				}
			}
			aTwo, _ := a.TwoBody()
			bTwo, _ := b.TwoBody()
			for p := 0; p < nSpin; p++ {
				for q := 0; q < nSpin; q++ {
					for r := 0; r < nSpin; r++ {
						for u := 0; u < nSpin; u++ {
							if math.Abs(aTwo.At(p, q, r, u)-bTwo.At(p, q, r, u)) > tol {
								t.Fatalf("%d %d %d %d %f %f", p, q, r, u, aTwo.At(p, q, r, u), bTwo.At(p, q, r, u))
							}
						}
					}
				}
			}
		})
	}
}

// countingSource wraps an integral set and counts tensor computations.
type countingSource struct {
	src      Integrals
	oneCalls int
	twoCalls int
}

func (c *countingSource) Constant() float64 { return c.src.Constant() }
func (c *countingSource) OneBody() (*mat.Dense, error) {
	c.oneCalls++
	return c.src.OneBody()
}
func (c *countingSource) TwoBody() (*Rank4, error) {
	c.twoCalls++
	return c.src.TwoBody()
}

func TestLazyIdempotence(t *testing.T) {
	t.Parallel()
	rnd := rand.New(rand.NewPCG(5, 17))
	const n = 3
	ao := randAO(rnd, n)
	coeff := randCoeff(rnd, n)

	counting := &countingSource{src: ao}
	lazy := NewLazySpatialMO(counting, coeff)
	if counting.oneCalls != 0 || counting.twoCalls != 0 {
		t.Fatalf("%d %d", counting.oneCalls, counting.twoCalls)
	}

	one1, err := lazy.OneBody()
	if err != nil {
		t.Fatalf("%+v", err)
	}
	one2, err := lazy.OneBody()
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if counting.oneCalls != 2 || counting.twoCalls != 0 {
		t.Fatalf("%d %d", counting.oneCalls, counting.twoCalls)
	}
	for p := 0; p < n; p++ {
		for q := 0; q < n; q++ {
			if one1.At(p, q) != one2.At(p, q) {
				t.Fatalf("%d %d", p, q)
			}
		}
	}

	two1, err := lazy.TwoBody()
	if err != nil {
		t.Fatalf("%+v", err)
	}
	two2, err := lazy.TwoBody()
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if counting.twoCalls != 2 {
		t.Fatalf("%d", counting.twoCalls)
	}
	for p := 0; p < n; p++ {
		for q := 0; q < n; q++ {
			for r := 0; r < n; r++ {
				for u := 0; u < n; u++ {
					if two1.At(p, q, r, u) != two2.At(p, q, r, u) {
						t.Fatalf("%d %d %d %d", p, q, r, u)
					}
				}
			}
		}
	}

	// A materialized copy matches the lazy accessors.
	eager, err := lazy.Materialize()
	if err != nil {
		t.Fatalf("%+v", err)
	}
	eagerOne, _ := eager.OneBody()
	if eagerOne.At(0, 0) != one1.At(0, 0) {
		t.Fatalf("%f %f", eagerOne.At(0, 0), one1.At(0, 0))
	}

	// A lazy spin set over a lazy spatial set only triggers the tensors
	// it needs.
	oneCalls, twoCalls := counting.oneCalls, counting.twoCalls
	spin := NewLazySpinMO(lazy)
	if _, err := spin.OneBody(); err != nil {
		t.Fatalf("%+v", err)
	}
	if counting.oneCalls != oneCalls+1 || counting.twoCalls != twoCalls {
		t.Fatalf("%d %d", counting.oneCalls, counting.twoCalls)
	}
}

func TestNewAOErrors(t *testing.T) {
	t.Parallel()
	if _, err := NewAO(0, mat.NewDense(2, 3, nil), NewRank4(2)); err == nil {
		t.Fatalf("expected error for non-square one-electron matrix")
	}
	if _, err := NewAO(0, mat.NewDense(2, 2, nil), NewRank4(3)); err == nil {
		t.Fatalf("expected error for mismatched tensor shapes")
	}
}

// randAO builds a random hermitian one-electron matrix and a two-electron
// tensor with the 8-fold permutational symmetry of real orbitals.
func randAO(rnd *rand.Rand, n int) *AO {
	hcore := mat.NewDense(n, n, nil)
	for p := 0; p < n; p++ {
		for q := p; q < n; q++ {
			v := rnd.Float64()*2 - 1
			hcore.Set(p, q, v)
			hcore.Set(q, p, v)
		}
	}

	eri := NewRank4(n)
	for p := 0; p < n; p++ {
		for q := 0; q < n; q++ {
			for r := 0; r < n; r++ {
				for s := 0; s < n; s++ {
					v := rnd.Float64()*2 - 1
					eri.Set(p, q, r, s, v)
					eri.Set(q, p, r, s, v)
					eri.Set(p, q, s, r, v)
					eri.Set(q, p, s, r, v)
					eri.Set(r, s, p, q, v)
					eri.Set(s, r, p, q, v)
					eri.Set(r, s, q, p, v)
					eri.Set(s, r, q, p, v)
				}
			}
		}
	}

	ao, err := NewAO(rnd.Float64(), hcore, eri)
	if err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
	return ao
}

// randCoeff returns a random orthogonal matrix built by Gram-Schmidt.
func randCoeff(rnd *rand.Rand, n int) *mat.Dense {
	c := mat.NewDense(n, n, nil)
	for j := 0; j < n; j++ {
		col := make([]float64, n)
		for i := range col {
			col[i] = rnd.Float64()*2 - 1
		}
		for k := 0; k < j; k++ {
			var dot float64
			for i := 0; i < n; i++ {
				dot += col[i] * c.At(i, k)
			}
			for i := 0; i < n; i++ {
				col[i] -= dot * c.At(i, k)
			}
		}
		var norm float64
		for i := 0; i < n; i++ {
			norm += col[i] * col[i]
		}
		norm = math.Sqrt(norm)
		for i := 0; i < n; i++ {
			c.Set(i, j, col[i]/norm)
		}
	}
	return c
}

func newASMO(t *testing.T, nElectron, nSpatialOrb int, as orbital.ActiveSpace) *orbital.ActiveSpaceMolecularOrbitals {
	coeff := mat.NewDense(nSpatialOrb, nSpatialOrb, nil)
	for i := 0; i < nSpatialOrb; i++ {
		coeff.Set(i, i, 1)
	}
	mo, err := orbital.NewMolecularOrbitals(nElectron, 0, coeff)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	asmo, err := orbital.NewActiveSpaceMolecularOrbitals(mo, as)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	return asmo
}

func TestMain(m *testing.M) {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds | log.Llongfile | log.LstdFlags)

	m.Run()
}
