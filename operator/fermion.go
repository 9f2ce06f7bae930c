package operator

import (
	"github.com/pkg/errors"

	"github.com/Mayank447/qchem/integral"
)

// Fermion is a second-quantized electronic Hamiltonian over spin orbitals:
//
//	H = Constant + sum_pq OneBody[p,q] a+_p a_q
//	             + sum_pqrs TwoBody[p,q,r,s] a+_p a+_r a_s a_q
//
// with indices keyed in chemist notation.
type Fermion struct {
	Constant float64
	OneBody  map[[2]int]float64
	TwoBody  map[[4]int]float64

	nSpinOrb int
}

// FermionFromSpin builds the fermionic Hamiltonian from spin orbital
// integrals, typically an active space projection.
func FermionFromSpin(spin integral.Integrals) (*Fermion, error) {
	one, err := spin.OneBody()
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	two, err := spin.TwoBody()
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	n, _ := one.Dims()

	f := &Fermion{
		Constant: spin.Constant(),
		OneBody:  make(map[[2]int]float64),
		TwoBody:  make(map[[4]int]float64),
		nSpinOrb: n,
	}
	for p := 0; p < n; p++ {
		for q := 0; q < n; q++ {
			if v := one.At(p, q); v != 0 {
				f.OneBody[[2]int{p, q}] = v
			}
		}
	}
	for p := 0; p < n; p++ {
		for q := 0; q < n; q++ {
			for r := 0; r < n; r++ {
				for s := 0; s < n; s++ {
					if v := two.At(p, q, r, s); v != 0 {
						f.TwoBody[[4]int{p, q, r, s}] = 0.5 * v
					}
				}
			}
		}
	}
	return f, nil
}

// NSpinOrb returns the number of spin orbitals the Hamiltonian acts on.
func (f *Fermion) NSpinOrb() int { return f.nSpinOrb }

// Mapping transforms a fermionic operator into the qubit representation
// consumed by expectation estimators. Concrete encodings (Jordan-Wigner
// and friends) live outside this module.
type Mapping interface {
	// Map encodes f over its NSpinOrb() qubits for nElectron electrons.
	Map(f *Fermion, nElectron int) (Sum, error)
}
