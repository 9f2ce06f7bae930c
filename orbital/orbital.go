// Package orbital partitions molecular orbitals into core, active and
// virtual spaces for multi-configurational treatments.
package orbital

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrConfiguration marks invalid active space parameters.
	ErrConfiguration = errors.New("invalid active space configuration")
)

// MolecularOrbitals is a converged molecular orbital set.
// It is immutable once constructed from a solver result.
type MolecularOrbitals struct {
	nElectron   int
	nSpatialOrb int
	// sz is the total spin projection, counted as n_alpha - n_beta.
	sz    int
	coeff *mat.Dense
}

// NewMolecularOrbitals wraps a mean-field coefficient matrix.
// coeff maps the atomic orbital basis to the molecular orbital basis,
// and must be square with one column per spatial orbital.
func NewMolecularOrbitals(nElectron, sz int, coeff *mat.Dense) (*MolecularOrbitals, error) {
	rows, cols := coeff.Dims()
	if rows != cols {
		return nil, errors.Errorf("non-square coefficient matrix %dx%d", rows, cols)
	}
	if nElectron <= 0 {
		return nil, errors.Errorf("%d electrons", nElectron)
	}
	mo := &MolecularOrbitals{nElectron: nElectron, nSpatialOrb: cols, sz: sz}
	mo.coeff = mat.DenseCopyOf(coeff)
	return mo, nil
}

func (mo *MolecularOrbitals) NElectron() int { return mo.nElectron }
func (mo *MolecularOrbitals) NSpatialOrb() int { return mo.nSpatialOrb }
func (mo *MolecularOrbitals) NSpinOrb() int { return 2 * mo.nSpatialOrb }
func (mo *MolecularOrbitals) Sz() int { return mo.sz }

// Coeff returns a copy of the coefficient matrix.
func (mo *MolecularOrbitals) Coeff() *mat.Dense {
	return mat.DenseCopyOf(mo.coeff)
}

// ActiveSpace selects the electrons and orbitals retained for explicit
// many-body treatment. It is a pure configuration value.
type ActiveSpace struct {
	// NEle is the number of active electrons.
	NEle int
	// NOrb is the number of active spatial orbitals.
	NOrb int
	// ActiveOrbs optionally lists the active orbital indices explicitly.
	// When empty, the NOrb orbitals right above the core are taken.
	ActiveOrbs []int
}

// CAS returns the complete active space with nEle electrons in nOrb orbitals.
func CAS(nEle, nOrb int) ActiveSpace {
	return ActiveSpace{NEle: nEle, NOrb: nOrb}
}

// OrbType classifies a spatial orbital within an active space.
type OrbType int

const (
	Core OrbType = iota
	Active
	Virtual
)

func (t OrbType) String() string {
	switch t {
	case Core:
		return "core"
	case Active:
		return "active"
	case Virtual:
		return "virtual"
	default:
		return fmt.Sprintf("OrbType(%d)", int(t))
	}
}

// ActiveSpaceMolecularOrbitals composes molecular orbitals with an active
// space and derives the core/active/virtual partition.
type ActiveSpaceMolecularOrbitals struct {
	mo *MolecularOrbitals
	as ActiveSpace

	core    []int
	active  []int
	virtual []int
}

// NewActiveSpaceMolecularOrbitals validates the active space against the
// orbital set and derives the orbital partition.
func NewActiveSpaceMolecularOrbitals(mo *MolecularOrbitals, as ActiveSpace) (*ActiveSpaceMolecularOrbitals, error) {
	if as.NEle < 0 || as.NOrb < 0 {
		return nil, errors.Wrapf(ErrConfiguration, "cas(%d, %d)", as.NEle, as.NOrb)
	}
	if as.NEle > mo.nElectron {
		return nil, errors.Wrapf(ErrConfiguration, "%d active electrons > %d electrons", as.NEle, mo.nElectron)
	}
	coreEle := mo.nElectron - as.NEle
	if coreEle%2 != 0 {
		return nil, errors.Wrapf(ErrConfiguration, "odd core electron count %d", coreEle)
	}
	if as.NEle > 2*as.NOrb {
		return nil, errors.Wrapf(ErrConfiguration, "%d active electrons in %d orbitals", as.NEle, as.NOrb)
	}
	nCoreOrb := coreEle / 2
	if nCoreOrb+as.NOrb > mo.nSpatialOrb {
		return nil, errors.Wrapf(ErrConfiguration, "%d core + %d active orbitals > %d spatial orbitals", nCoreOrb, as.NOrb, mo.nSpatialOrb)
	}
	if len(as.ActiveOrbs) > 0 && len(as.ActiveOrbs) != as.NOrb {
		return nil, errors.Wrapf(ErrConfiguration, "%d explicit indices for %d active orbitals", len(as.ActiveOrbs), as.NOrb)
	}
	seen := make(map[int]bool, len(as.ActiveOrbs))
	for _, i := range as.ActiveOrbs {
		if i < 0 || i >= mo.nSpatialOrb {
			return nil, errors.Wrapf(ErrConfiguration, "active orbital %d out of range [0, %d)", i, mo.nSpatialOrb)
		}
		if seen[i] {
			return nil, errors.Wrapf(ErrConfiguration, "duplicate active orbital %d", i)
		}
		seen[i] = true
	}

	asmo := &ActiveSpaceMolecularOrbitals{mo: mo, as: as}
	asmo.partition(nCoreOrb)
	return asmo, nil
}

// partition assigns every spatial orbital to exactly one of the three sets.
// Without explicit indices, the core is the lowest nCoreOrb orbitals and the
// active space sits right above it. With explicit indices, the core is the
// lowest orbitals not claimed by the active list.
func (asmo *ActiveSpaceMolecularOrbitals) partition(nCoreOrb int) {
	n := asmo.mo.nSpatialOrb
	isActive := make(map[int]bool, len(asmo.as.ActiveOrbs))
	for _, i := range asmo.as.ActiveOrbs {
		isActive[i] = true
	}

	switch {
	case len(asmo.as.ActiveOrbs) > 0:
		remaining := nCoreOrb
		for i := 0; i < n; i++ {
			switch {
			case isActive[i]:
				asmo.active = append(asmo.active, i)
			case remaining > 0:
				asmo.core = append(asmo.core, i)
				remaining--
			default:
				asmo.virtual = append(asmo.virtual, i)
			}
		}
	default:
		for i := 0; i < nCoreOrb; i++ {
			asmo.core = append(asmo.core, i)
		}
		for i := nCoreOrb; i < nCoreOrb+asmo.as.NOrb; i++ {
			asmo.active = append(asmo.active, i)
		}
		for i := nCoreOrb + asmo.as.NOrb; i < n; i++ {
			asmo.virtual = append(asmo.virtual, i)
		}
	}
}

func (asmo *ActiveSpaceMolecularOrbitals) NElectron() int { return asmo.mo.nElectron }
func (asmo *ActiveSpaceMolecularOrbitals) NSpatialOrb() int { return asmo.mo.nSpatialOrb }
func (asmo *ActiveSpaceMolecularOrbitals) NCoreEle() int { return asmo.mo.nElectron - asmo.as.NEle }
func (asmo *ActiveSpaceMolecularOrbitals) NActiveEle() int { return asmo.as.NEle }
func (asmo *ActiveSpaceMolecularOrbitals) NCoreOrb() int { return len(asmo.core) }
func (asmo *ActiveSpaceMolecularOrbitals) NActiveOrb() int { return len(asmo.active) }
func (asmo *ActiveSpaceMolecularOrbitals) NVirOrb() int { return len(asmo.virtual) }
func (asmo *ActiveSpaceMolecularOrbitals) NActiveSpinOrb() int {
	return 2 * len(asmo.active)
}

// CoreOrbs returns the core orbital indices in ascending order.
func (asmo *ActiveSpaceMolecularOrbitals) CoreOrbs() []int {
	return append([]int(nil), asmo.core...)
}

// ActiveOrbs returns the active orbital indices in ascending order.
func (asmo *ActiveSpaceMolecularOrbitals) ActiveOrbs() []int {
	return append([]int(nil), asmo.active...)
}

// VirOrbs returns the virtual orbital indices in ascending order.
func (asmo *ActiveSpaceMolecularOrbitals) VirOrbs() []int {
	return append([]int(nil), asmo.virtual...)
}

// MO returns the underlying molecular orbitals.
func (asmo *ActiveSpaceMolecularOrbitals) MO() *MolecularOrbitals { return asmo.mo }

// OrbType reports whether spatial orbital i is core, active or virtual.
func (asmo *ActiveSpaceMolecularOrbitals) OrbType(i int) (OrbType, error) {
	if i < 0 || i >= asmo.mo.nSpatialOrb {
		return 0, errors.Errorf("orbital index %d out of range [0, %d)", i, asmo.mo.nSpatialOrb)
	}
	for _, c := range asmo.core {
		if c == i {
			return Core, nil
		}
	}
	for _, a := range asmo.active {
		if a == i {
			return Active, nil
		}
	}
	return Virtual, nil
}
