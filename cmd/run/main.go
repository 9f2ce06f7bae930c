package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/Mayank447/qchem/estimator"
	"github.com/Mayank447/qchem/integral"
	"github.com/Mayank447/qchem/operator"
	"github.com/Mayank447/qchem/orbital"
	"github.com/Mayank447/qchem/record"
	"github.com/Mayank447/qchem/solver"
	"github.com/Mayank447/qchem/vqe"
)

const (
	fnameTrace = "trace.db"
	fnameCSV   = "trace.csv"
)

var (
	runDir  = flag.String("d", filepath.Join("runs", "qchem"), "run directory")
	nQubits = flag.Int("n", 2, "Ising chain length")
	field   = flag.Float64("field", 1, "transverse field strength")
	maxIter = flag.Int("iter", 8192, "iteration budget")
)

// h2 runs the hydrogen molecule integral pipeline and prints the mean
// field and frozen core energies.
func h2() error {
	r, err := solver.H2STO3G{}.Solve()
	if err != nil {
		return errors.Wrap(err, "")
	}
	mo, err := solver.Orbitals(r)
	if err != nil {
		return errors.Wrap(err, "")
	}
	ao, err := solver.AO(r)
	if err != nil {
		return errors.Wrap(err, "")
	}

	asmo, err := orbital.NewActiveSpaceMolecularOrbitals(mo, orbital.CAS(2, 2))
	if err != nil {
		return errors.Wrap(err, "")
	}
	log.Printf("H2/STO-3G: %d electrons, %d core, %d active, %d virtual orbitals",
		mo.NElectron(), asmo.NCoreOrb(), asmo.NActiveOrb(), asmo.NVirOrb())

	spatial, err := integral.SpatialFromAO(ao, mo.Coeff())
	if err != nil {
		return errors.Wrap(err, "")
	}
	one, err := spatial.OneBody()
	if err != nil {
		return errors.Wrap(err, "")
	}
	two, err := spatial.TwoBody()
	if err != nil {
		return errors.Wrap(err, "")
	}
	rhf := 2*one.At(0, 0) + two.At(0, 0, 0, 0) + spatial.Constant()
	log.Printf("RHF energy %f", rhf)

	spin, err := integral.SpinFromSpatial(spatial)
	if err != nil {
		return errors.Wrap(err, "")
	}
	f, err := operator.FermionFromSpin(spin)
	if err != nil {
		return errors.Wrap(err, "")
	}
	log.Printf("fermionic hamiltonian: %d spin orbitals, %d one body, %d two body terms",
		f.NSpinOrb(), len(f.OneBody), len(f.TwoBody))

	frozen, err := integral.ActiveSpatial(spatial, mustASMO(mo, orbital.CAS(0, 1)))
	if err != nil {
		return errors.Wrap(err, "")
	}
	log.Printf("fully frozen constant %f", frozen.Constant())
	return nil
}

func mustASMO(mo *orbital.MolecularOrbitals, as orbital.ActiveSpace) *orbital.ActiveSpaceMolecularOrbitals {
	asmo, err := orbital.NewActiveSpaceMolecularOrbitals(mo, as)
	if err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
	return asmo
}

// ground searches for the transverse field Ising ground state and records
// the optimization trace.
func ground(dir string, n int, h float64) error {
	ising := operator.TransverseIsing(n, h)
	e, err := estimator.NewExact(ising, n)
	if err != nil {
		return errors.Wrap(err, "")
	}
	state := estimator.NewAmplitudes(n)
	cost := estimator.Cost(e, state)
	grad := vqe.NumericalGradient(vqe.ConcurrentBatch(cost), 1e-3)

	session, err := record.Open(filepath.Join(dir, fnameTrace))
	if err != nil {
		return errors.Wrap(err, "")
	}
	defer session.Close()

	params := make([]float64, state.NumParams())
	for i := range params {
		params[i] = 0.2 + 0.1*float64(i%3)
	}
	adam := vqe.NewAdam(vqe.NewAdamOptions().Ftol(1e-12).Gtol(1e-12))
	s, err := vqe.Minimize(adam, adam.InitState(params), cost, grad,
		vqe.NewMinimizeOptions().MaxIterations(*maxIter).Recorder(session))
	if err != nil {
		return errors.Wrap(err, "")
	}
	if s.Status == vqe.Failed {
		return errors.Wrap(s.Err, "")
	}

	m, err := ising.Matrix(n)
	if err != nil {
		return errors.Wrap(err, "")
	}
	exact := real(m.Eigen()[0].Val)
	log.Printf("ising n=%d h=%f: %s after %d iterations, energy %f, exact %f",
		n, h, s.Status, s.Iter, s.Cost, exact)

	f, err := os.Create(filepath.Join(dir, fnameCSV))
	if err != nil {
		return errors.Wrap(err, "")
	}
	if err := session.WriteCSV(f); err != nil {
		f.Close()
		return errors.Wrap(err, "")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "")
	}

	fmt.Printf("n,h,energy,exact,iterations\n")
	fmt.Printf("%d,%f,%f,%f,%d\n", n, h, s.Cost, exact, s.Iter)
	return nil
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds | log.Llongfile | log.LstdFlags)

	if err := mainWithErr(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func mainWithErr() error {
	if err := os.MkdirAll(*runDir, os.ModePerm); err != nil {
		return errors.Wrap(err, "")
	}

	if err := h2(); err != nil {
		return errors.Wrap(err, "")
	}
	if err := ground(*runDir, *nQubits, *field); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}
