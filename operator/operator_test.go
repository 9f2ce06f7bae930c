package operator

import (
	"flag"
	"fmt"
	"log"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/Mayank447/qchem/integral"
)

func TestSumMatrix(t *testing.T) {
	t.Parallel()
	tests := []struct {
		s       Sum
		nQubits int
		want    *COO
	}{
		{
			s:       Sum{"Z0": 1},
			nQubits: 2,
			want: M([][]complex64{
				{1, 0, 0, 0},
				{0, 1, 0, 0},
				{0, 0, -1, 0},
				{0, 0, 0, -1},
			}),
		},
		{
			s:       Sum{"X1": 2, "": 1},
			nQubits: 2,
			want: M([][]complex64{
				{1, 2, 0, 0},
				{2, 1, 0, 0},
				{0, 0, 1, 2},
				{0, 0, 2, 1},
			}),
		},
		{
			s:       Sum{"Z0 Z1": 1},
			nQubits: 2,
			want: M([][]complex64{
				{1, 0, 0, 0},
				{0, -1, 0, 0},
				{0, 0, -1, 0},
				{0, 0, 0, 1},
			}),
		},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%v", test.s), func(t *testing.T) {
			t.Parallel()
			h, err := test.s.Matrix(test.nQubits)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			if !h.Equal(test.want) {
				t.Fatalf("\n%s, expected \n\n%s", h, test.want)
			}
		})
	}
}

func TestTransverseIsingEigen(t *testing.T) {
	t.Parallel()
	// The 2 qubit transverse field Ising ground energy is -sqrt(1+4h^2).
	tests := []struct {
		h float64
	}{
		{h: 0.5},
		{h: 1},
		{h: 2},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%f", test.h), func(t *testing.T) {
			t.Parallel()
			m, err := TransverseIsing(2, test.h).Matrix(2)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			vvs := m.Eigen()
			want := -math.Sqrt(1 + 4*test.h*test.h)
			if math.Abs(real(vvs[0].Val)-want) > 1e-6 {
				t.Fatalf("%f, expected %f", real(vvs[0].Val), want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()
	got, err := Normalize("Z2 X0")
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if got != "X0 Z2" {
		t.Fatalf("%q", got)
	}

	for _, label := range []string{"W0", "X", "X0 Y0", "X-1"} {
		if _, err := Normalize(label); err == nil {
			t.Fatalf("%q", label)
		}
	}
}

func TestSumAdd(t *testing.T) {
	t.Parallel()
	s := Sum{}
	if err := s.Add("Z1 X0", 1); err != nil {
		t.Fatalf("%+v", err)
	}
	if err := s.Add("X0 Z1", -1); err != nil {
		t.Fatalf("%+v", err)
	}
	if len(s) != 0 {
		t.Fatalf("%v", s)
	}

	n, err := TransverseIsing(3, 1).NQubits()
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if n != 3 {
		t.Fatalf("%d", n)
	}
}

func TestFermionFromSpin(t *testing.T) {
	t.Parallel()
	one := mat.NewDense(2, 2, []float64{-1, 0.5, 0.5, -0.25})
	two := integral.NewRank4(2)
	two.Set(0, 0, 1, 1, 0.7)
	spin := spinSet{constant: 0.25, one: one, two: two}

	f, err := FermionFromSpin(spin)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if f.Constant != 0.25 || f.NSpinOrb() != 2 {
		t.Fatalf("%f %d", f.Constant, f.NSpinOrb())
	}
	if f.OneBody[[2]int{0, 1}] != 0.5 || f.OneBody[[2]int{1, 1}] != -0.25 {
		t.Fatalf("%v", f.OneBody)
	}
	// The two-body coefficient carries the 1/2 prefactor.
	if f.TwoBody[[4]int{0, 0, 1, 1}] != 0.35 {
		t.Fatalf("%v", f.TwoBody)
	}
	if len(f.TwoBody) != 1 {
		t.Fatalf("%v", f.TwoBody)
	}
}

type spinSet struct {
	constant float64
	one      *mat.Dense
	two      *integral.Rank4
}

func (s spinSet) Constant() float64 { return s.constant }
func (s spinSet) OneBody() (*mat.Dense, error) { return s.one, nil }
func (s spinSet) TwoBody() (*integral.Rank4, error) { return s.two, nil }

func TestMain(m *testing.M) {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds | log.Llongfile | log.LstdFlags)

	m.Run()
}
