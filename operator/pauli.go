package operator

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"gonum.org/v1/gonum/mat"
)

var (
	// PauliX, PauliY and PauliZ are the single qubit Pauli matrices.
	PauliX = [][]complex64{
		{0, 1},
		{1, 0},
	}
	PauliY = [][]complex64{
		{0, -1i},
		{1i, 0},
	}
	PauliZ = [][]complex64{
		{1, 0},
		{0, -1},
	}
)

type entry struct {
	v   complex64
	row int
	col int
}

// COO is a sparse complex matrix in coordinate format, used to assemble
// multi-qubit operator matrices from Kronecker products of Pauli factors.
type COO struct {
	rows int
	cols int
	data []entry

	m map[[2]int]complex64
}

// M builds a sparse matrix from a dense slice.
func M(dense [][]complex64) *COO {
	m := &COO{rows: len(dense), cols: len(dense[0]), data: make([]entry, 0), m: make(map[[2]int]complex64)}
	for i, row := range dense {
		for j, v := range row {
			if v == 0 {
				continue
			}
			m.data = append(m.data, entry{v: v, row: i, col: j})
		}
	}
	return m
}

// Identity returns the n by n identity.
func Identity(n int) *COO {
	m := M([][]complex64{{0}})
	m.Zeros(n, n)
	for i := 0; i < n; i++ {
		m.data = append(m.data, entry{v: 1, row: i, col: i})
	}
	return m
}

func (m *COO) Rows() int { return m.rows }
func (m *COO) Cols() int { return m.cols }

func (m *COO) Zeros(rows, cols int) {
	m.rows, m.cols = rows, cols
	m.data = m.data[:0]
}

// Scalar resets m to the 1x1 matrix holding v.
func (m *COO) Scalar(v complex64) {
	m.rows, m.cols = 1, 1
	m.data = m.data[:0]
	m.data = append(m.data, entry{v: v, row: 0, col: 0})
}

func (m *COO) At(i, j int) complex64 {
	for _, e := range m.data {
		if e.row == i && e.col == j {
			return e.v
		}
	}
	return 0
}

func (a *COO) Equal(b *COO) bool {
	if a.rows != b.rows || a.cols != b.cols {
		return false
	}
	if len(a.data) != len(b.data) {
		return false
	}
	for i, av := range a.data {
		if av != b.data[i] {
			return false
		}
	}
	return true
}

// Add does a += c*b.
func (a *COO) Add(c complex64, b *COO) {
	clear(b.m)
	for _, v := range b.data {
		b.m[[2]int{v.row, v.col}] = v.v
	}

	for i, av := range a.data {
		yx := [2]int{av.row, av.col}
		bv := b.m[yx]
		delete(b.m, yx)
		a.data[i].v = av.v + c*bv
	}

	a.data = slices.DeleteFunc(a.data, func(v entry) bool {
		return v.v == 0
	})
	for yx, bv := range b.m {
		a.data = append(a.data, entry{v: c * bv, row: yx[0], col: yx[1]})
	}
	slices.SortFunc(a.data, rowMajor)
	clear(b.m)
}

// Kron does a = kron(a, b) in place.
func (a *COO) Kron(b *COO) {
	rows := a.rows * b.rows
	cols := a.cols * b.cols
	a.rows, a.cols = rows, cols

	prevElemNum := len(a.data)
	for i := prevElemNum - 1; i >= 0; i-- {
		av := a.data[i]
		a.data[i].v = 0
		for _, bv := range b.data {
			ky := av.row*b.rows + bv.row
			kx := av.col*b.cols + bv.col
			a.data = append(a.data, entry{v: av.v * bv.v, row: ky, col: kx})
		}
	}

	a.data = slices.DeleteFunc(a.data, func(v entry) bool {
		return v.v == 0
	})
	slices.SortFunc(a.data, rowMajor)
}

// Dense returns the dense form.
func (m *COO) Dense() [][]complex64 {
	dense := make([][]complex64, m.rows)
	for i := range dense {
		dense[i] = make([]complex64, m.cols)
	}
	for _, v := range m.data {
		dense[v.row][v.col] = v.v
	}
	return dense
}

// ValVec is an eigenvalue and its eigenvector.
type ValVec struct {
	Val complex128
	Vec []complex128
}

// Eigen diagonalizes a real sparse matrix, returning eigenpairs sorted by
// ascending real part.
func (m *COO) Eigen() []ValVec {
	gnm := mat.NewDense(m.rows, m.cols, nil)
	gnm.Zero()
	for _, v := range m.data {
		if imag(v.v) != 0 {
			panic("not real")
		}
		gnm.Set(v.row, v.col, float64(real(v.v)))
	}

	var eig mat.Eigen
	ok := eig.Factorize(gnm, mat.EigenRight)
	if !ok {
		panic("eig.Factorize failed")
	}
	vals := eig.Values(nil)
	vecs := mat.NewCDense(m.rows, m.cols, nil)
	eig.VectorsTo(vecs)

	vecsR, _ := vecs.Caps()
	vvs := make([]ValVec, 0, len(vals))
	for i, v := range vals {
		vec := make([]complex128, 0, vecsR)
		for j := 0; j < vecsR; j++ {
			vec = append(vec, vecs.At(j, i))
		}
		vvs = append(vvs, ValVec{Val: v, Vec: vec})
	}
	slices.SortFunc(vvs, func(a, b ValVec) int { return cmp.Compare(real(a.Val), real(b.Val)) })

	return vvs
}

func (m *COO) String() string {
	lines := []string{}
	for i := 0; i < m.rows; i++ {
		cs := []string{}
		for j := 0; j < m.cols; j++ {
			cs = append(cs, fmt.Sprintf("%v", m.At(i, j)))
		}
		lines = append(lines, strings.Join(cs, "\t"))
	}
	return strings.Join(lines, "\n")
}

func rowMajor(a, b entry) int {
	if c := cmp.Compare(a.row, b.row); c != 0 {
		return c
	}
	return cmp.Compare(a.col, b.col)
}
