// Package operator represents qubit and fermionic operators: weighted sums
// of multi-qubit Pauli strings, and second-quantized Hamiltonians built
// from active space electron integrals.
package operator

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Sum is a qubit operator: a mapping from Pauli string labels to complex
// coefficients. A label is a space separated list of single qubit factors
// such as "X0 Z2"; the empty label is the identity.
type Sum map[string]complex128

// Add accumulates c onto the term with the given label, normalizing the
// label to sorted qubit order. Zero terms are removed.
func (s Sum) Add(label string, c complex128) error {
	normalized, err := Normalize(label)
	if err != nil {
		return errors.Wrap(err, "")
	}
	v := s[normalized] + c
	if v == 0 {
		delete(s, normalized)
		return nil
	}
	s[normalized] = v
	return nil
}

type factor struct {
	op    byte
	qubit int
}

func parseLabel(label string) ([]factor, error) {
	fields := strings.Fields(label)
	factors := make([]factor, 0, len(fields))
	seen := make(map[int]bool, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			return nil, errors.Errorf("%q in %q", f, label)
		}
		op := f[0]
		switch op {
		case 'X', 'Y', 'Z':
		default:
			return nil, errors.Errorf("%q in %q", f, label)
		}
		qubit, err := strconv.Atoi(f[1:])
		if err != nil || qubit < 0 {
			return nil, errors.Errorf("%q in %q", f, label)
		}
		if seen[qubit] {
			return nil, errors.Errorf("duplicate qubit %d in %q", qubit, label)
		}
		seen[qubit] = true
		factors = append(factors, factor{op: op, qubit: qubit})
	}
	sort.Slice(factors, func(i, j int) bool { return factors[i].qubit < factors[j].qubit })
	return factors, nil
}

// Normalize returns the canonical form of a Pauli string label.
func Normalize(label string) (string, error) {
	factors, err := parseLabel(label)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(factors))
	for _, f := range factors {
		parts = append(parts, fmt.Sprintf("%c%d", f.op, f.qubit))
	}
	return strings.Join(parts, " "), nil
}

// NQubits returns the smallest qubit count covering every term.
func (s Sum) NQubits() (int, error) {
	n := 0
	for label := range s {
		factors, err := parseLabel(label)
		if err != nil {
			return 0, errors.Wrap(err, "")
		}
		for _, f := range factors {
			if f.qubit+1 > n {
				n = f.qubit + 1
			}
		}
	}
	return n, nil
}

// Matrix assembles the dense operator matrix over nQubits qubits as a
// Kronecker product of Pauli factors per term. Qubit 0 is the leftmost
// factor.
func (s Sum) Matrix(nQubits int) (*COO, error) {
	dim := 1 << nQubits
	h := M([][]complex64{{0}})
	h.Zeros(dim, dim)
	system := M([][]complex64{{0}})

	for label, c := range s {
		factors, err := parseLabel(label)
		if err != nil {
			return nil, errors.Wrap(err, "")
		}
		byQubit := make(map[int]byte, len(factors))
		for _, f := range factors {
			if f.qubit >= nQubits {
				return nil, errors.Errorf("qubit %d in %q, %d qubits", f.qubit, label, nQubits)
			}
			byQubit[f.qubit] = f.op
		}

		system.Scalar(1)
		for q := 0; q < nQubits; q++ {
			switch byQubit[q] {
			case 'X':
				system.Kron(M(PauliX))
			case 'Y':
				system.Kron(M(PauliY))
			case 'Z':
				system.Kron(M(PauliZ))
			default:
				system.Kron(Identity(2))
			}
		}
		h.Add(complex64(c), system)
	}
	return h, nil
}

// TransverseIsing returns the transverse field Ising chain Hamiltonian
// over n qubits, with nearest neighbor ZZ coupling and field strength h.
func TransverseIsing(n int, h float64) Sum {
	s := Sum{}
	for i := 0; i < n-1; i++ {
		s[fmt.Sprintf("Z%d Z%d", i, i+1)] = -1
	}
	for i := 0; i < n; i++ {
		s[fmt.Sprintf("X%d", i)] = complex(-h, 0)
	}
	return s
}
