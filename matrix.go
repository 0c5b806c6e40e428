package chordal

import (
	"fmt"

	"github.com/chordalmath/chordal/symbolic"
)

// Matrix is a chordal-sparsity numeric matrix: a flat block-value buffer
// addressed through a shared, immutable Symbolic layout, plus a flag
// recording whether Blkval currently holds X (the chordal-projected matrix)
// or L (its supernodal Cholesky factor). Two Matrix values are operands of
// the same operation only if their Symb fields are the identical pointer —
// the engine never compares Symbolic values structurally.
type Matrix struct {
	// Symb describes the supernodal elimination tree and block layout this
	// matrix's Blkval is laid out against.
	Symb *symbolic.Symbolic
	// Blkval holds, for each supernode k, its Nk x nk column-major dense
	// panel at Blkval[Symb.BlkPtr[k]:Symb.BlkPtr[k+1]]: the lower-triangular
	// portion of X when IsFactor is false, or of L when IsFactor is true.
	Blkval []float64
	// IsFactor records whether Blkval holds L (true) or X (false).
	IsFactor bool
}

// NewMatrix wraps blkval with symb, validating that blkval's length matches
// the buffer size symb's block layout requires.
func NewMatrix(symb *symbolic.Symbolic, blkval []float64, isFactor bool) (*Matrix, error) {
	if symb == nil {
		return nil, ErrNilSymbolic
	}
	want := symb.BlkPtr[symb.Nsn]
	if len(blkval) != want {
		return nil, fmt.Errorf("NewMatrix: want %d values, got %d: %w", want, len(blkval), ErrBufferLength)
	}

	return &Matrix{Symb: symb, Blkval: blkval, IsFactor: isFactor}, nil
}

// block returns m's column-major Nk x nk panel for supernode k.
func (m *Matrix) block(k int) []float64 {
	start, end := m.Symb.Block(k)

	return m.Blkval[start:end]
}

func requireNotFactor(m *Matrix) error {
	if m.IsFactor {
		return ErrIsFactor
	}

	return nil
}

func requireFactor(m *Matrix) error {
	if !m.IsFactor {
		return ErrNotFactor
	}

	return nil
}

func sameSymbol(a, b *symbolic.Symbolic) error {
	if a != b {
		return ErrSymbolMismatch
	}

	return nil
}
