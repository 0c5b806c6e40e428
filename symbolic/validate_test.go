package symbolic_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chordalmath/chordal/symbolic"
)

func validSymbolic() *symbolic.Symbolic {
	return &symbolic.Symbolic{
		N:      3,
		Nsn:    2,
		SnPost: []int{0, 1},
		SnPtr:  []int{0, 2, 3},
		RelPtr: []int{0, 3, 6},
		RelIdx: []int{0, 1, 2, 0, 1, 2},
		ChPtr:  []int{0, 0, 1},
		ChIdx:  []int{0},
		BlkPtr: []int{0, 6, 9},
		Memory: symbolic.Memory{StackDepth: 1, StackMem: 1, FrontalMem: 9},
	}
}

// TestValidate_Accepts confirms a well-formed Symbolic passes every check.
func TestValidate_Accepts(t *testing.T) {
	require.NoError(t, validSymbolic().Validate())
}

// TestValidate_RejectsNonAscendingRelIdx covers a supernode whose RelIdx
// slice is not strictly increasing.
func TestValidate_RejectsNonAscendingRelIdx(t *testing.T) {
	s := validSymbolic()
	s.RelIdx = []int{1, 0, 2, 0, 1, 2}
	err := s.Validate()
	require.Error(t, err)
	require.True(t, errors.Is(err, symbolic.ErrNonAscendingRelIdx))
}

// TestValidate_RejectsBlockSizeMismatch covers a BlkPtr table disagreeing
// with Nk*nk for some supernode.
func TestValidate_RejectsBlockSizeMismatch(t *testing.T) {
	s := validSymbolic()
	s.BlkPtr = []int{0, 5, 9}
	err := s.Validate()
	require.Error(t, err)
	require.True(t, errors.Is(err, symbolic.ErrBlockSizeMismatch))
}

// TestValidate_RejectsBadPostOrder covers an SnPost listing the parent
// before its child.
func TestValidate_RejectsBadPostOrder(t *testing.T) {
	s := validSymbolic()
	s.SnPost = []int{1, 0}
	err := s.Validate()
	require.Error(t, err)
	require.True(t, errors.Is(err, symbolic.ErrNonPostOrder))
}

// TestValidate_RejectsShortOffsetTable covers a malformed offset table
// whose length does not match Nsn+1.
func TestValidate_RejectsShortOffsetTable(t *testing.T) {
	s := validSymbolic()
	s.SnPtr = []int{0, 2}
	err := s.Validate()
	require.Error(t, err)
	require.True(t, errors.Is(err, symbolic.ErrPtrLengthMismatch))
}
