package dense_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chordalmath/chordal/chordal/dense"
)

// TestCholeskyPanel_KnownFactor checks the panel kernel directly against
// Higham's worked 3x3 example, the same factor the driver-level tests in
// the chordal package build on.
func TestCholeskyPanel_KnownFactor(t *testing.T) {
	a := []float64{4, 12, -16, 0, 37, -43, 0, 0, 98}
	require.NoError(t, dense.CholeskyPanel(a, 3))
	require.InDeltaSlice(t, []float64{2, 6, -8, 0, 1, 5, 0, 0, 3}, a, 1e-9)
}

// TestCholeskyPanel_RejectsNonPositivePivot checks that a matrix with a
// non-positive leading pivot is rejected rather than producing a NaN.
func TestCholeskyPanel_RejectsNonPositivePivot(t *testing.T) {
	a := []float64{-1, 0, 0, 1}
	err := dense.CholeskyPanel(a, 2)
	require.Error(t, err)
	require.True(t, errors.Is(err, dense.ErrNotPositiveDefinite))
}

// TestInvertSPD_MatchesIdentityProduct checks InvertSPD by multiplying its
// result back against the original matrix and verifying the identity.
func TestInvertSPD_MatchesIdentityProduct(t *testing.T) {
	a := []float64{4, 12, -16, 0, 37, -43, 0, 0, 98}
	inv, err := dense.InvertSPD(a, 3)
	require.NoError(t, err)

	prod := make([]float64, 9)
	dense.MatMul(prod, dense.Symmetric(a, 3), 3, 3, inv, 3)
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			want := 0.0
			if row == col {
				want = 1.0
			}
			require.InDelta(t, want, prod[col*3+row], 1e-6, "row %d col %d", row, col)
		}
	}
}

// TestTriLowerInvert_RejectsSingular checks that a zero diagonal entry is
// reported rather than dividing by zero.
func TestTriLowerInvert_RejectsSingular(t *testing.T) {
	l := []float64{1, 2, 0, 0}
	_, err := dense.TriLowerInvert(l, 2)
	require.Error(t, err)
	require.True(t, errors.Is(err, dense.ErrSingular))
}

// TestSyrkLowerSub_SubtractsRankKUpdate checks the Schur-complement kernel
// Cholesky relies on to push a supernode's update block.
func TestSyrkLowerSub_SubtractsRankKUpdate(t *testing.T) {
	c := []float64{10, 0, 0, 10}
	b := []float64{1, 2, 3, 4} // 2x2 panel, column-major
	dense.SyrkLowerSub(c, 2, b, 2, 2)

	// c -= b*b^T: b*b^T = [[1*1+3*3, 1*2+3*4],[2*1+4*3,2*2+4*4]] = [[10,14],[14,20]]
	require.InDelta(t, 0, c[0], 1e-9)   // 10 - 10
	require.InDelta(t, -14, c[1], 1e-9) // 0 - 14
	require.InDelta(t, -10, c[3], 1e-9) // 10 - 20
}
