package chordal_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chordalmath/chordal"
	"github.com/chordalmath/chordal/chordal/dense"
	"github.com/chordalmath/chordal/symbolic"
)

// buildDenseSingle returns the trivial single-supernode pattern: one
// supernode owning every column, no row extension, no parent. This is the
// n x n fully dense case, used wherever a test wants to cross-check against
// a plain (non-sparse) reference computation.
func buildDenseSingle(t *testing.T, n int) *symbolic.Symbolic {
	t.Helper()
	rel := make([]int, n)
	for i := range rel {
		rel[i] = i
	}
	s, err := symbolic.Build(n, []int{-1}, []int{n}, [][]int{rel})
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	return s
}

// buildStarPair returns a two-supernode tree: a child owning column 0 with a
// single row extension that lands inside the root's own leading block (not
// merely its slack rows), so the root's real stored diagonal entry picks up
// the child's pushed contribution during assembly — the minimal shape that
// exercises extend-add into a parent's own panel.
func buildStarPair(t *testing.T) *symbolic.Symbolic {
	t.Helper()
	parent := []int{1, -1}
	nk := []int{1, 2}
	relIdx := [][]int{{0, 1}, {0, 1}}
	s, err := symbolic.Build(3, parent, nk, relIdx)
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	return s
}

// buildTwoChildStar returns a three-supernode tree with two leaf children
// sharing a single separator row in their common root, exercising
// multi-child accumulation (two scatter-adds landing on the same cell).
func buildTwoChildStar(t *testing.T) *symbolic.Symbolic {
	t.Helper()
	parent := []int{2, 2, -1}
	nk := []int{1, 1, 2}
	relIdx := [][]int{{0, 1}, {0, 1}, {0, 1}}
	s, err := symbolic.Build(4, parent, nk, relIdx)
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	return s
}

// assertLowerEqual compares only the meaningful entries of two Blkval
// buffers against symb's layout: each supernode's own nk x nk leading block
// restricted to its lower triangle (the strict upper triangle is unused
// storage, not a pattern entry), plus the full (Nk-nk) x nk extension block.
func assertLowerEqual(t *testing.T, symb *symbolic.Symbolic, want, got []float64, tol float64) {
	t.Helper()
	for k := 0; k < symb.Nsn; k++ {
		nk := symb.Ncols(k)
		Nk := symb.Nk(k)
		start, _ := symb.Block(k)
		for col := 0; col < nk; col++ {
			for row := col; row < Nk; row++ {
				idx := start + col*Nk + row
				require.InDelta(t, want[idx], got[idx], tol, "supernode %d, row %d, col %d", k, row, col)
			}
		}
	}
}

// innerProduct computes the Frobenius-style inner product of two chordal
// matrices sharing symb's pattern: every stored diagonal entry counts once,
// every off-diagonal entry (within a supernode's own block, or in a
// row-extension block) counts twice — it represents one of a symmetric
// pair of global matrix entries.
func innerProduct(symb *symbolic.Symbolic, a, b []float64) float64 {
	var sum float64
	for k := 0; k < symb.Nsn; k++ {
		nk := symb.Ncols(k)
		Nk := symb.Nk(k)
		start, _ := symb.Block(k)
		for col := 0; col < nk; col++ {
			for row := col; row < Nk; row++ {
				idx := start + col*Nk + row
				weight := 2.0
				if row == col {
					weight = 1.0
				}
				sum += weight * a[idx] * b[idx]
			}
		}
	}

	return sum
}

// newMatrix is a small constructor wrapper so tests read as a sequence of
// driver calls rather than error-checked plumbing.
func newMatrix(t *testing.T, symb *symbolic.Symbolic, blkval []float64, isFactor bool) *chordal.Matrix {
	t.Helper()
	m, err := chordal.NewMatrix(symb, blkval, isFactor)
	require.NoError(t, err)

	return m
}

// TestCholesky_SingleSupernode_MatchesKnownFactor checks the textbook 3x3
// example (Higham's Cholesky worked example) against its known factor,
// exercising the driver with no tree machinery at all.
func TestCholesky_SingleSupernode_MatchesKnownFactor(t *testing.T) {
	symb := buildDenseSingle(t, 3)
	ws := chordal.NewWorkspace(symb)

	blkval := []float64{4, 12, -16, 0, 37, -43, 0, 0, 98}
	x := newMatrix(t, symb, blkval, false)

	require.NoError(t, chordal.Cholesky(x, ws))
	require.True(t, x.IsFactor)

	want := []float64{2, 6, -8, 0, 1, 5, 0, 0, 3}
	assertLowerEqual(t, symb, want, x.Blkval, 1e-9)
}

// TestLLT_InvertsCholesky_SingleSupernode covers testable property 1: LLT
// undoes Cholesky, recovering X exactly (to floating-point tolerance).
func TestLLT_InvertsCholesky_SingleSupernode(t *testing.T) {
	symb := buildDenseSingle(t, 3)
	ws := chordal.NewWorkspace(symb)

	original := []float64{4, 12, -16, 0, 37, -43, 0, 0, 98}
	blkval := append([]float64(nil), original...)
	x := newMatrix(t, symb, blkval, false)

	require.NoError(t, chordal.Cholesky(x, ws))
	require.True(t, x.IsFactor)

	require.NoError(t, chordal.LLT(x, ws))
	require.False(t, x.IsFactor)

	assertLowerEqual(t, symb, original, x.Blkval, 1e-9)
}

// TestLLT_InvertsCholesky_StarPair covers the same round-trip property
// across a genuine two-supernode elimination tree, where the child's
// extension row must be popped and scatter-added into the root's own
// diagonal before the root's local outer-product terms are added — the bug
// this file's Cholesky/LLT pairing must not regress.
func TestLLT_InvertsCholesky_StarPair(t *testing.T) {
	symb := buildStarPair(t)
	ws := chordal.NewWorkspace(symb)

	// Child panel (Nk=2, nk=1): X[0][0]=4, extension row X[2][0]=2 (using
	// global column 0 for the child, global column 2 for the coupling).
	// Root panel (Nk=2, nk=2): X[1][1]=9, X[2][1]=3, X[2][2]=5 — the value
	// the child's pushed Schur update must combine with during assembly.
	original := []float64{4, 2, 9, 3, 0, 5}
	blkval := append([]float64(nil), original...)
	x := newMatrix(t, symb, blkval, false)

	require.NoError(t, chordal.Cholesky(x, ws))
	require.True(t, x.IsFactor)

	wantL := []float64{2, 1, 3, 1, 0, math.Sqrt(3)}
	assertLowerEqual(t, symb, wantL, x.Blkval, 1e-9)

	require.NoError(t, chordal.LLT(x, ws))
	require.False(t, x.IsFactor)
	assertLowerEqual(t, symb, original, x.Blkval, 1e-9)
}

// TestLLT_InvertsCholesky_TwoChildStar exercises the same round-trip
// property where two children push updates that land, and accumulate, on
// the same root cell.
func TestLLT_InvertsCholesky_TwoChildStar(t *testing.T) {
	symb := buildTwoChildStar(t)
	ws := chordal.NewWorkspace(symb)

	// sn0 (col0): X00=9, extension X[?][0]=3 landing on root's local row 1.
	// sn1 (col1): X11=16, extension X[?][1]=2 landing on the same root cell.
	// root (cols 2,3): its own 2x2 panel [[25,4],[4,30]].
	original := []float64{9, 3, 16, 2, 25, 4, 0, 30}
	blkval := append([]float64(nil), original...)
	x := newMatrix(t, symb, blkval, false)

	require.NoError(t, chordal.Cholesky(x, ws))
	require.True(t, x.IsFactor)

	require.NoError(t, chordal.LLT(x, ws))
	require.False(t, x.IsFactor)
	assertLowerEqual(t, symb, original, x.Blkval, 1e-9)
}

// TestProjectedInverse_MatchesIndependentOracle cross-checks
// chordal.ProjectedInverse against chordal/dense's own InvertSPD kernel
// called directly on the dense 3x3 panel, for the fully dense
// single-supernode case where the chordal projection is a no-op (every
// entry is in the pattern) and Y must equal the plain matrix inverse
// exactly.
func TestProjectedInverse_MatchesIndependentOracle(t *testing.T) {
	symb := buildDenseSingle(t, 3)
	ws := chordal.NewWorkspace(symb)

	blkval := []float64{4, 12, -16, 0, 37, -43, 0, 0, 98}
	x := newMatrix(t, symb, append([]float64(nil), blkval...), false)
	require.NoError(t, chordal.Cholesky(x, ws))
	require.NoError(t, chordal.ProjectedInverse(x, ws))
	require.False(t, x.IsFactor)

	inv, err := dense.InvertSPD(blkval, 3)
	require.NoError(t, err)

	for col := 0; col < 3; col++ {
		for row := col; row < 3; row++ {
			require.InDelta(t, inv[col*3+row], x.Blkval[col*3+row], 1e-7, "row %d col %d", row, col)
		}
	}
}

// TestProjectedInverse_Idempotent covers testable property 2: re-deriving L
// from X via Cholesky (after an LLT round trip restores X exactly) and
// re-running ProjectedInverse reproduces the same Y, since both L and the
// operator built from it are fully determined by X.
func TestProjectedInverse_Idempotent(t *testing.T) {
	symb := buildStarPair(t)
	ws := chordal.NewWorkspace(symb)
	original := []float64{4, 2, 9, 3, 0, 5}

	run := func() []float64 {
		blkval := append([]float64(nil), original...)
		x := newMatrix(t, symb, blkval, false)
		require.NoError(t, chordal.Cholesky(x, ws))
		require.NoError(t, chordal.ProjectedInverse(x, ws))
		require.False(t, x.IsFactor)

		return x.Blkval
	}

	y1 := run()

	// Second pass: Cholesky -> LLT -> Cholesky -> ProjectedInverse, checking
	// the intermediate LLT genuinely restores X before re-deriving Y.
	blkval := append([]float64(nil), original...)
	x := newMatrix(t, symb, blkval, false)
	require.NoError(t, chordal.Cholesky(x, ws))
	require.NoError(t, chordal.LLT(x, ws))
	assertLowerEqual(t, symb, original, x.Blkval, 1e-9)
	require.NoError(t, chordal.Cholesky(x, ws))
	require.NoError(t, chordal.ProjectedInverse(x, ws))

	assertLowerEqual(t, symb, y1, x.Blkval, 1e-9)
}

// TestCompletion_SingleSupernode_EqualsCholeskyOfInverse covers the
// degenerate case of a fully dense pattern: with no separator, Completion's
// clique-marginal identity reduces to inverting X's own single diagonal
// block, so its output factor must be exactly chol(X^-1), not chol(X) —
// Completion(X) and Cholesky(X) factor two different matrices (L L^T = X^-1
// versus X) and only coincide when X is itself the identity.
func TestCompletion_SingleSupernode_EqualsCholeskyOfInverse(t *testing.T) {
	symb := buildDenseSingle(t, 3)
	ws := chordal.NewWorkspace(symb)
	blkval := []float64{4, 12, -16, 0, 37, -43, 0, 0, 98}

	compX := newMatrix(t, symb, append([]float64(nil), blkval...), false)
	require.NoError(t, chordal.Completion(compX, ws))
	require.True(t, compX.IsFactor)

	inv, err := dense.InvertSPD(blkval, 3)
	require.NoError(t, err)
	want := make([]float64, 9)
	dense.CopyLowerTriangle(want, inv, 3)
	require.NoError(t, dense.CholeskyPanel(want, 3))

	assertLowerEqual(t, symb, want, compX.Blkval, 1e-7)
}

// TestCompletion_ThenProjectedInverse_RecoversX covers testable property 5:
// completing X to its max-determinant PD extension and projecting the
// inverse of that extension's Cholesky factor back onto the pattern must
// recover X itself (Grone-Johnson-Sa-Wolkowicz), exercised over a genuine
// two-supernode tree with a real separator to complete.
func TestCompletion_ThenProjectedInverse_RecoversX(t *testing.T) {
	symb := buildStarPair(t)
	ws := chordal.NewWorkspace(symb)
	original := []float64{4, 2, 9, 3, 0, 5}

	x := newMatrix(t, symb, append([]float64(nil), original...), false)
	require.NoError(t, chordal.Completion(x, ws))
	require.True(t, x.IsFactor)

	require.NoError(t, chordal.ProjectedInverse(x, ws))
	require.False(t, x.IsFactor)

	assertLowerEqual(t, symb, original, x.Blkval, 1e-9)
}

// TestHessian_SelfAdjoint covers testable property 3: <H_X(U1), U2> must
// equal <U1, H_X(U2)> for the composed (Adj absent) Hessian operator.
func TestHessian_SelfAdjoint(t *testing.T) {
	symb := buildDenseSingle(t, 3)
	ws := chordal.NewWorkspace(symb)

	lBlk := []float64{4, 12, -16, 0, 37, -43, 0, 0, 98}
	l := newMatrix(t, symb, lBlk, false)
	require.NoError(t, chordal.Cholesky(l, ws))

	y := newMatrix(t, symb, make([]float64, 9), false)

	u1 := newMatrix(t, symb, []float64{1, 2, 3, 0, 4, 5, 0, 0, 6}, false)
	u2 := newMatrix(t, symb, []float64{2, -1, 1, 0, 3, -2, 0, 0, 7}, false)
	u1Orig := append([]float64(nil), u1.Blkval...)
	u2Orig := append([]float64(nil), u2.Blkval...)

	require.NoError(t, chordal.Hessian(l, y, []*chordal.Matrix{u1}, ws))
	lhs := innerProduct(symb, u1.Blkval, u2Orig)

	require.NoError(t, chordal.Hessian(l, y, []*chordal.Matrix{u2}, ws))
	rhs := innerProduct(symb, u1Orig, u2.Blkval)

	require.InDelta(t, lhs, rhs, 1e-7)
}

// TestHessian_InverseRoundTrip covers testable property 4: applying the
// composed Hessian's inverse to its own output recovers the original U.
func TestHessian_InverseRoundTrip(t *testing.T) {
	symb := buildDenseSingle(t, 3)
	ws := chordal.NewWorkspace(symb)

	lBlk := []float64{4, 12, -16, 0, 37, -43, 0, 0, 98}
	l := newMatrix(t, symb, lBlk, false)
	require.NoError(t, chordal.Cholesky(l, ws))

	y := newMatrix(t, symb, make([]float64, 9), false)

	original := []float64{1, 2, 3, 0, 4, 5, 0, 0, 6}
	u := newMatrix(t, symb, append([]float64(nil), original...), false)

	require.NoError(t, chordal.Hessian(l, y, []*chordal.Matrix{u}, ws))
	require.NoError(t, chordal.Hessian(l, y, []*chordal.Matrix{u}, ws, chordal.WithInverse(true)))

	assertLowerEqual(t, symb, original, u.Blkval, 1e-6)
}

// TestHessian_DirectThenAdjoint_MatchesComposed covers the Adj-present
// composition documented on Hessian: running G_X (Adj=false) followed by
// G_X^adj (Adj=true) must match the single composed call with Adj absent.
func TestHessian_DirectThenAdjoint_MatchesComposed(t *testing.T) {
	symb := buildStarPair(t)
	ws := chordal.NewWorkspace(symb)
	xBlk := []float64{4, 2, 9, 3, 0, 5}

	l := newMatrix(t, symb, append([]float64(nil), xBlk...), false)
	require.NoError(t, chordal.Cholesky(l, ws))
	y := newMatrix(t, symb, make([]float64, 6), false)

	original := []float64{1, 1, 2, 1, 0, 3}

	uComposed := newMatrix(t, symb, append([]float64(nil), original...), false)
	require.NoError(t, chordal.Hessian(l, y, []*chordal.Matrix{uComposed}, ws))

	uStaged := newMatrix(t, symb, append([]float64(nil), original...), false)
	require.NoError(t, chordal.Hessian(l, y, []*chordal.Matrix{uStaged}, ws, chordal.WithAdjoint(false)))
	require.NoError(t, chordal.Hessian(l, y, []*chordal.Matrix{uStaged}, ws, chordal.WithAdjoint(true)))

	assertLowerEqual(t, symb, uComposed.Blkval, uStaged.Blkval, 1e-7)
}

// TestCholesky_RejectsAlreadyFactored covers seed scenario S5: calling
// Cholesky on a matrix already in the L state must fail validation and
// leave the matrix untouched.
func TestCholesky_RejectsAlreadyFactored(t *testing.T) {
	symb := buildDenseSingle(t, 3)
	ws := chordal.NewWorkspace(symb)
	blkval := []float64{2, 6, -8, 0, 1, 5, 0, 0, 3}
	snapshot := append([]float64(nil), blkval...)
	l := newMatrix(t, symb, blkval, true)

	err := chordal.Cholesky(l, ws)
	require.Error(t, err)
	require.True(t, errors.Is(err, chordal.ErrIsFactor))
	require.True(t, l.IsFactor)
	require.Equal(t, snapshot, l.Blkval)
}

// TestHessian_RejectsSymbolMismatch covers seed scenario S6: two
// *symbolic.Symbolic values built from identical arguments are still
// distinct identities, and operands must be rejected by pointer, never by
// structural equality.
func TestHessian_RejectsSymbolMismatch(t *testing.T) {
	symbA := buildDenseSingle(t, 3)
	symbB := buildDenseSingle(t, 3)
	ws := chordal.NewWorkspace(symbA)

	lBlk := []float64{4, 12, -16, 0, 37, -43, 0, 0, 98}
	l := newMatrix(t, symbA, lBlk, false)
	require.NoError(t, chordal.Cholesky(l, ws))

	y := newMatrix(t, symbA, make([]float64, 9), false)
	uWrongSymbol := newMatrix(t, symbB, make([]float64, 9), false)

	err := chordal.Hessian(l, y, []*chordal.Matrix{uWrongSymbol}, ws)
	require.Error(t, err)
	require.True(t, errors.Is(err, chordal.ErrSymbolMismatch))
}

// TestNewMatrix_RejectsBufferLengthMismatch covers the Matrix constructor's
// own boundary validation.
func TestNewMatrix_RejectsBufferLengthMismatch(t *testing.T) {
	symb := buildDenseSingle(t, 3)
	_, err := chordal.NewMatrix(symb, make([]float64, 4), false)
	require.Error(t, err)
	require.True(t, errors.Is(err, chordal.ErrBufferLength))
}

// TestCholesky_RejectsUndersizedWorkspace covers the Workspace capacity
// guard: a Workspace sized for a smaller pattern must not silently under-run
// its buffers against a larger one.
func TestCholesky_RejectsUndersizedWorkspace(t *testing.T) {
	small := buildDenseSingle(t, 2)
	big := buildDenseSingle(t, 3)
	ws := chordal.NewWorkspace(small)

	x := newMatrix(t, big, []float64{4, 12, -16, 0, 37, -43, 0, 0, 98}, false)
	err := chordal.Cholesky(x, ws)
	require.Error(t, err)
	require.True(t, errors.Is(err, chordal.ErrWorkspaceTooSmall))
}
