package chordal

import (
	"fmt"

	"github.com/chordalmath/chordal/chordal/dense"
	"github.com/chordalmath/chordal/chordal/frontal"
)

// Completion computes the Cholesky factor L of the inverse of x's maximum
// determinant positive-definite completion, in place: on return x.Blkval
// holds L and x.IsFactor is true. x must start in the X (non-factor) state.
//
// Walks x.Symb.SnPost in reverse (parents before children), mirroring
// ProjectedInverse's direction: the separator block a supernode needs is the
// one its parent just finished computing. Stage per supernode k:
//  1. Assemble X_11/X_21 from x's own panel, plus the popped separator block
//     k's parent produced for it (empty for a root supernode), written into
//     the frontal's trailing block.
//  2. dense.CompletionStep computes k's own L panel from X_11, X_21 and the
//     separator block.
//  3. The frontal keeps X's own values over its full Nk x Nk extent: a
//     child's RelIdx restriction can land anywhere in k's Nk rows, and a
//     child's clique block is made of X's pattern entries, so the child's
//     separator block is drawn from X — not from k's L panel.
//  4. For each child, gather its restriction of the frontal and push it —
//     Cholesky-factored first when WithFactoredUpdates(true) (the default),
//     plain dense otherwise. A factored block is expanded back to L L^T by
//     materializeSeparator when the child pops it.
//  5. Write the Nk x nk L panel back to x.Blkval.
func Completion(x *Matrix, ws *Workspace, opts ...CompletionOption) error {
	if x == nil || x.Symb == nil {
		return ErrNilSymbolic
	}
	if err := requireNotFactor(x); err != nil {
		return fmt.Errorf("Completion: %w", err)
	}
	o := defaultCompletionOptions()
	for _, opt := range opts {
		opt(&o)
	}
	symb := x.Symb
	if !ws.fits(symb) {
		return fmt.Errorf("Completion: %w", ErrWorkspaceTooSmall)
	}
	ws.reset()
	hasPar := hasParent(symb)
	sepIdx, sepPtr := separatorMap(symb)

	for i := len(symb.SnPost) - 1; i >= 0; i-- {
		k := symb.SnPost[i]
		nk := symb.Ncols(k)
		Nk := symb.Nk(k)
		m := Nk - nk

		fr := ws.Frontal[:Nk*Nk]
		for j := range fr {
			fr[j] = 0
		}
		copy(fr[:Nk*nk], x.block(k))

		var xss []float64
		if hasPar[k] {
			side, raw := ws.pop()
			xss = materializeSeparator(raw, side, o.FactoredUpdates)
			writeBlock(fr, Nk, nk, nk, m, m, xss)
		}

		x11 := extractBlock(fr, Nk, 0, 0, nk, nk)
		var x21 []float64
		if m > 0 {
			x21 = extractBlock(fr, Nk, nk, 0, m, nk)
		}

		l11, l21, _, _, _, err := dense.CompletionStep(x11, nk, x21, m, xss)
		if err != nil {
			ws.reset()

			return fmt.Errorf("Completion: %w", kernelErr(k, err))
		}
		writePanel(x.block(k), Nk, nk, l11, l21)

		// Children read their own restriction of k's frontal X values
		// regardless of whether k itself has a parent (m can be 0 at a root
		// that still has children below it).
		for _, c := range symb.ChIdx[symb.ChPtr[k]:symb.ChPtr[k+1]] {
			u := frontal.GetUpdate(fr, Nk, sepIdx, sepPtr, c)
			n := sepPtr[c+1] - sepPtr[c]
			if o.FactoredUpdates && n > 0 {
				if err := dense.CholeskyPanel(u, n); err != nil {
					ws.reset()

					return fmt.Errorf("Completion: %w", kernelErr(c, err))
				}
			}
			if err := ws.push(n, u); err != nil {
				ws.reset()

				return fmt.Errorf("Completion: %w", err)
			}
		}
	}

	x.IsFactor = true

	return nil
}

// materializeSeparator expands a popped separator block back to a plain
// dense symmetric n x n matrix: a no-op when factoredUpdates is false (the
// stack already holds the dense block), or L L^T when it holds a Cholesky
// factor in its lower triangle.
func materializeSeparator(raw []float64, n int, factoredUpdates bool) []float64 {
	if !factoredUpdates || n == 0 {
		return raw
	}
	dst := make([]float64, n*n)
	dense.SyrkLower(dst, n, raw, n, n)

	return dst
}
