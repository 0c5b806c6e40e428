package chordal

import (
	"fmt"

	"github.com/chordalmath/chordal/chordal/dense"
	"github.com/chordalmath/chordal/chordal/frontal"
)

// ProjectedInverse computes Y = P(L^-T L^-1) from l's supernodal Cholesky
// factor, in place: on return l.Blkval holds Y and l.IsFactor is false. l
// must start in the L (factor) state.
//
// Walks l.Symb.SnPost in reverse (parents before children — every non-root
// supernode's own separator block is fixed by its parent before the
// supernode itself is visited). Stage per supernode k:
//  1. Assemble the Nk x Nk frontal from k's own Nk x nk Cholesky panel, plus
//     the popped Y_22 block k's parent produced for it (a root supernode
//     pops nothing: its Y_22 is all zero, and empty when it has no row
//     extension).
//  2. dense.ProjectedInverseStep computes Y_21 and Y_11 from L_11, L_21 and
//     Y_22.
//  3. Write Y_11/Y_21 back into the frontal's leading nk columns: a child's
//     RelIdx restriction can land anywhere in k's Nk rows, not only in the
//     trailing separator, so the frontal must carry the newly computed
//     values before any child extracts its own restriction.
//  4. For each child of k, gather that child's own restriction of the full
//     frontal via frontal.GetUpdate and push it for the child to pop when
//     its own turn comes.
//  5. Write the Nk x nk panel back to l.Blkval.
func ProjectedInverse(l *Matrix, ws *Workspace) error {
	if l == nil || l.Symb == nil {
		return ErrNilSymbolic
	}
	if err := requireFactor(l); err != nil {
		return fmt.Errorf("ProjectedInverse: %w", err)
	}
	symb := l.Symb
	if !ws.fits(symb) {
		return fmt.Errorf("ProjectedInverse: %w", ErrWorkspaceTooSmall)
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
		copy(fr[:Nk*nk], l.block(k))

		if hasPar[k] {
			_, y22 := ws.pop()
			writeBlock(fr, Nk, nk, nk, m, m, y22)
		}

		l11 := extractBlock(fr, Nk, 0, 0, nk, nk)
		var l21, y22 []float64
		if m > 0 {
			l21 = extractBlock(fr, Nk, nk, 0, m, nk)
			y22 = extractBlock(fr, Nk, nk, nk, m, m)
		}

		y21, y11, err := dense.ProjectedInverseStep(l11, nk, l21, m, y22)
		if err != nil {
			ws.reset()

			return fmt.Errorf("ProjectedInverse: %w", kernelErr(k, err))
		}
		writePanel(l.block(k), Nk, nk, y11, y21)

		writeBlock(fr, Nk, 0, 0, nk, nk, y11)
		if m > 0 {
			writeBlock(fr, Nk, nk, 0, m, nk, y21)
			writeBlock(fr, Nk, nk, nk, m, m, y22)
		}

		// Children read their own restriction of k's full frontal regardless
		// of whether k itself has a parent (m can be 0 at a root that still
		// has children below it).
		for _, c := range symb.ChIdx[symb.ChPtr[k]:symb.ChPtr[k+1]] {
			u := frontal.GetUpdate(fr, Nk, sepIdx, sepPtr, c)
			n := sepPtr[c+1] - sepPtr[c]
			if err := ws.push(n, u); err != nil {
				ws.reset()

				return fmt.Errorf("ProjectedInverse: %w", err)
			}
		}
	}

	l.IsFactor = false

	return nil
}
