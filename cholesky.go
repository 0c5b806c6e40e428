package chordal

import (
	"fmt"

	"github.com/chordalmath/chordal/chordal/dense"
	"github.com/chordalmath/chordal/chordal/frontal"
)

// Cholesky computes the supernodal Cholesky factor L of x in place: on
// return x.Blkval holds L and x.IsFactor is true. x must start in the X
// (non-factor) state.
//
// Walks x.Symb.SnPost in order (children before parents). Stage per
// supernode k:
//  1. Assemble the Nk x Nk frontal from x's own Nk x nk panel.
//  2. Scatter-add every child's pushed update block into the frontal.
//  3. Factor the leading nk x nk block (dense.CholeskyPanel) and solve the
//     trailing (Nk-nk) x nk panel against it (dense.TrsmRightLowerTranspose).
//  4. Subtract L21 L21^T from the frontal's trailing block
//     (dense.SyrkLowerSub) and push the result for k's parent.
//  5. Write the Nk x nk panel back to x.Blkval.
func Cholesky(x *Matrix, ws *Workspace) error {
	if x == nil || x.Symb == nil {
		return ErrNilSymbolic
	}
	if err := requireNotFactor(x); err != nil {
		return fmt.Errorf("Cholesky: %w", err)
	}
	symb := x.Symb
	if !ws.fits(symb) {
		return fmt.Errorf("Cholesky: %w", ErrWorkspaceTooSmall)
	}
	ws.reset()
	hasPar := hasParent(symb)
	sepIdx, sepPtr := separatorMap(symb)

	for _, k := range symb.SnPost {
		nk := symb.Ncols(k)
		Nk := symb.Nk(k)
		m := Nk - nk

		fr := ws.Frontal[:Nk*Nk]
		assembleFrontal(fr, Nk, nk, x.block(k))

		// Children push their own update in ascending ChIdx order as their
		// subtrees finish (see symbolic.Build's post-order), so the most
		// recently pushed — and therefore first popped — block belongs to
		// the last-listed child: pop in descending ChIdx order to match
		// each block back to the child that produced it.
		children := symb.ChIdx[symb.ChPtr[k]:symb.ChPtr[k+1]]
		for i := len(children) - 1; i >= 0; i-- {
			c := children[i]
			_, u := ws.pop()
			if err := frontal.AddUpdate(fr, Nk, u, sepIdx, sepPtr, c, 1.0); err != nil {
				ws.reset()

				return fmt.Errorf("Cholesky: supernode %d: %w", k, err)
			}
		}

		f11 := extractBlock(fr, Nk, 0, 0, nk, nk)
		if err := dense.CholeskyPanel(f11, nk); err != nil {
			ws.reset()

			return fmt.Errorf("Cholesky: %w", kernelErr(k, err))
		}
		zeroStrictUpper(f11, nk)

		var f21 []float64
		if m > 0 {
			f21 = extractBlock(fr, Nk, nk, 0, m, nk)
			if err := dense.TrsmRightLowerTranspose(f21, m, nk, f11); err != nil {
				ws.reset()

				return fmt.Errorf("Cholesky: %w", kernelErr(k, err))
			}
		}

		writePanel(x.block(k), Nk, nk, f11, f21)

		if hasPar[k] {
			f22 := extractBlock(fr, Nk, nk, nk, m, m)
			if m > 0 {
				dense.SyrkLowerSub(f22, m, f21, m, nk)
			}
			if err := ws.push(m, f22); err != nil {
				ws.reset()

				return fmt.Errorf("Cholesky: %w", err)
			}
		}
	}

	x.IsFactor = true

	return nil
}
