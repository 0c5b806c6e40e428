package chordal

import (
	"fmt"

	"github.com/chordalmath/chordal/chordal/dense"
	"github.com/chordalmath/chordal/chordal/frontal"
)

// LLT recomputes X = L L^T from l's supernodal Cholesky factor, in place: on
// return l.Blkval holds X and l.IsFactor is false. l must start in the L
// (factor) state.
//
// Walks l.Symb.SnPost in order (children before parents), mirroring
// Cholesky's direction: a supernode's own extension rows are shared with its
// parent's frontal, so the parent's diagonal and separator entries of X need
// every child's contribution scattered in before the parent's own L11 L11^T
// term is added on top. Stage per supernode k:
//  1. Zero the Nk x Nk frontal, then scatter-add every child's pushed
//     trailing block into it (exactly as Cholesky assembles Schur updates).
//  2. Add k's own outer-product terms on top: L11 L11^T into the leading
//     nk x nk block, L21 L11^T below it, L21 L21^T into the trailing
//     (Nk-nk) x (Nk-nk) block.
//  3. Write the frontal's leading nk columns back to l.Blkval as X11/X21.
//  4. Push the (now fully accumulated) trailing block for k's parent.
func LLT(l *Matrix, ws *Workspace) error {
	if l == nil || l.Symb == nil {
		return ErrNilSymbolic
	}
	if err := requireFactor(l); err != nil {
		return fmt.Errorf("LLT: %w", err)
	}
	symb := l.Symb
	if !ws.fits(symb) {
		return fmt.Errorf("LLT: %w", ErrWorkspaceTooSmall)
	}
	ws.reset()
	hasPar := hasParent(symb)
	sepIdx, sepPtr := separatorMap(symb)

	for _, k := range symb.SnPost {
		nk := symb.Ncols(k)
		Nk := symb.Nk(k)
		m := Nk - nk

		fr := ws.Frontal[:Nk*Nk]
		for i := range fr {
			fr[i] = 0
		}

		children := symb.ChIdx[symb.ChPtr[k]:symb.ChPtr[k+1]]
		for i := len(children) - 1; i >= 0; i-- {
			c := children[i]
			_, u := ws.pop()
			if err := frontal.AddUpdate(fr, Nk, u, sepIdx, sepPtr, c, 1.0); err != nil {
				ws.reset()

				return fmt.Errorf("LLT: supernode %d: %w", k, err)
			}
		}

		panel := l.block(k)
		l11 := extractBlock(panel, Nk, 0, 0, nk, nk)
		var l21 []float64
		if m > 0 {
			l21 = extractBlock(panel, Nk, nk, 0, m, nk)
		}

		x11 := make([]float64, nk*nk)
		dense.MatMulTransB(x11, l11, nk, nk, l11, nk)
		addBlock(fr, Nk, 0, 0, nk, nk, x11)

		if m > 0 {
			x21 := make([]float64, m*nk)
			dense.MatMulTransB(x21, l21, m, nk, l11, nk)
			addBlock(fr, Nk, nk, 0, m, nk, x21)

			x22 := make([]float64, m*m)
			dense.SyrkLower(x22, m, l21, m, nk)
			addBlock(fr, Nk, nk, nk, m, m, x22)
		}

		outF11 := extractBlock(fr, Nk, 0, 0, nk, nk)
		var outF21 []float64
		if m > 0 {
			outF21 = extractBlock(fr, Nk, nk, 0, m, nk)
		}
		writePanel(panel, Nk, nk, outF11, outF21)

		if hasPar[k] {
			trailing := extractBlock(fr, Nk, nk, nk, m, m)
			if err := ws.push(m, trailing); err != nil {
				ws.reset()

				return fmt.Errorf("LLT: %w", err)
			}
		}
	}

	l.IsFactor = false

	return nil
}
