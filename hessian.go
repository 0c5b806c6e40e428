package chordal

import (
	"fmt"

	"github.com/chordalmath/chordal/chordal/dense"
	"github.com/chordalmath/chordal/chordal/frontal"
)

// Hessian applies one of G_X, its adjoint, or either's inverse — or, when
// Adj is left absent, the composed log-det barrier Hessian H_X or its
// inverse — to every matrix in u, in place. l supplies the Cholesky factor
// the operator is built from; y is required only as a state-machine
// witness (Y.Symb == L.Symb, Y.IsFactor == false) and is never read
// numerically.
//
// With Adj present, a single root-first (Adj == false) or leaf-first
// (Adj == true) tree walk runs. With Adj absent, the walk runs twice: the
// first pass uses adj = Inv, the second adj = !Inv, composing
// G_X^adj ∘ G_X into H_X (Inv == false) or G_X^-1 ∘ (G_X^adj)^-1 into
// H_X^-1 (Inv == true). Every U[i] is traversed independently; ws is reset,
// never reallocated, between elements.
func Hessian(l, y *Matrix, u []*Matrix, ws *Workspace, opts ...HessianOption) error {
	if l == nil || l.Symb == nil || y == nil || y.Symb == nil {
		return ErrNilSymbolic
	}
	if err := requireFactor(l); err != nil {
		return fmt.Errorf("Hessian: %w", err)
	}
	if err := requireNotFactor(y); err != nil {
		return fmt.Errorf("Hessian: %w", err)
	}
	if err := sameSymbol(l.Symb, y.Symb); err != nil {
		return fmt.Errorf("Hessian: %w", err)
	}
	for i, ui := range u {
		if ui == nil || ui.Symb == nil {
			return ErrNilSymbolic
		}
		if err := sameSymbol(l.Symb, ui.Symb); err != nil {
			return fmt.Errorf("Hessian: U[%d]: %w", i, err)
		}
	}
	if !ws.fits(l.Symb) {
		return fmt.Errorf("Hessian: %w", ErrWorkspaceTooSmall)
	}

	o := defaultHessianOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.Adj == nil {
		firstAdj := o.Inv
		if err := hessianPass(l, u, ws, firstAdj, o.Inv, o.FactoredUpdates); err != nil {
			return err
		}

		return hessianPass(l, u, ws, !firstAdj, o.Inv, o.FactoredUpdates)
	}

	return hessianPass(l, u, ws, *o.Adj, o.Inv, o.FactoredUpdates)
}

// hessianPass runs one single-direction tree walk over every matrix in u.
func hessianPass(l *Matrix, u []*Matrix, ws *Workspace, adj, inv, factoredUpdates bool) error {
	for i, ui := range u {
		var err error
		switch {
		case !adj && !inv:
			err = hessianDirect(l, ui, ws, factoredUpdates)
		case adj && !inv:
			err = hessianAdjoint(l, ui, ws, factoredUpdates)
		case !adj && inv:
			err = hessianDirectInv(l, ui, ws, factoredUpdates)
		default:
			err = hessianAdjointInv(l, ui, ws, factoredUpdates)
		}
		if err != nil {
			return fmt.Errorf("Hessian: U[%d]: %w", i, err)
		}
	}

	return nil
}

// hessianDirect applies G_X to u, walking l.Symb.SnPost in reverse
// (root-first): each supernode pops the block its parent produced, runs
// dense.HessianStepDirect, and scatters the full Nk x Nk result — not just
// its trailing separator — into the frontal so every child's restriction,
// wherever it lands in k's row space, reads the freshly computed values.
func hessianDirect(l, u *Matrix, ws *Workspace, factoredUpdates bool) error {
	symb := l.Symb
	ws.reset()
	hasPar := hasParent(symb)
	sepIdx, sepPtr := separatorMap(symb)

	for i := len(symb.SnPost) - 1; i >= 0; i-- {
		k := symb.SnPost[i]
		nk := symb.Ncols(k)
		Nk := symb.Nk(k)
		m := Nk - nk

		lPanel := l.block(k)
		l11 := extractBlock(lPanel, Nk, 0, 0, nk, nk)
		var l21 []float64
		if m > 0 {
			l21 = extractBlock(lPanel, Nk, nk, 0, m, nk)
		}

		uPanel := u.block(k)
		u11 := extractBlock(uPanel, Nk, 0, 0, nk, nk)
		var u21 []float64
		if m > 0 {
			u21 = extractBlock(uPanel, Nk, nk, 0, m, nk)
		}

		var f22 []float64
		if hasPar[k] {
			side, raw := ws.pop()
			f22 = materializeSeparator(raw, side, factoredUpdates)
		}

		w11, w21, w22, err := dense.HessianStepDirect(l11, nk, l21, m, u11, u21, f22)
		if err != nil {
			ws.reset()

			return kernelErr(k, err)
		}
		writePanel(uPanel, Nk, nk, w11, w21)

		fr := ws.Frontal[:Nk*Nk]
		for j := range fr {
			fr[j] = 0
		}
		writeBlock(fr, Nk, 0, 0, nk, nk, w11)
		if m > 0 {
			writeBlock(fr, Nk, nk, 0, m, nk, w21)
			writeBlock(fr, Nk, nk, nk, m, m, w22)
		}

		for _, c := range symb.ChIdx[symb.ChPtr[k]:symb.ChPtr[k+1]] {
			cu := frontal.GetUpdate(fr, Nk, sepIdx, sepPtr, c)
			n := sepPtr[c+1] - sepPtr[c]
			if factoredUpdates && n > 0 {
				if err := dense.CholeskyPanel(cu, n); err != nil {
					ws.reset()

					return kernelErr(c, err)
				}
			}
			if err := ws.push(n, cu); err != nil {
				ws.reset()

				return err
			}
		}
	}

	return nil
}

// hessianDirectInv applies G_X^-1 to u, same root-first walk as
// hessianDirect but with dense.HessianStepDirectInv's forward
// multiplication in place of triangular solves.
func hessianDirectInv(l, u *Matrix, ws *Workspace, factoredUpdates bool) error {
	symb := l.Symb
	ws.reset()
	hasPar := hasParent(symb)
	sepIdx, sepPtr := separatorMap(symb)

	for i := len(symb.SnPost) - 1; i >= 0; i-- {
		k := symb.SnPost[i]
		nk := symb.Ncols(k)
		Nk := symb.Nk(k)
		m := Nk - nk

		lPanel := l.block(k)
		l11 := extractBlock(lPanel, Nk, 0, 0, nk, nk)
		var l21 []float64
		if m > 0 {
			l21 = extractBlock(lPanel, Nk, nk, 0, m, nk)
		}

		uPanel := u.block(k)
		u11 := extractBlock(uPanel, Nk, 0, 0, nk, nk)
		var u21 []float64
		if m > 0 {
			u21 = extractBlock(uPanel, Nk, nk, 0, m, nk)
		}

		var f22 []float64
		if hasPar[k] {
			side, raw := ws.pop()
			f22 = materializeSeparator(raw, side, factoredUpdates)
		}

		w11, w21, w22 := dense.HessianStepDirectInv(l11, nk, l21, m, u11, u21, f22)
		writePanel(uPanel, Nk, nk, w11, w21)

		fr := ws.Frontal[:Nk*Nk]
		for j := range fr {
			fr[j] = 0
		}
		writeBlock(fr, Nk, 0, 0, nk, nk, w11)
		if m > 0 {
			writeBlock(fr, Nk, nk, 0, m, nk, w21)
			writeBlock(fr, Nk, nk, nk, m, m, w22)
		}

		for _, c := range symb.ChIdx[symb.ChPtr[k]:symb.ChPtr[k+1]] {
			cu := frontal.GetUpdate(fr, Nk, sepIdx, sepPtr, c)
			n := sepPtr[c+1] - sepPtr[c]
			if factoredUpdates && n > 0 {
				if err := dense.CholeskyPanel(cu, n); err != nil {
					ws.reset()

					return kernelErr(c, err)
				}
			}
			if err := ws.push(n, cu); err != nil {
				ws.reset()

				return err
			}
		}
	}

	return nil
}

// hessianAdjoint applies G_X^adj to u, walking l.Symb.SnPost in order
// (leaf-first): each supernode assembles its own panel, scatter-adds every
// child's pushed block into the full frontal (exactly as Cholesky
// assembles its Schur updates), then runs dense.HessianStepAdjoint and
// pushes the resulting separator block — unchanged, per the kernel's own
// contract — for its parent.
func hessianAdjoint(l, u *Matrix, ws *Workspace, factoredUpdates bool) error {
	symb := l.Symb
	ws.reset()
	hasPar := hasParent(symb)
	sepIdx, sepPtr := separatorMap(symb)

	for _, k := range symb.SnPost {
		nk := symb.Ncols(k)
		Nk := symb.Nk(k)
		m := Nk - nk

		fr := ws.Frontal[:Nk*Nk]
		assembleFrontal(fr, Nk, nk, u.block(k))

		children := symb.ChIdx[symb.ChPtr[k]:symb.ChPtr[k+1]]
		for i := len(children) - 1; i >= 0; i-- {
			c := children[i]
			side, raw := ws.pop()
			cu := materializeSeparator(raw, side, factoredUpdates)
			if err := frontal.AddUpdate(fr, Nk, cu, sepIdx, sepPtr, c, 1.0); err != nil {
				ws.reset()

				return fmt.Errorf("supernode %d: %w", k, err)
			}
		}

		lPanel := l.block(k)
		l11 := extractBlock(lPanel, Nk, 0, 0, nk, nk)
		var l21 []float64
		if m > 0 {
			l21 = extractBlock(lPanel, Nk, nk, 0, m, nk)
		}

		u11 := extractBlock(fr, Nk, 0, 0, nk, nk)
		var u21, f22 []float64
		if m > 0 {
			u21 = extractBlock(fr, Nk, nk, 0, m, nk)
			f22 = extractBlock(fr, Nk, nk, nk, m, m)
		}

		w11, w21, w22, err := dense.HessianStepAdjoint(l11, nk, l21, m, u11, u21, f22)
		if err != nil {
			ws.reset()

			return kernelErr(k, err)
		}
		writePanel(u.block(k), Nk, nk, w11, w21)

		if hasPar[k] {
			push := w22
			if factoredUpdates && m > 0 {
				factored := append([]float64(nil), w22...)
				if err := dense.CholeskyPanel(factored, m); err != nil {
					ws.reset()

					return kernelErr(k, err)
				}
				push = factored
			}
			if err := ws.push(m, push); err != nil {
				ws.reset()

				return err
			}
		}
	}

	return nil
}

// hessianAdjointInv applies (G_X^adj)^-1 to u, same leaf-first walk as
// hessianAdjoint but with dense.HessianStepAdjointInv's forward
// multiplication in place of triangular solves.
func hessianAdjointInv(l, u *Matrix, ws *Workspace, factoredUpdates bool) error {
	symb := l.Symb
	ws.reset()
	hasPar := hasParent(symb)
	sepIdx, sepPtr := separatorMap(symb)

	for _, k := range symb.SnPost {
		nk := symb.Ncols(k)
		Nk := symb.Nk(k)
		m := Nk - nk

		fr := ws.Frontal[:Nk*Nk]
		assembleFrontal(fr, Nk, nk, u.block(k))

		children := symb.ChIdx[symb.ChPtr[k]:symb.ChPtr[k+1]]
		for i := len(children) - 1; i >= 0; i-- {
			c := children[i]
			side, raw := ws.pop()
			cu := materializeSeparator(raw, side, factoredUpdates)
			if err := frontal.AddUpdate(fr, Nk, cu, sepIdx, sepPtr, c, 1.0); err != nil {
				ws.reset()

				return fmt.Errorf("supernode %d: %w", k, err)
			}
		}

		lPanel := l.block(k)
		l11 := extractBlock(lPanel, Nk, 0, 0, nk, nk)
		var l21 []float64
		if m > 0 {
			l21 = extractBlock(lPanel, Nk, nk, 0, m, nk)
		}

		u11 := extractBlock(fr, Nk, 0, 0, nk, nk)
		var u21, f22 []float64
		if m > 0 {
			u21 = extractBlock(fr, Nk, nk, 0, m, nk)
			f22 = extractBlock(fr, Nk, nk, nk, m, m)
		}

		w11, w21, w22 := dense.HessianStepAdjointInv(l11, nk, l21, m, u11, u21, f22)
		writePanel(u.block(k), Nk, nk, w11, w21)

		if hasPar[k] {
			push := w22
			if factoredUpdates && m > 0 {
				factored := append([]float64(nil), w22...)
				if err := dense.CholeskyPanel(factored, m); err != nil {
					ws.reset()

					return kernelErr(k, err)
				}
				push = factored
			}
			if err := ws.push(m, push); err != nil {
				ws.reset()

				return err
			}
		}
	}

	return nil
}
