package chordal

import "github.com/chordalmath/chordal/symbolic"

// hasParent reports, for every supernode, whether some other supernode
// lists it as a child — i.e. whether it needs to push an update block for
// a parent to pop, as opposed to being a root of the elimination forest.
func hasParent(symb *symbolic.Symbolic) []bool {
	isChild := make([]bool, symb.Nsn)
	for _, c := range symb.ChIdx {
		isChild[c] = true
	}

	return isChild
}

// assembleFrontal zeroes the leading Nk*Nk region of fr and copies
// supernode k's own Nk x nk panel (column-major, ld=Nk in both fr and
// Blkval) into its leading nk columns, leaving the trailing (Nk-nk)-column
// region zero for children's scatter-adds to accumulate into.
func assembleFrontal(fr []float64, Nk, nk int, panel []float64) {
	for i := 0; i < Nk*Nk; i++ {
		fr[i] = 0
	}
	copy(fr[:Nk*nk], panel)
}

// extractBlock packs the rows x cols submatrix of fr (ld=Nk) starting at
// (rowOff, colOff) into a freshly allocated tightly-packed (ld=rows) copy,
// for feeding into the dense kernels.
func extractBlock(fr []float64, Nk, rowOff, colOff, rows, cols int) []float64 {
	out := make([]float64, rows*cols)
	for col := 0; col < cols; col++ {
		for row := 0; row < rows; row++ {
			out[col*rows+row] = fr[(colOff+col)*Nk+rowOff+row]
		}
	}

	return out
}

// writeBlock is the inverse of extractBlock: scatters a tightly-packed
// rows x cols block back into fr's rows x cols submatrix at (rowOff, colOff).
func writeBlock(fr []float64, Nk, rowOff, colOff, rows, cols int, data []float64) {
	for col := 0; col < cols; col++ {
		for row := 0; row < rows; row++ {
			fr[(colOff+col)*Nk+rowOff+row] = data[col*rows+row]
		}
	}
}

// zeroStrictUpper clears the strict upper triangle of an n x n column-major
// block in place. Applied to every freshly factored diagonal panel so that
// generic (non-triangular-aware) dense kernels downstream — ordinary
// MatMul/MatMulTransA/MatMulTransB, as opposed to the Trsm family, which
// already ignore the strict upper triangle — see a true lower-triangular L11
// rather than whatever happened to be sitting in the matrix's unused upper
// half.
func zeroStrictUpper(a []float64, n int) {
	for col := 0; col < n; col++ {
		for row := 0; row < col; row++ {
			a[col*n+row] = 0
		}
	}
}

// addBlock adds a tightly-packed rows x cols block into fr's rows x cols
// submatrix at (rowOff, colOff), the accumulating counterpart to writeBlock.
func addBlock(fr []float64, Nk, rowOff, colOff, rows, cols int, data []float64) {
	for col := 0; col < cols; col++ {
		for row := 0; row < rows; row++ {
			fr[(colOff+col)*Nk+rowOff+row] += data[col*rows+row]
		}
	}
}

// writePanel writes supernode k's Nk x nk panel (f11 stacked on f21) back to
// Blkval, in the same ld=Nk layout assembleFrontal read it from.
func writePanel(panel []float64, Nk, nk int, f11, f21 []float64) {
	m := Nk - nk
	for col := 0; col < nk; col++ {
		copy(panel[col*Nk:col*Nk+nk], f11[col*nk:col*nk+nk])
		if m > 0 {
			copy(panel[col*Nk+nk:col*Nk+Nk], f21[col*m:col*m+m])
		}
	}
}

// separatorMap derives, from symb's RelIdx/RelPtr (which map every one of a
// supernode's Nk frontal rows — owned pivot rows first, then extension rows
// — into its parent's frontal), the restriction of that map to just the
// trailing m = Nk-nk extension rows: the only rows a supernode's pushed
// update block actually occupies in its parent's frontal.
func separatorMap(symb *symbolic.Symbolic) (relIdx, relPtr []int) {
	relPtr = make([]int, symb.Nsn+1)
	for c := 0; c < symb.Nsn; c++ {
		relPtr[c+1] = relPtr[c] + (symb.Nk(c) - symb.Ncols(c))
	}
	relIdx = make([]int, relPtr[symb.Nsn])
	for c := 0; c < symb.Nsn; c++ {
		full := symb.RelIdx[symb.RelPtr[c]:symb.RelPtr[c+1]]
		copy(relIdx[relPtr[c]:relPtr[c+1]], full[symb.Ncols(c):])
	}

	return relIdx, relPtr
}
