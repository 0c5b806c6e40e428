package dense

// ProjectedInverseStep computes one supernode's contribution to the
// chordal-projected inverse Y = P(L^-T L^-1), given that supernode's
// Cholesky panel split into the nk x nk lower-triangular diagonal block l11
// and the m x nk row-extension block l21 (m = Nk-nk), plus the m x m
// symmetric block y22 (lower triangle populated, as produced by the parent
// and popped off the update stack; a root supernode passes an all-zero y22,
// empty when m == 0).
//
// Returns y21 (m x nk) and y11 (nk x nk, lower triangle populated):
//
//	y21 = -y22 * l21 * l11^-1
//	y11 = l11^-T l11^-1 - y21^T * (l21 * l11^-1)
//
// Stage 1: invert l11 and form t = l21 * l11^-1.
// Stage 2: y21 = -(mirror(y22) * t).
// Stage 3: y11 = l11^-T l11^-1 - y21^T t, lower triangle only.
func ProjectedInverseStep(l11 []float64, nk int, l21 []float64, m int, y22 []float64) (y21, y11 []float64, err error) {
	// Stage 1
	l11inv, err := TriLowerInvert(l11, nk)
	if err != nil {
		return nil, nil, err
	}
	t := make([]float64, m*nk)
	if m > 0 {
		MatMul(t, l21, m, nk, l11inv, nk)
	}

	// Stage 2
	y21 = make([]float64, m*nk)
	if m > 0 {
		y22full := make([]float64, m*m)
		CopyLowerTriangle(y22full, y22, m)
		MirrorLower(y22full, m)
		MatMul(y21, y22full, m, m, t, nk)
		Negate(y21)
	}

	// Stage 3
	c1 := make([]float64, nk*nk)
	MatMulTransA(c1, l11inv, nk, nk, l11inv, nk)
	y11 = c1
	if m > 0 {
		c2 := make([]float64, nk*nk)
		MatMulTransA(c2, y21, m, nk, t, nk)
		for i := range y11 {
			y11[i] -= c2[i]
		}
	}

	return y21, y11, nil
}
