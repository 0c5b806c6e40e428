package dense

// CompletionStep computes one supernode's panel of the Cholesky factor of
// the inverse of the chordal maximum-determinant completion, given that
// supernode's own chordal data split into the nk x nk diagonal block x11 and
// the m x nk row-extension block x21 (m = Nk-nk, lower triangle of x11
// populated), plus the m x m symmetric separator block xss supplied by the
// parent (lower triangle populated; the root supernode passes an empty
// xss, m == 0).
//
// Returns l11 (nk x nk, lower triangle populated), l21 (m x nk, nil when
// m == 0): the supernode's own panel of the inverse-completion Cholesky
// factor. Also returns the dense (un-factored) clique-marginal inverse
// blocks marg11 (nk x nk, full), marg21 (m x nk, nil when m == 0) and
// margSS (m x m, nil when m == 0) — together the Nk x Nk inverse of the
// clique block [[x11,x21^T],[x21,xss]].
//
// A child supernode's own xss input is not taken from these marginal-inverse
// blocks: its clique block [[x11,x21^T],[x21,xss]] is made of X's pattern
// entries, so its xss is the restriction of X itself to the child's
// separator rows. By the running-intersection property of a chordal
// elimination tree those rows are a subset of k's own Nk rows, and may land
// in k's own pivot columns as well as its separator.
//
// Grounded in the clique-marginal identity (S^-1)_bb = inv(X_bb) for every
// clique b of a chordal graph (Grone-Johnson-Sa-Wolkowicz): the routine
// forms the dense clique block [[x11,x21^T],[x21,xss]], inverts it via a
// Schur complement on x11, and takes the leading nk-column block-Cholesky
// panel of that inverse for its own output.
func CompletionStep(x11 []float64, nk int, x21 []float64, m int, xss []float64) (l11, l21, marg11, marg21, margSS []float64, err error) {
	x11inv, err := InvertSPD(x11, nk)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}

	if m == 0 {
		l11 = make([]float64, nk*nk)
		CopyLowerTriangle(l11, x11inv, nk)
		if err := CholeskyPanel(l11, nk); err != nil {
			return nil, nil, nil, nil, nil, err
		}

		return l11, nil, x11inv, nil, nil, nil
	}

	// t = X21 * X11^-1
	t := make([]float64, m*nk)
	MatMul(t, x21, m, nk, x11inv, nk)

	// schur = Xss - X21 * X11^-1 * X21^T = Xss - t*X21^T
	schur := make([]float64, m*m)
	MatMulTransB(schur, t, m, nk, x21, m)
	for col := 0; col < m; col++ {
		for row := col; row < m; row++ {
			idx := col*m + row
			schur[idx] = xss[idx] - schur[idx]
		}
	}
	margSS, err = InvertSPD(schur, m)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}

	// marg21 = -margSS * t
	marg21 = make([]float64, m*nk)
	MatMul(marg21, margSS, m, m, t, nk)
	Negate(marg21)

	// marg11 = X11^-1 - marg21^T * t
	marg11 = make([]float64, nk*nk)
	c := make([]float64, nk*nk)
	MatMulTransA(c, marg21, m, nk, t, nk)
	for i := range marg11 {
		marg11[i] = x11inv[i] - c[i]
	}

	l11 = make([]float64, nk*nk)
	CopyLowerTriangle(l11, marg11, nk)
	if err := CholeskyPanel(l11, nk); err != nil {
		return nil, nil, nil, nil, nil, err
	}
	l11inv, err := TriLowerInvert(l11, nk)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}
	l21 = make([]float64, m*nk)
	MatMulTransB(l21, marg21, m, nk, l11inv, nk)

	return l11, l21, marg11, marg21, margSS, nil
}
