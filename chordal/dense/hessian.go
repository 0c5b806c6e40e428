package dense

// The four Hessian step kernels below implement the elementary per-supernode
// congruence that composes, across the whole elimination tree, into one of
// the four linear maps G_X, G_X^adj and their inverses. The derivation:
// Cholesky builds L as a product of per-supernode elementary factors
//
//	E_k = [[L11_k, 0], [L21_k, I]]    (Nk x Nk, embedded at supernode k's
//	                                   frontal rows/cols, identity elsewhere)
//
// in post-order (L = E_k1 * E_k2 * ... * E_kp, k1..kp the post-order
// sequence, kp the root). Then:
//
//	G_X(U)    = P(L^-1 U L^-T)   processes supernodes root-first (reverse
//	                              post-order), applying E_k^-1 (.) E_k^-T
//	G_X^adj(U)= P(L^-T U L^-1)   processes supernodes leaf-first (post-order),
//	                              applying E_k^-T (.) E_k^-1
//	G_X^-1, (G_X^adj)^-1 are the same walks with E_k in place of E_k^-1.
//
// Composing G_X then G_X^adj gives L^-T(L^-1 U L^-T)L^-1 = X^-1 U X^-1 =
// H_X(U), matching the glossary definition; this grounds the formulas below
// rather than leaving them an unverifiable black box.
//
// Every step takes the supernode's Cholesky panel (l11 nk x nk, l21 m x nk,
// m = Nk-nk), that supernode's own slice of U (u11 nk x nk, u21 m x nk) and
// an m x m block f22 carrying whatever has flowed in from the rest of the
// tree (from the parent for the two root-first walks, accumulated from
// children for the two leaf-first walks). Each returns the nk x nk and
// m x nk panel to write back, plus the m x m block to push onward.

func localT(l11 []float64, nk int, l21 []float64, m int) ([]float64, error) {
	if m == 0 {
		return nil, nil
	}
	l11inv, err := TriLowerInvert(l11, nk)
	if err != nil {
		return nil, err
	}
	t := make([]float64, m*nk)
	MatMul(t, l21, m, nk, l11inv, nk)

	return t, nil
}

// HessianStepDirect is the per-supernode step of G_X, walked root-first.
func HessianStepDirect(l11 []float64, nk int, l21 []float64, m int, u11, u21, f22 []float64) (w11, w21, w22 []float64, err error) {
	t, err := localT(l11, nk, l21, m)
	if err != nil {
		return nil, nil, nil, err
	}
	u11f := Symmetric(u11, nk)

	w11 = append([]float64(nil), u11f...)
	if err := TrsmLeftLower(w11, nk, nk, l11); err != nil {
		return nil, nil, nil, err
	}
	if err := TrsmRightLowerTranspose(w11, nk, nk, l11); err != nil {
		return nil, nil, nil, err
	}

	if m == 0 {
		return w11, nil, nil, nil
	}

	tU11 := make([]float64, m*nk)
	MatMul(tU11, t, m, nk, u11f, nk)
	w21 = make([]float64, m*nk)
	for i := range w21 {
		w21[i] = u21[i] - tU11[i]
	}
	if err := TrsmRightLowerTranspose(w21, m, nk, l11); err != nil {
		return nil, nil, nil, err
	}

	f22f := Symmetric(f22, m)
	tU21T := make([]float64, m*m)
	MatMulTransB(tU21T, t, m, nk, u21, m)
	tU21TT := Transpose(tU21T, m, m)
	tU11T := make([]float64, m*m)
	MatMulTransB(tU11T, tU11, m, nk, t, m)
	w22 = make([]float64, m*m)
	for i := 0; i < m*m; i++ {
		w22[i] = f22f[i] - tU21T[i] - tU21TT[i] + tU11T[i]
	}

	return w11, w21, w22, nil
}

// HessianStepAdjoint is the per-supernode step of G_X^adj, walked leaf-first.
// f22 is whatever children have scattered into this supernode's separator
// block; it passes through unchanged as the block pushed to the parent.
func HessianStepAdjoint(l11 []float64, nk int, l21 []float64, m int, u11, u21, f22 []float64) (w11, w21, w22 []float64, err error) {
	t, err := localT(l11, nk, l21, m)
	if err != nil {
		return nil, nil, nil, err
	}
	u11f := Symmetric(u11, nk)

	a := append([]float64(nil), u11f...)
	if err := TrsmLeftLowerTranspose(a, nk, nk, l11); err != nil {
		return nil, nil, nil, err
	}

	if m == 0 {
		w11 = a
		if err := TrsmRightLower(w11, nk, nk, l11); err != nil {
			return nil, nil, nil, err
		}

		return w11, nil, nil, nil
	}

	tTu21 := make([]float64, nk*nk)
	MatMulTransA(tTu21, t, m, nk, u21, nk)
	r11 := make([]float64, nk*nk)
	for i := range r11 {
		r11[i] = a[i] - tTu21[i]
	}

	u21T := Transpose(u21, m, nk)
	d := append([]float64(nil), u21T...)
	if err := TrsmLeftLowerTranspose(d, nk, m, l11); err != nil {
		return nil, nil, nil, err
	}
	f22f := Symmetric(f22, m)
	e := make([]float64, nk*m)
	MatMulTransA(e, t, m, nk, f22f, m)
	r12 := make([]float64, nk*m)
	for i := range r12 {
		r12[i] = d[i] - e[i]
	}

	w11 = append([]float64(nil), r11...)
	if err := TrsmRightLower(w11, nk, nk, l11); err != nil {
		return nil, nil, nil, err
	}
	r12T := MatMul1(r12, nk, m, t, nk)
	for i := range w11 {
		w11[i] -= r12T[i]
	}

	w21 = append([]float64(nil), u21...)
	if err := TrsmRightLower(w21, m, nk, l11); err != nil {
		return nil, nil, nil, err
	}
	f22T := MatMul1(f22f, m, m, t, nk)
	for i := range w21 {
		w21[i] -= f22T[i]
	}

	return w11, w21, f22, nil
}

// MatMul1 is a small convenience wrapper computing a*b (a is rows x k, b is
// k x cols) without requiring the caller to pre-allocate the result.
func MatMul1(a []float64, rows, k int, b []float64, cols int) []float64 {
	c := make([]float64, rows*cols)
	MatMul(c, a, rows, k, b, cols)

	return c
}

// HessianStepDirectInv is the per-supernode step of G_X^-1, walked
// root-first (same direction as HessianStepDirect, forward multiplication
// instead of triangular solves).
func HessianStepDirectInv(l11 []float64, nk int, l21 []float64, m int, u11, u21, f22 []float64) (w11, w21, w22 []float64) {
	u11f := Symmetric(u11, nk)

	tmp := MatMul1(l11, nk, nk, u11f, nk)
	w11 = make([]float64, nk*nk)
	MatMulTransB(w11, tmp, nk, nk, l11, nk)

	if m == 0 {
		return w11, nil, nil
	}

	a := MatMul1(l21, m, nk, u11f, nk)
	AddInto(a, u21)
	w21 = make([]float64, m*nk)
	MatMulTransB(w21, a, m, nk, l11, nk)

	f22f := Symmetric(f22, m)
	p1 := make([]float64, m*m)
	MatMulTransB(p1, l21, m, nk, u21, m)
	p1T := Transpose(p1, m, m)
	tmp2 := MatMul1(l21, m, nk, u11f, nk)
	p3 := make([]float64, m*m)
	MatMulTransB(p3, tmp2, m, nk, l21, m)
	w22 = make([]float64, m*m)
	for i := 0; i < m*m; i++ {
		w22[i] = f22f[i] + p1[i] + p1T[i] + p3[i]
	}

	return w11, w21, w22
}

// HessianStepAdjointInv is the per-supernode step of (G_X^adj)^-1, walked
// leaf-first. f22 passes through unchanged.
func HessianStepAdjointInv(l11 []float64, nk int, l21 []float64, m int, u11, u21, f22 []float64) (w11, w21, w22 []float64) {
	u11f := Symmetric(u11, nk)

	a := make([]float64, nk*nk)
	MatMulTransA(a, l11, nk, nk, u11f, nk)
	if m == 0 {
		w11 = a
		tmp := MatMul1(a, nk, nk, l11, nk)
		return tmp, nil, nil
	}

	b := make([]float64, nk*nk)
	MatMulTransA(b, l21, m, nk, u21, nk)
	r11 := make([]float64, nk*nk)
	for i := range r11 {
		r11[i] = a[i] + b[i]
	}

	u21T := Transpose(u21, m, nk)
	c := make([]float64, nk*m)
	MatMulTransA(c, l11, nk, nk, u21T, m)
	f22f := Symmetric(f22, m)
	d := make([]float64, nk*m)
	MatMulTransA(d, l21, m, nk, f22f, m)
	r12 := make([]float64, nk*m)
	for i := range r12 {
		r12[i] = c[i] + d[i]
	}

	w11a := MatMul1(r11, nk, nk, l11, nk)
	w11b := MatMul1(r12, nk, m, l21, nk)
	w11 = make([]float64, nk*nk)
	for i := range w11 {
		w11[i] = w11a[i] + w11b[i]
	}

	w21a := MatMul1(u21, m, nk, l11, nk)
	w21b := MatMul1(f22f, m, m, l21, nk)
	w21 = make([]float64, m*nk)
	for i := range w21 {
		w21[i] = w21a[i] + w21b[i]
	}

	return w11, w21, f22
}
