package frontal

import "fmt"

// AddUpdate scatter-adds the lower triangle of a child's square update block
// u into the parent frontal f, using the relative-index range
// relIdx[relPtr[i]:relPtr[i+1]] to map u's local rows/cols to f's rows/cols.
//
// f is an nf x nf column-major panel. u is an N x N column-major block where
// N = relPtr[i+1]-relPtr[i]. Only entries with 0 <= j <= row < N are read
// from u, and only the corresponding lower-triangular positions of f are
// written: f[r[row], r[j]] += alpha * u[row, j].
//
// Stage 1 (Validate): N agrees with len(u).
// Stage 2 (Execute): scatter-add the lower triangle.
func AddUpdate(f []float64, nf int, u []float64, relIdx, relPtr []int, i int, alpha float64) error {
	// Stage 1: validate shape
	r := relIdx[relPtr[i]:relPtr[i+1]]
	n := len(r)
	if n*n != len(u) {
		return fmt.Errorf("AddUpdate: supernode %d wants %dx%d, got %d values: %w", i, n, n, len(u), ErrShapeMismatch)
	}

	// Stage 2: scatter-add lower triangle, u and f both column-major
	for col := 0; col < n; col++ {
		rc := r[col]
		for row := col; row < n; row++ {
			rr := r[row]
			f[rc*nf+rr] += alpha * u[col*n+row]
		}
	}

	return nil
}

// GetUpdate gathers the lower triangle of the parent frontal f at the
// relative-index range relIdx[relPtr[i]:relPtr[i+1]] into a freshly
// allocated N x N column-major block (N = relPtr[i+1]-relPtr[i]). The
// strict upper triangle of the returned block is left zero and must not be
// read by callers — it carries no meaningful value.
//
// Stage 1 (Prepare): allocate the N x N result.
// Stage 2 (Execute): gather the lower triangle, alpha implicitly 1.
func GetUpdate(f []float64, nf int, relIdx, relPtr []int, i int) []float64 {
	// Stage 1: allocate result
	r := relIdx[relPtr[i]:relPtr[i+1]]
	n := len(r)
	u := make([]float64, n*n)

	// Stage 2: gather lower triangle
	for col := 0; col < n; col++ {
		rc := r[col]
		for row := col; row < n; row++ {
			rr := r[row]
			u[col*n+row] = f[rc*nf+rr]
		}
	}

	return u
}
