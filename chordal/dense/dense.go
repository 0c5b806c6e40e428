package dense

import (
	"fmt"
	"math"
)

// Buffers here are column-major: in an n-row buffer element (row, col)
// lives at col*n+row. Every kernel in this package takes buffers with no padding
// between columns (leading dimension equals row count), matching the
// teacher's flat, unpadded Dense storage convention.

// CholeskyPanel factors the n x n symmetric positive-definite column-major
// block a in place as L L^T, writing L into the lower triangle of a (the
// strict upper triangle is left untouched and must not be read afterward).
//
// Stage 1 (Execute): classic left-looking column Cholesky.
// Stage 2 (Validate): each pivot must be strictly positive.
func CholeskyPanel(a []float64, n int) error {
	for j := 0; j < n; j++ {
		// Stage 1: subtract contributions from previously computed columns
		sum := a[j*n+j]
		for k := 0; k < j; k++ {
			ljk := a[k*n+j]
			sum -= ljk * ljk
		}
		// Stage 2: pivot must be strictly positive
		if sum <= 0 {
			return fmt.Errorf("CholeskyPanel: non-positive pivot at column %d: %w", j, ErrNotPositiveDefinite)
		}
		ljj := math.Sqrt(sum)
		a[j*n+j] = ljj

		// Stage 3: scale the rest of column j
		for i := j + 1; i < n; i++ {
			s := a[j*n+i]
			for k := 0; k < j; k++ {
				s -= a[k*n+i] * a[k*n+j]
			}
			a[j*n+i] = s / ljj
		}
	}

	return nil
}

// TrsmRightLowerTranspose solves X * L^T = B for X, where L is the n x n
// lower-triangular factor (column-major, strict upper ignored) and B is the
// rows x n column-major panel b, overwritten in place with the solution.
//
// Equivalent to solving L * X^T = B^T column by column, i.e. forward
// substitution applied to each of the rows rows of b independently.
func TrsmRightLowerTranspose(b []float64, rows, n int, l []float64) error {
	for row := 0; row < rows; row++ {
		for col := 0; col < n; col++ {
			sum := b[col*rows+row]
			for k := 0; k < col; k++ {
				sum -= b[k*rows+row] * l[k*n+col]
			}
			lcc := l[col*n+col]
			if lcc == 0 {
				return fmt.Errorf("TrsmRightLowerTranspose: zero pivot at %d: %w", col, ErrSingular)
			}
			b[col*rows+row] = sum / lcc
		}
	}

	return nil
}

// TrsmLeftLower solves L * X = B for X, where L is the n x n lower-triangular
// factor (column-major, strict upper ignored) and B is the n x cols
// column-major panel b, overwritten in place with the solution. Forward
// substitution, one column of b at a time.
func TrsmLeftLower(b []float64, n, cols int, l []float64) error {
	for col := 0; col < cols; col++ {
		for i := 0; i < n; i++ {
			sum := b[col*n+i]
			for k := 0; k < i; k++ {
				sum -= l[k*n+i] * b[col*n+k]
			}
			lii := l[i*n+i]
			if lii == 0 {
				return fmt.Errorf("TrsmLeftLower: zero pivot at %d: %w", i, ErrSingular)
			}
			b[col*n+i] = sum / lii
		}
	}

	return nil
}

// TrsmLeftLowerTranspose solves L^T * X = B for X, where L is the n x n
// lower-triangular factor (column-major, strict upper ignored) and B is the
// n x cols column-major panel b, overwritten in place with the solution.
// Backward substitution, since L^T is upper triangular.
func TrsmLeftLowerTranspose(b []float64, n, cols int, l []float64) error {
	for col := 0; col < cols; col++ {
		for i := n - 1; i >= 0; i-- {
			sum := b[col*n+i]
			for k := i + 1; k < n; k++ {
				sum -= l[i*n+k] * b[col*n+k]
			}
			lii := l[i*n+i]
			if lii == 0 {
				return fmt.Errorf("TrsmLeftLowerTranspose: zero pivot at %d: %w", i, ErrSingular)
			}
			b[col*n+i] = sum / lii
		}
	}

	return nil
}

// TrsmRightLower solves X * L = B for X, where L is the n x n lower-triangular
// factor (column-major, strict upper ignored) and B is the rows x n
// column-major panel b, overwritten in place with the solution.
//
// Because L is lower triangular, column c of X depends on columns > c of X
// and L, so columns of b are resolved right to left.
func TrsmRightLower(b []float64, rows, n int, l []float64) error {
	for row := 0; row < rows; row++ {
		for col := n - 1; col >= 0; col-- {
			sum := b[col*rows+row]
			for k := col + 1; k < n; k++ {
				sum -= b[k*rows+row] * l[col*n+k]
			}
			lcc := l[col*n+col]
			if lcc == 0 {
				return fmt.Errorf("TrsmRightLower: zero pivot at %d: %w", col, ErrSingular)
			}
			b[col*rows+row] = sum / lcc
		}
	}

	return nil
}

// SyrkLowerSub computes c -= b * b^T over the lower triangle only, where c
// is m x m column-major (m == rows) and b is rows x n column-major.
func SyrkLowerSub(c []float64, m int, b []float64, rows, n int) {
	syrkLower(c, m, b, rows, n, -1)
}

// SyrkLower computes c = b * b^T over the lower triangle only (overwriting,
// not accumulating), where c is m x m column-major (m == rows) and b is
// rows x n column-major.
func SyrkLower(c []float64, m int, b []float64, rows, n int) {
	for i := range c {
		c[i] = 0
	}
	syrkLower(c, m, b, rows, n, 1)
}

func syrkLower(c []float64, m int, b []float64, rows, n int, sign float64) {
	for col := 0; col < m; col++ {
		for row := col; row < m; row++ {
			sum := 0.0
			for k := 0; k < n; k++ {
				sum += b[k*rows+row] * b[k*rows+col]
			}
			c[col*m+row] += sign * sum
		}
	}
}

// TriLowerInvert returns the inverse of the n x n lower-triangular
// column-major matrix l (strict upper ignored), itself lower triangular, by
// forward-substituting each column of the identity.
func TriLowerInvert(l []float64, n int) ([]float64, error) {
	inv := make([]float64, n*n)
	e := make([]float64, n)
	for col := 0; col < n; col++ {
		for i := range e {
			e[i] = 0
		}
		e[col] = 1
		for i := col; i < n; i++ {
			sum := e[i]
			for k := col; k < i; k++ {
				sum -= l[k*n+i] * inv[col*n+k]
			}
			lii := l[i*n+i]
			if lii == 0 {
				return nil, fmt.Errorf("TriLowerInvert: zero pivot at %d: %w", i, ErrSingular)
			}
			inv[col*n+i] = sum / lii
		}
	}

	return inv, nil
}

// MatMul computes c = a * b, where a is m x k, b is k x n and c is m x n,
// all column-major with no column padding. c must be pre-allocated by the
// caller.
func MatMul(c []float64, a []float64, m, k int, b []float64, n int) {
	for col := 0; col < n; col++ {
		for row := 0; row < m; row++ {
			sum := 0.0
			for p := 0; p < k; p++ {
				sum += a[p*m+row] * b[col*k+p]
			}
			c[col*m+row] = sum
		}
	}
}

// MatMulTransA computes c = a^T * b, where a is k x m, b is k x n and c is
// m x n, all column-major.
func MatMulTransA(c []float64, a []float64, k, m int, b []float64, n int) {
	for col := 0; col < n; col++ {
		for row := 0; row < m; row++ {
			sum := 0.0
			for p := 0; p < k; p++ {
				sum += a[row*k+p] * b[col*k+p]
			}
			c[col*m+row] = sum
		}
	}
}

// MatMulTransB computes c = a * b^T, where a is m x k, b is n x k (so b^T is
// k x n) and c is m x n, all column-major.
func MatMulTransB(c []float64, a []float64, m, k int, b []float64, n int) {
	for col := 0; col < n; col++ {
		for row := 0; row < m; row++ {
			sum := 0.0
			for p := 0; p < k; p++ {
				sum += a[p*m+row] * b[p*n+col]
			}
			c[col*m+row] = sum
		}
	}
}

// AddInto adds b element-wise into a (both the same length), a += b.
func AddInto(a, b []float64) {
	for i := range a {
		a[i] += b[i]
	}
}

// Negate negates every element of a in place.
func Negate(a []float64) {
	for i := range a {
		a[i] = -a[i]
	}
}

// CopyLowerTriangle copies the lower triangle of an n x n column-major
// source into the lower triangle of an n x n column-major destination,
// leaving the destination's strict upper triangle untouched.
func CopyLowerTriangle(dst, src []float64, n int) {
	for col := 0; col < n; col++ {
		for row := col; row < n; row++ {
			dst[col*n+row] = src[col*n+row]
		}
	}
}

// MirrorLower fills the strict upper triangle of an n x n column-major
// symmetric matrix from its lower triangle.
func MirrorLower(a []float64, n int) {
	for col := 0; col < n; col++ {
		for row := col + 1; row < n; row++ {
			a[row*n+col] = a[col*n+row]
		}
	}
}

// Symmetric returns a full n x n column-major copy of a, whose lower
// triangle is read from a and whose strict upper triangle is mirrored from
// it, for feeding into kernels (MatMul and friends) that read both triangles.
func Symmetric(a []float64, n int) []float64 {
	full := make([]float64, n*n)
	CopyLowerTriangle(full, a, n)
	MirrorLower(full, n)

	return full
}

// Transpose writes src^T (rows x cols, column-major) into a freshly
// allocated cols x rows column-major result.
func Transpose(src []float64, rows, cols int) []float64 {
	dst := make([]float64, rows*cols)
	for col := 0; col < cols; col++ {
		for row := 0; row < rows; row++ {
			dst[row*cols+col] = src[col*rows+row]
		}
	}

	return dst
}

// InvertSPD returns the inverse of the n x n symmetric positive-definite
// column-major matrix a (lower triangle read, strict upper ignored), as a
// full n x n column-major matrix (both triangles populated).
//
// Stage 1: Cholesky-factor a copy of a.
// Stage 2: invert the triangular factor.
// Stage 3: inv(a) = L^-T L^-1.
func InvertSPD(a []float64, n int) ([]float64, error) {
	l := make([]float64, n*n)
	CopyLowerTriangle(l, a, n)
	if err := CholeskyPanel(l, n); err != nil {
		return nil, fmt.Errorf("InvertSPD: %w", err)
	}
	linv, err := TriLowerInvert(l, n)
	if err != nil {
		return nil, fmt.Errorf("InvertSPD: %w", err)
	}
	inv := make([]float64, n*n)
	MatMulTransA(inv, linv, n, n, linv, n)

	return inv, nil
}
