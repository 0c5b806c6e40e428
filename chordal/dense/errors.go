// Package dense provides small, hand-rolled column-major dense linear
// algebra primitives used inside the supernodal drivers: panel Cholesky,
// triangular panel solves, symmetric rank-k/rank-2k updates, triangular
// inversion, and the per-supernode steps of the projected-inverse,
// completion and Hessian drivers.
//
// Every kernel here operates on flat []float64 column-major buffers with an
// explicit leading dimension, the same convention the higher-level chordal
// package uses for its frontal workspace.
package dense

import "errors"

var (
	// ErrNotPositiveDefinite is returned when a pivot during panel Cholesky
	// is not strictly positive.
	ErrNotPositiveDefinite = errors.New("dense: matrix is not positive definite")

	// ErrSingular is returned when a triangular inversion hits a
	// numerically zero diagonal entry.
	ErrSingular = errors.New("dense: triangular matrix is singular")
)
