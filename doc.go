// Package chordal (chordalmath) is a supernodal multifrontal engine for
// dense linear algebra over chordal sparsity patterns.
//
// What is chordalmath/chordal?
//
//	A small, dependency-light library that brings together:
//
//	  • Symbolic factorization: supernodes, elimination tree, block layout
//	  • Frontal arithmetic: scatter/gather updates along relative indices
//	  • Five numeric drivers sharing one elimination-tree walk: Cholesky
//	    factorization, Cholesky product (LLT), projected inverse, maximum
//	    determinant PD completion, and the log-det barrier Hessian/adjoint
//
// Why choose chordalmath?
//
//   - Symbolic/numeric split — build the pattern once, run many drivers
//   - Reusable workspaces    — frontal and update-stack buffers are sized up front and reused
//   - Pure Go                — no cgo, no BLAS/LAPACK binding
//
// Under the hood, everything is organized under four subpackages:
//
//	symbolic/       — Symbolic factorization: supernodes, tree, block offsets
//	chordal/        — Matrix, Workspace and the five numeric drivers
//	chordal/frontal/ — AddUpdate, GetUpdate, LMerge frontal primitives
//	chordal/dense/   — column-major dense kernels used by the drivers
//	wspool/          — sync.Pool-based workspace reuse across driver calls
//
// A Symbolic is built once from an elimination tree and supernode
// partition, then reused across calls to Cholesky, LLT, ProjectedInverse,
// Completion and Hessian against any number of chordal.Matrix values that
// share that pattern.
//
//	go get github.com/chordalmath/chordal
package chordal
