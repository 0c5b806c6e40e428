package chordal

import "errors"

// Sentinel errors for the chordal engine. Each is wrapped with call-site
// context via fmt.Errorf("...: %w", ErrX) and matched by callers with
// errors.Is, following the package's sentinel-error convention.
var (
	// ErrIsFactor indicates an operation that requires Matrix.IsFactor to be
	// false (an X operand) was given a matrix whose IsFactor is true.
	ErrIsFactor = errors.New("chordal: matrix is already in L (factor) state")

	// ErrNotFactor indicates an operation that requires Matrix.IsFactor to be
	// true (an L operand) was given a matrix whose IsFactor is false.
	ErrNotFactor = errors.New("chordal: matrix is not in L (factor) state")

	// ErrSymbolMismatch indicates two operands reference different
	// *symbolic.Symbolic values by identity.
	ErrSymbolMismatch = errors.New("chordal: operands reference different symbolic patterns")

	// ErrShapeMismatch indicates a frontal or update block size mismatch.
	ErrShapeMismatch = errors.New("chordal: shape mismatch")

	// ErrNilSymbolic indicates a Matrix was constructed with a nil Symbolic.
	ErrNilSymbolic = errors.New("chordal: nil symbolic")

	// ErrBufferLength indicates Blkval's length does not match the symbolic
	// object's expected buffer size.
	ErrBufferLength = errors.New("chordal: blkval length mismatch")

	// ErrWorkspaceTooSmall indicates a caller-supplied Workspace's buffers
	// are smaller than the symbolic object's memory hints require.
	ErrWorkspaceTooSmall = errors.New("chordal: workspace too small")

	// ErrNotPositiveDefinite indicates a Cholesky or completion pivot failed.
	ErrNotPositiveDefinite = errors.New("chordal: matrix is not positive definite")

	// ErrSingularFactor indicates a singular L11 block during projected
	// inverse or Hessian evaluation.
	ErrSingularFactor = errors.New("chordal: singular factor block")
)
