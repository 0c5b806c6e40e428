// Package symbolic: sentinel error set.
// This file defines ONLY package-level sentinel errors. All validation and
// construction code MUST return these sentinels (wrapped with context via
// fmt.Errorf("ctx: %w", ErrX)) rather than panicking on caller-triggered
// malformed input.
package symbolic

import "errors"

var (
	// ErrInvalidOrder is returned when N is non-positive.
	ErrInvalidOrder = errors.New("symbolic: matrix order must be > 0")

	// ErrInvalidSupernodeCount is returned when Nsn is non-positive or
	// exceeds N.
	ErrInvalidSupernodeCount = errors.New("symbolic: supernode count must be in [1, N]")

	// ErrNonPostOrder is returned when SnPost does not place every child
	// before its parent.
	ErrNonPostOrder = errors.New("symbolic: SnPost is not a valid post-order")

	// ErrNonAscendingRelIdx is returned when a supernode's RelIdx slice is
	// not strictly ascending.
	ErrNonAscendingRelIdx = errors.New("symbolic: RelIdx is not strictly ascending")

	// ErrBlockSizeMismatch is returned when BlkPtr[k+1]-BlkPtr[k] does not
	// equal Nk*nk for some supernode k.
	ErrBlockSizeMismatch = errors.New("symbolic: block size does not match Nk*nk")

	// ErrPtrLengthMismatch is returned when an offset-table slice does not
	// have the expected Nsn+1 length.
	ErrPtrLengthMismatch = errors.New("symbolic: offset table has wrong length")

	// ErrNonMonotonicPtr is returned when an offset table is not
	// non-decreasing.
	ErrNonMonotonicPtr = errors.New("symbolic: offset table is not monotonic")

	// ErrInvalidParent is returned by Build when a parent pointer is out of
	// range or would form a self-loop.
	ErrInvalidParent = errors.New("symbolic: invalid parent pointer")

	// ErrCyclicForest is returned by Build when the parent pointers contain
	// a cycle, so no post-order exists.
	ErrCyclicForest = errors.New("symbolic: parent pointers form a cycle")

	// ErrInvalidCard is returned by Build when a supernode's column count nk
	// is non-positive or exceeds its row count Nk.
	ErrInvalidCard = errors.New("symbolic: column count must be in [1, Nk]")

	// ErrRelIdxLength reports a RelIdx slice whose length does not equal its
	// supernode's frontal size Nk. Build takes Nk from the length of each
	// supplied RelIdx slice, so Build itself never returns it.
	ErrRelIdxLength = errors.New("symbolic: RelIdx length does not match Nk")

	// ErrRelIdxBounds is returned when a RelIdx entry references a row
	// outside the parent's frontal.
	ErrRelIdxBounds = errors.New("symbolic: RelIdx entry out of parent frontal bounds")
)
