package chordal

import (
	"errors"
	"fmt"

	"github.com/chordalmath/chordal/chordal/dense"
)

// KernelError attaches the supernode where a dense kernel failed to the
// underlying sentinel, so a caller can both errors.Is against the sentinel
// and recover which supernode was responsible without the engine logging
// anything itself.
type KernelError struct {
	// Supernode is the index of the supernode whose dense kernel step failed
	// (the supernode number itself, not its position in Symbolic.SnPost).
	Supernode int
	// Err is the underlying sentinel (ErrNotPositiveDefinite,
	// ErrSingularFactor, ...).
	Err error
}

func (e *KernelError) Error() string {
	return fmt.Sprintf("chordal: supernode %d: %s", e.Supernode, e.Err)
}

func (e *KernelError) Unwrap() error {
	return e.Err
}

// kernelErr wraps a dense-package kernel failure as a KernelError, translating
// the package-local sentinel (dense.ErrNotPositiveDefinite, dense.ErrSingular)
// into the corresponding chordal-level sentinel so callers can match with
// errors.Is against this package's documented error table without reaching
// into chordal/dense.
func kernelErr(supernode int, err error) error {
	if err == nil {
		return nil
	}

	wrapped := err
	switch {
	case errors.Is(err, dense.ErrNotPositiveDefinite):
		wrapped = fmt.Errorf("%v: %w", err, ErrNotPositiveDefinite)
	case errors.Is(err, dense.ErrSingular):
		wrapped = fmt.Errorf("%v: %w", err, ErrSingularFactor)
	}

	return &KernelError{Supernode: supernode, Err: wrapped}
}
