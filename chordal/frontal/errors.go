// Package frontal provides the scatter/gather/merge primitives a supernodal
// multifrontal walk uses to move update blocks between a child supernode and
// its parent's frontal workspace.
package frontal

import "errors"

var (
	// ErrShapeMismatch is returned when an update block's size does not
	// agree with the relative-index range it is being scattered to or
	// gathered from.
	ErrShapeMismatch = errors.New("frontal: update block size does not match relative index range")

	// ErrBufferLength is returned when a destination slice lacks the
	// capacity LMerge needs to hold the merged result in place.
	ErrBufferLength = errors.New("frontal: destination buffer too short for merge")
)
