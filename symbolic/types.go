// Package symbolic describes the immutable supernodal elimination tree and
// block layout that the chordal engine's drivers walk. A Symbolic value
// never changes after construction: the same value is shared, read-only,
// across every chordal.Matrix that carries its sparsity pattern.
package symbolic

// Memory carries sizing hints the caller uses to allocate a chordal.Workspace
// large enough for every supernode this Symbolic describes.
type Memory struct {
	// StackDepth is the maximum number of update blocks simultaneously live
	// on the update stack during a post-order walk.
	StackDepth int
	// StackMem is the maximum number of float64 entries simultaneously live
	// on the update stack (the largest sum of (Nk-nk)^2 over the blocks live
	// at once).
	StackMem int
	// FrontalMem is the largest Nk*Nk needed for the frontal workspace.
	FrontalMem int
}

// Symbolic is an immutable description of a supernodal elimination tree and
// its block layout. It carries no numeric values of its own — chordal.Matrix
// pairs a Symbolic with a Blkval buffer.
//
// Two *Symbolic values describe "the same pattern" iff they are the same
// pointer: the engine never compares Symbolic values structurally, only by
// identity (see chordal.ErrSymbolMismatch).
type Symbolic struct {
	// N is the order of the matrix.
	N int
	// Nsn is the number of supernodes.
	Nsn int
	// SnPost lists supernode indices in post-order: every child of a
	// supernode appears before that supernode.
	SnPost []int
	// SnPtr[k] and SnPtr[k+1] bound supernode k's owned diagonal columns;
	// nk = SnPtr[k+1] - SnPtr[k].
	SnPtr []int
	// RelPtr[k] and RelPtr[k+1] bound supernode k's slice of RelIdx; that
	// slice lists, in ascending order, the rows of k's parent's frontal
	// that k's update block occupies. len == k's frontal size Nk.
	RelPtr []int
	RelIdx []int
	// ChPtr[k] and ChPtr[k+1] bound supernode k's slice of ChIdx, the
	// indices of k's children.
	ChPtr []int
	ChIdx []int
	// BlkPtr[k] and BlkPtr[k+1] bound supernode k's block within a
	// chordal.Matrix's Blkval: an Nk x nk column-major dense panel.
	BlkPtr []int
	// Memory carries workspace sizing hints computed at construction time.
	Memory Memory
}

// Nk returns the frontal (row) size of supernode k: the number of rows in
// its dense panel, owned columns plus row-extension rows.
func (s *Symbolic) Nk(k int) int {
	return s.RelPtr[k+1] - s.RelPtr[k]
}

// nk returns the number of columns supernode k owns.
func (s *Symbolic) nk(k int) int {
	return s.SnPtr[k+1] - s.SnPtr[k]
}

// Ncols returns the number of columns supernode k owns (SnPtr[k+1]-SnPtr[k]).
func (s *Symbolic) Ncols(k int) int {
	return s.nk(k)
}

// Block returns the half-open [start, end) index range of supernode k's panel
// within a chordal.Matrix's Blkval buffer.
func (s *Symbolic) Block(k int) (start, end int) {
	return s.BlkPtr[k], s.BlkPtr[k+1]
}
