package chordal

import (
	"fmt"

	"github.com/chordalmath/chordal/symbolic"
)

// frame describes one live update block on Workspace.Stack: a square m x m
// column-major block occupying Stack[offset : offset+m*m].
type frame struct {
	offset int
	m      int
}

// Workspace holds the three scratch buffers a driver's post-order walk
// reuses across every supernode: the frontal panel, and an arena-backed LIFO
// of update blocks with its matching size stack. A Workspace is acquired
// once per driver call (or borrowed from a wspool.Pool) and must not be
// shared across two in-flight driver calls.
type Workspace struct {
	// Frontal is addressed as an Nk x Nk column-major panel for whichever
	// supernode is currently active; only its leading rows/cols are used.
	Frontal []float64
	// Stack is a single contiguous arena holding every update block
	// currently live on the LIFO, back to back — never a slice of
	// separately heap-allocated blocks.
	Stack []float64

	top    int
	frames []frame
}

// NewWorkspace allocates a Workspace sized from symb's memory hints.
func NewWorkspace(symb *symbolic.Symbolic) *Workspace {
	return &Workspace{
		Frontal: make([]float64, symb.Memory.FrontalMem),
		Stack:   make([]float64, symb.Memory.StackMem),
		frames:  make([]frame, 0, symb.Memory.StackDepth),
	}
}

// fits reports whether ws's buffers are at least as large as symb requires.
func (ws *Workspace) fits(symb *symbolic.Symbolic) bool {
	return len(ws.Frontal) >= symb.Memory.FrontalMem &&
		len(ws.Stack) >= symb.Memory.StackMem &&
		cap(ws.frames) >= symb.Memory.StackDepth
}

// reset drops every live frame without reallocating, so a Workspace is safe
// to reuse across repeated driver calls against the same Symbolic.
func (ws *Workspace) reset() {
	ws.top = 0
	ws.frames = ws.frames[:0]
}

// push copies an m x m column-major block (all m*m entries) onto the update
// stack.
func (ws *Workspace) push(m int, block []float64) error {
	need := m * m
	if ws.top+need > len(ws.Stack) {
		return fmt.Errorf("Workspace.push: stack exhausted: %w", ErrWorkspaceTooSmall)
	}
	if len(ws.frames) == cap(ws.frames) && cap(ws.frames) > 0 {
		return fmt.Errorf("Workspace.push: stack depth exhausted: %w", ErrWorkspaceTooSmall)
	}
	copy(ws.Stack[ws.top:ws.top+need], block)
	ws.frames = append(ws.frames, frame{offset: ws.top, m: m})
	ws.top += need

	return nil
}

// pop removes and returns the top update block: its dimension m and a view
// (not a copy) into Stack holding its m x m column-major data. The returned
// slice is only valid until the next push reuses that region.
func (ws *Workspace) pop() (int, []float64) {
	f := ws.frames[len(ws.frames)-1]
	ws.frames = ws.frames[:len(ws.frames)-1]
	ws.top = f.offset

	return f.m, ws.Stack[f.offset : f.offset+f.m*f.m]
}
