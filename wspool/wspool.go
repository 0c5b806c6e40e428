// Package wspool amortizes chordal.Workspace allocation across repeated
// driver calls against matrices that share a *symbolic.Symbolic.
package wspool

import (
	"sync"

	"github.com/chordalmath/chordal"
	"github.com/chordalmath/chordal/symbolic"
)

// Pool caches Workspace values keyed by the identity of the
// *symbolic.Symbolic they were sized for. Safe for concurrent use; the
// Workspace values it hands out are not — a caller must not share one
// across two in-flight driver calls.
type Pool struct {
	mu    sync.Mutex
	byPat map[*symbolic.Symbolic]*sync.Pool
}

// New returns an empty Pool.
func New() *Pool {
	return &Pool{byPat: make(map[*symbolic.Symbolic]*sync.Pool)}
}

// Get returns a Workspace sized for symb: one returned by an earlier Put
// against the same *symbolic.Symbolic when available, freshly allocated via
// chordal.NewWorkspace otherwise. The caller must Put it back when done.
func (p *Pool) Get(symb *symbolic.Symbolic) *chordal.Workspace {
	sp := p.poolFor(symb)
	ws, ok := sp.Get().(*chordal.Workspace)
	if !ok {
		return chordal.NewWorkspace(symb)
	}

	return ws
}

// Put returns ws for reuse by a later Get against the same symbolic pattern.
// ws must already fit symb (as obtained from Get(symb), or validated by the
// caller via ws.fits semantics) — Put does not re-check its capacity.
func (p *Pool) Put(symb *symbolic.Symbolic, ws *chordal.Workspace) {
	p.poolFor(symb).Put(ws)
}

func (p *Pool) poolFor(symb *symbolic.Symbolic) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()

	sp, ok := p.byPat[symb]
	if !ok {
		sp = &sync.Pool{New: func() any { return chordal.NewWorkspace(symb) }}
		p.byPat[symb] = sp
	}

	return sp
}
