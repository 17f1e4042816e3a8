package handle

import (
	"sync"

	"github.com/libyal-go/fsntfs/errors"
	"github.com/libyal-go/fsntfs/native"
)

// Table tracks every Node of one container tree and owns the single mutex
// that serializes all native calls on that tree.
type Table struct {
	d      native.Dispatch
	nodes  map[*Node]struct{}
	mu     sync.Mutex
	closed bool
}

// NewTable creates a handle table bound to one native dispatch.
func NewTable(d native.Dispatch) *Table {
	return &Table{
		d:     d,
		nodes: make(map[*Node]struct{}),
	}
}

// Dispatch returns the native dispatch the table's nodes call through.
func (t *Table) Dispatch() native.Dispatch {
	return t.d
}

// Open invokes a native constructor and wraps the returned handle in a new
// root Node. On failure no node is created and the native error is translated
// with open_failed semantics (out_of_memory is preserved).
func (t *Table) Open(kind Kind, free FreeFunc, open OpenFunc) (*Node, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil, errors.InvalidState(errors.OpOpen, string(kind), "handle table closed")
	}

	var out, errRef native.Ref
	if open(t.d, &out, &errRef) != native.StatusOK {
		nerr := native.Translate(t.d, errors.OpOpen, errRef)
		if nerr.Kind == errors.KindOutOfMemory {
			return nil, nerr
		}
		return nil, errors.OpenFailed(string(kind), nerr.Code, nerr.Message)
	}

	n := &Node{
		table: t,
		free:  free,
		ref:   out,
		kind:  kind,
	}
	t.nodes[n] = struct{}{}
	return n, nil
}

// Len returns the number of live nodes. Useful as a leak check.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.nodes)
}

// Close releases every remaining node, children before parents, and stops
// accepting operations. This is the only path that cascades; explicit
// Release still rejects parents with live children. The first release error
// is returned after the sweep completes.
func (t *Table) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true

	var firstErr error
	for len(t.nodes) > 0 {
		progress := false
		for n := range t.nodes {
			if n.liveChildren > 0 {
				continue
			}
			if err := n.releaseLocked(); err != nil && firstErr == nil {
				firstErr = err
			}
			progress = true
		}
		if !progress {
			// Unreachable while derivation keeps the graph acyclic.
			break
		}
	}
	return firstErr
}
