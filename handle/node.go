package handle

import (
	"github.com/libyal-go/fsntfs/errors"
	"github.com/libyal-go/fsntfs/native"
)

// Kind names the native resource kind a Node wraps.
type Kind string

const (
	KindVolume    Kind = "volume"
	KindFileEntry Kind = "file_entry"
	KindAttribute Kind = "attribute"
)

// FreeFunc invokes the native destructor for one resource kind. It follows
// the library convention: nulls the ref on success, reports failure through
// errOut.
type FreeFunc func(d native.Dispatch, ref *native.Ref, errOut *native.Ref) int

// OpenFunc invokes a native constructor, writing the fresh handle to out.
type OpenFunc func(d native.Dispatch, out *native.Ref, errOut *native.Ref) int

// DeriveFunc obtains a child handle from a live parent handle.
type DeriveFunc func(d native.Dispatch, parent native.Ref, out *native.Ref, errOut *native.Ref) int

// Node owns one native handle. The zero value is not usable; Nodes are
// created only by Table.Open and Node.Derive.
type Node struct {
	table        *Table
	parent       *Node
	free         FreeFunc
	ref          native.Ref
	kind         Kind
	liveChildren int
	released     bool
}

// Kind returns the resource kind of the node.
func (n *Node) Kind() Kind {
	return n.kind
}

// Live reports whether the node still owns its native handle.
func (n *Node) Live() bool {
	n.table.mu.Lock()
	defer n.table.mu.Unlock()
	return !n.released
}

// With passes the raw handle to fn while the node is provably live, holding
// the tree lock for the duration so the native call cannot race a release.
// If the node was already released, fn is never called and the error is
// use_after_release.
func (n *Node) With(fn func(ref native.Ref) error) error {
	n.table.mu.Lock()
	defer n.table.mu.Unlock()

	if n.released {
		return errors.UseAfterRelease(string(n.kind))
	}
	return fn(n.ref)
}

// Derive obtains a child handle from this node and wraps it in a new Node
// recording the parent relationship. Fails with invalid_state if this node is
// already released, before any native call is attempted.
func (n *Node) Derive(kind Kind, free FreeFunc, derive DeriveFunc) (*Node, error) {
	t := n.table
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil, errors.InvalidState(errors.OpDerive, string(kind), "handle table closed")
	}
	if n.released {
		return nil, errors.InvalidState(errors.OpDerive, string(n.kind), "parent already released")
	}

	var out, errRef native.Ref
	if derive(t.d, n.ref, &out, &errRef) != native.StatusOK {
		return nil, native.Translate(t.d, errors.OpDerive, errRef)
	}

	child := &Node{
		table:  t,
		parent: n,
		free:   free,
		ref:    out,
		kind:   kind,
	}
	n.liveChildren++
	t.nodes[child] = struct{}{}
	return child, nil
}

// Release frees the native handle. Idempotent: releasing a released node is a
// no-op success. Fails with invalid_state while derived children are live;
// the native library corrupts or crashes when nesting is violated, so the
// destructor is never attempted in that case.
func (n *Node) Release() error {
	n.table.mu.Lock()
	defer n.table.mu.Unlock()
	return n.releaseLocked()
}

// releaseLocked must be called with the table lock held.
func (n *Node) releaseLocked() error {
	if n.released {
		return nil
	}
	if n.liveChildren > 0 {
		return errors.InvalidState(errors.OpRelease, string(n.kind), "derived handles still live")
	}

	// The handle is marked released before the destructor returns so a
	// failed free can never lead to a second native free.
	n.released = true
	delete(n.table.nodes, n)
	if n.parent != nil {
		n.parent.liveChildren--
	}

	var errRef native.Ref
	if n.free(n.table.d, &n.ref, &errRef) != native.StatusOK {
		return native.Translate(n.table.d, errors.OpRelease, errRef)
	}
	return nil
}
