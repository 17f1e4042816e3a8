// Package handle implements the ownership and lifetime model for native
// resource handles.
//
// Every open native object (volume, file entry, attribute) is owned by
// exactly one Node. A Node is either live or released, never both; release
// happens exactly once and a released Node never reaches native code again.
// Nodes record the parent they were derived from, and a parent cannot be
// released while derived children are live — the native library assumes
// strict lifetime nesting and this package enforces it before any native call
// is attempted.
//
// # Lifecycle
//
//	Live --Release()--> Released            (terminal)
//	Live --failed native op--> Live         (node stays usable)
//	Released --anything--> use_after_release error, no native call
//
// A second Release on a released Node is a no-op success.
//
// # Concurrency
//
// The native library is not internally synchronized and shares state (such as
// stream cursors) across a volume and everything derived from it. All access
// to a tree of Nodes therefore serializes on a single mutex owned by the
// tree's Table, never anything finer-grained. Nodes must not be used after
// their Table is closed.
package handle
