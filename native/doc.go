// Package native defines the foreign call boundary of the fsntfs binding.
//
// The Dispatch interface mirrors the libfsntfs entry points one to one: every
// call returns an integer status (1 on success, -1 on failure), writes results
// through out-parameters, and reports failures through a trailing error
// reference that must be drained with the ErrorCode/ErrorSprint/ErrorFree
// accessors. The binding never deviates from these shapes; backends only
// differ in how the calls reach the library (in-process linkage, a wasm build
// of the library, or the in-memory fake used by tests).
//
// Ref values are opaque. They are produced and consumed only by Dispatch
// implementations and the handle package; they never cross into the public
// API.
package native
