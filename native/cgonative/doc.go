//go:build fsntfs_cgo

// Package cgonative dispatches the binding's native calls to a host build of
// libfsntfs through cgo.
//
// This is the static-linkage option: the library is resolved at link time and
// the resulting binary has no runtime loading step. Build with
//
//	go build -tags fsntfs_cgo
//
// and point CGO_LDFLAGS at a static archive to link statically, or leave the
// default -lfsntfs to link against the shared library. The runtime API is
// identical to the wazero-loaded backend; only the linkage differs.
package cgonative
