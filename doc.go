// Package fsntfs provides safe Go bindings over a native NTFS parsing
// library accessed through its C-style entry points.
//
// The binding does no NTFS parsing itself. Its job is the part a wrapper has
// to get right: handle ownership (every native object released exactly once,
// children strictly inside their parent's lifetime), error translation
// (native status codes plus a fallible diagnostic-message fetch, surfaced as
// typed errors), and typed accessors that never expose raw native pointers.
//
// # Architecture Overview
//
//	fsntfs/              Typed API: Volume, FileEntry, Attribute
//	├── handle/          Ownership core: node lifecycle, derivation graph
//	├── native/          The C ABI mirror and error translation
//	│   ├── nativetest/  Scriptable in-memory fake library for tests
//	│   ├── wazeronative/ Backend running a wasm build of the library
//	│   └── cgonative/   Backend linking the C library (build tag fsntfs_cgo)
//	├── errors/          Structured error types
//	└── cmd/fsntfs-info/ CLI: list, cat, interactive browser
//
// # Quick Start
//
//	vol, err := fsntfs.Open("/images/disk.dd", fsntfs.WithDispatch(d))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer vol.CloseAll()
//
//	root, err := vol.RootDirectory()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer root.Close()
//
//	n, _ := root.SubEntryCount()
//	for i := 0; i < n; i++ {
//	    entry, err := root.SubEntry(i)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    name, _ := entry.Name()
//	    fmt.Println(name)
//	    entry.Close()
//	}
//
// # Lifetime Rules
//
// Closing a Volume while FileEntries derived from it are still open fails
// with an invalid_state error; close children first. CloseAll tears down the
// whole tree children-first and is intended for defer. Closing anything twice
// is a no-op. Using anything after its Close returns a use_after_release
// error and never reaches native code.
//
// # Thread Safety
//
// The native library is single-threaded. All calls on a Volume and everything
// derived from it serialize on one internal lock; for parallelism open the
// image once per goroutine.
package fsntfs
