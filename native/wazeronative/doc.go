// Package wazeronative dispatches the binding's native calls to a
// WebAssembly build of libfsntfs running under wazero.
//
// This is the dynamic-loading linkage option: no C toolchain or shared
// library on the host, the library ships as a .wasm file and is loaded at
// runtime. The wasm module must be a WASI build exporting the libfsntfs
// entry points plus malloc and free (wasi-sdk with
// -Wl,--export=malloc,--export=free). The runtime API is identical to the
// statically linked backend; only the linkage differs.
//
// Handles returned by the guest are guest memory addresses and are passed
// back verbatim; they never function as host pointers. Out-parameters are
// staged through scratch cells allocated with the guest's own malloc, read
// back after the call, and freed.
package wazeronative
