package native

// Ref is an opaque native handle value, in practice a raw address inside the
// library (or a table index for non-linked backends). Ref 0 is the null
// handle and always invalid.
type Ref uintptr

// Status values returned by every native entry point.
const (
	StatusOK     = 1
	StatusFailed = -1
)

// Access flags accepted by VolumeOpen. The library is read-only; write access
// is not part of the ABI surface this binding mirrors.
const (
	AccessFlagRead = 1 << 0
)

// Seek whence values, matching the C library's SEEK_* constants.
const (
	SeekSet = 0
	SeekCur = 1
	SeekEnd = 2
)

// Error category codes reported by ErrorCode. The C library formats messages
// but carries no numeric code, so backends classify into these coarse
// categories; CodeGeneric is the honest answer when a backend cannot tell.
const (
	CodeGeneric  = 1
	CodeNotFound = 2
	CodeNoMemory = 3
)

// Dispatch is the fixed set of native entry points the binding mirrors.
// All calls are blocking, synchronous and not internally synchronized; the
// handle package serializes access per container tree.
type Dispatch interface {
	// Volume lifecycle. Initialize allocates an unopened volume object;
	// Open attaches it to a source path. Both must succeed before any
	// volume getter is meaningful. Free releases the object and nulls the
	// ref.
	VolumeInitialize(out *Ref, errOut *Ref) int
	VolumeOpen(vol Ref, path string, accessFlags int, errOut *Ref) int
	VolumeFree(vol *Ref, errOut *Ref) int

	// Volume getters.
	VolumeGetUTF8NameSize(vol Ref, size *uint64, errOut *Ref) int
	VolumeGetUTF8Name(vol Ref, buf []byte, errOut *Ref) int
	VolumeGetClusterBlockSize(vol Ref, size *uint64, errOut *Ref) int
	VolumeGetNumberOfFileEntries(vol Ref, n *uint64, errOut *Ref) int

	// Volume derivations.
	VolumeGetFileEntryByIndex(vol Ref, idx uint64, out *Ref, errOut *Ref) int
	VolumeGetFileEntryByUTF8Path(vol Ref, path string, out *Ref, errOut *Ref) int
	VolumeGetRootDirectory(vol Ref, out *Ref, errOut *Ref) int

	// File entry lifecycle and getters.
	FileEntryFree(entry *Ref, errOut *Ref) int
	FileEntryGetSize(entry Ref, size *uint64, errOut *Ref) int
	FileEntryGetCreationTime(entry Ref, filetime *uint64, errOut *Ref) int
	FileEntryGetModificationTime(entry Ref, filetime *uint64, errOut *Ref) int
	FileEntryGetAccessTime(entry Ref, filetime *uint64, errOut *Ref) int
	FileEntryGetEntryModificationTime(entry Ref, filetime *uint64, errOut *Ref) int
	FileEntryGetFileAttributeFlags(entry Ref, flags *uint32, errOut *Ref) int
	FileEntryGetFileReference(entry Ref, fileRef *uint64, errOut *Ref) int
	FileEntryGetParentFileReference(entry Ref, fileRef *uint64, errOut *Ref) int
	FileEntryGetUTF8NameSize(entry Ref, size *uint64, errOut *Ref) int
	FileEntryGetUTF8Name(entry Ref, buf []byte, errOut *Ref) int

	// File entry derivations.
	FileEntryGetNumberOfAttributes(entry Ref, n *int, errOut *Ref) int
	FileEntryGetAttributeByIndex(entry Ref, idx int, out *Ref, errOut *Ref) int
	FileEntryGetNumberOfSubFileEntries(entry Ref, n *int, errOut *Ref) int
	FileEntryGetSubFileEntryByIndex(entry Ref, idx int, out *Ref, errOut *Ref) int
	FileEntryGetSubFileEntryByUTF8Name(entry Ref, name string, out *Ref, errOut *Ref) int

	// Default data stream I/O. Read calls return the byte count or -1; the
	// stream cursor is library state shared by all readers of the entry.
	FileEntryReadBuffer(entry Ref, buf []byte, errOut *Ref) int64
	FileEntryReadBufferAtOffset(entry Ref, buf []byte, offset int64, errOut *Ref) int64
	FileEntrySeekOffset(entry Ref, offset int64, whence int, errOut *Ref) int64
	FileEntryGetOffset(entry Ref, offset *int64, errOut *Ref) int

	// Attribute lifecycle and getters.
	AttributeFree(attr *Ref, errOut *Ref) int
	AttributeGetType(attr Ref, attrType *uint32, errOut *Ref) int
	AttributeGetUTF8NameSize(attr Ref, size *uint64, errOut *Ref) int
	AttributeGetUTF8Name(attr Ref, buf []byte, errOut *Ref) int
	AttributeGetDataSize(attr Ref, size *uint64, errOut *Ref) int
	AttributeCopyData(attr Ref, buf []byte, errOut *Ref) int

	// Error object accessors. ErrorSprint returns the number of bytes
	// written or -1; a failed sprint must not fail error translation.
	ErrorCode(err Ref) int
	ErrorSprint(err Ref, buf []byte) int
	ErrorFree(err *Ref)
}
