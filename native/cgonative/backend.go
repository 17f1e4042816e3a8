//go:build fsntfs_cgo

package cgonative

/*
#cgo LDFLAGS: -lfsntfs

#include <stdint.h>
#include <stddef.h>
#include <stdlib.h>
#include <sys/types.h>

typedef struct libfsntfs_volume libfsntfs_volume_t;
typedef struct libfsntfs_file_entry libfsntfs_file_entry_t;
typedef struct libfsntfs_attribute libfsntfs_attribute_t;
typedef struct libcerror_error libcerror_error_t;

extern int libfsntfs_volume_initialize(libfsntfs_volume_t **volume, libcerror_error_t **error);
extern int libfsntfs_volume_open(libfsntfs_volume_t *volume, const char *filename, int access_flags, libcerror_error_t **error);
extern int libfsntfs_volume_free(libfsntfs_volume_t **volume, libcerror_error_t **error);
extern int libfsntfs_volume_get_utf8_name_size(libfsntfs_volume_t *volume, size_t *utf8_string_size, libcerror_error_t **error);
extern int libfsntfs_volume_get_utf8_name(libfsntfs_volume_t *volume, uint8_t *utf8_string, size_t utf8_string_size, libcerror_error_t **error);
extern int libfsntfs_volume_get_cluster_block_size(libfsntfs_volume_t *volume, uint32_t *cluster_block_size, libcerror_error_t **error);
extern int libfsntfs_volume_get_number_of_file_entries(libfsntfs_volume_t *volume, uint64_t *number_of_file_entries, libcerror_error_t **error);
extern int libfsntfs_volume_get_file_entry_by_index(libfsntfs_volume_t *volume, uint64_t mft_entry_index, libfsntfs_file_entry_t **file_entry, libcerror_error_t **error);
extern int libfsntfs_volume_get_file_entry_by_utf8_path(libfsntfs_volume_t *volume, const uint8_t *utf8_string, size_t utf8_string_length, libfsntfs_file_entry_t **file_entry, libcerror_error_t **error);
extern int libfsntfs_volume_get_root_directory(libfsntfs_volume_t *volume, libfsntfs_file_entry_t **file_entry, libcerror_error_t **error);

extern int libfsntfs_file_entry_free(libfsntfs_file_entry_t **file_entry, libcerror_error_t **error);
extern int libfsntfs_file_entry_get_size(libfsntfs_file_entry_t *file_entry, uint64_t *size, libcerror_error_t **error);
extern int libfsntfs_file_entry_get_creation_time(libfsntfs_file_entry_t *file_entry, uint64_t *filetime, libcerror_error_t **error);
extern int libfsntfs_file_entry_get_modification_time(libfsntfs_file_entry_t *file_entry, uint64_t *filetime, libcerror_error_t **error);
extern int libfsntfs_file_entry_get_access_time(libfsntfs_file_entry_t *file_entry, uint64_t *filetime, libcerror_error_t **error);
extern int libfsntfs_file_entry_get_entry_modification_time(libfsntfs_file_entry_t *file_entry, uint64_t *filetime, libcerror_error_t **error);
extern int libfsntfs_file_entry_get_file_attribute_flags(libfsntfs_file_entry_t *file_entry, uint32_t *file_attribute_flags, libcerror_error_t **error);
extern int libfsntfs_file_entry_get_file_reference(libfsntfs_file_entry_t *file_entry, uint64_t *file_reference, libcerror_error_t **error);
extern int libfsntfs_file_entry_get_parent_file_reference(libfsntfs_file_entry_t *file_entry, uint64_t *file_reference, libcerror_error_t **error);
extern int libfsntfs_file_entry_get_utf8_name_size(libfsntfs_file_entry_t *file_entry, size_t *utf8_string_size, libcerror_error_t **error);
extern int libfsntfs_file_entry_get_utf8_name(libfsntfs_file_entry_t *file_entry, uint8_t *utf8_string, size_t utf8_string_size, libcerror_error_t **error);
extern int libfsntfs_file_entry_get_number_of_attributes(libfsntfs_file_entry_t *file_entry, int *number_of_attributes, libcerror_error_t **error);
extern int libfsntfs_file_entry_get_attribute_by_index(libfsntfs_file_entry_t *file_entry, int attribute_index, libfsntfs_attribute_t **attribute, libcerror_error_t **error);
extern int libfsntfs_file_entry_get_number_of_sub_file_entries(libfsntfs_file_entry_t *file_entry, int *number_of_sub_file_entries, libcerror_error_t **error);
extern int libfsntfs_file_entry_get_sub_file_entry_by_index(libfsntfs_file_entry_t *file_entry, int sub_file_entry_index, libfsntfs_file_entry_t **sub_file_entry, libcerror_error_t **error);
extern int libfsntfs_file_entry_get_sub_file_entry_by_utf8_name(libfsntfs_file_entry_t *file_entry, const uint8_t *utf8_string, size_t utf8_string_length, libfsntfs_file_entry_t **sub_file_entry, libcerror_error_t **error);
extern ssize_t libfsntfs_file_entry_read_buffer(libfsntfs_file_entry_t *file_entry, void *buffer, size_t buffer_size, libcerror_error_t **error);
extern ssize_t libfsntfs_file_entry_read_buffer_at_offset(libfsntfs_file_entry_t *file_entry, void *buffer, size_t buffer_size, int64_t offset, libcerror_error_t **error);
extern int64_t libfsntfs_file_entry_seek_offset(libfsntfs_file_entry_t *file_entry, int64_t offset, int whence, libcerror_error_t **error);
extern int libfsntfs_file_entry_get_offset(libfsntfs_file_entry_t *file_entry, int64_t *offset, libcerror_error_t **error);

extern int libfsntfs_attribute_free(libfsntfs_attribute_t **attribute, libcerror_error_t **error);
extern int libfsntfs_attribute_get_type(libfsntfs_attribute_t *attribute, uint32_t *type, libcerror_error_t **error);
extern int libfsntfs_attribute_get_utf8_name_size(libfsntfs_attribute_t *attribute, size_t *utf8_string_size, libcerror_error_t **error);
extern int libfsntfs_attribute_get_utf8_name(libfsntfs_attribute_t *attribute, uint8_t *utf8_string, size_t utf8_string_size, libcerror_error_t **error);
extern int libfsntfs_attribute_get_data_size(libfsntfs_attribute_t *attribute, uint64_t *data_size, libcerror_error_t **error);
extern int libfsntfs_attribute_copy_data(libfsntfs_attribute_t *attribute, uint8_t *buffer, size_t buffer_size, libcerror_error_t **error);

extern int libcerror_error_code(libcerror_error_t *error);
extern int libcerror_error_sprint(libcerror_error_t *error, char *string, size_t size);
extern void libcerror_error_free(libcerror_error_t **error);
*/
import "C"

import (
	"unsafe"

	"github.com/libyal-go/fsntfs/native"
)

// Backend implements native.Dispatch directly over the linked library. Refs
// are the library's own object pointers. Like the library it is not
// internally synchronized; the handle layer serializes callers.
type Backend struct{}

func New() *Backend { return &Backend{} }

var _ native.Dispatch = (*Backend)(nil)

func volPtr(r native.Ref) *C.libfsntfs_volume_t {
	return (*C.libfsntfs_volume_t)(unsafe.Pointer(r))
}

func entryPtr(r native.Ref) *C.libfsntfs_file_entry_t {
	return (*C.libfsntfs_file_entry_t)(unsafe.Pointer(r))
}

func attrPtr(r native.Ref) *C.libfsntfs_attribute_t {
	return (*C.libfsntfs_attribute_t)(unsafe.Pointer(r))
}

func errPtr(r native.Ref) *C.libcerror_error_t {
	return (*C.libcerror_error_t)(unsafe.Pointer(r))
}

func bufPtr(buf []byte) *C.uint8_t {
	if len(buf) == 0 {
		return nil
	}
	return (*C.uint8_t)(unsafe.Pointer(&buf[0]))
}

func (b *Backend) VolumeInitialize(out *native.Ref, errOut *native.Ref) int {
	var vol *C.libfsntfs_volume_t
	var cerr *C.libcerror_error_t
	st := int(C.libfsntfs_volume_initialize(&vol, &cerr))
	*out = native.Ref(unsafe.Pointer(vol))
	setErr(errOut, cerr)
	return st
}

func (b *Backend) VolumeOpen(vol native.Ref, path string, accessFlags int, errOut *native.Ref) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	var cerr *C.libcerror_error_t
	st := int(C.libfsntfs_volume_open(volPtr(vol), cpath, C.int(accessFlags), &cerr))
	setErr(errOut, cerr)
	return st
}

func (b *Backend) VolumeFree(vol *native.Ref, errOut *native.Ref) int {
	cvol := volPtr(*vol)
	var cerr *C.libcerror_error_t
	st := int(C.libfsntfs_volume_free(&cvol, &cerr))
	*vol = native.Ref(unsafe.Pointer(cvol))
	setErr(errOut, cerr)
	return st
}

func (b *Backend) VolumeGetUTF8NameSize(vol native.Ref, size *uint64, errOut *native.Ref) int {
	var csize C.size_t
	var cerr *C.libcerror_error_t
	st := int(C.libfsntfs_volume_get_utf8_name_size(volPtr(vol), &csize, &cerr))
	*size = uint64(csize)
	setErr(errOut, cerr)
	return st
}

func (b *Backend) VolumeGetUTF8Name(vol native.Ref, buf []byte, errOut *native.Ref) int {
	var cerr *C.libcerror_error_t
	st := int(C.libfsntfs_volume_get_utf8_name(volPtr(vol), bufPtr(buf), C.size_t(len(buf)), &cerr))
	setErr(errOut, cerr)
	return st
}

func (b *Backend) VolumeGetClusterBlockSize(vol native.Ref, size *uint64, errOut *native.Ref) int {
	var csize C.uint32_t
	var cerr *C.libcerror_error_t
	st := int(C.libfsntfs_volume_get_cluster_block_size(volPtr(vol), &csize, &cerr))
	*size = uint64(csize)
	setErr(errOut, cerr)
	return st
}

func (b *Backend) VolumeGetNumberOfFileEntries(vol native.Ref, n *uint64, errOut *native.Ref) int {
	var cn C.uint64_t
	var cerr *C.libcerror_error_t
	st := int(C.libfsntfs_volume_get_number_of_file_entries(volPtr(vol), &cn, &cerr))
	*n = uint64(cn)
	setErr(errOut, cerr)
	return st
}

func (b *Backend) VolumeGetFileEntryByIndex(vol native.Ref, idx uint64, out *native.Ref, errOut *native.Ref) int {
	var entry *C.libfsntfs_file_entry_t
	var cerr *C.libcerror_error_t
	st := int(C.libfsntfs_volume_get_file_entry_by_index(volPtr(vol), C.uint64_t(idx), &entry, &cerr))
	*out = native.Ref(unsafe.Pointer(entry))
	setErr(errOut, cerr)
	return st
}

func (b *Backend) VolumeGetFileEntryByUTF8Path(vol native.Ref, path string, out *native.Ref, errOut *native.Ref) int {
	cpath := []byte(path)
	var entry *C.libfsntfs_file_entry_t
	var cerr *C.libcerror_error_t
	st := int(C.libfsntfs_volume_get_file_entry_by_utf8_path(volPtr(vol), bufPtr(cpath), C.size_t(len(path)), &entry, &cerr))
	*out = native.Ref(unsafe.Pointer(entry))
	setErr(errOut, cerr)
	return st
}

func (b *Backend) VolumeGetRootDirectory(vol native.Ref, out *native.Ref, errOut *native.Ref) int {
	var entry *C.libfsntfs_file_entry_t
	var cerr *C.libcerror_error_t
	st := int(C.libfsntfs_volume_get_root_directory(volPtr(vol), &entry, &cerr))
	*out = native.Ref(unsafe.Pointer(entry))
	setErr(errOut, cerr)
	return st
}

func (b *Backend) FileEntryFree(entry *native.Ref, errOut *native.Ref) int {
	centry := entryPtr(*entry)
	var cerr *C.libcerror_error_t
	st := int(C.libfsntfs_file_entry_free(&centry, &cerr))
	*entry = native.Ref(unsafe.Pointer(centry))
	setErr(errOut, cerr)
	return st
}

func (b *Backend) FileEntryGetSize(entry native.Ref, size *uint64, errOut *native.Ref) int {
	var csize C.uint64_t
	var cerr *C.libcerror_error_t
	st := int(C.libfsntfs_file_entry_get_size(entryPtr(entry), &csize, &cerr))
	*size = uint64(csize)
	setErr(errOut, cerr)
	return st
}

func (b *Backend) FileEntryGetCreationTime(entry native.Ref, filetime *uint64, errOut *native.Ref) int {
	var ct C.uint64_t
	var cerr *C.libcerror_error_t
	st := int(C.libfsntfs_file_entry_get_creation_time(entryPtr(entry), &ct, &cerr))
	*filetime = uint64(ct)
	setErr(errOut, cerr)
	return st
}

func (b *Backend) FileEntryGetModificationTime(entry native.Ref, filetime *uint64, errOut *native.Ref) int {
	var ct C.uint64_t
	var cerr *C.libcerror_error_t
	st := int(C.libfsntfs_file_entry_get_modification_time(entryPtr(entry), &ct, &cerr))
	*filetime = uint64(ct)
	setErr(errOut, cerr)
	return st
}

func (b *Backend) FileEntryGetAccessTime(entry native.Ref, filetime *uint64, errOut *native.Ref) int {
	var ct C.uint64_t
	var cerr *C.libcerror_error_t
	st := int(C.libfsntfs_file_entry_get_access_time(entryPtr(entry), &ct, &cerr))
	*filetime = uint64(ct)
	setErr(errOut, cerr)
	return st
}

func (b *Backend) FileEntryGetEntryModificationTime(entry native.Ref, filetime *uint64, errOut *native.Ref) int {
	var ct C.uint64_t
	var cerr *C.libcerror_error_t
	st := int(C.libfsntfs_file_entry_get_entry_modification_time(entryPtr(entry), &ct, &cerr))
	*filetime = uint64(ct)
	setErr(errOut, cerr)
	return st
}

func (b *Backend) FileEntryGetFileAttributeFlags(entry native.Ref, flags *uint32, errOut *native.Ref) int {
	var cf C.uint32_t
	var cerr *C.libcerror_error_t
	st := int(C.libfsntfs_file_entry_get_file_attribute_flags(entryPtr(entry), &cf, &cerr))
	*flags = uint32(cf)
	setErr(errOut, cerr)
	return st
}

func (b *Backend) FileEntryGetFileReference(entry native.Ref, fileRef *uint64, errOut *native.Ref) int {
	var cr C.uint64_t
	var cerr *C.libcerror_error_t
	st := int(C.libfsntfs_file_entry_get_file_reference(entryPtr(entry), &cr, &cerr))
	*fileRef = uint64(cr)
	setErr(errOut, cerr)
	return st
}

func (b *Backend) FileEntryGetParentFileReference(entry native.Ref, fileRef *uint64, errOut *native.Ref) int {
	var cr C.uint64_t
	var cerr *C.libcerror_error_t
	st := int(C.libfsntfs_file_entry_get_parent_file_reference(entryPtr(entry), &cr, &cerr))
	*fileRef = uint64(cr)
	setErr(errOut, cerr)
	return st
}

func (b *Backend) FileEntryGetUTF8NameSize(entry native.Ref, size *uint64, errOut *native.Ref) int {
	var csize C.size_t
	var cerr *C.libcerror_error_t
	st := int(C.libfsntfs_file_entry_get_utf8_name_size(entryPtr(entry), &csize, &cerr))
	*size = uint64(csize)
	setErr(errOut, cerr)
	return st
}

func (b *Backend) FileEntryGetUTF8Name(entry native.Ref, buf []byte, errOut *native.Ref) int {
	var cerr *C.libcerror_error_t
	st := int(C.libfsntfs_file_entry_get_utf8_name(entryPtr(entry), bufPtr(buf), C.size_t(len(buf)), &cerr))
	setErr(errOut, cerr)
	return st
}

func (b *Backend) FileEntryGetNumberOfAttributes(entry native.Ref, n *int, errOut *native.Ref) int {
	var cn C.int
	var cerr *C.libcerror_error_t
	st := int(C.libfsntfs_file_entry_get_number_of_attributes(entryPtr(entry), &cn, &cerr))
	*n = int(cn)
	setErr(errOut, cerr)
	return st
}

func (b *Backend) FileEntryGetAttributeByIndex(entry native.Ref, idx int, out *native.Ref, errOut *native.Ref) int {
	var attr *C.libfsntfs_attribute_t
	var cerr *C.libcerror_error_t
	st := int(C.libfsntfs_file_entry_get_attribute_by_index(entryPtr(entry), C.int(idx), &attr, &cerr))
	*out = native.Ref(unsafe.Pointer(attr))
	setErr(errOut, cerr)
	return st
}

func (b *Backend) FileEntryGetNumberOfSubFileEntries(entry native.Ref, n *int, errOut *native.Ref) int {
	var cn C.int
	var cerr *C.libcerror_error_t
	st := int(C.libfsntfs_file_entry_get_number_of_sub_file_entries(entryPtr(entry), &cn, &cerr))
	*n = int(cn)
	setErr(errOut, cerr)
	return st
}

func (b *Backend) FileEntryGetSubFileEntryByIndex(entry native.Ref, idx int, out *native.Ref, errOut *native.Ref) int {
	var sub *C.libfsntfs_file_entry_t
	var cerr *C.libcerror_error_t
	st := int(C.libfsntfs_file_entry_get_sub_file_entry_by_index(entryPtr(entry), C.int(idx), &sub, &cerr))
	*out = native.Ref(unsafe.Pointer(sub))
	setErr(errOut, cerr)
	return st
}

func (b *Backend) FileEntryGetSubFileEntryByUTF8Name(entry native.Ref, name string, out *native.Ref, errOut *native.Ref) int {
	cname := []byte(name)
	var sub *C.libfsntfs_file_entry_t
	var cerr *C.libcerror_error_t
	st := int(C.libfsntfs_file_entry_get_sub_file_entry_by_utf8_name(entryPtr(entry), bufPtr(cname), C.size_t(len(name)), &sub, &cerr))
	*out = native.Ref(unsafe.Pointer(sub))
	setErr(errOut, cerr)
	return st
}

func (b *Backend) FileEntryReadBuffer(entry native.Ref, buf []byte, errOut *native.Ref) int64 {
	var cerr *C.libcerror_error_t
	n := int64(C.libfsntfs_file_entry_read_buffer(entryPtr(entry), unsafe.Pointer(bufPtr(buf)), C.size_t(len(buf)), &cerr))
	setErr(errOut, cerr)
	return n
}

func (b *Backend) FileEntryReadBufferAtOffset(entry native.Ref, buf []byte, offset int64, errOut *native.Ref) int64 {
	var cerr *C.libcerror_error_t
	n := int64(C.libfsntfs_file_entry_read_buffer_at_offset(entryPtr(entry), unsafe.Pointer(bufPtr(buf)), C.size_t(len(buf)), C.int64_t(offset), &cerr))
	setErr(errOut, cerr)
	return n
}

func (b *Backend) FileEntrySeekOffset(entry native.Ref, offset int64, whence int, errOut *native.Ref) int64 {
	var cerr *C.libcerror_error_t
	n := int64(C.libfsntfs_file_entry_seek_offset(entryPtr(entry), C.int64_t(offset), C.int(whence), &cerr))
	setErr(errOut, cerr)
	return n
}

func (b *Backend) FileEntryGetOffset(entry native.Ref, offset *int64, errOut *native.Ref) int {
	var co C.int64_t
	var cerr *C.libcerror_error_t
	st := int(C.libfsntfs_file_entry_get_offset(entryPtr(entry), &co, &cerr))
	*offset = int64(co)
	setErr(errOut, cerr)
	return st
}

func (b *Backend) AttributeFree(attr *native.Ref, errOut *native.Ref) int {
	cattr := attrPtr(*attr)
	var cerr *C.libcerror_error_t
	st := int(C.libfsntfs_attribute_free(&cattr, &cerr))
	*attr = native.Ref(unsafe.Pointer(cattr))
	setErr(errOut, cerr)
	return st
}

func (b *Backend) AttributeGetType(attr native.Ref, attrType *uint32, errOut *native.Ref) int {
	var ct C.uint32_t
	var cerr *C.libcerror_error_t
	st := int(C.libfsntfs_attribute_get_type(attrPtr(attr), &ct, &cerr))
	*attrType = uint32(ct)
	setErr(errOut, cerr)
	return st
}

func (b *Backend) AttributeGetUTF8NameSize(attr native.Ref, size *uint64, errOut *native.Ref) int {
	var csize C.size_t
	var cerr *C.libcerror_error_t
	st := int(C.libfsntfs_attribute_get_utf8_name_size(attrPtr(attr), &csize, &cerr))
	*size = uint64(csize)
	setErr(errOut, cerr)
	return st
}

func (b *Backend) AttributeGetUTF8Name(attr native.Ref, buf []byte, errOut *native.Ref) int {
	var cerr *C.libcerror_error_t
	st := int(C.libfsntfs_attribute_get_utf8_name(attrPtr(attr), bufPtr(buf), C.size_t(len(buf)), &cerr))
	setErr(errOut, cerr)
	return st
}

func (b *Backend) AttributeGetDataSize(attr native.Ref, size *uint64, errOut *native.Ref) int {
	var csize C.uint64_t
	var cerr *C.libcerror_error_t
	st := int(C.libfsntfs_attribute_get_data_size(attrPtr(attr), &csize, &cerr))
	*size = uint64(csize)
	setErr(errOut, cerr)
	return st
}

func (b *Backend) AttributeCopyData(attr native.Ref, buf []byte, errOut *native.Ref) int {
	var cerr *C.libcerror_error_t
	st := int(C.libfsntfs_attribute_copy_data(attrPtr(attr), bufPtr(buf), C.size_t(len(buf)), &cerr))
	setErr(errOut, cerr)
	return st
}

func (b *Backend) ErrorCode(err native.Ref) int {
	return int(C.libcerror_error_code(errPtr(err)))
}

func (b *Backend) ErrorSprint(err native.Ref, buf []byte) int {
	if len(buf) == 0 {
		return -1
	}
	return int(C.libcerror_error_sprint(errPtr(err), (*C.char)(unsafe.Pointer(&buf[0])), C.size_t(len(buf))))
}

func (b *Backend) ErrorFree(err *native.Ref) {
	cerr := errPtr(*err)
	C.libcerror_error_free(&cerr)
	*err = native.Ref(unsafe.Pointer(cerr))
}

func setErr(errOut *native.Ref, cerr *C.libcerror_error_t) {
	if cerr != nil && errOut != nil {
		*errOut = native.Ref(unsafe.Pointer(cerr))
	}
}
