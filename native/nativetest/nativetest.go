// Package nativetest provides a scriptable in-memory implementation of
// native.Dispatch. It stands in for the real library in tests: images are
// plain Go trees of entries and attributes, failures (corruption, allocation
// failure, diagnostic-fetch failure) are injected with flags, and live handle
// counts are observable for leak checks.
package nativetest

import (
	"fmt"
	"strings"

	"github.com/libyal-go/fsntfs/native"
)

// Image describes one fake NTFS image.
type Image struct {
	VolumeName       string
	ClusterBlockSize uint64
	Root             *Entry
	// Corrupted makes VolumeOpen fail the way the library fails on a
	// damaged volume header.
	Corrupted bool

	entries []*Entry // DFS order, position = MFT-style index
}

// Entry is one fake file entry. Times are raw FILETIME values, as the native
// getters report them.
type Entry struct {
	Name                  string
	Data                  []byte
	Size                  uint64
	CreationTime          uint64
	ModificationTime      uint64
	AccessTime            uint64
	EntryModificationTime uint64
	AttributeFlags        uint32
	Attributes            []Attribute
	Children              []*Entry

	index     uint64
	parentIdx uint64
}

// Attribute is one fake MFT attribute.
type Attribute struct {
	Type uint32
	Name string
	Data []byte
}

// Dispatch is the fake native library. Implements native.Dispatch.
type Dispatch struct {
	images map[string]*Image
	refs   map[native.Ref]any
	next   native.Ref

	// FailAllocations makes every constructor report an allocation
	// failure.
	FailAllocations bool
	// FailSprint makes ErrorSprint fail, exercising the enrichment
	// fallback where only the category code survives.
	FailSprint bool

	frees int
}

type volObj struct {
	img  *Image
	open bool
}

type entryObj struct {
	e      *Entry
	offset int64
}

type attrObj struct {
	a *Attribute
}

type errObj struct {
	code int
	msg  string
}

// NewDispatch creates an empty fake library.
func NewDispatch() *Dispatch {
	return &Dispatch{
		images: make(map[string]*Image),
		refs:   make(map[native.Ref]any),
	}
}

// AddImage registers an image under a source path and assigns entry indexes
// in depth-first order, root first.
func (d *Dispatch) AddImage(path string, img *Image) {
	img.entries = img.entries[:0]
	if img.Root != nil {
		var walk func(e *Entry, parent uint64)
		walk = func(e *Entry, parent uint64) {
			e.index = uint64(len(img.entries))
			e.parentIdx = parent
			img.entries = append(img.entries, e)
			for _, c := range e.Children {
				walk(c, e.index)
			}
		}
		walk(img.Root, 0)
	}
	d.images[path] = img
}

// LiveHandles returns the number of native objects currently allocated,
// including error objects. Zero after a clean open/release round trip.
func (d *Dispatch) LiveHandles() int {
	return len(d.refs)
}

// Frees returns how many destructor calls succeeded.
func (d *Dispatch) Frees() int {
	return d.frees
}

func (d *Dispatch) alloc(v any) native.Ref {
	d.next++
	d.refs[d.next] = v
	return d.next
}

func (d *Dispatch) fail(errOut *native.Ref, code int, format string, args ...any) int {
	*errOut = d.alloc(&errObj{code: code, msg: fmt.Sprintf(format, args...)})
	return native.StatusFailed
}

func (d *Dispatch) volume(ref native.Ref) *volObj {
	v, _ := d.refs[ref].(*volObj)
	return v
}

func (d *Dispatch) entry(ref native.Ref) *entryObj {
	e, _ := d.refs[ref].(*entryObj)
	return e
}

func (d *Dispatch) attribute(ref native.Ref) *attrObj {
	a, _ := d.refs[ref].(*attrObj)
	return a
}

func (d *Dispatch) freeRef(ref *native.Ref, errOut *native.Ref) int {
	if _, ok := d.refs[*ref]; !ok {
		return d.fail(errOut, native.CodeGeneric, "invalid handle %d", *ref)
	}
	delete(d.refs, *ref)
	*ref = 0
	d.frees++
	return native.StatusOK
}

// Volume

func (d *Dispatch) VolumeInitialize(out *native.Ref, errOut *native.Ref) int {
	if d.FailAllocations {
		return d.fail(errOut, native.CodeNoMemory, "unable to allocate volume")
	}
	*out = d.alloc(&volObj{})
	return native.StatusOK
}

func (d *Dispatch) VolumeOpen(vol native.Ref, path string, accessFlags int, errOut *native.Ref) int {
	v := d.volume(vol)
	if v == nil {
		return d.fail(errOut, native.CodeGeneric, "invalid volume handle")
	}
	if accessFlags&native.AccessFlagRead == 0 {
		return d.fail(errOut, native.CodeGeneric, "unsupported access flags 0x%x", accessFlags)
	}
	img, ok := d.images[path]
	if !ok {
		return d.fail(errOut, native.CodeGeneric, "no such file: %s", path)
	}
	if img.Corrupted {
		return d.fail(errOut, native.CodeGeneric, "invalid volume header signature")
	}
	v.img = img
	v.open = true
	return native.StatusOK
}

func (d *Dispatch) VolumeFree(vol *native.Ref, errOut *native.Ref) int {
	return d.freeRef(vol, errOut)
}

func (d *Dispatch) openVolume(vol native.Ref, errOut *native.Ref) (*volObj, int) {
	v := d.volume(vol)
	if v == nil || !v.open {
		return nil, d.fail(errOut, native.CodeGeneric, "volume not open")
	}
	return v, native.StatusOK
}

func (d *Dispatch) VolumeGetUTF8NameSize(vol native.Ref, size *uint64, errOut *native.Ref) int {
	v, st := d.openVolume(vol, errOut)
	if st != native.StatusOK {
		return st
	}
	*size = uint64(len(v.img.VolumeName)) + 1
	return native.StatusOK
}

func (d *Dispatch) VolumeGetUTF8Name(vol native.Ref, buf []byte, errOut *native.Ref) int {
	v, st := d.openVolume(vol, errOut)
	if st != native.StatusOK {
		return st
	}
	return copyCString(v.img.VolumeName, buf, d, errOut)
}

func (d *Dispatch) VolumeGetClusterBlockSize(vol native.Ref, size *uint64, errOut *native.Ref) int {
	v, st := d.openVolume(vol, errOut)
	if st != native.StatusOK {
		return st
	}
	*size = v.img.ClusterBlockSize
	return native.StatusOK
}

func (d *Dispatch) VolumeGetNumberOfFileEntries(vol native.Ref, n *uint64, errOut *native.Ref) int {
	v, st := d.openVolume(vol, errOut)
	if st != native.StatusOK {
		return st
	}
	*n = uint64(len(v.img.entries))
	return native.StatusOK
}

func (d *Dispatch) VolumeGetFileEntryByIndex(vol native.Ref, idx uint64, out *native.Ref, errOut *native.Ref) int {
	v, st := d.openVolume(vol, errOut)
	if st != native.StatusOK {
		return st
	}
	if d.FailAllocations {
		return d.fail(errOut, native.CodeNoMemory, "unable to allocate file entry")
	}
	if idx >= uint64(len(v.img.entries)) {
		return d.fail(errOut, native.CodeNotFound, "no file entry with index %d", idx)
	}
	*out = d.alloc(&entryObj{e: v.img.entries[idx]})
	return native.StatusOK
}

func (d *Dispatch) VolumeGetFileEntryByUTF8Path(vol native.Ref, path string, out *native.Ref, errOut *native.Ref) int {
	v, st := d.openVolume(vol, errOut)
	if st != native.StatusOK {
		return st
	}
	e := v.img.Root
	if e == nil {
		return d.fail(errOut, native.CodeNotFound, "volume has no root directory")
	}
	for _, part := range strings.Split(path, "\\") {
		if part == "" {
			continue
		}
		var next *Entry
		for _, c := range e.Children {
			if c.Name == part {
				next = c
				break
			}
		}
		if next == nil {
			return d.fail(errOut, native.CodeNotFound, "no file entry with path %s", path)
		}
		e = next
	}
	*out = d.alloc(&entryObj{e: e})
	return native.StatusOK
}

func (d *Dispatch) VolumeGetRootDirectory(vol native.Ref, out *native.Ref, errOut *native.Ref) int {
	v, st := d.openVolume(vol, errOut)
	if st != native.StatusOK {
		return st
	}
	if v.img.Root == nil {
		return d.fail(errOut, native.CodeNotFound, "volume has no root directory")
	}
	*out = d.alloc(&entryObj{e: v.img.Root})
	return native.StatusOK
}

// File entry

func (d *Dispatch) FileEntryFree(entry *native.Ref, errOut *native.Ref) int {
	return d.freeRef(entry, errOut)
}

func (d *Dispatch) reqEntry(entry native.Ref, errOut *native.Ref) (*entryObj, int) {
	e := d.entry(entry)
	if e == nil {
		return nil, d.fail(errOut, native.CodeGeneric, "invalid file entry handle")
	}
	return e, native.StatusOK
}

func (d *Dispatch) FileEntryGetSize(entry native.Ref, size *uint64, errOut *native.Ref) int {
	e, st := d.reqEntry(entry, errOut)
	if st != native.StatusOK {
		return st
	}
	if e.e.Data != nil {
		*size = uint64(len(e.e.Data))
	} else {
		*size = e.e.Size
	}
	return native.StatusOK
}

func (d *Dispatch) FileEntryGetCreationTime(entry native.Ref, filetime *uint64, errOut *native.Ref) int {
	e, st := d.reqEntry(entry, errOut)
	if st != native.StatusOK {
		return st
	}
	*filetime = e.e.CreationTime
	return native.StatusOK
}

func (d *Dispatch) FileEntryGetModificationTime(entry native.Ref, filetime *uint64, errOut *native.Ref) int {
	e, st := d.reqEntry(entry, errOut)
	if st != native.StatusOK {
		return st
	}
	*filetime = e.e.ModificationTime
	return native.StatusOK
}

func (d *Dispatch) FileEntryGetAccessTime(entry native.Ref, filetime *uint64, errOut *native.Ref) int {
	e, st := d.reqEntry(entry, errOut)
	if st != native.StatusOK {
		return st
	}
	*filetime = e.e.AccessTime
	return native.StatusOK
}

func (d *Dispatch) FileEntryGetEntryModificationTime(entry native.Ref, filetime *uint64, errOut *native.Ref) int {
	e, st := d.reqEntry(entry, errOut)
	if st != native.StatusOK {
		return st
	}
	*filetime = e.e.EntryModificationTime
	return native.StatusOK
}

func (d *Dispatch) FileEntryGetFileAttributeFlags(entry native.Ref, flags *uint32, errOut *native.Ref) int {
	e, st := d.reqEntry(entry, errOut)
	if st != native.StatusOK {
		return st
	}
	*flags = e.e.AttributeFlags
	return native.StatusOK
}

func (d *Dispatch) FileEntryGetFileReference(entry native.Ref, fileRef *uint64, errOut *native.Ref) int {
	e, st := d.reqEntry(entry, errOut)
	if st != native.StatusOK {
		return st
	}
	*fileRef = e.e.index
	return native.StatusOK
}

func (d *Dispatch) FileEntryGetParentFileReference(entry native.Ref, fileRef *uint64, errOut *native.Ref) int {
	e, st := d.reqEntry(entry, errOut)
	if st != native.StatusOK {
		return st
	}
	*fileRef = e.e.parentIdx
	return native.StatusOK
}

func (d *Dispatch) FileEntryGetUTF8NameSize(entry native.Ref, size *uint64, errOut *native.Ref) int {
	e, st := d.reqEntry(entry, errOut)
	if st != native.StatusOK {
		return st
	}
	*size = uint64(len(e.e.Name)) + 1
	return native.StatusOK
}

func (d *Dispatch) FileEntryGetUTF8Name(entry native.Ref, buf []byte, errOut *native.Ref) int {
	e, st := d.reqEntry(entry, errOut)
	if st != native.StatusOK {
		return st
	}
	return copyCString(e.e.Name, buf, d, errOut)
}

func (d *Dispatch) FileEntryGetNumberOfAttributes(entry native.Ref, n *int, errOut *native.Ref) int {
	e, st := d.reqEntry(entry, errOut)
	if st != native.StatusOK {
		return st
	}
	*n = len(e.e.Attributes)
	return native.StatusOK
}

func (d *Dispatch) FileEntryGetAttributeByIndex(entry native.Ref, idx int, out *native.Ref, errOut *native.Ref) int {
	e, st := d.reqEntry(entry, errOut)
	if st != native.StatusOK {
		return st
	}
	if idx < 0 || idx >= len(e.e.Attributes) {
		return d.fail(errOut, native.CodeNotFound, "no attribute with index %d", idx)
	}
	*out = d.alloc(&attrObj{a: &e.e.Attributes[idx]})
	return native.StatusOK
}

func (d *Dispatch) FileEntryGetNumberOfSubFileEntries(entry native.Ref, n *int, errOut *native.Ref) int {
	e, st := d.reqEntry(entry, errOut)
	if st != native.StatusOK {
		return st
	}
	*n = len(e.e.Children)
	return native.StatusOK
}

func (d *Dispatch) FileEntryGetSubFileEntryByIndex(entry native.Ref, idx int, out *native.Ref, errOut *native.Ref) int {
	e, st := d.reqEntry(entry, errOut)
	if st != native.StatusOK {
		return st
	}
	if idx < 0 || idx >= len(e.e.Children) {
		return d.fail(errOut, native.CodeNotFound, "no sub file entry with index %d", idx)
	}
	*out = d.alloc(&entryObj{e: e.e.Children[idx]})
	return native.StatusOK
}

func (d *Dispatch) FileEntryGetSubFileEntryByUTF8Name(entry native.Ref, name string, out *native.Ref, errOut *native.Ref) int {
	e, st := d.reqEntry(entry, errOut)
	if st != native.StatusOK {
		return st
	}
	for _, c := range e.e.Children {
		if c.Name == name {
			*out = d.alloc(&entryObj{e: c})
			return native.StatusOK
		}
	}
	return d.fail(errOut, native.CodeNotFound, "no sub file entry with name %s", name)
}

func (d *Dispatch) FileEntryReadBuffer(entry native.Ref, buf []byte, errOut *native.Ref) int64 {
	e := d.entry(entry)
	if e == nil {
		d.fail(errOut, native.CodeGeneric, "invalid file entry handle")
		return -1
	}
	if e.offset >= int64(len(e.e.Data)) {
		return 0
	}
	n := copy(buf, e.e.Data[e.offset:])
	e.offset += int64(n)
	return int64(n)
}

func (d *Dispatch) FileEntryReadBufferAtOffset(entry native.Ref, buf []byte, offset int64, errOut *native.Ref) int64 {
	e := d.entry(entry)
	if e == nil {
		d.fail(errOut, native.CodeGeneric, "invalid file entry handle")
		return -1
	}
	if offset < 0 || offset > int64(len(e.e.Data)) {
		d.fail(errOut, native.CodeGeneric, "offset %d out of bounds", offset)
		return -1
	}
	return int64(copy(buf, e.e.Data[offset:]))
}

func (d *Dispatch) FileEntrySeekOffset(entry native.Ref, offset int64, whence int, errOut *native.Ref) int64 {
	e := d.entry(entry)
	if e == nil {
		d.fail(errOut, native.CodeGeneric, "invalid file entry handle")
		return -1
	}
	var base int64
	switch whence {
	case native.SeekSet:
		base = 0
	case native.SeekCur:
		base = e.offset
	case native.SeekEnd:
		base = int64(len(e.e.Data))
	default:
		d.fail(errOut, native.CodeGeneric, "invalid whence %d", whence)
		return -1
	}
	pos := base + offset
	if pos < 0 {
		d.fail(errOut, native.CodeGeneric, "negative seek offset %d", pos)
		return -1
	}
	e.offset = pos
	return pos
}

func (d *Dispatch) FileEntryGetOffset(entry native.Ref, offset *int64, errOut *native.Ref) int {
	e, st := d.reqEntry(entry, errOut)
	if st != native.StatusOK {
		return st
	}
	*offset = e.offset
	return native.StatusOK
}

// Attribute

func (d *Dispatch) AttributeFree(attr *native.Ref, errOut *native.Ref) int {
	return d.freeRef(attr, errOut)
}

func (d *Dispatch) reqAttr(attr native.Ref, errOut *native.Ref) (*attrObj, int) {
	a := d.attribute(attr)
	if a == nil {
		return nil, d.fail(errOut, native.CodeGeneric, "invalid attribute handle")
	}
	return a, native.StatusOK
}

func (d *Dispatch) AttributeGetType(attr native.Ref, attrType *uint32, errOut *native.Ref) int {
	a, st := d.reqAttr(attr, errOut)
	if st != native.StatusOK {
		return st
	}
	*attrType = a.a.Type
	return native.StatusOK
}

func (d *Dispatch) AttributeGetUTF8NameSize(attr native.Ref, size *uint64, errOut *native.Ref) int {
	a, st := d.reqAttr(attr, errOut)
	if st != native.StatusOK {
		return st
	}
	*size = uint64(len(a.a.Name)) + 1
	return native.StatusOK
}

func (d *Dispatch) AttributeGetUTF8Name(attr native.Ref, buf []byte, errOut *native.Ref) int {
	a, st := d.reqAttr(attr, errOut)
	if st != native.StatusOK {
		return st
	}
	return copyCString(a.a.Name, buf, d, errOut)
}

func (d *Dispatch) AttributeGetDataSize(attr native.Ref, size *uint64, errOut *native.Ref) int {
	a, st := d.reqAttr(attr, errOut)
	if st != native.StatusOK {
		return st
	}
	*size = uint64(len(a.a.Data))
	return native.StatusOK
}

func (d *Dispatch) AttributeCopyData(attr native.Ref, buf []byte, errOut *native.Ref) int {
	a, st := d.reqAttr(attr, errOut)
	if st != native.StatusOK {
		return st
	}
	if len(buf) < len(a.a.Data) {
		return d.fail(errOut, native.CodeGeneric, "buffer too small: %d < %d", len(buf), len(a.a.Data))
	}
	copy(buf, a.a.Data)
	return native.StatusOK
}

// Error object

func (d *Dispatch) ErrorCode(err native.Ref) int {
	if e, ok := d.refs[err].(*errObj); ok {
		return e.code
	}
	return native.CodeGeneric
}

func (d *Dispatch) ErrorSprint(err native.Ref, buf []byte) int {
	if d.FailSprint {
		return -1
	}
	e, ok := d.refs[err].(*errObj)
	if !ok {
		return -1
	}
	return copy(buf, e.msg)
}

func (d *Dispatch) ErrorFree(err *native.Ref) {
	if _, ok := d.refs[*err]; ok {
		delete(d.refs, *err)
		*err = 0
	}
}

// copyCString writes s plus a terminating NUL, the way the library's
// get_utf8_* calls fill caller buffers.
func copyCString(s string, buf []byte, d *Dispatch, errOut *native.Ref) int {
	if len(buf) < len(s)+1 {
		return d.fail(errOut, native.CodeGeneric, "buffer too small: %d < %d", len(buf), len(s)+1)
	}
	copy(buf, s)
	buf[len(s)] = 0
	return native.StatusOK
}

var _ native.Dispatch = (*Dispatch)(nil)
