package fsntfs

import (
	"io"
	"time"

	"github.com/libyal-go/fsntfs/errors"
	"github.com/libyal-go/fsntfs/handle"
	"github.com/libyal-go/fsntfs/native"
)

// FileEntry is one MFT entry. It implements io.Reader and io.Seeker over the
// entry's default data stream; the stream cursor lives in the native library
// and is shared state of this handle.
type FileEntry struct {
	vol  *Volume
	node *handle.Node
}

func (e *FileEntry) dispatch() native.Dispatch {
	return e.vol.dispatch()
}

// Close releases the file entry handle. Fails with invalid_state while sub
// entries or attributes derived from it are open; closing twice is a no-op.
func (e *FileEntry) Close() error {
	return e.node.Release()
}

func (e *FileEntry) getU64(call func(d native.Dispatch, ref native.Ref, out *uint64, errOut *native.Ref) int) (uint64, error) {
	d := e.dispatch()
	var out uint64
	err := e.node.With(func(ref native.Ref) error {
		var errRef native.Ref
		if call(d, ref, &out, &errRef) != native.StatusOK {
			return native.Translate(d, errors.OpAccess, errRef)
		}
		return nil
	})
	return out, err
}

func (e *FileEntry) getFiletime(call func(d native.Dispatch, ref native.Ref, out *uint64, errOut *native.Ref) int) (time.Time, error) {
	ft, err := e.getU64(call)
	if err != nil {
		return time.Time{}, err
	}
	return FiletimeToTime(ft), nil
}

// Name returns the entry's name. The root directory has an empty name.
func (e *FileEntry) Name() (string, error) {
	d := e.dispatch()
	var name string
	err := e.node.With(func(ref native.Ref) error {
		s, err := native.GetString(d, errors.OpAccess,
			func(size *uint64, errOut *native.Ref) int {
				return d.FileEntryGetUTF8NameSize(ref, size, errOut)
			},
			func(buf []byte, errOut *native.Ref) int {
				return d.FileEntryGetUTF8Name(ref, buf, errOut)
			})
		if err != nil {
			return err
		}
		name = s
		return nil
	})
	return name, err
}

// Size returns the size of the default data stream in bytes.
func (e *FileEntry) Size() (uint64, error) {
	return e.getU64(func(d native.Dispatch, ref native.Ref, out *uint64, errOut *native.Ref) int {
		return d.FileEntryGetSize(ref, out, errOut)
	})
}

// FileReference returns the entry's MFT file reference.
func (e *FileEntry) FileReference() (uint64, error) {
	return e.getU64(func(d native.Dispatch, ref native.Ref, out *uint64, errOut *native.Ref) int {
		return d.FileEntryGetFileReference(ref, out, errOut)
	})
}

// ParentFileReference returns the MFT file reference of the entry's parent.
func (e *FileEntry) ParentFileReference() (uint64, error) {
	return e.getU64(func(d native.Dispatch, ref native.Ref, out *uint64, errOut *native.Ref) int {
		return d.FileEntryGetParentFileReference(ref, out, errOut)
	})
}

// AttributeFlags returns the FILE_ATTRIBUTE_* flags of the entry.
func (e *FileEntry) AttributeFlags() (uint32, error) {
	d := e.dispatch()
	var flags uint32
	err := e.node.With(func(ref native.Ref) error {
		var errRef native.Ref
		if d.FileEntryGetFileAttributeFlags(ref, &flags, &errRef) != native.StatusOK {
			return native.Translate(d, errors.OpAccess, errRef)
		}
		return nil
	})
	return flags, err
}

// CreationTime returns the creation time from $STANDARD_INFORMATION.
func (e *FileEntry) CreationTime() (time.Time, error) {
	return e.getFiletime(func(d native.Dispatch, ref native.Ref, out *uint64, errOut *native.Ref) int {
		return d.FileEntryGetCreationTime(ref, out, errOut)
	})
}

// ModificationTime returns the last data modification time.
func (e *FileEntry) ModificationTime() (time.Time, error) {
	return e.getFiletime(func(d native.Dispatch, ref native.Ref, out *uint64, errOut *native.Ref) int {
		return d.FileEntryGetModificationTime(ref, out, errOut)
	})
}

// AccessTime returns the last access time.
func (e *FileEntry) AccessTime() (time.Time, error) {
	return e.getFiletime(func(d native.Dispatch, ref native.Ref, out *uint64, errOut *native.Ref) int {
		return d.FileEntryGetAccessTime(ref, out, errOut)
	})
}

// EntryModificationTime returns the last MFT entry modification time.
func (e *FileEntry) EntryModificationTime() (time.Time, error) {
	return e.getFiletime(func(d native.Dispatch, ref native.Ref, out *uint64, errOut *native.Ref) int {
		return d.FileEntryGetEntryModificationTime(ref, out, errOut)
	})
}

// SubEntryCount returns the number of sub file entries.
func (e *FileEntry) SubEntryCount() (int, error) {
	d := e.dispatch()
	var n int
	err := e.node.With(func(ref native.Ref) error {
		var errRef native.Ref
		if d.FileEntryGetNumberOfSubFileEntries(ref, &n, &errRef) != native.StatusOK {
			return native.Translate(d, errors.OpAccess, errRef)
		}
		return nil
	})
	return n, err
}

// SubEntry returns the sub file entry at idx. Out-of-range indexes fail with
// not_found.
func (e *FileEntry) SubEntry(idx int) (*FileEntry, error) {
	node, err := e.node.Derive(handle.KindFileEntry, freeFileEntry,
		func(d native.Dispatch, parent native.Ref, out *native.Ref, errOut *native.Ref) int {
			return d.FileEntryGetSubFileEntryByIndex(parent, idx, out, errOut)
		})
	if err != nil {
		return nil, err
	}
	return &FileEntry{vol: e.vol, node: node}, nil
}

// SubEntryByName returns the sub file entry with the given name.
func (e *FileEntry) SubEntryByName(name string) (*FileEntry, error) {
	node, err := e.node.Derive(handle.KindFileEntry, freeFileEntry,
		func(d native.Dispatch, parent native.Ref, out *native.Ref, errOut *native.Ref) int {
			return d.FileEntryGetSubFileEntryByUTF8Name(parent, name, out, errOut)
		})
	if err != nil {
		return nil, err
	}
	return &FileEntry{vol: e.vol, node: node}, nil
}

// AttributeCount returns the number of MFT attributes.
func (e *FileEntry) AttributeCount() (int, error) {
	d := e.dispatch()
	var n int
	err := e.node.With(func(ref native.Ref) error {
		var errRef native.Ref
		if d.FileEntryGetNumberOfAttributes(ref, &n, &errRef) != native.StatusOK {
			return native.Translate(d, errors.OpAccess, errRef)
		}
		return nil
	})
	return n, err
}

// Attribute returns the MFT attribute at idx.
func (e *FileEntry) Attribute(idx int) (*Attribute, error) {
	node, err := e.node.Derive(handle.KindAttribute, freeAttribute,
		func(d native.Dispatch, parent native.Ref, out *native.Ref, errOut *native.Ref) int {
			return d.FileEntryGetAttributeByIndex(parent, idx, out, errOut)
		})
	if err != nil {
		return nil, err
	}
	return &Attribute{vol: e.vol, node: node}, nil
}

// Read reads from the default data stream at the current offset.
func (e *FileEntry) Read(p []byte) (int, error) {
	d := e.dispatch()
	var n int64
	err := e.node.With(func(ref native.Ref) error {
		var errRef native.Ref
		n = d.FileEntryReadBuffer(ref, p, &errRef)
		if n < 0 {
			return native.Translate(d, errors.OpAccess, errRef)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return int(n), nil
}

// ReadAt reads from the default data stream at off without moving the
// stream cursor.
func (e *FileEntry) ReadAt(p []byte, off int64) (int, error) {
	d := e.dispatch()
	var n int64
	err := e.node.With(func(ref native.Ref) error {
		var errRef native.Ref
		n = d.FileEntryReadBufferAtOffset(ref, p, off, &errRef)
		if n < 0 {
			return native.Translate(d, errors.OpAccess, errRef)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if int(n) < len(p) {
		return int(n), io.EOF
	}
	return int(n), nil
}

// Seek moves the default data stream cursor.
func (e *FileEntry) Seek(offset int64, whence int) (int64, error) {
	var nativeWhence int
	switch whence {
	case io.SeekStart:
		nativeWhence = native.SeekSet
	case io.SeekCurrent:
		nativeWhence = native.SeekCur
	case io.SeekEnd:
		nativeWhence = native.SeekEnd
	default:
		return 0, errors.New(errors.OpAccess, errors.KindInvalidState).
			Resource("file_entry").
			Detail("invalid whence %d", whence).
			Build()
	}

	d := e.dispatch()
	var pos int64
	err := e.node.With(func(ref native.Ref) error {
		var errRef native.Ref
		pos = d.FileEntrySeekOffset(ref, offset, nativeWhence, &errRef)
		if pos < 0 {
			return native.Translate(d, errors.OpAccess, errRef)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return pos, nil
}

var (
	_ io.Reader   = (*FileEntry)(nil)
	_ io.ReaderAt = (*FileEntry)(nil)
	_ io.Seeker   = (*FileEntry)(nil)
)
