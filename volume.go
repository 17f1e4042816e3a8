package fsntfs

import (
	"github.com/libyal-go/fsntfs/errors"
	"github.com/libyal-go/fsntfs/handle"
	"github.com/libyal-go/fsntfs/native"
)

// Option configures Open.
type Option func(*openConfig)

type openConfig struct {
	dispatch native.Dispatch
}

// WithDispatch selects the native backend the volume calls through. The
// choice is pure linkage: the API behaves identically over every backend.
func WithDispatch(d native.Dispatch) Option {
	return func(c *openConfig) {
		c.dispatch = d
	}
}

// Volume is an open NTFS volume. It owns the handle table for everything
// derived from it.
type Volume struct {
	table *handle.Table
	node  *handle.Node
}

// Open opens the NTFS volume inside the image at path. The native
// constructor runs in two steps (allocate, then attach to the source); a
// failure in the second step frees the first before the error is returned,
// so a failed Open never leaks.
func Open(path string, opts ...Option) (*Volume, error) {
	var cfg openConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.dispatch == nil {
		return nil, errors.InvalidState(errors.OpOpen, "volume", "no native dispatch configured")
	}

	table := handle.NewTable(cfg.dispatch)
	node, err := table.Open(handle.KindVolume, freeVolume,
		func(d native.Dispatch, out *native.Ref, errOut *native.Ref) int {
			var vol native.Ref
			if d.VolumeInitialize(&vol, errOut) != native.StatusOK {
				return native.StatusFailed
			}
			if d.VolumeOpen(vol, path, native.AccessFlagRead, errOut) != native.StatusOK {
				var ferr native.Ref
				d.VolumeFree(&vol, &ferr)
				if ferr != 0 {
					d.ErrorFree(&ferr)
				}
				return native.StatusFailed
			}
			*out = vol
			return native.StatusOK
		})
	if err != nil {
		return nil, err
	}

	return &Volume{table: table, node: node}, nil
}

func freeVolume(d native.Dispatch, ref *native.Ref, errOut *native.Ref) int {
	return d.VolumeFree(ref, errOut)
}

func freeFileEntry(d native.Dispatch, ref *native.Ref, errOut *native.Ref) int {
	return d.FileEntryFree(ref, errOut)
}

func (v *Volume) dispatch() native.Dispatch {
	return v.table.Dispatch()
}

// Close releases the volume handle. Fails with invalid_state while file
// entries derived from it are still open; closing twice is a no-op.
func (v *Volume) Close() error {
	return v.node.Release()
}

// CloseAll releases every handle derived from the volume, children first,
// then the volume itself. Intended for defer at open scope.
func (v *Volume) CloseAll() error {
	return v.table.Close()
}

// OpenHandles returns the number of live handles in this volume's tree,
// the volume included. Useful as a leak check in callers' tests.
func (v *Volume) OpenHandles() int {
	return v.table.Len()
}

// Name returns the volume label.
func (v *Volume) Name() (string, error) {
	d := v.dispatch()
	var name string
	err := v.node.With(func(ref native.Ref) error {
		s, err := native.GetString(d, errors.OpAccess,
			func(size *uint64, errOut *native.Ref) int {
				return d.VolumeGetUTF8NameSize(ref, size, errOut)
			},
			func(buf []byte, errOut *native.Ref) int {
				return d.VolumeGetUTF8Name(ref, buf, errOut)
			})
		if err != nil {
			return err
		}
		name = s
		return nil
	})
	return name, err
}

// ClusterBlockSize returns the volume's cluster block size in bytes.
func (v *Volume) ClusterBlockSize() (uint64, error) {
	d := v.dispatch()
	var size uint64
	err := v.node.With(func(ref native.Ref) error {
		var errRef native.Ref
		if d.VolumeGetClusterBlockSize(ref, &size, &errRef) != native.StatusOK {
			return native.Translate(d, errors.OpAccess, errRef)
		}
		return nil
	})
	return size, err
}

// FileEntryCount returns the number of MFT entries in the volume.
func (v *Volume) FileEntryCount() (uint64, error) {
	d := v.dispatch()
	var n uint64
	err := v.node.With(func(ref native.Ref) error {
		var errRef native.Ref
		if d.VolumeGetNumberOfFileEntries(ref, &n, &errRef) != native.StatusOK {
			return native.Translate(d, errors.OpAccess, errRef)
		}
		return nil
	})
	return n, err
}

// RootDirectory returns the volume's root directory entry.
func (v *Volume) RootDirectory() (*FileEntry, error) {
	node, err := v.node.Derive(handle.KindFileEntry, freeFileEntry,
		func(d native.Dispatch, parent native.Ref, out *native.Ref, errOut *native.Ref) int {
			return d.VolumeGetRootDirectory(parent, out, errOut)
		})
	if err != nil {
		return nil, err
	}
	return &FileEntry{vol: v, node: node}, nil
}

// FileEntryByIndex returns the file entry with the given MFT index.
func (v *Volume) FileEntryByIndex(idx uint64) (*FileEntry, error) {
	node, err := v.node.Derive(handle.KindFileEntry, freeFileEntry,
		func(d native.Dispatch, parent native.Ref, out *native.Ref, errOut *native.Ref) int {
			return d.VolumeGetFileEntryByIndex(parent, idx, out, errOut)
		})
	if err != nil {
		return nil, err
	}
	return &FileEntry{vol: v, node: node}, nil
}

// FileEntryByPath returns the file entry at path. Path components are
// separated by backslashes, following the library's convention.
func (v *Volume) FileEntryByPath(path string) (*FileEntry, error) {
	node, err := v.node.Derive(handle.KindFileEntry, freeFileEntry,
		func(d native.Dispatch, parent native.Ref, out *native.Ref, errOut *native.Ref) int {
			return d.VolumeGetFileEntryByUTF8Path(parent, path, out, errOut)
		})
	if err != nil {
		return nil, err
	}
	return &FileEntry{vol: v, node: node}, nil
}
