package wazeronative

import (
	"github.com/libyal-go/fsntfs/native"
)

// scratch groups the guest-side cells staged for one call so they can be
// freed together.
type scratch struct {
	b    *Backend
	ptrs []uint32
	oom  bool
}

func (b *Backend) newScratch() *scratch { return &scratch{b: b} }

func (s *scratch) cell(n uint32) uint32 {
	if n == 0 {
		n = 1
	}
	p := s.b.alloc(n)
	if p == 0 {
		s.oom = true
		return 0
	}
	s.ptrs = append(s.ptrs, p)
	return p
}

func (s *scratch) str(v string) uint32 {
	p := s.b.allocString(v)
	if p == 0 {
		s.oom = true
		return 0
	}
	s.ptrs = append(s.ptrs, p)
	return p
}

func (s *scratch) release() {
	for _, p := range s.ptrs {
		s.b.freePtr(p)
	}
}

// withErr calls an export whose last parameter is an error out-cell, reading
// any error object back into errOut. The error cell is managed here so every
// dispatch method gets the drain for free.
func (b *Backend) withErr(name string, errOut *native.Ref, args ...uint64) int {
	errCell := b.alloc(ptrSize)
	if errCell == 0 {
		return native.StatusFailed
	}
	defer b.freePtr(errCell)
	st := b.status(name, append(args, uint64(errCell))...)
	if v := b.readU32(errCell); v != 0 && errOut != nil {
		*errOut = native.Ref(v)
	}
	return st
}

// ssizeWithErr is withErr for exports returning ssize_t, 32-bit in a wasm32
// guest.
func (b *Backend) ssizeWithErr(name string, errOut *native.Ref, args ...uint64) int64 {
	errCell := b.alloc(ptrSize)
	if errCell == 0 {
		return -1
	}
	defer b.freePtr(errCell)
	r, ok := b.call(name, append(args, uint64(errCell))...)
	if v := b.readU32(errCell); v != 0 && errOut != nil {
		*errOut = native.Ref(v)
	}
	if !ok {
		return -1
	}
	return int64(int32(r))
}

// off64WithErr is withErr for exports returning a 64-bit offset.
func (b *Backend) off64WithErr(name string, errOut *native.Ref, args ...uint64) int64 {
	errCell := b.alloc(ptrSize)
	if errCell == 0 {
		return -1
	}
	defer b.freePtr(errCell)
	r, ok := b.call(name, append(args, uint64(errCell))...)
	if v := b.readU32(errCell); v != 0 && errOut != nil {
		*errOut = native.Ref(v)
	}
	if !ok {
		return -1
	}
	return int64(r)
}

func (b *Backend) getU64(name string, h native.Ref, out *uint64, errOut *native.Ref) int {
	s := b.newScratch()
	defer s.release()
	cell := s.cell(u64Size)
	if s.oom {
		return native.StatusFailed
	}
	st := b.withErr(name, errOut, uint64(h), uint64(cell))
	if st == native.StatusOK {
		*out = b.readU64(cell)
	}
	return st
}

func (b *Backend) getU32(name string, h native.Ref, out *uint32, errOut *native.Ref) int {
	s := b.newScratch()
	defer s.release()
	cell := s.cell(u32Size)
	if s.oom {
		return native.StatusFailed
	}
	st := b.withErr(name, errOut, uint64(h), uint64(cell))
	if st == native.StatusOK {
		*out = b.readU32(cell)
	}
	return st
}

func (b *Backend) getInt(name string, h native.Ref, out *int, errOut *native.Ref) int {
	s := b.newScratch()
	defer s.release()
	cell := s.cell(u32Size)
	if s.oom {
		return native.StatusFailed
	}
	st := b.withErr(name, errOut, uint64(h), uint64(cell))
	if st == native.StatusOK {
		*out = int(int32(b.readU32(cell)))
	}
	return st
}

// getRef stages a handle out-cell after args and reads the derived handle
// back on success.
func (b *Backend) getRef(name string, out *native.Ref, errOut *native.Ref, args ...uint64) int {
	s := b.newScratch()
	defer s.release()
	cell := s.cell(ptrSize)
	if s.oom {
		return native.StatusFailed
	}
	st := b.withErr(name, errOut, append(args, uint64(cell))...)
	if st == native.StatusOK {
		*out = native.Ref(b.readU32(cell))
	}
	return st
}

// freeRef passes a handle by reference, the C free convention, and writes
// back whatever the guest left in the cell. The guest nulls it on success.
func (b *Backend) freeRef(name string, h *native.Ref, errOut *native.Ref) int {
	s := b.newScratch()
	defer s.release()
	cell := s.cell(ptrSize)
	if s.oom {
		return native.StatusFailed
	}
	b.mem.WriteUint32Le(cell, uint32(*h))
	st := b.withErr(name, errOut, uint64(cell))
	*h = native.Ref(b.readU32(cell))
	return st
}

// copyOut calls a (handle, buffer, size, error) export and copies the guest
// buffer back into buf on success.
func (b *Backend) copyOut(name string, h native.Ref, buf []byte, errOut *native.Ref) int {
	s := b.newScratch()
	defer s.release()
	cell := s.cell(uint32(len(buf)))
	if s.oom {
		return native.StatusFailed
	}
	st := b.withErr(name, errOut, uint64(h), uint64(cell), uint64(len(buf)))
	if st == native.StatusOK {
		data, ok := b.mem.Read(cell, uint32(len(buf)))
		if ok {
			copy(buf, data)
		}
	}
	return st
}

func (b *Backend) VolumeInitialize(out *native.Ref, errOut *native.Ref) int {
	return b.getRef("libfsntfs_volume_initialize", out, errOut)
}

func (b *Backend) VolumeOpen(vol native.Ref, path string, accessFlags int, errOut *native.Ref) int {
	s := b.newScratch()
	defer s.release()
	pathPtr := s.str(path)
	if s.oom {
		return native.StatusFailed
	}
	return b.withErr("libfsntfs_volume_open", errOut,
		uint64(vol), uint64(pathPtr), uint64(uint32(accessFlags)))
}

func (b *Backend) VolumeFree(vol *native.Ref, errOut *native.Ref) int {
	return b.freeRef("libfsntfs_volume_free", vol, errOut)
}

func (b *Backend) VolumeGetUTF8NameSize(vol native.Ref, size *uint64, errOut *native.Ref) int {
	return b.getU64("libfsntfs_volume_get_utf8_name_size", vol, size, errOut)
}

func (b *Backend) VolumeGetUTF8Name(vol native.Ref, buf []byte, errOut *native.Ref) int {
	return b.copyOut("libfsntfs_volume_get_utf8_name", vol, buf, errOut)
}

func (b *Backend) VolumeGetClusterBlockSize(vol native.Ref, size *uint64, errOut *native.Ref) int {
	return b.getU64("libfsntfs_volume_get_cluster_block_size", vol, size, errOut)
}

func (b *Backend) VolumeGetNumberOfFileEntries(vol native.Ref, n *uint64, errOut *native.Ref) int {
	return b.getU64("libfsntfs_volume_get_number_of_file_entries", vol, n, errOut)
}

func (b *Backend) VolumeGetFileEntryByIndex(vol native.Ref, idx uint64, out *native.Ref, errOut *native.Ref) int {
	return b.getRef("libfsntfs_volume_get_file_entry_by_index", out, errOut,
		uint64(vol), idx)
}

func (b *Backend) VolumeGetFileEntryByUTF8Path(vol native.Ref, path string, out *native.Ref, errOut *native.Ref) int {
	s := b.newScratch()
	defer s.release()
	pathPtr := s.str(path)
	if s.oom {
		return native.StatusFailed
	}
	return b.getRef("libfsntfs_volume_get_file_entry_by_utf8_path", out, errOut,
		uint64(vol), uint64(pathPtr), uint64(len(path)))
}

func (b *Backend) VolumeGetRootDirectory(vol native.Ref, out *native.Ref, errOut *native.Ref) int {
	return b.getRef("libfsntfs_volume_get_root_directory", out, errOut, uint64(vol))
}

func (b *Backend) FileEntryFree(entry *native.Ref, errOut *native.Ref) int {
	return b.freeRef("libfsntfs_file_entry_free", entry, errOut)
}

func (b *Backend) FileEntryGetSize(entry native.Ref, size *uint64, errOut *native.Ref) int {
	return b.getU64("libfsntfs_file_entry_get_size", entry, size, errOut)
}

func (b *Backend) FileEntryGetCreationTime(entry native.Ref, filetime *uint64, errOut *native.Ref) int {
	return b.getU64("libfsntfs_file_entry_get_creation_time", entry, filetime, errOut)
}

func (b *Backend) FileEntryGetModificationTime(entry native.Ref, filetime *uint64, errOut *native.Ref) int {
	return b.getU64("libfsntfs_file_entry_get_modification_time", entry, filetime, errOut)
}

func (b *Backend) FileEntryGetAccessTime(entry native.Ref, filetime *uint64, errOut *native.Ref) int {
	return b.getU64("libfsntfs_file_entry_get_access_time", entry, filetime, errOut)
}

func (b *Backend) FileEntryGetEntryModificationTime(entry native.Ref, filetime *uint64, errOut *native.Ref) int {
	return b.getU64("libfsntfs_file_entry_get_entry_modification_time", entry, filetime, errOut)
}

func (b *Backend) FileEntryGetFileAttributeFlags(entry native.Ref, flags *uint32, errOut *native.Ref) int {
	return b.getU32("libfsntfs_file_entry_get_file_attribute_flags", entry, flags, errOut)
}

func (b *Backend) FileEntryGetFileReference(entry native.Ref, fileRef *uint64, errOut *native.Ref) int {
	return b.getU64("libfsntfs_file_entry_get_file_reference", entry, fileRef, errOut)
}

func (b *Backend) FileEntryGetParentFileReference(entry native.Ref, fileRef *uint64, errOut *native.Ref) int {
	return b.getU64("libfsntfs_file_entry_get_parent_file_reference", entry, fileRef, errOut)
}

func (b *Backend) FileEntryGetUTF8NameSize(entry native.Ref, size *uint64, errOut *native.Ref) int {
	return b.getU64("libfsntfs_file_entry_get_utf8_name_size", entry, size, errOut)
}

func (b *Backend) FileEntryGetUTF8Name(entry native.Ref, buf []byte, errOut *native.Ref) int {
	return b.copyOut("libfsntfs_file_entry_get_utf8_name", entry, buf, errOut)
}

func (b *Backend) FileEntryGetNumberOfAttributes(entry native.Ref, n *int, errOut *native.Ref) int {
	return b.getInt("libfsntfs_file_entry_get_number_of_attributes", entry, n, errOut)
}

func (b *Backend) FileEntryGetAttributeByIndex(entry native.Ref, idx int, out *native.Ref, errOut *native.Ref) int {
	return b.getRef("libfsntfs_file_entry_get_attribute_by_index", out, errOut,
		uint64(entry), uint64(uint32(idx)))
}

func (b *Backend) FileEntryGetNumberOfSubFileEntries(entry native.Ref, n *int, errOut *native.Ref) int {
	return b.getInt("libfsntfs_file_entry_get_number_of_sub_file_entries", entry, n, errOut)
}

func (b *Backend) FileEntryGetSubFileEntryByIndex(entry native.Ref, idx int, out *native.Ref, errOut *native.Ref) int {
	return b.getRef("libfsntfs_file_entry_get_sub_file_entry_by_index", out, errOut,
		uint64(entry), uint64(uint32(idx)))
}

func (b *Backend) FileEntryGetSubFileEntryByUTF8Name(entry native.Ref, name string, out *native.Ref, errOut *native.Ref) int {
	s := b.newScratch()
	defer s.release()
	namePtr := s.str(name)
	if s.oom {
		return native.StatusFailed
	}
	return b.getRef("libfsntfs_file_entry_get_sub_file_entry_by_utf8_name", out, errOut,
		uint64(entry), uint64(namePtr), uint64(len(name)))
}

func (b *Backend) FileEntryReadBuffer(entry native.Ref, buf []byte, errOut *native.Ref) int64 {
	s := b.newScratch()
	defer s.release()
	cell := s.cell(uint32(len(buf)))
	if s.oom {
		return -1
	}
	n := b.ssizeWithErr("libfsntfs_file_entry_read_buffer", errOut,
		uint64(entry), uint64(cell), uint64(len(buf)))
	if n > 0 {
		data, ok := b.mem.Read(cell, uint32(n))
		if ok {
			copy(buf, data)
		}
	}
	return n
}

func (b *Backend) FileEntryReadBufferAtOffset(entry native.Ref, buf []byte, offset int64, errOut *native.Ref) int64 {
	s := b.newScratch()
	defer s.release()
	cell := s.cell(uint32(len(buf)))
	if s.oom {
		return -1
	}
	n := b.ssizeWithErr("libfsntfs_file_entry_read_buffer_at_offset", errOut,
		uint64(entry), uint64(cell), uint64(len(buf)), uint64(offset))
	if n > 0 {
		data, ok := b.mem.Read(cell, uint32(n))
		if ok {
			copy(buf, data)
		}
	}
	return n
}

func (b *Backend) FileEntrySeekOffset(entry native.Ref, offset int64, whence int, errOut *native.Ref) int64 {
	return b.off64WithErr("libfsntfs_file_entry_seek_offset", errOut,
		uint64(entry), uint64(offset), uint64(uint32(whence)))
}

func (b *Backend) FileEntryGetOffset(entry native.Ref, offset *int64, errOut *native.Ref) int {
	s := b.newScratch()
	defer s.release()
	cell := s.cell(u64Size)
	if s.oom {
		return native.StatusFailed
	}
	st := b.withErr("libfsntfs_file_entry_get_offset", errOut,
		uint64(entry), uint64(cell))
	if st == native.StatusOK {
		*offset = int64(b.readU64(cell))
	}
	return st
}

func (b *Backend) AttributeFree(attr *native.Ref, errOut *native.Ref) int {
	return b.freeRef("libfsntfs_attribute_free", attr, errOut)
}

func (b *Backend) AttributeGetType(attr native.Ref, attrType *uint32, errOut *native.Ref) int {
	return b.getU32("libfsntfs_attribute_get_type", attr, attrType, errOut)
}

func (b *Backend) AttributeGetUTF8NameSize(attr native.Ref, size *uint64, errOut *native.Ref) int {
	return b.getU64("libfsntfs_attribute_get_utf8_name_size", attr, size, errOut)
}

func (b *Backend) AttributeGetUTF8Name(attr native.Ref, buf []byte, errOut *native.Ref) int {
	return b.copyOut("libfsntfs_attribute_get_utf8_name", attr, buf, errOut)
}

func (b *Backend) AttributeGetDataSize(attr native.Ref, size *uint64, errOut *native.Ref) int {
	return b.getU64("libfsntfs_attribute_get_data_size", attr, size, errOut)
}

func (b *Backend) AttributeCopyData(attr native.Ref, buf []byte, errOut *native.Ref) int {
	return b.copyOut("libfsntfs_attribute_copy_data", attr, buf, errOut)
}

func (b *Backend) ErrorCode(err native.Ref) int {
	return b.status("libcerror_error_code", uint64(err))
}

func (b *Backend) ErrorSprint(err native.Ref, buf []byte) int {
	s := b.newScratch()
	defer s.release()
	cell := s.cell(uint32(len(buf)))
	if s.oom {
		return -1
	}
	n := b.status("libcerror_error_sprint", uint64(err), uint64(cell), uint64(len(buf)))
	if n > 0 {
		data, ok := b.mem.Read(cell, uint32(len(buf)))
		if ok {
			copy(buf, data)
		}
	}
	return n
}

func (b *Backend) ErrorFree(err *native.Ref) {
	s := b.newScratch()
	defer s.release()
	cell := s.cell(ptrSize)
	if s.oom {
		return
	}
	b.mem.WriteUint32Le(cell, uint32(*err))
	b.call("libcerror_error_free", uint64(cell))
	*err = native.Ref(b.readU32(cell))
}
