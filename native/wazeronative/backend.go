package wazeronative

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	"github.com/libyal-go/fsntfs/native"
)

// exportNames lists every guest export the backend requires. Resolution
// happens once at load time so a mismatched build fails fast, not on first
// use.
var exportNames = []string{
	"malloc",
	"free",

	"libfsntfs_volume_initialize",
	"libfsntfs_volume_open",
	"libfsntfs_volume_free",
	"libfsntfs_volume_get_utf8_name_size",
	"libfsntfs_volume_get_utf8_name",
	"libfsntfs_volume_get_cluster_block_size",
	"libfsntfs_volume_get_number_of_file_entries",
	"libfsntfs_volume_get_file_entry_by_index",
	"libfsntfs_volume_get_file_entry_by_utf8_path",
	"libfsntfs_volume_get_root_directory",

	"libfsntfs_file_entry_free",
	"libfsntfs_file_entry_get_size",
	"libfsntfs_file_entry_get_creation_time",
	"libfsntfs_file_entry_get_modification_time",
	"libfsntfs_file_entry_get_access_time",
	"libfsntfs_file_entry_get_entry_modification_time",
	"libfsntfs_file_entry_get_file_attribute_flags",
	"libfsntfs_file_entry_get_file_reference",
	"libfsntfs_file_entry_get_parent_file_reference",
	"libfsntfs_file_entry_get_utf8_name_size",
	"libfsntfs_file_entry_get_utf8_name",
	"libfsntfs_file_entry_get_number_of_attributes",
	"libfsntfs_file_entry_get_attribute_by_index",
	"libfsntfs_file_entry_get_number_of_sub_file_entries",
	"libfsntfs_file_entry_get_sub_file_entry_by_index",
	"libfsntfs_file_entry_get_sub_file_entry_by_utf8_name",
	"libfsntfs_file_entry_read_buffer",
	"libfsntfs_file_entry_read_buffer_at_offset",
	"libfsntfs_file_entry_seek_offset",
	"libfsntfs_file_entry_get_offset",

	"libfsntfs_attribute_free",
	"libfsntfs_attribute_get_type",
	"libfsntfs_attribute_get_utf8_name_size",
	"libfsntfs_attribute_get_utf8_name",
	"libfsntfs_attribute_get_data_size",
	"libfsntfs_attribute_copy_data",

	"libcerror_error_code",
	"libcerror_error_sprint",
	"libcerror_error_free",
}

// Config holds options for loading the wasm build.
type Config struct {
	// Preopens maps guest paths to host directories so VolumeOpen can
	// reach image files through WASI.
	Preopens map[string]string
}

// Backend implements native.Dispatch over a wasm build of the library.
// Like the library itself it is not internally synchronized; the handle
// layer serializes callers.
type Backend struct {
	ctx     context.Context
	runtime wazero.Runtime
	module  api.Module
	fns     map[string]api.Function
	mem     api.Memory
}

// New compiles and instantiates the wasm build of the library.
func New(ctx context.Context, wasmBytes []byte, cfg *Config) (*Backend, error) {
	rt := wazero.NewRuntime(ctx)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("instantiate WASI: %w", err)
	}

	compiled, err := rt.CompileModule(ctx, wasmBytes)
	if err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("compile library module: %w", err)
	}

	modConfig := wazero.NewModuleConfig().WithName("")
	if cfg != nil {
		fsConfig := wazero.NewFSConfig()
		for guest, host := range cfg.Preopens {
			fsConfig = fsConfig.WithDirMount(host, guest)
		}
		modConfig = modConfig.WithFSConfig(fsConfig)
	}

	module, err := rt.InstantiateModule(ctx, compiled, modConfig)
	if err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("instantiate library module: %w", err)
	}

	b := &Backend{
		ctx:     ctx,
		runtime: rt,
		module:  module,
		fns:     make(map[string]api.Function, len(exportNames)),
		mem:     module.Memory(),
	}
	if b.mem == nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("library module exports no memory")
	}

	var missing []string
	for _, name := range exportNames {
		fn := module.ExportedFunction(name)
		if fn == nil {
			missing = append(missing, name)
			continue
		}
		b.fns[name] = fn
	}
	if len(missing) > 0 {
		rt.Close(ctx)
		return nil, fmt.Errorf("library build is missing %d export(s): %v", len(missing), missing)
	}

	return b, nil
}

// Close releases the wazero runtime and everything instantiated in it.
func (b *Backend) Close() error {
	return b.runtime.Close(b.ctx)
}

// call invokes a guest export. A guest trap has no C-level status to map, so
// it is logged and reported as a generic failure.
func (b *Backend) call(name string, args ...uint64) (uint64, bool) {
	results, err := b.fns[name].Call(b.ctx, args...)
	if err != nil {
		native.Logger().Warn("guest call trapped",
			zap.String("function", name),
			zap.Error(err))
		return 0, false
	}
	if len(results) == 0 {
		return 0, true
	}
	return results[0], true
}

// status interprets a call's first result as the library's int status.
func (b *Backend) status(name string, args ...uint64) int {
	r, ok := b.call(name, args...)
	if !ok {
		return native.StatusFailed
	}
	return int(int32(r))
}

// alloc stages n bytes in guest memory, zeroed.
func (b *Backend) alloc(n uint32) uint32 {
	r, ok := b.call("malloc", uint64(n))
	if !ok || r == 0 {
		return 0
	}
	ptr := uint32(r)
	zero := make([]byte, n)
	b.mem.Write(ptr, zero)
	return ptr
}

func (b *Backend) freePtr(ptr uint32) {
	if ptr != 0 {
		b.call("free", uint64(ptr))
	}
}

// allocString stages s plus a terminating NUL in guest memory.
func (b *Backend) allocString(s string) uint32 {
	ptr := b.alloc(uint32(len(s)) + 1)
	if ptr == 0 {
		return 0
	}
	b.mem.Write(ptr, []byte(s))
	return ptr
}

func (b *Backend) readU32(ptr uint32) uint32 {
	v, _ := b.mem.ReadUint32Le(ptr)
	return v
}

func (b *Backend) readU64(ptr uint32) uint64 {
	v, _ := b.mem.ReadUint64Le(ptr)
	return v
}

// cell sizes in a wasm32 guest
const (
	ptrSize = 4
	u32Size = 4
	u64Size = 8
)

var _ native.Dispatch = (*Backend)(nil)
