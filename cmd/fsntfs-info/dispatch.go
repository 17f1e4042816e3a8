package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/libyal-go/fsntfs"
	"github.com/libyal-go/fsntfs/native/wazeronative"
)

// guestImageDir is where the image's host directory is preopened inside the
// wasm guest.
const guestImageDir = "/img"

// openVolume picks the backend from the profile and opens the image. The
// returned cleanup closes the volume tree and, for the wasm backend, the
// runtime behind it.
func openVolume(prof *profile) (*fsntfs.Volume, func(), error) {
	if prof.Wasm == "" {
		d, err := staticDispatch()
		if err != nil {
			return nil, nil, err
		}
		vol, err := fsntfs.Open(prof.Image, fsntfs.WithDispatch(d))
		if err != nil {
			return nil, nil, err
		}
		return vol, func() { vol.CloseAll() }, nil
	}

	wasmBytes, err := os.ReadFile(prof.Wasm)
	if err != nil {
		return nil, nil, fmt.Errorf("read wasm build: %w", err)
	}

	hostDir, err := filepath.Abs(filepath.Dir(prof.Image))
	if err != nil {
		return nil, nil, err
	}

	ctx := context.Background()
	backend, err := wazeronative.New(ctx, wasmBytes, &wazeronative.Config{
		Preopens: map[string]string{guestImageDir: hostDir},
	})
	if err != nil {
		return nil, nil, err
	}

	guestPath := guestImageDir + "/" + filepath.Base(prof.Image)
	vol, err := fsntfs.Open(guestPath, fsntfs.WithDispatch(backend))
	if err != nil {
		backend.Close()
		return nil, nil, err
	}
	cleanup := func() {
		vol.CloseAll()
		backend.Close()
	}
	return vol, cleanup, nil
}
