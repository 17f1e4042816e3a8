//go:build !fsntfs_cgo

package main

import (
	"fmt"

	"github.com/libyal-go/fsntfs/native"
)

func staticDispatch() (native.Dispatch, error) {
	return nil, fmt.Errorf("built without the linked library (fsntfs_cgo tag); pass -wasm with a wasm build")
}
