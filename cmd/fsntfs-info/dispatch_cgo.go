//go:build fsntfs_cgo

package main

import (
	"github.com/libyal-go/fsntfs/native"
	"github.com/libyal-go/fsntfs/native/cgonative"
)

func staticDispatch() (native.Dispatch, error) {
	return cgonative.New(), nil
}
