package native_test

import (
	stderrors "errors"
	"testing"

	"github.com/libyal-go/fsntfs/errors"
	"github.com/libyal-go/fsntfs/native"
	"github.com/libyal-go/fsntfs/native/nativetest"
)

func openRaw(t *testing.T, d *nativetest.Dispatch, path string) native.Ref {
	t.Helper()
	var vol, errRef native.Ref
	if d.VolumeInitialize(&vol, &errRef) != native.StatusOK {
		t.Fatal("initialize failed")
	}
	if d.VolumeOpen(vol, path, native.AccessFlagRead, &errRef) != native.StatusOK {
		t.Fatal("open failed")
	}
	return vol
}

func TestGetString_TwoCallConvention(t *testing.T) {
	d := nativetest.NewDispatch()
	d.AddImage("/img", &nativetest.Image{VolumeName: "DATA", Root: &nativetest.Entry{}})
	vol := openRaw(t, d, "/img")

	name, err := native.GetString(d, errors.OpAccess,
		func(size *uint64, errOut *native.Ref) int {
			return d.VolumeGetUTF8NameSize(vol, size, errOut)
		},
		func(buf []byte, errOut *native.Ref) int {
			return d.VolumeGetUTF8Name(vol, buf, errOut)
		})
	if err != nil {
		t.Fatalf("get string: %v", err)
	}
	// The size call includes the NUL; the result must not.
	if name != "DATA" {
		t.Fatalf("name = %q", name)
	}
}

func TestTranslate_FreesErrorObject(t *testing.T) {
	d := nativetest.NewDispatch()
	d.AddImage("/img", &nativetest.Image{Root: &nativetest.Entry{}})
	vol := openRaw(t, d, "/img")

	live := d.LiveHandles()
	var out, errRef native.Ref
	if d.VolumeGetFileEntryByIndex(vol, 42, &out, &errRef) == native.StatusOK {
		t.Fatal("expected failure")
	}
	err := native.Translate(d, errors.OpDerive, errRef)
	if !stderrors.Is(err, errors.ErrNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
	if d.LiveHandles() != live {
		t.Fatal("error object leaked through translation")
	}
}

func TestTranslate_NullErrorRef(t *testing.T) {
	d := nativetest.NewDispatch()
	err := native.Translate(d, errors.OpNativeCall, 0)
	if !stderrors.Is(err, errors.ErrNative) {
		t.Fatalf("expected generic native error, got %v", err)
	}
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Code != native.CodeGeneric {
		t.Fatalf("expected generic code, got %v", err)
	}
}
