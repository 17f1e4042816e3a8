package handle

import (
	stderrors "errors"
	"testing"

	"github.com/libyal-go/fsntfs/errors"
	"github.com/libyal-go/fsntfs/native"
	"github.com/libyal-go/fsntfs/native/nativetest"
)

const imagePath = "/images/clean.dd"

func sampleDispatch() *nativetest.Dispatch {
	d := nativetest.NewDispatch()
	d.AddImage(imagePath, &nativetest.Image{
		VolumeName:       "SYSTEM",
		ClusterBlockSize: 4096,
		Root: &nativetest.Entry{
			Name: "",
			Children: []*nativetest.Entry{
				{Name: "pagefile.sys", Data: []byte{0xde, 0xad}},
				{Name: "Windows", Children: []*nativetest.Entry{
					{Name: "notepad.exe", Data: []byte{0x4d, 0x5a}},
				}},
			},
		},
	})
	return d
}

func freeVolume(d native.Dispatch, ref *native.Ref, errOut *native.Ref) int {
	return d.VolumeFree(ref, errOut)
}

func freeEntry(d native.Dispatch, ref *native.Ref, errOut *native.Ref) int {
	return d.FileEntryFree(ref, errOut)
}

func openVolume(path string) OpenFunc {
	return func(d native.Dispatch, out *native.Ref, errOut *native.Ref) int {
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
	}
}

func deriveRoot(d native.Dispatch, parent native.Ref, out *native.Ref, errOut *native.Ref) int {
	return d.VolumeGetRootDirectory(parent, out, errOut)
}

func mustOpen(t *testing.T, tab *Table) *Node {
	t.Helper()
	n, err := tab.Open(KindVolume, freeVolume, openVolume(imagePath))
	if err != nil {
		t.Fatalf("open volume: %v", err)
	}
	return n
}

func TestNode_OpenRelease_NoLeak(t *testing.T) {
	d := sampleDispatch()
	tab := NewTable(d)

	n := mustOpen(t, tab)
	if err := n.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}

	if d.LiveHandles() != 0 {
		t.Fatalf("leaked %d native handles", d.LiveHandles())
	}
	if tab.Len() != 0 {
		t.Fatalf("table still tracks %d nodes", tab.Len())
	}
}

func TestNode_UseAfterRelease(t *testing.T) {
	d := sampleDispatch()
	tab := NewTable(d)
	n := mustOpen(t, tab)

	if err := n.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}

	frees := d.Frees()
	called := false
	err := n.With(func(native.Ref) error {
		called = true
		return nil
	})
	if !stderrors.Is(err, errors.ErrUseAfterRelease) {
		t.Fatalf("expected use_after_release, got %v", err)
	}
	if called {
		t.Fatal("closure ran on a released handle")
	}
	if d.Frees() != frees || d.LiveHandles() != 0 {
		t.Fatal("native layer was reached after release")
	}
}

func TestNode_DoubleRelease(t *testing.T) {
	d := sampleDispatch()
	tab := NewTable(d)
	n := mustOpen(t, tab)

	if err := n.Release(); err != nil {
		t.Fatalf("first release: %v", err)
	}
	if err := n.Release(); err != nil {
		t.Fatalf("second release must be a no-op, got %v", err)
	}
	if d.Frees() != 1 {
		t.Fatalf("native destructor ran %d times", d.Frees())
	}
}

func TestNode_DeriveOnReleasedParent(t *testing.T) {
	d := sampleDispatch()
	tab := NewTable(d)
	n := mustOpen(t, tab)

	if err := n.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}

	live := d.LiveHandles()
	_, err := n.Derive(KindFileEntry, freeEntry, deriveRoot)
	if !stderrors.Is(err, errors.ErrInvalidState) {
		t.Fatalf("expected invalid_state, got %v", err)
	}
	if d.LiveHandles() != live {
		t.Fatal("derive reached the native layer on a released parent")
	}
}

func TestNode_ReleaseParentWithLiveChild(t *testing.T) {
	d := sampleDispatch()
	tab := NewTable(d)
	vol := mustOpen(t, tab)

	root, err := vol.Derive(KindFileEntry, freeEntry, deriveRoot)
	if err != nil {
		t.Fatalf("derive root: %v", err)
	}

	err = vol.Release()
	if !stderrors.Is(err, errors.ErrInvalidState) {
		t.Fatalf("expected invalid_state while child live, got %v", err)
	}
	if !vol.Live() {
		t.Fatal("rejected release must leave the parent live")
	}

	if err := root.Release(); err != nil {
		t.Fatalf("release child: %v", err)
	}
	if err := vol.Release(); err != nil {
		t.Fatalf("release parent after child: %v", err)
	}
	if d.LiveHandles() != 0 {
		t.Fatalf("leaked %d native handles", d.LiveHandles())
	}
}

func TestNode_DeriveNotFound(t *testing.T) {
	d := sampleDispatch()
	tab := NewTable(d)
	vol := mustOpen(t, tab)
	defer tab.Close()

	_, err := vol.Derive(KindFileEntry, freeEntry,
		func(d native.Dispatch, parent native.Ref, out *native.Ref, errOut *native.Ref) int {
			return d.VolumeGetFileEntryByIndex(parent, 999, out, errOut)
		})
	if !stderrors.Is(err, errors.ErrNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
	if stderrors.Is(err, errors.ErrNative) {
		t.Fatal("out-of-range index must not surface as a generic native error")
	}
}

func TestTable_OpenFailed(t *testing.T) {
	d := nativetest.NewDispatch()
	d.AddImage("/images/bad.dd", &nativetest.Image{Corrupted: true})
	tab := NewTable(d)

	_, err := tab.Open(KindVolume, freeVolume, openVolume("/images/bad.dd"))
	if !stderrors.Is(err, errors.ErrOpenFailed) {
		t.Fatalf("expected open_failed, got %v", err)
	}

	var e *errors.Error
	if !stderrors.As(err, &e) || e.Message == "" {
		t.Fatalf("expected a non-empty native message, got %v", err)
	}
	if d.LiveHandles() != 0 {
		t.Fatalf("failed open leaked %d native handles", d.LiveHandles())
	}
	if tab.Len() != 0 {
		t.Fatal("no node may exist after a failed open")
	}
}

func TestTable_OpenOutOfMemory(t *testing.T) {
	d := sampleDispatch()
	d.FailAllocations = true
	tab := NewTable(d)

	_, err := tab.Open(KindVolume, freeVolume, openVolume(imagePath))
	if !stderrors.Is(err, errors.ErrOutOfMemory) {
		t.Fatalf("expected out_of_memory, got %v", err)
	}
}

func TestTable_CloseCascadesChildrenFirst(t *testing.T) {
	d := sampleDispatch()
	tab := NewTable(d)
	vol := mustOpen(t, tab)

	root, err := vol.Derive(KindFileEntry, freeEntry, deriveRoot)
	if err != nil {
		t.Fatalf("derive root: %v", err)
	}
	_, err = root.Derive(KindFileEntry, freeEntry,
		func(d native.Dispatch, parent native.Ref, out *native.Ref, errOut *native.Ref) int {
			return d.FileEntryGetSubFileEntryByIndex(parent, 0, out, errOut)
		})
	if err != nil {
		t.Fatalf("derive sub entry: %v", err)
	}

	if err := tab.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if d.LiveHandles() != 0 {
		t.Fatalf("teardown leaked %d native handles", d.LiveHandles())
	}

	// Closed tables accept no further work.
	_, err = tab.Open(KindVolume, freeVolume, openVolume(imagePath))
	if !stderrors.Is(err, errors.ErrInvalidState) {
		t.Fatalf("expected invalid_state after close, got %v", err)
	}
}

func TestTranslate_SprintFailureKeepsCode(t *testing.T) {
	d := sampleDispatch()
	d.FailSprint = true
	tab := NewTable(d)
	vol := mustOpen(t, tab)
	defer tab.Close()

	_, err := vol.Derive(KindFileEntry, freeEntry,
		func(d native.Dispatch, parent native.Ref, out *native.Ref, errOut *native.Ref) int {
			return d.VolumeGetFileEntryByIndex(parent, 999, out, errOut)
		})
	if !stderrors.Is(err, errors.ErrNotFound) {
		t.Fatalf("expected not_found despite failed sprint, got %v", err)
	}
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("expected structured error, got %v", err)
	}
	if e.Message != "" {
		t.Fatalf("message should be empty when sprint fails, got %q", e.Message)
	}
	if e.Code != native.CodeNotFound {
		t.Fatalf("code lost: %d", e.Code)
	}
}
