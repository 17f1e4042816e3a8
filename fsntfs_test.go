package fsntfs

import (
	"bytes"
	stderrors "errors"
	"io"
	"testing"
	"time"

	"github.com/libyal-go/fsntfs/errors"
	"github.com/libyal-go/fsntfs/native/nativetest"
)

const (
	cleanImage = "/images/clean.dd"
	badImage   = "/images/corrupted.dd"
)

// mftHeader is the start of a FILE record, the bytes the $MFT data stream
// begins with.
var mftHeader = []byte{
	'F', 'I', 'L', 'E', '0', 0, 3, 0, 0xb5, 0x68,
	16, 0, 0, 0, 0, 0, 1, 0, 1, 0,
}

func testDispatch() *nativetest.Dispatch {
	created := TimeToFiletime(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))
	modified := TimeToFiletime(time.Date(2003, 6, 15, 12, 30, 0, 0, time.UTC))

	d := nativetest.NewDispatch()
	d.AddImage(cleanImage, &nativetest.Image{
		VolumeName:       "SYSTEM",
		ClusterBlockSize: 4096,
		Root: &nativetest.Entry{
			Name: "",
			Children: []*nativetest.Entry{
				{
					Name:             "$MFT",
					Data:             mftHeader,
					CreationTime:     created,
					ModificationTime: modified,
					AccessTime:       modified,
					Attributes: []nativetest.Attribute{
						{Type: uint32(AttributeStandardInformation), Data: []byte{0x01, 0x02}},
						{Type: uint32(AttributeData), Data: mftHeader},
					},
				},
				{
					Name: "Windows",
					Children: []*nativetest.Entry{
						{Name: "notepad.exe", Data: []byte{0x4d, 0x5a, 0x90, 0x00}},
					},
				},
			},
		},
	})
	d.AddImage(badImage, &nativetest.Image{Corrupted: true})
	return d
}

func openVolume(t *testing.T) (*Volume, *nativetest.Dispatch) {
	t.Helper()
	d := testDispatch()
	vol, err := Open(cleanImage, WithDispatch(d))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return vol, d
}

func TestOpen_NoDispatch(t *testing.T) {
	_, err := Open(cleanImage)
	if !stderrors.Is(err, errors.ErrInvalidState) {
		t.Fatalf("expected invalid_state, got %v", err)
	}
}

func TestOpen_WellFormedScenario(t *testing.T) {
	vol, d := openVolume(t)
	defer vol.CloseAll()

	name, err := vol.Name()
	if err != nil || name != "SYSTEM" {
		t.Fatalf("volume name = %q, %v", name, err)
	}
	if bs, err := vol.ClusterBlockSize(); err != nil || bs != 4096 {
		t.Fatalf("cluster block size = %d, %v", bs, err)
	}

	root, err := vol.RootDirectory()
	if err != nil {
		t.Fatalf("root directory: %v", err)
	}

	mft, err := root.SubEntryByName("$MFT")
	if err != nil {
		t.Fatalf("sub entry $MFT: %v", err)
	}

	created, err := mft.CreationTime()
	if err != nil {
		t.Fatalf("creation time: %v", err)
	}
	want := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	if !created.Equal(want) {
		t.Fatalf("creation time = %v, want %v", created, want)
	}

	attr, err := mft.Attribute(1)
	if err != nil {
		t.Fatalf("attribute: %v", err)
	}
	typ, err := attr.Type()
	if err != nil || typ != AttributeData {
		t.Fatalf("attribute type = %v, %v", typ, err)
	}
	data, err := attr.Data()
	if err != nil {
		t.Fatalf("attribute data: %v", err)
	}
	if !bytes.Equal(data, mftHeader) {
		t.Fatalf("attribute data = %x, want %x", data, mftHeader)
	}

	for _, c := range []io.Closer{attr, mft, root} {
		if err := c.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}
	if err := vol.Close(); err != nil {
		t.Fatalf("close volume: %v", err)
	}
	if d.LiveHandles() != 0 {
		t.Fatalf("leaked %d native handles", d.LiveHandles())
	}
}

func TestOpen_CorruptedImage(t *testing.T) {
	d := testDispatch()
	_, err := Open(badImage, WithDispatch(d))
	if !stderrors.Is(err, errors.ErrOpenFailed) {
		t.Fatalf("expected open_failed, got %v", err)
	}
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Message == "" {
		t.Fatalf("expected non-empty native message, got %v", err)
	}
	if d.LiveHandles() != 0 {
		t.Fatalf("failed open leaked %d native handles", d.LiveHandles())
	}
}

func TestSubEntry_OutOfRange(t *testing.T) {
	vol, _ := openVolume(t)
	defer vol.CloseAll()

	root, err := vol.RootDirectory()
	if err != nil {
		t.Fatalf("root directory: %v", err)
	}

	_, err = root.SubEntry(99)
	if !stderrors.Is(err, errors.ErrNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
	if stderrors.Is(err, errors.ErrNative) {
		t.Fatal("out-of-range index must not be a generic native error")
	}
}

func TestFileEntry_ReadAndSeek(t *testing.T) {
	vol, _ := openVolume(t)
	defer vol.CloseAll()

	root, _ := vol.RootDirectory()
	mft, err := root.SubEntryByName("$MFT")
	if err != nil {
		t.Fatalf("sub entry: %v", err)
	}

	buf := make([]byte, 10)
	if _, err := io.ReadFull(mft, buf); err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(buf, mftHeader[:10]) {
		t.Fatalf("read %x, want %x", buf, mftHeader[:10])
	}

	if _, err := mft.Seek(10, io.SeekStart); err != nil {
		t.Fatalf("seek: %v", err)
	}
	if _, err := io.ReadFull(mft, buf); err != nil {
		t.Fatalf("read after seek: %v", err)
	}
	if !bytes.Equal(buf, mftHeader[10:20]) {
		t.Fatalf("read %x, want %x", buf, mftHeader[10:20])
	}

	// Past the end: EOF, not a native error.
	if _, err := mft.Read(buf); err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}

	got, err := mft.ReadAt(buf[:4], 0)
	if err != nil && err != io.EOF {
		t.Fatalf("read at: %v", err)
	}
	if got != 4 || !bytes.Equal(buf[:4], mftHeader[:4]) {
		t.Fatalf("read at = %x (%d bytes)", buf[:4], got)
	}
}

func TestFileEntry_ReadToEnd(t *testing.T) {
	vol, _ := openVolume(t)
	defer vol.CloseAll()

	entry, err := vol.FileEntryByPath("\\Windows\\notepad.exe")
	if err != nil {
		t.Fatalf("entry by path: %v", err)
	}
	data, err := io.ReadAll(entry)
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if !bytes.Equal(data, []byte{0x4d, 0x5a, 0x90, 0x00}) {
		t.Fatalf("data = %x", data)
	}

	size, err := entry.Size()
	if err != nil || size != 4 {
		t.Fatalf("size = %d, %v", size, err)
	}
}

func TestVolume_CloseWithOpenEntries(t *testing.T) {
	vol, d := openVolume(t)

	root, err := vol.RootDirectory()
	if err != nil {
		t.Fatalf("root directory: %v", err)
	}

	err = vol.Close()
	if !stderrors.Is(err, errors.ErrInvalidState) {
		t.Fatalf("expected invalid_state, got %v", err)
	}

	// CloseAll is the teardown path and releases children first.
	if err := vol.CloseAll(); err != nil {
		t.Fatalf("close all: %v", err)
	}
	if d.LiveHandles() != 0 {
		t.Fatalf("leaked %d native handles", d.LiveHandles())
	}

	// Both objects are now released; further use is typed, not a crash.
	if _, err := root.Name(); !stderrors.Is(err, errors.ErrUseAfterRelease) {
		t.Fatalf("expected use_after_release, got %v", err)
	}
}

func TestVolume_UseAfterClose(t *testing.T) {
	vol, _ := openVolume(t)

	if err := vol.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := vol.Close(); err != nil {
		t.Fatalf("second close must be a no-op, got %v", err)
	}
	if _, err := vol.Name(); !stderrors.Is(err, errors.ErrUseAfterRelease) {
		t.Fatalf("expected use_after_release, got %v", err)
	}
	if _, err := vol.RootDirectory(); !stderrors.Is(err, errors.ErrInvalidState) {
		t.Fatalf("expected invalid_state, got %v", err)
	}
}

func TestOpen_OutOfMemory(t *testing.T) {
	d := testDispatch()
	d.FailAllocations = true

	_, err := Open(cleanImage, WithDispatch(d))
	if !stderrors.Is(err, errors.ErrOutOfMemory) {
		t.Fatalf("expected out_of_memory, got %v", err)
	}
}

func TestAttributeType_String(t *testing.T) {
	if s := AttributeData.String(); s != "$DATA" {
		t.Fatalf("got %q", s)
	}
	if s := AttributeType(0x42).String(); s != "unknown(0x42)" {
		t.Fatalf("got %q", s)
	}
}
