package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestError_Format(t *testing.T) {
	err := New(OpDerive, KindNotFound).
		Resource("file_entry").
		Detail("no sub entry at index %d", 9).
		Build()

	got := err.Error()
	if !strings.Contains(got, "[derive]") {
		t.Fatalf("missing op in %q", got)
	}
	if !strings.Contains(got, "not_found") {
		t.Fatalf("missing kind in %q", got)
	}
	if !strings.Contains(got, "file_entry") {
		t.Fatalf("missing resource in %q", got)
	}
	if !strings.Contains(got, "index 9") {
		t.Fatalf("missing detail in %q", got)
	}
}

func TestError_NativeDiagnostic(t *testing.T) {
	err := Native(OpOpen, 3, "unable to read volume header")
	got := err.Error()
	if !strings.Contains(got, "native code 3") {
		t.Fatalf("missing code in %q", got)
	}
	if !strings.Contains(got, "unable to read volume header") {
		t.Fatalf("missing message in %q", got)
	}

	// Message enrichment can fail; the code alone must still render.
	bare := Native(OpOpen, 3, "")
	if !strings.Contains(bare.Error(), "native code 3") {
		t.Fatalf("bare code missing in %q", bare.Error())
	}
}

func TestError_IsMatchesKind(t *testing.T) {
	err := OpenFailed("volume", 1, "corrupted image")

	if !stderrors.Is(err, ErrOpenFailed) {
		t.Fatal("expected match on KindOpenFailed")
	}
	if stderrors.Is(err, ErrNotFound) {
		t.Fatal("unexpected match on KindNotFound")
	}

	// Target with Op set narrows the match.
	if !stderrors.Is(err, &Error{Op: OpOpen, Kind: KindOpenFailed}) {
		t.Fatal("expected match on op+kind")
	}
	if stderrors.Is(err, &Error{Op: OpRelease, Kind: KindOpenFailed}) {
		t.Fatal("unexpected match on wrong op")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := New(OpNativeCall, KindNative).Cause(cause).Build()

	if !stderrors.Is(err, cause) {
		t.Fatal("expected cause to unwrap")
	}
}

func TestError_Sentinels(t *testing.T) {
	cases := []struct {
		err  *Error
		want *Error
	}{
		{UseAfterRelease("volume"), ErrUseAfterRelease},
		{InvalidState(OpRelease, "volume", "live children"), ErrInvalidState},
		{NotFound("file_entry", "index 4"), ErrNotFound},
		{OutOfMemory(OpOpen, 2, ""), ErrOutOfMemory},
	}
	for _, c := range cases {
		if !stderrors.Is(c.err, c.want) {
			t.Fatalf("%v does not match %v", c.err, c.want)
		}
	}
}
