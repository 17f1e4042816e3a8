package wazeronative

import (
	"context"
	"testing"
)

func TestNew_RejectsInvalidModule(t *testing.T) {
	_, err := New(context.Background(), []byte("not wasm"), nil)
	if err == nil {
		t.Fatal("expected compile error for invalid module bytes")
	}
}

func TestNew_RejectsModuleWithoutExports(t *testing.T) {
	// Smallest valid module: magic and version, nothing else. It compiles
	// but exports neither memory nor the library entry points.
	empty := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	_, err := New(context.Background(), empty, nil)
	if err == nil {
		t.Fatal("expected error for module without required exports")
	}
}
