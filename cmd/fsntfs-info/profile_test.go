package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	content := "image: /data/ntfs.img\nwasm: /opt/libfsntfs.wasm\nverbose: true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := loadProfile(path)
	if err != nil {
		t.Fatal(err)
	}
	if p.Image != "/data/ntfs.img" || p.Wasm != "/opt/libfsntfs.wasm" || !p.Verbose {
		t.Fatalf("profile = %+v", p)
	}
}

func TestLoadProfile_Empty(t *testing.T) {
	p, err := loadProfile("")
	if err != nil {
		t.Fatal(err)
	}
	if p.Image != "" || p.Wasm != "" || p.Verbose {
		t.Fatalf("expected zero profile, got %+v", p)
	}
}

func TestProfileMerge_FlagsWin(t *testing.T) {
	p := &profile{Image: "file.img", Wasm: "lib.wasm"}
	p.merge("other.img", "", true)
	if p.Image != "other.img" {
		t.Fatalf("image = %q", p.Image)
	}
	if p.Wasm != "lib.wasm" {
		t.Fatalf("wasm = %q", p.Wasm)
	}
	if !p.Verbose {
		t.Fatal("verbose not merged")
	}
}
