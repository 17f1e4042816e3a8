package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/libyal-go/fsntfs"
	"github.com/libyal-go/fsntfs/native"
)

func main() {
	var (
		imagePath   = flag.String("image", "", "Path to NTFS image file")
		wasmPath    = flag.String("wasm", "", "Path to a wasm build of libfsntfs (runtime-loaded backend)")
		profilePath = flag.String("profile", "", "YAML profile with image/backend settings")
		catPath     = flag.String("cat", "", "Dump the data stream of the entry at this path")
		list        = flag.Bool("list", false, "Walk the directory tree and print entry paths")
		interactive = flag.Bool("i", false, "Interactive browser")
		verbose     = flag.Bool("v", false, "Log native calls")
	)
	flag.Parse()

	prof, err := loadProfile(*profilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	prof.merge(*imagePath, *wasmPath, *verbose)

	if prof.Image == "" {
		fmt.Fprintln(os.Stderr, "Usage: fsntfs-info -image <ntfs.img> [-wasm libfsntfs.wasm] [-list] [-cat path] [-i]")
		fmt.Fprintln(os.Stderr, "       fsntfs-info -profile <profile.yaml> [-list] [-cat path] [-i]")
		os.Exit(1)
	}

	if prof.Verbose {
		logger, lerr := zap.NewDevelopment()
		if lerr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", lerr)
			os.Exit(1)
		}
		defer logger.Sync()
		native.SetLogger(logger)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: -i needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(prof); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(prof, *list, *catPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(prof *profile, list bool, catPath string) error {
	vol, cleanup, err := openVolume(prof)
	if err != nil {
		return err
	}
	defer cleanup()

	if catPath != "" {
		return catEntry(vol, catPath)
	}

	if err := printVolumeInfo(vol, prof.Image); err != nil {
		return err
	}
	if list {
		root, err := vol.RootDirectory()
		if err != nil {
			return err
		}
		defer root.Close()
		fmt.Println()
		return walk(root, "")
	}
	return nil
}

func printVolumeInfo(vol *fsntfs.Volume, image string) error {
	name, err := vol.Name()
	if err != nil {
		return err
	}
	blockSize, err := vol.ClusterBlockSize()
	if err != nil {
		return err
	}
	entries, err := vol.FileEntryCount()
	if err != nil {
		return err
	}

	fmt.Printf("Image:              %s\n", image)
	fmt.Printf("Volume name:        %s\n", name)
	fmt.Printf("Cluster block size: %d\n", blockSize)
	fmt.Printf("MFT entries:        %d\n", entries)
	return nil
}

// walk prints the tree under dir depth-first. Every derived entry is closed
// before its parent so the walk never trips the live-children check.
func walk(dir *fsntfs.FileEntry, prefix string) error {
	n, err := dir.SubEntryCount()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		sub, err := dir.SubEntry(i)
		if err != nil {
			return err
		}
		name, err := sub.Name()
		if err != nil {
			sub.Close()
			return err
		}
		path := prefix + "\\" + name
		fmt.Println(path)
		if err := walk(sub, path); err != nil {
			sub.Close()
			return err
		}
		if err := sub.Close(); err != nil {
			return err
		}
	}
	return nil
}

func catEntry(vol *fsntfs.Volume, path string) error {
	// Accept forward slashes on the command line; entry paths are
	// backslash-separated.
	path = strings.ReplaceAll(path, "/", "\\")
	if !strings.HasPrefix(path, "\\") {
		path = "\\" + path
	}

	entry, err := vol.FileEntryByPath(path)
	if err != nil {
		return err
	}
	defer entry.Close()

	_, err = io.Copy(os.Stdout, entry)
	return err
}
