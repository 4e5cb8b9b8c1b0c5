package ioutils

import (
	"context"
	"os"
	"path/filepath"
)

// WriteFile writes data to path, replacing any existing file.
//
// The data is written to a temporary file in the same directory and renamed
// into place, so an interrupted write never leaves a truncated file under
// the final name. The file is created with mode 0644.
//
// Example:
//
//	err := WriteFile(ctx, ep.Path, audioBytes)
func WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
//
// Example:
//
//	err := EnsureDir("/podcasts/The Encore/Episode_1")
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
