package fileops

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"

	fsherrors "github.com/FractalWanderer/FileSystemHelper/internal/errors"
)

// ErrModifiedConcurrently means the file changed between read and rename
var ErrModifiedConcurrently = errors.New("file modified concurrently")

// ContentHash is the fingerprint WriteAtomic compares against
func ContentHash(content []byte) uint64 {
	return xxhash.Sum64(content)
}

// WriteAtomic replaces path with content. The data goes to a temp file in
// the same directory, is fsynced, takes the original's permission bits and
// is renamed over the original. Just before the rename the original is
// re-read; if its hash no longer equals expected the write is abandoned
// with ErrModifiedConcurrently. On any failure the original is untouched.
func WriteAtomic(ctx context.Context, path string, content []byte, expected uint64) (err error) {
	info, err := os.Stat(path)
	if err != nil {
		return fsherrors.NewFileError("write", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".fsh-*")
	if err != nil {
		return fsherrors.NewFileError("write", path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(content); err != nil {
		_ = tmp.Close()
		return fsherrors.NewFileError("write", path, err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fsherrors.NewFileError("write", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fsherrors.NewFileError("write", path, err)
	}
	if err = os.Chmod(tmpName, info.Mode().Perm()); err != nil {
		return fsherrors.NewFileError("write", path, err)
	}

	if err = ctx.Err(); err != nil {
		return err
	}

	current, err := os.ReadFile(path)
	if err != nil {
		return fsherrors.NewFileError("write", path, err)
	}
	if ContentHash(current) != expected {
		err = fsherrors.NewFileError("write", path, ErrModifiedConcurrently)
		return err
	}

	if err = os.Rename(tmpName, path); err != nil {
		return fsherrors.NewFileError("write", path, err)
	}
	return nil
}
