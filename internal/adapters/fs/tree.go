// Package fs provides file system primitives for moving directory trees
// between the cache and the application.
package fs

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/elixirpack/internal/core/domain"
	"go.trai.ch/zerr"
)

// partialSuffix marks a copy that has not been moved into place yet.
const partialSuffix = ".partial"

// Tree copies, removes and inspects directory trees.
type Tree struct{}

// NewTree creates a new Tree.
func NewTree() *Tree {
	return &Tree{}
}

// Exists reports whether anything exists at path.
func (t *Tree) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// IsDir reports whether path is a directory.
func (t *Tree) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Remove deletes path and everything below it. A missing path is not an error.
func (t *Tree) Remove(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove"), "path", path)
	}
	return nil
}

// Ensure creates dir and its parents when missing.
func (t *Tree) Ensure(dir string) error {
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", dir)
	}
	return nil
}

// Reset removes dir and recreates it empty.
func (t *Tree) Reset(dir string) error {
	if err := t.Remove(dir); err != nil {
		return err
	}
	return t.Ensure(dir)
}

// Replace makes dst an exact copy of the directory src. Whatever dst held before is
// discarded, so the result is never a mix of old and new files. The copy is built
// next to dst and moved into place once complete.
func (t *Tree) Replace(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return copyError(err, src, dst)
	}
	if !info.IsDir() {
		return copyError(domain.ErrNotADirectory, src, dst)
	}

	if err := os.MkdirAll(filepath.Dir(dst), domain.DirPerm); err != nil {
		return copyError(err, src, dst)
	}

	partial := dst + partialSuffix
	if err := os.RemoveAll(partial); err != nil {
		return copyError(err, src, dst)
	}

	if err := copyTree(src, partial); err != nil {
		_ = os.RemoveAll(partial)
		return copyError(err, src, dst)
	}

	if err := os.RemoveAll(dst); err != nil {
		_ = os.RemoveAll(partial)
		return copyError(err, src, dst)
	}

	if err := os.Rename(partial, dst); err != nil {
		_ = os.RemoveAll(partial)
		return copyError(err, src, dst)
	}

	return nil
}

// MakeExecutable adds the execute bits to every regular file directly inside dir.
func (t *Tree) MakeExecutable(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to list directory"), "path", dir)
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to stat file"), "path", entry.Name())
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Chmod(path, info.Mode().Perm()|domain.ExecPerm); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to make file executable"), "path", path)
		}
	}

	return nil
}

// Prune removes every entry of dir whose name is not in keep. A missing dir is not an error.
func (t *Tree) Prune(dir string, keep ...string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to list directory"), "path", dir)
	}

	kept := make(map[string]struct{}, len(keep))
	for _, name := range keep {
		kept[name] = struct{}{}
	}

	for _, entry := range entries {
		if _, ok := kept[entry.Name()]; ok {
			continue
		}
		if err := t.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}

	return nil
}

func copyError(err error, src, dst string) error {
	wrapped := zerr.Wrap(errors.Join(domain.ErrCopyFailed, err), "copy "+filepath.Base(src))
	wrapped = zerr.With(wrapped, "src", src)
	return zerr.With(wrapped, "dst", dst)
}

// copyTree walks src and recreates every directory, regular file and symlink below dst.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			// Owner write access is needed to fill the directory.
			return os.MkdirAll(target, info.Mode().Perm()|0o700)
		case d.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		case d.Type().IsRegular():
			return copyFile(path, target, info.Mode().Perm())
		default:
			// Sockets, devices and pipes have no place in a build cache.
			return nil
		}
	})
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src) //nolint:gosec // paths come from the build layout
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm) //nolint:gosec // paths come from the build layout
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}

	return out.Close()
}
