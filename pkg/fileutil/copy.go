package fileutil

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/thoreinstein/ccm/internal/errors"
)

// CopyFile copies a single regular file, preserving its mode bits.
// Parent directories of dst are created as needed.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "opening source file %s", src)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return errors.Wrapf(err, "stating source file %s", src)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", dst)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errors.Wrapf(err, "creating destination file %s", dst)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Wrapf(err, "copying %s to %s", src, dst)
	}
	if err := out.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", dst)
	}
	return nil
}

// CopyDir recursively copies the tree rooted at src into dst, creating dst
// if needed. Symlinks are recreated as links rather than followed.
func CopyDir(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return errors.Wrapf(err, "stating %s", src)
	}
	if !info.IsDir() {
		return errors.Newf("%s is not a directory", src)
	}
	if err := os.MkdirAll(dst, info.Mode().Perm()|0o700); err != nil {
		return errors.Wrapf(err, "creating directory %s", dst)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return errors.Wrapf(err, "reading directory %s", src)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		switch {
		case entry.Type()&os.ModeSymlink != 0:
			target, err := os.Readlink(srcPath)
			if err != nil {
				return errors.Wrapf(err, "reading symlink %s", srcPath)
			}
			if err := os.Symlink(target, dstPath); err != nil {
				return errors.Wrapf(err, "creating symlink %s", dstPath)
			}
		case entry.IsDir():
			if err := CopyDir(srcPath, dstPath); err != nil {
				return err
			}
		default:
			if err := CopyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReplaceDir replaces dst with a copy of src. The copy is staged in a
// sibling directory and swapped in with renames, so a failed copy leaves dst
// untouched.
func ReplaceDir(src, dst string) error {
	parent := filepath.Dir(dst)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return errors.Wrapf(err, "creating directory %s", parent)
	}

	staging := filepath.Join(parent, ".ccm-staging-"+uuid.NewString())
	if err := CopyDir(src, staging); err != nil {
		_ = os.RemoveAll(staging)
		return err
	}

	var old string
	if _, err := os.Lstat(dst); err == nil {
		old = filepath.Join(parent, ".ccm-old-"+uuid.NewString())
		if err := os.Rename(dst, old); err != nil {
			_ = os.RemoveAll(staging)
			return errors.Wrapf(err, "moving aside %s", dst)
		}
	}

	if err := os.Rename(staging, dst); err != nil {
		if old != "" {
			_ = os.Rename(old, dst)
		}
		_ = os.RemoveAll(staging)
		return errors.Wrapf(err, "installing %s", dst)
	}

	if old != "" {
		if err := os.RemoveAll(old); err != nil {
			return errors.Wrapf(err, "removing previous %s", dst)
		}
	}
	return nil
}
