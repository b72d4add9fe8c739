// Package unpack extracts AAR (Android ARchive, a zip file) contents to
// disk with zip-slip path-traversal defense.
package unpack

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/solarmoff-afk/spawn/internal/errs"
)

// AAR extracts the zip archive at archivePath into destDir. Idempotent:
// if destDir already exists, it returns immediately without re-reading
// the archive.
func AAR(archivePath, destDir string) error {
	if _, err := os.Stat(destDir); err == nil {
		return nil
	}

	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return errs.Wrap(errs.Unpack, archivePath, err)
	}
	defer r.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return errs.Wrap(errs.Unpack, destDir, err)
	}

	for _, f := range r.File {
		name := strings.ReplaceAll(f.Name, `\`, "/")
		target := filepath.Join(destDir, filepath.FromSlash(name))

		if !isDescendant(destDir, target) {
			return errs.New(errs.UnsafeArchivePath, f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return errs.Wrap(errs.Unpack, target, err)
			}
			continue
		}

		if err := extractFile(f, target); err != nil {
			return err
		}
	}

	return nil
}

// isDescendant reports whether target lies within root after both are
// cleaned — the zip-slip guard an extractor must enforce.
func isDescendant(root, target string) bool {
	root = filepath.Clean(root)
	target = filepath.Clean(target)
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errs.Wrap(errs.Unpack, target, err)
	}

	src, err := f.Open()
	if err != nil {
		return errs.Wrap(errs.Unpack, f.Name, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return errs.Wrap(errs.Unpack, target, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return errs.Wrap(errs.Unpack, target, err)
	}
	return nil
}
