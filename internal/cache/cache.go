// Package cache implements spawn's content-addressed local artifact
// cache: $HOME/.spawn/repository, laid out in Maven 2 repository
// convention.
package cache

import (
	"path"
	"path/filepath"

	"github.com/solarmoff-afk/spawn/internal/fsx"
	"github.com/solarmoff-afk/spawn/internal/model"
)

// Cache is the local, content-addressed artifact store rooted at
// <home>/.spawn/repository. It is read/written through an fsx.FS so the
// resolver and its tests never need a real disk.
type Cache struct {
	root string
	fs   fsx.FS
}

// New builds a Cache rooted at root (typically $HOME/.spawn/repository,
// computed once at startup — the core never re-reads $HOME after
// construction).
func New(root string, fs fsx.FS) *Cache {
	return &Cache{root: root, fs: fs}
}

// Root returns the cache root directory.
func (c *Cache) Root() string { return c.root }

// Path returns the absolute on-disk path for a cache-relative path (as
// returned by model.Artifact.RelativePath/VersionMetadataPath/etc).
func (c *Cache) Path(relative string) string {
	return filepath.Join(c.root, filepath.FromSlash(relative))
}

// Exists reports whether the given cache-relative path is present.
func (c *Cache) Exists(relative string) bool {
	return c.fs.Exists(c.Path(relative))
}

// Size returns the size in bytes of a cached file.
func (c *Cache) Size(relative string) (int64, error) {
	return c.fs.Size(c.Path(relative))
}

// Read returns the bytes of a cached file.
func (c *Cache) Read(relative string) ([]byte, error) {
	return c.fs.ReadFile(c.Path(relative))
}

// Write stores data at a cache-relative path, creating parent
// directories as needed.
func (c *Cache) Write(relative string, data []byte) error {
	return c.fs.WriteFile(c.Path(relative), data)
}

// WriteAtomic stores data under a ".part" suffix and renames it into
// place, so a concurrent reader of relative never observes a truncated
// download — the fetcher's download-to-temp-then-rename discipline.
func (c *Cache) WriteAtomic(relative string, data []byte) error {
	finalPath := c.Path(relative)
	partPath := finalPath + ".part"
	if err := c.fs.WriteFile(partPath, data); err != nil {
		return err
	}
	return c.fs.Rename(partPath, finalPath)
}

// Remove deletes a cached file, used to evict corrupt metadata (a
// metadata file under 256 bytes is treated as corrupt).
func (c *Cache) Remove(relative string) error {
	return c.fs.Remove(c.Path(relative))
}

// ArtifactFileExists reports whether either the .aar or .jar for a
// resolved artifact exists in the cache and is at least minBytes long —
// the post-resolution verification step.
func (c *Cache) ArtifactFileExists(a model.Artifact, minBytes int64) bool {
	for _, ext := range []string{"aar", "jar"} {
		rel := a.RelativePath(ext)
		if !c.Exists(rel) {
			continue
		}
		size, err := c.Size(rel)
		if err == nil && size >= minBytes {
			return true
		}
	}
	return false
}

// UnpackedDir returns the directory an AAR's contents are (or would be)
// unpacked into: <g/n/v>/unpacked.
func (c *Cache) UnpackedDir(a model.Artifact) string {
	return c.Path(path.Join(path.Dir(a.RelativePath("aar")), "unpacked"))
}
