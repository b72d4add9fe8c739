package config

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/solarmoff-afk/spawn/internal/errs"
	"github.com/solarmoff-afk/spawn/internal/model"
)

// lockRelativePath is where the fingerprint is persisted, relative to a
// Project's base path.
const lockRelativePath = ".spawn/cache/resolve.lock"

// Fingerprint computes the deterministic SHA-256 fingerprint of a
// Project's dependency declarations and repository list: sorted
// dependencies each as "key\0value\0", followed by repositories
// in declared order each terminated by "\0". It is invariant under
// reordering of the dependency map but sensitive to repository order.
func Fingerprint(project *model.Project) string {
	h := sha256.New()
	for _, key := range SortedDependencyKeys(project.Dependencies) {
		h.Write([]byte(key))
		h.Write([]byte{0})
		h.Write([]byte(project.Dependencies[key]))
		h.Write([]byte{0})
	}
	for _, repo := range project.Repositories {
		h.Write([]byte(repo))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// LockPath returns the absolute path of a Project's lock file.
func LockPath(project *model.Project) string {
	return filepath.Join(project.BasePath, filepath.FromSlash(lockRelativePath))
}

// ReadLock returns the persisted fingerprint, or "" if no lock file
// exists yet.
func ReadLock(project *model.Project) (string, error) {
	data, err := os.ReadFile(LockPath(project))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errs.Wrap(errs.ConfigIO, LockPath(project), err)
	}
	return strings.TrimSpace(string(data)), nil
}

// WriteLock persists fingerprint to the Project's lock file, creating
// parent directories as needed.
func WriteLock(project *model.Project, fingerprint string) error {
	path := LockPath(project)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errs.Wrap(errs.ConfigIO, path, err)
	}
	if err := os.WriteFile(path, []byte(fingerprint), 0o644); err != nil {
		return errs.Wrap(errs.ConfigIO, path, err)
	}
	return nil
}
