package config

import (
	"io/fs"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/solarmoff-afk/spawn/internal/errs"
)

// moduleFileName is the descriptor name module discovery looks for in
// every subdirectory of the project.
const moduleFileName = "module.toml"

// discoverIgnore keeps module discovery out of build output and cache
// directories, the same doublestar-glob exclude idea a gitignore walker
// uses, reapplied to a fixed list instead of parsed .gitignore patterns
// since a build tree has no such file.
var discoverIgnore = []string{
	".git/**",
	".spawn/**",
	"**/build/**",
	"**/.gradle/**",
}

// discoverModules walks basePath recursively and returns every
// module.toml found, excluding rootPath itself.
func discoverModules(basePath, rootPath string) ([]string, error) {
	var found []string
	rootAbs, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, errs.Wrap(errs.ConfigIO, rootPath, err)
	}

	walkErr := filepath.WalkDir(basePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(basePath, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && isIgnored(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Name() != moduleFileName {
			return nil
		}
		abs, absErr := filepath.Abs(path)
		if absErr != nil {
			return absErr
		}
		if abs == rootAbs {
			return nil
		}
		found = append(found, path)
		return nil
	})
	if walkErr != nil {
		return nil, errs.Wrap(errs.ConfigIO, basePath, walkErr)
	}
	return found, nil
}

func isIgnored(relPath string) bool {
	for _, pattern := range discoverIgnore {
		if matched, err := doublestar.Match(pattern, relPath); err == nil && matched {
			return true
		}
	}
	return false
}
