// Package config loads and merges spawn TOML project files into a
// single model.Project: metadata from the first file, dependencies
// unioned across all files (last writer wins), repositories
// concatenated in declared order, and — when a lone root file is given —
// recursive discovery of module.toml descriptors.
package config

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/solarmoff-afk/spawn/internal/errs"
	"github.com/solarmoff-afk/spawn/internal/model"
	"github.com/solarmoff-afk/spawn/internal/validation"
)

// rawConfig mirrors the TOML shape of §6: kebab-case keys, tables for
// package/sign, flat maps for dependencies.
type rawConfig struct {
	Package      *rawPackage       `toml:"package"`
	Sign         *rawSign          `toml:"sign"`
	Repositories []string          `toml:"repositories"`
	Dependencies map[string]string `toml:"dependencies"`
}

type rawPackage struct {
	Package     string `toml:"package"`
	Version     string `toml:"version"`
	VersionCode int    `toml:"version-code"`
	Label       string `toml:"label"`
	Icon        string `toml:"icon"`
	MinSDK      int    `toml:"min-sdk"`
	TargetSDK   int    `toml:"target-sdk"`
}

type rawSign struct {
	Keystore string `toml:"keystore"`
	Alias    string `toml:"alias"`
}

// Load reads and merges the given configuration file paths into a
// Project. paths must be non-empty; the caller (cmd) enforces that.
func Load(paths []string) (*model.Project, error) {
	if len(paths) == 0 {
		return nil, errs.New(errs.ConfigIO, "no configuration paths given")
	}

	basePath := filepath.Dir(paths[0])

	effectivePaths := paths
	if len(paths) == 1 {
		discovered, err := discoverModules(basePath, paths[0])
		if err != nil {
			return nil, err
		}
		effectivePaths = append([]string{paths[0]}, discovered...)
	}

	project := &model.Project{
		Dependencies: map[string]string{},
		BasePath:     basePath,
		Modules:      effectivePaths,
	}

	for i, p := range effectivePaths {
		raw, err := readAndValidate(p)
		if err != nil {
			return nil, err
		}

		if i == 0 {
			project.Package = toPackageInfo(raw.Package)
			project.Sign = toSignInfo(raw.Sign)
		}

		project.Repositories = append(project.Repositories, raw.Repositories...)
		for k, v := range raw.Dependencies {
			project.Dependencies[k] = v
		}
	}

	return project, nil
}

func readAndValidate(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.ConfigIO, path, err)
	}

	doc, err := validation.Parse(data)
	if err != nil {
		return nil, errs.Wrap(errs.ConfigSyntax, path, err)
	}
	if err := validation.Validate(doc); err != nil {
		return nil, errs.Wrap(errs.ConfigShape, path, err)
	}

	var raw rawConfig
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, errs.Wrap(errs.ConfigSyntax, path, err)
	}
	return &raw, nil
}

func toPackageInfo(p *rawPackage) *model.PackageInfo {
	if p == nil {
		return nil
	}
	return &model.PackageInfo{
		Package:     p.Package,
		Version:     p.Version,
		VersionCode: p.VersionCode,
		Label:       p.Label,
		Icon:        p.Icon,
		MinSDK:      p.MinSDK,
		TargetSDK:   p.TargetSDK,
	}
}

func toSignInfo(s *rawSign) *model.SignInfo {
	if s == nil {
		return nil
	}
	return &model.SignInfo{Keystore: s.Keystore, Alias: s.Alias}
}

// SortedDependencyKeys returns the dependency coordinate keys of a
// Project in sorted order, used by Fingerprint and by callers that want
// deterministic iteration.
func SortedDependencyKeys(deps map[string]string) []string {
	keys := make([]string, 0, len(deps))
	for k := range deps {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
