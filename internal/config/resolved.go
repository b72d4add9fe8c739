package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/solarmoff-afk/spawn/internal/errs"
	"github.com/solarmoff-afk/spawn/internal/model"
)

// resolvedRelativePath stores the ResolvedSet a successful run produced,
// alongside the fingerprint lock file. The lock file itself stays
// exactly the bare hex digest; this sibling file is what lets an
// unchanged-fingerprint run reconstruct the ResolvedSet without
// re-deriving the whole transitive closure, rather than guessing it
// back from the declared root versions alone.
const resolvedRelativePath = ".spawn/cache/resolved.json"

func resolvedPath(project *model.Project) string {
	return filepath.Join(project.BasePath, filepath.FromSlash(resolvedRelativePath))
}

// WriteResolvedSet persists a ResolvedSet as id -> coordinates JSON.
func WriteResolvedSet(project *model.Project, set model.ResolvedSet) error {
	out := make(map[string]string, len(set))
	for id, a := range set {
		out[id] = a.Coords()
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return errs.Wrap(errs.ConfigIO, resolvedPath(project), err)
	}
	path := resolvedPath(project)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errs.Wrap(errs.ConfigIO, path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.Wrap(errs.ConfigIO, path, err)
	}
	return nil
}

// ReadResolvedSet loads a previously persisted ResolvedSet. A missing
// file returns an empty set rather than an error: the caller falls back
// to re-resolving in that case.
func ReadResolvedSet(project *model.Project) (model.ResolvedSet, error) {
	data, err := os.ReadFile(resolvedPath(project))
	if err != nil {
		if os.IsNotExist(err) {
			return model.ResolvedSet{}, nil
		}
		return nil, errs.Wrap(errs.ConfigIO, resolvedPath(project), err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errs.Wrap(errs.ConfigIO, resolvedPath(project), err)
	}

	set := make(model.ResolvedSet, len(raw))
	for id, coords := range raw {
		a, err := model.FromCoords(coords)
		if err != nil {
			continue
		}
		set[id] = a
	}
	return set, nil
}
