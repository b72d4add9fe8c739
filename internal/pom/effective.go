package pom

import (
	"fmt"
	"strings"

	"github.com/solarmoff-afk/spawn/internal/model"
)

// Fetcher resolves a POM's raw bytes from the cache/repository chain.
// internal/fetch's Fetcher satisfies this during graph traversal;
// tests can supply a map-backed fake.
type Fetcher interface {
	FetchPom(artifact model.Artifact) ([]byte, error)
}

const maxBomDepth = 8
const maxParentDepth = 16

// BuildEffective builds the effective POM for an artifact: parse, expand
// BOM <import> entries within dependencyManagement
// (repeating until none remain or the depth limit is hit), then recurse
// into the parent if one exists, merging properties (child wins),
// dependencyManagement (child entries first), and repositories
// (concatenated, order preserved).
func BuildEffective(artifact model.Artifact, raw []byte, fetch Fetcher) (*model.EffectivePom, error) {
	return buildEffective(artifact, raw, fetch, 0)
}

func buildEffective(artifact model.Artifact, raw []byte, fetch Fetcher, parentDepth int) (*model.EffectivePom, error) {
	if parentDepth > maxParentDepth {
		return nil, fmt.Errorf("pom: parent chain for %s exceeds depth limit %d", artifact, maxParentDepth)
	}

	parsed, err := Parse(strings.NewReader(string(raw)))
	if err != nil {
		return nil, err
	}
	parsed.Artifact = artifact

	depManagement, err := expandBOMImports(parsed.DepManagement, fetch, 0)
	if err != nil {
		return nil, err
	}

	eff := &model.EffectivePom{
		Artifact:      artifact,
		Properties:    cloneProps(parsed.Properties),
		Dependencies:  parsed.Dependencies,
		DepManagement: depManagement,
		Repositories:  append([]string{}, parsed.Repositories...),
	}

	if parsed.Parent != nil {
		parentRaw, err := fetch.FetchPom(*parsed.Parent)
		if err != nil {
			// Parent unavailable: degrade to the child's own data rather
			// than failing the whole resolution, consistent with the
			// "continue on partial failure" style for non-config/manifest
			// errors.
			return eff, nil
		}
		parentEff, err := buildEffective(*parsed.Parent, parentRaw, fetch, parentDepth+1)
		if err != nil {
			return eff, nil
		}
		merged := map[string]string{}
		for k, v := range parentEff.Properties {
			merged[k] = v
		}
		for k, v := range eff.Properties {
			merged[k] = v
		}
		eff.Properties = merged
		eff.DepManagement = append(eff.DepManagement, parentEff.DepManagement...)
		eff.Repositories = append(eff.Repositories, parentEff.Repositories...)
	}

	return eff, nil
}

// expandBOMImports replaces type=pom,scope=import entries in
// dependencyManagement with the dependencyManagement of the imported POM,
// one level of expansion per pass, repeating until none remain or the
// depth limit is reached.
func expandBOMImports(entries []model.DependencyEntry, fetch Fetcher, depth int) ([]model.DependencyEntry, error) {
	if depth > maxBomDepth {
		return entries, nil
	}

	hasImport := false
	for _, e := range entries {
		if e.IsBOMImport() {
			hasImport = true
			break
		}
	}
	if !hasImport {
		return entries, nil
	}

	expanded := make([]model.DependencyEntry, 0, len(entries))
	for _, e := range entries {
		if !e.IsBOMImport() {
			expanded = append(expanded, e)
			continue
		}
		raw, err := fetch.FetchPom(e.Artifact)
		if err != nil {
			// BOM unreachable: drop it and continue, a network/artifact
			// error rather than a config error.
			continue
		}
		bomPom, err := Parse(strings.NewReader(string(raw)))
		if err != nil {
			continue
		}
		expanded = append(expanded, bomPom.DepManagement...)
	}

	return expandBOMImports(expanded, fetch, depth+1)
}

func cloneProps(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Interpolate resolves a "${...}" placeholder against self's own
// coordinates first (project.groupId / groupId -> self.Group,
// project.version / version -> self.Version), then props. An unresolved
// "${key}" is left as the literal placeholder — the resolver treats an
// empty interpolated version as "unknown, try dependencyManagement",
// not as an error.
func Interpolate(val string, props map[string]string, self model.Artifact) string {
	if !strings.Contains(val, "${") {
		return val
	}
	var out strings.Builder
	rest := val
	for {
		start := strings.Index(rest, "${")
		if start == -1 {
			out.WriteString(rest)
			break
		}
		end := strings.Index(rest[start:], "}")
		if end == -1 {
			out.WriteString(rest)
			break
		}
		end += start
		out.WriteString(rest[:start])
		key := rest[start+2 : end]
		out.WriteString(resolveKey(key, props, self))
		rest = rest[end+1:]
	}
	return out.String()
}

func resolveKey(key string, props map[string]string, self model.Artifact) string {
	switch key {
	case "project.groupId", "groupId":
		return self.Group
	case "project.version", "version":
		return self.Version
	}
	if v, ok := props[key]; ok {
		return v
	}
	return "${" + key + "}"
}
