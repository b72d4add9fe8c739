// Package model holds the data types shared across spawn's resolver,
// cache, fetcher and emitter: Maven coordinates, dependency entries, POMs
// (raw and effective) and the project description produced by the config
// loader.
package model

import (
	"fmt"
	"path"
	"strings"
)

// Artifact is a Maven coordinate: group, name (artifactId) and version.
// Identity for graph and cache purposes is GroupName (group:name); the
// version is what conflict resolution picks among.
type Artifact struct {
	Group   string
	Name    string
	Version string
}

// FromCoords parses "group:name:version[:extra...]" into an Artifact.
// At least three colon-separated parts are required; any parts beyond the
// third (classifier, type) are ignored — this core has no classifier or
// packaging-type support beyond the default.
func FromCoords(coords string) (Artifact, error) {
	parts := strings.Split(coords, ":")
	if len(parts) < 3 {
		return Artifact{}, fmt.Errorf("invalid coordinates %q: need at least group:name:version", coords)
	}
	return New(parts[0], parts[1], parts[2])
}

// New builds and normalizes an Artifact, rejecting the wildcard name "*".
func New(group, name, version string) (Artifact, error) {
	group = strings.TrimSpace(group)
	name = strings.TrimSpace(name)
	version = normalizeVersion(strings.TrimSpace(version))
	if name == "*" {
		return Artifact{}, fmt.Errorf("wildcard artifact name is not constructible: %q", name)
	}
	return Artifact{Group: group, Name: name, Version: version}, nil
}

// normalizeVersion strips one enclosing pair of square brackets, the Maven
// "soft requirement" notation: "[1.6.1]" -> "1.6.1".
func normalizeVersion(v string) string {
	if len(v) >= 2 && strings.HasPrefix(v, "[") && strings.HasSuffix(v, "]") {
		return v[1 : len(v)-1]
	}
	return v
}

// ID returns the group:name identity used for graph nodes and cache
// lookups; the version is not part of it.
func (a Artifact) ID() string {
	return a.Group + ":" + a.Name
}

// Coords renders the full "group:name:version" form.
func (a Artifact) Coords() string {
	return a.Group + ":" + a.Name + ":" + a.Version
}

func (a Artifact) String() string { return a.Coords() }

// IsSnapshot reports whether this is a Maven SNAPSHOT version.
func (a Artifact) IsSnapshot() bool {
	return strings.HasSuffix(a.Version, "-SNAPSHOT")
}

// IsDynamic reports whether the version is a dynamic selector: LATEST,
// RELEASE, or a range expression.
func (a Artifact) IsDynamic() bool {
	v := a.Version
	if v == "LATEST" || v == "RELEASE" {
		return true
	}
	return strings.ContainsAny(v, "[(,")
}

// groupPath renders the group with dots replaced by slashes, the Maven 2
// repository layout convention.
func (a Artifact) groupPath() string {
	return strings.ReplaceAll(a.Group, ".", "/")
}

// RelativePath returns the repository-relative path of the artifact file
// for the given extension: g/n/v/n-v.ext.
func (a Artifact) RelativePath(ext string) string {
	filename := fmt.Sprintf("%s-%s.%s", a.Name, a.Version, ext)
	return path.Join(a.groupPath(), a.Name, a.Version, filename)
}

// VersionMetadataPath returns the per-version maven-metadata.xml path:
// g/n/v/maven-metadata.xml. Used for snapshot timestamp resolution.
func (a Artifact) VersionMetadataPath() string {
	return path.Join(a.groupPath(), a.Name, a.Version, "maven-metadata.xml")
}

// GAMetadataPath returns the GA-level maven-metadata.xml path:
// g/n/maven-metadata.xml. Used for LATEST/RELEASE/range resolution.
func (a Artifact) GAMetadataPath() string {
	return path.Join(a.groupPath(), a.Name, "maven-metadata.xml")
}

// PomRelativePath returns the repository-relative path of this artifact's POM.
func (a Artifact) PomRelativePath() string {
	return a.RelativePath("pom")
}
