// Package metadata parses maven-metadata.xml for two purposes: resolving
// a snapshot version to its concrete timestamped filename, and resolving
// a dynamic version selector (LATEST, RELEASE, or a range) to a concrete
// version.
package metadata

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/solarmoff-afk/spawn/internal/model"
)

// mavenMetadata mirrors the <metadata> document of maven-metadata.xml,
// down to its <versioning> section.
// A struct-tag unmarshal is appropriate here (unlike the POM parser):
// metadata documents are small, flat, and carry no properties/dependency
// sections that need the streaming path-stack treatment the POM parser
// uses.
type mavenMetadata struct {
	XMLName    xml.Name `xml:"metadata"`
	Versioning struct {
		Latest           string `xml:"latest"`
		Release          string `xml:"release"`
		Versions         struct {
			Version []string `xml:"version"`
		} `xml:"versions"`
		SnapshotVersions struct {
			SnapshotVersion []struct {
				Extension string `xml:"extension"`
				Value     string `xml:"value"`
			} `xml:"snapshotVersion"`
		} `xml:"snapshotVersions"`
	} `xml:"versioning"`
}

func parse(r io.Reader) (*mavenMetadata, error) {
	var m mavenMetadata
	if err := xml.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("metadata: xml parse error: %w", err)
	}
	return &m, nil
}

// ResolveSnapshot parses per-version maven-metadata.xml and returns the
// last <snapshotVersion> whose <extension> matches ext (e.g. "jar",
// "aar", "pom"). For example, version "1.2-SNAPSHOT" with a
// snapshotVersion{ext=jar, value=1.2-20240101.120000-3} resolves the jar
// fetch to that timestamped filename.
func ResolveSnapshot(raw []byte, ext string) (string, error) {
	m, err := parse(bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	var match string
	for _, sv := range m.Versioning.SnapshotVersions.SnapshotVersion {
		if sv.Extension == ext {
			match = sv.Value
		}
	}
	if match == "" {
		return "", fmt.Errorf("metadata: no snapshotVersion for extension %q", ext)
	}
	return match, nil
}

// ResolveDynamic parses GA-level maven-metadata.xml and resolves a
// dynamic version selector (LATEST, RELEASE, or a range expression) to a
// concrete version.
func ResolveDynamic(raw []byte, selector string) (string, error) {
	m, err := parse(bytes.NewReader(raw))
	if err != nil {
		return "", err
	}

	switch selector {
	case "LATEST":
		if m.Versioning.Latest == "" {
			return "", fmt.Errorf("metadata: no <latest> entry")
		}
		return m.Versioning.Latest, nil
	case "RELEASE":
		if m.Versioning.Release == "" {
			return "", fmt.Errorf("metadata: no <release> entry")
		}
		return m.Versioning.Release, nil
	}

	rng, err := ParseRange(selector)
	if err != nil {
		return "", err
	}
	var best string
	for _, v := range m.Versioning.Versions.Version {
		if rng.Matches(v) {
			if best == "" || model.CompareVersions(v, best) > 0 {
				best = v
			}
		}
	}
	if best == "" {
		return "", fmt.Errorf("metadata: no version satisfies range %q", selector)
	}
	return best, nil
}
