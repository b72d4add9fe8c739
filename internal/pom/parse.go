// Package pom parses Maven pom.xml documents (internal/pom.Parse) and
// builds the effective POM for an artifact — parent inheritance, BOM
// import expansion and property interpolation (internal/pom.BuildEffective).
package pom

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/solarmoff-afk/spawn/internal/model"
)

// Parse reads a pom.xml document with a streaming token scan: a path
// stack of element local-names, collecting text
// under project/properties/*, project/parent/*, project/repositories/
// repository/url, and dependency entries under project/dependencies and
// project/dependencyManagement/dependencies, emitted on each
// <dependency>'s END event. It does not interpolate properties or apply
// parent data — see BuildEffective for that.
func Parse(r io.Reader) (*model.Pom, error) {
	dec := xml.NewDecoder(r)
	p := &model.Pom{Properties: map[string]string{}}

	var stack []string
	var text strings.Builder

	var curDep struct {
		groupID, artifactID, version, scope, depType string
		inManagement                                 bool
	}
	var parentGroup, parentArtifact, parentVersion string

	path := func() string { return strings.Join(stack, "/") }
	// inDeps reports whether the element currently closing is a direct
	// child of a <dependency> frame, by checking the parent frame rather
	// than the full path — at the child's own END event the stack still
	// holds the child itself, so comparing the full path to the
	// dependency path would never match.
	inDeps := func() bool {
		if len(stack) < 2 {
			return false
		}
		parent := strings.Join(stack[:len(stack)-1], "/")
		return parent == "project/dependencies/dependency" || parent == "project/dependencyManagement/dependencies/dependency"
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("pom: xml parse error: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name.Local)
			text.Reset()
			if path() == "project/dependencyManagement/dependencies/dependency" {
				curDep = struct {
					groupID, artifactID, version, scope, depType string
					inManagement                                 bool
				}{inManagement: true}
			} else if path() == "project/dependencies/dependency" {
				curDep.groupID, curDep.artifactID, curDep.version, curDep.scope, curDep.depType = "", "", "", "", ""
				curDep.inManagement = false
			}

		case xml.CharData:
			text.Write(t)

		case xml.EndElement:
			cur := path()
			value := text.String()
			text.Reset()

			switch {
			case len(stack) >= 2 && stack[len(stack)-2] == "properties" && cur == "project/properties/"+t.Name.Local:
				p.Properties[t.Name.Local] = value

			case cur == "project/parent/groupId":
				parentGroup = value
			case cur == "project/parent/artifactId":
				parentArtifact = value
			case cur == "project/parent/version":
				parentVersion = value

			case cur == "project/repositories/repository/url":
				p.Repositories = append(p.Repositories, value)

			case inDeps() && t.Name.Local == "groupId":
				curDep.groupID = value
			case inDeps() && t.Name.Local == "artifactId":
				curDep.artifactID = value
			case inDeps() && t.Name.Local == "version":
				curDep.version = value
			case inDeps() && t.Name.Local == "scope":
				curDep.scope = value
			case inDeps() && t.Name.Local == "type":
				curDep.depType = value

			case cur == "project/dependencies/dependency" || cur == "project/dependencyManagement/dependencies/dependency":
				if curDep.groupID != "" && curDep.artifactID != "" && curDep.artifactID != "*" {
					art, err := model.New(curDep.groupID, curDep.artifactID, curDep.version)
					if err != nil {
						stack = stack[:len(stack)-1]
						continue
					}
					entry := model.DependencyEntry{
						Artifact: art,
						Scope:    model.Scope(curDep.scope),
						Type:     model.DepType(curDep.depType),
					}
					if curDep.inManagement {
						p.DepManagement = append(p.DepManagement, entry)
					} else {
						p.Dependencies = append(p.Dependencies, entry)
					}
				}
			}

			stack = stack[:len(stack)-1]
		}
	}

	if parentGroup != "" && parentArtifact != "" && parentVersion != "" {
		if art, err := model.New(parentGroup, parentArtifact, parentVersion); err == nil {
			p.Parent = &art
		}
	}

	return p, nil
}
