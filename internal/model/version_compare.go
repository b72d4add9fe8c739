package model

import (
	"strings"

	hashiversion "github.com/hashicorp/go-version"
)

// CompareVersions orders two Maven version strings, returning <0, 0, >0
// the way hashicorp/go-version's Compare does (the same library
// konveyor-analyzer-lsp's java provider uses for version comparison).
// Maven versions are looser than strict semver (bare "4.0", qualifiers
// like "1.2-beta-3" are common), so a version that go-version can't parse
// falls back to a plain lexicographic compare rather than erroring —
// conflict resolution must always produce a deterministic winner.
func CompareVersions(a, b string) int {
	va, errA := hashiversion.NewVersion(a)
	vb, errB := hashiversion.NewVersion(b)
	if errA == nil && errB == nil {
		return va.Compare(vb)
	}
	return strings.Compare(a, b)
}

// MaxVersion returns the greater of two version strings under
// CompareVersions; ties return a.
func MaxVersion(a, b string) string {
	if CompareVersions(b, a) > 0 {
		return b
	}
	return a
}
