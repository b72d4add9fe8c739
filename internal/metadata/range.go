package metadata

import (
	"fmt"
	"strings"

	"github.com/solarmoff-afk/spawn/internal/model"
)

// Range is a Maven dynamic version range: either bound may be unset
// (unbounded), and each bound is independently inclusive or exclusive.
// Grammar: "[lo,hi]", "[lo,hi)", "(lo,hi]", "(lo,hi)".
type Range struct {
	exact       string // non-empty for a bare version (exact match, no brackets)
	lo, hi      string
	loInclusive bool
	hiInclusive bool
}

// ParseRange parses a range expression or a bare version (treated as an
// exact-match "range").
func ParseRange(selector string) (Range, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return Range{}, fmt.Errorf("metadata: empty version range")
	}

	first := selector[0]
	last := selector[len(selector)-1]
	isBracket := func(c byte) bool { return c == '[' || c == '(' }
	isCloseBracket := func(c byte) bool { return c == ']' || c == ')' }

	if !isBracket(first) || !isCloseBracket(last) {
		return Range{exact: selector}, nil
	}

	inner := selector[1 : len(selector)-1]
	parts := strings.SplitN(inner, ",", 2)
	if len(parts) != 2 {
		return Range{}, fmt.Errorf("metadata: invalid range %q: expected lo,hi", selector)
	}

	return Range{
		lo:          strings.TrimSpace(parts[0]),
		hi:          strings.TrimSpace(parts[1]),
		loInclusive: first == '[',
		hiInclusive: last == ']',
	}, nil
}

// Matches reports whether v satisfies the range.
func (r Range) Matches(v string) bool {
	if r.exact != "" {
		return v == r.exact
	}
	if r.lo != "" {
		cmp := model.CompareVersions(v, r.lo)
		if r.loInclusive {
			if cmp < 0 {
				return false
			}
		} else if cmp <= 0 {
			return false
		}
	}
	if r.hi != "" {
		cmp := model.CompareVersions(v, r.hi)
		if r.hiInclusive {
			if cmp > 0 {
				return false
			}
		} else if cmp >= 0 {
			return false
		}
	}
	return true
}
