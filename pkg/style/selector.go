// Package style maps theme identifiers to concrete style sheets: ordered
// feature layers with tag selectors, stroke/fill colors, widths, and
// z-order.
//
// Themes are immutable after construction and safe to share across
// concurrent renders. The built-in registry is created once at startup and
// passed explicitly into the pipeline; custom themes load from TOML files.
package style

import (
	"regexp"

	"github.com/posterkit/posterkit/pkg/osm"
)

// Selector is a predicate over OSM tags. The variant set is closed (exact
// match, set membership, regular expression) so layer matching never relies
// on runtime reflection.
type Selector interface {
	Matches(tags osm.Tags) bool
}

// MatchExact matches features whose tag key equals a single value.
type MatchExact struct {
	Key   string
	Value string
}

// Matches implements Selector.
func (m MatchExact) Matches(tags osm.Tags) bool {
	return tags.Get(m.Key) == m.Value
}

// MatchAny matches features whose tag key takes any of a set of values.
type MatchAny struct {
	Key    string
	Values []string
}

// Matches implements Selector.
func (m MatchAny) Matches(tags osm.Tags) bool {
	v := tags.Get(m.Key)
	if v == "" {
		return false
	}
	for _, want := range m.Values {
		if v == want {
			return true
		}
	}
	return false
}

// MatchRegex matches features whose tag value matches a compiled pattern.
type MatchRegex struct {
	Key     string
	Pattern *regexp.Regexp
}

// Matches implements Selector.
func (m MatchRegex) Matches(tags osm.Tags) bool {
	v := tags.Get(m.Key)
	return v != "" && m.Pattern.MatchString(v)
}
