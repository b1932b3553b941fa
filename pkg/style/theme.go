package style

import (
	"image/color"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/posterkit/posterkit/pkg/errors"
	"github.com/posterkit/posterkit/pkg/osm"
)

// Layer is one style rule: a selector over feature tags plus how matching
// features are drawn. Roads use Stroke/Width; polygon features use Fill.
// Lower Z draws first (painted over by higher).
type Layer struct {
	Name     string
	Selector Selector    // nil marks the default sentinel layer
	Stroke   color.Color // nil disables stroking
	Width    float64     // stroke width, in canvas-relative units
	Fill     color.Color // nil disables filling
	Z        int
}

// IsDefault reports whether this is the catch-all sentinel layer.
func (l Layer) IsDefault() bool { return l.Selector == nil }

// Theme is a named, ordered set of layers plus the canvas colors.
// Immutable once constructed.
type Theme struct {
	ID          string
	Name        string
	Description string
	Background  color.Color
	Text        color.Color
	Gradient    color.Color // fade color for the typography bands
	Layers      []Layer     // sorted by Z ascending; contains exactly one sentinel
}

// LayerFor returns the layer whose selector matches tags. Features matching
// no selector land in the sentinel layer rather than being dropped, so no
// data silently disappears from the poster.
func (t Theme) LayerFor(tags osm.Tags) Layer {
	var sentinel Layer
	for _, l := range t.Layers {
		if l.IsDefault() {
			sentinel = l
			continue
		}
		if l.Selector.Matches(tags) {
			return l
		}
	}
	return sentinel
}

// normalize sorts layers by z-order and guarantees a sentinel exists,
// deriving one from the theme colors when the definition omits it.
func (t *Theme) normalize() {
	hasDefault := false
	for _, l := range t.Layers {
		if l.IsDefault() {
			hasDefault = true
			break
		}
	}
	if !hasDefault {
		t.Layers = append(t.Layers, Layer{
			Name:   "default",
			Stroke: mutedStroke(t.Text, t.Background),
			Width:  0.3,
			Z:      0,
		})
	}
	sort.SliceStable(t.Layers, func(i, j int) bool { return t.Layers[i].Z < t.Layers[j].Z })
}

// ParseHex parses a "#RRGGBB" color string.
func ParseHex(s string) (color.Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, err, "bad color %q", s)
	}
	return rgba(c), nil
}

// mutedStroke derives the sentinel layer's stroke: the text color pulled
// most of the way toward the background, so unmatched features stay visible
// without competing with styled roads.
func mutedStroke(text, background color.Color) color.Color {
	tc, okT := colorful.MakeColor(text)
	bc, okB := colorful.MakeColor(background)
	if !okT || !okB {
		return color.Gray{Y: 0x99}
	}
	return rgba(tc.BlendLab(bc, 0.65))
}

func rgba(c colorful.Color) color.Color {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

func mustHex(s string) color.Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}
