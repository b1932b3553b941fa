package style

import (
	"sort"

	"github.com/posterkit/posterkit/pkg/errors"
)

// Registry is a fixed lookup table of themes. Built once at startup and
// passed explicitly to the pipeline; never mutated afterwards, so it is
// safe for concurrent use.
type Registry struct {
	themes map[string]Theme
}

// NewRegistry builds a registry from the given themes.
func NewRegistry(themes ...Theme) *Registry {
	m := make(map[string]Theme, len(themes))
	for _, t := range themes {
		t.normalize()
		m[t.ID] = t
	}
	return &Registry{themes: m}
}

// Resolve looks up a theme by id. Fails with UNKNOWN_THEME for ids not in
// the registry.
func (r *Registry) Resolve(id string) (Theme, error) {
	t, ok := r.themes[id]
	if !ok {
		return Theme{}, errors.New(errors.ErrCodeUnknownTheme, "unknown theme: %q", id)
	}
	return t, nil
}

// List returns all themes sorted by id.
func (r *Registry) List() []Theme {
	out := make([]Theme, 0, len(r.themes))
	for _, t := range r.themes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Road class tag membership, including the link variants. Mirrors the OSM
// highway hierarchy.
var (
	tagsMotorway    = []string{"motorway", "motorway_link"}
	tagsPrimary     = []string{"trunk", "trunk_link", "primary", "primary_link"}
	tagsSecondary   = []string{"secondary", "secondary_link"}
	tagsTertiary    = []string{"tertiary", "tertiary_link"}
	tagsResidential = []string{"residential", "living_street", "unclassified"}
)

// Stroke widths per road class, in canvas-relative units.
const (
	widthMotorway    = 1.2
	widthPrimary     = 1.0
	widthSecondary   = 0.8
	widthTertiary    = 0.6
	widthResidential = 0.4
)

// roadPalette holds the per-class stroke colors for a theme.
type roadPalette struct {
	motorway, primary, secondary, tertiary, residential string
}

// Z-order bands: polygon fills below, road strokes above. Within the road
// band, more prominent classes paint later.
const (
	zParks       = 1
	zWater       = 2
	zResidential = 10
	zTertiary    = 20
	zSecondary   = 30
	zPrimary     = 40
	zMotorway    = 50
)

func roadLayers(p roadPalette) []Layer {
	return []Layer{
		{Name: "residential", Selector: MatchAny{Key: "highway", Values: tagsResidential},
			Stroke: mustHex(p.residential), Width: widthResidential, Z: zResidential},
		{Name: "tertiary", Selector: MatchAny{Key: "highway", Values: tagsTertiary},
			Stroke: mustHex(p.tertiary), Width: widthTertiary, Z: zTertiary},
		{Name: "secondary", Selector: MatchAny{Key: "highway", Values: tagsSecondary},
			Stroke: mustHex(p.secondary), Width: widthSecondary, Z: zSecondary},
		{Name: "primary", Selector: MatchAny{Key: "highway", Values: tagsPrimary},
			Stroke: mustHex(p.primary), Width: widthPrimary, Z: zPrimary},
		{Name: "motorway", Selector: MatchAny{Key: "highway", Values: tagsMotorway},
			Stroke: mustHex(p.motorway), Width: widthMotorway, Z: zMotorway},
	}
}

func fillLayers(water, parks string) []Layer {
	return []Layer{
		{Name: "parks", Z: zParks, Fill: mustHex(parks),
			Selector: MatchAny{Key: "leisure", Values: []string{"park"}}},
		{Name: "grass", Z: zParks, Fill: mustHex(parks),
			Selector: MatchExact{Key: "landuse", Value: "grass"}},
		{Name: "water", Z: zWater, Fill: mustHex(water),
			Selector: MatchAny{Key: "natural", Values: []string{"water", "bay", "strait"}}},
		{Name: "riverbank", Z: zWater, Fill: mustHex(water),
			Selector: MatchExact{Key: "waterway", Value: "riverbank"}},
	}
}

func theme(id, name, desc, bg, text string, layers ...[]Layer) Theme {
	t := Theme{
		ID:          id,
		Name:        name,
		Description: desc,
		Background:  mustHex(bg),
		Text:        mustHex(text),
		Gradient:    mustHex(bg),
	}
	for _, ls := range layers {
		t.Layers = append(t.Layers, ls...)
	}
	return t
}

// Builtin returns the registry of built-in themes.
func Builtin() *Registry {
	return NewRegistry(
		theme("minimal", "Minimal", "Black ink on white, gallery style",
			"#FFFFFF", "#1A1A1A",
			fillLayers("#E8E8E8", "#F4F4F4"),
			roadLayers(roadPalette{
				motorway:    "#111111",
				primary:     "#222222",
				secondary:   "#3C3C3C",
				tertiary:    "#575757",
				residential: "#7A7A7A",
			})),
		theme("night", "Night", "Warm amber arteries on near-black",
			"#0B0E14", "#E8E4D8",
			fillLayers("#101B26", "#0F161B"),
			roadLayers(roadPalette{
				motorway:    "#E8C547",
				primary:     "#C9A227",
				secondary:   "#8C7A33",
				tertiary:    "#5E5A45",
				residential: "#3C3C3C",
			})),
		theme("terrain", "Terrain", "Muted earth tones and soft greens",
			"#EFEAE0", "#4A4A3A",
			fillLayers("#85A8C4", "#A3BD92"),
			roadLayers(roadPalette{
				motorway:    "#6B4F3A",
				primary:     "#7E6248",
				secondary:   "#97805F",
				tertiary:    "#B09F7E",
				residential: "#C9BD9C",
			})),
		theme("terracotta", "Terracotta", "Baked clay reds on warm cream",
			"#F5EDE4", "#8B4513",
			fillLayers("#A8C4C4", "#E8E0D0"),
			roadLayers(roadPalette{
				motorway:    "#A0522D",
				primary:     "#B8653A",
				secondary:   "#C9846A",
				tertiary:    "#D9A08A",
				residential: "#E5C4B0",
			})),
	)
}
