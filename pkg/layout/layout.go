// Package layout defines the typography templates: where the title block,
// divider, coordinates, and attribution sit on the canvas, and the relative
// type scale for each.
//
// All positions are fractions of the canvas edge, measured from the bottom
// left, so a template renders identically at any pixel size. Font sizes are
// points at a reference canvas width and scale linearly with the actual
// width.
package layout

import (
	"sort"

	"github.com/posterkit/posterkit/pkg/errors"
)

// ReferenceWidth is the canvas width, in pixels, at which the template's
// font sizes apply unscaled.
const ReferenceWidth = 800

// Template positions the text elements of a poster.
type Template struct {
	ID          string
	Name        string
	Description string

	// Vertical positions, as fractions of canvas height from the bottom.
	TitleY    float64
	SubtitleY float64
	CoordsY   float64
	DividerY  float64

	// Divider endpoints and attribution anchor, as fractions of width
	// (attribution is right-aligned at AttrX, AttrY from the bottom).
	DividerX0 float64
	DividerX1 float64
	AttrX     float64
	AttrY     float64

	// Type scale at ReferenceWidth.
	TitleSize    float64
	SubtitleSize float64
	CoordsSize   float64
	AttrSize     float64

	// Fade extents: the bottom band fades from opaque at 0 to clear at
	// FadeBottom; the top band from clear at FadeTop to opaque at 1.
	FadeBottom float64
	FadeTop    float64
}

func (t Template) validate() error {
	fracs := []struct {
		name string
		v    float64
	}{
		{"title_y", t.TitleY}, {"subtitle_y", t.SubtitleY},
		{"coords_y", t.CoordsY}, {"divider_y", t.DividerY},
		{"divider_x0", t.DividerX0}, {"divider_x1", t.DividerX1},
		{"attr_x", t.AttrX}, {"attr_y", t.AttrY},
		{"fade_bottom", t.FadeBottom}, {"fade_top", t.FadeTop},
	}
	for _, f := range fracs {
		if f.v < 0 || f.v > 1 {
			return errors.New(errors.ErrCodeInvalidRequest,
				"layout %s: %s=%g outside [0,1]", t.ID, f.name, f.v)
		}
	}
	if t.DividerX0 >= t.DividerX1 {
		return errors.New(errors.ErrCodeInvalidRequest,
			"layout %s: divider endpoints inverted", t.ID)
	}
	return nil
}

// Registry is a fixed lookup table of layout templates.
type Registry struct {
	templates map[string]Template
}

// NewRegistry builds a registry, validating each template's geometry.
func NewRegistry(templates ...Template) (*Registry, error) {
	m := make(map[string]Template, len(templates))
	for _, t := range templates {
		if err := t.validate(); err != nil {
			return nil, err
		}
		m[t.ID] = t
	}
	return &Registry{templates: m}, nil
}

// Resolve looks up a template by id. Fails with UNKNOWN_LAYOUT for ids not
// in the registry.
func (r *Registry) Resolve(id string) (Template, error) {
	t, ok := r.templates[id]
	if !ok {
		return Template{}, errors.New(errors.ErrCodeUnknownLayout, "unknown layout: %q", id)
	}
	return t, nil
}

// List returns all templates sorted by id.
func (r *Registry) List() []Template {
	out := make([]Template, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Builtin returns the registry of built-in layouts.
func Builtin() *Registry {
	r, err := NewRegistry(
		Template{
			ID:           "classic",
			Name:         "Classic",
			Description:  "Centered title block over a bottom fade",
			TitleY:       0.14,
			SubtitleY:    0.10,
			CoordsY:      0.07,
			DividerY:     0.125,
			DividerX0:    0.40,
			DividerX1:    0.60,
			AttrX:        0.98,
			AttrY:        0.02,
			TitleSize:    60,
			SubtitleSize: 22,
			CoordsSize:   14,
			AttrSize:     8,
			FadeBottom:   0.25,
			FadeTop:      0.75,
		},
		Template{
			ID:           "compact",
			Name:         "Compact",
			Description:  "Tighter title block, more map",
			TitleY:       0.105,
			SubtitleY:    0.072,
			CoordsY:      0.048,
			DividerY:     0.092,
			DividerX0:    0.42,
			DividerX1:    0.58,
			AttrX:        0.98,
			AttrY:        0.015,
			TitleSize:    44,
			SubtitleSize: 17,
			CoordsSize:   11,
			AttrSize:     8,
			FadeBottom:   0.18,
			FadeTop:      0.82,
		},
	)
	if err != nil {
		panic(err)
	}
	return r
}
