// Package poster composes fetched street-network data, a theme, and a
// typography layout into a finished poster on a drawing canvas.
//
// Composition is deterministic: the same scene always issues the same
// drawing calls in the same order, so raster output is byte-identical
// across runs and SVG output is textually stable.
package poster

import (
	"math"
	"strings"

	"github.com/posterkit/posterkit/pkg/draw"
	"github.com/posterkit/posterkit/pkg/errors"
	"github.com/posterkit/posterkit/pkg/fonts"
	"github.com/posterkit/posterkit/pkg/geo"
	"github.com/posterkit/posterkit/pkg/layout"
	"github.com/posterkit/posterkit/pkg/osm"
	"github.com/posterkit/posterkit/pkg/style"
)

// Attribution is the credit line every poster carries.
const Attribution = "© OpenStreetMap contributors"

// Scene is everything the compositor needs to draw one poster.
type Scene struct {
	Extent geo.Extent
	Data   *osm.Result
	Theme  style.Theme
	Layout layout.Template
	Fonts  fonts.Set

	Title    string
	Subtitle string
	Center   geo.Point

	Width  int
	Height int
}

// strokeUnit is the pixel width of one stroke unit at the reference canvas
// width.
const strokeUnit = 2.0

// Compose draws the scene onto a fresh canvas from the factory and returns
// it. It fails with EMPTY_RESULT before allocating any canvas when the
// scene has no road geometry.
func Compose(s Scene, newCanvas draw.Factory) (draw.Canvas, error) {
	if s.Data == nil || len(s.Data.Roads) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyResult,
			"no roads in extent %s", s.Extent)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidRequest,
			"canvas size %dx%d", s.Width, s.Height)
	}

	c := newCanvas(s.Width, s.Height)
	t := NewTransform(s.Extent, s.Width, s.Height)
	scale := float64(s.Width) / layout.ReferenceWidth

	c.Fill(s.Theme.Background)
	drawPolygons(c, s, t)
	drawRoads(c, s, t, scale)
	drawFades(c, s)
	drawTypography(c, s, scale)
	return c, nil
}

// drawPolygons paints water and park fills, grouped by layer in z-order so
// overlapping features stack the same way every render.
func drawPolygons(c draw.Canvas, s Scene, t Transform) {
	for _, layer := range s.Theme.Layers {
		if layer.Fill == nil {
			continue
		}
		for _, poly := range s.Data.Polygons {
			l := s.Theme.LayerFor(poly.Tags)
			if l.Name != layer.Name {
				continue
			}
			if pts := projectPath(t, poly.Ring, 3); pts != nil {
				c.FillPolygon(pts, layer.Fill)
			}
		}
	}
}

// drawRoads strokes road segments layer by layer, minor classes first so
// major roads paint on top at crossings.
func drawRoads(c draw.Canvas, s Scene, t Transform, scale float64) {
	for _, layer := range s.Theme.Layers {
		if layer.Stroke == nil {
			continue
		}
		width := layer.Width * strokeUnit * scale
		for _, road := range s.Data.Roads {
			l := s.Theme.LayerFor(road.Tags)
			if l.Name != layer.Name {
				continue
			}
			if pts := projectPath(t, road.Points, 2); pts != nil {
				c.StrokePolyline(pts, layer.Stroke, width)
			}
		}
	}
}

// projectPath maps geographic points to pixels, dropping consecutive
// duplicates and non-finite values. Returns nil when fewer than min
// distinct points survive.
func projectPath(t Transform, points []geo.Point, min int) [][2]float64 {
	pts := make([][2]float64, 0, len(points))
	for _, p := range points {
		x, y := t.Project(p)
		if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			continue
		}
		if n := len(pts); n > 0 && pts[n-1][0] == x && pts[n-1][1] == y {
			continue
		}
		pts = append(pts, [2]float64{x, y})
	}
	if len(pts) < min {
		return nil
	}
	return pts
}

// drawFades paints the gradient bands that keep typography legible over
// dense road networks.
func drawFades(c draw.Canvas, s Scene) {
	h := float64(s.Height)
	if s.Layout.FadeBottom > 0 {
		c.VerticalFade(h, h*(1-s.Layout.FadeBottom), s.Theme.Gradient)
	}
	if s.Layout.FadeTop < 1 {
		c.VerticalFade(0, h*(1-s.Layout.FadeTop), s.Theme.Gradient)
	}
}

func drawTypography(c draw.Canvas, s Scene, scale float64) {
	w, h := float64(s.Width), float64(s.Height)
	cx := w / 2
	fromBottom := func(frac float64) float64 { return h * (1 - frac) }

	if s.Title != "" {
		c.Text(displayTitle(s.Title), cx, fromBottom(s.Layout.TitleY), draw.TextOptions{
			Face:   s.Fonts.Bold,
			Size:   titleSize(s.Title, s.Layout.TitleSize*scale, scale),
			Color:  s.Theme.Text,
			Anchor: draw.AnchorMiddle,
		})
	}

	c.Line(w*s.Layout.DividerX0, fromBottom(s.Layout.DividerY),
		w*s.Layout.DividerX1, fromBottom(s.Layout.DividerY),
		s.Theme.Text, math.Max(1, scale))

	if s.Subtitle != "" {
		c.Text(strings.ToUpper(s.Subtitle), cx, fromBottom(s.Layout.SubtitleY), draw.TextOptions{
			Face:   s.Fonts.Regular,
			Size:   s.Layout.SubtitleSize * scale,
			Color:  s.Theme.Text,
			Anchor: draw.AnchorMiddle,
		})
	}

	c.Text(formatCoords(s.Center), cx, fromBottom(s.Layout.CoordsY), draw.TextOptions{
		Face:   s.Fonts.Regular,
		Size:   s.Layout.CoordsSize * scale,
		Color:  s.Theme.Text,
		Anchor: draw.AnchorMiddle,
	})

	c.Text(Attribution, w*s.Layout.AttrX, fromBottom(s.Layout.AttrY), draw.TextOptions{
		Face:   s.Fonts.Regular,
		Size:   s.Layout.AttrSize * scale,
		Color:  s.Theme.Text,
		Anchor: draw.AnchorEnd,
	})
}
