// Package draw provides the two low-level drawing backends the compositor
// paints onto: a raster canvas backed by an RGBA image, and a vector canvas
// that writes SVG markup.
//
// Both implement [Canvas]. Coordinates are pixels with the origin at the
// top left, matching image conventions; the compositor converts from
// geographic space before calling in. Callers never branch on the backend,
// so every poster element renders identically in PNG and SVG output.
package draw

import (
	"image/color"

	"github.com/posterkit/posterkit/pkg/fonts"
)

// Anchor controls horizontal text alignment relative to the x coordinate.
type Anchor int

const (
	AnchorStart Anchor = iota
	AnchorMiddle
	AnchorEnd
)

// TextOptions describes one text run. The y coordinate passed to
// [Canvas.Text] is the baseline.
type TextOptions struct {
	Face   fonts.Face
	Size   float64 // pixels
	Color  color.Color
	Anchor Anchor
}

// Canvas is the drawing surface the compositor targets.
type Canvas interface {
	// Size returns the canvas dimensions in pixels.
	Size() (w, h int)

	// Fill floods the whole canvas with a color.
	Fill(c color.Color)

	// FillPolygon fills a closed ring. The ring is given open (first
	// point not repeated) and may be non-convex.
	FillPolygon(pts [][2]float64, c color.Color)

	// StrokePolyline strokes an open path with round joins and caps.
	StrokePolyline(pts [][2]float64, c color.Color, width float64)

	// Line strokes a single straight segment.
	Line(x0, y0, x1, y1 float64, c color.Color, width float64)

	// VerticalFade paints a horizontal band with a vertical gradient:
	// fully opaque c at yOpaque, fully transparent at yClear. yOpaque
	// may be above or below yClear.
	VerticalFade(yOpaque, yClear float64, c color.Color)

	// Text draws a text run with its baseline at y.
	Text(s string, x, y float64, opts TextOptions)
}

// Factory creates a canvas of the requested size. The compositor takes a
// factory rather than a canvas so validation failures surface before any
// surface is allocated.
type Factory func(w, h int) Canvas
