package draw

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
)

// SVG writes vector markup as drawing calls arrive. Output order is the
// call order, which is already back to front, so no z buffering is needed.
type SVG struct {
	buf    bytes.Buffer
	w, h   int
	nfades int
	closed bool
}

// NewSVG creates an SVG canvas of the given pixel size.
func NewSVG(w, h int) *SVG {
	s := &SVG{w: w, h: h}
	fmt.Fprintf(&s.buf,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		w, h, w, h)
	return s
}

// Bytes closes the document and returns the markup. Safe to call more than
// once.
func (s *SVG) Bytes() []byte {
	if !s.closed {
		s.buf.WriteString("</svg>\n")
		s.closed = true
	}
	return s.buf.Bytes()
}

// Size implements Canvas.
func (s *SVG) Size() (int, int) { return s.w, s.h }

// Fill implements Canvas.
func (s *SVG) Fill(c color.Color) {
	fmt.Fprintf(&s.buf, `<rect width="%d" height="%d" fill="%s"/>`+"\n", s.w, s.h, hexColor(c))
}

// FillPolygon implements Canvas.
func (s *SVG) FillPolygon(pts [][2]float64, c color.Color) {
	if len(pts) < 3 {
		return
	}
	fmt.Fprintf(&s.buf, `<polygon points="%s" fill="%s"/>`+"\n", points(pts), hexColor(c))
}

// StrokePolyline implements Canvas.
func (s *SVG) StrokePolyline(pts [][2]float64, c color.Color, width float64) {
	if len(pts) < 2 {
		return
	}
	fmt.Fprintf(&s.buf,
		`<polyline points="%s" fill="none" stroke="%s" stroke-width="%.2f" stroke-linecap="round" stroke-linejoin="round"/>`+"\n",
		points(pts), hexColor(c), width)
}

// Line implements Canvas.
func (s *SVG) Line(x0, y0, x1, y1 float64, c color.Color, width float64) {
	fmt.Fprintf(&s.buf,
		`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f" stroke-linecap="round"/>`+"\n",
		x0, y0, x1, y1, hexColor(c), width)
}

// VerticalFade implements Canvas.
func (s *SVG) VerticalFade(yOpaque, yClear float64, c color.Color) {
	s.nfades++
	id := fmt.Sprintf("fade%d", s.nfades)
	hex := hexColor(c)
	fmt.Fprintf(&s.buf,
		`<defs><linearGradient id="%s" gradientUnits="userSpaceOnUse" x1="0" y1="%.2f" x2="0" y2="%.2f">`+
			`<stop offset="0" stop-color="%s" stop-opacity="1"/>`+
			`<stop offset="1" stop-color="%s" stop-opacity="0"/>`+
			`</linearGradient></defs>`+"\n",
		id, yOpaque, yClear, hex, hex)
	top, bottom := yOpaque, yClear
	if top > bottom {
		top, bottom = bottom, top
	}
	fmt.Fprintf(&s.buf, `<rect x="0" y="%.2f" width="%d" height="%.2f" fill="url(#%s)"/>`+"\n",
		top, s.w, bottom-top, id)
}

// Text implements Canvas.
func (s *SVG) Text(str string, x, y float64, opts TextOptions) {
	if str == "" {
		return
	}
	anchor := "start"
	switch opts.Anchor {
	case AnchorMiddle:
		anchor = "middle"
	case AnchorEnd:
		anchor = "end"
	}
	fmt.Fprintf(&s.buf,
		`<text x="%.2f" y="%.2f" font-family="%s" font-size="%.2f" fill="%s" text-anchor="%s">%s</text>`+"\n",
		x, y, escapeText(opts.Face.Family), opts.Size, hexColor(opts.Color), anchor, escapeText(str))
}

func points(pts [][2]float64) string {
	var b strings.Builder
	for i, p := range pts {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%.2f,%.2f", p[0], p[1])
	}
	return b.String()
}

func hexColor(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02X%02X%02X", n.R, n.G, n.B)
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escapeText(s string) string { return textEscaper.Replace(s) }
