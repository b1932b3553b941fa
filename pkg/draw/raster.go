package draw

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/posterkit/posterkit/pkg/fonts"
)

// Raster draws onto an in-memory RGBA image via a gg context. Not safe for
// concurrent use; each render gets its own canvas.
type Raster struct {
	dc    *gg.Context
	w, h  int
	cache map[string]*truetype.Font
}

// NewRaster creates a raster canvas of the given pixel size.
func NewRaster(w, h int) *Raster {
	return &Raster{
		dc:    gg.NewContext(w, h),
		w:     w,
		h:     h,
		cache: make(map[string]*truetype.Font),
	}
}

// Image returns the rendered image.
func (r *Raster) Image() image.Image { return r.dc.Image() }

// Size implements Canvas.
func (r *Raster) Size() (int, int) { return r.w, r.h }

// Fill implements Canvas.
func (r *Raster) Fill(c color.Color) {
	r.dc.SetColor(c)
	r.dc.Clear()
}

// FillPolygon implements Canvas.
func (r *Raster) FillPolygon(pts [][2]float64, c color.Color) {
	if len(pts) < 3 {
		return
	}
	r.dc.NewSubPath()
	r.dc.MoveTo(pts[0][0], pts[0][1])
	for _, p := range pts[1:] {
		r.dc.LineTo(p[0], p[1])
	}
	r.dc.ClosePath()
	r.dc.SetColor(c)
	r.dc.Fill()
}

// StrokePolyline implements Canvas.
func (r *Raster) StrokePolyline(pts [][2]float64, c color.Color, width float64) {
	if len(pts) < 2 {
		return
	}
	r.dc.NewSubPath()
	r.dc.MoveTo(pts[0][0], pts[0][1])
	for _, p := range pts[1:] {
		r.dc.LineTo(p[0], p[1])
	}
	r.strokePath(c, width)
}

// Line implements Canvas.
func (r *Raster) Line(x0, y0, x1, y1 float64, c color.Color, width float64) {
	r.dc.NewSubPath()
	r.dc.MoveTo(x0, y0)
	r.dc.LineTo(x1, y1)
	r.strokePath(c, width)
}

func (r *Raster) strokePath(c color.Color, width float64) {
	r.dc.SetColor(c)
	r.dc.SetLineWidth(width)
	r.dc.SetLineCapRound()
	r.dc.SetLineJoinRound()
	r.dc.Stroke()
}

// VerticalFade implements Canvas.
func (r *Raster) VerticalFade(yOpaque, yClear float64, c color.Color) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	grad := gg.NewLinearGradient(0, yOpaque, 0, yClear)
	grad.AddColorStop(0, color.NRGBA{R: n.R, G: n.G, B: n.B, A: 0xFF})
	grad.AddColorStop(1, color.NRGBA{R: n.R, G: n.G, B: n.B, A: 0x00})
	top, bottom := yOpaque, yClear
	if top > bottom {
		top, bottom = bottom, top
	}
	r.dc.SetFillStyle(grad)
	r.dc.DrawRectangle(0, top, float64(r.w), bottom-top)
	r.dc.Fill()
}

// Text implements Canvas.
func (r *Raster) Text(s string, x, y float64, opts TextOptions) {
	if s == "" {
		return
	}
	face, err := r.face(opts.Face, opts.Size)
	if err != nil {
		return
	}
	r.dc.SetFontFace(face)
	r.dc.SetColor(opts.Color)
	w, _ := r.dc.MeasureString(s)
	switch opts.Anchor {
	case AnchorMiddle:
		x -= w / 2
	case AnchorEnd:
		x -= w
	}
	r.dc.DrawString(s, x, y)
}

// face parses the TTF once per family and builds a sized font.Face.
func (r *Raster) face(f fonts.Face, size float64) (font.Face, error) {
	parsed, ok := r.cache[f.Family]
	if !ok {
		var err error
		parsed, err = truetype.Parse(f.TTF)
		if err != nil {
			return nil, err
		}
		r.cache[f.Family] = parsed
	}
	return truetype.NewFace(parsed, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
