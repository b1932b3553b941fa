package draw

import (
	"image/color"
	"strings"
	"testing"

	"github.com/posterkit/posterkit/pkg/fonts"
)

var red = color.RGBA{R: 0xFF, A: 0xFF}

func TestRasterFill(t *testing.T) {
	r := NewRaster(10, 8)
	r.Fill(color.RGBA{R: 0xF5, G: 0xED, B: 0xE4, A: 0xFF})
	img := r.Image()
	if got := img.Bounds().Dx(); got != 10 {
		t.Fatalf("width = %d", got)
	}
	cr, cg, cb, _ := img.At(5, 4).RGBA()
	if cr>>8 != 0xF5 || cg>>8 != 0xED || cb>>8 != 0xE4 {
		t.Errorf("center pixel = %x %x %x", cr>>8, cg>>8, cb>>8)
	}
}

func TestRasterStrokeChangesPixels(t *testing.T) {
	r := NewRaster(20, 20)
	r.Fill(color.White)
	r.StrokePolyline([][2]float64{{2, 10}, {18, 10}}, red, 3)
	cr, _, _, _ := r.Image().At(10, 10).RGBA()
	if cr>>8 != 0xFF {
		t.Errorf("stroke did not paint: r=%x", cr>>8)
	}
	cg := func() uint32 { _, g, _, _ := r.Image().At(10, 10).RGBA(); return g }()
	if cg>>8 == 0xFF {
		t.Error("stroke left pixel white")
	}
}

func TestRasterDegenerateInputsIgnored(t *testing.T) {
	r := NewRaster(8, 8)
	r.Fill(color.White)
	r.StrokePolyline([][2]float64{{4, 4}}, red, 2)
	r.FillPolygon([][2]float64{{1, 1}, {2, 2}}, red)
	cr, cg, cb, _ := r.Image().At(4, 4).RGBA()
	if cr>>8 != 0xFF || cg>>8 != 0xFF || cb>>8 != 0xFF {
		t.Error("degenerate input painted pixels")
	}
}

func TestRasterText(t *testing.T) {
	r := NewRaster(200, 60)
	r.Fill(color.White)
	r.Text("PARIS", 100, 40, TextOptions{
		Face:   fonts.Default().Bold,
		Size:   24,
		Color:  color.Black,
		Anchor: AnchorMiddle,
	})
	dark := 0
	img := r.Image()
	for y := 0; y < 60; y++ {
		for x := 0; x < 200; x++ {
			cr, _, _, _ := img.At(x, y).RGBA()
			if cr>>8 < 0x80 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Error("text drew no dark pixels")
	}
}

func TestSVGOutput(t *testing.T) {
	s := NewSVG(800, 1200)
	s.Fill(color.RGBA{R: 0xF5, G: 0xED, B: 0xE4, A: 0xFF})
	s.StrokePolyline([][2]float64{{0, 0}, {10, 10}, {20, 5}}, red, 1.5)
	s.FillPolygon([][2]float64{{0, 0}, {10, 0}, {5, 8}}, color.Black)
	s.Line(1, 2, 3, 4, color.Black, 1)
	s.VerticalFade(1200, 900, color.White)
	s.Text("B<&>D", 400, 100, TextOptions{
		Face:   fonts.Default().Regular,
		Size:   14,
		Color:  color.Black,
		Anchor: AnchorEnd,
	})
	out := string(s.Bytes())

	for _, want := range []string{
		`viewBox="0 0 800 1200"`,
		`fill="#F5EDE4"`,
		`<polyline points="0.00,0.00 10.00,10.00 20.00,5.00"`,
		`stroke-width="1.50"`,
		`<polygon`,
		`linearGradient id="fade1"`,
		`y1="1200.00" x2="0" y2="900.00"`,
		`text-anchor="end"`,
		`B&lt;&amp;&gt;D`,
		`</svg>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Count(string(s.Bytes()), "</svg>") != 1 {
		t.Error("Bytes not idempotent")
	}
}

func TestSVGSkipsDegenerate(t *testing.T) {
	s := NewSVG(10, 10)
	s.StrokePolyline([][2]float64{{1, 1}}, red, 1)
	s.FillPolygon([][2]float64{{1, 1}, {2, 2}}, red)
	s.Text("", 0, 0, TextOptions{})
	out := string(s.Bytes())
	if strings.Contains(out, "<polyline") || strings.Contains(out, "<polygon") || strings.Contains(out, "<text") {
		t.Errorf("degenerate elements emitted: %s", out)
	}
}
