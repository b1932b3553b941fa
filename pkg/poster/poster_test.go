package poster

import (
	"bytes"
	"image"
	"math"
	"strings"
	"testing"

	"github.com/posterkit/posterkit/pkg/draw"
	"github.com/posterkit/posterkit/pkg/errors"
	"github.com/posterkit/posterkit/pkg/fonts"
	"github.com/posterkit/posterkit/pkg/geo"
	"github.com/posterkit/posterkit/pkg/layout"
	"github.com/posterkit/posterkit/pkg/osm"
	"github.com/posterkit/posterkit/pkg/style"
)

func testScene(t *testing.T) Scene {
	t.Helper()
	extent, err := geo.NewExtent(48.82, 2.30, 48.89, 2.41)
	if err != nil {
		t.Fatal(err)
	}
	theme, err := style.Builtin().Resolve("terracotta")
	if err != nil {
		t.Fatal(err)
	}
	tmpl, err := layout.Builtin().Resolve("classic")
	if err != nil {
		t.Fatal(err)
	}
	return Scene{
		Extent: extent,
		Data: &osm.Result{
			Roads: []osm.RoadSegment{
				{Points: []geo.Point{{Lat: 48.85, Lon: 2.31}, {Lat: 48.86, Lon: 2.35}, {Lat: 48.87, Lon: 2.40}},
					Tags: osm.Tags{"highway": "primary"}},
				{Points: []geo.Point{{Lat: 48.83, Lon: 2.32}, {Lat: 48.84, Lon: 2.39}},
					Tags: osm.Tags{"highway": "residential"}},
				{Points: []geo.Point{{Lat: 48.88, Lon: 2.31}, {Lat: 48.88, Lon: 2.36}},
					Tags: osm.Tags{"highway": "footway"}},
			},
			Polygons: []osm.AreaPolygon{
				{Ring: []geo.Point{{Lat: 48.85, Lon: 2.33}, {Lat: 48.855, Lon: 2.34}, {Lat: 48.85, Lon: 2.35}},
					Tags: osm.Tags{"natural": "water"}},
			},
		},
		Theme:    theme,
		Layout:   tmpl,
		Fonts:    fonts.Default(),
		Title:    "Paris",
		Subtitle: "France",
		Center:   geo.Point{Lat: 48.8566, Lon: 2.3522},
		Width:    400,
		Height:   600,
	}
}

func TestTransformRoundTrip(t *testing.T) {
	extent, _ := geo.NewExtent(48.82, 2.30, 48.89, 2.41)
	tr := NewTransform(extent, 800, 1200)
	corners := []geo.Point{
		{Lat: 48.82, Lon: 2.30},
		{Lat: 48.82, Lon: 2.41},
		{Lat: 48.89, Lon: 2.30},
		{Lat: 48.89, Lon: 2.41},
		extent.Center(),
	}
	for _, p := range corners {
		x, y := tr.Project(p)
		back := tr.Unproject(x, y)
		if math.Abs(back.Lat-p.Lat) > 1e-9 || math.Abs(back.Lon-p.Lon) > 1e-9 {
			t.Errorf("round trip %v -> (%g,%g) -> %v", p, x, y, back)
		}
	}
}

func TestTransformOrientation(t *testing.T) {
	extent, _ := geo.NewExtent(48.82, 2.30, 48.89, 2.41)
	tr := NewTransform(extent, 800, 1200)
	_, yNorth := tr.Project(geo.Point{Lat: 48.89, Lon: 2.35})
	_, ySouth := tr.Project(geo.Point{Lat: 48.82, Lon: 2.35})
	if yNorth >= ySouth {
		t.Errorf("north y %g should be above south y %g", yNorth, ySouth)
	}
	xWest, _ := tr.Project(geo.Point{Lat: 48.85, Lon: 2.30})
	xEast, _ := tr.Project(geo.Point{Lat: 48.85, Lon: 2.41})
	if xWest >= xEast {
		t.Errorf("west x %g should be left of east x %g", xWest, xEast)
	}
	cx, cy := tr.Project(extent.Center())
	if math.Abs(cx-400) > 1e-9 || math.Abs(cy-600) > 1e-9 {
		t.Errorf("center maps to (%g,%g), want canvas center", cx, cy)
	}
}

func TestComposeEmptyResultBeforeCanvas(t *testing.T) {
	s := testScene(t)
	s.Data = &osm.Result{}
	allocations := 0
	_, err := Compose(s, func(w, h int) draw.Canvas {
		allocations++
		return draw.NewRaster(w, h)
	})
	if errors.GetCode(err) != errors.ErrCodeEmptyResult {
		t.Fatalf("code = %v, want EMPTY_RESULT", errors.GetCode(err))
	}
	if allocations != 0 {
		t.Errorf("canvas allocated %d times before validation", allocations)
	}
}

func TestComposeDeterministic(t *testing.T) {
	s := testScene(t)
	render := func() []byte {
		c, err := Compose(s, func(w, h int) draw.Canvas { return draw.NewRaster(w, h) })
		if err != nil {
			t.Fatalf("compose: %v", err)
		}
		img := c.(*draw.Raster).Image().(*image.RGBA)
		return img.Pix
	}
	if !bytes.Equal(render(), render()) {
		t.Error("two renders of the same scene differ")
	}
}

func TestComposeBackgroundAndSize(t *testing.T) {
	s := testScene(t)
	c, err := Compose(s, func(w, h int) draw.Canvas { return draw.NewRaster(w, h) })
	if err != nil {
		t.Fatal(err)
	}
	w, h := c.Size()
	if w != 400 || h != 600 {
		t.Fatalf("size = %dx%d", w, h)
	}
	img := c.(*draw.Raster).Image()
	// Map area corners away from the fade bands keep the background color.
	r, g, b, _ := img.At(2, h/2).RGBA()
	if r>>8 != 0xF5 || g>>8 != 0xED || b>>8 != 0xE4 {
		t.Errorf("left edge pixel = %x %x %x, want background", r>>8, g>>8, b>>8)
	}
}

func TestComposeSVGContainsElements(t *testing.T) {
	s := testScene(t)
	c, err := Compose(s, func(w, h int) draw.Canvas { return draw.NewSVG(w, h) })
	if err != nil {
		t.Fatal(err)
	}
	out := string(c.(*draw.SVG).Bytes())
	// Roads, water fill, fades, then the typography block.
	for _, want := range []string{
		"<polyline",
		"<polygon",
		"linearGradient",
		"P  A  R  I  S",
		"FRANCE",
		"48.8566° N / 2.3522° E",
		"OpenStreetMap contributors",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("svg missing %q", want)
		}
	}
}

func TestComposeRejectsBadSize(t *testing.T) {
	s := testScene(t)
	s.Width = 0
	_, err := Compose(s, func(w, h int) draw.Canvas { return draw.NewRaster(w, h) })
	if errors.GetCode(err) != errors.ErrCodeInvalidRequest {
		t.Fatalf("code = %v, want INVALID_REQUEST", errors.GetCode(err))
	}
}

func TestDisplayTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Paris", "P  A  R  I  S"},
		{"san francisco", "S  A  N     F  R  A  N  C  I  S  C  O"},
		{"東京", "東京"},
		{"Москва", "Москва"},
	}
	for _, tt := range tests {
		if got := displayTitle(tt.in); got != tt.want {
			t.Errorf("displayTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTitleSize(t *testing.T) {
	if got := titleSize("Paris", 60, 1); got != 60 {
		t.Errorf("short name size = %g", got)
	}
	got := titleSize("Ouagadougou", 60, 1) // 11 runes
	want := 60 * 10.0 / 11.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("long name size = %g, want %g", got, want)
	}
	if got := titleSize(strings.Repeat("a", 100), 60, 1); got != 10 {
		t.Errorf("floor = %g, want 10", got)
	}
}

func TestFormatCoords(t *testing.T) {
	tests := []struct {
		p    geo.Point
		want string
	}{
		{geo.Point{Lat: 48.8566, Lon: 2.3522}, "48.8566° N / 2.3522° E"},
		{geo.Point{Lat: -33.8688, Lon: 151.2093}, "33.8688° S / 151.2093° E"},
		{geo.Point{Lat: 40.7128, Lon: -74.0060}, "40.7128° N / 74.0060° W"},
	}
	for _, tt := range tests {
		if got := formatCoords(tt.p); got != tt.want {
			t.Errorf("formatCoords(%v) = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func TestLatinScript(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Paris", true},
		{"São Paulo", true},
		{"東京", false},
		{"القاهرة", false},
		{"1234", false},
	}
	for _, tt := range tests {
		if got := latinScript(tt.in); got != tt.want {
			t.Errorf("latinScript(%q) = %v", tt.in, got)
		}
	}
}
