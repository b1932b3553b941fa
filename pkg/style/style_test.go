package style

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/posterkit/posterkit/pkg/errors"
	"github.com/posterkit/posterkit/pkg/osm"
)

func TestLayerForRoadClasses(t *testing.T) {
	reg := Builtin()
	theme, err := reg.Resolve("terracotta")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	tests := []struct {
		highway string
		want    string
	}{
		{"motorway", "motorway"},
		{"motorway_link", "motorway"},
		{"trunk", "primary"},
		{"primary", "primary"},
		{"secondary_link", "secondary"},
		{"tertiary", "tertiary"},
		{"residential", "residential"},
		{"living_street", "residential"},
		{"service", "default"},
		{"footway", "default"},
	}
	for _, tt := range tests {
		got := theme.LayerFor(osm.Tags{"highway": tt.highway})
		if got.Name != tt.want {
			t.Errorf("highway=%s: layer %q, want %q", tt.highway, got.Name, tt.want)
		}
	}
}

func TestLayerForPolygons(t *testing.T) {
	theme, err := Builtin().Resolve("night")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	water := theme.LayerFor(osm.Tags{"natural": "water"})
	if water.Name != "water" || water.Fill == nil {
		t.Errorf("water layer = %+v", water)
	}
	park := theme.LayerFor(osm.Tags{"leisure": "park"})
	if park.Name != "parks" {
		t.Errorf("park layer = %q", park.Name)
	}
}

func TestSentinelHasLowestZ(t *testing.T) {
	for _, theme := range Builtin().List() {
		if len(theme.Layers) == 0 {
			t.Fatalf("theme %s has no layers", theme.ID)
		}
		first := theme.Layers[0]
		if !first.IsDefault() {
			t.Errorf("theme %s: first layer %q is not the sentinel", theme.ID, first.Name)
		}
		if first.Stroke == nil {
			t.Errorf("theme %s: sentinel has no stroke", theme.ID)
		}
	}
}

func TestResolveUnknownTheme(t *testing.T) {
	_, err := Builtin().Resolve("vaporwave")
	if errors.GetCode(err) != errors.ErrCodeUnknownTheme {
		t.Fatalf("code = %v, want UNKNOWN_THEME", errors.GetCode(err))
	}
}

func TestZOrdering(t *testing.T) {
	theme, _ := Builtin().Resolve("minimal")
	prev := theme.Layers[0].Z
	for _, l := range theme.Layers[1:] {
		if l.Z < prev {
			t.Fatalf("layers not sorted by z: %d after %d", l.Z, prev)
		}
		prev = l.Z
	}
	motorway := theme.LayerFor(osm.Tags{"highway": "motorway"})
	residential := theme.LayerFor(osm.Tags{"highway": "residential"})
	if motorway.Z <= residential.Z {
		t.Errorf("motorway z %d should exceed residential z %d", motorway.Z, residential.Z)
	}
}

func TestSelectors(t *testing.T) {
	tags := osm.Tags{"highway": "primary", "name": "Main St"}
	if !(MatchExact{Key: "highway", Value: "primary"}).Matches(tags) {
		t.Error("exact match failed")
	}
	if (MatchExact{Key: "highway", Value: "secondary"}).Matches(tags) {
		t.Error("exact match false positive")
	}
	if (MatchAny{Key: "railway", Values: []string{"rail"}}).Matches(tags) {
		t.Error("missing key should not match")
	}
}

func TestLoadFile(t *testing.T) {
	src := `
id = "blueprint"
name = "Blueprint"
background = "#0B2545"
text = "#EEF4ED"

[[layer]]
name = "motorway"
match = { key = "highway", any = ["motorway", "motorway_link"] }
stroke = "#8DA9C4"
width = 1.2
z = 50

[[layer]]
name = "water"
match = { key = "natural", value = "water" }
fill = "#13315C"
z = 2
`
	path := filepath.Join(t.TempDir(), "blueprint.toml")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	theme, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if theme.ID != "blueprint" {
		t.Errorf("id = %q", theme.ID)
	}
	l := theme.LayerFor(osm.Tags{"highway": "motorway_link"})
	if l.Name != "motorway" {
		t.Errorf("layer = %q, want motorway", l.Name)
	}
	// Sentinel derived because the file declares none.
	def := theme.LayerFor(osm.Tags{"highway": "footway"})
	if !def.IsDefault() || def.Stroke == nil {
		t.Errorf("derived sentinel = %+v", def)
	}
	if theme.Gradient == nil {
		t.Error("gradient should default to background")
	}
}

func TestLoadFileRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing id", `background = "#FFFFFF"` + "\n" + `text = "#000000"`},
		{"bad color", `id = "x"` + "\n" + `background = "nope"` + "\n" + `text = "#000000"`},
		{"conflicting match", `
id = "x"
background = "#FFFFFF"
text = "#000000"

[[layer]]
name = "bad"
match = { key = "highway", value = "primary", regex = "p.*" }
stroke = "#000000"
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "theme.toml")
			if err := os.WriteFile(path, []byte(tt.src), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFile(path); errors.GetCode(err) != errors.ErrCodeInvalidRequest {
				t.Fatalf("code = %v, want INVALID_REQUEST", errors.GetCode(err))
			}
		})
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#F5EDE4")
	if err != nil {
		t.Fatal(err)
	}
	r, g, b, a := c.RGBA()
	want := color.RGBA{R: 0xF5, G: 0xED, B: 0xE4, A: 0xFF}
	wr, wg, wb, wa := want.RGBA()
	if r != wr || g != wg || b != wb || a != wa {
		t.Errorf("got %v, want %v", c, want)
	}
	if _, err := ParseHex("F5EDE4"); err == nil {
		t.Error("missing # should fail")
	}
}
