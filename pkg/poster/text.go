package poster

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/posterkit/posterkit/pkg/geo"
)

// latinThreshold is the share of letters that must fall in the Latin range
// for a name to get the spaced uppercase treatment.
const latinThreshold = 0.8

// latinScript reports whether a name is predominantly Latin script.
// Non-Latin names (Arabic, CJK, Cyrillic) keep their original form since
// letter spacing and uppercasing do not translate.
func latinScript(s string) bool {
	letters, latin := 0, 0
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if r < 0x250 {
			latin++
		}
	}
	if letters == 0 {
		return false
	}
	return float64(latin)/float64(letters) > latinThreshold
}

// displayTitle renders a city name for the title slot: Latin names become
// double-spaced uppercase ("P  A  R  I  S"), others pass through unchanged.
func displayTitle(name string) string {
	if !latinScript(name) {
		return name
	}
	runes := []rune(strings.ToUpper(name))
	out := make([]string, len(runes))
	for i, r := range runes {
		out[i] = string(r)
	}
	return strings.Join(out, "  ")
}

// titleSize shrinks the title for long names so it stays inside the
// canvas. Names up to ten characters use the full size; longer ones scale
// down proportionally with a floor.
func titleSize(name string, base, scale float64) float64 {
	n := len([]rune(name))
	if n <= 10 {
		return base
	}
	size := base * 10 / float64(n)
	if floor := 10 * scale; size < floor {
		size = floor
	}
	return size
}

// formatCoords renders a point as "48.8566° N / 2.3522° E", using S and W
// for negative values.
func formatCoords(p geo.Point) string {
	latDir, lonDir := "N", "E"
	lat, lon := p.Lat, p.Lon
	if lat < 0 {
		latDir, lat = "S", -lat
	}
	if lon < 0 {
		lonDir, lon = "W", -lon
	}
	return fmt.Sprintf("%.4f° %s / %.4f° %s", lat, latDir, lon, lonDir)
}
