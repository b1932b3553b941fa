// Package fonts provides the typefaces used for poster typography.
//
// The Go fonts from golang.org/x/image are compiled into the binary as the
// default set, so posters render without any system font installed. A
// system font can be substituted by name via [Find], which searches the
// platform font directories.
package fonts

import (
	"fmt"
	"os"
	"strings"

	"github.com/flopp/go-findfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Face is a typeface usable by both the raster and vector canvas backends:
// raster backends parse TTF, vector backends reference Family by name.
type Face struct {
	Family string // font family name, used in SVG output
	TTF    []byte // raw TrueType data, used in raster output
}

// Set holds the faces for the two typographic roles on a poster.
type Set struct {
	Bold    Face // title
	Regular Face // subtitle, coordinates, attribution
}

// Default returns the embedded Go font set.
func Default() Set {
	return Set{
		Bold:    Face{Family: "Go Bold", TTF: gobold.TTF},
		Regular: Face{Family: "Go Regular", TTF: goregular.TTF},
	}
}

// Find locates a system font by name and loads its regular and bold faces.
// The name is matched against installed font filenames (e.g. "Roboto" finds
// Roboto-Regular.ttf and Roboto-Bold.ttf). Roles that cannot be found fall
// back to the embedded defaults rather than failing the render.
func Find(name string) (Set, error) {
	set := Default()
	if name == "" {
		return set, nil
	}

	regular, errR := loadVariant(name, "Regular")
	bold, errB := loadVariant(name, "Bold")
	if errR != nil && errB != nil {
		return set, fmt.Errorf("font %q not found: %v", name, errR)
	}
	if errR == nil {
		set.Regular = Face{Family: name, TTF: regular}
	}
	if errB == nil {
		set.Bold = Face{Family: name + " Bold", TTF: bold}
	}
	return set, nil
}

func loadVariant(name, variant string) ([]byte, error) {
	candidates := []string{
		fmt.Sprintf("%s-%s.ttf", name, variant),
		fmt.Sprintf("%s%s.ttf", strings.ReplaceAll(name, " ", ""), variant),
	}
	if variant == "Regular" {
		candidates = append(candidates, name+".ttf")
	}

	var lastErr error
	for _, c := range candidates {
		path, err := findfont.Find(c)
		if err != nil {
			lastErr = err
			continue
		}
		return os.ReadFile(path)
	}
	return nil, lastErr
}
