package style

import (
	"image/color"
	"regexp"

	"github.com/BurntSushi/toml"

	"github.com/posterkit/posterkit/pkg/errors"
)

// fileTheme is the TOML shape of a custom theme file.
//
//	id = "blueprint"
//	name = "Blueprint"
//	background = "#0B2545"
//	text = "#EEF4ED"
//
//	[[layer]]
//	name = "motorway"
//	match = { key = "highway", any = ["motorway", "motorway_link"] }
//	stroke = "#8DA9C4"
//	width = 1.2
//	z = 50
type fileTheme struct {
	ID          string      `toml:"id"`
	Name        string      `toml:"name"`
	Description string      `toml:"description"`
	Background  string      `toml:"background"`
	Text        string      `toml:"text"`
	Gradient    string      `toml:"gradient"`
	Layers      []fileLayer `toml:"layer"`
}

type fileLayer struct {
	Name   string    `toml:"name"`
	Match  fileMatch `toml:"match"`
	Stroke string    `toml:"stroke"`
	Width  float64   `toml:"width"`
	Fill   string    `toml:"fill"`
	Z      int       `toml:"z"`
}

type fileMatch struct {
	Key   string   `toml:"key"`
	Value string   `toml:"value"`
	Any   []string `toml:"any"`
	Regex string   `toml:"regex"`
}

// LoadFile reads a custom theme from a TOML file.
func LoadFile(path string) (Theme, error) {
	var ft fileTheme
	if _, err := toml.DecodeFile(path, &ft); err != nil {
		return Theme{}, errors.Wrap(errors.ErrCodeInvalidRequest, err, "theme file %s", path)
	}
	return ft.build()
}

func (ft fileTheme) build() (Theme, error) {
	if ft.ID == "" {
		return Theme{}, errors.New(errors.ErrCodeInvalidRequest, "theme file missing id")
	}
	bg, err := ParseHex(ft.Background)
	if err != nil {
		return Theme{}, err
	}
	text, err := ParseHex(ft.Text)
	if err != nil {
		return Theme{}, err
	}
	grad := bg
	if ft.Gradient != "" {
		if grad, err = ParseHex(ft.Gradient); err != nil {
			return Theme{}, err
		}
	}
	t := Theme{
		ID:          ft.ID,
		Name:        ft.Name,
		Description: ft.Description,
		Background:  bg,
		Text:        text,
		Gradient:    grad,
	}
	for _, fl := range ft.Layers {
		l, err := fl.build()
		if err != nil {
			return Theme{}, err
		}
		t.Layers = append(t.Layers, l)
	}
	t.normalize()
	return t, nil
}

func (fl fileLayer) build() (Layer, error) {
	l := Layer{Name: fl.Name, Width: fl.Width, Z: fl.Z}
	var err error
	if l.Selector, err = fl.Match.build(); err != nil {
		return Layer{}, errors.Wrap(errors.ErrCodeInvalidRequest, err, "layer %q", fl.Name)
	}
	if l.Stroke, err = optionalHex(fl.Stroke); err != nil {
		return Layer{}, err
	}
	if l.Fill, err = optionalHex(fl.Fill); err != nil {
		return Layer{}, err
	}
	if l.Stroke == nil && l.Fill == nil {
		return Layer{}, errors.New(errors.ErrCodeInvalidRequest, "layer %q has neither stroke nor fill", fl.Name)
	}
	return l, nil
}

// build picks the selector variant from whichever field is set. A layer
// with no match block becomes the sentinel.
func (fm fileMatch) build() (Selector, error) {
	if fm.Key == "" {
		return nil, nil
	}
	set := 0
	if fm.Value != "" {
		set++
	}
	if len(fm.Any) > 0 {
		set++
	}
	if fm.Regex != "" {
		set++
	}
	if set != 1 {
		return nil, errors.New(errors.ErrCodeInvalidRequest,
			"match on %q needs exactly one of value, any, regex", fm.Key)
	}
	switch {
	case fm.Value != "":
		return MatchExact{Key: fm.Key, Value: fm.Value}, nil
	case len(fm.Any) > 0:
		return MatchAny{Key: fm.Key, Values: fm.Any}, nil
	default:
		re, err := regexp.Compile(fm.Regex)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRequest, err, "bad pattern %q", fm.Regex)
		}
		return MatchRegex{Key: fm.Key, Pattern: re}, nil
	}
}

func optionalHex(s string) (color.Color, error) {
	if s == "" {
		return nil, nil
	}
	return ParseHex(s)
}
