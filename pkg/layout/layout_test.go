package layout

import (
	"testing"

	"github.com/posterkit/posterkit/pkg/errors"
)

func TestBuiltinResolve(t *testing.T) {
	reg := Builtin()
	classic, err := reg.Resolve("classic")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if classic.TitleY != 0.14 || classic.TitleSize != 60 {
		t.Errorf("classic geometry = %+v", classic)
	}
	if classic.FadeBottom != 0.25 || classic.FadeTop != 0.75 {
		t.Errorf("classic fades = %g, %g", classic.FadeBottom, classic.FadeTop)
	}
}

func TestResolveUnknownLayout(t *testing.T) {
	_, err := Builtin().Resolve("brutalist")
	if errors.GetCode(err) != errors.ErrCodeUnknownLayout {
		t.Fatalf("code = %v, want UNKNOWN_LAYOUT", errors.GetCode(err))
	}
}

func TestNewRegistryValidates(t *testing.T) {
	tests := []struct {
		name string
		tmpl Template
	}{
		{"fraction out of range", Template{ID: "x", TitleY: 1.4, DividerX0: 0.4, DividerX1: 0.6}},
		{"negative fraction", Template{ID: "x", AttrY: -0.1, DividerX0: 0.4, DividerX1: 0.6}},
		{"inverted divider", Template{ID: "x", DividerX0: 0.6, DividerX1: 0.4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRegistry(tt.tmpl); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestListSorted(t *testing.T) {
	list := Builtin().List()
	if len(list) < 2 {
		t.Fatalf("expected at least 2 layouts, got %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].ID >= list[i].ID {
			t.Errorf("list not sorted: %s before %s", list[i-1].ID, list[i].ID)
		}
	}
}
