package spec

import (
	"slices"
	"strings"
	"testing"

	"stylemig/style"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	if diff := slices.Compare(c.LayerTypes(), slices.Sorted(slices.Values(style.LayerTypes))); diff != 0 {
		t.Errorf("LayerTypes() = %v, want %v", c.LayerTypes(), style.LayerTypes)
	}

	// every layer type has a visibility layout property
	for _, lt := range style.LayerTypes {
		if _, ok := c.Lookup(style.BlockKindLayout, lt, "visibility"); !ok {
			t.Errorf("layout_%s has no visibility", lt)
		}
	}
}

func TestLookup(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	tests := []struct {
		kind         style.BlockKind
		layerType    string
		name         string
		found        bool
		typ          string
		interpolated bool
		def          string
	}{
		{style.BlockKindPaint, "circle", "circle-radius", true, "number", true, "5"},
		{style.BlockKindPaint, "fill", "fill-color", true, "color", true, `"#000000"`},
		{style.BlockKindLayout, "line", "line-cap", true, "enum", false, `"butt"`},
		{style.BlockKindLayout, "symbol", "text-font", true, "array", false, `["Open Sans Regular", "Arial Unicode MS Regular"]`},
		{style.BlockKindPaint, "line", "line-dasharray", true, "array", false, ""},
		{style.BlockKindPaint, "circle", "fill-color", false, "", false, ""},
		{style.BlockKindLayout, "circle", "circle-radius", false, "", false, ""},
		{style.BlockKindPaint, "unknown", "circle-radius", false, "", false, ""},
	}

	for _, tt := range tests {
		t.Run(Key(tt.kind, tt.layerType)+"."+tt.name, func(t *testing.T) {
			p, ok := c.Lookup(tt.kind, tt.layerType, tt.name)
			if ok != tt.found {
				t.Fatalf("Lookup() found = %v, want %v", ok, tt.found)
			}
			if !ok {
				return
			}
			if p.Type != tt.typ || p.Interpolated != tt.interpolated {
				t.Errorf("Lookup() = %+v", p)
			}
			var def string
			if v := p.DefaultValue(); v != nil {
				def = style.DefaultFormatter.FormatValue(v)
			}
			if def != tt.def {
				t.Errorf("DefaultValue() = %s, want %s", def, tt.def)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{name: "unknown field", data: "paint_x:\n  p: {type: number, bogus: 1, property-type: constant}\n", want: "failed to decode"},
		{name: "bad type", data: "paint_x:\n  p: {type: vector, property-type: constant}\n", want: "paint_x.p"},
		{name: "enum without values", data: "layout_x:\n  p: {type: enum, property-type: constant}\n", want: "layout_x.p"},
		{name: "array without value", data: "paint_x:\n  p: {type: array, property-type: constant}\n", want: "paint_x.p"},
		{name: "empty spec", data: "paint_x:\n  p:\n", want: "has no specification"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.data))
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}
