// Package spec provides property specifications of style version 8 used to
// drive conversion of legacy functions.
package spec

import (
	"bytes"
	_ "embed"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/rupor-github/gencfg"
	yaml "gopkg.in/yaml.v3"

	"stylemig/style"
)

//go:embed catalog.yaml
var catalogData []byte

// Property describes value domain of a single paint or layout property.
type Property struct {
	Type         string   `yaml:"type" validate:"required,oneof=number color string enum boolean array formatted resolvedImage"`
	Value        string   `yaml:"value,omitempty" validate:"required_if=Type array"`
	Length       int      `yaml:"length,omitempty" validate:"gte=0"`
	Values       []string `yaml:"values,omitempty" validate:"required_if=Type enum,required_if=Value enum"`
	Default      any      `yaml:"default,omitempty"`
	Tokens       bool     `yaml:"tokens,omitempty"`
	Interpolated bool     `yaml:"interpolated,omitempty"`
	PropertyType string   `yaml:"property-type" validate:"required,oneof=data-driven data-constant cross-faded cross-faded-data-driven color-ramp constant"`

	def style.Value
}

// DefaultValue returns default as a style value, nil when property has no default.
func (p *Property) DefaultValue() style.Value {
	return p.def
}

// Catalog maps "<kind>_<layer type>" to properties of that block.
type Catalog struct {
	blocks map[string]map[string]*Property
}

// Key builds catalog key for a block of a layer type.
func Key(kind style.BlockKind, layerType string) string {
	return kind.String() + "_" + layerType
}

// Load decodes and validates catalog data.
func Load(data []byte) (*Catalog, error) {
	blocks := make(map[string]map[string]*Property)

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&blocks); err != nil {
		return nil, fmt.Errorf("failed to decode property catalog: %w", err)
	}

	for _, key := range slices.Sorted(maps.Keys(blocks)) {
		for _, name := range slices.Sorted(maps.Keys(blocks[key])) {
			p := blocks[key][name]
			if p == nil {
				return nil, fmt.Errorf("property %s.%s has no specification", key, name)
			}
			if err := gencfg.Validate(p); err != nil {
				return nil, fmt.Errorf("property %s.%s: %w", key, name, err)
			}
			if p.Default != nil {
				v, ok := style.FromGo(p.Default)
				if !ok {
					return nil, fmt.Errorf("property %s.%s: unsupported default value %v", key, name, p.Default)
				}
				p.def = v
			}
		}
	}
	return &Catalog{blocks: blocks}, nil
}

var builtin = sync.OnceValues(func() (*Catalog, error) {
	return Load(catalogData)
})

// Default returns catalog embedded into the program.
func Default() (*Catalog, error) {
	return builtin()
}

// Lookup returns specification of the property or false when the layer type
// does not have it.
func (c *Catalog) Lookup(kind style.BlockKind, layerType, name string) (*Property, bool) {
	props, ok := c.blocks[Key(kind, layerType)]
	if !ok {
		return nil, false
	}
	p, ok := props[name]
	return p, ok
}

// LayerTypes returns layer types present in the catalog.
func (c *Catalog) LayerTypes() []string {
	types := make(map[string]struct{})
	for _, kind := range style.BlockKindValues() {
		prefix := kind.String() + "_"
		for key := range c.blocks {
			if len(key) > len(prefix) && key[:len(prefix)] == prefix {
				types[key[len(prefix):]] = struct{}{}
			}
		}
	}
	return slices.Sorted(maps.Keys(types))
}
