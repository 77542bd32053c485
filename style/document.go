package style

import (
	"errors"
	"fmt"
	"slices"
)

// SupportedVersion is the only style version accepted.
const SupportedVersion = 8

// LayerTypes lists layer kinds known to style version 8.
var LayerTypes = []string{
	"background", "fill", "line", "symbol", "raster", "circle", "fill-extrusion", "heatmap", "hillshade",
}

// FunctionTypes lists legacy function curve types.
var FunctionTypes = []string{"exponential", "interval", "categorical", "identity"}

// ColorSpaces lists interpolation color spaces of legacy functions.
var ColorSpaces = []string{"rgb", "lab", "hcl"}

// Document is a typed view of a style. Top level fields other than layers are
// kept verbatim in their original order.
type Document struct {
	root   *Object
	Layers []*Layer
}

// Layer is a typed view of a single layer object. Paint and layout blocks are
// nil when the layer does not have them.
type Layer struct {
	ID     string
	Type   string
	Ref    string
	HasRef bool
	Line   int
	Paint  *PropertyBlock
	Layout *PropertyBlock

	fields *Object
}

// PropertyBlock is an ordered set of paint or layout properties.
type PropertyBlock struct {
	Line       int
	properties []Property
}

// Property is a named entry of a property block.
type Property struct {
	Name  string
	Value PropertyValue
	Line  int
}

// PropertyValue is either Literal or *LegacyFunction.
type PropertyValue interface {
	JSON() Value
	propertyValue()
}

// Literal is any property value which is not a legacy function, including
// expressions. It is copied verbatim.
type Literal struct {
	Value Value
}

func (l Literal) JSON() Value  { return l.Value }
func (Literal) propertyValue() {}

// LegacyFunction is a zoom, property or zoom-and-property function with a
// stop table, or an identity function without stops. Base keeps its source
// literal.
type LegacyFunction struct {
	Property   string
	Type       string
	Base       Number
	HasBase    bool
	ColorSpace string
	Default    Value
	Stops      []Stop

	raw *Object
}

func (f *LegacyFunction) JSON() Value  { return f.raw }
func (*LegacyFunction) propertyValue() {}

// Stop is a single [input, output] pair of a stop table.
type Stop struct {
	Input  Value
	Output Value
}

// ZoomAndValue splits {zoom, value} input of a zoom-and-property function stop.
func (s Stop) ZoomAndValue() (zoom Number, value Value, ok bool) {
	obj, isObj := s.Input.(*Object)
	if !isObj {
		return Number{}, nil, false
	}
	zv, _ := obj.Get("zoom")
	zoom, ok = zv.(Number)
	if !ok {
		return Number{}, nil, false
	}
	value, ok = obj.Get("value")
	return zoom, value, ok
}

// IsZoomAndProperty reports whether stop inputs are {zoom, value} objects.
func (f *LegacyFunction) IsZoomAndProperty() bool {
	if len(f.Stops) == 0 {
		return false
	}
	_, ok := f.Stops[0].Input.(*Object)
	return ok
}

// IsPropertyFunction reports whether function output depends on feature data.
func (f *LegacyFunction) IsPropertyFunction() bool {
	return f.IsZoomAndProperty() || f.Property != ""
}

// IsLegacyFunction reports whether value has the structural shape of a legacy
// function: an object carrying stops and/or a property name.
func IsLegacyFunction(v Value) bool {
	obj, ok := v.(*Object)
	return ok && (obj.Has("stops") || obj.Has("property"))
}

// ClassifyValue discriminates property value at parse time.
func ClassifyValue(v Value) (PropertyValue, error) {
	if !IsLegacyFunction(v) {
		return Literal{Value: v}, nil
	}
	return decodeFunction(v.(*Object))
}

var errMalformedFunction = errors.New("malformed function")

func decodeFunction(obj *Object) (*LegacyFunction, error) {
	fn := &LegacyFunction{raw: obj}
	if v, ok := obj.Get("property"); ok {
		s, ok := v.(String)
		if !ok {
			return nil, fmt.Errorf("%w: property must be a string, found %s", errMalformedFunction, TypeName(v))
		}
		fn.Property = string(s)
	}
	if v, ok := obj.Get("type"); ok {
		s, ok := v.(String)
		if !ok || !slices.Contains(FunctionTypes, string(s)) {
			return nil, fmt.Errorf("%w: unsupported function type", errMalformedFunction)
		}
		fn.Type = string(s)
	}
	if v, ok := obj.Get("base"); ok {
		n, ok := v.(Number)
		if !ok {
			return nil, fmt.Errorf("%w: base must be a number, found %s", errMalformedFunction, TypeName(v))
		}
		fn.Base, fn.HasBase = n, true
	}
	if v, ok := obj.Get("colorSpace"); ok {
		s, ok := v.(String)
		if !ok || !slices.Contains(ColorSpaces, string(s)) {
			return nil, fmt.Errorf("%w: unsupported color space", errMalformedFunction)
		}
		fn.ColorSpace = string(s)
	}
	if v, ok := obj.Get("default"); ok {
		fn.Default = v
	}
	v, ok := obj.Get("stops")
	if !ok {
		if fn.Type != "identity" && fn.Property == "" {
			return nil, fmt.Errorf("%w: stops are missing", errMalformedFunction)
		}
		return fn, nil
	}
	stops, ok := v.(Array)
	if !ok || len(stops) == 0 {
		return nil, fmt.Errorf("%w: stops must be a non-empty array", errMalformedFunction)
	}
	fn.Stops = make([]Stop, 0, len(stops))
	for i, s := range stops {
		pair, ok := s.(Array)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("%w: stop %d must be a two element array", errMalformedFunction, i)
		}
		fn.Stops = append(fn.Stops, Stop{Input: pair[0], Output: pair[1]})
	}
	if fn.IsZoomAndProperty() {
		for i, s := range fn.Stops {
			if _, _, ok := s.ZoomAndValue(); !ok {
				return nil, fmt.Errorf("%w: stop %d must have zoom and value input", errMalformedFunction, i)
			}
		}
	}
	return fn, nil
}

// NewDocument builds typed view over parsed JSON tree.
func NewDocument(root Value) (*Document, error) {
	obj, ok := root.(*Object)
	if !ok {
		return nil, fmt.Errorf("style must be an object, found %s", TypeName(root))
	}
	doc := &Document{root: obj}

	v, ok := obj.Get("layers")
	if !ok {
		return doc, nil
	}
	layers, ok := v.(Array)
	if !ok {
		return nil, fmt.Errorf("layers must be an array, found %s", TypeName(v))
	}
	doc.Layers = make([]*Layer, 0, len(layers))
	for i, lv := range layers {
		layer, err := newLayer(lv)
		if err != nil {
			return nil, fmt.Errorf("layers[%d]: %w", i, err)
		}
		doc.Layers = append(doc.Layers, layer)
	}
	return doc, nil
}

func newLayer(v Value) (*Layer, error) {
	obj, ok := v.(*Object)
	if !ok {
		return nil, fmt.Errorf("layer must be an object, found %s", TypeName(v))
	}
	layer := &Layer{fields: obj, Line: obj.Line}

	str := func(key string) (string, bool, error) {
		v, ok := obj.Get(key)
		if !ok {
			return "", false, nil
		}
		s, ok := v.(String)
		if !ok {
			return "", true, fmt.Errorf("%s must be a string, found %s", key, TypeName(v))
		}
		return string(s), true, nil
	}

	var err error
	if layer.ID, _, err = str("id"); err != nil {
		return nil, err
	}
	if layer.Type, _, err = str("type"); err != nil {
		return nil, err
	}
	if layer.Ref, layer.HasRef, err = str("ref"); err != nil {
		return nil, err
	}
	for _, kind := range BlockKindValues() {
		v, ok := obj.Get(kind.String())
		if !ok {
			continue
		}
		block, err := newPropertyBlock(v, obj.LineOf(kind.String()))
		if err != nil {
			return nil, fmt.Errorf("layer %q %s: %w", layer.ID, kind, err)
		}
		layer.setBlock(kind, block)
	}
	return layer, nil
}

func newPropertyBlock(v Value, line int) (*PropertyBlock, error) {
	obj, ok := v.(*Object)
	if !ok {
		return nil, fmt.Errorf("must be an object, found %s", TypeName(v))
	}
	block := NewPropertyBlock(line)
	for _, m := range obj.members {
		pv, err := ClassifyValue(m.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", m.Key, err)
		}
		block.Append(Property{Name: m.Key, Value: pv, Line: m.Line})
	}
	return block, nil
}

// Version returns style version or 0 when absent or not an integer.
func (d *Document) Version() int {
	v, _ := d.root.Get("version")
	if n, ok := v.(Number); ok && n.IsInteger() {
		return int(n.Float())
	}
	return 0
}

// Get returns top level field of the style.
func (d *Document) Get(key string) (Value, bool) {
	return d.root.Get(key)
}

// LayerByID returns first layer with given id.
func (d *Document) LayerByID(id string) *Layer {
	for _, l := range d.Layers {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// JSON reassembles the document tree, substituting layers and their property
// blocks in place of original values.
func (d *Document) JSON() *Object {
	out := NewObject()
	out.Line = d.root.Line
	for _, m := range d.root.members {
		v := m.Value
		if m.Key == "layers" {
			layers := make(Array, 0, len(d.Layers))
			for _, l := range d.Layers {
				layers = append(layers, l.JSON())
			}
			v = layers
		}
		out.add(m.Key, v, m.Line)
	}
	return out
}

// Block returns paint or layout block of the layer.
func (l *Layer) Block(kind BlockKind) *PropertyBlock {
	if kind == BlockKindLayout {
		return l.Layout
	}
	return l.Paint
}

func (l *Layer) setBlock(kind BlockKind, block *PropertyBlock) {
	if kind == BlockKindLayout {
		l.Layout = block
	} else {
		l.Paint = block
	}
}

// WithBlock returns shallow copy of the layer with block replaced.
func (l *Layer) WithBlock(kind BlockKind, block *PropertyBlock) *Layer {
	out := *l
	out.setBlock(kind, block)
	return &out
}

// JSON reassembles layer object keeping original field order.
func (l *Layer) JSON() *Object {
	out := NewObject()
	out.Line = l.fields.Line
	for _, m := range l.fields.members {
		v := m.Value
		if kind, err := ParseBlockKind(m.Key); err == nil {
			if block := l.Block(kind); block != nil {
				v = block.JSON()
			}
		}
		out.add(m.Key, v, m.Line)
	}
	return out
}

func NewPropertyBlock(line int) *PropertyBlock {
	return &PropertyBlock{Line: line}
}

func (b *PropertyBlock) Append(p Property) {
	b.properties = append(b.properties, p)
}

func (b *PropertyBlock) Len() int {
	return len(b.properties)
}

// Properties returns block entries in order.
func (b *PropertyBlock) Properties() []Property {
	return slices.Clone(b.properties)
}

// Get returns named property value.
func (b *PropertyBlock) Get(name string) (PropertyValue, bool) {
	for _, p := range b.properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// JSON returns block as an object.
func (b *PropertyBlock) JSON() *Object {
	out := NewObject()
	out.Line = b.Line
	for _, p := range b.properties {
		out.add(p.Name, p.Value.JSON(), p.Line)
	}
	return out
}
