// Package validate checks style documents before they are migrated.
package validate

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/multierr"

	"stylemig/style"
)

// ValidationError is a single problem found in the document text.
type ValidationError struct {
	Line    int
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Errors is a non-empty list of validation errors usable as an error value.
type Errors []ValidationError

func (e Errors) combined() error {
	var err error
	for _, v := range e {
		err = multierr.Append(err, v)
	}
	return err
}

func (e Errors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	return e.combined().Error()
}

func (e Errors) Unwrap() []error {
	return multierr.Errors(e.combined())
}

// InternalError reports validator approved text which could not be turned into
// a document.
type InternalError struct {
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: validated document could not be parsed: %v", e.Err)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Validate returns all problems found in the text ordered by line. Empty
// result means text may be parsed and migrated.
func Validate(text string) []ValidationError {
	_, errs := check(text)
	return errs
}

// ParseValidated validates text and builds typed document from it. When
// validation fails document is nil and the list is not empty.
func ParseValidated(text string) (*style.Document, []ValidationError, error) {
	return parseValidated(text, style.NewDocument)
}

func parseValidated(text string, build func(style.Value) (*style.Document, error)) (*style.Document, []ValidationError, error) {
	root, errs := check(text)
	if len(errs) > 0 {
		return nil, errs, nil
	}
	doc, err := build(root)
	if err != nil {
		return nil, nil, &InternalError{Err: err}
	}
	return doc, nil, nil
}

func check(text string) (style.Value, []ValidationError) {
	root, err := style.ParseValue([]byte(text))
	if err != nil {
		if serr, ok := err.(*style.SyntaxError); ok {
			return nil, []ValidationError{{Line: serr.Line, Message: serr.Message}}
		}
		return nil, []ValidationError{{Line: 1, Message: err.Error()}}
	}

	c := &checker{}
	c.duplicates(root)
	c.root(root)
	slices.SortStableFunc(c.errs, func(a, b ValidationError) int {
		return cmp.Compare(a.Line, b.Line)
	})
	return root, c.errs
}

type checker struct {
	errs []ValidationError
}

func (c *checker) add(line int, path, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if path != "" {
		msg = path + ": " + msg
	}
	c.errs = append(c.errs, ValidationError{Line: max(line, 1), Message: msg})
}

func (c *checker) duplicates(v style.Value) {
	switch t := v.(type) {
	case style.Array:
		for _, e := range t {
			c.duplicates(e)
		}
	case *style.Object:
		for _, m := range t.Duplicates() {
			c.add(m.Line, "", "duplicate key %q", m.Key)
		}
		for _, e := range t.Members() {
			c.duplicates(e)
		}
	}
}

func (c *checker) root(v style.Value) {
	obj, ok := v.(*style.Object)
	if !ok {
		c.add(1, "", "style must be an object, found %s", style.TypeName(v))
		return
	}

	version, ok := obj.Get("version")
	switch n, isNum := version.(style.Number); {
	case !ok:
		c.add(obj.Line, "", "missing required property %q", "version")
	case !isNum || !n.IsInteger() || int(n.Float()) != style.SupportedVersion:
		c.add(obj.LineOf("version"), "version", "expected %d, found %s", style.SupportedVersion, describe(version))
	}

	if sources, ok := obj.Get("sources"); !ok {
		c.add(obj.Line, "", "missing required property %q", "sources")
	} else {
		c.sources(sources, obj.LineOf("sources"))
	}

	layers, ok := obj.Get("layers")
	if !ok {
		c.add(obj.Line, "", "missing required property %q", "layers")
		return
	}
	arr, ok := layers.(style.Array)
	if !ok {
		c.add(obj.LineOf("layers"), "layers", "array expected, %s found", style.TypeName(layers))
		return
	}
	ids := make(map[string]bool, len(arr))
	line := obj.LineOf("layers")
	for i, lv := range arr {
		path := fmt.Sprintf("layers[%d]", i)
		layer, ok := lv.(*style.Object)
		if !ok {
			c.add(line, path, "object expected, %s found", style.TypeName(lv))
			continue
		}
		line = layer.Line
		c.layer(layer, path, ids)
	}
}

func (c *checker) sources(v style.Value, line int) {
	obj, ok := v.(*style.Object)
	if !ok {
		c.add(line, "sources", "object expected, %s found", style.TypeName(v))
		return
	}
	for name, sv := range obj.Members() {
		path := "sources." + name
		src, ok := sv.(*style.Object)
		if !ok {
			c.add(obj.LineOf(name), path, "object expected, %s found", style.TypeName(sv))
			continue
		}
		t, ok := src.Get("type")
		if !ok {
			c.add(src.Line, path, "missing required property %q", "type")
			continue
		}
		if _, ok := t.(style.String); !ok {
			c.add(src.LineOf("type"), path+".type", "string expected, %s found", style.TypeName(t))
		}
	}
}

func (c *checker) layer(obj *style.Object, path string, ids map[string]bool) {
	id, ok := obj.Get("id")
	switch s, isStr := id.(style.String); {
	case !ok:
		c.add(obj.Line, path, "missing required property %q", "id")
	case !isStr || s == "":
		c.add(obj.LineOf("id"), path+".id", "non-empty string expected, found %s", describe(id))
	case ids[string(s)]:
		c.add(obj.LineOf("id"), path+".id", "duplicate layer id %q", s)
	default:
		ids[string(s)] = true
		path = fmt.Sprintf("layers.%s", s)
	}

	ref, hasRef := obj.Get("ref")
	if hasRef {
		if _, ok := ref.(style.String); !ok {
			c.add(obj.LineOf("ref"), path+".ref", "string expected, %s found", style.TypeName(ref))
		}
	}

	switch t, ok := obj.Get("type"); {
	case !ok && !hasRef:
		c.add(obj.Line, path, "missing required property %q", "type")
	case ok:
		s, isStr := t.(style.String)
		if !isStr || !slices.Contains(style.LayerTypes, string(s)) {
			c.add(obj.LineOf("type"), path+".type", "expected one of [%s], found %s",
				strings.Join(style.LayerTypes, ", "), describe(t))
		}
	}

	for _, kind := range style.BlockKindValues() {
		bv, ok := obj.Get(kind.String())
		if !ok {
			continue
		}
		bpath := path + "." + kind.String()
		block, ok := bv.(*style.Object)
		if !ok {
			c.add(obj.LineOf(kind.String()), bpath, "object expected, %s found", style.TypeName(bv))
			continue
		}
		for name, pv := range block.Members() {
			if style.IsLegacyFunction(pv) {
				c.function(pv.(*style.Object), bpath+"."+name, block.LineOf(name))
			}
		}
	}
}

func (c *checker) function(fn *style.Object, path string, line int) {
	at := func(key string) int {
		if l := fn.LineOf(key); l > 0 {
			return l
		}
		return line
	}

	property := ""
	if v, ok := fn.Get("property"); ok {
		s, isStr := v.(style.String)
		if !isStr {
			c.add(at("property"), path+".property", "string expected, %s found", style.TypeName(v))
		}
		property = string(s)
	}

	typ := ""
	if v, ok := fn.Get("type"); ok {
		s, isStr := v.(style.String)
		if !isStr || !slices.Contains(style.FunctionTypes, string(s)) {
			c.add(at("type"), path+".type", "expected one of [%s], found %s",
				strings.Join(style.FunctionTypes, ", "), describe(v))
		}
		typ = string(s)
	}

	if v, ok := fn.Get("base"); ok {
		if _, isNum := v.(style.Number); !isNum {
			c.add(at("base"), path+".base", "number expected, %s found", style.TypeName(v))
		}
	}

	if v, ok := fn.Get("colorSpace"); ok {
		s, isStr := v.(style.String)
		if !isStr || !slices.Contains(style.ColorSpaces, string(s)) {
			c.add(at("colorSpace"), path+".colorSpace", "expected one of [%s], found %s",
				strings.Join(style.ColorSpaces, ", "), describe(v))
		}
	}

	if typ == "identity" && property == "" {
		c.add(line, path, "identity function requires %q", "property")
	}

	v, ok := fn.Get("stops")
	if !ok {
		if typ != "identity" && property == "" {
			c.add(line, path, "missing required property %q", "stops")
		}
		return
	}
	spath := path + ".stops"
	stops, ok := v.(style.Array)
	if !ok || len(stops) == 0 {
		c.add(at("stops"), spath, "non-empty array expected, found %s", describe(v))
		return
	}

	var zoomAndProperty bool
	if first, ok := stops[0].(style.Array); ok && len(first) > 0 {
		_, zoomAndProperty = first[0].(*style.Object)
	}
	for i, sv := range stops {
		ipath := fmt.Sprintf("%s[%d]", spath, i)
		stop, ok := sv.(style.Array)
		if !ok || len(stop) != 2 {
			c.add(at("stops"), ipath, "array of length 2 expected, found %s", describe(sv))
			continue
		}
		input := stop[0]
		switch in, isObj := input.(*style.Object); {
		case zoomAndProperty:
			if !isObj {
				c.add(at("stops"), ipath+"[0]", "object with zoom and value expected, %s found", style.TypeName(input))
				continue
			}
			if z, ok := in.Get("zoom"); !ok {
				c.add(at("stops"), ipath+"[0]", "missing required property %q", "zoom")
			} else if _, isNum := z.(style.Number); !isNum {
				c.add(at("stops"), ipath+"[0].zoom", "number expected, %s found", style.TypeName(z))
			}
			if !in.Has("value") {
				c.add(at("stops"), ipath+"[0]", "missing required property %q", "value")
			}
		case property == "":
			if _, isNum := input.(style.Number); !isNum {
				c.add(at("stops"), ipath+"[0]", "zoom function stop input must be a number, %s found", style.TypeName(input))
			}
		default:
			switch input.(type) {
			case style.Number, style.String, style.Bool:
			default:
				c.add(at("stops"), ipath+"[0]", "property function stop input must be a number, string or boolean, %s found", style.TypeName(input))
			}
		}
	}
}

// describe renders short value for messages.
func describe(v style.Value) string {
	switch t := v.(type) {
	case style.String:
		return fmt.Sprintf("%q", string(t))
	case style.Number:
		return t.String()
	case style.Bool:
		return fmt.Sprintf("%t", bool(t))
	}
	return style.TypeName(v)
}
