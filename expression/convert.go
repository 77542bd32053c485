// Package expression converts legacy zoom and property functions into
// equivalent expressions.
package expression

import (
	"errors"
	"fmt"
	"regexp"

	"stylemig/spec"
	"stylemig/style"
)

// ErrUnsupported is returned for functions which have no expression
// equivalent, e.g. categorical zoom functions.
var ErrUnsupported = errors.New("unsupported function")

// Convert returns expression equivalent to the legacy function for a property
// with the given specification. It is pure and does not need any document
// context.
func Convert(fn *style.LegacyFunction, prop *spec.Property) (style.Value, error) {
	if fn == nil || prop == nil {
		return nil, errors.New("function and property specification are required")
	}
	if len(fn.Stops) == 0 {
		return convertIdentity(fn, prop), nil
	}

	zoomAndFeature := fn.IsZoomAndProperty()
	featureDependent := zoomAndFeature || fn.Property != ""
	zoomDependent := zoomAndFeature || !featureDependent

	stops := make([]style.Stop, len(fn.Stops))
	for i, s := range fn.Stops {
		out := s.Output
		if str, ok := out.(style.String); ok && !featureDependent && prop.Tokens {
			out = convertTokenString(string(str))
		} else {
			out = literal(out)
		}
		stops[i] = style.Stop{Input: s.Input, Output: out}
	}

	switch {
	case zoomAndFeature:
		return convertZoomAndProperty(fn, prop, stops)
	case zoomDependent:
		return convertZoom(fn, prop, stops)
	default:
		return convertProperty(fn, prop, stops)
	}
}

func convertIdentity(fn *style.LegacyFunction, prop *spec.Property) style.Value {
	get := call("get", style.String(fn.Property))
	switch {
	case fn.Default == nil:
		if prop.Type == "string" {
			return call("string", get)
		}
		return get
	case prop.Type == "enum":
		labels := make(style.Array, 0, len(prop.Values))
		for _, v := range prop.Values {
			labels = append(labels, style.String(v))
		}
		return call("match", get, labels, get, fn.Default)
	default:
		op := prop.Type
		if op == "color" {
			op = "to-color"
		}
		if prop.Type == "array" {
			var length style.Value = style.Null{}
			if prop.Length > 0 {
				length = style.NumberOf(float64(prop.Length))
			}
			return call(op, style.String(prop.Value), length, get, literal(fn.Default))
		}
		return call(op, get, literal(fn.Default))
	}
}

func interpolateOperator(fn *style.LegacyFunction) string {
	switch fn.ColorSpace {
	case "hcl":
		return "interpolate-hcl"
	case "lab":
		return "interpolate-lab"
	}
	return "interpolate"
}

func interpolation(fn *style.LegacyFunction) style.Array {
	if !fn.HasBase || fn.Base.Float() == 1 {
		return call("linear")
	}
	return call("exponential", fn.Base)
}

// functionType returns declared type or the one implied by the property:
// exponential for interpolatable properties, interval otherwise.
func functionType(fn *style.LegacyFunction, prop *spec.Property) string {
	if fn != nil && fn.Type != "" {
		return fn.Type
	}
	if prop.Interpolated {
		return "exponential"
	}
	return "interval"
}

func convertZoomAndProperty(fn *style.LegacyFunction, prop *spec.Property, stops []style.Stop) (style.Value, error) {
	type group struct {
		zoom  style.Number
		stops []style.Stop
	}
	var groups []*group
	byZoom := make(map[float64]*group)
	for _, s := range stops {
		zoom, value, _ := s.ZoomAndValue()
		g, ok := byZoom[zoom.Float()]
		if !ok {
			g = &group{zoom: zoom}
			byZoom[zoom.Float()] = g
			groups = append(groups, g)
		}
		g.stops = append(g.stops, style.Stop{Input: value, Output: s.Output})
	}

	// inner curves only inherit type, property and default
	inner := &style.LegacyFunction{Type: fn.Type, Property: fn.Property, Default: fn.Default}

	var (
		curve  style.Array
		isStep bool
	)
	if functionType(nil, prop) == "exponential" {
		curve = call(interpolateOperator(fn), call("linear"), call("zoom"))
	} else {
		curve = call("step", call("zoom"))
		isStep = true
	}
	for _, g := range groups {
		out, err := convertProperty(inner, prop, g.stops)
		if err != nil {
			return nil, err
		}
		curve = appendStop(curve, g.zoom, out, isStep)
	}
	return fixupDegenerateStep(curve), nil
}

func fallback(fn *style.LegacyFunction, prop *spec.Property) style.Value {
	switch {
	case fn.Default != nil:
		return literal(fn.Default)
	case prop.DefaultValue() != nil:
		return literal(prop.DefaultValue())
	case prop.Type == "resolvedImage":
		return style.String("")
	}
	return style.Null{}
}

func convertProperty(fn *style.LegacyFunction, prop *spec.Property, stops []style.Stop) (style.Value, error) {
	get := call("get", style.String(fn.Property))

	switch typ := functionType(fn, prop); typ {
	case "categorical":
		if _, ok := stops[0].Input.(style.Bool); ok {
			expr := call("case")
			for _, s := range stops {
				expr = append(expr, call("==", get, s.Input), s.Output)
			}
			return append(expr, fallback(fn, prop)), nil
		}
		expr := call("match", get)
		for _, s := range stops {
			expr = appendStop(expr, s.Input, s.Output, false)
		}
		return append(expr, fallback(fn, prop)), nil
	case "interval":
		expr := call("step", call("number", get))
		for _, s := range stops {
			expr = appendStop(expr, s.Input, s.Output, true)
		}
		return guardNumber(fn, get, fixupDegenerateStep(expr)), nil
	case "exponential":
		expr := call(interpolateOperator(fn), interpolation(fn), call("number", get))
		for _, s := range stops {
			expr = appendStop(expr, s.Input, s.Output, false)
		}
		return guardNumber(fn, get, expr), nil
	default:
		return nil, fmt.Errorf("%w: property function of type %q", ErrUnsupported, typ)
	}
}

// guardNumber falls back to function default for non numeric feature values.
func guardNumber(fn *style.LegacyFunction, get, expr style.Array) style.Value {
	if fn.Default == nil {
		return expr
	}
	return call("case",
		call("==", call("typeof", get), style.String("number")),
		expr,
		literal(fn.Default),
	)
}

func convertZoom(fn *style.LegacyFunction, prop *spec.Property, stops []style.Stop) (style.Value, error) {
	var (
		expr   style.Array
		isStep bool
	)
	switch typ := functionType(fn, prop); typ {
	case "interval":
		expr = call("step", call("zoom"))
		isStep = true
	case "exponential":
		expr = call(interpolateOperator(fn), interpolation(fn), call("zoom"))
	default:
		return nil, fmt.Errorf("%w: zoom function of type %q", ErrUnsupported, typ)
	}
	for _, s := range stops {
		expr = appendStop(expr, s.Input, s.Output, isStep)
	}
	return fixupDegenerateStep(expr), nil
}

// appendStop adds input/output pair to a curve. Repeated inputs are skipped,
// step curves do not get their first input.
func appendStop(curve style.Array, input, output style.Value, isStep bool) style.Array {
	if len(curve) > 3 && style.Equal(input, curve[len(curve)-2]) {
		return curve
	}
	if !isStep || len(curve) != 2 {
		curve = append(curve, input)
	}
	return append(curve, output)
}

// fixupDegenerateStep turns a constant step curve into a valid one by adding
// a no-op stop.
func fixupDegenerateStep(curve style.Array) style.Array {
	if len(curve) == 3 && style.Equal(curve[0], style.String("step")) {
		return append(curve, style.NumberOf(0), curve[2])
	}
	return curve
}

var tokenRe = regexp.MustCompile(`{([^{}]+)}`)

// convertTokenString turns "String with {name} token" into
// ["concat", "String with ", ["get", "name"], " token"].
func convertTokenString(s string) style.Value {
	matches := tokenRe.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return style.String(s)
	}
	expr := call("concat")
	pos := 0
	for _, m := range matches {
		if m[0] > pos {
			expr = append(expr, style.String(s[pos:m[0]]))
		}
		expr = append(expr, call("get", style.String(s[m[2]:m[3]])))
		pos = m[1]
	}
	if pos < len(s) {
		return append(expr, style.String(s[pos:]))
	}
	if len(expr) == 2 {
		return call("to-string", expr[1])
	}
	return expr
}

// literal wraps values which would otherwise be read as expressions.
func literal(v style.Value) style.Value {
	switch v.(type) {
	case style.Array, *style.Object, style.Null:
		return call("literal", v)
	}
	return v
}

func call(op string, args ...style.Value) style.Array {
	return append(style.Array{style.String(op)}, args...)
}
