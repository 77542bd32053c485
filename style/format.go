package style

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/maruel/natural"
)

// Formatter is the canonical pretty printer used for both sides of a diff.
// Containers which fit into MaxWidth (counting indentation and the key in
// front of them) are printed on a single line, others are expanded one item
// per line. MaxWidth 0 expands every non-empty container.
type Formatter struct {
	Indent   int
	MaxWidth int
	// SortKeys orders object keys naturally instead of keeping source order.
	SortKeys bool
}

// DefaultFormatter uses json-stringify-pretty-compact defaults.
var DefaultFormatter = Formatter{Indent: 2, MaxWidth: 80}

// Format serializes document with trailing new line.
func (f Formatter) Format(doc *Document) string {
	return f.FormatValue(doc.JSON()) + "\n"
}

// FormatValue serializes single value without trailing new line.
func (f Formatter) FormatValue(v Value) string {
	return f.format(v, "", 0)
}

func (f Formatter) unit() string {
	if f.Indent <= 0 {
		return "  "
	}
	return strings.Repeat(" ", f.Indent)
}

func (f Formatter) keys(o *Object) []string {
	keys := o.Keys()
	if f.SortKeys {
		slices.SortStableFunc(keys, func(a, b string) int {
			switch {
			case natural.Less(a, b):
				return -1
			case natural.Less(b, a):
				return 1
			}
			return 0
		})
	}
	return keys
}

// format mirrors json-stringify-pretty-compact: reserved is the number of
// characters which will follow the value on its line (a key in front, a comma
// after).
func (f Formatter) format(v Value, indent string, reserved int) string {
	single := f.compact(v)
	if f.MaxWidth > 0 && utf8.RuneCountInString(single) <= f.MaxWidth-len(indent)-reserved {
		return single
	}

	next := indent + f.unit()
	var (
		items      []string
		start, end string
	)
	switch t := v.(type) {
	case Array:
		start, end = "[", "]"
		for i, e := range t {
			items = append(items, f.format(e, next, trailing(i, len(t))))
		}
	case *Object:
		start, end = "{", "}"
		keys := f.keys(t)
		for i, k := range keys {
			e, _ := t.Get(k)
			keyPart := quote(k) + ": "
			items = append(items, keyPart+f.format(e, next, len(keyPart)+trailing(i, len(keys))))
		}
	}
	if len(items) == 0 {
		return single
	}
	return start + "\n" + next + strings.Join(items, ",\n"+next) + "\n" + indent + end
}

func trailing(i, n int) int {
	if i == n-1 {
		return 0
	}
	return 1
}

func (f Formatter) compact(v Value) string {
	switch t := v.(type) {
	case nil, Null:
		return "null"
	case Bool:
		if t {
			return "true"
		}
		return "false"
	case Number:
		return t.String()
	case String:
		return quote(string(t))
	case Array:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = f.compact(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *Object:
		keys := f.keys(t)
		parts := make([]string, len(keys))
		for i, k := range keys {
			e, _ := t.Get(k)
			parts[i] = quote(k) + ": " + f.compact(e)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	panic(fmt.Sprintf("unexpected value type %T", v))
}

// quote produces JSON string literal escaping the way JSON.stringify does.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
