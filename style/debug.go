package style

import (
	"fmt"
	"strconv"

	"stylemig/utils/debug"
)

type treeWriter struct {
	*debug.TreeWriter
}

// String returns a readable tree of the typed document: layers, their blocks
// and the kind of every property value. It exists for debug reports.
func (d *Document) String() string {
	if d == nil {
		return "<nil Document>"
	}
	return treeWriter{debug.NewTreeWriter()}.document(d).String()
}

func (tw treeWriter) document(d *Document) treeWriter {
	tw.Line(0, "Document version=%d layers=%d", d.Version(), len(d.Layers))
	for k, v := range d.root.Members() {
		if k == "layers" {
			continue
		}
		tw.Line(1, "%s: %s", k, TypeName(v))
	}
	for i, l := range d.Layers {
		tw.layer(1, i, l)
	}
	return tw
}

func (tw treeWriter) layer(depth, i int, l *Layer) {
	tw.Fields(depth, fmt.Sprintf("Layer[%d]", i), "id", l.ID, "type", l.Type, "ref", l.Ref, "line", strconv.Itoa(l.Line))
	for _, kind := range BlockKindValues() {
		block := l.Block(kind)
		if block == nil {
			continue
		}
		tw.Line(depth+1, "%s properties=%d", kind, block.Len())
		for _, p := range block.properties {
			tw.property(depth+2, p)
		}
	}
}

func (tw treeWriter) property(depth int, p Property) {
	switch v := p.Value.(type) {
	case *LegacyFunction:
		kind := "zoom"
		switch {
		case v.IsZoomAndProperty():
			kind = "zoom-and-property"
		case v.Property != "":
			kind = "property"
		}
		tw.Fields(depth, p.Name, "function", kind, "type", v.Type, "property", v.Property, "stops", strconv.Itoa(len(v.Stops)))
	case Literal:
		tw.TextBlock(depth, p.Name, DefaultFormatter.compact(v.Value))
	}
}
