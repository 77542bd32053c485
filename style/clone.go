package style

// Clone and deep copy functions for style documents.
// Migration never touches the parsed original, it works on a copy so both
// can be serialized for the diff.

// Clone creates a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	return &Document{
		root:   d.root.Clone(),
		Layers: cloneLayers(d.Layers),
	}
}

func cloneLayers(layers []*Layer) []*Layer {
	if layers == nil {
		return nil
	}
	result := make([]*Layer, len(layers))
	for i, l := range layers {
		result[i] = cloneLayer(l)
	}
	return result
}

func cloneLayer(l *Layer) *Layer {
	if l == nil {
		return nil
	}
	return &Layer{
		ID:     l.ID,
		Type:   l.Type,
		Ref:    l.Ref,
		HasRef: l.HasRef,
		Line:   l.Line,
		Paint:  cloneBlock(l.Paint),
		Layout: cloneBlock(l.Layout),
		fields: l.fields.Clone(),
	}
}

func cloneBlock(b *PropertyBlock) *PropertyBlock {
	if b == nil {
		return nil
	}
	result := &PropertyBlock{
		Line:       b.Line,
		properties: make([]Property, len(b.properties)),
	}
	for i, p := range b.properties {
		result.properties[i] = Property{
			Name:  p.Name,
			Value: clonePropertyValue(p.Value),
			Line:  p.Line,
		}
	}
	return result
}

func clonePropertyValue(v PropertyValue) PropertyValue {
	switch t := v.(type) {
	case Literal:
		return Literal{Value: Clone(t.Value)}
	case *LegacyFunction:
		return cloneFunction(t)
	}
	return v
}

func cloneFunction(f *LegacyFunction) *LegacyFunction {
	if f == nil {
		return nil
	}
	result := *f
	result.raw = f.raw.Clone()
	if f.Default != nil {
		result.Default = Clone(f.Default)
	}
	if f.Stops != nil {
		result.Stops = make([]Stop, len(f.Stops))
		for i, s := range f.Stops {
			result.Stops[i] = Stop{Input: Clone(s.Input), Output: Clone(s.Output)}
		}
	}
	return &result
}
