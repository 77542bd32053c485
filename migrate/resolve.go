package migrate

import (
	"stylemig/style"
)

// ResolveType returns layer type used to look up property specifications.
// Reference layers take type of the layer they point to, chains of references
// are followed to the end. Missing targets and cycles are dangling references.
func ResolveType(layer *style.Layer, layers []*style.Layer) (string, error) {
	seen := make(map[*style.Layer]bool)
	cur := layer
	for cur.HasRef {
		if seen[cur] {
			return "", &DanglingReferenceError{LayerID: layer.ID, Ref: layer.Ref}
		}
		seen[cur] = true

		target := findLayer(layers, cur.Ref)
		if target == nil {
			return "", &DanglingReferenceError{LayerID: layer.ID, Ref: cur.Ref}
		}
		cur = target
	}
	return cur.Type, nil
}

func findLayer(layers []*style.Layer, id string) *style.Layer {
	for _, l := range layers {
		if l.ID == id {
			return l
		}
	}
	return nil
}
