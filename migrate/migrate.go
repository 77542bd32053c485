// Package migrate rewrites legacy functions of a style document into
// expressions.
package migrate

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"stylemig/config"
	"stylemig/spec"
	"stylemig/style"
)

// ConvertFunc turns a legacy function into expression for a property with
// given specification.
type ConvertFunc func(fn *style.LegacyFunction, prop *spec.Property) (style.Value, error)

// Report describes what migration did.
type Report struct {
	// Converted lists paths of rewritten properties, "layers.<id>.<kind>.<name>".
	Converted []string
	// Skipped holds dangling reference errors of layers left unmigrated.
	Skipped []error
}

type Migrator struct {
	catalog *spec.Catalog
	convert ConvertFunc
	policy  config.DanglingRefPolicy
	log     *zap.Logger
}

func New(catalog *spec.Catalog, convert ConvertFunc, policy config.DanglingRefPolicy, log *zap.Logger) *Migrator {
	return &Migrator{
		catalog: catalog,
		convert: convert,
		policy:  policy,
		log:     log.Named("migrate"),
	}
}

// Document returns migrated copy of the document. The source document is not
// modified. Everything besides converted property values is kept as is.
func (m *Migrator) Document(doc *style.Document) (*style.Document, *Report, error) {
	out := doc.Clone()
	rpt := &Report{}

	for i, layer := range out.Layers {
		// every reference is checked, even on layers with nothing to convert
		layerType, err := ResolveType(layer, out.Layers)
		if err != nil {
			if errors.Is(err, ErrDanglingReference) && m.policy == config.DanglingRefPolicySkip {
				m.log.Warn("Layer left unmigrated", zap.String("layer", layer.ID), zap.Error(err))
				rpt.Skipped = append(rpt.Skipped, err)
				continue
			}
			return nil, nil, err
		}
		if layer.Paint == nil && layer.Layout == nil {
			continue
		}
		for _, kind := range style.BlockKindValues() {
			block := layer.Block(kind)
			if block == nil {
				continue
			}
			migrated, err := m.migrateBlock(block, layerType, kind, layer.ID, rpt)
			if err != nil {
				return nil, nil, err
			}
			layer = layer.WithBlock(kind, migrated)
		}
		out.Layers[i] = layer
	}

	m.log.Debug("Document migrated", zap.Int("converted", len(rpt.Converted)), zap.Int("skipped", len(rpt.Skipped)))
	return out, rpt, nil
}

// migrateBlock returns new block with the same properties in the same order
// where legacy functions are replaced by expressions.
func (m *Migrator) migrateBlock(block *style.PropertyBlock, layerType string, kind style.BlockKind, layerID string, rpt *Report) (*style.PropertyBlock, error) {
	out := style.NewPropertyBlock(block.Line)
	for _, p := range block.Properties() {
		fn, ok := p.Value.(*style.LegacyFunction)
		if !ok {
			out.Append(p)
			continue
		}
		prop, ok := m.catalog.Lookup(kind, layerType, p.Name)
		if !ok {
			return nil, &UnknownPropertyError{LayerID: layerID, LayerType: layerType, Kind: kind, Property: p.Name}
		}
		expr, err := m.convert(fn, prop)
		if err != nil {
			return nil, &ConversionError{LayerID: layerID, Kind: kind, Property: p.Name, Err: err}
		}
		out.Append(style.Property{Name: p.Name, Value: style.Literal{Value: expr}, Line: p.Line})

		path := fmt.Sprintf("layers.%s.%s.%s", layerID, kind, p.Name)
		rpt.Converted = append(rpt.Converted, path)
		m.log.Debug("Property converted", zap.String("path", path))
	}
	return out, nil
}
