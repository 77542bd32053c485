package style

// Property block of a layer.
// ENUM(paint, layout)
type BlockKind string
