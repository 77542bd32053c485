package diff

// Classification of a diff chunk.
// ENUM(unchanged, added, removed)
type Kind int
