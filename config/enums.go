package config

import (
	"io"
	"os"
)

// What to do with a layer which references missing layer.
// ENUM(abort, skip)
type DanglingRefPolicy int

// When to colorize terminal output.
// ENUM(auto, always, never)
type ColorMode int

// Colorize decides whether output written to w gets colors. In auto mode
// only terminals are colored.
func (x ColorMode) Colorize(w io.Writer) bool {
	switch x {
	case ColorModeAlways:
		return true
	case ColorModeNever:
		return false
	}
	f, ok := w.(*os.File)
	return ok && EnableColorOutput(f)
}
