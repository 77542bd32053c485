package diff

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// RenderOptions controls terminal presentation of chunks.
type RenderOptions struct {
	// Color enables ANSI coloring of added and removed lines.
	Color bool
	// Context is the number of unchanged lines kept around changes, negative
	// value keeps everything.
	Context int
}

type line struct {
	text string
	kind Kind
}

// Render writes chunks one line at a time prefixing them with "  ", "+ " or
// "- ". Unchanged lines further than Context from any change are replaced by
// a single marker line.
func Render(w io.Writer, chunks []Chunk, opts RenderOptions) error {
	added, removed := color.New(color.FgGreen), color.New(color.FgRed)
	marker := color.New(color.FgCyan)
	for _, c := range []*color.Color{added, removed, marker} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	var lines []line
	for _, c := range chunks {
		for _, l := range splitLines(c.Text) {
			lines = append(lines, line{text: trimEOL(l), kind: c.Kind})
		}
	}
	keep := visible(lines, opts.Context)

	for i := 0; i < len(lines); i++ {
		if !keep[i] {
			j := i
			for j < len(lines) && !keep[j] {
				j++
			}
			if _, err := marker.Fprintf(w, "@@ %d unchanged lines @@\n", j-i); err != nil {
				return err
			}
			i = j - 1
			continue
		}
		var err error
		switch l := lines[i]; l.kind {
		case KindAdded:
			_, err = added.Fprintln(w, "+ "+l.text)
		case KindRemoved:
			_, err = removed.Fprintln(w, "- "+l.text)
		default:
			_, err = fmt.Fprintln(w, "  "+l.text)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func visible(lines []line, context int) []bool {
	keep := make([]bool, len(lines))
	if context < 0 {
		for i := range keep {
			keep[i] = true
		}
		return keep
	}
	for i, l := range lines {
		if l.kind == KindUnchanged {
			continue
		}
		for j := max(0, i-context); j <= min(len(lines)-1, i+context); j++ {
			keep[j] = true
		}
	}
	return keep
}

func trimEOL(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\n' {
		s = s[:n-1]
		if n := len(s); n > 0 && s[n-1] == '\r' {
			s = s[:n-1]
		}
	}
	return s
}
