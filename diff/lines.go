// Package diff computes and renders line level difference between two
// serialized documents.
package diff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Chunk is a run of lines sharing the same classification. Texts of
// unchanged and removed chunks concatenated in order give the original text,
// unchanged and added ones give the new text.
type Chunk struct {
	Text string
	Kind Kind
}

type segment struct {
	equal bool
	a, b  []string
}

// Lines compares texts line by line.
func Lines(a, b string) []Chunk {
	al, bl := splitLines(a), splitLines(b)

	// no junk heuristics, formatted documents repeat bracket lines a lot
	m := difflib.NewMatcherWithJunk(al, bl, false, nil)

	var segs []segment
	for _, op := range m.GetOpCodes() {
		switch op.Tag {
		case 'e':
			segs = append(segs, segment{equal: true, a: al[op.I1:op.I2], b: bl[op.J1:op.J2]})
		case 'd', 'i', 'r':
			segs = append(segs, segment{a: al[op.I1:op.I2], b: bl[op.J1:op.J2]})
		}
	}
	return chunks(merge(fold(segs)))
}

// fold turns runs of punctuation only lines found between two changes into a
// change, so rewritten value shows as one region.
func fold(segs []segment) []segment {
	for i := 1; i < len(segs)-1; i++ {
		if segs[i].equal && !segs[i-1].equal && !segs[i+1].equal && trivial(segs[i].a) {
			segs[i].equal = false
		}
	}
	return segs
}

func merge(segs []segment) []segment {
	var out []segment
	for _, s := range segs {
		if n := len(out); n > 0 && !s.equal && !out[n-1].equal {
			out[n-1].a = append(out[n-1].a[:len(out[n-1].a):len(out[n-1].a)], s.a...)
			out[n-1].b = append(out[n-1].b[:len(out[n-1].b):len(out[n-1].b)], s.b...)
			continue
		}
		out = append(out, s)
	}
	return out
}

func chunks(segs []segment) []Chunk {
	var out []Chunk
	for _, s := range segs {
		if s.equal {
			out = append(out, Chunk{Text: strings.Join(s.a, ""), Kind: KindUnchanged})
			continue
		}
		if len(s.a) > 0 {
			out = append(out, Chunk{Text: strings.Join(s.a, ""), Kind: KindRemoved})
		}
		if len(s.b) > 0 {
			out = append(out, Chunk{Text: strings.Join(s.b, ""), Kind: KindAdded})
		}
	}
	return out
}

func trivial(lines []string) bool {
	for _, l := range lines {
		if strings.Trim(l, "[]{}, \t\r\n") != "" {
			return false
		}
	}
	return true
}

// splitLines keeps line terminators, last line may not have one.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Join concatenates texts of chunks of the given kinds.
func Join(chunks []Chunk, kinds ...Kind) string {
	var b strings.Builder
	for _, c := range chunks {
		for _, k := range kinds {
			if c.Kind == k {
				b.WriteString(c.Text)
				break
			}
		}
	}
	return b.String()
}

// Stats counts lines of each kind and number of changed regions.
type Stats struct {
	Unchanged int
	Added     int
	Removed   int
	Regions   int
}

func Count(chunks []Chunk) Stats {
	var (
		st      Stats
		changed bool
	)
	for _, c := range chunks {
		n := len(splitLines(c.Text))
		switch c.Kind {
		case KindUnchanged:
			st.Unchanged += n
			changed = false
			continue
		case KindAdded:
			st.Added += n
		case KindRemoved:
			st.Removed += n
		}
		if !changed {
			st.Regions++
			changed = true
		}
	}
	return st
}
