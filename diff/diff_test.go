package diff

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLines_Reconstruct(t *testing.T) {
	tests := []struct {
		name string
		a, b string
	}{
		{name: "identical", a: "a\nb\n", b: "a\nb\n"},
		{name: "both empty"},
		{name: "from empty", b: "x\ny\n"},
		{name: "to empty", a: "x\ny\n"},
		{name: "no trailing new line", a: "a\nb", b: "a\nc"},
		{name: "interleaved", a: "1\n2\n3\n4\n5\n", b: "0\n1\n3\n4\n4.5\n5\n6\n"},
		{name: "bracket noise", a: "{\n  \"a\": {\n    \"x\": 1\n  },\n  \"b\": 2\n}\n", b: "{\n  \"a\": [\n    \"y\"\n  ],\n  \"b\": 2\n}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Lines(tt.a, tt.b)
			if got := Join(chunks, KindUnchanged, KindRemoved); got != tt.a {
				t.Errorf("original reconstruction = %q, want %q", got, tt.a)
			}
			if got := Join(chunks, KindUnchanged, KindAdded); got != tt.b {
				t.Errorf("new reconstruction = %q, want %q", got, tt.b)
			}
		})
	}
}

func TestLines(t *testing.T) {
	got := Lines("a\nb\nc\n", "a\nx\nc\n")
	want := []Chunk{
		{Text: "a\n", Kind: KindUnchanged},
		{Text: "b\n", Kind: KindRemoved},
		{Text: "x\n", Kind: KindAdded},
		{Text: "c\n", Kind: KindUnchanged},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Lines() mismatch (-want +got):\n%s", diff)
	}
}

func TestLines_FoldsPunctuation(t *testing.T) {
	a := "{\n  \"v\": {\n    \"p\": 1,\n    \"s\": [\n      1\n    ]\n  },\n  \"k\": 1\n}\n"
	b := "{\n  \"v\": [\n    \"i\",\n    [\n      2\n    ]\n  ],\n  \"k\": 1\n}\n"

	chunks := Lines(a, b)
	st := Count(chunks)
	if st.Regions != 1 {
		t.Errorf("Regions = %d, want 1, chunks: %+v", st.Regions, chunks)
	}
	if got := Join(chunks, KindUnchanged, KindRemoved); got != a {
		t.Errorf("original reconstruction = %q", got)
	}
	if got := Join(chunks, KindUnchanged, KindAdded); got != b {
		t.Errorf("new reconstruction = %q", got)
	}
}

func TestCount(t *testing.T) {
	chunks := []Chunk{
		{Text: "a\nb\n", Kind: KindUnchanged},
		{Text: "c\n", Kind: KindRemoved},
		{Text: "d\ne\n", Kind: KindAdded},
		{Text: "f\n", Kind: KindUnchanged},
		{Text: "g\n", Kind: KindAdded},
	}
	want := Stats{Unchanged: 3, Added: 3, Removed: 1, Regions: 2}
	if diff := cmp.Diff(want, Count(chunks)); diff != "" {
		t.Errorf("Count() mismatch (-want +got):\n%s", diff)
	}
}

func TestRender(t *testing.T) {
	chunks := []Chunk{
		{Text: "1\n2\n3\n4\n", Kind: KindUnchanged},
		{Text: "5\n", Kind: KindRemoved},
		{Text: "five\n", Kind: KindAdded},
		{Text: "6\n7\n8\n", Kind: KindUnchanged},
	}

	tests := []struct {
		name    string
		context int
		want    string
	}{
		{
			name:    "everything",
			context: -1,
			want:    "  1\n  2\n  3\n  4\n- 5\n+ five\n  6\n  7\n  8\n",
		},
		{
			name:    "one line of context",
			context: 1,
			want:    "@@ 3 unchanged lines @@\n  4\n- 5\n+ five\n  6\n@@ 2 unchanged lines @@\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Render(&buf, chunks, RenderOptions{Context: tt.context}); err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("Render() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestRender_Color(t *testing.T) {
	var buf bytes.Buffer
	chunks := []Chunk{{Text: "x\n", Kind: KindAdded}, {Text: "y\n", Kind: KindRemoved}}
	if err := Render(&buf, chunks, RenderOptions{Color: true, Context: -1}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "\x1b[32m") || !strings.Contains(out, "\x1b[31m") {
		t.Errorf("Render() output is not colored: %q", out)
	}
}
