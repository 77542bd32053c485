package config

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// EnableColorOutput checks if colorized output to stream is possible. NO_COLOR
// environment variable disables colors everywhere.
func EnableColorOutput(stream *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return term.IsTerminal(int(stream.Fd())) && prepareConsole(stream)
}

// CleanFileName removes characters not allowed in file names and leading dots.
func CleanFileName(in string) string {
	out := strings.TrimLeft(strings.Map(func(sym rune) rune {
		if sym == 0 || strings.ContainsRune(forbiddenInFileName, sym) {
			return -1
		}
		return sym
	}, in), ".")
	if len(out) == 0 {
		out = "_bad_file_name_"
	}
	return out
}
