package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"stylemig/config"
	"stylemig/editor"
	"stylemig/state"
)

// stdinName is the argument which selects standard input as a source or
// standard output as a destination.
const stdinName = "-"

// readSource returns style text and a name for it. Empty src is replaced by
// configured initial style when allowed.
func readSource(env *state.LocalEnv, src string, allowDefault bool) (text, name string, err error) {
	switch src {
	case "":
		if !allowDefault {
			return "", "", errors.New("no input source has been specified")
		}
		text, err = editor.InitialText(&env.Cfg.Editor)
		if err != nil {
			return "", "", err
		}
		name = "default"
		if env.Cfg.Editor.InitialPath != "" {
			name = env.Cfg.Editor.InitialPath
		}
		return text, name, nil
	case stdinName:
		text, err = editor.ReadText(env.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("unable to read standard input: %w", err)
		}
		return text, "stdin", nil
	}

	text, err = editor.ReadFile(src)
	if err != nil {
		return "", "", fmt.Errorf("unable to read source: %w", err)
	}
	return text, src, nil
}

// defaultFileName builds name of the migrated style placed into a directory.
func defaultFileName(src string) string {
	base := filepath.Base(src)
	if src == stdinName || src == "" {
		base = "style"
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return config.CleanFileName(base) + ".migrated.json"
}

// destinationPath resolves where to write migrated style. Empty result means
// standard output.
func destinationPath(src, dst string, overwrite bool) (string, error) {
	if dst == "" || dst == stdinName {
		return "", nil
	}
	dst, err := filepath.Abs(dst)
	if err != nil {
		return "", err
	}
	if fi, err := os.Stat(dst); err == nil && fi.IsDir() {
		dst = filepath.Join(dst, defaultFileName(src))
	}
	if fi, err := os.Stat(dst); err == nil {
		if fi.IsDir() {
			return "", fmt.Errorf("destination is a directory (%s)", dst)
		}
		if !overwrite {
			return "", fmt.Errorf("destination already exists (%s)", dst)
		}
	}
	return dst, nil
}
