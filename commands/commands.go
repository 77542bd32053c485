package commands

import (
	"fmt"

	cli "github.com/urfave/cli/v3"
)

const sourceHelp = `
SOURCE:
    path to a style document (JSON, version 8), "-" reads standard input
    UTF-8 and UTF-16 byte order marks are recognized
`

// List returns all style processing subcommands. onUsageError is installed
// into every one of them.
func List(onUsageError cli.OnUsageErrorFunc) []*cli.Command {
	return []*cli.Command{
		{
			Name:         "migrate",
			Usage:        "Converts legacy zoom and property functions of a style to expressions",
			OnUsageError: onUsageError,
			Action:       Migrate,
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "continue even if destination exists, overwrite file"},
				&cli.BoolFlag{Name: "skip-dangling", Usage: "leave layers referencing missing layers unmigrated instead of failing"},
			},
			ArgsUsage: "SOURCE [DESTINATION]",
			CustomHelpTemplate: fmt.Sprintf(`%s%s
DESTINATION:
    file or directory to write migrated style to, if absent or "-" - STDOUT
    when directory is specified file name is derived from SOURCE
`, cli.CommandHelpTemplate, sourceHelp),
		},
		{
			Name:         "diff",
			Usage:        "Shows line differences between a style and its migrated form",
			OnUsageError: onUsageError,
			Action:       Diff,
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "context", Aliases: []string{"U"}, Usage: "number of unchanged `LINES` around changes, -1 shows everything (default from configuration)"},
				&cli.BoolFlag{Name: "stats", Usage: "print summary after diff"},
				&cli.BoolFlag{Name: "skip-dangling", Usage: "leave layers referencing missing layers unmigrated instead of failing"},
			},
			ArgsUsage: "[SOURCE]",
			CustomHelpTemplate: fmt.Sprintf(`%s%s
    if absent - configured initial style or built-in sample
`, cli.CommandHelpTemplate, sourceHelp),
		},
		{
			Name:         "validate",
			Usage:        "Checks a style and lists problems preventing migration",
			OnUsageError: onUsageError,
			Action:       Validate,
			ArgsUsage:    "SOURCE",
			CustomHelpTemplate: fmt.Sprintf(`%s%s`, cli.CommandHelpTemplate, sourceHelp),
		},
		{
			Name:         "watch",
			Usage:        "Migrates style file on every change and prints diff until interrupted",
			OnUsageError: onUsageError,
			Action:       Watch,
			Flags: []cli.Flag{
				&cli.DurationFlag{Name: "interval", Usage: "file polling `INTERVAL` (default from configuration)"},
			},
			ArgsUsage: "[FILE]",
			CustomHelpTemplate: fmt.Sprintf(`%s
FILE:
    path to a style document to watch, if absent - configured initial style path
`, cli.CommandHelpTemplate),
		},
	}
}
