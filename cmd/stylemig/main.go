package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"stylemig/commands"
	"stylemig/config"
	"stylemig/misc"
	"stylemig/state"
)

// setup runs after command line is parsed and before any subcommand: loads
// configuration, opens debug report and logs.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.NArg() == 0 {
		// help will be shown, nothing to prepare
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)

	var err error
	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.IsSet("color") {
		if env.Cfg.Diff.Color, err = config.ParseColorMode(cmd.String("color")); err != nil {
			return ctx, fmt.Errorf("bad color mode: %w", err)
		}
	}

	if cmd.Bool("debug") {
		if env.Rpt, err = env.Cfg.Reporting.Prepare(); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug report: %w", err)
		}
		if len(configFile) > 0 {
			// file as given and what it resulted in
			if err := env.Rpt.StoreCopy("config/"+filepath.Base(configFile), configFile); err != nil {
				return ctx, fmt.Errorf("unable to store configuration in debug report: %w", err)
			}
		}
		if data, err := config.Dump(env.Cfg); err == nil {
			env.Rpt.StoreData("config/effective.yaml", data)
		}
	}

	if env.Log, err = env.Cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started",
		zap.Strings("args", os.Args),
		zap.String("ver", misc.GetVersion()),
		zap.String("runtime", runtime.Version()),
		zap.String("hash", misc.GetGitHash()))
	if env.Rpt != nil {
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
	if len(configFile) == 0 {
		env.Log.Debug("Using defaults (no configuration file)")
	}
	return ctx, nil
}

// teardown flushes logs and closes debug report. From here on errors can only
// go to stderr.
func teardown(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("args", cmd.Args().Slice()))
	}
	env.RestoreStdLog()

	if env.Rpt != nil {
		if e := env.Rpt.Close(); e != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", e))
		}
	}

	if env.Cfg == nil || len(env.Cfg.Logging.FileLogger.Destination) == 0 {
		return err
	}
	// panic log is useless when nothing panicked
	debug.SetCrashOutput(nil, debug.CrashOptions{})
	fname := filepath.Join(filepath.Dir(env.Cfg.Logging.FileLogger.Destination), misc.GetAppName()+"-panic.log")
	if fi, e := os.Stat(fname); e == nil && fi.Size() == 0 {
		if e := os.Remove(fname); e != nil {
			err = multierr.Append(err, fmt.Errorf("unable to remove empty panic log '%s': %w", fname, e))
		}
	}
	return err
}

// Subcommands return plain errors, urfave/cli exit coders are not used.
var errLogged bool

// logError runs before teardown so error still gets into the log.
func logError(ctx context.Context, _ *cli.Command, err error) {
	if env := state.EnvFromContext(ctx); env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errLogged = true
	}
}

func usageError(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func unknownCommand(ctx context.Context, _ *cli.Command, name string) {
	if env := state.EnvFromContext(ctx); env.Log != nil {
		env.Log.Warn("Unknown command, nothing to do", zap.String("command", name))
	}
}

func main() {
	// watch runs until interrupted
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "migrates legacy zoom and property functions of map styles to expressions",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          setup,
		After:           teardown,
		OnUsageError:    usageError,
		ExitErrHandler:  logError,
		CommandNotFound: unknownCommand,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log everything and produce report archive to help troubleshooting"},
			&cli.StringFlag{Name: "color", Usage: "colorize diff output, `MODE` is one of: " + strings.Join(config.ColorModeNames(), ", ")},
		},
		Commands: append(commands.List(usageError), &cli.Command{
			Name:  "dumpconfig",
			Usage: "Dumps either default or actual configuration (YAML)",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
			},
			OnUsageError: usageError,
			Action:       commands.DumpConfig,
			ArgsUsage:    "[DESTINATION]",
			CustomHelpTemplate: fmt.Sprintf(`%s
DESTINATION:
    file name to write configuration to, if absent - STDOUT

Actual configuration is the embedded defaults with configuration file values
applied on top. Use --default to see the embedded defaults only.
`, cli.CommandHelpTemplate),
		}),
	}

	var err error
	// os.Exit skips deferred calls, this has to be the only one
	defer func() {
		stop()
		if err != nil {
			if !errLogged {
				// log is not ready yet or already closed
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}
