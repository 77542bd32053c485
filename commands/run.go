// Package commands implements program subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"stylemig/config"
	"stylemig/diff"
	"stylemig/editor"
	"stylemig/pipeline"
	"stylemig/state"
	"stylemig/validate"
)

// process runs complete pipeline for text and stores the run in debug report.
func process(env *state.LocalEnv, log *zap.Logger, name, text string) (*pipeline.Result, error) {
	p, err := env.Pipeline()
	if err != nil {
		return nil, err
	}
	res := p.Run(text)
	storeRun(env, name, text, res)

	for _, verr := range res.Validation {
		log.Debug("Validation error", zap.Int("line", verr.Line), zap.String("problem", verr.Message))
	}
	if res.Report != nil {
		for _, err := range res.Report.Skipped {
			log.Warn("Layer was not migrated", zap.Error(err))
		}
	}
	return res, nil
}

// printFailure writes validation errors one per line, or a single error.
func printFailure(w io.Writer, res *pipeline.Result) error {
	if len(res.Validation) == 0 {
		_, err := fmt.Fprintf(w, "error: %v\n", res.Err)
		return err
	}
	for _, verr := range res.Validation {
		if _, err := fmt.Fprintln(w, verr.Error()); err != nil {
			return err
		}
	}
	return nil
}

func failure(name string, res *pipeline.Result) error {
	if len(res.Validation) > 0 {
		return fmt.Errorf("style %s is not valid (%d errors): %w", name, len(res.Validation), res.Failure())
	}
	return fmt.Errorf("unable to migrate style %s: %w", name, res.Err)
}

func tooManyArgs(log *zap.Logger, cmd *cli.Command, max int) {
	if cmd.Args().Len() > max {
		log.Warn("Malformed command line, too many arguments", zap.Strings("ignoring", cmd.Args().Slice()[max:]))
	}
}

// Migrate converts legacy functions of the source style and writes result.
func Migrate(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("migrate")
	tooManyArgs(log, cmd, 2)

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	dst, err := destinationPath(src, cmd.Args().Get(1), cmd.Bool("overwrite"))
	if err != nil {
		return err
	}
	if cmd.Bool("skip-dangling") {
		env.Cfg.Migration.DanglingRef = config.DanglingRefPolicySkip
	}

	text, name, err := readSource(env, src, false)
	if err != nil {
		return err
	}
	res, err := process(env, log, name, text)
	if err != nil {
		return err
	}
	if res.Failure() != nil {
		return failure(name, res)
	}

	if len(dst) == 0 {
		if _, err := io.WriteString(env.Stdout, res.Output); err != nil {
			return fmt.Errorf("unable to write migrated style: %w", err)
		}
	} else if err := os.WriteFile(dst, []byte(res.Output), 0644); err != nil {
		return fmt.Errorf("unable to write migrated style: %w", err)
	}

	st := diff.Count(res.Chunks)
	log.Info("Style migrated", zap.String("source", name), zap.String("destination", destName(dst)),
		zap.Int("converted", len(res.Report.Converted)), zap.Int("skipped", len(res.Report.Skipped)),
		zap.Int("changed regions", st.Regions), zap.Duration("elapsed", res.Elapsed))
	return nil
}

func destName(dst string) string {
	if len(dst) == 0 || dst == stdinName {
		return "STDOUT"
	}
	return dst
}

// Diff shows line differences between source style and its migrated form.
func Diff(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("diff")
	tooManyArgs(log, cmd, 1)

	if cmd.Bool("skip-dangling") {
		env.Cfg.Migration.DanglingRef = config.DanglingRefPolicySkip
	}
	text, name, err := readSource(env, cmd.Args().Get(0), true)
	if err != nil {
		return err
	}
	res, err := process(env, log, name, text)
	if err != nil {
		return err
	}
	if res.Failure() != nil {
		if err := printFailure(env.Stdout, res); err != nil {
			return err
		}
		return failure(name, res)
	}

	opts := diff.RenderOptions{
		Color:   env.Cfg.Diff.Color.Colorize(env.Stdout),
		Context: env.Cfg.Diff.Context,
	}
	if cmd.IsSet("context") {
		opts.Context = cmd.Int("context")
	}
	if err := diff.Render(env.Stdout, res.Chunks, opts); err != nil {
		return fmt.Errorf("unable to output diff: %w", err)
	}
	if cmd.Bool("stats") {
		if err := printStats(env.Stdout, res); err != nil {
			return err
		}
	}
	return nil
}

func printStats(w io.Writer, res *pipeline.Result) error {
	st := diff.Count(res.Chunks)
	_, err := fmt.Fprintf(w, "%d converted, %d regions changed, %d lines removed, %d lines added, %d lines unchanged\n",
		len(res.Report.Converted), st.Regions, st.Removed, st.Added, st.Unchanged)
	return err
}

// Validate checks source style and lists problems found.
func Validate(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("validate")
	tooManyArgs(log, cmd, 1)

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	text, name, err := readSource(env, src, false)
	if err != nil {
		return err
	}

	errs := validate.Validate(text)
	for _, verr := range errs {
		if _, err := fmt.Fprintln(env.Stdout, verr.Error()); err != nil {
			return err
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("style %s is not valid (%d errors)", name, len(errs))
	}
	log.Info("Style is valid", zap.String("source", name))
	return nil
}

// Watch keeps migrating style file every time it changes and prints diff
// until interrupted.
func Watch(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("watch")
	tooManyArgs(log, cmd, 1)

	path := cmd.Args().Get(0)
	if len(path) == 0 {
		path = env.Cfg.Editor.InitialPath
	}
	if len(path) == 0 || path == stdinName {
		return errors.New("no style file to watch has been specified")
	}
	interval := env.Cfg.Editor.PollInterval
	if cmd.IsSet("interval") {
		interval = cmd.Duration("interval")
	}
	if interval <= 0 {
		return fmt.Errorf("invalid poll interval %v", interval)
	}

	p, err := env.Pipeline()
	if err != nil {
		return err
	}
	text, err := editor.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read style to watch: %w", err)
	}
	c := editor.New(p, text, env.Log)

	opts := diff.RenderOptions{
		Color:   env.Cfg.Diff.Color.Colorize(env.Stdout),
		Context: env.Cfg.Diff.Context,
	}

	log.Info("Watching style", zap.String("path", path), zap.Duration("interval", interval))
	err = c.Watch(ctx, path, interval, func(res *pipeline.Result) {
		storeRun(env, path, c.Text(), res)

		_, err := fmt.Fprintf(env.Stdout, "=== %s\n", path)
		if err == nil {
			if res.Failure() != nil {
				err = printFailure(env.Stdout, res)
			} else if err = diff.Render(env.Stdout, res.Chunks, opts); err == nil {
				err = printStats(env.Stdout, res)
			}
		}
		if err != nil {
			log.Warn("Unable to output result", zap.Error(err))
		}
	})
	log.Info("Watching stopped", zap.Duration("elapsed", env.Uptime()))
	return err
}
