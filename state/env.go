// Package state defines shared program state.
package state

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"stylemig/config"
	"stylemig/pipeline"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// standard streams, replaced in tests
	Stdin  io.Reader
	Stdout io.Writer

	pipeline      *pipeline.Pipeline
	start         time.Time
	restoreStdLog func()
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

// Pipeline returns migration pipeline built from configuration on first use.
// Configuration changes made later are not picked up.
func (e *LocalEnv) Pipeline() (*pipeline.Pipeline, error) {
	if e.pipeline != nil {
		return e.pipeline, nil
	}
	if e.Cfg == nil || e.Log == nil {
		return nil, errors.New("program environment is not initialized")
	}
	p, err := pipeline.FromConfig(e.Cfg, e.Log)
	if err != nil {
		return nil, fmt.Errorf("unable to prepare migration: %w", err)
	}
	e.pipeline = p
	return p, nil
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}
