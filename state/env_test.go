package state

import (
	"context"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"stylemig/config"
)

func TestContextWithEnv(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	if env.start.IsZero() {
		t.Error("start time is not set")
	}
	if env.Stdin != os.Stdin || env.Stdout != os.Stdout {
		t.Error("standard streams are not set")
	}
	if env.Cfg != nil || env.Log != nil || env.Rpt != nil {
		t.Error("fresh environment must not be initialized")
	}
}

func TestEnvFromContext_Missing(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("EnvFromContext() expected panic")
		}
	}()
	EnvFromContext(context.Background())
}

func TestLocalEnv_Uptime(t *testing.T) {
	env := &LocalEnv{start: time.Now().Add(-time.Second)}
	if up := env.Uptime(); up < time.Second || up > time.Minute {
		t.Errorf("Uptime() = %v", up)
	}
}

func TestLocalEnv_StdLog(t *testing.T) {
	tests := []struct {
		name string
		log  *zap.Logger
	}{
		{name: "with logger", log: zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))},
		{name: "without logger"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := &LocalEnv{Log: tt.log}
			env.RedirectStdLog()
			if (env.restoreStdLog != nil) != (tt.log != nil) {
				t.Errorf("restoreStdLog set = %v", env.restoreStdLog != nil)
			}
			env.RestoreStdLog()
		})
	}
}

func TestLocalEnv_Pipeline(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	if _, err := env.Pipeline(); err == nil {
		t.Fatal("Pipeline() on uninitialized environment expected error")
	}

	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	cfg.Format.Indent = 4
	env.Cfg, env.Log = cfg, zaptest.NewLogger(t)

	p, err := env.Pipeline()
	if err != nil {
		t.Fatalf("Pipeline() error = %v", err)
	}
	if p.Formatter().Indent != 4 {
		t.Errorf("Formatter().Indent = %d, want 4", p.Formatter().Indent)
	}

	// built once
	cfg.Format.Indent = 2
	again, err := env.Pipeline()
	if err != nil || again != p {
		t.Errorf("Pipeline() = %p, %v; want cached %p", again, err, p)
	}
}
