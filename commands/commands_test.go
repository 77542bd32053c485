package commands

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"stylemig/config"
	"stylemig/migrate"
	"stylemig/pipeline"
	"stylemig/state"
)

const placesStyle = `{
  "version": 8,
  "sources": {"osm": {"type": "vector", "url": "mapbox://osm"}},
  "layers": [
    {"id": "water", "type": "fill", "source": "osm", "paint": {"fill-color": "#00f"}},
    {
      "id": "places",
      "type": "circle",
      "source": "osm",
      "paint": {
        "circle-radius": {"property": "scalerank", "stops": [[{"zoom": 0, "value": 0}, 1], [{"zoom": 14, "value": 5}, 10]]}
      }
    }
  ]
}
`

const danglingStyle = `{"version": 8, "sources": {}, "layers": [
  {"id": "a", "ref": "missing", "paint": {"circle-radius": {"stops": [[0, 1], [10, 4]]}}},
  {"id": "b", "type": "line", "paint": {"line-width": {"stops": [[0, 1], [10, 4]]}}}
]}`

// syncBuffer is written by watch goroutine and read by the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newEnv(t *testing.T) (context.Context, *state.LocalEnv, *syncBuffer) {
	t.Helper()
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)

	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	out := &syncBuffer{}
	env.Cfg, env.Log, env.Stdout, env.Stdin = cfg, zaptest.NewLogger(t), out, strings.NewReader("")
	return ctx, env, out
}

func runCommand(ctx context.Context, name string, args ...string) error {
	for _, c := range List(nil) {
		if c.Name == name {
			return c.Run(ctx, append([]string{name}, args...))
		}
	}
	return errors.New("unknown command " + name)
}

func writeFile(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMigrate_ToDirectory(t *testing.T) {
	ctx, _, out := newEnv(t)
	dir := t.TempDir()
	src := writeFile(t, dir, "places.json", placesStyle)
	dstDir := filepath.Join(dir, "out")
	if err := os.Mkdir(dstDir, 0755); err != nil {
		t.Fatal(err)
	}

	if err := runCommand(ctx, "migrate", src, dstDir); err != nil {
		t.Fatalf("migrate error = %v", err)
	}
	dst := filepath.Join(dstDir, "places.migrated.json")
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("migrated file was not written: %v", err)
	}
	if !strings.Contains(string(data), `"interpolate"`) || strings.Contains(string(data), `"stops"`) {
		t.Errorf("migrated style:\n%s", data)
	}
	if out.String() != "" {
		t.Errorf("stdout = %q, want nothing", out.String())
	}

	if err := runCommand(ctx, "migrate", src, dstDir); err == nil {
		t.Error("migrate over existing file expected error")
	}
	if err := runCommand(ctx, "migrate", "--overwrite", src, dst); err != nil {
		t.Errorf("migrate --overwrite error = %v", err)
	}
}

func TestMigrate_Stdin(t *testing.T) {
	ctx, env, out := newEnv(t)
	env.Stdin = strings.NewReader("\ufeff" + placesStyle)

	if err := runCommand(ctx, "migrate", "-"); err != nil {
		t.Fatalf("migrate error = %v", err)
	}
	if !strings.Contains(out.String(), `"interpolate"`) {
		t.Errorf("stdout:\n%s", out.String())
	}
}

func TestMigrate_Errors(t *testing.T) {
	dir := t.TempDir()
	invalid := writeFile(t, dir, "invalid.json", `{"version": 7, "sources": {}, "layers": []}`)
	dangling := writeFile(t, dir, "dangling.json", danglingStyle)

	t.Run("no source", func(t *testing.T) {
		ctx, _, _ := newEnv(t)
		if err := runCommand(ctx, "migrate"); err == nil {
			t.Error("expected error")
		}
	})
	t.Run("missing source", func(t *testing.T) {
		ctx, _, _ := newEnv(t)
		if err := runCommand(ctx, "migrate", filepath.Join(dir, "absent.json")); err == nil {
			t.Error("expected error")
		}
	})
	t.Run("invalid", func(t *testing.T) {
		ctx, _, out := newEnv(t)
		err := runCommand(ctx, "migrate", invalid)
		if !pipeline.IsValidationFailure(err) {
			t.Errorf("error = %v, want validation failure", err)
		}
		if out.String() != "" {
			t.Errorf("stdout = %q, want nothing", out.String())
		}
	})
	t.Run("dangling", func(t *testing.T) {
		ctx, _, _ := newEnv(t)
		if err := runCommand(ctx, "migrate", dangling); !errors.Is(err, migrate.ErrDanglingReference) {
			t.Errorf("error = %v, want dangling reference", err)
		}
	})
	t.Run("skip dangling", func(t *testing.T) {
		ctx, _, out := newEnv(t)
		if err := runCommand(ctx, "migrate", "--skip-dangling", dangling); err != nil {
			t.Fatalf("error = %v", err)
		}
		got := out.String()
		if !strings.Contains(got, `"circle-radius": {"stops": [[0, 1], [10, 4]]}`) {
			t.Errorf("skipped layer must keep legacy function:\n%s", got)
		}
		if !strings.Contains(got, `"line-width": ["interpolate"`) {
			t.Errorf("other layers must be migrated:\n%s", got)
		}
	})
}

func TestDiff(t *testing.T) {
	t.Run("default style", func(t *testing.T) {
		ctx, _, out := newEnv(t)
		if err := runCommand(ctx, "diff", "--stats"); err != nil {
			t.Fatalf("diff error = %v", err)
		}
		got := out.String()
		if !strings.Contains(got, "\n- ") || !strings.Contains(got, "\n+ ") {
			t.Errorf("diff has no changes:\n%s", got)
		}
		if !strings.Contains(got, "6 converted") {
			t.Errorf("diff has no stats:\n%s", got)
		}
		if strings.Contains(got, "\x1b[") {
			t.Errorf("diff to buffer must not be colored:\n%s", got)
		}
	})
	t.Run("full context", func(t *testing.T) {
		ctx, env, out := newEnv(t)
		env.Cfg.Diff.Color = config.ColorModeAlways
		src := writeFile(t, t.TempDir(), "places.json", placesStyle)
		if err := runCommand(ctx, "diff", "--context=-1", src); err != nil {
			t.Fatalf("diff error = %v", err)
		}
		got := out.String()
		if strings.Contains(got, "@@") {
			t.Errorf("full context diff has hidden lines:\n%s", got)
		}
		if !strings.Contains(got, "\x1b[31m") {
			t.Errorf("diff is not colored:\n%s", got)
		}
	})
	t.Run("invalid", func(t *testing.T) {
		ctx, env, out := newEnv(t)
		env.Stdin = strings.NewReader(`{"version": 8, "layers": [`)
		if err := runCommand(ctx, "diff", "-"); err == nil {
			t.Fatal("diff expected error")
		}
		if !strings.HasPrefix(out.String(), "line ") {
			t.Errorf("stdout = %q, want validation errors", out.String())
		}
	})
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()

	ctx, _, out := newEnv(t)
	if err := runCommand(ctx, "validate", writeFile(t, dir, "ok.json", placesStyle)); err != nil {
		t.Errorf("validate error = %v", err)
	}
	if out.String() != "" {
		t.Errorf("stdout = %q, want nothing", out.String())
	}

	ctx, _, out = newEnv(t)
	bad := `{
  "version": 8,
  "sources": {},
  "layers": [{"id": "a"}]
}`
	if err := runCommand(ctx, "validate", writeFile(t, dir, "bad.json", bad)); err == nil {
		t.Error("validate expected error")
	}
	if got := out.String(); !strings.HasPrefix(got, "line 4: ") {
		t.Errorf("stdout = %q", got)
	}
}

func TestWatch(t *testing.T) {
	ctx, _, out := newEnv(t)
	path := writeFile(t, t.TempDir(), "style.json", placesStyle)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- runCommand(ctx, "watch", "--interval", "10ms", path)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(out.String(), "regions changed") {
		if time.Now().After(deadline) {
			t.Fatalf("no diff printed:\n%s", out.String())
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watch error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
	if !strings.HasPrefix(out.String(), "=== "+path) {
		t.Errorf("stdout:\n%s", out.String())
	}
	// file is reported once, nothing is run before it is read
	if n := strings.Count(out.String(), "=== "); n != 1 {
		t.Errorf("%d results printed:\n%s", n, out.String())
	}
}

func TestWatch_NoFile(t *testing.T) {
	ctx, _, _ := newEnv(t)
	if err := runCommand(ctx, "watch"); err == nil {
		t.Error("watch without file expected error")
	}
	if err := runCommand(ctx, "watch", filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("watch of absent file expected error")
	}
}

// failingWriter refuses all output.
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWatch_OutputError(t *testing.T) {
	ctx, env, _ := newEnv(t)
	core, logs := observer.New(zap.WarnLevel)
	env.Log, env.Stdout = zap.New(core), failingWriter{}
	path := writeFile(t, t.TempDir(), "style.json", placesStyle)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- runCommand(ctx, "watch", "--interval", "10ms", path)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for logs.FilterMessage("Unable to output result").Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("output error was not reported, logs: %v", logs.All())
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watch error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
	entry := logs.FilterMessage("Unable to output result").All()[0]
	if got := entry.ContextMap()["error"]; got != "disk full" {
		t.Errorf("logged error = %v", got)
	}
}

func TestDebugReport(t *testing.T) {
	ctx, env, _ := newEnv(t)
	dir := t.TempDir()
	rpt, err := (&config.ReporterConfig{Destination: filepath.Join(dir, "report.zip")}).Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	env.Rpt = rpt

	if err := runCommand(ctx, "diff"); err != nil {
		t.Fatalf("diff error = %v", err)
	}
	if err := rpt.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	zr, err := zip.OpenReader(rpt.Name())
	if err != nil {
		t.Fatalf("unable to open report: %v", err)
	}
	defer zr.Close()
	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	for _, want := range []string{"input.json", "original.json", "migrated.json", "diff.txt", "document.txt", "converted.txt"} {
		if !names["runs/default/"+want] {
			t.Errorf("report has no runs/default/%s, has %v", want, names)
		}
	}
}

func TestDestinationPath(t *testing.T) {
	dir := t.TempDir()
	existing := writeFile(t, dir, "exists.json", "{}")

	tests := []struct {
		name      string
		src, dst  string
		overwrite bool
		want      string
		wantErr   bool
	}{
		{name: "stdout", src: "a.json", dst: "", want: ""},
		{name: "dash", src: "a.json", dst: "-", want: ""},
		{name: "directory", src: "/x/my style.json", dst: dir, want: filepath.Join(dir, "my style.migrated.json")},
		{name: "stdin to directory", src: "-", dst: dir, want: filepath.Join(dir, "style.migrated.json")},
		{name: "new file", src: "a.json", dst: filepath.Join(dir, "new.json"), want: filepath.Join(dir, "new.json")},
		{name: "existing", src: "a.json", dst: existing, wantErr: true},
		{name: "existing overwrite", src: "a.json", dst: existing, overwrite: true, want: existing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := destinationPath(tt.src, tt.dst, tt.overwrite)
			if (err != nil) != tt.wantErr {
				t.Fatalf("destinationPath() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("destinationPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDumpConfig(t *testing.T) {
	dump := func(ctx context.Context, args ...string) error {
		cmd := &cli.Command{
			Name:   "dumpconfig",
			Flags:  []cli.Flag{&cli.BoolFlag{Name: "default"}},
			Action: DumpConfig,
		}
		return cmd.Run(ctx, append([]string{"dumpconfig"}, args...))
	}

	ctx, env, out := newEnv(t)
	env.Cfg.Migration.DanglingRef = config.DanglingRefPolicySkip
	if err := dump(ctx); err != nil {
		t.Fatalf("dumpconfig error = %v", err)
	}
	if !strings.Contains(out.String(), "dangling_ref: skip") {
		t.Errorf("actual configuration:\n%s", out.String())
	}

	path := filepath.Join(t.TempDir(), "default.yaml")
	if err := dump(ctx, "--default", path); err != nil {
		t.Fatalf("dumpconfig --default error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "dangling_ref: abort") {
		t.Errorf("default configuration:\n%s", data)
	}
}
