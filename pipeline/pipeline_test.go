package pipeline

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"stylemig/config"
	"stylemig/diff"
	"stylemig/expression"
	"stylemig/migrate"
	"stylemig/spec"
	"stylemig/style"
)

const placesStyle = `{
  "version": 8,
  "sources": {"osm": {"type": "vector", "url": "mapbox://osm"}},
  "layers": [
    {"id": "water", "type": "fill", "source": "osm", "paint": {"fill-color": "#00f", "fill-opacity": 0.5}},
    {
      "id": "places",
      "type": "circle",
      "source": "osm",
      "paint": {
        "circle-color": "#ff0000",
        "circle-radius": {
          "property": "scalerank",
          "stops": [[{"zoom": 0, "value": 0}, 1], [{"zoom": 0, "value": 5}, 3], [{"zoom": 14, "value": 0}, 5], [{"zoom": 14, "value": 5}, 10]]
        },
        "circle-opacity": 0.8
      },
      "layout": {"visibility": "visible"}
    },
    {"id": "labels", "type": "symbol", "layout": {"text-field": "{name}"}}
  ]
}
`

func newPipeline(t *testing.T, convert migrate.ConvertFunc) *Pipeline {
	t.Helper()
	cat, err := spec.Default()
	if err != nil {
		t.Fatalf("spec.Default() error = %v", err)
	}
	log := zaptest.NewLogger(t)
	return New(migrate.New(cat, convert, config.DanglingRefPolicyAbort, log), style.DefaultFormatter, log)
}

func TestRun_Places(t *testing.T) {
	res := newPipeline(t, expression.Convert).Run(placesStyle)
	if err := res.Failure(); err != nil {
		t.Fatalf("Run() failure = %v", err)
	}

	if got := diff.Join(res.Chunks, diff.KindUnchanged, diff.KindRemoved); got != res.Original {
		t.Error("unchanged and removed chunks do not reconstruct original serialization")
	}
	if got := diff.Join(res.Chunks, diff.KindUnchanged, diff.KindAdded); got != res.Output {
		t.Error("unchanged and added chunks do not reconstruct migrated serialization")
	}

	st := diff.Count(res.Chunks)
	if st.Regions != 1 {
		t.Fatalf("Regions = %d, want 1; chunks: %+v", st.Regions, res.Chunks)
	}
	for _, c := range res.Chunks {
		if c.Kind == diff.KindRemoved && !strings.Contains(c.Text, `"property": "scalerank"`) {
			t.Errorf("removed chunk does not belong to circle-radius:\n%s", c.Text)
		}
		if c.Kind == diff.KindAdded && !strings.Contains(c.Text, `"interpolate"`) {
			t.Errorf("added chunk is not an expression:\n%s", c.Text)
		}
	}
	if len(res.Report.Converted) != 1 || res.Report.Converted[0] != "layers.places.paint.circle-radius" {
		t.Errorf("Converted = %v", res.Report.Converted)
	}
}

func TestRun_NothingToMigrate(t *testing.T) {
	const text = `{"version": 8, "sources": {}, "layers": [{"id": "bg", "type": "background", "paint": {"background-color": "#000"}}]}`
	res := newPipeline(t, expression.Convert).Run(text)
	if err := res.Failure(); err != nil {
		t.Fatalf("Run() failure = %v", err)
	}
	if res.Original != res.Output {
		t.Errorf("output differs:\n%s\nvs\n%s", res.Original, res.Output)
	}
	if st := diff.Count(res.Chunks); st.Regions != 0 || st.Added != 0 || st.Removed != 0 {
		t.Errorf("Count() = %+v, want no changes", st)
	}
}

func TestRun_ValidationShortCircuit(t *testing.T) {
	calls := 0
	counting := func(fn *style.LegacyFunction, p *spec.Property) (style.Value, error) {
		calls++
		return expression.Convert(fn, p)
	}
	p := newPipeline(t, counting)

	tests := []struct {
		name string
		text string
	}{
		{name: "syntax", text: `{"version": 8, "layers": [`},
		{name: "trailing comma", text: `{"version": 8, "sources": {}, "layers": [{"id": "a", "type": "circle", "paint": {"circle-radius": {"stops": [[0, 1], [10, 2],]}}}]}`},
		{name: "schema", text: `{"version": 7, "sources": {}, "layers": [{"id": "a", "type": "circle", "paint": {"circle-radius": {"stops": [[0, 1]]}}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := p.Run(tt.text)
			if len(res.Validation) == 0 {
				t.Fatal("Run() expected validation errors")
			}
			if len(res.Chunks) != 0 {
				t.Errorf("Run() produced %d chunks", len(res.Chunks))
			}
			if res.Document != nil || res.Migrated != nil {
				t.Error("Run() produced documents")
			}
			if !IsValidationFailure(res.Failure()) {
				t.Errorf("Failure() = %v, want validation failure", res.Failure())
			}
		})
	}
	if calls != 0 {
		t.Errorf("converter invoked %d times", calls)
	}

	// the same pipeline does convert valid input
	if res := p.Run(placesStyle); res.Failure() != nil || calls != 1 {
		t.Errorf("Run() failure = %v, calls = %d", res.Failure(), calls)
	}
}

func TestRun_MigrationError(t *testing.T) {
	const text = `{"version": 8, "sources": {}, "layers": [{"id": "a", "ref": "b", "paint": {"circle-radius": {"stops": [[0, 1]]}}}]}`
	res := newPipeline(t, expression.Convert).Run(text)
	if !errors.Is(res.Failure(), migrate.ErrDanglingReference) {
		t.Fatalf("Failure() = %v, want dangling reference", res.Failure())
	}
	if IsValidationFailure(res.Failure()) {
		t.Error("migration error reported as validation failure")
	}
	if len(res.Chunks) != 0 {
		t.Errorf("Run() produced %d chunks", len(res.Chunks))
	}
}

func TestFromConfig(t *testing.T) {
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	cfg.Format.SortKeys = true
	p, err := FromConfig(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("FromConfig() error = %v", err)
	}
	if f := p.Formatter(); f.Indent != 2 || f.MaxWidth != 80 || !f.SortKeys {
		t.Errorf("Formatter() = %+v", f)
	}
	if res := p.Run(placesStyle); res.Failure() != nil {
		t.Errorf("Run() failure = %v", res.Failure())
	}
}
