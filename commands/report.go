package commands

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"

	"stylemig/diff"
	"stylemig/pipeline"
	"stylemig/state"
)

// storeRun puts everything about a single pipeline run into debug report
// under "runs/<name>/". Repeated names are versioned by the report.
func storeRun(env *state.LocalEnv, name, text string, res *pipeline.Result) {
	if env.Rpt == nil {
		return
	}
	dir := "runs/" + runName(name)
	env.Rpt.StoreData(dir+"/input.json", []byte(text))

	if err := res.Failure(); err != nil {
		env.Rpt.StoreData(dir+"/failure.txt", []byte(err.Error()+"\n"))
		return
	}
	env.Rpt.StoreData(dir+"/original.json", []byte(res.Original))
	env.Rpt.StoreData(dir+"/migrated.json", []byte(res.Output))
	env.Rpt.StoreData(dir+"/document.txt", []byte(res.Document.String()))
	env.Rpt.StoreData(dir+"/migrated.txt", []byte(res.Migrated.String()))

	var buf strings.Builder
	if err := diff.Render(&buf, res.Chunks, diff.RenderOptions{Context: -1}); err == nil {
		env.Rpt.StoreData(dir+"/diff.txt", []byte(buf.String()))
	}

	var conv strings.Builder
	for _, path := range res.Report.Converted {
		fmt.Fprintln(&conv, path)
	}
	for _, err := range res.Report.Skipped {
		fmt.Fprintf(&conv, "skipped: %v\n", err)
	}
	env.Rpt.StoreData(dir+"/converted.txt", []byte(conv.String()))
}

func runName(name string) string {
	if s := slug.Make(name); s != "" {
		return s
	}
	return "run"
}
