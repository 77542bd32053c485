// Package editor holds the style text being worked on and re-runs the
// migration pipeline on every change.
package editor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"stylemig/config"
	"stylemig/pipeline"
)

// DefaultStyle is the text editor starts with when nothing else is configured.
const DefaultStyle = `{
  "version": 8,
  "name": "Legacy functions sample",
  "sources": {
    "osm": {"type": "vector", "url": "mapbox://mapbox.mapbox-streets-v7"}
  },
  "layers": [
    {"id": "background", "type": "background", "paint": {"background-color": "#f8f4f0"}},
    {
      "id": "water",
      "type": "fill",
      "source": "osm",
      "source-layer": "water",
      "paint": {
        "fill-color": "#a0c8f0",
        "fill-opacity": {"base": 1.2, "stops": [[6, 0.4], [12, 1]]}
      }
    },
    {
      "id": "roads",
      "type": "line",
      "source": "osm",
      "source-layer": "road",
      "layout": {"line-cap": "round", "line-join": "round"},
      "paint": {
        "line-color": {"property": "class", "type": "categorical", "stops": [["motorway", "#e892a2"], ["trunk", "#f9b29c"]], "default": "#ffffff"},
        "line-width": {"base": 1.4, "stops": [[8, 0.5], [20, 20]]}
      }
    },
    {"id": "roads-casing", "ref": "roads", "paint": {"line-opacity": {"stops": [[12, 0], [14, 1]]}}},
    {
      "id": "places",
      "type": "circle",
      "source": "osm",
      "source-layer": "place_label",
      "paint": {
        "circle-color": "#333333",
        "circle-radius": {
          "property": "scalerank",
          "stops": [[{"zoom": 0, "value": 0}, 1], [{"zoom": 0, "value": 5}, 3], [{"zoom": 14, "value": 0}, 5], [{"zoom": 14, "value": 5}, 10]]
        }
      }
    },
    {
      "id": "place-labels",
      "type": "symbol",
      "source": "osm",
      "source-layer": "place_label",
      "layout": {
        "text-field": "{name_en}",
        "text-size": {"stops": [[10, 12], [16, 18]]}
      },
      "paint": {"text-color": "#333333"}
    }
  ]
}
`

// ReadText reads style text removing UTF-8 or UTF-16 byte order mark and
// converting UTF-16 input to UTF-8.
func ReadText(r io.Reader) (string, error) {
	data, err := io.ReadAll(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	if err != nil {
		return "", fmt.Errorf("unable to decode style text: %w", err)
	}
	return string(data), nil
}

// ReadFile reads style text from a file, see ReadText.
func ReadFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return ReadText(f)
}

// InitialText returns configured initial style or DefaultStyle.
func InitialText(cfg *config.EditorConfig) (string, error) {
	if cfg == nil || cfg.InitialPath == "" {
		return DefaultStyle, nil
	}
	text, err := ReadFile(cfg.InitialPath)
	if err != nil {
		return "", fmt.Errorf("unable to read initial style: %w", err)
	}
	return text, nil
}

// Controller keeps current text and result of the last pipeline run. It has a
// single state, every edit replaces the text and synchronously runs the
// pipeline again. Not safe for concurrent use.
type Controller struct {
	pipeline *pipeline.Pipeline
	log      *zap.Logger

	text   string
	result *pipeline.Result
}

// New creates controller holding initial text and the result for it.
func New(p *pipeline.Pipeline, initial string, log *zap.Logger) *Controller {
	c := &Controller{pipeline: p, log: log.Named("editor")}
	c.Edit(initial)
	return c
}

// Edit replaces text verbatim and returns result of the new run.
func (c *Controller) Edit(text string) *pipeline.Result {
	c.text = text
	c.result = c.pipeline.Run(text)
	return c.result
}

func (c *Controller) Text() string {
	return c.text
}

func (c *Controller) Result() *pipeline.Result {
	return c.result
}

// Watch follows file and feeds its content to Edit every time it differs from
// the text being held, calling onResult after each change. File is read
// immediately and its result reported, without a new run when controller
// already holds the same text. Changes are picked up from file system events
// on the parent directory, so editors replacing file by rename are followed
// too. When events are not available file is polled every interval. Read
// problems are logged and watching goes on. Watch returns when context is
// canceled.
func (c *Controller) Watch(ctx context.Context, path string, interval time.Duration, onResult func(*pipeline.Result)) error {
	log := c.log.With(zap.String("path", path))

	var last []byte
	check := func() {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Warn("Unable to read watched file", zap.Error(err))
			return
		}
		if last != nil && bytes.Equal(data, last) {
			return
		}
		last = data

		text, err := ReadText(bytes.NewReader(data))
		if err != nil {
			log.Warn("Unable to decode watched file", zap.Error(err))
			return
		}
		res := c.result
		if text != c.text {
			log.Debug("Watched file changed", zap.Int("size", len(data)))
			res = c.Edit(text)
		}
		if onResult != nil {
			onResult(res)
		}
	}

	check()

	w, err := newDirWatcher(filepath.Dir(path))
	if err != nil {
		log.Warn("File system events are not available, polling", zap.Duration("interval", interval), zap.Error(err))
		return poll(ctx, interval, check)
	}
	defer w.Close()

	name := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) == name && ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				check()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("File watcher failed", zap.Error(err))
		}
	}
}

func newDirWatcher(dir string) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

func poll(ctx context.Context, interval time.Duration, check func()) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			check()
		}
	}
}
