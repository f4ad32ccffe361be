// Package watch reruns a build whenever files under the input tree change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dgallion1/codedocx/internal/document"
)

// DefaultDebounce groups bursts of events (editor saves, checkouts) into a
// single rebuild.
const DefaultDebounce = 500 * time.Millisecond

// Options configures Run.
type Options struct {
	Root     string
	Output   string // events for the output and its lock or temp files are ignored
	Debounce time.Duration
	Logger   *slog.Logger
}

// Run watches opts.Root recursively and calls rebuild once events have been
// quiet for opts.Debounce. Rebuilds run on the calling goroutine, one at a
// time; a failed rebuild is logged and watching continues. Run returns nil
// when ctx is done.
func Run(ctx context.Context, opts Options, rebuild func(context.Context) error) error {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	var output string
	if opts.Output != "" {
		abs, err := filepath.Abs(opts.Output)
		if err != nil {
			return fmt.Errorf("resolve output %s: %w", opts.Output, err)
		}
		output = abs
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := addTree(w, opts.Root, log); err != nil {
		return err
	}
	log.Info("watching for changes", "root", opts.Root, "debounce", opts.Debounce)

	timer := time.NewTimer(opts.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod || isOwnFile(ev.Name, output) {
				continue
			}
			log.Debug("file event", "op", ev.Op.String(), "path", ev.Name)
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addTree(w, ev.Name, log); err != nil {
						log.Warn("failed to watch directory", "path", ev.Name, "error", err)
					}
				}
			}
			timer.Reset(opts.Debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "error", err)

		case <-timer.C:
			log.Info("change detected, rebuilding")
			if err := rebuild(ctx); err != nil {
				log.Error("rebuild failed", "error", err)
			}
		}
	}
}

// addTree watches dir and every directory below it.
func addTree(w *fsnotify.Watcher, dir string, log *slog.Logger) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
			log.Warn("skipping directory", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.Add(path); err != nil {
			if path == dir {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
			log.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// isOwnFile reports whether name is the output document or a file the
// writer creates next to it.
func isOwnFile(name, output string) bool {
	if output == "" {
		return false
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	if abs == output || abs == output+document.LockSuffix {
		return true
	}
	return filepath.Dir(abs) == filepath.Dir(output) && strings.HasPrefix(filepath.Base(abs), document.TempPrefix)
}
