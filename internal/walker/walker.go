// Package walker traverses the input tree and hands every accepted file to a
// Processor.
package walker

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dgallion1/codedocx/internal/filter"
)

// Processor consumes accepted files. An error stops the walk.
type Processor interface {
	ProcessFile(path string) error
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(path string) error

func (f ProcessorFunc) ProcessFile(path string) error { return f(path) }

// Options controls a walk.
type Options struct {
	Filter *filter.Filter

	// Output is the document being written. It is never handed to the
	// processor even when it lies inside the tree.
	Output string

	Logger *slog.Logger
}

// Stats summarizes a walk.
type Stats struct {
	Dirs     int // directories listed, root included
	Files    int // files handed to the processor
	Ignored  int // files without an accepted extension
	Excluded int // entries matching an exclude pattern
	Errors   int // entries skipped because their metadata could not be read
}

type frame struct {
	dir     string
	info    fs.FileInfo
	entries []os.DirEntry
	next    int
}

type walk struct {
	root    string
	absRoot string
	opts    Options
	log     *slog.Logger

	output     string
	outputInfo fs.FileInfo

	stack []*frame
	stats Stats
}

// Walk visits root depth-first. Entries of a directory are visited in
// lexical order and a subdirectory is finished before its next sibling.
// Symlinks are followed; a directory that is already open higher up the
// stack is skipped to break cycles. Failing to list a directory, or a
// processor error, ends the walk with that error. Failing to read an entry's
// metadata is logged and the entry is skipped. ctx is checked between
// entries.
func Walk(ctx context.Context, root string, opts Options, p Processor) (Stats, error) {
	w := &walk{root: root, opts: opts, log: opts.Logger}
	if w.log == nil {
		w.log = slog.Default()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return w.stats, fmt.Errorf("resolve input %s: %w", root, err)
	}
	w.absRoot = abs
	if opts.Output != "" {
		if w.output, err = filepath.Abs(opts.Output); err != nil {
			return w.stats, fmt.Errorf("resolve output %s: %w", opts.Output, err)
		}
		w.outputInfo, _ = os.Stat(opts.Output)
	}

	info, err := os.Stat(root)
	if err != nil {
		return w.stats, fmt.Errorf("stat input %s: %w", root, err)
	}
	if err := w.push(root, info); err != nil {
		return w.stats, err
	}

	for len(w.stack) > 0 {
		if err := ctx.Err(); err != nil {
			return w.stats, err
		}
		top := w.stack[len(w.stack)-1]
		if top.next == len(top.entries) {
			w.stack = w.stack[:len(w.stack)-1]
			continue
		}
		entry := top.entries[top.next]
		top.next++

		if err := w.visit(filepath.Join(top.dir, entry.Name()), p); err != nil {
			return w.stats, err
		}
	}
	return w.stats, nil
}

func (w *walk) push(dir string, info fs.FileInfo) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("list directory %s: %w", dir, err)
	}
	w.stack = append(w.stack, &frame{dir: dir, info: info, entries: entries})
	w.stats.Dirs++
	return nil
}

func (w *walk) visit(path string, p Processor) error {
	info, err := os.Stat(path)
	if err != nil {
		w.log.Warn("skipping entry", "path", path, "error", err)
		w.stats.Errors++
		return nil
	}

	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return fmt.Errorf("relative path of %s: %w", path, err)
	}
	if w.opts.Filter != nil && w.opts.Filter.Excluded(rel) {
		w.log.Debug("excluded", "path", rel)
		w.stats.Excluded++
		return nil
	}

	if info.IsDir() {
		if w.open(info) {
			w.log.Warn("skipping directory cycle", "path", path)
			w.stats.Errors++
			return nil
		}
		return w.push(path, info)
	}

	if !info.Mode().IsRegular() {
		w.log.Debug("skipping non-regular file", "path", rel, "mode", info.Mode().String())
		w.stats.Ignored++
		return nil
	}
	if w.isOutput(rel, info) {
		w.log.Debug("skipping output file", "path", rel)
		return nil
	}
	if w.opts.Filter != nil && !w.opts.Filter.MatchFile(info.Name()) {
		w.stats.Ignored++
		return nil
	}

	if err := p.ProcessFile(path); err != nil {
		return err
	}
	w.stats.Files++
	return nil
}

// open reports whether dir is one of the directories currently on the stack.
func (w *walk) open(dir fs.FileInfo) bool {
	for _, f := range w.stack {
		if os.SameFile(f.info, dir) {
			return true
		}
	}
	return false
}

func (w *walk) isOutput(rel string, info fs.FileInfo) bool {
	if w.output == "" {
		return false
	}
	if filepath.Join(w.absRoot, rel) == w.output {
		return true
	}
	return w.outputInfo != nil && os.SameFile(w.outputInfo, info)
}
