// Package pipeline runs one document build: validate, seed, preface, walk,
// save.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dgallion1/codedocx/internal/assembler"
	"github.com/dgallion1/codedocx/internal/config"
	"github.com/dgallion1/codedocx/internal/document"
	"github.com/dgallion1/codedocx/internal/filter"
	"github.com/dgallion1/codedocx/internal/prose"
	"github.com/dgallion1/codedocx/internal/walker"
)

// Result summarizes a successful build.
type Result struct {
	Output   string
	Files    int // files written to the document
	Skipped  int // unreadable files left out under the skip policy
	Ignored  int // files without an accepted extension
	Excluded int
	Errors   int // entries skipped with a warning
	Digest   string
	Duration time.Duration
}

// Build writes the document described by cfg. Nothing under cfg.Input is
// read until cfg validates, and the output is only touched once every file
// has been added.
func Build(ctx context.Context, cfg config.Config, log *slog.Logger) (Result, error) {
	start := time.Now()
	res := Result{Output: cfg.Output}

	// Phase 1: Validate
	if err := cfg.Validate(); err != nil {
		return res, err
	}
	f, err := filter.New(cfg.Extensions, cfg.Exclude)
	if err != nil {
		return res, err
	}

	// Phase 2: Seed
	doc := document.New()
	asm, err := assembler.NewSeed(cfg, doc, log)
	if err != nil {
		return res, fmt.Errorf("seed document: %w", err)
	}

	// Phase 3: Preface
	if cfg.Preface != "" {
		p, err := prose.Load(cfg.Preface)
		if err != nil {
			return res, err
		}
		asm.AddPreface(p)
		log.Debug("added preface", "path", cfg.Preface, "title", p.Title)
	}

	// Phase 4: Walk
	stats, err := walker.Walk(ctx, cfg.Input, walker.Options{
		Filter: f,
		Output: cfg.Output,
		Logger: log,
	}, asm)
	if err != nil {
		return res, err
	}
	res.Files = asm.Added()
	res.Skipped = asm.Skipped()
	res.Ignored = stats.Ignored
	res.Excluded = stats.Excluded
	res.Errors = stats.Errors
	log.Info("scanned input", "input", cfg.Input, "dirs", stats.Dirs, "files", res.Files,
		"skipped", res.Skipped, "ignored", res.Ignored, "excluded", res.Excluded, "errors", res.Errors)

	// Phase 5: Save
	if err := ctx.Err(); err != nil {
		return res, err
	}
	if err := doc.Save(cfg.Output); err != nil {
		return res, fmt.Errorf("write %s: %w", cfg.Output, err)
	}
	res.Digest, err = fileDigest(cfg.Output)
	if err != nil {
		return res, err
	}
	res.Duration = time.Since(start)
	log.Info("wrote document", "output", cfg.Output, "sha256", res.Digest, "duration", res.Duration)
	return res, nil
}

func fileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
