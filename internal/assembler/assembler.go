// Package assembler turns scanned source files into document content: the
// seed (styles, title, table of contents) and one heading plus code table per
// file.
package assembler

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/codedocx/internal/config"
	"github.com/dgallion1/codedocx/internal/document"
	"github.com/dgallion1/codedocx/internal/source"
)

// Style IDs registered by NewSeed.
const (
	StyleTitle   = "Heading1"
	StyleFile    = "Heading2"
	StyleSection = "Heading3"
	StyleCode    = "SourceCode"
)

// Title is the text of the first paragraph of every document.
const Title = "Source Code"

// ErrOutsideRoot is returned for a file that does not live under the scan root.
var ErrOutsideRoot = errors.New("path is outside the input directory")

// Builder is the subset of document operations the assembler needs.
type Builder interface {
	RegisterStyle(s document.Style) error
	AddParagraph(styleID, text string) *docx.Paragraph
	AddTableOfContents(toc document.TableOfContents)
	AddCodeTable(lines []string, styleID string, font document.Font) *docx.Table
}

// Assembler appends one page per source file to a Builder.
type Assembler struct {
	root     string
	doc      Builder
	codeFont document.Font
	policy   string
	log      *slog.Logger

	// readLines is source.ReadLines outside of tests.
	readLines func(path string) ([]string, error)

	added   int
	skipped int
}

// NewSeed registers the document styles on b and writes the title and the
// table of contents. The returned Assembler adds files relative to cfg.Input.
func NewSeed(cfg config.Config, b Builder, log *slog.Logger) (*Assembler, error) {
	if log == nil {
		log = slog.Default()
	}
	styles := []document.Style{
		{ID: StyleTitle, Name: "heading 1", Heading: 1},
		{
			ID:              StyleFile,
			Name:            "heading 2",
			Heading:         2,
			FontFamily:      cfg.HeadingFontFamily,
			HalfPoints:      cfg.HeadingFontSize * 2,
			PageBreakBefore: true,
		},
		{ID: StyleCode, Name: "Source Code", Compact: true},
	}
	if cfg.Preface != "" {
		styles = append(styles, document.Style{ID: StyleSection, Name: "heading 3", Heading: 3, KeepNext: true})
	}
	for _, s := range styles {
		if err := b.RegisterStyle(s); err != nil {
			return nil, fmt.Errorf("register style %s: %w", s.ID, err)
		}
	}

	b.AddParagraph(StyleTitle, Title)
	b.AddTableOfContents(document.TableOfContents{
		Alias:      "Table of contents",
		MinLevel:   1,
		MaxLevel:   3,
		AutoUpdate: true,
	})

	return &Assembler{
		root: cfg.Input,
		doc:  b,
		codeFont: document.Font{
			Family:     cfg.CodeFontFamily,
			HalfPoints: cfg.CodeFontSize * 2,
		},
		policy:    cfg.OnUnreadable,
		log:       log,
		readLines: source.ReadLines,
	}, nil
}

// ProcessFile appends a page for the file at path: its relative path as a
// heading, then its lines in a one-cell table.
func (a *Assembler) ProcessFile(path string) error {
	rel, err := a.relative(path)
	if err != nil {
		return err
	}

	lines, err := a.readLines(path)
	if err != nil {
		if a.policy == config.OnUnreadableSkip {
			a.log.Warn("skipping unreadable file", "path", path, "error", err)
			a.skipped++
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	a.doc.AddParagraph(StyleFile, rel)
	a.doc.AddCodeTable(lines, StyleCode, a.codeFont)
	a.added++
	a.log.Debug("added file", "path", rel, "lines", len(lines))
	return nil
}

func (a *Assembler) relative(path string) (string, error) {
	rel, err := filepath.Rel(a.root, path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrOutsideRoot, path, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	return rel, nil
}

// Added is the number of files written to the document.
func (a *Assembler) Added() int { return a.added }

// Skipped is the number of unreadable files left out under the skip policy.
func (a *Assembler) Skipped() int { return a.skipped }
