// Package prose parses the optional preface file (Markdown, HTML or plain
// text) into an outline of titled sections.
package prose

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Document is a parsed preface.
type Document struct {
	Title    string     // from <title> or the file name
	Sections []*Section // top-level sections
}

// Section is a heading with its body text and nested subsections. Untitled
// sections hold text that appeared before any heading.
type Section struct {
	Title    string
	Text     string // blocks separated by a blank line
	Children []*Section
}

// Paragraphs splits the section text into its blocks.
func (s *Section) Paragraphs() []string {
	if s.Text == "" {
		return nil
	}
	return strings.Split(s.Text, "\n\n")
}

// Walk visits every section depth-first in document order.
func (d *Document) Walk(fn func(s *Section, depth int)) {
	var visit func(list []*Section, depth int)
	visit = func(list []*Section, depth int) {
		for _, s := range list {
			fn(s, depth)
			visit(s.Children, depth+1)
		}
	}
	visit(d.Sections, 0)
}

// Parser converts raw bytes into a Document.
type Parser interface {
	Parse(r io.Reader, filename string) (*Document, error)
}

// ForFile returns the parser for a preface file name.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".txt", "":
		return &TextParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported preface extension: %s", ext)
	}
}

// Load opens and parses the preface at path.
func Load(path string) (*Document, error) {
	p, err := ForFile(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open preface: %w", err)
	}
	defer f.Close()

	doc, err := p.Parse(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("parse preface %s: %w", path, err)
	}
	return doc, nil
}

func stripExt(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}
