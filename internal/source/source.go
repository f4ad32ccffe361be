// Package source reads the files that end up in the document as lists of
// lines.
package source

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/codedocx/internal/filter"
)

// ErrNotText is returned when a file's content is not valid UTF-8 text and no
// extractor exists for its extension.
var ErrNotText = errors.New("file is not valid UTF-8 text")

// Reader turns a file on disk into its lines of text.
type Reader interface {
	ReadLines(path string) ([]string, error)
}

// ForFile returns the Reader for a file name: PDF and DOCX documents get text
// extraction, everything else is read as UTF-8 text.
func ForFile(name string) Reader {
	switch strings.ToLower(filter.Extension(name)) {
	case "pdf":
		return &PDFReader{}
	case "docx":
		return &DOCXReader{}
	default:
		return &TextReader{}
	}
}

// ReadLines reads path with the Reader chosen by ForFile.
func ReadLines(path string) ([]string, error) {
	return ForFile(path).ReadLines(path)
}

// TextReader reads a whole file as UTF-8.
type TextReader struct{}

func (r *TextReader) ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %s", ErrNotText, path)
	}
	return SplitLines(string(data)), nil
}

// SplitLines splits text on "\n", dropping one trailing "\r" from each line.
// A final line terminator does not start an extra empty line, and empty text
// has no lines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
