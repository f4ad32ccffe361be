package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

var (
	ErrInputMissing = errors.New("input directory does not exist")
	ErrInputNotDir  = errors.New("input directory is not a directory")
	ErrOutputExists = errors.New("output file already exists")
)

// DefaultExtensions are the file extensions included when none are given.
var DefaultExtensions = []string{"rs", "py", "js", "ts", "html", "css", "scss", "md", "txt"}

// Unreadable file policies.
const (
	OnUnreadableAbort = "abort"
	OnUnreadableSkip  = "skip"
)

type Config struct {
	Input     string
	Output    string
	Overwrite bool

	// Extensions are lowercase and carry no leading dot.
	Extensions []string
	Exclude    []string

	// Font sizes are in points; the document stores half-points.
	CodeFontSize      int
	CodeFontFamily    string
	HeadingFontSize   int
	HeadingFontFamily string

	OnUnreadable string
	Preface      string
	Watch        bool

	// Logging
	Verbose   bool
	LogFormat string

	// Path of the YAML file defaults were read from, if any.
	File string
}

func Default() Config {
	return Config{
		Output:            "output.docx",
		Extensions:        append([]string(nil), DefaultExtensions...),
		CodeFontSize:      8,
		CodeFontFamily:    "Courier New",
		HeadingFontSize:   12,
		HeadingFontFamily: "Calibri Light",
		OnUnreadable:      OnUnreadableAbort,
	}
}

// BindFlags registers the command-line surface on fs, writing into c.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.Input, "input", "i", c.Input, "input directory to scan")
	fs.StringVarP(&c.Output, "output", "o", c.Output, "output file to write to")
	fs.BoolVar(&c.Overwrite, "overwrite", c.Overwrite, "overwrite the output file if it already exists")
	fs.StringSliceVarP(&c.Extensions, "extensions", "e", c.Extensions, "file extensions to include")
	fs.StringArrayVarP(&c.Exclude, "exclude", "x", c.Exclude, "glob of relative paths to skip (repeatable)")
	fs.IntVarP(&c.CodeFontSize, "size-font", "s", c.CodeFontSize, "font size of the code")
	fs.StringVar(&c.CodeFontFamily, "font-family-code", c.CodeFontFamily, "font family of the code")
	fs.IntVarP(&c.HeadingFontSize, "heading-size", "H", c.HeadingFontSize, "font size of the code headings")
	fs.StringVarP(&c.HeadingFontFamily, "font-family-heading", "f", c.HeadingFontFamily, "font family of the code headings")
	fs.StringVar(&c.OnUnreadable, "on-unreadable", c.OnUnreadable, "what to do with files that are not text: abort or skip")
	fs.StringVar(&c.Preface, "preface", c.Preface, "markdown, html or text file rendered after the table of contents")
	fs.BoolVarP(&c.Watch, "watch", "w", c.Watch, "rebuild the document whenever the input changes")
	fs.BoolVarP(&c.Verbose, "verbose", "v", c.Verbose, "enable debug logging")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log format: text or json (default depends on the terminal)")
	fs.StringVar(&c.File, "config", c.File, "YAML file with default settings")
}

// Normalize lowercases extensions and strips leading dots and blanks.
func (c *Config) Normalize() {
	exts := make([]string, 0, len(c.Extensions))
	seen := make(map[string]bool, len(c.Extensions))
	for _, e := range c.Extensions {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		exts = append(exts, e)
	}
	c.Extensions = exts
	c.OnUnreadable = strings.ToLower(strings.TrimSpace(c.OnUnreadable))
	if c.OnUnreadable == "" {
		c.OnUnreadable = OnUnreadableAbort
	}
}

// Validate checks the configuration against the filesystem. It never reads
// below the input directory.
func (c Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("input directory is required")
	}
	info, err := os.Stat(c.Input)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrInputMissing, c.Input)
		}
		return fmt.Errorf("stat input: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrInputNotDir, c.Input)
	}

	if c.Output == "" {
		return fmt.Errorf("output file is required")
	}
	if !c.Overwrite {
		_, err := os.Stat(c.Output)
		if err == nil {
			return fmt.Errorf("%w: %s", ErrOutputExists, c.Output)
		}
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat output: %w", err)
		}
	}

	if len(c.Extensions) == 0 {
		return fmt.Errorf("at least one extension is required")
	}
	if c.CodeFontSize <= 0 {
		return fmt.Errorf("code font size must be positive, got %d", c.CodeFontSize)
	}
	if c.HeadingFontSize <= 0 {
		return fmt.Errorf("heading font size must be positive, got %d", c.HeadingFontSize)
	}
	switch c.OnUnreadable {
	case OnUnreadableAbort, OnUnreadableSkip:
	default:
		return fmt.Errorf("on-unreadable must be %q or %q, got %q", OnUnreadableAbort, OnUnreadableSkip, c.OnUnreadable)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("log format must be text or json, got %q", c.LogFormat)
	}
	return nil
}
