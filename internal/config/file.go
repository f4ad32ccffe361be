package config

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// File is the YAML form of the settings. Unset keys keep the flag defaults.
type File struct {
	Output            *string  `yaml:"output"`
	Overwrite         *bool    `yaml:"overwrite"`
	Extensions        []string `yaml:"extensions"`
	Exclude           []string `yaml:"exclude"`
	CodeFontSize      *int     `yaml:"code_font_size"`
	CodeFontFamily    *string  `yaml:"code_font_family"`
	HeadingFontSize   *int     `yaml:"heading_font_size"`
	HeadingFontFamily *string  `yaml:"heading_font_family"`
	OnUnreadable      *string  `yaml:"on_unreadable"`
	Preface           *string  `yaml:"preface"`
}

func LoadFile(path string) (File, error) {
	var f File
	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return f, nil
}

// Apply copies values from the file into c for every setting whose flag was
// not set explicitly on the command line.
func (f File) Apply(c *Config, flags *pflag.FlagSet) {
	changed := func(name string) bool {
		return flags != nil && flags.Changed(name)
	}

	if f.Output != nil && !changed("output") {
		c.Output = *f.Output
	}
	if f.Overwrite != nil && !changed("overwrite") {
		c.Overwrite = *f.Overwrite
	}
	if len(f.Extensions) > 0 && !changed("extensions") {
		c.Extensions = append([]string(nil), f.Extensions...)
	}
	if len(f.Exclude) > 0 && !changed("exclude") {
		c.Exclude = append([]string(nil), f.Exclude...)
	}
	if f.CodeFontSize != nil && !changed("size-font") {
		c.CodeFontSize = *f.CodeFontSize
	}
	if f.CodeFontFamily != nil && !changed("font-family-code") {
		c.CodeFontFamily = *f.CodeFontFamily
	}
	if f.HeadingFontSize != nil && !changed("heading-size") {
		c.HeadingFontSize = *f.HeadingFontSize
	}
	if f.HeadingFontFamily != nil && !changed("font-family-heading") {
		c.HeadingFontFamily = *f.HeadingFontFamily
	}
	if f.OnUnreadable != nil && !changed("on-unreadable") {
		c.OnUnreadable = *f.OnUnreadable
	}
	if f.Preface != nil && !changed("preface") {
		c.Preface = *f.Preface
	}
}

// Load builds the final configuration: flag values, with the YAML file named
// by --config filling in anything not given on the command line.
func Load(c Config, flags *pflag.FlagSet) (Config, error) {
	if c.File != "" {
		f, err := LoadFile(c.File)
		if err != nil {
			return c, err
		}
		f.Apply(&c, flags)
	}
	c.Normalize()
	return c, nil
}
