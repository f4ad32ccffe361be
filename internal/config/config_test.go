package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	cfg := Default()
	cfg.Input = filepath.Join(dir, "src")
	cfg.Output = filepath.Join(dir, "out.docx")
	require.NoError(t, os.Mkdir(cfg.Input, 0o755))
	return cfg
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "output.docx", cfg.Output)
	assert.False(t, cfg.Overwrite)
	assert.Equal(t, []string{"rs", "py", "js", "ts", "html", "css", "scss", "md", "txt"}, cfg.Extensions)
	assert.Equal(t, 8, cfg.CodeFontSize)
	assert.Equal(t, 12, cfg.HeadingFontSize)
	assert.Equal(t, "Calibri Light", cfg.HeadingFontFamily)
	assert.Equal(t, OnUnreadableAbort, cfg.OnUnreadable)
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig(t)
	require.NoError(t, cfg.Validate())
}

func TestValidate_InputMissing(t *testing.T) {
	cfg := validConfig(t)
	cfg.Input = filepath.Join(cfg.Input, "nope")
	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrInputMissing)
}

func TestValidate_InputNotDir(t *testing.T) {
	cfg := validConfig(t)
	file := filepath.Join(cfg.Input, "a.rs")
	require.NoError(t, os.WriteFile(file, []byte("fn main() {}"), 0o644))
	cfg.Input = file
	assert.ErrorIs(t, cfg.Validate(), ErrInputNotDir)
}

func TestValidate_OutputExists(t *testing.T) {
	cfg := validConfig(t)
	require.NoError(t, os.WriteFile(cfg.Output, []byte("old"), 0o644))

	assert.ErrorIs(t, cfg.Validate(), ErrOutputExists)

	cfg.Overwrite = true
	assert.NoError(t, cfg.Validate())
}

func TestValidate_BadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no extensions", func(c *Config) { c.Extensions = nil }},
		{"zero code size", func(c *Config) { c.CodeFontSize = 0 }},
		{"negative heading size", func(c *Config) { c.HeadingFontSize = -1 }},
		{"unknown policy", func(c *Config) { c.OnUnreadable = "ignore" }},
		{"unknown log format", func(c *Config) { c.LogFormat = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNormalize(t *testing.T) {
	cfg := Default()
	cfg.Extensions = []string{"RS", ".py", " Md ", "", "rs"}
	cfg.OnUnreadable = " SKIP "
	cfg.Normalize()
	assert.Equal(t, []string{"rs", "py", "md"}, cfg.Extensions)
	assert.Equal(t, OnUnreadableSkip, cfg.OnUnreadable)
}

func TestLoad_FileFillsUnsetFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "codedocx.yaml")
	yml := `
output: book.docx
extensions: [go, MOD]
exclude: ["vendor/**"]
heading_font_size: 16
on_unreadable: skip
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"--config", path, "-o", "cli.docx", "-i", dir}))

	got, err := Load(cfg, fs)
	require.NoError(t, err)
	assert.Equal(t, "cli.docx", got.Output, "explicit flag wins over file")
	assert.Equal(t, []string{"go", "mod"}, got.Extensions)
	assert.Equal(t, []string{"vendor/**"}, got.Exclude)
	assert.Equal(t, 16, got.HeadingFontSize)
	assert.Equal(t, 8, got.CodeFontSize)
	assert.Equal(t, OnUnreadableSkip, got.OnUnreadable)
}

func TestLoad_BadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("extensions: [unterminated"), 0o644))

	cfg := Default()
	cfg.File = path
	_, err := Load(cfg, nil)
	assert.Error(t, err)

	cfg.File = filepath.Join(dir, "missing.yaml")
	_, err = Load(cfg, nil)
	assert.Error(t, err)
}
