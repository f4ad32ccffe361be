package assembler

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/fumiama/go-docx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/codedocx/internal/config"
	"github.com/dgallion1/codedocx/internal/document"
	"github.com/dgallion1/codedocx/internal/prose"
	"github.com/dgallion1/codedocx/internal/source"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(root string) config.Config {
	cfg := config.Default()
	cfg.Input = root
	return cfg
}

func paragraphText(p *docx.Paragraph) string {
	var s string
	for _, c := range p.Children {
		run, ok := c.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			switch t := rc.(type) {
			case *docx.Text:
				s += t.Text
			case *docx.Tab:
				s += "\t"
			}
		}
	}
	return s
}

func styleOf(p *docx.Paragraph) string {
	if p.Properties == nil || p.Properties.Style == nil {
		return ""
	}
	return p.Properties.Style.Val
}

// headings lists "<style>:<text>" for every top-level paragraph.
func headings(doc *document.Document) []string {
	var out []string
	for _, item := range doc.Items() {
		if p, ok := item.(*docx.Paragraph); ok {
			out = append(out, styleOf(p)+":"+paragraphText(p))
		}
	}
	return out
}

func tables(doc *document.Document) []*docx.Table {
	var out []*docx.Table
	for _, item := range doc.Items() {
		if t, ok := item.(*docx.Table); ok {
			out = append(out, t)
		}
	}
	return out
}

func TestNewSeed(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.HeadingFontSize = 14
	cfg.HeadingFontFamily = "Arial"

	doc := document.New()
	_, err := NewSeed(cfg, doc, discardLogger())
	require.NoError(t, err)

	styles := doc.Styles()
	require.Len(t, styles, 3)
	assert.Equal(t, StyleTitle, styles[0].ID)
	assert.Equal(t, 1, styles[0].Heading)

	assert.Equal(t, StyleFile, styles[1].ID)
	assert.Equal(t, 28, styles[1].HalfPoints)
	assert.Equal(t, "Arial", styles[1].FontFamily)
	assert.True(t, styles[1].PageBreakBefore)

	assert.Equal(t, StyleCode, styles[2].ID)
	assert.True(t, styles[2].Compact)

	assert.Equal(t, []string{"Heading1:Source Code"}, headings(doc))
	require.Len(t, doc.Items(), 2)

	toc, ok := doc.TableOfContents()
	require.True(t, ok)
	assert.Equal(t, "Table of contents", toc.Alias)
	assert.Equal(t, 1, toc.MinLevel)
	assert.Equal(t, 3, toc.MaxLevel)
	assert.True(t, toc.AutoUpdate)
}

func TestNewSeed_PrefaceStyle(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Preface = "intro.md"

	doc := document.New()
	_, err := NewSeed(cfg, doc, discardLogger())
	require.NoError(t, err)

	styles := doc.Styles()
	require.Len(t, styles, 4)
	assert.Equal(t, StyleSection, styles[3].ID)
	assert.Equal(t, 3, styles[3].Heading)
}

func TestNewSeed_RegisterFails(t *testing.T) {
	doc := document.New()
	require.NoError(t, doc.RegisterStyle(document.Style{ID: StyleFile}))

	_, err := NewSeed(testConfig(t.TempDir()), doc, discardLogger())
	assert.Error(t, err)
}

func TestProcessFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	path := filepath.Join(root, "sub", "b.py")
	require.NoError(t, os.WriteFile(path, []byte("def f():\n\treturn 1\n\n  # end  \n"), 0o644))

	cfg := testConfig(root)
	cfg.CodeFontSize = 9
	doc := document.New()
	a, err := NewSeed(cfg, doc, discardLogger())
	require.NoError(t, err)

	require.NoError(t, a.ProcessFile(path))
	assert.Equal(t, 1, a.Added())

	assert.Equal(t, []string{
		"Heading1:Source Code",
		"Heading2:" + filepath.Join("sub", "b.py"),
	}, headings(doc))

	tbls := tables(doc)
	require.Len(t, tbls, 1)
	paras := tbls[0].TableRows[0].TableCells[0].Paragraphs
	want := []string{"def f():", "\treturn 1", "", "  # end  "}
	require.Len(t, paras, len(want))
	for i, p := range paras {
		assert.Equal(t, want[i], paragraphText(p))
		assert.Equal(t, StyleCode, styleOf(p))
		run := p.Children[0].(*docx.Run)
		assert.Equal(t, "18", run.RunProperties.Size.Val)
		assert.Equal(t, "Courier New", run.RunProperties.Fonts.ASCII)
	}
}

func TestProcessFile_EmptyFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "empty.rs")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	doc := document.New()
	a, err := NewSeed(testConfig(root), doc, discardLogger())
	require.NoError(t, err)
	require.NoError(t, a.ProcessFile(path))

	tbls := tables(doc)
	require.Len(t, tbls, 1)
	assert.Empty(t, tbls[0].TableRows[0].TableCells[0].Paragraphs)
}

func TestProcessFile_OutsideRoot(t *testing.T) {
	root := t.TempDir()
	other := filepath.Join(t.TempDir(), "x.rs")
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))

	a, err := NewSeed(testConfig(root), document.New(), discardLogger())
	require.NoError(t, err)
	assert.ErrorIs(t, a.ProcessFile(other), ErrOutsideRoot)
}

func TestProcessFile_Unreadable(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "bin.txt")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0x80}, 0o644))

	t.Run("abort", func(t *testing.T) {
		doc := document.New()
		a, err := NewSeed(testConfig(root), doc, discardLogger())
		require.NoError(t, err)

		err = a.ProcessFile(path)
		assert.ErrorIs(t, err, source.ErrNotText)
		assert.Len(t, headings(doc), 1)
	})

	t.Run("skip", func(t *testing.T) {
		cfg := testConfig(root)
		cfg.OnUnreadable = config.OnUnreadableSkip
		doc := document.New()
		a, err := NewSeed(cfg, doc, discardLogger())
		require.NoError(t, err)

		require.NoError(t, a.ProcessFile(path))
		assert.Equal(t, 0, a.Added())
		assert.Equal(t, 1, a.Skipped())
		assert.Empty(t, tables(doc))
	})
}

func TestProcessFile_ReadError(t *testing.T) {
	root := t.TempDir()
	a, err := NewSeed(testConfig(root), document.New(), discardLogger())
	require.NoError(t, err)

	boom := errors.New("boom")
	a.readLines = func(string) ([]string, error) { return nil, boom }
	assert.ErrorIs(t, a.ProcessFile(filepath.Join(root, "a.rs")), boom)
}

func TestAddPreface(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Preface = "intro.md"
	doc := document.New()
	a, err := NewSeed(cfg, doc, discardLogger())
	require.NoError(t, err)

	a.AddPreface(&prose.Document{Sections: []*prose.Section{
		{Text: "Lead."},
		{Title: "About", Text: "One.\n\nTwo.", Children: []*prose.Section{
			{Title: "Nested", Text: "Three."},
		}},
	}})

	assert.Equal(t, []string{
		"Heading1:Source Code",
		":Lead.",
		"Heading3:About",
		":One.",
		":Two.",
		"Heading3:Nested",
		":Three.",
	}, headings(doc))
}
