// Package document builds DOCX output on top of go-docx: named paragraph
// styles, styled paragraphs, monospace code tables and a table of contents.
package document

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/fumiama/go-docx"
)

// ErrSealed is returned when a document is modified or written after it has
// already been serialized.
var ErrSealed = errors.New("document already written")

// Font is the run formatting applied to code lines.
type Font struct {
	Family     string
	HalfPoints int
}

// Document is an in-memory DOCX body plus the styles registered for it.
type Document struct {
	file   *docx.Docx
	styles []Style
	sealed bool
}

func New() *Document {
	return &Document{file: docx.New()}
}

// Items returns the body elements in document order: *docx.Paragraph,
// *docx.Table and the table-of-contents block.
func (d *Document) Items() []interface{} {
	return d.file.Document.Body.Items
}

// Styles returns the registered styles in registration order.
func (d *Document) Styles() []Style {
	return append([]Style(nil), d.styles...)
}

// RegisterStyle adds a paragraph style. IDs must be unique.
func (d *Document) RegisterStyle(s Style) error {
	if d.sealed {
		return ErrSealed
	}
	if s.ID == "" {
		return fmt.Errorf("style id is required")
	}
	for _, existing := range d.styles {
		if existing.ID == s.ID {
			return fmt.Errorf("style %s already registered", s.ID)
		}
	}
	d.styles = append(d.styles, s)
	return nil
}

// AddParagraph appends a paragraph holding text in the given style. An empty
// styleID leaves the paragraph in the default style.
func (d *Document) AddParagraph(styleID, text string) *docx.Paragraph {
	p := d.file.AddParagraph()
	if styleID != "" {
		p.Style(styleID)
	}
	if text != "" {
		preserveSpace(p.AddText(text))
	}
	return p
}

// AddTableOfContents appends a TOC field at the current position.
func (d *Document) AddTableOfContents(toc TableOfContents) {
	d.file.Document.Body.Items = append(d.file.Document.Body.Items, newTOCBlock(toc))
}

// TableOfContents returns the first TOC in the body, if any.
func (d *Document) TableOfContents() (TableOfContents, bool) {
	for _, item := range d.Items() {
		if b, ok := item.(*tocBlock); ok {
			return b.TOC, true
		}
	}
	return TableOfContents{}, false
}

// AddCodeTable appends a table with one row and one cell. The cell holds one
// paragraph per line in styleID, each run set in font. Lines are kept
// verbatim, including leading whitespace and tabs.
func (d *Document) AddCodeTable(lines []string, styleID string, font Font) *docx.Table {
	tbl := d.file.AddTable(1, 1, 0, nil)
	cell := tbl.TableRows[0].TableCells[0]
	size := strconv.Itoa(font.HalfPoints)
	for _, line := range lines {
		p := cell.AddParagraph()
		if styleID != "" {
			p.Style(styleID)
		}
		run := p.AddText(line)
		if font.Family != "" {
			run.Font(font.Family, "", font.Family, "")
		}
		if font.HalfPoints > 0 {
			run.Size(size).SizeCs(size)
		}
		preserveSpace(run)
	}
	return tbl
}

func preserveSpace(run *docx.Run) {
	for _, c := range run.Children {
		if t, ok := c.(*docx.Text); ok {
			t.XMLSpace = "preserve"
		}
	}
}

// WriteTo serializes the document as a DOCX package. A document can be
// written once; the page setup and template are fixed at that point.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	if d.sealed {
		return 0, ErrSealed
	}
	tmpl, err := buildTemplate(d.styles)
	if err != nil {
		return 0, fmt.Errorf("build template: %w", err)
	}
	d.sealed = true

	// Every table cell needs at least one paragraph to be a valid document.
	for _, item := range d.Items() {
		tbl, ok := item.(*docx.Table)
		if !ok {
			continue
		}
		for _, row := range tbl.TableRows {
			for _, cell := range row.TableCells {
				if len(cell.Paragraphs) == 0 {
					cell.AddParagraph()
				}
			}
		}
	}

	d.file.UseTemplate(templateName, docx.DefaultTemplateFilesList, tmpl).WithA4Page()

	cw := &countingWriter{w: w}
	if _, err := d.file.WriteTo(cw); err != nil {
		return cw.n, fmt.Errorf("pack docx: %w", err)
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
