package source

import (
	"fmt"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// DOCXReader extracts one line per paragraph from a Word document, including
// paragraphs inside table cells.
type DOCXReader struct{}

func (r *DOCXReader) ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open docx %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat docx %s: %w", path, err)
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("parse docx %s: %w", path, err)
	}

	var lines []string
	for _, item := range doc.Document.Body.Items {
		switch o := item.(type) {
		case *docx.Paragraph:
			lines = append(lines, strings.Split(ParagraphText(o), "\n")...)
		case *docx.Table:
			for _, row := range o.TableRows {
				for _, cell := range row.TableCells {
					for _, para := range cell.Paragraphs {
						lines = append(lines, strings.Split(ParagraphText(para), "\n")...)
					}
				}
			}
		}
	}
	return lines, nil
}

// ParagraphText concatenates the text runs of a paragraph, keeping tabs and
// line breaks.
func ParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			switch t := rc.(type) {
			case *docx.Text:
				buf.WriteString(t.Text)
			case *docx.Tab:
				buf.WriteByte('\t')
			case *docx.BarterRabbet:
				if t.Type != "page" {
					buf.WriteByte('\n')
				}
			}
		}
	}
	return buf.String()
}
