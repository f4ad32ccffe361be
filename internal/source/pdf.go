package source

import (
	"fmt"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFReader extracts the plain text of each page, pages in order.
type PDFReader struct{}

func (r *PDFReader) ReadLines(path string) ([]string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract pdf page %d of %s: %w", i, path, err)
		}
		lines = append(lines, SplitLines(text)...)
	}
	return lines, nil
}
