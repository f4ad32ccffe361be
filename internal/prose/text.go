package prose

import (
	"bufio"
	"io"
	"strings"
)

// TextParser handles plain-text prefaces. Blank lines separate paragraphs;
// there are no headings, so the result is a single untitled section.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	o := newOutline(stripExt(filename))
	var para []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if strings.TrimSpace(line) == "" {
			o.text(strings.Join(para, "\n"))
			para = para[:0]
			continue
		}
		para = append(para, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	o.text(strings.Join(para, "\n"))
	return o.finish(), nil
}
