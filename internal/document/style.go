package document

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
)

// Style is a named paragraph style registered in word/styles.xml.
type Style struct {
	ID   string // referenced by paragraphs, e.g. "Heading2"
	Name string // display name, e.g. "heading 2"

	FontFamily string
	HalfPoints int // font size in half-points; 0 keeps the default

	// Heading is the outline level (1-9) picked up by a TOC field; 0 for body
	// styles.
	Heading int

	PageBreakBefore bool
	KeepNext        bool

	// Compact removes spacing after the paragraph and uses single line height.
	Compact bool
}

type xmlVal struct {
	Val string `xml:"w:val,attr"`
}

type xmlStyle struct {
	XMLName xml.Name  `xml:"w:style"`
	Type    string    `xml:"w:type,attr"`
	StyleID string    `xml:"w:styleId,attr"`
	Name    xmlVal    `xml:"w:name"`
	Next    *xmlVal   `xml:"w:next"`
	QFormat *struct{} `xml:"w:qFormat"`
	PPr     *xmlPPr   `xml:"w:pPr"`
	RPr     *xmlRPr   `xml:"w:rPr"`
}

type xmlPPr struct {
	KeepNext        *struct{}   `xml:"w:keepNext"`
	PageBreakBefore *struct{}   `xml:"w:pageBreakBefore"`
	Spacing         *xmlSpacing `xml:"w:spacing"`
	OutlineLvl      *xmlVal     `xml:"w:outlineLvl"`
}

type xmlSpacing struct {
	After    int    `xml:"w:after,attr"`
	Line     int    `xml:"w:line,attr"`
	LineRule string `xml:"w:lineRule,attr"`
}

type xmlRPr struct {
	Fonts *xmlFonts `xml:"w:rFonts"`
	Size  *xmlVal   `xml:"w:sz"`
	SizeC *xmlVal   `xml:"w:szCs"`
}

type xmlFonts struct {
	ASCII string `xml:"w:ascii,attr"`
	HAnsi string `xml:"w:hAnsi,attr"`
	CS    string `xml:"w:cs,attr"`
}

func (s Style) toXML() xmlStyle {
	x := xmlStyle{
		Type:    "paragraph",
		StyleID: s.ID,
		Name:    xmlVal{Val: s.Name},
	}
	if x.Name.Val == "" {
		x.Name.Val = s.ID
	}

	var ppr xmlPPr
	hasPPr := false
	if s.KeepNext {
		ppr.KeepNext = &struct{}{}
		hasPPr = true
	}
	if s.PageBreakBefore {
		ppr.PageBreakBefore = &struct{}{}
		hasPPr = true
	}
	if s.Compact {
		ppr.Spacing = &xmlSpacing{After: 0, Line: 240, LineRule: "auto"}
		hasPPr = true
	}
	if s.Heading > 0 {
		ppr.OutlineLvl = &xmlVal{Val: strconv.Itoa(s.Heading - 1)}
		hasPPr = true
		x.QFormat = &struct{}{}
		x.Next = &xmlVal{Val: "a"} // Normal in the go-docx default template
	}
	if hasPPr {
		x.PPr = &ppr
	}

	if s.FontFamily != "" || s.HalfPoints > 0 {
		var rpr xmlRPr
		if s.FontFamily != "" {
			rpr.Fonts = &xmlFonts{ASCII: s.FontFamily, HAnsi: s.FontFamily, CS: s.FontFamily}
		}
		if s.HalfPoints > 0 {
			size := strconv.Itoa(s.HalfPoints)
			rpr.Size = &xmlVal{Val: size}
			rpr.SizeC = &xmlVal{Val: size}
		}
		x.RPr = &rpr
	}
	return x
}

var stylesCloseTag = []byte("</w:styles>")

// injectStyles appends the given styles to a styles.xml part, just before the
// closing </w:styles> tag.
func injectStyles(stylesXML []byte, styles []Style) ([]byte, error) {
	idx := bytes.LastIndex(stylesXML, stylesCloseTag)
	if idx < 0 {
		return nil, fmt.Errorf("styles part has no closing %s tag", stylesCloseTag)
	}

	var buf bytes.Buffer
	buf.Grow(len(stylesXML) + 512*len(styles))
	buf.Write(stylesXML[:idx])
	enc := xml.NewEncoder(&buf)
	for _, s := range styles {
		if err := enc.Encode(s.toXML()); err != nil {
			return nil, fmt.Errorf("encode style %s: %w", s.ID, err)
		}
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	buf.Write(stylesXML[idx:])
	return buf.Bytes(), nil
}
