package document

import (
	"encoding/xml"
	"fmt"
)

// TableOfContents describes a TOC field over a range of heading levels.
type TableOfContents struct {
	Alias    string
	MinLevel int
	MaxLevel int

	// AutoUpdate marks the field dirty so word processors refresh it on open.
	AutoUpdate bool
}

// Instruction is the field code Word evaluates to build the table.
func (t TableOfContents) Instruction() string {
	return fmt.Sprintf(` TOC \o "%d-%d" \h \z \u `, t.MinLevel, t.MaxLevel)
}

// tocBlock is the <w:sdt> body element carrying the TOC field.
type tocBlock struct {
	XMLName xml.Name        `xml:"w:sdt"`
	Props   tocProps        `xml:"w:sdtPr"`
	Content tocContent      `xml:"w:sdtContent"`
	TOC     TableOfContents `xml:"-"`
}

type tocProps struct {
	Alias   *xmlVal    `xml:"w:alias"`
	DocPart docPartObj `xml:"w:docPartObj"`
}

type docPartObj struct {
	Gallery xmlVal   `xml:"w:docPartGallery"`
	Unique  struct{} `xml:"w:docPartUnique"`
}

type tocContent struct {
	Paragraph fieldParagraph `xml:"w:p"`
}

type fieldParagraph struct {
	Runs []fieldRun `xml:"w:r"`
}

type fieldRun struct {
	FldChar   *fldChar   `xml:"w:fldChar"`
	InstrText *instrText `xml:"w:instrText"`
}

type fldChar struct {
	Type  string `xml:"w:fldCharType,attr"`
	Dirty string `xml:"w:dirty,attr,omitempty"`
}

type instrText struct {
	Space string `xml:"xml:space,attr"`
	Text  string `xml:",chardata"`
}

func newTOCBlock(t TableOfContents) *tocBlock {
	b := &tocBlock{TOC: t}
	if t.Alias != "" {
		b.Props.Alias = &xmlVal{Val: t.Alias}
	}
	b.Props.DocPart.Gallery = xmlVal{Val: "Table of Contents"}

	begin := &fldChar{Type: "begin"}
	if t.AutoUpdate {
		begin.Dirty = "true"
	}
	b.Content.Paragraph.Runs = []fieldRun{
		{FldChar: begin},
		{InstrText: &instrText{Space: "preserve", Text: t.Instruction()}},
		{FldChar: &fldChar{Type: "separate"}},
		{FldChar: &fldChar{Type: "end"}},
	}
	return b
}
