package assembler

import "github.com/dgallion1/codedocx/internal/prose"

// AddPreface writes the preface sections after the table of contents. Every
// titled section becomes a Heading3 regardless of its depth so the preface
// never competes with the file headings in the table of contents.
func (a *Assembler) AddPreface(doc *prose.Document) {
	doc.Walk(func(s *prose.Section, _ int) {
		if s.Title != "" {
			a.doc.AddParagraph(StyleSection, s.Title)
		}
		for _, p := range s.Paragraphs() {
			a.doc.AddParagraph("", p)
		}
	})
}
