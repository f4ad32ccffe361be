package prose

import "strings"

// outline builds a section tree from a flat stream of headings and text
// blocks. A heading nests under the nearest open heading of a lower level.
type outline struct {
	title   string
	root    *Section
	stack   []openSection
	pending []string
}

type openSection struct {
	section *Section
	level   int
}

func newOutline(title string) *outline {
	root := &Section{}
	return &outline{
		title: title,
		root:  root,
		stack: []openSection{{section: root, level: 0}},
	}
}

func (o *outline) heading(level int, title string) {
	o.flush()
	s := &Section{Title: title}
	for len(o.stack) > 1 && o.stack[len(o.stack)-1].level >= level {
		o.stack = o.stack[:len(o.stack)-1]
	}
	parent := o.stack[len(o.stack)-1].section
	parent.Children = append(parent.Children, s)
	o.stack = append(o.stack, openSection{section: s, level: level})
}

func (o *outline) text(block string) {
	if block = strings.TrimSpace(block); block != "" {
		o.pending = append(o.pending, block)
	}
}

func (o *outline) flush() {
	if len(o.pending) == 0 {
		return
	}
	top := o.stack[len(o.stack)-1].section
	t := strings.Join(o.pending, "\n\n")
	if top.Text != "" {
		top.Text += "\n\n" + t
	} else {
		top.Text = t
	}
	o.pending = o.pending[:0]
}

func (o *outline) finish() *Document {
	o.flush()
	doc := &Document{Title: o.title}
	if o.root.Text != "" {
		doc.Sections = append(doc.Sections, &Section{Text: o.root.Text})
	}
	doc.Sections = append(doc.Sections, o.root.Children...)
	return doc
}
