package document

import (
	"bytes"
	"io/fs"
	"path"
	"time"

	"github.com/fumiama/go-docx"
)

const (
	templateName = "codedocx"
	stylesPart   = "word/styles.xml"
)

// buildTemplate copies the go-docx default template parts into memory with
// the registered styles added to styles.xml.
func buildTemplate(styles []Style) (templateFS, error) {
	t := make(templateFS, len(docx.DefaultTemplateFilesList))
	for _, name := range docx.DefaultTemplateFilesList {
		data, err := fs.ReadFile(docx.TemplateXMLFS, path.Join("xml", "default", name))
		if err != nil {
			return nil, err
		}
		if name == stylesPart {
			data, err = injectStyles(data, styles)
			if err != nil {
				return nil, err
			}
		}
		t[path.Join("xml", templateName, name)] = data
	}
	return t, nil
}

// templateFS is a read-only in-memory fs.FS holding template parts by path.
type templateFS map[string][]byte

func (t templateFS) Open(name string) (fs.File, error) {
	data, ok := t[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return &templateFile{Reader: bytes.NewReader(data), name: path.Base(name), size: int64(len(data))}, nil
}

type templateFile struct {
	*bytes.Reader
	name string
	size int64
}

func (f *templateFile) Stat() (fs.FileInfo, error) { return f, nil }
func (f *templateFile) Close() error               { return nil }

func (f *templateFile) Name() string       { return f.name }
func (f *templateFile) Size() int64        { return f.size }
func (f *templateFile) Mode() fs.FileMode  { return 0o444 }
func (f *templateFile) ModTime() time.Time { return time.Time{} }
func (f *templateFile) IsDir() bool        { return false }
func (f *templateFile) Sys() any           { return nil }
