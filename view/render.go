package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
)

//go:embed templates/*
var templateFiles embed.FS

const pageTemplate = "page.html"

var pageTmpl = template.Must(parseTemplate(pageTemplate))

// Document is everything shown on the page.
type Document struct {
	Title   string
	Model   Model
	Banner  AuthBanner
	Message *Message // nil when no message is showing
	Failure string   // Replaces the activity list when set
	Form    Form
}

// RenderHTML writes the page markup. All server supplied text is escaped.
func RenderHTML(w io.Writer, doc Document) error {
	if err := pageTmpl.Execute(w, doc); err != nil {
		return fmt.Errorf("[view RenderHTML] %w", err)
	}
	return nil
}

func parseTemplate(name string) (*template.Template, error) {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		return nil, err
	}
	content, err := fs.ReadFile(subFS, name)
	if err != nil {
		return nil, err
	}
	return template.New(name).Parse(string(content))
}
