// Package htmlpage mirrors the activity page into an HTML file.
package htmlpage

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jrsteele09/go-activity-signup/activityview"
	"github.com/jrsteele09/go-activity-signup/view"
	"github.com/rs/zerolog/log"
)

var _ activityview.Page = (*Page)(nil)

// Page rewrites the file at path after every change.
type Page struct {
	path string

	lock sync.Mutex
	doc  view.Document
}

func New(path, title string) (*Page, error) {
	if path == "" {
		return nil, fmt.Errorf("[htmlpage New] path is required")
	}
	p := &Page{path: path, doc: view.Document{Title: title}}
	if err := p.write(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Page) RenderActivities(model view.Model) {
	p.update(func(doc *view.Document) {
		doc.Model = model
		doc.Failure = ""
	})
}

func (p *Page) RenderFailure(notice string) {
	p.update(func(doc *view.Document) {
		doc.Model = view.Model{}
		doc.Failure = notice
	})
}

func (p *Page) RenderAuth(banner view.AuthBanner) {
	p.update(func(doc *view.Document) {
		doc.Banner = banner
	})
}

func (p *Page) ShowMessage(msg view.Message) {
	p.update(func(doc *view.Document) {
		doc.Message = &msg
	})
}

func (p *Page) HideMessage() {
	p.update(func(doc *view.Document) {
		doc.Message = nil
	})
}

func (p *Page) ResetForm() {
	p.update(func(doc *view.Document) {
		doc.Form = view.Form{}
	})
}

// SetForm fills in the signup form.
func (p *Page) SetForm(form view.Form) {
	p.update(func(doc *view.Document) {
		doc.Form = form
	})
}

// Document returns a copy of the current page state.
func (p *Page) Document() view.Document {
	p.lock.Lock()
	defer p.lock.Unlock()

	return p.doc
}

func (p *Page) update(change func(doc *view.Document)) {
	p.lock.Lock()
	defer p.lock.Unlock()

	change(&p.doc)
	if err := p.write(); err != nil {
		log.Err(err).Str("path", p.path).Msg("Failed to write HTML snapshot")
	}
}

// write replaces the file atomically. Callers hold the lock or own p exclusively.
func (p *Page) write() error {
	var buf bytes.Buffer
	if err := view.RenderHTML(&buf, p.doc); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(p.path), ".snapshot-*.html")
	if err != nil {
		return fmt.Errorf("[htmlpage write] create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("[htmlpage write] write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("[htmlpage write] close: %w", err)
	}
	if err := os.Rename(tmp.Name(), p.path); err != nil {
		return fmt.Errorf("[htmlpage write] rename: %w", err)
	}
	return nil
}
