// Package terminal hosts the activity page in an interactive terminal.
package terminal

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/jrsteele09/go-activity-signup/activityview"
	"github.com/jrsteele09/go-activity-signup/view"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

var _ activityview.Page = (*Page)(nil)

// Page draws the activity page as text. Output that has been printed cannot
// be taken back, so HideMessage and ResetForm only change state.
type Page struct {
	out       io.Writer
	useColors bool

	lock    sync.Mutex
	model   view.Model
	failure string
	banner  view.AuthBanner
	drawn   bool // banner printed at least once
	message *view.Message
	form    view.Form
}

func NewPage(out io.Writer, useColors bool) *Page {
	return &Page{out: out, useColors: useColors}
}

func (p *Page) RenderActivities(model view.Model) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.model = model
	p.failure = ""

	p.header("Available Activities")
	if len(model.Cards) == 0 {
		fmt.Fprintln(p.out, "No activities available")
		return
	}

	table := tablewriter.NewTable(p.out,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)

	rows := make([][]string, 0, len(model.Cards))
	for i, card := range model.Cards {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			card.Name,
			card.Description,
			card.Schedule,
			card.Availability,
			participants(card),
		})
	}

	table.Header([]string{"#", "Activity", "Description", "Schedule", "Availability", "Participants"})
	if err := table.Bulk(rows); err != nil {
		fmt.Fprintf(p.out, "failed to lay out activities: %v\n", err)
		return
	}
	if err := table.Render(); err != nil {
		fmt.Fprintf(p.out, "failed to render activities: %v\n", err)
		return
	}

	if model.HasRemovalControls() {
		fmt.Fprintln(p.out, p.dim("[x] marks a removable registration: unregister <#> <email>"))
	}
}

func (p *Page) RenderFailure(notice string) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.model = view.Model{}
	p.failure = notice

	p.header("Available Activities")
	if p.useColors {
		color.New(color.FgRed).Fprintln(p.out, notice)
		return
	}
	fmt.Fprintln(p.out, notice)
}

func (p *Page) RenderAuth(banner view.AuthBanner) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.drawn && banner == p.banner {
		return
	}
	p.banner = banner
	p.drawn = true

	if banner.LoggedIn {
		if p.useColors {
			color.New(color.FgCyan, color.Bold).Fprintln(p.out, banner.Greeting)
		} else {
			fmt.Fprintln(p.out, banner.Greeting)
		}
		return
	}
	fmt.Fprintln(p.out, p.dim("Not logged in. Type 'login' to manage registrations."))
}

func (p *Page) ShowMessage(msg view.Message) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.message = &msg

	switch {
	case msg.Kind == view.MessageError && p.useColors:
		color.New(color.FgRed).Fprintf(p.out, "✗ %s\n", msg.Text)
	case msg.Kind == view.MessageError:
		fmt.Fprintf(p.out, "[ERROR] %s\n", msg.Text)
	case p.useColors:
		color.New(color.FgGreen).Fprintf(p.out, "✓ %s\n", msg.Text)
	default:
		fmt.Fprintf(p.out, "[OK] %s\n", msg.Text)
	}
}

func (p *Page) HideMessage() {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.message = nil
}

func (p *Page) ResetForm() {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.form = view.Form{}
}

// SetForm fills in the signup form.
func (p *Page) SetForm(form view.Form) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.form = form
}

func (p *Page) Form() view.Form {
	p.lock.Lock()
	defer p.lock.Unlock()

	return p.form
}

// Message returns the visible status message, if any.
func (p *Page) Message() (view.Message, bool) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.message == nil {
		return view.Message{}, false
	}
	return *p.message, true
}

// Option resolves a 1-based position in the last rendered activity list.
func (p *Page) Option(n int) (string, bool) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if n < 1 || n > len(p.model.Options) {
		return "", false
	}
	return p.model.Options[n-1], true
}

// Model returns the last rendered model and failure notice.
func (p *Page) Model() (view.Model, string) {
	p.lock.Lock()
	defer p.lock.Unlock()

	return p.model, p.failure
}

// Printf writes a plain line, serialized with page updates.
func (p *Page) Printf(format string, args ...any) {
	p.lock.Lock()
	defer p.lock.Unlock()

	fmt.Fprintf(p.out, format, args...)
}

func (p *Page) header(title string) {
	if p.useColors {
		color.New(color.FgWhite, color.Bold).Fprintf(p.out, "\n%s\n", title)
		return
	}
	fmt.Fprintf(p.out, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
}

func (p *Page) dim(text string) string {
	if p.useColors {
		return color.New(color.Faint).Sprint(text)
	}
	return text
}

func participants(card view.Card) string {
	if len(card.Participants) == 0 {
		return "No participants yet"
	}
	parts := make([]string, 0, len(card.Participants))
	for _, participant := range card.Participants {
		if participant.Removable {
			parts = append(parts, participant.Email+" [x]")
			continue
		}
		parts = append(parts, participant.Email)
	}
	return strings.Join(parts, ", ")
}
