package terminal

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-activity-signup/activityview"
	"github.com/jrsteele09/go-activity-signup/sessions"
	"github.com/jrsteele09/go-activity-signup/view"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const helpText = `Commands:
  list                          reload the activity list
  login                         log in as a teacher
  logout                        log out
  signup <activity|#> <email>   register a student
  signup                        resubmit the last signup form
  unregister <activity|#> <email>
                                remove a student from an activity
  whoami                        show the session state
  help                          show this help
  quit                          exit
`

// FormSetter receives the signup form as it is filled in.
type FormSetter interface {
	SetForm(form view.Form)
}

// Shell is the host event loop. Commands are read and parsed on the loop;
// anything that talks to the API runs on its own goroutine.
type Shell struct {
	ctrl     *activityview.Controller
	session  *sessions.Manager
	page     *Page
	lines    *LineReader
	provider sessions.CredentialProvider
	mirrors  []FormSetter
}

// ShellOption defines a function type to modify the Shell instance.
type ShellOption func(*Shell)

// WithFormMirror forwards form changes to another page, e.g. the HTML snapshot.
func WithFormMirror(mirror FormSetter) ShellOption {
	return func(s *Shell) {
		s.mirrors = append(s.mirrors, mirror)
	}
}

func NewShell(ctrl *activityview.Controller, session *sessions.Manager, page *Page, lines *LineReader, provider sessions.CredentialProvider, options ...ShellOption) (*Shell, error) {
	if ctrl == nil {
		return nil, errors.New("[terminal NewShell] controller is required")
	}
	if session == nil {
		return nil, errors.New("[terminal NewShell] session is required")
	}
	if page == nil {
		return nil, errors.New("[terminal NewShell] page is required")
	}
	if lines == nil {
		return nil, errors.New("[terminal NewShell] line reader is required")
	}
	if provider == nil {
		return nil, errors.New("[terminal NewShell] credential provider is required")
	}

	s := &Shell{
		ctrl:     ctrl,
		session:  session,
		page:     page,
		lines:    lines,
		provider: provider,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Run loads the page and processes commands until quit, end of input or ctx
// is done. It waits for dispatched handlers before returning.
func (s *Shell) Run(ctx context.Context) error {
	var g errgroup.Group
	defer s.ctrl.Close()

	g.Go(func() error {
		s.ctrl.Start(ctx)
		return nil
	})

	for {
		line, err := s.lines.ReadLine(ctx)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
				log.Err(err).Msg("Failed to read command")
			}
			break
		}
		if !s.handle(ctx, &g, line) {
			break
		}
	}

	return g.Wait()
}

// handle runs one command line and reports whether the loop should continue.
func (s *Shell) handle(ctx context.Context, g *errgroup.Group, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}
	args := fields[1:]

	switch strings.ToLower(fields[0]) {
	case "help", "?":
		s.page.Printf("%s", helpText)
	case "list", "refresh":
		g.Go(func() error {
			s.ctrl.FetchAndRender(ctx)
			return nil
		})
	case "login":
		s.login(ctx, g)
	case "logout":
		g.Go(func() error {
			s.ctrl.Logout(ctx)
			return nil
		})
	case "signup":
		s.signup(ctx, g, args)
	case "unregister":
		activity, email, ok := s.target(args)
		if !ok {
			s.page.Printf("usage: unregister <activity|#> <email>\n")
			return true
		}
		g.Go(func() error {
			s.ctrl.SubmitUnregister(ctx, activity, email)
			return nil
		})
	case "whoami", "status":
		s.whoami()
	case "quit", "exit":
		return false
	default:
		s.page.Printf("Unknown command %q. Type 'help' for a list of commands.\n", fields[0])
	}
	return true
}

// login prompts on the loop, the terminal cannot be shared with other
// commands while a password is typed. Verification runs in the background.
func (s *Shell) login(ctx context.Context, g *errgroup.Group) {
	identity, secret, ok := s.provider.Credentials(ctx)
	if !ok {
		s.page.Printf("Login cancelled\n")
		return
	}

	g.Go(func() error {
		s.ctrl.Login(ctx, sessions.StaticCredentials{Identity: identity, Secret: secret})
		return nil
	})
}

func (s *Shell) signup(ctx context.Context, g *errgroup.Group, args []string) {
	var form view.Form
	if len(args) == 0 {
		form = s.page.Form()
	} else {
		activity, email, ok := s.target(args)
		if !ok {
			s.page.Printf("usage: signup <activity|#> <email>\n")
			return
		}
		form = view.Form{Activity: activity, Email: email}
		s.setForm(form)
	}

	if !form.Complete() {
		s.page.Printf("usage: signup <activity|#> <email>\n")
		return
	}

	g.Go(func() error {
		s.ctrl.SubmitSignup(ctx, form.Activity, form.Email)
		return nil
	})
}

// target splits "<activity words...> <email>". An exact activity name wins;
// otherwise "#n" or "n" is a position in the last rendered list.
func (s *Shell) target(args []string) (string, string, bool) {
	if len(args) < 2 {
		return "", "", false
	}
	email := args[len(args)-1]
	activity := strings.Join(args[:len(args)-1], " ")

	model, _ := s.page.Model()
	if _, ok := model.Card(activity); ok {
		return activity, email, true
	}

	if n, err := strconv.Atoi(strings.TrimPrefix(activity, "#")); err == nil {
		name, ok := s.page.Option(n)
		if !ok {
			return "", "", false
		}
		activity = name
	}
	return activity, email, true
}

func (s *Shell) setForm(form view.Form) {
	s.page.SetForm(form)
	for _, mirror := range s.mirrors {
		mirror.SetForm(form)
	}
}

func (s *Shell) whoami() {
	creds, ok := s.session.Credentials()
	if !ok {
		s.page.Printf("%s\n", s.session.State())
		return
	}
	s.page.Printf("%s as %s (%s)\n", s.session.State(), creds.DisplayName, creds.Identity)
}
