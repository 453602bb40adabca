package terminal

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jrsteele09/go-activity-signup/sessions"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

var _ sessions.CredentialProvider = (*PromptCredentials)(nil)

// PromptCredentials asks for a username and password. The password is read
// without echo when fd is a terminal.
type PromptCredentials struct {
	lines        *LineReader
	out          io.Writer
	fd           int
	isTerminal   func(fd int) bool
	readPassword func(fd int) ([]byte, error)
}

func NewPromptCredentials(lines *LineReader, out io.Writer, fd int) *PromptCredentials {
	return &PromptCredentials{
		lines:        lines,
		out:          out,
		fd:           fd,
		isTerminal:   term.IsTerminal,
		readPassword: term.ReadPassword,
	}
}

func (p *PromptCredentials) Credentials(ctx context.Context) (string, string, bool) {
	fmt.Fprint(p.out, "Enter teacher username: ")
	username, err := p.lines.ReadLine(ctx)
	if err != nil {
		fmt.Fprintln(p.out)
		return "", "", false
	}

	fmt.Fprint(p.out, "Enter teacher password: ")
	password, err := p.password(ctx)
	if err != nil {
		log.Err(err).Msg("Failed to read password")
		return "", "", false
	}

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", "", false
	}
	return username, password, true
}

func (p *PromptCredentials) password(ctx context.Context) (string, error) {
	if !p.isTerminal(p.fd) {
		return p.lines.ReadLine(ctx)
	}

	b, err := p.readPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
