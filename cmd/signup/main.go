package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-activity-signup/activities"
	"github.com/jrsteele09/go-activity-signup/activityview"
	"github.com/jrsteele09/go-activity-signup/apiclient"
	"github.com/jrsteele09/go-activity-signup/internal/config"
	"github.com/jrsteele09/go-activity-signup/internal/htmlpage"
	"github.com/jrsteele09/go-activity-signup/internal/terminal"
	"github.com/jrsteele09/go-activity-signup/sessions"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Browse school activities and manage student registrations",
		Long: `signup is an interactive client for the activity signup service.

Anyone can browse the activity list. Teachers log in to register students
for activities and to remove registrations.

Example usage:
  signup                                 # connect to http://localhost:8000
  signup --base-url http://school:8000   # connect to another service
  signup --demo                          # try it without a service
  signup --html page.html                # also keep an HTML copy of the page`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.New(cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd.Context(), c)
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func run(ctx context.Context, c config.Config) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Msgf("Recovered from panic: %v", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	setupLogging(c)
	displayAppname(c.GetAppName())

	api, err := newAPI(c)
	if err != nil {
		return err
	}

	session := sessions.New(api)
	termPage := terminal.NewPage(os.Stdout, c.GetColors())
	pages := activityview.Pages{termPage}
	var shellOptions []terminal.ShellOption

	if path := c.GetHTMLSnapshotPath(); path != "" {
		htmlPage, err := htmlpage.New(path, c.GetAppName())
		if err != nil {
			return err
		}
		pages = append(pages, htmlPage)
		shellOptions = append(shellOptions, terminal.WithFormMirror(htmlPage))
		log.Info().Str("path", path).Msg("Writing HTML snapshot")
	}

	ctrl, err := activityview.New(api, session, pages, activityview.WithMessageTimeout(c.GetMessageTimeout()))
	if err != nil {
		return err
	}

	lines := terminal.NewLineReader(os.Stdin)
	prompt := terminal.NewPromptCredentials(lines, os.Stdout, int(os.Stdin.Fd()))
	shell, err := terminal.NewShell(ctrl, session, termPage, lines, prompt, shellOptions...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	termPage.Printf("Type 'help' for a list of commands.\n")
	return shell.Run(ctx)
}

func newAPI(c config.Config) (activities.API, error) {
	if c.GetDemo() {
		log.Info().Msgf("Demo mode: log in as %s / %s", demoUsername, demoPassword)
		return newDemoAPI(), nil
	}

	var options []apiclient.Option
	if c.GetEnv() == "DEV" {
		options = append(options, apiclient.WithRequestTrace(os.Stderr, c.GetColors()))
	}

	client, err := apiclient.New(c.GetBaseURL(), options...)
	if err != nil {
		return nil, fmt.Errorf("[newAPI] %w", err)
	}
	log.Debug().Str("base_url", c.GetBaseURL()).Str("env", c.GetEnv()).Msg("Using activity service")
	return client, nil
}

func setupLogging(c config.Config) {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: !c.GetColors()})
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
