// Package cli is the terminal front end for the owner auth screen and the
// feedback wizard.
//
// Each invocation runs one command:
//
//	signup | login   authenticate and store the token
//	logout           discard the stored token
//	feedback         walk the feedback form and submit it
//	list             print the owner feedback listing
//	lang en|hi       change the display language
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/sehyaatri/sehyaatri/internal/client/authscreen"
	"github.com/sehyaatri/sehyaatri/internal/wizard"
)

// ErrUsage is returned for a missing or unknown command.
var ErrUsage = errors.New("usage: sehyaatri signup|login|logout|feedback|list|lang en|hi")

// API is everything the commands need from the server client.
type API interface {
	authscreen.API
	wizard.Submitter
}

type App struct {
	api    API
	screen *authscreen.Screen
	reader *bufio.Reader
	out    io.Writer
	logger *slog.Logger
}

// NewApp loads the persisted state through store and reads input from in.
func NewApp(api API, store authscreen.StateStore, in io.Reader, out io.Writer, logger *slog.Logger) (*App, error) {
	screen, err := authscreen.New(api, store)
	if err != nil {
		return nil, fmt.Errorf("loading client state: %w", err)
	}
	return &App{
		api:    api,
		screen: screen,
		reader: bufio.NewReader(in),
		out:    out,
		logger: logger,
	}, nil
}

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "signup":
		return a.authenticate(ctx, authscreen.ModeSignup)
	case "login":
		return a.authenticate(ctx, authscreen.ModeLogin)
	case "logout":
		return a.Logout()
	case "feedback":
		return a.Feedback(ctx)
	case "list":
		return a.List(ctx)
	case "lang":
		if len(rest) != 1 {
			return ErrUsage
		}
		return a.Language(rest[0])
	case "help", "-h", "--help":
		fmt.Fprintln(a.out, ErrUsage.Error())
		return nil
	}
	return fmt.Errorf("unknown command %q: %w", cmd, ErrUsage)
}

func (a *App) language() string {
	return a.screen.State().Language
}
