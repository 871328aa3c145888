package cli

import (
	"context"
	"fmt"

	"github.com/sehyaatri/sehyaatri/internal/client/authscreen"
)

func (a *App) authenticate(ctx context.Context, mode authscreen.Mode) error {
	a.screen.SetMode(mode)

	email, err := GetSimpleText(a.reader, "-Enter email", a.out)
	if err != nil {
		return err
	}
	a.screen.SetEmail(email)

	if mode == authscreen.ModeSignup {
		name, err := GetSimpleText(a.reader, "-Enter name (optional)", a.out)
		if err != nil {
			return err
		}
		a.screen.SetName(name)
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	a.screen.SetPassword(password)

	if err := a.screen.Submit(ctx); err != nil {
		a.logger.Debug("authentication failed", "mode", mode.String(), "error", err)
		fmt.Fprintln(a.out, a.screen.Error())
		return err
	}

	link, _ := a.screen.FeedbackLink()
	fmt.Fprintf(a.out, "Signed in as %s. Run `sehyaatri list` to view %s.\n", email, link)
	return nil
}

func (a *App) Logout() error {
	if err := a.screen.SignOut(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

func (a *App) Language(lang string) error {
	if err := a.screen.SetLanguage(lang); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Language set to %s.\n", lang)
	return nil
}
