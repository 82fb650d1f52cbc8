package cli

import (
	"context"
)

// getSimpleText and getPassword are indirections swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// Login takes the username from args or prompts for it, then prompts for the
// password.
func (a *App) Login(ctx context.Context, args []string) error {
	var (
		username string
		err      error
	)
	if len(args) > 0 {
		username = args[0]
	} else if username, err = getSimpleText(a.reader, "Enter username", a.out); err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	user, err := a.session.Login(ctx, username, password)
	if err := a.track(err); err != nil {
		return err
	}

	a.printf("Login successful, welcome %s", user.Username)
	if user.Role != "" {
		a.printf(" (%s)", user.Role)
	}
	a.printf("\n")

	a.uploadConfig.Refresh(ctx)
	return nil
}

// Logout ends the session at once; the backend is told in the background.
func (a *App) Logout(ctx context.Context, _ []string) error {
	a.session.Logout(ctx)
	a.printf("Logged out\n")
	return nil
}
