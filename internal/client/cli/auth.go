package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/punchclock/internal/client/client"
	"github.com/dmitrijs2005/punchclock/internal/common"
)

// getSimpleText and getSecret are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getSecret = GetSecret

// Login authenticates an employee. The id comes from args or a prompt that
// offers the last successful one; the PIN is always read without echo.
func (a *App) Login(ctx context.Context, args []string) error {
	var raw string
	if len(args) > 0 {
		raw = args[0]
	} else {
		prompt := "Enter employee id"
		last := a.auth.LastUserID(ctx)
		if last > 0 {
			prompt = fmt.Sprintf("%s [%d]", prompt, last)
		}
		text, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return err
		}
		raw = text
		if raw == "" && last > 0 {
			raw = strconv.FormatInt(last, 10)
		}
	}

	userID, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || userID <= 0 {
		return fmt.Errorf("%w: employee id must be a positive number", common.ErrInvalidInput)
	}

	pin, err := getSecret("Enter PIN", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pin)

	sess, err := a.auth.Login(ctx, userID, string(pin))
	return a.startSession(sess, err)
}

// AdminLogin authenticates an administrator by username and password.
func (a *App) AdminLogin(ctx context.Context, args []string) error {
	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		prompt := "Enter username"
		last := a.auth.LastAdmin(ctx)
		if last != "" {
			prompt = fmt.Sprintf("%s [%s]", prompt, last)
		}
		text, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return err
		}
		username = text
		if username == "" {
			username = last
		}
	}
	if username == "" {
		return fmt.Errorf("%w: username is required", common.ErrInvalidInput)
	}

	password, err := getSecret("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.auth.AdminLogin(ctx, username, string(password))
	return a.startSession(sess, err)
}

func (a *App) startSession(sess *client.Session, err error) error {
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			a.setMode(ModeOffline)
			return fmt.Errorf("server unavailable, try again later")
		}
		return err
	}
	a.session = sess
	a.edit = nil
	a.setMode(ModeOnline)
	a.printf("Welcome, %s!\n", sess.Name)
	return nil
}

// Logout forgets the session. An edit in progress is parked as a draft.
func (a *App) Logout(ctx context.Context, args []string) error {
	if a.edit != nil && a.edit.Dirty() {
		if err := a.attendance.SaveDraft(ctx, a.edit); err != nil {
			return err
		}
		a.printf("Unsaved edits of %s parked as a draft\n", a.edit.Day())
	}
	a.edit = nil
	a.session = nil
	return a.auth.Logout(ctx)
}
