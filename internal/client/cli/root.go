package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
)

func (a *App) getStatus() string {
	s := ""
	if a.session != nil {
		s = a.session.Name + " "
	}
	if m := a.mode(); m != "" {
		s = s + string(m)
	}
	if a.edit != nil {
		mark := ""
		if a.edit.Dirty() {
			mark = "*"
		}
		s = fmt.Sprintf("%s | edit %s%s", s, a.edit.Day(), mark)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root greets the user, asks for a login, starts the connectivity watcher and
// hands the terminal to the REPL until the user exits.
func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to punchclock (type 'help' for commands)")

	if err := a.Login(ctx, nil); err != nil {
		a.println("Error:", err)
	}

	go func() {
		a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}()

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))

	if a.edit != nil && a.edit.Dirty() {
		if err := a.attendance.SaveDraft(ctx, a.edit); err == nil {
			a.printf("Unsaved edits of %s parked as a draft\n", a.edit.Day())
		}
	}
}
