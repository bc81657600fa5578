package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context, args []string) error
	AdminLogin(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error

	Status(ctx context.Context, args []string) error
	Clock(ctx context.Context, args []string) error
	History(ctx context.Context, args []string) error
	Report(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	Open(ctx context.Context, args []string) error

	Edit(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
	Set(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	Suggest(ctx context.Context, args []string) error
	Check(ctx context.Context, args []string) error
	Commit(ctx context.Context, args []string) error
	Cancel(ctx context.Context, args []string) error
	Drafts(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: login [ID], admin [USERNAME], exit"
	helpLoggedIn  = `Available commands:
  status [USER]                  today's status and allowed actions
  clock in|out|break|resume      record an event now
  history [LIMIT] [USER]         latest events
  report [FROM] [TO] [USER]      compliance per day
  export [FROM] [TO] [USER]      download the report as XLSX
  open [FROM] [TO] [USER]        days left without a clock-out
  edit [DATE] [USER]             start or resume editing a day
  show | add TYPE HH:MM | set ROW [HH:MM] [TYPE] | rm ROW
  suggest | check | commit | cancel | drafts
  logout, exit`
)

// runREPL starts a simple read–eval–print loop for the punchclock CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command and the rest as its arguments, and dispatches to methods on 'a'.
// Errors returned by command handlers are printed and the loop carries on.
// The loop exits on scanner EOF or when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("pc %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "login":
			err = a.Login(ctx, args)
		case "admin":
			err = a.AdminLogin(ctx, args)
		case "logout":
			err = a.Logout(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			if !a.isLoggedIn() {
				printlnFn("Please log in first (type 'help' for commands)")
				continue
			}
			err = dispatch(ctx, a, cmd, args)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "status":
		return a.Status(ctx, args)
	case "clock":
		return a.Clock(ctx, args)
	case "history":
		return a.History(ctx, args)
	case "report":
		return a.Report(ctx, args)
	case "export":
		return a.Export(ctx, args)
	case "open":
		return a.Open(ctx, args)
	case "edit":
		return a.Edit(ctx, args)
	case "show":
		return a.Show(ctx, args)
	case "add":
		return a.Add(ctx, args)
	case "set":
		return a.Set(ctx, args)
	case "rm":
		return a.Remove(ctx, args)
	case "suggest":
		return a.Suggest(ctx, args)
	case "check":
		return a.Check(ctx, args)
	case "commit":
		return a.Commit(ctx, args)
	case "cancel":
		return a.Cancel(ctx, args)
	case "drafts":
		return a.Drafts(ctx, args)
	}
	printlnFn("Unknown command:", cmd)
	return nil
}
