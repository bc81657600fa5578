package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
	err   error
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return f.err
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(ctx context.Context, args []string) error {
	f.loggedIn = true
	return f.record("login", args)
}
func (f *fakeExec) AdminLogin(ctx context.Context, args []string) error {
	f.loggedIn = true
	return f.record("admin", args)
}
func (f *fakeExec) Logout(ctx context.Context, args []string) error {
	f.loggedIn = false
	return f.record("logout", args)
}
func (f *fakeExec) Status(ctx context.Context, args []string) error { return f.record("status", args) }
func (f *fakeExec) Clock(ctx context.Context, args []string) error  { return f.record("clock", args) }
func (f *fakeExec) History(ctx context.Context, args []string) error {
	return f.record("history", args)
}
func (f *fakeExec) Report(ctx context.Context, args []string) error { return f.record("report", args) }
func (f *fakeExec) Export(ctx context.Context, args []string) error { return f.record("export", args) }
func (f *fakeExec) Open(ctx context.Context, args []string) error   { return f.record("open", args) }
func (f *fakeExec) Edit(ctx context.Context, args []string) error   { return f.record("edit", args) }
func (f *fakeExec) Show(ctx context.Context, args []string) error   { return f.record("show", args) }
func (f *fakeExec) Add(ctx context.Context, args []string) error    { return f.record("add", args) }
func (f *fakeExec) Set(ctx context.Context, args []string) error    { return f.record("set", args) }
func (f *fakeExec) Remove(ctx context.Context, args []string) error { return f.record("rm", args) }
func (f *fakeExec) Suggest(ctx context.Context, args []string) error {
	return f.record("suggest", args)
}
func (f *fakeExec) Check(ctx context.Context, args []string) error  { return f.record("check", args) }
func (f *fakeExec) Commit(ctx context.Context, args []string) error { return f.record("commit", args) }
func (f *fakeExec) Cancel(ctx context.Context, args []string) error { return f.record("cancel", args) }
func (f *fakeExec) Drafts(ctx context.Context, args []string) error { return f.record("drafts", args) }

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSpace(fmt.Sprintln(a...)))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &lines
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	captureOutput(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"status",
		"login 7",
		"help",
		"clock in",
		"edit 2025-11-03",
		"add out 17:00",
		"set 2 17:30",
		"rm 1",
		"show",
		"suggest",
		"check",
		"commit",
		"cancel",
		"drafts",
		"history 5",
		"report 2025-11-01 2025-11-07 9",
		"export",
		"open",
		"foobar",
		"logout",
		"exit",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewScanner(input))

	want := []string{"login", "clock", "edit", "add", "set", "rm", "show", "suggest", "check",
		"commit", "cancel", "drafts", "history", "report", "export", "open", "logout"}
	if strings.Join(exec.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls: got %v, want %v", exec.calls, want)
	}
	if got := exec.args[3]; strings.Join(got, " ") != "out 17:00" {
		t.Fatalf("add args: %v", got)
	}
	if got := exec.args[13]; len(got) != 3 || got[2] != "9" {
		t.Fatalf("report args: %v", got)
	}
}

func TestRunREPL_RequiresLogin(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(strings.NewReader("clock in\n")))

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
	found := false
	for _, l := range *out {
		if strings.HasPrefix(l, "Please log in first") {
			found = true
		}
	}
	if !found {
		t.Fatalf("login hint not printed: %v", *out)
	}
}

func TestRunREPL_PrintsErrorsAndQuits(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{loggedIn: true, err: errors.New("boom")}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewScanner(strings.NewReader("\nstatus\nquit\nstatus\n")))

	if len(exec.calls) != 1 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
	var sawErr, sawBye bool
	for _, l := range *out {
		sawErr = sawErr || l == "Error: boom"
		sawBye = sawBye || l == "Bye!"
	}
	if !sawErr || !sawBye {
		t.Fatalf("output: %v", *out)
	}
}
