package input

import (
	"context"
	"testing"
	"time"

	"webterm/internal/format"
	"webterm/internal/history"
	"webterm/internal/screen"
	"webterm/internal/shell"
)

type countingFiles struct {
	calls int
}

func (c *countingFiles) Fetch(_ context.Context, name string) (string, error) {
	c.calls++
	return "content of " + name, nil
}

func (c *countingFiles) List(context.Context) ([]string, error) {
	c.calls++
	return []string{"about"}, nil
}

type rig struct {
	m       *Machine
	screen  *screen.Screen
	history *history.Stack
	files   *countingFiles
	anim    *screen.Manual
	sched   *shell.Deferred
	now     time.Time
}

func newRig(t *testing.T, mobile bool, recall string) *rig {
	t.Helper()
	r := &rig{
		anim:  &screen.Manual{},
		sched: &shell.Deferred{},
		files: &countingFiles{},
		now:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	r.screen = screen.New(screen.Options{Formatter: format.New(""), Animator: r.anim})
	r.history = history.NewStack(nil)
	layout := shell.FixedLayout(mobile)
	d := shell.NewDispatcher(shell.Options{
		Output:    r.screen,
		Scheduler: r.sched,
		Registry:  shell.NewRegistry(shell.Builtins(shell.Deps{Files: r.files, Directory: r.files, Layout: layout})...),
		Unknown:   shell.UnknownIgnore,
	})
	r.m = New(Options{
		Screen:      r.screen,
		History:     r.history,
		Dispatcher:  d,
		Layout:      layout,
		RecallEmpty: recall,
		Clock:       func() time.Time { return r.now },
	})
	return r
}

func (r *rig) typeText(s string) {
	for _, ch := range s {
		r.m.Key(KeyEvent{Text: string(ch)})
	}
}

func (r *rig) settle() {
	for i := 0; i < 100; i++ {
		r.sched.Flush()
		if r.anim.Tick() == 0 && r.sched.Pending() == 0 {
			return
		}
	}
}

func TestTypingDebounce(t *testing.T) {
	t.Parallel()

	r := newRig(t, false, "")
	first := r.m.Key(KeyEvent{Text: "l"})
	second := r.m.Key(KeyEvent{Text: "s"})
	if first.Debounce == 0 || second.Debounce <= first.Debounce {
		t.Fatalf("debounce generations = %d, %d", first.Debounce, second.Debounce)
	}
	if r.m.State() != Typing || !r.screen.Pending().Active() {
		t.Fatalf("expected typing state")
	}
	r.m.TypingExpired(first.Debounce)
	if r.m.State() != Typing {
		t.Fatalf("stale timer must not end typing")
	}
	r.m.TypingExpired(second.Debounce)
	if r.m.State() != Idle || r.screen.Pending().Active() {
		t.Fatalf("latest timer should end typing")
	}
}

func TestEnterDispatchesAndCommits(t *testing.T) {
	t.Parallel()

	r := newRig(t, false, "")
	r.typeText("cat  about")
	r.m.Key(KeyEvent{Code: CodeEnter})

	lines := r.screen.Lines()
	if len(lines) != 1 || !lines[0].Command || lines[0].Raw != shell.EchoMarkup("cat about") {
		t.Fatalf("echo line = %+v", lines)
	}
	if r.history.Len() != 0 {
		t.Fatalf("history committed before dispatch finished")
	}
	r.settle()
	if got := r.history.Entries(); len(got) != 1 || got[0] != "cat about" {
		t.Fatalf("history = %#v", got)
	}
	if got := r.screen.Lines()[1].Raw; got != "content of about" {
		t.Fatalf("output = %q", got)
	}
}

func TestEnterEmptyPushesWithoutDispatch(t *testing.T) {
	t.Parallel()

	r := newRig(t, false, "")
	r.m.Key(KeyEvent{Code: CodeEnter})
	if r.sched.Pending() != 0 || r.files.calls != 0 {
		t.Fatalf("empty submit must not dispatch")
	}
	if got := r.history.Entries(); len(got) != 1 || got[0] != "" {
		t.Fatalf("history = %#v, want one empty entry", got)
	}
	if len(r.screen.Lines()) != 1 {
		t.Fatalf("empty submit still echoes")
	}
}

func TestCtrlCEchoesOnly(t *testing.T) {
	t.Parallel()

	r := newRig(t, false, "")
	r.typeText("ls")
	r.m.Key(KeyEvent{Code: CodeCtrlC, Ctrl: true})
	r.settle()
	if r.history.Len() != 0 || r.files.calls != 0 {
		t.Fatalf("ctrl+c must not dispatch or record history")
	}
	if lines := r.screen.Lines(); len(lines) != 1 || lines[0].Raw != shell.EchoMarkup("ls") {
		t.Fatalf("lines = %+v", lines)
	}
	if r.screen.Pending().Len() != 0 {
		t.Fatalf("echo should leave a fresh pending line")
	}
}

func TestHistoryRecall(t *testing.T) {
	t.Parallel()

	r := newRig(t, false, "")
	r.history.Push("ls")
	r.history.Push("whoami")

	r.m.Key(KeyEvent{Code: CodeUp})
	if got := r.screen.Pending().Text(); got != "whoami" {
		t.Fatalf("up = %q", got)
	}
	r.m.Key(KeyEvent{Code: CodeUp})
	if got := r.screen.Pending().Text(); got != "ls" {
		t.Fatalf("up up = %q", got)
	}
	r.m.Key(KeyEvent{Code: CodeDown})
	r.m.Key(KeyEvent{Code: CodeDown})
	// past the end: keep policy leaves the buffer alone
	if got := r.screen.Pending().Text(); got != "whoami" {
		t.Fatalf("down past end = %q, want buffer kept", got)
	}
}

func TestHistoryRecallClearPolicy(t *testing.T) {
	t.Parallel()

	r := newRig(t, false, RecallClear)
	r.history.Push("ls")
	r.m.Key(KeyEvent{Code: CodeUp})
	r.m.Key(KeyEvent{Code: CodeDown})
	if got := r.screen.Pending().Text(); got != "" {
		t.Fatalf("clear policy left %q", got)
	}
}

func TestBackspaceAndTab(t *testing.T) {
	t.Parallel()

	r := newRig(t, false, "")
	r.typeText("lsx")
	if res := r.m.Key(KeyEvent{Code: CodeBackspace}); !res.Handled {
		t.Fatalf("backspace should be handled")
	}
	if got := r.screen.Pending().Text(); got != "ls" {
		t.Fatalf("after backspace = %q", got)
	}
	if res := r.m.Key(KeyEvent{Code: CodeTab}); !res.Handled {
		t.Fatalf("tab default should be suppressed")
	}
	if res := r.m.Key(KeyEvent{Code: CodeBackspace, Editable: true}); res.Handled {
		t.Fatalf("backspace inside an editable field keeps its default")
	}
	if got := r.screen.Pending().Text(); got != "ls" {
		t.Fatalf("editable backspace changed the buffer: %q", got)
	}
}

func TestClickAction(t *testing.T) {
	t.Parallel()

	r := newRig(t, false, "")
	res := r.m.Click(&format.Anchor{Action: "cat about", Title: "about"})
	if !res.Handled || res.Title != "about" {
		t.Fatalf("click result = %+v", res)
	}
	r.settle()
	raws := []string{}
	for _, l := range r.screen.Lines() {
		raws = append(raws, l.Raw)
	}
	if len(raws) != 2 || raws[0] != shell.EchoMarkup("cat about") || raws[1] != "content of about" {
		t.Fatalf("lines = %#v", raws)
	}
}

func TestClickIgnoredWhileAnimating(t *testing.T) {
	t.Parallel()

	r := newRig(t, false, "")
	r.screen.Write("busy", false, true)
	r.m.Click(&format.Anchor{Action: "cat about"})
	if r.sched.Pending() != 0 || len(r.screen.Lines()) != 1 {
		t.Fatalf("click while animating must be ignored")
	}
}

func TestClickMobileRunsListingFirst(t *testing.T) {
	t.Parallel()

	r := newRig(t, true, "")
	r.screen.Write("old output", false, false)
	r.m.Click(&format.Anchor{Action: "cat about"})
	r.settle()

	var raws []string
	for _, l := range r.screen.Lines() {
		raws = append(raws, l.Raw)
	}
	want := []string{
		"",
		shell.EchoMarkup("ls"),
		shell.Listing([]string{"about"}, "\n"),
		shell.EchoMarkup("cat about"),
		"content of about",
	}
	if len(raws) != len(want) {
		t.Fatalf("lines = %#v", raws)
	}
	for i := range want {
		if raws[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, raws[i], want[i])
		}
	}
}

func TestClickLink(t *testing.T) {
	t.Parallel()

	r := newRig(t, false, "")
	res := r.m.Click(&format.Anchor{Href: "https://github.com/x", Title: "github"})
	if res.OpenURL != "https://github.com/x" {
		t.Fatalf("OpenURL = %q", res.OpenURL)
	}
	if res := r.m.Click(&format.Anchor{Href: "#"}); res.Handled {
		t.Fatalf("placeholder href should do nothing")
	}
}

func TestWheelThrottle(t *testing.T) {
	t.Parallel()

	r := newRig(t, false, "")
	if d, ok := r.m.Wheel(120); !ok || d != -1 {
		t.Fatalf("wheel up = (%d, %v)", d, ok)
	}
	r.now = r.now.Add(10 * time.Millisecond)
	if _, ok := r.m.Wheel(-120); ok {
		t.Fatalf("wheel inside throttle window should be dropped")
	}
	r.now = r.now.Add(30 * time.Millisecond)
	if d, ok := r.m.Wheel(-120); !ok || d != 1 {
		t.Fatalf("wheel down = (%d, %v)", d, ok)
	}
}

func TestCopyLastOutput(t *testing.T) {
	t.Parallel()

	r := newRig(t, false, "")
	r.screen.Write("hello\nworld", false, false)
	r.screen.Write(shell.EchoMarkup("ls"), true, false)
	res := r.m.Key(KeyEvent{Code: CodeCopy, Ctrl: true})
	if res.Copy != "hello\nworld" {
		t.Fatalf("Copy = %q", res.Copy)
	}
}
