package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"webterm/internal/config"
	"webterm/internal/events"
	"webterm/internal/format"
	"webterm/internal/history"
	"webterm/internal/shell"
	"webterm/internal/terminal"
)

type memFiles map[string]string

func (m memFiles) Fetch(_ context.Context, name string) (string, error) {
	return m[name], nil
}

func (m memFiles) List(context.Context) ([]string, error) {
	return []string{"about", "projects"}, nil
}

type recorder struct{ sent []string }

func (r *recorder) Send(event, payload string) error {
	r.sent = append(r.sent, event+":"+payload)
	return nil
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Terminal.TypingBufferMS = 1
	return cfg
}

func newModel(t *testing.T, cfg config.Config, deps terminal.Deps) (*Model, *[]string) {
	t.Helper()
	if deps.Layout == nil {
		deps.Layout = shell.FixedLayout(false)
	}
	if deps.Store == nil {
		deps.Store = &history.MemoryStore{}
	}
	term := terminal.New(context.Background(), cfg, deps)
	copied := &[]string{}
	m := New(Options{
		Terminal:       term,
		RevealInterval: time.Millisecond,
		Clipboard: func(s string) error {
			*copied = append(*copied, s)
			return nil
		},
		OpenURL: func(string) error { return nil },
	})
	t.Cleanup(m.Close)
	return m, copied
}

// collect runs cmd and returns the messages it produced. Commands that block
// longer than the window (spinner frames, socket listeners) are abandoned.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, collect(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(50 * time.Millisecond):
		return nil
	}
}

// pump feeds every produced message back into the model until it settles.
func pump(t *testing.T, m *Model, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	var seen []tea.Msg
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 5000 {
			t.Fatalf("model did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		for _, msg := range collect(next) {
			seen = append(seen, msg)
			if _, ok := msg.(tea.QuitMsg); ok {
				continue
			}
			_, c := m.Update(msg)
			queue = append(queue, c)
		}
	}
	return seen
}

func typeLine(t *testing.T, m *Model, text string) {
	t.Helper()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	pump(t, m, cmd)
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	pump(t, m, cmd)
}

func TestBootRevealsStartupSequence(t *testing.T) {
	m, _ := newModel(t, testConfig(), terminal.Deps{
		Files:     memFiles{"about": "hello there"},
		Directory: memFiles{},
	})
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	pump(t, m, m.Init())

	if m.term.Screen.IsAnimating() {
		t.Fatalf("all sessions should have finished revealing")
	}
	lines := m.term.Screen.Lines()
	if got := lines[len(lines)-1].Plain(); got != "hello there" {
		t.Fatalf("last line = %q", got)
	}
	if view := m.View(); !strings.Contains(view, "hello there") || !strings.Contains(view, "cat about") {
		t.Fatalf("view misses boot output:\n%s", view)
	}
	if m.status.State() != StatusIdle {
		t.Fatalf("status should return to idle, got %s", m.status.State())
	}
}

func TestTypingSubmitsAndCommitsHistory(t *testing.T) {
	m, _ := newModel(t, testConfig(), terminal.Deps{
		Files:     memFiles{"about": "hello"},
		Directory: memFiles{},
	})
	pump(t, m, m.Init())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ls")})
	if m.term.Screen.Pending().Text() != "ls" {
		t.Fatalf("pending = %q", m.term.Screen.Pending().Text())
	}
	pump(t, m, cmd)
	if m.term.Input.State().String() != "idle" {
		t.Fatalf("typing marker should expire after the buffer")
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.term.Dispatcher.Busy() || m.status.State() != StatusWorking {
		t.Fatalf("ls should be in flight")
	}
	pump(t, m, cmd)
	if got := m.History(); len(got) != 1 || got[0] != "ls" {
		t.Fatalf("history = %v", got)
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	pump(t, m, cmd)
	if got := m.term.Screen.Pending().Text(); got != "ls" {
		t.Fatalf("up should recall ls, got %q", got)
	}
}

func TestCopyLastOutput(t *testing.T) {
	m, copied := newModel(t, testConfig(), terminal.Deps{
		Files:     memFiles{"about": "hello"},
		Directory: memFiles{},
	})
	pump(t, m, m.Init())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	pump(t, m, cmd)
	if len(*copied) != 1 || (*copied)[0] != "hello" {
		t.Fatalf("copied = %v", *copied)
	}
}

func TestClickRunsActionAndSetsTitle(t *testing.T) {
	m, _ := newModel(t, testConfig(), terminal.Deps{
		Files:     memFiles{"about": "hello", "projects": "things"},
		Directory: memFiles{},
	})
	pump(t, m, m.Init())

	cmd := m.click(&format.Anchor{Action: "cat projects", Title: "projects"})
	_, more := m.Update(nil)
	pump(t, m, tea.Batch(cmd, more))
	lines := m.term.Screen.Lines()
	if got := lines[len(lines)-1].Plain(); got != "things" {
		t.Fatalf("last line = %q", got)
	}
	if m.status.Title() != "projects" {
		t.Fatalf("title = %q", m.status.Title())
	}
}

func TestWheelIsThrottled(t *testing.T) {
	m, _ := newModel(t, testConfig(), terminal.Deps{Files: memFiles{}, Directory: memFiles{}})
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 4})
	for i := 0; i < 20; i++ {
		m.term.Screen.Write("line", false, false)
	}
	m.Update(nil)
	bottom := m.viewport.YOffset

	m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	if got := m.viewport.YOffset; got != bottom-1 {
		t.Fatalf("second wheel event inside the throttle window should be dropped: offset %d, bottom %d", got, bottom)
	}
}

func TestSocketResponseFromBus(t *testing.T) {
	cfg := testConfig()
	cfg.Variant = config.VariantSocket
	rec := &recorder{}
	m, _ := newModel(t, cfg, terminal.Deps{Resolver: rec})
	pump(t, m, m.Init())

	typeLine(t, m, "uptime")
	if len(rec.sent) != 1 || rec.sent[0] != "command:uptime" {
		t.Fatalf("sent = %v", rec.sent)
	}

	out := "up 3 days"
	_, cmd := m.Update(busEventMsg{Event: events.Response{Command: "uptime", Response: &out}})
	pump(t, m, cmd)
	lines := m.term.Screen.Lines()
	if got := lines[len(lines)-1].Plain(); got != out {
		t.Fatalf("response line = %q", got)
	}

	m.Update(busEventMsg{Event: events.Connection{State: events.StateDisconnected}})
	if m.status.State() != StatusOffline {
		t.Fatalf("disconnect should mark the status offline")
	}
	m.Update(busEventMsg{Event: events.Connection{State: events.StateConnected}})
	if m.status.State() != StatusIdle {
		t.Fatalf("reconnect should clear the offline marker")
	}
}

func TestCtrlDQuits(t *testing.T) {
	m, _ := newModel(t, testConfig(), terminal.Deps{Files: memFiles{}, Directory: memFiles{}})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	msgs := collect(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected quit message, got %v", msgs)
	}
	if _, ok := msgs[0].(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg, got %T", msgs[0])
	}
}
