// Package terminal assembles one pseudo-terminal session from config.
package terminal

import (
	"context"
	"fmt"
	"time"

	"webterm/internal/bootstrap"
	"webterm/internal/config"
	"webterm/internal/device"
	"webterm/internal/events"
	"webterm/internal/format"
	"webterm/internal/history"
	"webterm/internal/input"
	"webterm/internal/logger"
	"webterm/internal/screen"
	"webterm/internal/shell"
)

var log = logger.Named("terminal")

// Deps are the collaborators a Terminal talks to. Nil fields disable the
// features that need them.
type Deps struct {
	Files       shell.FileSource
	Directory   shell.DirectorySource
	Resolver    shell.Resolver
	Highlighter shell.Highlighter
	Store       history.Store
	Layout      shell.Layout
	Scheduler   shell.Scheduler
	Animator    screen.Animator
	Clock       func() time.Time
}

// Terminal 持有一次会话的全部核心状态。除 Close 外，所有方法须在 UI 循环上调用。
type Terminal struct {
	cfg        config.Config
	layout     shell.Layout
	Screen     *screen.Screen
	History    *history.Stack
	Dispatcher *shell.Dispatcher
	Input      *input.Machine
}

func New(ctx context.Context, cfg config.Config, deps Deps) *Terminal {
	layout := deps.Layout
	if layout == nil {
		layout = DetectLayout(cfg, nil)
	}

	sc := screen.New(screen.Options{
		Formatter:  format.New(cfg.Terminal.Space),
		Animator:   deps.Animator,
		Clock:      deps.Clock,
		TimeLayout: cfg.Terminal.TimeLayout,
	})

	stack := history.NewStack(deps.Store)
	if err := stack.Restore(); err != nil {
		log.WithError(err).Warn("restore history")
	}

	reg := shell.NewRegistry(shell.Builtins(shell.Deps{
		Files:       deps.Files,
		Directory:   deps.Directory,
		Resolver:    deps.Resolver,
		Identity:    identity(cfg.User),
		Layout:      layout,
		Highlighter: deps.Highlighter,
		Menu:        menu(cfg.MenuItems()),
	})...)

	d := shell.NewDispatcher(shell.Options{
		Context:   ctx,
		Output:    sc,
		Scheduler: deps.Scheduler,
		Registry:  reg,
		Resolver:  deps.Resolver,
		Unknown:   cfg.UnknownPolicy(),
	})

	m := input.New(input.Options{
		Screen:        sc,
		History:       stack,
		Dispatcher:    d,
		Layout:        layout,
		RecallEmpty:   cfg.Terminal.RecallEmpty,
		TypingBuffer:  millis(cfg.Terminal.TypingBufferMS),
		WheelThrottle: millis(cfg.Terminal.WheelThrottleMS),
		Clock:         deps.Clock,
	})

	return &Terminal{
		cfg:        cfg,
		layout:     layout,
		Screen:     sc,
		History:    stack,
		Dispatcher: d,
		Input:      m,
	}
}

// Config returns the config the terminal was built from.
func (t *Terminal) Config() config.Config { return t.cfg }

// Layout returns the layout decided at construction.
func (t *Terminal) Layout() shell.Layout { return t.layout }

// Boot runs the startup sequence; done fires after the last step.
func (t *Terminal) Boot(done func()) {
	bootstrap.Run(t.Dispatcher, t.cfg, t.layout, done)
}

// Handle applies one bus event. Connection changes are logged only.
func (t *Terminal) Handle(evt events.Event) {
	switch e := evt.(type) {
	case events.Response:
		t.Dispatcher.Respond(e.Command, e.Response)
	case events.Connection:
		entry := log.WithField("url", e.URL)
		if e.Err != nil {
			entry = entry.WithError(e.Err)
		}
		entry.Infof("socket %s", e.State)
	case nil:
	default:
		log.WithField("kind", evt.Kind()).Debug("ignored event")
	}
}

// Close flushes and closes the history store.
func (t *Terminal) Close() error {
	if t.History == nil {
		return nil
	}
	if err := t.History.Close(); err != nil {
		return fmt.Errorf("close history: %w", err)
	}
	return nil
}

// DetectLayout classifies the session from the terminal config.
func DetectLayout(cfg config.Config, width func() (int, bool)) device.Layout {
	return device.Detect(device.Options{
		Override:    cfg.Terminal.Mobile,
		UserAgent:   cfg.Terminal.UserAgent,
		MobileWidth: cfg.Terminal.MobileWidth,
		Width:       width,
	})
}

func identity(u *config.User) *shell.Identity {
	if u == nil {
		return nil
	}
	return &shell.Identity{Name: u.Name, Address: u.Address, Location: u.Location}
}

func menu(items []config.MenuItem) []shell.MenuItem {
	out := make([]shell.MenuItem, 0, len(items))
	for _, it := range items {
		out = append(out, shell.MenuItem{Type: it.Type, Title: it.Title, Action: it.Action, Link: it.Link})
	}
	return out
}

func millis(ms int) time.Duration {
	if ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}
