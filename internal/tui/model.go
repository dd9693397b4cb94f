// Package tui hosts the terminal session in a Bubble Tea program.
package tui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/pkg/browser"

	"webterm/internal/events"
	"webterm/internal/format"
	"webterm/internal/input"
	"webterm/internal/logger"
	"webterm/internal/terminal"
	"webterm/internal/tui/render"
)

var log = logger.Named("tui")

type Options struct {
	Context  context.Context
	Terminal *terminal.Terminal
	Events   *events.Bus
	// RevealInterval is the delay between revealed units.
	RevealInterval time.Duration
	// Clipboard and OpenURL default to the system clipboard and browser.
	Clipboard func(string) error
	OpenURL   func(string) error
}

type Model struct {
	term       *terminal.Terminal
	sched      *cmdScheduler
	anim       *tickAnimator
	zones      *zone.Manager
	transcript *render.Transcript
	viewport   render.Viewport
	status     *StatusIndicatorWidget
	spin       spinner.Model
	eventsSub  <-chan events.Event
	clipboard  func(string) error
	openURL    func(string) error
	width      int
	height     int
	booted     bool
}

var statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D7A85"))

func New(opts Options) *Model {
	interval := opts.RevealInterval
	if interval <= 0 {
		interval = DefaultRevealInterval
	}
	sched := &cmdScheduler{ctx: opts.Context}
	anim := &tickAnimator{interval: interval}
	opts.Terminal.Dispatcher.SetScheduler(sched)
	opts.Terminal.Screen.SetAnimator(anim)

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

	zones := zone.New()
	m := &Model{
		term:       opts.Terminal,
		sched:      sched,
		anim:       anim,
		zones:      zones,
		transcript: render.NewTranscript(render.DefaultStyles(), opts.Terminal.Config().Terminal.Prompt, zones),
		viewport:   render.NewViewport(80, 23),
		status:     NewStatusIndicatorWidget(StatusIndicatorOptions{State: StatusIdle}),
		spin:       spin,
		clipboard:  opts.Clipboard,
		openURL:    opts.OpenURL,
		width:      80,
		height:     24,
	}
	if m.clipboard == nil {
		m.clipboard = clipboard.WriteAll
	}
	if m.openURL == nil {
		m.openURL = browser.OpenURL
	}
	if opts.Events != nil {
		m.eventsSub = opts.Events.Subscribe()
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick, listenBus(m.eventsSub)}
	if !m.booted {
		m.booted = true
		m.term.Boot(func() { log.Debug("boot sequence finished") })
	}
	_, cmd := m.finish(cmds...)
	return cmd
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))
	case tea.MouseMsg:
		cmds = append(cmds, m.handleMouse(msg))
	case effectMsg:
		if msg.apply != nil {
			msg.apply(msg.effect)
		}
	case revealMsg:
		m.anim.step()
	case typingExpiredMsg:
		m.term.Input.TypingExpired(msg.gen)
	case busEventMsg:
		m.handleBusEvent(msg.Event)
		cmds = append(cmds, listenBus(m.eventsSub))
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m.finish(cmds...)
}

// finish 收集调度器与动画器产生的命令，并刷新视口。
func (m *Model) finish(cmds ...tea.Cmd) (tea.Model, tea.Cmd) {
	cmds = append(cmds, m.sched.drain()...)
	if cmd := m.anim.next(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.term.Dispatcher.Busy() {
		m.status.SetState(StatusWorking)
	} else if m.status.State() == StatusWorking {
		m.status.SetState(StatusIdle)
	}
	m.refresh()
	return m, tea.Batch(cmds...)
}

func (m *Model) refresh() {
	sc := m.term.Screen
	rows := m.transcript.Render(sc.Lines(), sc.Pending(), m.term.Input.State() == input.Typing, m.viewport.Width)
	m.viewport.SetLines(rows, sc.ConsumeScroll())
}

func (m *Model) View() string {
	status := statusStyle.Width(max(m.width, 1)).Render(m.status.Render(m.width, m.spin.View()))
	return m.zones.Scan(lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), status))
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Resize(width, max(height-1, 1))
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlD:
		return tea.Quit
	case tea.KeyPgUp:
		m.viewport.PageUp()
		return nil
	case tea.KeyPgDown:
		m.viewport.PageDown()
		return nil
	case tea.KeyHome:
		m.viewport.GotoTop()
		return nil
	case tea.KeyEnd:
		m.viewport.GotoBottom()
		return nil
	}

	var cmds []tea.Cmd
	for _, ev := range keyEvents(msg) {
		cmds = append(cmds, m.apply(m.term.Input.Key(ev)))
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if n, ok := m.term.Input.Wheel(1); ok {
			m.viewport.ScrollBy(n)
		}
	case tea.MouseButtonWheelDown:
		if n, ok := m.term.Input.Wheel(-1); ok {
			m.viewport.ScrollBy(n)
		}
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionRelease {
			return nil
		}
		if a := m.transcript.AnchorAt(msg); a != nil {
			return m.click(a)
		}
	}
	return nil
}

func (m *Model) click(a *format.Anchor) tea.Cmd {
	return m.apply(m.term.Input.Click(a))
}

// apply 把状态机的结果转换为后续命令：防抖计时、剪贴板、打开链接。
func (m *Model) apply(res input.Result) tea.Cmd {
	var cmds []tea.Cmd
	if res.Debounce != 0 {
		gen := res.Debounce
		cmds = append(cmds, tea.Tick(m.term.Input.TypingBuffer(), func(time.Time) tea.Msg {
			return typingExpiredMsg{gen: gen}
		}))
	}
	if res.Title != "" {
		m.status.SetTitle(res.Title)
	}
	if res.Copy != "" {
		text, write := res.Copy, m.clipboard
		cmds = append(cmds, func() tea.Msg {
			if err := write(text); err != nil {
				log.WithError(err).Warn("copy to clipboard")
			}
			return nil
		})
	}
	if res.OpenURL != "" {
		url, open := res.OpenURL, m.openURL
		cmds = append(cmds, func() tea.Msg {
			if err := open(url); err != nil {
				log.WithError(err).WithField("url", url).Warn("open link")
			}
			return nil
		})
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleBusEvent(evt events.Event) {
	if c, ok := evt.(events.Connection); ok {
		switch c.State {
		case events.StateConnected:
			if m.status.State() == StatusOffline {
				m.status.SetState(StatusIdle)
			}
		default:
			m.status.SetState(StatusOffline)
		}
	}
	m.term.Handle(evt)
}

// History returns the committed command history.
func (m *Model) History() []string {
	return m.term.History.Entries()
}

// Close releases the zone manager.
func (m *Model) Close() {
	if m.zones != nil {
		m.zones.Close()
	}
}
