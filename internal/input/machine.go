// Package input turns key, click and wheel events into screen, dispatcher
// and history operations.
package input

import (
	"strings"
	"time"

	"webterm/internal/format"
	"webterm/internal/history"
	"webterm/internal/screen"
	"webterm/internal/shell"
)

// Recall policies for empty history results.
const (
	RecallKeep  = "keep"
	RecallClear = "clear"
)

const (
	DefaultTypingBuffer  = 500 * time.Millisecond
	DefaultWheelThrottle = 30 * time.Millisecond
)

type Options struct {
	Screen        *screen.Screen
	History       *history.Stack
	Dispatcher    *shell.Dispatcher
	Layout        shell.Layout
	RecallEmpty   string
	TypingBuffer  time.Duration
	WheelThrottle time.Duration
	Clock         func() time.Time
}

// Machine 是输入状态机，所有方法须在 UI 循环上调用。
type Machine struct {
	screen     *screen.Screen
	history    *history.Stack
	dispatcher *shell.Dispatcher
	layout     shell.Layout
	recall     string
	buffer     time.Duration
	throttle   time.Duration
	clock      func() time.Time

	state     State
	gen       uint64
	lastWheel time.Time
}

func New(opts Options) *Machine {
	m := &Machine{
		screen:     opts.Screen,
		history:    opts.History,
		dispatcher: opts.Dispatcher,
		layout:     opts.Layout,
		recall:     opts.RecallEmpty,
		buffer:     opts.TypingBuffer,
		throttle:   opts.WheelThrottle,
		clock:      opts.Clock,
	}
	if m.history == nil {
		m.history = history.NewStack(nil)
	}
	if m.layout == nil {
		m.layout = shell.FixedLayout(false)
	}
	if m.recall == "" {
		m.recall = RecallKeep
	}
	if m.buffer <= 0 {
		m.buffer = DefaultTypingBuffer
	}
	if m.throttle <= 0 {
		m.throttle = DefaultWheelThrottle
	}
	if m.clock == nil {
		m.clock = time.Now
	}
	return m
}

// State reports whether the user is actively typing.
func (m *Machine) State() State { return m.state }

// TypingBuffer is the debounce window after the last printable key.
func (m *Machine) TypingBuffer() time.Duration { return m.buffer }

// Key applies one key press.
func (m *Machine) Key(ev KeyEvent) Result {
	pending := m.screen.Pending()
	switch ev.Code {
	case CodeNone:
		if ev.Text == "" || ev.Ctrl {
			return Result{}
		}
		pending.Append(ev.Text)
		pending.SetActive(true)
		m.state = Typing
		m.gen++
		return Result{Handled: true, Debounce: m.gen}
	case CodeEnter:
		m.submit(pending.Text())
		return Result{Handled: true}
	case CodeCtrlC:
		if !ev.Ctrl {
			return Result{}
		}
		m.dispatcher.Echo(pending.Text())
		return Result{Handled: true}
	case CodeUp:
		v, ok := m.history.Prev()
		m.recallInto(pending, v, ok)
		return Result{Handled: true}
	case CodeDown:
		v, ok := m.history.Next()
		m.recallInto(pending, v, ok)
		return Result{Handled: true}
	case CodeBackspace, CodeTab:
		if ev.Editable {
			return Result{}
		}
		if ev.Code == CodeBackspace {
			pending.Backspace()
		}
		return Result{Handled: true}
	case CodeCopy:
		if line := m.screen.LastOutput(); line != nil {
			return Result{Handled: true, Copy: strings.TrimRight(line.Plain(), "\n")}
		}
		return Result{Handled: true}
	}
	return Result{}
}

// submit 回显当前输入，非空时交给 dispatcher，结束后写入历史。
func (m *Machine) submit(text string) {
	m.dispatcher.Echo(text)
	if strings.TrimSpace(text) == "" {
		m.history.Push(text)
		return
	}
	log.WithField("command", text).Debug("submit")
	m.dispatcher.Process(text, func() { m.history.Push(text) })
}

func (m *Machine) recallInto(pending *screen.PendingInput, v string, ok bool) {
	if ok && v != "" {
		pending.Replace(v)
		return
	}
	if m.recall == RecallClear {
		pending.Replace("")
	}
}

// TypingExpired clears the typing marker if gen is still the latest key.
func (m *Machine) TypingExpired(gen uint64) {
	if gen != m.gen {
		return
	}
	m.state = Idle
	m.screen.Pending().SetActive(false)
}

// Click handles a press on an anchor.
func (m *Machine) Click(anchor *format.Anchor) Result {
	if anchor == nil {
		return Result{}
	}
	if anchor.Action == "" {
		if anchor.Href != "" && anchor.Href != "#" {
			return Result{Handled: true, OpenURL: anchor.Href, Title: anchor.Title}
		}
		return Result{}
	}
	if m.screen.IsAnimating() {
		log.WithField("action", anchor.Action).Debug("click ignored while animating")
		return Result{Handled: true}
	}

	var steps []shell.Step
	if m.layout.IsMobile() {
		steps = append(steps, shell.Step{Clear: true, Echo: true, Command: "ls"})
	}
	steps = append(steps, shell.Step{Echo: true, Command: anchor.Action})
	m.dispatcher.Run(steps, nil)
	return Result{Handled: true, Title: anchor.Title}
}

// Wheel returns the scroll adjustment in lines for a wheel delta, or false
// when the event falls inside the throttle window.
func (m *Machine) Wheel(delta int) (int, bool) {
	if delta == 0 {
		return 0, false
	}
	now := m.clock()
	if !m.lastWheel.IsZero() && now.Sub(m.lastWheel) < m.throttle {
		return 0, false
	}
	m.lastWheel = now
	if delta > 0 {
		return -1, true
	}
	return 1, true
}
