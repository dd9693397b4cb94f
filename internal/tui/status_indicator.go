package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// StatusIndicatorState 枚举状态行可显示的状态。
type StatusIndicatorState int

const (
	// StatusWorking 表示有异步命令在执行，计时器持续累加。
	StatusWorking StatusIndicatorState = iota
	// StatusOffline 表示 socket 连接断开。
	StatusOffline
	// StatusIdle 表示空闲，只显示标题与连接信息。
	StatusIdle
)

func (s StatusIndicatorState) String() string {
	switch s {
	case StatusWorking:
		return "working"
	case StatusOffline:
		return "offline"
	case StatusIdle:
		return "idle"
	default:
		return "unknown"
	}
}

func (s StatusIndicatorState) defaultHeader() string {
	switch s {
	case StatusWorking:
		return "Loading"
	case StatusOffline:
		return "Offline"
	default:
		return ""
	}
}

func (s StatusIndicatorState) tracksElapsed() bool {
	return s == StatusWorking
}

func (s StatusIndicatorState) valid() bool {
	return s >= StatusWorking && s <= StatusIdle
}

type StatusIndicatorOptions struct {
	State StatusIndicatorState
	Clock func() time.Time
}

// StatusIndicatorWidget 管理状态行：spinner + 标题 + 计时，以及最近点击的锚点标题。
type StatusIndicatorWidget struct {
	header string
	state  StatusIndicatorState
	title  string

	elapsedRunning time.Duration
	lastResumeAt   time.Time
	paused         bool

	clock func() time.Time
}

func NewStatusIndicatorWidget(opts StatusIndicatorOptions) *StatusIndicatorWidget {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	state := opts.State
	if !state.valid() {
		state = StatusIdle
	}
	w := &StatusIndicatorWidget{
		header:       state.defaultHeader(),
		state:        state,
		clock:        clock,
		lastResumeAt: clock(),
	}
	if !state.tracksElapsed() {
		w.paused = true
	}
	return w
}

func (w *StatusIndicatorWidget) State() StatusIndicatorState {
	if w == nil {
		return StatusIdle
	}
	return w.state
}

// SetState 更新状态；进入计时状态时从零开始计时。
func (w *StatusIndicatorWidget) SetState(state StatusIndicatorState) {
	if w == nil || !state.valid() || state == w.state {
		return
	}
	now := w.now()
	if state.tracksElapsed() {
		w.elapsedRunning = 0
		w.lastResumeAt = now
		w.paused = false
	} else {
		w.pauseTimerAt(now)
	}
	w.state = state
	w.header = state.defaultHeader()
}

// SetTitle records the title of the last clicked anchor.
func (w *StatusIndicatorWidget) SetTitle(title string) {
	if w == nil {
		return
	}
	w.title = title
}

func (w *StatusIndicatorWidget) Title() string {
	if w == nil {
		return ""
	}
	return w.title
}

// ElapsedSeconds 返回累计秒数。
func (w *StatusIndicatorWidget) ElapsedSeconds() uint64 {
	if w == nil {
		return 0
	}
	return w.elapsedSecondsAt(w.now())
}

// Render 绘制状态行，宽度不足时截断。
func (w *StatusIndicatorWidget) Render(width int, spinner string) string {
	if w == nil || width <= 0 {
		return ""
	}
	parts := make([]string, 0, 3)
	switch w.state {
	case StatusWorking:
		parts = append(parts, fmt.Sprintf("%s %s (%s)", spinner, w.header, fmtElapsedCompact(w.ElapsedSeconds())))
	case StatusOffline:
		parts = append(parts, "! "+w.header)
	}
	if w.title != "" {
		parts = append(parts, w.title)
	}
	return truncateToWidth(strings.Join(parts, " • "), width)
}

func (w *StatusIndicatorWidget) now() time.Time {
	if w.clock != nil {
		return w.clock()
	}
	return time.Now()
}

func (w *StatusIndicatorWidget) pauseTimerAt(now time.Time) {
	if w.paused {
		return
	}
	w.elapsedRunning += now.Sub(w.lastResumeAt)
	w.paused = true
}

func (w *StatusIndicatorWidget) elapsedDurationAt(now time.Time) time.Duration {
	if w.paused {
		return w.elapsedRunning
	}
	return w.elapsedRunning + now.Sub(w.lastResumeAt)
}

func (w *StatusIndicatorWidget) elapsedSecondsAt(now time.Time) uint64 {
	return uint64(w.elapsedDurationAt(now).Seconds())
}

func fmtElapsedCompact(elapsedSecs uint64) string {
	switch {
	case elapsedSecs < 60:
		return fmt.Sprintf("%ds", elapsedSecs)
	case elapsedSecs < 3600:
		minutes := elapsedSecs / 60
		seconds := elapsedSecs % 60
		return fmt.Sprintf("%dm %02ds", minutes, seconds)
	default:
		hours := elapsedSecs / 3600
		minutes := (elapsedSecs % 3600) / 60
		seconds := elapsedSecs % 60
		return fmt.Sprintf("%dh %02dm %02ds", hours, minutes, seconds)
	}
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) <= width {
		return text
	}
	w := 0
	out := make([]rune, 0, len(text))
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if w+rw > width {
			break
		}
		out = append(out, r)
		w += rw
	}
	return string(out)
}
