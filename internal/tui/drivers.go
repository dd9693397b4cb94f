package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"webterm/internal/events"
	"webterm/internal/screen"
	"webterm/internal/shell"
)

// DefaultRevealInterval is the delay between two revealed units.
const DefaultRevealInterval = 8 * time.Millisecond

type effectMsg struct {
	apply  func(shell.Effect)
	effect shell.Effect
}

type revealMsg struct{}

type typingExpiredMsg struct {
	gen uint64
}

type busEventMsg struct {
	Event events.Event
}

// cmdScheduler 把异步命令包装成 tea.Cmd，在 goroutine 中执行，效果以消息形式回到 UI 循环。
type cmdScheduler struct {
	ctx   context.Context
	queue []tea.Cmd
}

func (s *cmdScheduler) Go(work shell.Work, apply func(shell.Effect)) {
	ctx := s.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	s.queue = append(s.queue, func() tea.Msg {
		var eff shell.Effect
		if work != nil {
			eff = work(ctx)
		}
		return effectMsg{apply: apply, effect: eff}
	})
}

func (s *cmdScheduler) drain() []tea.Cmd {
	out := s.queue
	s.queue = nil
	return out
}

// tickAnimator 每个 tick 为所有活跃会话各揭示一个单元。同一时刻最多挂一个 tick。
type tickAnimator struct {
	screen.Manual
	interval time.Duration
	ticking  bool
}

func (a *tickAnimator) next() tea.Cmd {
	if a.ticking || len(a.Sessions) == 0 {
		return nil
	}
	a.ticking = true
	return tea.Tick(a.interval, func(time.Time) tea.Msg { return revealMsg{} })
}

func (a *tickAnimator) step() {
	a.ticking = false
	a.Tick()
}

func listenBus(ch <-chan events.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return nil
		}
		return busEventMsg{Event: evt}
	}
}
