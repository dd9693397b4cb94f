// Package screen is the append-only output surface: lines, reveal sessions
// and the pending input line.
package screen

import (
	"time"

	"github.com/google/uuid"

	"webterm/internal/format"
)

const DefaultTimeLayout = "15:04:05"

type Options struct {
	Formatter  format.Formatter
	Animator   Animator
	Clock      func() time.Time
	TimeLayout string
}

// Screen 持有输出行、活跃的动画会话以及唯一的待输入行。
// 所有方法都应在同一个 goroutine 上调用。
type Screen struct {
	formatter format.Formatter
	animator  Animator
	clock     func() time.Time
	layout    string

	lines   []*Line
	live    map[string]*Session
	pending *PendingInput
	scroll  bool
	version uint64
}

func New(opts Options) *Screen {
	s := &Screen{
		formatter: opts.Formatter,
		animator:  opts.Animator,
		clock:     opts.Clock,
		layout:    opts.TimeLayout,
		live:      make(map[string]*Session),
	}
	if s.animator == nil {
		s.animator = Instant{}
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.layout == "" {
		s.layout = DefaultTimeLayout
	}
	s.pending = newPendingInput(s.formatter.Space)
	return s
}

// SetAnimator swaps the animator used by later writes.
func (s *Screen) SetAnimator(a Animator) {
	if a == nil {
		a = Instant{}
	}
	s.animator = a
}

// Write appends content as a new line and returns its reveal session.
// A write with nothing to reveal returns a session that is already done.
func (s *Screen) Write(content string, command, animate bool) *Session {
	line := &Line{
		ID:      uuid.NewString(),
		Raw:     content,
		Command: command,
		Units:   s.formatter.Units(content),
	}
	if command {
		line.Timestamp = s.clock().Format(s.layout)
	}

	sess := &Session{ID: line.ID, line: line}
	if animate {
		s.lines = append(s.lines, line)
		if line.Done() {
			sess.done = true
		} else {
			sess.screen = s
			s.live[sess.ID] = sess
			s.animator.Start(sess)
		}
	} else {
		line.revealAll()
		sess.done = true
		s.lines = append(s.lines, line)
	}

	s.pending = newPendingInput(s.formatter.Space)
	s.scroll = true
	s.version++
	log.WithField("line", line.ID).Debugf("write command=%v animate=%v units=%d", command, animate, len(line.Units))
	return sess
}

// Clear drops every line and writes an empty line in their place.
// Live sessions keep revealing their detached lines until done.
func (s *Screen) Clear() {
	s.lines = nil
	s.Write("", false, false)
}

// IsAnimating reports whether any session is still revealing.
func (s *Screen) IsAnimating() bool {
	return len(s.live) > 0
}

// Live returns the number of running sessions.
func (s *Screen) Live() int {
	return len(s.live)
}

func (s *Screen) release(sess *Session) {
	if _, ok := s.live[sess.ID]; ok {
		delete(s.live, sess.ID)
		s.version++
	}
}

// Lines returns the current lines. Callers must not mutate them.
func (s *Screen) Lines() []*Line {
	return s.lines
}

// LastOutput returns the most recent line that carries text and is not a command echo.
func (s *Screen) LastOutput() *Line {
	for i := len(s.lines) - 1; i >= 0; i-- {
		l := s.lines[i]
		if !l.Command && l.Plain() != "" {
			return l
		}
	}
	return nil
}

// Pending returns the live input line.
func (s *Screen) Pending() *PendingInput {
	return s.pending
}

// ConsumeScroll reports a pending scroll-to-bottom request and clears it.
func (s *Screen) ConsumeScroll() bool {
	v := s.scroll
	s.scroll = false
	return v
}

// Version changes whenever lines are added, cleared or finish revealing.
func (s *Screen) Version() uint64 {
	return s.version
}

// Formatter exposes the formatter used for writes.
func (s *Screen) Formatter() format.Formatter {
	return s.formatter
}
