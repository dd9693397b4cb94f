package screen

// Session is the handle of one animated write.
type Session struct {
	ID     string
	line   *Line
	next   int
	done   bool
	screen *Screen
}

// Line returns the line the session reveals.
func (s *Session) Line() *Line {
	if s == nil {
		return nil
	}
	return s.line
}

// Done reports whether the session has revealed its last unit.
func (s *Session) Done() bool {
	return s == nil || s.done
}

// Remaining returns how many units are still hidden.
func (s *Session) Remaining() int {
	if s == nil || s.done {
		return 0
	}
	n := 0
	for _, u := range s.line.Units[s.next:] {
		if !u.Revealed {
			n++
		}
	}
	return n
}

// Step reveals the next unit in document order. It reports whether units remain.
func (s *Session) Step() bool {
	if s == nil || s.done {
		return false
	}
	units := s.line.Units
	for s.next < len(units) {
		i := s.next
		s.next++
		if units[i].Revealed {
			continue
		}
		units[i].Revealed = true
		break
	}
	if s.Remaining() == 0 {
		s.finish()
		return false
	}
	return true
}

// Finish reveals everything left at once.
func (s *Session) Finish() {
	if s == nil || s.done {
		return
	}
	s.line.revealAll()
	s.next = len(s.line.Units)
	s.finish()
}

func (s *Session) finish() {
	s.done = true
	if s.screen != nil {
		s.screen.release(s)
	}
}

// Animator drives live sessions. Start is called once per animated write with
// at least one hidden unit.
type Animator interface {
	Start(*Session)
}

// AnimatorFunc adapts a function to Animator.
type AnimatorFunc func(*Session)

func (f AnimatorFunc) Start(s *Session) { f(s) }

// Instant reveals every session as soon as it starts.
type Instant struct{}

func (Instant) Start(s *Session) { s.Finish() }

// Manual collects sessions and leaves stepping to the caller.
type Manual struct {
	Sessions []*Session
}

func (m *Manual) Start(s *Session) { m.Sessions = append(m.Sessions, s) }

// Tick steps every collected session once and drops finished ones.
// It returns the number of sessions still live.
func (m *Manual) Tick() int {
	live := m.Sessions[:0]
	for _, s := range m.Sessions {
		if s.Step() {
			live = append(live, s)
		}
	}
	m.Sessions = live
	return len(live)
}
