package screen

import "webterm/internal/format"

// Line 是一次 Write 产生的不可变输出行，之后只有 Unit 的 Revealed 会变化。
type Line struct {
	ID        string
	Raw       string
	Command   bool
	Timestamp string
	Units     []format.Unit
}

// Plain returns the revealed text of the line.
func (l *Line) Plain() string {
	if l == nil {
		return ""
	}
	return format.Plain(l.Units)
}

// Done reports whether every unit has been revealed.
func (l *Line) Done() bool {
	if l == nil {
		return true
	}
	for _, u := range l.Units {
		if !u.Revealed {
			return false
		}
	}
	return true
}

func (l *Line) revealAll() {
	for i := range l.Units {
		l.Units[i].Revealed = true
	}
}
