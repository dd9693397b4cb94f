package history

// Stack 保存已提交的命令与浏览游标。
// cursor == -1 表示尚未定位；cursor == len(entries) 表示停在“新输入行”。
type Stack struct {
	entries []string
	cursor  int
	store   Store
}

// NewStack returns an empty stack. A non-nil store receives every pushed entry.
func NewStack(store Store) *Stack {
	return &Stack{cursor: -1, store: store}
}

// Load seeds the stack with previously persisted entries and resets the cursor.
func (s *Stack) Load(entries []string) {
	s.entries = append([]string(nil), entries...)
	s.cursor = len(s.entries)
}

// Restore loads entries from the stack's store.
func (s *Stack) Restore() error {
	if s.store == nil {
		return nil
	}
	texts, err := s.store.LoadTexts()
	if err != nil {
		return err
	}
	s.Load(texts)
	return nil
}

// Push commits cmd: it is appended and the cursor is reset in one step.
// Persistence failures are logged; the in-memory entry is kept either way.
func (s *Stack) Push(cmd string) {
	s.entries = append(s.entries, cmd)
	s.Reset()
	if s.store == nil {
		return
	}
	if err := s.store.Append(cmd); err != nil {
		log.WithError(err).Warn("persist history entry")
	}
}

// Reset moves the cursor one past the last entry.
func (s *Stack) Reset() {
	s.cursor = len(s.entries)
}

// Prev walks backward. At the first entry it keeps returning that entry.
func (s *Stack) Prev() (string, bool) {
	if len(s.entries) == 0 {
		return "", false
	}
	switch {
	case s.cursor < 0:
		s.cursor = len(s.entries) - 1
	case s.cursor > 0:
		s.cursor--
	}
	if s.cursor >= len(s.entries) {
		s.cursor = len(s.entries) - 1
	}
	return s.entries[s.cursor], true
}

// Next walks forward and reports false once past the last entry.
func (s *Stack) Next() (string, bool) {
	if s.cursor < 0 {
		return "", false
	}
	if s.cursor < len(s.entries) {
		s.cursor++
	}
	if s.cursor >= len(s.entries) {
		return "", false
	}
	return s.entries[s.cursor], true
}

// Entries returns a copy of the committed entries.
func (s *Stack) Entries() []string {
	return append([]string(nil), s.entries...)
}

func (s *Stack) Len() int {
	return len(s.entries)
}

// Close releases the underlying store.
func (s *Stack) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}
