package history

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store persists committed commands across sessions.
type Store interface {
	Append(text string) error
	LoadTexts() ([]string, error)
	Close() error
}

type Entry struct {
	Text string    `json:"text"`
	TS   time.Time `json:"ts"`
}

// JSONLStore 每行一个 JSON 对象，追加写入。
type JSONLStore struct {
	Path string
}

func (s *JSONLStore) ensureDir() error {
	if s == nil || strings.TrimSpace(s.Path) == "" {
		return errors.New("history store path is empty")
	}
	return os.MkdirAll(filepath.Dir(s.Path), 0o755)
}

// Append writes text as one line. Blank commands are not persisted.
func (s *JSONLStore) Append(text string) error {
	if s == nil {
		return errors.New("history store is nil")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if err := s.ensureDir(); err != nil {
		return err
	}
	f, err := os.OpenFile(s.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := json.Marshal(Entry{Text: text, TS: time.Now()})
	if err != nil {
		return err
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (s *JSONLStore) LoadTexts() ([]string, error) {
	if s == nil {
		return nil, errors.New("history store is nil")
	}
	if strings.TrimSpace(s.Path) == "" {
		return nil, errors.New("history store path is empty")
	}
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var out []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		if strings.TrimSpace(e.Text) == "" {
			continue
		}
		out = append(out, e.Text)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *JSONLStore) Close() error { return nil }

// MemoryStore keeps entries for the lifetime of the process only.
type MemoryStore struct {
	texts []string
}

func (m *MemoryStore) Append(text string) error {
	if text = strings.TrimSpace(text); text != "" {
		m.texts = append(m.texts, text)
	}
	return nil
}

func (m *MemoryStore) LoadTexts() ([]string, error) {
	return append([]string(nil), m.texts...), nil
}

func (m *MemoryStore) Close() error { return nil }
