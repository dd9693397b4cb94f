package screen

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Scrollback 将已完成的输出行追加写入任意 io.Writer（exec 模式下即 stdout）。
// 只负责输出策略，不负责持久化。
type Scrollback struct {
	w       io.Writer
	width   int
	prompt  string
	render  func(*Line, int) string
	written map[string]struct{}
}

type ScrollbackOptions struct {
	Writer io.Writer
	Width  int
	Prompt string
	// Render overrides the plain-text rendering of a line.
	Render func(line *Line, width int) string
}

func NewScrollback(opts ScrollbackOptions) *Scrollback {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}
	width := opts.Width
	if width <= 0 {
		width = 80
	}
	return &Scrollback{
		w:       w,
		width:   width,
		prompt:  opts.Prompt,
		render:  opts.Render,
		written: make(map[string]struct{}),
	}
}

func (s *Scrollback) SetWidth(width int) {
	if s == nil {
		return
	}
	if width > 0 {
		s.width = width
	}
}

func (s *Scrollback) Width() int {
	if s == nil {
		return 0
	}
	return s.width
}

// AppendLine writes one finished line. Lines without units are skipped.
func (s *Scrollback) AppendLine(line *Line) {
	if s == nil || line == nil || s.w == nil || len(line.Units) == 0 {
		return
	}
	if _, ok := s.written[line.ID]; ok {
		return
	}
	s.written[line.ID] = struct{}{}
	text := s.plain(line)
	if s.render != nil {
		text = s.render(line, s.width)
	}
	for _, row := range strings.Split(text, "\n") {
		fmt.Fprintln(s.w, row)
	}
}

// Sync writes every finished line of sc that has not been written yet.
func (s *Scrollback) Sync(sc *Screen) {
	if s == nil || sc == nil {
		return
	}
	for _, line := range sc.Lines() {
		if !line.Done() {
			break
		}
		s.AppendLine(line)
	}
}

func (s *Scrollback) plain(line *Line) string {
	text := strings.TrimRight(decodeSpaces(line.Plain(), ""), "\n")
	if line.Command {
		text = s.prompt + text
	}
	var rows []string
	for _, row := range strings.Split(text, "\n") {
		rows = append(rows, runewidth.Wrap(row, s.width))
	}
	return strings.Join(rows, "\n")
}
