// Package render turns screen lines into styled terminal rows.
package render

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"webterm/internal/format"
	"webterm/internal/screen"
)

type cachedLine struct {
	width   int
	text    string
	anchors map[string]*format.Anchor
}

// Transcript 渲染屏幕行。已揭示完的行按宽度缓存，未揭示的单元渲染为等宽空白。
type Transcript struct {
	Styles Styles
	Prompt string
	Zones  *zone.Manager

	cache   map[string]cachedLine
	anchors map[string]*format.Anchor
}

func NewTranscript(styles Styles, prompt string, zones *zone.Manager) *Transcript {
	return &Transcript{
		Styles:  styles,
		Prompt:  prompt,
		Zones:   zones,
		cache:   make(map[string]cachedLine),
		anchors: make(map[string]*format.Anchor),
	}
}

// Render returns the rows of every line plus the pending input line.
func (t *Transcript) Render(lines []*screen.Line, pending *screen.PendingInput, typing bool, width int) []string {
	seen := make(map[string]struct{}, len(lines))
	anchors := make(map[string]*format.Anchor)
	rows := make([]string, 0, len(lines)+1)
	for _, line := range lines {
		seen[line.ID] = struct{}{}
		c, ok := t.cache[line.ID]
		if !ok || c.width != width {
			c = t.renderLine(line, width)
			if line.Done() {
				t.cache[line.ID] = c
			}
		}
		for id, a := range c.anchors {
			anchors[id] = a
		}
		rows = append(rows, c.text)
	}
	for id := range t.cache {
		if _, ok := seen[id]; !ok {
			delete(t.cache, id)
		}
	}
	t.anchors = anchors
	rows = append(rows, t.renderPending(pending, typing, width))
	return rows
}

// AnchorAt returns the anchor under a mouse event, if any.
func (t *Transcript) AnchorAt(msg tea.MouseMsg) *format.Anchor {
	if t.Zones == nil {
		return nil
	}
	for id, a := range t.anchors {
		if z := t.Zones.Get(id); z != nil && z.InBounds(msg) {
			return a
		}
	}
	return nil
}

// Anchors returns the zone ids of the anchors rendered last.
func (t *Transcript) Anchors() map[string]*format.Anchor {
	return t.anchors
}

func (t *Transcript) renderLine(line *screen.Line, width int) cachedLine {
	var b strings.Builder
	anchors := make(map[string]*format.Anchor)
	if line.Command {
		if line.Timestamp != "" {
			b.WriteString(t.Styles.Timestamp.Render("[" + line.Timestamp + "]"))
			b.WriteString(" ")
		}
		b.WriteString(t.Styles.Prompt.Render(t.Prompt))
	}

	units := line.Units
	for i := 0; i < len(units); {
		u := units[i]
		if u.Kind == format.Break {
			b.WriteString("\n")
			i++
			continue
		}
		if u.Kind == format.Atomic && u.Tag == "hr" {
			rule := strings.Repeat("─", max(width, 1))
			if !u.Revealed {
				rule = strings.Repeat(" ", max(width, 1))
			}
			b.WriteString("\n" + t.Styles.Rule.Render(rule) + "\n")
			i++
			continue
		}
		// 合并样式与锚点相同的连续单元，减少转义序列。
		j := i + 1
		for j < len(units) && sameRun(u, units[j]) {
			j++
		}
		text := runText(units[i:j])
		if u.Revealed {
			text = t.Styles.unitStyle(u).Render(text)
			if u.Anchor != nil && t.Zones != nil {
				id := line.ID + ":" + strconv.Itoa(i)
				anchors[id] = u.Anchor
				text = t.Zones.Mark(id, text)
			}
		}
		b.WriteString(text)
		i = j
	}
	return cachedLine{width: width, text: wrap(b.String(), width), anchors: anchors}
}

func (t *Transcript) renderPending(p *screen.PendingInput, typing bool, width int) string {
	cursor := t.Styles.Cursor.Render(" ")
	if !typing {
		cursor = t.Styles.Cursor.Blink(true).Render(" ")
	}
	text := ""
	if p != nil {
		text = p.Display()
	}
	return wrap(t.Styles.Prompt.Render(t.Prompt)+text+cursor, width)
}

func sameRun(a, b format.Unit) bool {
	if b.Kind == format.Break || (b.Kind == format.Atomic && b.Tag == "hr") {
		return false
	}
	if a.Revealed != b.Revealed || a.Anchor != b.Anchor {
		return false
	}
	if !a.Revealed {
		return true
	}
	return a.Color == b.Color && a.Bold == b.Bold && a.Italic == b.Italic &&
		strings.Join(a.Classes, " ") == strings.Join(b.Classes, " ")
}

// runText 拼接单元文本；未揭示的单元按显示宽度替换为空格，保持排版稳定。
func runText(units []format.Unit) string {
	var b strings.Builder
	for _, u := range units {
		if u.Revealed || u.Text == "\t" || u.Text == "\n" {
			b.WriteString(u.Text)
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.StringWidth(u.Text)))
	}
	return b.String()
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}
