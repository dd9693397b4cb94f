package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"webterm/internal/format"
)

// Class names carried by markup that get a terminal style.
const (
	ClassComment   = "text-comment"
	ClassHighlight = "text-highlight"
)

// Styles 是 markup 类名到终端样式的映射。
type Styles struct {
	Base      lipgloss.Style
	Comment   lipgloss.Style
	Highlight lipgloss.Style
	Anchor    lipgloss.Style
	Timestamp lipgloss.Style
	Prompt    lipgloss.Style
	Cursor    lipgloss.Style
	Rule      lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Base:      lipgloss.NewStyle(),
		Comment:   lipgloss.NewStyle().Faint(true),
		Highlight: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		Anchor:    lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("#5FAFD7")),
		Timestamp: lipgloss.NewStyle().Foreground(lipgloss.Color("#7D7A85")),
		Prompt:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		Cursor:    lipgloss.NewStyle().Reverse(true),
		Rule:      lipgloss.NewStyle().Foreground(lipgloss.Color("#5E6472")),
	}
}

// unitStyle 合并类名、内联颜色与粗斜体。
func (s Styles) unitStyle(u format.Unit) lipgloss.Style {
	st := s.Base
	if u.HasClass(ClassComment) {
		st = st.Inherit(s.Comment)
	}
	if u.HasClass(ClassHighlight) {
		st = st.Inherit(s.Highlight)
	}
	if u.Anchor != nil {
		st = st.Inherit(s.Anchor)
	}
	if c, ok := terminalColor(u.Color); ok {
		st = st.Foreground(c)
	}
	if u.Bold {
		st = st.Bold(true)
	}
	if u.Italic {
		st = st.Italic(true)
	}
	return st
}

var namedColors = map[string]string{
	"black":   "0",
	"red":     "1",
	"green":   "2",
	"yellow":  "3",
	"blue":    "4",
	"magenta": "5",
	"purple":  "5",
	"cyan":    "6",
	"white":   "7",
	"gray":    "8",
	"grey":    "8",
	"orange":  "208",
}

func terminalColor(css string) (lipgloss.Color, bool) {
	css = strings.ToLower(strings.TrimSpace(css))
	if css == "" {
		return "", false
	}
	if strings.HasPrefix(css, "#") {
		return lipgloss.Color(css), true
	}
	if ansi, ok := namedColors[css]; ok {
		return lipgloss.Color(ansi), true
	}
	return "", false
}
