package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rivo/uniseg"

	"webterm/internal/input"
)

// keyEvents 把 Bubble Tea 按键翻译成输入状态机事件。粘贴或输入法一次送来的多个字符按字素拆开。
func keyEvents(msg tea.KeyMsg) []input.KeyEvent {
	switch msg.Type {
	case tea.KeyRunes:
		if msg.Alt {
			return nil
		}
		var out []input.KeyEvent
		g := uniseg.NewGraphemes(string(msg.Runes))
		for g.Next() {
			out = append(out, input.KeyEvent{Text: g.Str()})
		}
		return out
	case tea.KeySpace:
		return []input.KeyEvent{{Text: " "}}
	case tea.KeyEnter:
		return []input.KeyEvent{{Code: input.CodeEnter}}
	case tea.KeyBackspace:
		return []input.KeyEvent{{Code: input.CodeBackspace}}
	case tea.KeyTab:
		return []input.KeyEvent{{Code: input.CodeTab}}
	case tea.KeyUp:
		return []input.KeyEvent{{Code: input.CodeUp}}
	case tea.KeyDown:
		return []input.KeyEvent{{Code: input.CodeDown}}
	case tea.KeyCtrlC:
		return []input.KeyEvent{{Code: input.CodeCtrlC, Ctrl: true}}
	case tea.KeyCtrlY:
		return []input.KeyEvent{{Code: input.CodeCopy, Ctrl: true}}
	}
	return nil
}
