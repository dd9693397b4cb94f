package render

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Viewport 包装 bubbles viewport：内容未变化时跳过 SetContent，追加内容时保持贴底。
type Viewport struct {
	viewport.Model
	lastLines []string
}

func NewViewport(width, height int) Viewport {
	vp := viewport.New(width, height)
	// 方向键属于输入行，滚动只走滚轮与 PgUp/PgDown。
	vp.KeyMap = viewport.KeyMap{
		PageDown: vp.KeyMap.PageDown,
		PageUp:   vp.KeyMap.PageUp,
	}
	vp.MouseWheelEnabled = false
	return Viewport{Model: vp}
}

// Resize 更新宽高，宽度变化时丢弃缓存行。
func (v *Viewport) Resize(width, height int) {
	if v == nil {
		return
	}
	if v.Width != width {
		v.Invalidate()
	}
	v.Width = width
	v.Height = height
}

// HandleUpdate 代理 bubbles 的 Update，保持内部状态。
func (v *Viewport) HandleUpdate(msg tea.Msg) tea.Cmd {
	if v == nil {
		return nil
	}
	var cmd tea.Cmd
	v.Model, cmd = v.Model.Update(msg)
	return cmd
}

// SetLines replaces the content. follow forces a jump to the bottom; otherwise
// the view only sticks to the bottom when it was already there.
func (v *Viewport) SetLines(lines []string, follow bool) {
	if v == nil {
		return
	}
	if slices.Equal(lines, v.lastLines) {
		if follow {
			v.GotoBottom()
		}
		return
	}
	stick := follow || v.AtBottom()
	v.lastLines = append([]string(nil), lines...)
	v.SetContent(strings.Join(lines, "\n"))
	if stick {
		v.GotoBottom()
	}
}

// ScrollBy moves the view n lines; negative is up.
func (v *Viewport) ScrollBy(n int) {
	if v == nil || n == 0 {
		return
	}
	if n < 0 {
		v.ScrollUp(-n)
		return
	}
	v.ScrollDown(n)
}

// Invalidate 清空已缓存的行，强制下次 SetLines 全量更新。
func (v *Viewport) Invalidate() {
	if v == nil {
		return
	}
	v.lastLines = nil
}
