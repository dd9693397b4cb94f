package screen

import (
	"regexp"
	"strings"

	"github.com/rivo/uniseg"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// PendingInput is the live command buffer at the bottom of the screen.
type PendingInput struct {
	chars  []string
	space  string
	active bool
}

func newPendingInput(space string) *PendingInput {
	return &PendingInput{space: space}
}

// Append adds one typed character. A plain space is stored as the space glyph.
func (p *PendingInput) Append(ch string) {
	if p == nil || ch == "" {
		return
	}
	if ch == " " && p.space != "" {
		ch = p.space
	}
	p.chars = append(p.chars, ch)
}

// Backspace removes the last character unit.
func (p *PendingInput) Backspace() {
	if p == nil || len(p.chars) == 0 {
		return
	}
	p.chars = p.chars[:len(p.chars)-1]
}

// Replace swaps the whole buffer for text, one unit per grapheme.
func (p *PendingInput) Replace(text string) {
	if p == nil {
		return
	}
	p.chars = p.chars[:0]
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		p.Append(gr.Str())
	}
}

// Chars returns the stored character units.
func (p *PendingInput) Chars() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.chars...)
}

// Display is the buffer as shown, with space glyphs decoded.
func (p *PendingInput) Display() string {
	if p == nil {
		return ""
	}
	return decodeSpaces(strings.Join(p.chars, ""), p.space)
}

// Text returns the buffer with every whitespace run collapsed to one space.
func (p *PendingInput) Text() string {
	return whitespaceRun.ReplaceAllString(p.Display(), " ")
}

func (p *PendingInput) Len() int {
	if p == nil {
		return 0
	}
	return len(p.chars)
}

func (p *PendingInput) Active() bool { return p != nil && p.active }

func (p *PendingInput) SetActive(active bool) {
	if p != nil {
		p.active = active
	}
}

func decodeSpaces(s, space string) string {
	if space != "" && space != " " {
		s = strings.ReplaceAll(s, space, " ")
	}
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	return strings.ReplaceAll(s, "\u00a0", " ")
}
