package format

import "strings"

// Kind classifies an animated unit.
type Kind int

const (
	// Glyph is one grapheme cluster of text.
	Glyph Kind = iota
	// Atomic is a non-text node revealed as a whole (img, hr, an already wrapped span).
	Atomic
	// Break is a line break. Structural, never animated.
	Break
)

func (k Kind) String() string {
	switch k {
	case Glyph:
		return "glyph"
	case Atomic:
		return "atomic"
	case Break:
		return "break"
	default:
		return "unknown"
	}
}

// Anchor is the clickable target a unit belongs to.
type Anchor struct {
	Action string
	Title  string
	Href   string
}

// Unit 是渲染层的最小揭示单元，样式从祖先节点继承。
type Unit struct {
	Kind     Kind
	Text     string
	Tag      string
	Revealed bool
	Classes  []string
	Color    string
	Bold     bool
	Italic   bool
	Anchor   *Anchor
}

// Animated reports whether the unit takes part in the typewriter reveal.
func (u Unit) Animated() bool {
	return u.Kind != Break
}

// HasClass reports whether class is among the unit's inherited classes.
func (u Unit) HasClass(class string) bool {
	for _, c := range u.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// Plain flattens units into plain text. Breaks become newlines.
func Plain(units []Unit) string {
	var b strings.Builder
	for _, u := range units {
		switch u.Kind {
		case Break:
			b.WriteByte('\n')
		default:
			b.WriteString(u.Text)
		}
	}
	return b.String()
}
