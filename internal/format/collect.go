package format

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type style struct {
	classes []string
	color   string
	bold    bool
	italic  bool
	anchor  *Anchor
}

func (s style) with(n *html.Node) style {
	if class := strings.Fields(attr(n, "class")); len(class) > 0 {
		merged := make([]string, 0, len(s.classes)+len(class))
		merged = append(merged, s.classes...)
		for _, c := range class {
			if c != AnimatedClass {
				merged = append(merged, c)
			}
		}
		s.classes = merged
	}
	if c := cssColor(attr(n, "style")); c != "" {
		s.color = c
	}
	switch n.DataAtom {
	case atom.Strong, atom.B:
		s.bold = true
	case atom.Em, atom.I:
		s.italic = true
	case atom.A:
		s.anchor = &Anchor{
			Action: attr(n, "data-action"),
			Title:  attr(n, "data-title"),
			Href:   attr(n, "href"),
		}
	}
	return s
}

func (s style) unit(kind Kind, text string) Unit {
	return Unit{
		Kind:    kind,
		Text:    text,
		Classes: s.classes,
		Color:   s.color,
		Bold:    s.bold,
		Italic:  s.italic,
		Anchor:  s.anchor,
	}
}

func collect(n *html.Node, st style, units []Unit) []Unit {
	switch n.Type {
	case html.TextNode:
		for _, g := range graphemes(n.Data) {
			units = append(units, st.unit(Glyph, g))
		}
	case html.ElementNode:
		if skippedTags[n.DataAtom] {
			return units
		}
		st = st.with(n)
		switch {
		case n.DataAtom == atom.Br:
			u := st.unit(Break, "")
			u.Revealed = true
			units = append(units, u)
		case atomicTags[n.DataAtom]:
			u := st.unit(Atomic, atomicText(n))
			u.Tag = n.Data
			units = append(units, u)
		case isAnimatedSpan(n):
			units = append(units, st.unit(Glyph, textContent(n)))
		default:
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				units = collect(c, st, units)
			}
		}
	}
	return units
}

func atomicText(n *html.Node) string {
	switch n.DataAtom {
	case atom.Img:
		if alt := attr(n, "alt"); alt != "" {
			return "[" + alt + "]"
		}
		return "[image]"
	case atom.Input:
		return attr(n, "value")
	case atom.Hr:
		return ""
	}
	if hasAttr(n, "title") {
		return "[" + attr(n, "title") + "]"
	}
	return "[" + n.Data + "]"
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// cssColor pulls the color declaration out of an inline style attribute.
func cssColor(decl string) string {
	for _, part := range strings.Split(decl, ";") {
		key, val, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(key), "color") {
			return strings.TrimSpace(val)
		}
	}
	return ""
}
