// Package format turns loose markup into per-grapheme animated units.
package format

import (
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// AnimatedClass marks a span that wraps exactly one revealable glyph.
const AnimatedClass = "animated"

// DefaultSpace is the glyph used for expanded tabs and typed spaces.
const DefaultSpace = "&nbsp;"

var atomicTags = map[atom.Atom]bool{
	atom.Img:    true,
	atom.Hr:     true,
	atom.Input:  true,
	atom.Video:  true,
	atom.Iframe: true,
	atom.Canvas: true,
	atom.Svg:    true,
}

var skippedTags = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
}

// Formatter is stateless apart from the space glyph.
type Formatter struct {
	Space string
}

// New returns a Formatter using space for tab expansion; empty means &nbsp;.
func New(space string) Formatter {
	if space == "" {
		space = DefaultSpace
	}
	return Formatter{Space: space}
}

func (f Formatter) space() string {
	if f.Space == "" {
		return DefaultSpace
	}
	return f.Space
}

// Format rewrites raw so every text glyph sits in its own animated span.
// Format(Format(s)) == Format(s).
func (f Formatter) Format(raw string) string {
	root := f.parse(raw)
	if root == nil {
		return ""
	}
	wrapText(root)
	var b strings.Builder
	for n := root.FirstChild; n != nil; n = n.NextSibling {
		if err := html.Render(&b, n); err != nil {
			log.WithError(err).Warn("render formatted markup")
			return ""
		}
	}
	return b.String()
}

// Units returns the same transform as Format, as records the renderer can reveal.
func (f Formatter) Units(raw string) []Unit {
	root := f.parse(raw)
	if root == nil {
		return nil
	}
	var units []Unit
	for n := root.FirstChild; n != nil; n = n.NextSibling {
		units = collect(n, style{}, units)
	}
	return units
}

// parse returns a detached container holding the fragment's nodes.
func (f Formatter) parse(raw string) *html.Node {
	if raw == "" {
		return nil
	}
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\n", "<br>")
	raw = strings.ReplaceAll(raw, "\t", strings.Repeat(f.space(), 4))

	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(raw), context)
	if err != nil {
		log.WithError(err).Debug("discard malformed markup")
		return nil
	}
	if len(nodes) == 0 {
		return nil
	}
	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root
}

// Format uses the default space glyph.
func Format(raw string) string { return Formatter{}.Format(raw) }

// Units uses the default space glyph.
func Units(raw string) []Unit { return Formatter{}.Units(raw) }

// Coerce maps any value to render input; everything except a string is "".
func Coerce(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case *string:
		if s != nil {
			return *s
		}
	}
	return ""
}

func isAnimatedSpan(n *html.Node) bool {
	if n.Type != html.ElementNode || n.DataAtom != atom.Span {
		return false
	}
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == AnimatedClass {
			return true
		}
	}
	return false
}

func wrapText(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		parent := n.Parent
		if parent == nil {
			return
		}
		for _, g := range graphemes(n.Data) {
			span := &html.Node{
				Type:     html.ElementNode,
				Data:     "span",
				DataAtom: atom.Span,
				Attr:     []html.Attribute{{Key: "class", Val: AnimatedClass}},
			}
			span.AppendChild(&html.Node{Type: html.TextNode, Data: g})
			parent.InsertBefore(span, n)
		}
		parent.RemoveChild(n)
	case html.ElementNode:
		if isAnimatedSpan(n) || skippedTags[n.DataAtom] {
			return
		}
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			wrapText(c)
			c = next
		}
	}
}

func graphemes(s string) []string {
	var out []string
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		out = append(out, gr.Str())
	}
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}
