// Package highlight colours file content for the cat built-in.
package highlight

import (
	"html"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/go-enry/go-enry/v2"

	"webterm/internal/logger"
)

var log = logger.Named("highlight")

const (
	DefaultStyle = "monokai"
	maxBytes     = 256 << 10
)

var markupTag = regexp.MustCompile(`<[a-zA-Z/][^>]*>`)

// Highlighter turns source code into coloured markup. Content that already
// carries markup, binary content and prose pass through unchanged.
type Highlighter struct {
	style *chroma.Style
}

func New(styleName string) *Highlighter {
	if styleName == "" {
		styleName = DefaultStyle
	}
	return &Highlighter{style: styles.Get(styleName)}
}

// Language guesses the language of a file, or "" when it is not code.
func Language(name, content string) string {
	data := []byte(content)
	if enry.IsBinary(data) {
		return ""
	}
	lang := enry.GetLanguage(name, data)
	switch enry.GetLanguageType(lang) {
	case enry.Programming, enry.Markup, enry.Data:
		return lang
	}
	return ""
}

func (h *Highlighter) Highlight(name, content string) string {
	if content == "" || len(content) > maxBytes || markupTag.MatchString(content) {
		return content
	}
	lang := Language(name, content)
	if lang == "" {
		return content
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Match(name)
	}
	if lexer == nil {
		return content
	}
	iter, err := chroma.Coalesce(lexer).Tokenise(nil, content)
	if err != nil {
		log.WithError(err).WithField("file", name).Debug("tokenise")
		return content
	}

	base := h.style.Get(chroma.Text).Colour
	var b strings.Builder
	for tok := iter(); tok != chroma.EOF; tok = iter() {
		text := html.EscapeString(tok.Value)
		entry := h.style.Get(tok.Type)
		if entry.Colour.IsSet() && entry.Colour != base {
			text = `<span style="color:` + entry.Colour.String() + `">` + text + `</span>`
		}
		if entry.Bold == chroma.Yes {
			text = "<strong>" + text + "</strong>"
		}
		b.WriteString(text)
	}
	log.WithField("file", name).Debugf("highlighted as %s", lang)
	return b.String()
}
