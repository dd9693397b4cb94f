package highlight

import (
	"strings"
	"testing"

	"webterm/internal/format"
)

func TestHighlightGo(t *testing.T) {
	t.Parallel()

	src := "package main\n\nfunc main() {\n\tprintln(\"a < b\")\n}\n"
	out := New("").Highlight("main.go", src)
	if out == src {
		t.Fatalf("go source was not highlighted")
	}
	if !strings.Contains(out, `style="color:#`) {
		t.Fatalf("missing colour spans: %q", out)
	}
	// text survives the round trip through the formatter
	if got := format.Plain(format.Units(out)); !strings.Contains(got, `println("a < b")`) {
		t.Fatalf("plain text = %q", got)
	}
}

func TestHighlightPassThrough(t *testing.T) {
	t.Parallel()

	h := New("monokai")
	cases := map[string]string{
		"about":     `<span class="text-comment">already markup</span>`,
		"notes.txt": "just some notes",
		"empty.go":  "",
	}
	for name, content := range cases {
		if got := h.Highlight(name, content); got != content {
			t.Fatalf("Highlight(%q) changed content: %q", name, got)
		}
	}
}

func TestLanguage(t *testing.T) {
	t.Parallel()

	if got := Language("main.go", "package main\n"); got != "Go" {
		t.Fatalf("Language(main.go) = %q", got)
	}
	if got := Language("notes.txt", "hello"); got != "" {
		t.Fatalf("Language(notes.txt) = %q", got)
	}
}
