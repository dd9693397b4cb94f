package screen

import "testing"

func TestPendingInput(t *testing.T) {
	t.Parallel()

	p := newPendingInput("&nbsp;")
	for _, ch := range []string{"c", "a", "t", " ", " ", "x"} {
		p.Append(ch)
	}
	if got := p.Chars()[3]; got != "&nbsp;" {
		t.Fatalf("space stored as %q, want &nbsp;", got)
	}
	if got := p.Text(); got != "cat x" {
		t.Fatalf("Text() = %q, want %q", got, "cat x")
	}
	p.Backspace()
	if got := p.Display(); got != "cat  " {
		t.Fatalf("Display() = %q", got)
	}

	p.Replace("ls about")
	if got := p.Text(); got != "ls about" {
		t.Fatalf("Replace -> Text() = %q", got)
	}
	if p.Len() != 8 {
		t.Fatalf("Len() = %d, want 8", p.Len())
	}

	p.Replace("")
	p.Backspace()
	if p.Len() != 0 {
		t.Fatalf("Backspace on empty buffer should be a no-op")
	}
}

func TestPendingActiveFlag(t *testing.T) {
	t.Parallel()

	var p *PendingInput
	if p.Active() {
		t.Fatalf("nil pending line is never active")
	}
	p = newPendingInput("")
	p.SetActive(true)
	if !p.Active() {
		t.Fatalf("SetActive(true) not applied")
	}
}
