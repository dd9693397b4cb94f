package render

import "testing"

func TestViewportSetLinesKeepsBottom(t *testing.T) {
	vp := NewViewport(10, 2)
	vp.SetLines([]string{"a", "b"}, false)
	vp.GotoBottom()

	vp.SetLines([]string{"a", "b", "c"}, false)
	if !vp.AtBottom() {
		t.Fatalf("viewport should stay anchored at bottom after append")
	}
}

func TestViewportFollowAfterScrollingUp(t *testing.T) {
	vp := NewViewport(8, 2)
	vp.SetLines([]string{"a", "b", "c", "d"}, true)
	vp.ScrollBy(-2)
	if vp.AtBottom() {
		t.Fatalf("expected to leave the bottom after scrolling up")
	}

	vp.SetLines([]string{"a", "b", "c", "d", "e"}, false)
	if vp.AtBottom() {
		t.Fatalf("append without follow should keep the scrolled position")
	}
	vp.SetLines([]string{"a", "b", "c", "d", "e"}, true)
	if !vp.AtBottom() {
		t.Fatalf("follow should jump to the bottom")
	}
}

func TestViewportScrollBy(t *testing.T) {
	vp := NewViewport(8, 2)
	vp.SetLines([]string{"a", "b", "c"}, false)
	vp.SetYOffset(0)

	vp.ScrollBy(1)
	if vp.YOffset != 1 {
		t.Fatalf("unexpected YOffset after scroll: %d", vp.YOffset)
	}
	vp.ScrollBy(5)
	if !vp.AtBottom() {
		t.Fatalf("scrolling past the end should clamp at the bottom")
	}
}
