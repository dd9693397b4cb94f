package device

import "testing"

func TestIsMobileUserAgent(t *testing.T) {
	t.Parallel()

	cases := []struct {
		ua   string
		want bool
	}{
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15", true},
		{"Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 Mobile Safari/537.36", true},
		{"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 Chrome/120.0 Safari/537.36", false},
		{"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0) AppleWebKit/605.1.15 Version/17.0 Safari/605.1.15", false},
		{"Nokia6310/1.0", true},
		{"6310 legacy handset", true},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsMobileUserAgent(tc.ua); got != tc.want {
			t.Fatalf("IsMobileUserAgent(%q) = %v, want %v", tc.ua, got, tc.want)
		}
	}
}

func TestDetectPrecedence(t *testing.T) {
	t.Parallel()

	yes, no := true, false
	narrow := func() (int, bool) { return 40, true }
	wide := func() (int, bool) { return 120, true }
	noTTY := func() (int, bool) { return 0, false }

	cases := []struct {
		name string
		opts Options
		want bool
	}{
		{"override wins", Options{Override: &no, UserAgent: "iPhone", Width: narrow, MobileWidth: 60}, false},
		{"override mobile", Options{Override: &yes, Width: wide, MobileWidth: 60}, true},
		{"user agent", Options{UserAgent: "Mozilla/5.0 (iPhone)", Width: wide, MobileWidth: 60}, true},
		{"narrow terminal", Options{Width: narrow, MobileWidth: 60}, true},
		{"wide terminal", Options{Width: wide, MobileWidth: 60}, false},
		{"width disabled", Options{Width: narrow}, false},
		{"no tty", Options{Width: noTTY, MobileWidth: 60}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Detect(tc.opts).IsMobile(); got != tc.want {
				t.Fatalf("Detect().IsMobile() = %v, want %v", got, tc.want)
			}
		})
	}
}
