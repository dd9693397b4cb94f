// Package device decides, once per session, whether the mobile layout applies.
package device

import (
	"os"

	"golang.org/x/term"

	"webterm/internal/logger"
)

var log = logger.Named("device")

// Layout is the result of classification. It never changes after Detect.
type Layout struct {
	Mobile bool
	Reason string
}

func (l Layout) IsMobile() bool { return l.Mobile }

type Options struct {
	// Override wins over every heuristic when set.
	Override *bool
	// UserAgent is checked against the handset patterns.
	UserAgent string
	// MobileWidth treats terminals narrower than this many columns as mobile.
	// Zero disables the width check.
	MobileWidth int
	// Width reports the current terminal width. Defaults to stdout's size.
	Width func() (int, bool)
}

// Detect classifies the session: explicit override, then user agent, then
// terminal width.
func Detect(opts Options) Layout {
	l := detect(opts)
	log.WithField("mobile", l.Mobile).Debugf("layout decided by %s", l.Reason)
	return l
}

func detect(opts Options) Layout {
	if opts.Override != nil {
		return Layout{Mobile: *opts.Override, Reason: "override"}
	}
	if opts.UserAgent != "" {
		return Layout{Mobile: IsMobileUserAgent(opts.UserAgent), Reason: "user agent"}
	}
	if opts.MobileWidth > 0 {
		width := opts.Width
		if width == nil {
			width = StdoutWidth
		}
		if w, ok := width(); ok {
			return Layout{Mobile: w < opts.MobileWidth, Reason: "terminal width"}
		}
	}
	return Layout{Reason: "default"}
}

// StdoutWidth returns the column count of stdout when it is a terminal.
func StdoutWidth() (int, bool) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0, false
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return 0, false
	}
	return w, true
}
