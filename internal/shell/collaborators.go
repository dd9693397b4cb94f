package shell

import "context"

// FileSource fetches the raw content of a named file.
type FileSource interface {
	Fetch(ctx context.Context, name string) (string, error)
}

// DirectorySource lists the names of available files.
type DirectorySource interface {
	List(ctx context.Context) ([]string, error)
}

// Resolver forwards events to the remote command-resolution channel.
type Resolver interface {
	Send(event, payload string) error
}

// Identity is the visitor context used by whoami and sudo.
type Identity struct {
	Name     string
	Address  string
	Location string
}

// Layout answers whether the session uses the mobile layout.
type Layout interface {
	IsMobile() bool
}

// FixedLayout is a Layout decided up front.
type FixedLayout bool

func (l FixedLayout) IsMobile() bool { return bool(l) }

// Highlighter decorates file content before it is written.
type Highlighter interface {
	Highlight(name, content string) string
}

// MenuItem is one entry of the menu built-in. Type is "action" or "link".
type MenuItem struct {
	Type   string
	Title  string
	Action string
	Link   string
}
