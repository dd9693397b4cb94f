package shell

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// HelpFile is the file shown by help and ?.
const HelpFile = "help"

// Deps are the collaborators built-ins draw on. A nil Files source leaves
// cat and ls unregistered so they fall through to the remote channel.
type Deps struct {
	Files       FileSource
	Directory   DirectorySource
	Resolver    Resolver
	Identity    *Identity
	Layout      Layout
	Highlighter Highlighter
	Menu        []MenuItem
}

func (d Deps) delimiter() string {
	if d.Layout != nil && d.Layout.IsMobile() {
		return "\n"
	}
	return "\t"
}

// Builtins returns the built-in handlers wired to deps.
func Builtins(deps Deps) []Handler {
	handlers := []Handler{
		Func{Command: "clear", Kind: Sync, Fn: func(context.Context, Invocation) Effect {
			return func(o Output) { o.Clear() }
		}},
		Func{Command: "whoami", Kind: Sync, Fn: deps.whoami},
		Func{Command: "menu", Kind: Sync, Fn: deps.menu},
		Func{Command: "sudo", Kind: Sync, Fn: deps.sudo},
		Func{Command: "sudo su", Kind: Sync, Fn: deps.sudo},
	}

	if deps.Files != nil {
		cat := Func{Command: "cat", Kind: Async, Fn: deps.cat}
		handlers = append(handlers, cat, helpAlias("help", cat), helpAlias("?", cat))
	} else {
		handlers = append(handlers,
			Func{Command: "help", Kind: Sync, Fn: deps.remoteHelp},
			Func{Command: "?", Kind: Sync, Fn: deps.remoteHelp},
		)
	}
	if deps.Directory != nil {
		handlers = append(handlers, Func{Command: "ls", Kind: Async, Fn: deps.ls})
	}
	return handlers
}

func helpAlias(name string, cat Func) Func {
	return Func{Command: name, Kind: Async, Fn: func(ctx context.Context, inv Invocation) Effect {
		return cat.Handle(ctx, Invocation{Name: "cat", Args: []string{HelpFile}, Raw: "cat " + HelpFile})
	}}
}

func (d Deps) remoteHelp(context.Context, Invocation) Effect {
	if d.Resolver == nil {
		return nil
	}
	if err := d.Resolver.Send("command", "cat "+HelpFile); err != nil {
		log.WithError(err).Warn("forward help")
		return func(o Output) {
			o.Write("<strong>help</strong>: "+html.EscapeString(unreachable(err)), false, false)
		}
	}
	return nil
}

func (d Deps) whoami(context.Context, Invocation) Effect {
	if d.Identity == nil {
		return nil
	}
	line := fmt.Sprintf("%s@%s / %s", d.Identity.Name, d.Identity.Address, d.Identity.Location)
	return func(o Output) { o.Write(html.EscapeString(line), false, true) }
}

func (d Deps) sudo(context.Context, Invocation) Effect {
	name := "guest"
	if d.Identity != nil && d.Identity.Name != "" {
		name = d.Identity.Name
	}
	msg := html.EscapeString(name) + " is not in the sudoers file. This incident will be reported."
	return func(o Output) { o.Write(msg, false, true) }
}

func (d Deps) menu(context.Context, Invocation) Effect {
	delimiter := d.delimiter()
	var b strings.Builder
	for _, item := range d.Menu {
		href := item.Link
		if href == "" {
			href = "#"
		}
		fmt.Fprintf(&b, `<a href="%s" data-action="%s" data-title="%s" rel="nofollow" target="_blank">%s</a>%s`,
			html.EscapeString(href), html.EscapeString(item.Action), html.EscapeString(item.Title),
			html.EscapeString(item.Title), delimiter)
	}
	markup := b.String()
	return func(o Output) { o.Write(markup, false, true) }
}

// cat 只接受一个参数；其余情况为空操作。
func (d Deps) cat(ctx context.Context, inv Invocation) Effect {
	if len(inv.Args) != 1 {
		return nil
	}
	name := inv.Args[0]
	content, err := d.Files.Fetch(ctx, name)
	if err != nil {
		log.WithError(err).WithField("file", name).Warn("fetch file")
		msg := MissingFile(name)
		return func(o Output) { o.Write(msg, false, true) }
	}
	if d.Highlighter != nil {
		content = d.Highlighter.Highlight(name, content)
	}
	return func(o Output) { o.Write(content, false, true) }
}

// MissingFile is the message written when a file cannot be fetched.
func MissingFile(name string) string {
	return html.EscapeString(name) + ": No such file or directory"
}

func (d Deps) ls(ctx context.Context, inv Invocation) Effect {
	names, err := d.Directory.List(ctx)
	if err != nil {
		log.WithError(err).Warn("list directory")
		names = nil
	}
	if len(inv.Args) > 0 {
		names = filterNames(strings.Join(inv.Args, " "), names)
	}
	markup := Listing(names, d.delimiter())
	return func(o Output) { o.Write(markup, false, true) }
}

// Listing renders names as clickable cat actions joined by delimiter.
func Listing(names []string, delimiter string) string {
	parts := make([]string, 0, len(names))
	for _, name := range names {
		n := html.EscapeString(name)
		parts = append(parts, `<a data-action="cat `+n+`" data-title="`+n+`">`+n+`</a>`)
	}
	return strings.Join(parts, delimiter)
}

// filterNames keeps fuzzy matches of pattern in their original order.
func filterNames(pattern string, names []string) []string {
	matches := fuzzy.Find(pattern, names)
	idx := make([]int, 0, len(matches))
	for _, m := range matches {
		idx = append(idx, m.Index)
	}
	sort.Ints(idx)
	out := make([]string, 0, len(idx))
	for _, i := range idx {
		out = append(out, names[i])
	}
	return out
}
