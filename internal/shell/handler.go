package shell

import (
	"context"
	"sort"
	"strings"

	"webterm/internal/screen"
)

// Mode declares whether a handler resolves immediately or off the UI loop.
type Mode int

const (
	Sync Mode = iota
	Async
)

func (m Mode) String() string {
	if m == Async {
		return "async"
	}
	return "sync"
}

// Invocation is a parsed command line.
type Invocation struct {
	Name string
	Args []string
	Raw  string
}

// Parse splits raw on whitespace. The name is case sensitive.
func Parse(raw string) Invocation {
	fields := strings.Fields(raw)
	inv := Invocation{Raw: raw}
	if len(fields) == 0 {
		return inv
	}
	inv.Name = fields[0]
	inv.Args = fields[1:]
	return inv
}

// Output is the only surface handlers may write to.
type Output interface {
	Write(content string, command, animate bool) *screen.Session
	Clear()
}

// Effect is a visible change, applied on the UI loop. A nil Effect writes nothing.
type Effect func(Output)

// Handler 定义内建命令的执行入口。
// Async 的 Handle 在调度器的 goroutine 中运行，不得直接访问 Output。
type Handler interface {
	Name() string
	Mode() Mode
	Handle(ctx context.Context, inv Invocation) Effect
}

// Func adapts a function to Handler.
type Func struct {
	Command string
	Kind    Mode
	Fn      func(ctx context.Context, inv Invocation) Effect
}

func (f Func) Name() string { return f.Command }
func (f Func) Mode() Mode   { return f.Kind }

func (f Func) Handle(ctx context.Context, inv Invocation) Effect {
	if f.Fn == nil {
		return nil
	}
	return f.Fn(ctx, inv)
}

type Registry struct {
	handlers map[string]Handler
}

func NewRegistry(handlers ...Handler) *Registry {
	table := make(map[string]Handler, len(handlers))
	for _, h := range handlers {
		if h == nil {
			continue
		}
		table[h.Name()] = h
	}
	return &Registry{handlers: table}
}

// Register adds or replaces a handler.
func (r *Registry) Register(h Handler) {
	if h == nil {
		return
	}
	r.handlers[h.Name()] = h
}

func (r *Registry) Handler(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// Names returns every registered command, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
