// Package shell resolves command lines to built-ins or the remote channel.
package shell

import (
	"context"
	"fmt"
	"html"
	"strings"
)

// Unknown command policies.
const (
	UnknownRemote = "remote"
	UnknownIgnore = "ignore"
)

// HighlightClass styles echoed command lines.
const HighlightClass = "text-highlight"

// Outcome tells the caller how Process resolved a command.
type Outcome int

const (
	// Ignored means nothing matched and nothing was sent.
	Ignored Outcome = iota
	// Handled means a sync built-in already applied its effect.
	Handled
	// Pending means an async built-in is running; done fires on completion.
	Pending
	// Forwarded means the raw command went to the remote channel.
	Forwarded
)

func (o Outcome) String() string {
	switch o {
	case Handled:
		return "handled"
	case Pending:
		return "pending"
	case Forwarded:
		return "forwarded"
	default:
		return "ignored"
	}
}

type Options struct {
	Context   context.Context
	Output    Output
	Scheduler Scheduler
	Registry  *Registry
	Resolver  Resolver
	Unknown   string
}

// Dispatcher 负责解析命令并把效果应用到 Output。必须在 UI 循环上调用。
type Dispatcher struct {
	ctx       context.Context
	out       Output
	scheduler Scheduler
	registry  *Registry
	resolver  Resolver
	unknown   string
	inflight  int
}

func NewDispatcher(opts Options) *Dispatcher {
	d := &Dispatcher{
		ctx:       opts.Context,
		out:       opts.Output,
		scheduler: opts.Scheduler,
		registry:  opts.Registry,
		resolver:  opts.Resolver,
		unknown:   opts.Unknown,
	}
	if d.ctx == nil {
		d.ctx = context.Background()
	}
	if d.scheduler == nil {
		d.scheduler = Inline{Context: d.ctx}
	}
	if d.registry == nil {
		d.registry = NewRegistry()
	}
	if d.unknown == "" {
		d.unknown = UnknownRemote
	}
	return d
}

// Registry exposes the handler table.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// SetScheduler swaps the scheduler used for later async work.
func (d *Dispatcher) SetScheduler(s Scheduler) {
	if s != nil {
		d.scheduler = s
	}
}

// Busy reports whether async work is still in flight.
func (d *Dispatcher) Busy() bool { return d.inflight > 0 }

// Process resolves raw and applies its effect. done runs after the effect on
// every path, including unknown commands.
func (d *Dispatcher) Process(raw string, done func()) Outcome {
	inv := Parse(raw)
	h, ok := d.registry.Handler(strings.TrimSpace(raw))
	if !ok {
		h, ok = d.registry.Handler(inv.Name)
	}
	if !ok {
		out := d.forward(raw)
		call(done)
		return out
	}

	entry := log.WithField("command", inv.Name)
	if h.Mode() == Async {
		d.inflight++
		entry.Debug("dispatch async")
		d.scheduler.Go(func(ctx context.Context) Effect {
			return h.Handle(ctx, inv)
		}, func(eff Effect) {
			d.inflight--
			d.apply(eff)
			call(done)
		})
		return Pending
	}

	entry.Debug("dispatch sync")
	d.apply(h.Handle(d.ctx, inv))
	call(done)
	return Handled
}

func (d *Dispatcher) forward(raw string) Outcome {
	if d.unknown != UnknownRemote || d.resolver == nil {
		log.WithField("command", raw).Debug("unknown command ignored")
		return Ignored
	}
	if err := d.resolver.Send("command", raw); err != nil {
		log.WithError(err).WithField("command", raw).Warn("forward command")
		d.out.Write(fmt.Sprintf("<strong>%s</strong>: %s", html.EscapeString(raw), html.EscapeString(unreachable(err))), false, false)
		return Ignored
	}
	return Forwarded
}

func unreachable(err error) string {
	return "could not reach the server (" + err.Error() + ")"
}

func (d *Dispatcher) apply(eff Effect) {
	if eff != nil && d.out != nil {
		eff(d.out)
	}
}

// Echo writes cmd as a highlighted, non-animated command line.
func (d *Dispatcher) Echo(cmd string) {
	d.out.Write(EchoMarkup(cmd), true, false)
}

// EchoMarkup is the markup of an echoed command line.
func EchoMarkup(cmd string) string {
	return `<span class="` + HighlightClass + `">` + html.EscapeString(cmd) + `</span>`
}

// Respond renders a response from the remote channel. A nil response means
// the command is unknown to the peer.
func (d *Dispatcher) Respond(command string, response *string) {
	if response == nil {
		d.out.Write("<strong>"+html.EscapeString(command)+"</strong>: command not found", false, true)
		return
	}
	d.out.Write(*response, false, true)
}

// Step is one stage of a scripted sequence.
type Step struct {
	// Clear wipes the screen first.
	Clear bool
	// Write emits Markup as a non-animated line, even when Markup is empty.
	Write  bool
	Markup string
	// Echo writes Command as a command line before it runs.
	Echo    bool
	Command string
}

// Run executes steps in order; each command awaits the previous one.
func (d *Dispatcher) Run(steps []Step, done func()) {
	if len(steps) == 0 {
		call(done)
		return
	}
	st, rest := steps[0], steps[1:]
	if st.Clear {
		d.out.Clear()
	}
	if st.Write {
		d.out.Write(st.Markup, false, false)
	}
	if st.Echo {
		d.Echo(st.Command)
	}
	if strings.TrimSpace(st.Command) == "" {
		d.Run(rest, done)
		return
	}
	d.Process(st.Command, func() { d.Run(rest, done) })
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}
