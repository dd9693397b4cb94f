package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"webterm/internal/events"
	"webterm/internal/screen"
	"webterm/internal/shell"
	"webterm/internal/terminal"
)

func execMain(root rootArgs, args []string) {
	if err := runExec(context.Background(), root, args, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("exec failed: %v", err)
	}
}

// countingResolver 记录转发出去的命令数，exec 据此等待同样数量的响应。
type countingResolver struct {
	next shell.Resolver
	sent int
}

func (r *countingResolver) Send(event, payload string) error {
	if err := r.next.Send(event, payload); err != nil {
		return err
	}
	r.sent++
	return nil
}

// runExec 非交互地执行命令并把输出写成纯文本。命令来自参数，没有参数时逐行读取 in。
func runExec(ctx context.Context, root rootArgs, args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("exec", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var cfgPath string
	var directive string
	var configOverrides stringSlice
	var boot bool
	var width int
	var timeoutSeconds int

	fs.StringVar(&cfgPath, "config", "", "Path to config file (default ~/.webterm/config.toml)")
	fs.StringVar(&directive, "directive", "", "Menu action title to open on startup (with -boot)")
	fs.Var(&configOverrides, "c", "Override config value key=value (repeatable)")
	fs.BoolVar(&boot, "boot", false, "Run the startup sequence before the commands")
	fs.IntVar(&width, "width", 80, "Wrap output at this many columns")
	fs.IntVar(&timeoutSeconds, "timeout", 10, "Seconds to wait for each socket response")

	if err := fs.Parse(args); err != nil {
		return err
	}
	overrides := []string(configOverrides)
	if directive != "" {
		overrides = append(overrides, "directive="+directive)
	}
	cfg, err := loadConfig(cfgPath, root, overrides)
	if err != nil {
		return err
	}

	commands := fs.Args()
	if len(commands) == 0 && !boot {
		commands, err = readCommands(in)
		if err != nil {
			return err
		}
	}
	if len(commands) == 0 && !boot {
		return errors.New("no commands: pass them as arguments or on stdin")
	}

	bus := events.NewBus(64)
	defer bus.Close()
	responses := bus.Subscribe()

	deps, ch, err := terminal.FromConfig(cfg, terminal.BuildOptions{
		Bus:       bus,
		NoHistory: true,
		Width:     func() (int, bool) { return width, true },
	})
	if err != nil {
		return err
	}
	var counter *countingResolver
	if ch != nil {
		dialCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSeconds)*time.Second)
		err := ch.Connect(dialCtx)
		cancel()
		if err != nil {
			return err
		}
		defer ch.Close()
		counter = &countingResolver{next: ch}
		deps.Resolver = counter
	}
	deps.Scheduler = shell.Inline{Context: ctx}
	deps.Animator = screen.Instant{}

	term := terminal.New(ctx, cfg, deps)
	defer term.Close()
	sb := screen.NewScrollback(screen.ScrollbackOptions{Writer: out, Width: width, Prompt: cfg.Terminal.Prompt})

	handled := 0
	settle := func() error {
		for counter != nil && handled < counter.sent {
			if err := awaitResponse(ctx, term, responses, time.Duration(timeoutSeconds)*time.Second); err != nil {
				return err
			}
			handled++
		}
		sb.Sync(term.Screen)
		return nil
	}

	if boot {
		term.Boot(nil)
		if err := settle(); err != nil {
			return err
		}
	}
	for _, cmd := range commands {
		term.Dispatcher.Run([]shell.Step{{Echo: true, Command: cmd}}, nil)
		if err := settle(); err != nil {
			return err
		}
	}
	return nil
}

func awaitResponse(ctx context.Context, term *terminal.Terminal, ch <-chan events.Event, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return fmt.Errorf("no socket response within %s", timeout)
		case evt, ok := <-ch:
			if !ok {
				return errors.New("event bus closed")
			}
			term.Handle(evt)
			if _, isResponse := evt.(events.Response); isResponse {
				return nil
			}
			if c, isConn := evt.(events.Connection); isConn && c.State == events.StateDisconnected {
				return errors.New("socket disconnected while waiting for a response")
			}
		}
	}
}

func readCommands(in io.Reader) ([]string, error) {
	if in == nil {
		return nil, nil
	}
	var cmds []string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			cmds = append(cmds, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read commands: %w", err)
	}
	return cmds, nil
}

func millis(ms int) time.Duration {
	if ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}
