package bootstrap

import (
	"context"
	"testing"

	"webterm/internal/config"
	"webterm/internal/format"
	"webterm/internal/screen"
	"webterm/internal/shell"
)

type memFiles map[string]string

func (m memFiles) Fetch(_ context.Context, name string) (string, error) {
	return m[name], nil
}

func (m memFiles) List(context.Context) ([]string, error) {
	return []string{"about", "projects"}, nil
}

type recorder struct{ sent []string }

func (r *recorder) Send(event, payload string) error {
	r.sent = append(r.sent, event+":"+payload)
	return nil
}

func TestStepsStaticDefaults(t *testing.T) {
	cfg := config.Default()
	steps := Steps(cfg, false)
	if len(steps) != 3 {
		t.Fatalf("expected welcome + 2 commands, got %+v", steps)
	}
	if !steps[0].Write || steps[0].Markup != config.DefaultWelcome {
		t.Fatalf("first step should write the welcome: %+v", steps[0])
	}
	if steps[1].Command != "ls" || !steps[1].Echo {
		t.Fatalf("unexpected second step: %+v", steps[1])
	}
	if steps[2].Command != "cat about" || !steps[2].Echo {
		t.Fatalf("unexpected third step: %+v", steps[2])
	}
}

func TestStepsSocketDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.Variant = config.VariantSocket
	steps := Steps(cfg, false)
	if len(steps) != 2 {
		t.Fatalf("expected empty write + menu, got %+v", steps)
	}
	if !steps[0].Write || steps[0].Markup != "" || steps[0].Command != "" {
		t.Fatalf("first step should be an empty write: %+v", steps[0])
	}
	if steps[1].Command != "menu" || steps[1].Echo {
		t.Fatalf("menu should run silently: %+v", steps[1])
	}
}

func TestStepsDirective(t *testing.T) {
	cfg := config.Default()
	cfg.Directive = "projects"

	steps := Steps(cfg, false)
	last := steps[len(steps)-1]
	if last.Command != "cat projects" || !last.Echo {
		t.Fatalf("directive should replace the last startup command: %+v", last)
	}
	if steps[len(steps)-2].Command != "ls" {
		t.Fatalf("earlier commands should be kept: %+v", steps)
	}

	mobile := Steps(cfg, true)
	if got := mobile[len(mobile)-1].Command; got != "cat about" {
		t.Fatalf("directive is ignored on mobile, got %q", got)
	}

	cfg.Directive = "nope"
	if got := Steps(cfg, false); got[len(got)-1].Command != "cat about" {
		t.Fatalf("unmatched directive should keep defaults: %+v", got)
	}

	cfg.Directive = "projects"
	cfg.Variant = config.VariantSocket
	sock := Steps(cfg, false)
	if last := sock[len(sock)-1]; last.Command != "cat projects" || !last.Echo {
		t.Fatalf("socket directive should echo the action: %+v", last)
	}
}

func TestRunStaticSequence(t *testing.T) {
	cfg := config.Default()
	files := memFiles{"about": "hello world"}
	sc := screen.New(screen.Options{Formatter: format.New("")})
	sched := &shell.Deferred{}
	d := shell.NewDispatcher(shell.Options{
		Output:    sc,
		Scheduler: sched,
		Registry:  shell.NewRegistry(shell.Builtins(shell.Deps{Files: files, Directory: files})...),
		Unknown:   cfg.UnknownPolicy(),
	})

	finished := false
	Run(d, cfg, shell.FixedLayout(false), func() { finished = true })

	// welcome + echoed ls; cat about waits for ls to finish
	if got := len(sc.Lines()); got != 2 {
		t.Fatalf("expected 2 lines before ls completes, got %d", got)
	}
	sched.Flush()
	if !finished {
		t.Fatalf("done should fire after the last step")
	}

	lines := sc.Lines()
	want := []string{"ls", "about\tprojects", "cat about", "hello world"}
	if len(lines) != len(want)+1 {
		t.Fatalf("unexpected line count %d", len(lines))
	}
	for i, w := range want {
		if got := lines[i+1].Plain(); got != w {
			t.Fatalf("line %d: want %q, got %q", i+1, w, got)
		}
	}
}

func TestRunSocketSendsNothingUntilUnknown(t *testing.T) {
	cfg := config.Default()
	cfg.Variant = config.VariantSocket
	rec := &recorder{}
	sc := screen.New(screen.Options{Formatter: format.New("")})
	menu := []shell.MenuItem{{Type: "action", Title: "about", Action: "cat about"}}
	d := shell.NewDispatcher(shell.Options{
		Output:   sc,
		Registry: shell.NewRegistry(shell.Builtins(shell.Deps{Resolver: rec, Menu: menu})...),
		Resolver: rec,
		Unknown:  cfg.UnknownPolicy(),
	})

	Run(d, cfg, nil, nil)
	if len(rec.sent) != 0 {
		t.Fatalf("menu is local, nothing should be sent: %v", rec.sent)
	}
	lines := sc.Lines()
	if len(lines) != 2 || lines[0].Plain() != "" {
		t.Fatalf("expected empty line then menu, got %d lines", len(lines))
	}
}
