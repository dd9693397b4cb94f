package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"webterm/internal/events"
	"webterm/internal/logger"
	"webterm/internal/terminal"
	"webterm/internal/tui"
)

func runInteractive(root rootArgs, args []string) {
	fs, cli := newInteractiveFlagSet("webterm")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("parse args: %v", err)
	}
	cfg, err := loadConfig(cli.cfgPath, root, cli.overrides())
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := events.NewBus(64)
	defer bus.Close()
	traffic, closeTraffic := events.OpenTrafficLog(logger.DefaultTrafficLogPath)
	defer closeTraffic()

	deps, ch, err := terminal.FromConfig(cfg, terminal.BuildOptions{
		Bus:       bus,
		Traffic:   traffic,
		NoHistory: cli.noHistory,
	})
	if err != nil {
		log.Fatalf("failed to set up terminal: %v", err)
	}
	if ch != nil {
		go ch.Run(ctx)
		defer ch.Close()
	}

	term := terminal.New(ctx, cfg, deps)
	defer func() {
		if err := term.Close(); err != nil {
			log.Warnf("close terminal: %v", err)
		}
	}()

	res, err := tui.Run(tui.Options{
		Context:        ctx,
		Terminal:       term,
		Events:         bus,
		RevealInterval: millis(cfg.Terminal.RevealIntervalMS),
	}, !cli.inline)
	if err != nil {
		log.Fatalf("program exit: %v", err)
	}
	log.WithField("commands", len(res.History)).Info("session ended")
}
