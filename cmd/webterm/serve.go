package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"webterm/internal/events"
	"webterm/internal/logger"
	"webterm/internal/remote"
)

const defaultServeAddr = "127.0.0.1:8765"

func serveMain(root rootArgs, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := runServe(ctx, root, args); err != nil {
		log.Fatalf("serve failed: %v", err)
	}
}

type serveArgs struct {
	addr string
	dir  string
}

func parseServeArgs(root rootArgs, args []string) (serveArgs, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var cfgPath string
	var configOverrides stringSlice
	var out serveArgs
	fs.StringVar(&cfgPath, "config", "", "Path to config file (default ~/.webterm/config.toml)")
	fs.Var(&configOverrides, "c", "Override config value key=value (repeatable)")
	fs.StringVar(&out.addr, "addr", "", "Listen address (default: host of socket.url)")
	fs.StringVar(&out.dir, "dir", "", "Directory served to clients (default: files.dir)")
	if err := fs.Parse(args); err != nil {
		return serveArgs{}, err
	}

	cfg, err := loadConfig(cfgPath, root, configOverrides)
	if err != nil {
		return serveArgs{}, err
	}
	if out.addr == "" {
		out.addr = addrFromSocketURL(cfg.Socket.URL)
	}
	if out.dir == "" {
		out.dir = cfg.Files.Dir
	}
	if out.dir == "" {
		return serveArgs{}, errors.New("no directory to serve: pass -dir or set files.dir")
	}
	return out, nil
}

func runServe(ctx context.Context, root rootArgs, args []string) error {
	opts, err := parseServeArgs(root, args)
	if err != nil {
		return err
	}
	if info, err := os.Stat(opts.dir); err != nil || !info.IsDir() {
		return errors.New("not a directory: " + opts.dir)
	}
	traffic, closeTraffic := events.OpenTrafficLog(logger.DefaultTrafficLogPath)
	defer closeTraffic()

	srv := remote.NewServer(&remote.DirFiles{Root: opts.dir}, traffic)
	return srv.ListenAndServe(ctx, opts.addr)
}

func addrFromSocketURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return defaultServeAddr
	}
	return u.Host
}
