package terminal

import (
	"fmt"
	"time"

	"webterm/internal/config"
	"webterm/internal/events"
	"webterm/internal/highlight"
	"webterm/internal/history"
	"webterm/internal/logger"
	"webterm/internal/remote"
)

// BuildOptions tune FromConfig.
type BuildOptions struct {
	// Bus receives socket responses. Required for the socket variant.
	Bus *events.Bus
	// Traffic logs socket frames.
	Traffic logger.TrafficLogger
	// NoHistory keeps history in memory only.
	NoHistory bool
	// Width overrides the terminal width probe used by layout detection.
	Width func() (int, bool)
}

// FromConfig builds Deps from cfg. The returned channel is nil for the
// static variant; callers own running and closing it.
func FromConfig(cfg config.Config, opts BuildOptions) (Deps, *remote.Channel, error) {
	var deps Deps
	var ch *remote.Channel

	if cfg.IsSocket() {
		ch = remote.NewChannel(cfg.Socket.URL, opts.Bus, opts.Traffic)
		deps.Resolver = ch
	} else if cfg.Files.Dir != "" {
		dir := &remote.DirFiles{Root: cfg.Files.Dir}
		deps.Files, deps.Directory = dir, dir
	} else {
		files := remote.NewHTTPFiles(cfg.Files.BaseURL, cfg.Files.DirectoryURL, time.Duration(cfg.Files.TimeoutSeconds)*time.Second)
		deps.Files, deps.Directory = files, files
	}

	if cfg.Terminal.Highlight {
		deps.Highlighter = highlight.New(cfg.Terminal.HighlightStyle)
	}

	backend, path := cfg.History.Backend, cfg.History.Path
	if opts.NoHistory {
		backend = history.BackendMemory
	}
	if path == "" && backend != history.BackendMemory && backend != "" {
		path = config.DefaultHistoryPath(backend)
	}
	store, err := history.Open(backend, path)
	if err != nil {
		return Deps{}, nil, fmt.Errorf("open history: %w", err)
	}
	deps.Store = store

	deps.Layout = DetectLayout(cfg, opts.Width)
	log.WithField("variant", cfg.Variant).
		WithField("history", backend).
		WithField("mobile", deps.Layout.IsMobile()).
		Debug("collaborators ready")
	return deps, ch, nil
}
