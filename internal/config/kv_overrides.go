package config

import (
	"strconv"
	"strings"
)

// ApplyKVOverrides applies free-form -c key=value overrides.
// Unknown keys and unparsable values are ignored.
func ApplyKVOverrides(cfg Config, overrides []string) Config {
	if len(overrides) == 0 {
		return cfg
	}
	for _, raw := range overrides {
		parts := strings.SplitN(raw, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		switch key {
		case "variant":
			cfg.Variant = val
		case "unknown":
			cfg.Unknown = val
		case "directive":
			cfg.Directive = val
		case "welcome":
			cfg.Welcome = val
		case "startup":
			cfg.Startup = splitList(val)
		case "echo_startup":
			if b, err := strconv.ParseBool(val); err == nil {
				cfg.EchoStartup = &b
			}
		case "log_level":
			cfg.LogLevel = val
		case "files.base_url":
			cfg.Files.BaseURL = val
		case "files.directory_url":
			cfg.Files.DirectoryURL = val
		case "files.dir":
			cfg.Files.Dir = val
		case "files.timeout_seconds":
			setInt(&cfg.Files.TimeoutSeconds, val)
		case "socket.url":
			cfg.Socket.URL = val
		case "user.name", "user.address", "user.location":
			if cfg.User == nil {
				cfg.User = &User{}
			}
			switch key {
			case "user.name":
				cfg.User.Name = val
			case "user.address":
				cfg.User.Address = val
			default:
				cfg.User.Location = val
			}
		case "terminal.space":
			cfg.Terminal.Space = val
		case "terminal.prompt":
			cfg.Terminal.Prompt = val
		case "terminal.time_layout":
			cfg.Terminal.TimeLayout = val
		case "terminal.typing_buffer_ms":
			setInt(&cfg.Terminal.TypingBufferMS, val)
		case "terminal.reveal_interval_ms":
			setInt(&cfg.Terminal.RevealIntervalMS, val)
		case "terminal.wheel_throttle_ms":
			setInt(&cfg.Terminal.WheelThrottleMS, val)
		case "terminal.mobile_width":
			setInt(&cfg.Terminal.MobileWidth, val)
		case "terminal.mobile":
			if b, err := strconv.ParseBool(val); err == nil {
				cfg.Terminal.Mobile = &b
			}
		case "terminal.user_agent":
			cfg.Terminal.UserAgent = val
		case "terminal.recall_empty":
			cfg.Terminal.RecallEmpty = val
		case "terminal.highlight":
			if b, err := strconv.ParseBool(val); err == nil {
				cfg.Terminal.Highlight = b
			}
		case "terminal.highlight_style":
			cfg.Terminal.HighlightStyle = val
		case "history.backend":
			cfg.History.Backend = val
		case "history.path":
			cfg.History.Path = val
		}
	}
	return cfg
}

func setInt(dst *int, val string) {
	n, err := strconv.Atoi(val)
	if err != nil || n < 0 {
		return
	}
	*dst = n
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
