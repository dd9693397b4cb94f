package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Deployment variants.
const (
	VariantStatic = "static"
	VariantSocket = "socket"
)

// Unknown command policies.
const (
	UnknownRemote = "remote"
	UnknownIgnore = "ignore"
)

// Recall policies for empty history results.
const (
	RecallKeep  = "keep"
	RecallClear = "clear"
)

// Config is the only persisted config file schema.
type Config struct {
	Variant     string     `toml:"variant"`
	Unknown     string     `toml:"unknown"`
	Directive   string     `toml:"directive"`
	Welcome     string     `toml:"welcome"`
	Startup     []string   `toml:"startup"`
	EchoStartup *bool      `toml:"echo_startup"`
	LogLevel    string     `toml:"log_level"`
	Files       Files      `toml:"files"`
	Socket      Socket     `toml:"socket"`
	User        *User      `toml:"user"`
	Terminal    Terminal   `toml:"terminal"`
	History     History    `toml:"history"`
	Menu        []MenuItem `toml:"menu"`
	Source      string     `toml:"-"`
}

// Files points at the static content host.
type Files struct {
	BaseURL        string `toml:"base_url"`
	DirectoryURL   string `toml:"directory_url"`
	Dir            string `toml:"dir"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type Socket struct {
	URL string `toml:"url"`
}

// User is the visitor identity shown by whoami and sudo.
type User struct {
	Name     string `toml:"name"`
	Address  string `toml:"address"`
	Location string `toml:"location"`
}

// Terminal holds presentation and timing knobs.
type Terminal struct {
	Space            string `toml:"space"`
	Prompt           string `toml:"prompt"`
	TimeLayout       string `toml:"time_layout"`
	TypingBufferMS   int    `toml:"typing_buffer_ms"`
	RevealIntervalMS int    `toml:"reveal_interval_ms"`
	WheelThrottleMS  int    `toml:"wheel_throttle_ms"`
	MobileWidth      int    `toml:"mobile_width"`
	Mobile           *bool  `toml:"mobile"`
	UserAgent        string `toml:"user_agent"`
	RecallEmpty      string `toml:"recall_empty"`
	Highlight        bool   `toml:"highlight"`
	HighlightStyle   string `toml:"highlight_style"`
}

type History struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

// MenuItem is one entry rendered by the menu built-in. Type is "action" or "link".
type MenuItem struct {
	Type   string `toml:"type"`
	Title  string `toml:"title"`
	Action string `toml:"action"`
	Link   string `toml:"link"`
}

const (
	DefaultFilesBaseURL      = "https://raw.githubusercontent.com/rtrevinnoc/rtrevinnoc.github.io/master/files/"
	DefaultFilesDirectoryURL = "https://api.github.com/repos/rtrevinnoc/rtrevinnoc.github.io/contents/files/"
	DefaultSocketURL         = "ws://127.0.0.1:8765/socket"
	DefaultWelcome           = `<span class="text-comment">// type "help" or click a file to get started` + "\n\n" + `</span>`
)

// DefaultMenu is used when no [[menu]] entries are configured.
var DefaultMenu = []MenuItem{
	{Type: "action", Title: "about", Action: "cat about"},
	{Type: "action", Title: "projects", Action: "cat projects"},
	{Type: "action", Title: "help", Action: "help"},
}

func Default() Config {
	return Config{
		Variant: VariantStatic,
		Files: Files{
			BaseURL:        DefaultFilesBaseURL,
			DirectoryURL:   DefaultFilesDirectoryURL,
			TimeoutSeconds: 10,
		},
		Socket: Socket{URL: DefaultSocketURL},
		Terminal: Terminal{
			Space:            "&nbsp;",
			Prompt:           "$ ",
			TimeLayout:       "15:04:05",
			TypingBufferMS:   500,
			RevealIntervalMS: 8,
			WheelThrottleMS:  30,
			MobileWidth:      60,
			RecallEmpty:      RecallKeep,
		},
		History: History{Backend: "jsonl"},
	}
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".webterm", "config.toml")
}

// DefaultHistoryPath 返回历史记录的默认位置，与配置文件同目录。
func DefaultHistoryPath(backend string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	name := "history.jsonl"
	if backend == "sqlite" {
		name = "history.db"
	}
	return filepath.Join(home, ".webterm", name)
}

func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, errors.New("config path is empty and $HOME is not set")
	}
	cfg.Source = path

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return cfg, err
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if env := strings.TrimSpace(os.Getenv("WEBTERM_VARIANT")); env != "" {
		cfg.Variant = env
	}
	if env := strings.TrimSpace(os.Getenv("WEBTERM_SOCKET_URL")); env != "" {
		cfg.Socket.URL = env
	}
	if env := strings.TrimSpace(os.Getenv("WEBTERM_FILES_URL")); env != "" {
		cfg.Files.BaseURL = env
	}
	if env := strings.TrimSpace(os.Getenv("WEBTERM_DIRECTIVE")); env != "" {
		cfg.Directive = env
	}
	if env := strings.TrimSpace(os.Getenv("WEBTERM_USER_AGENT")); env != "" {
		cfg.Terminal.UserAgent = env
	}
}

// IsSocket reports whether responses come from the socket channel.
func (c Config) IsSocket() bool {
	return strings.EqualFold(c.Variant, VariantSocket)
}

// StartupCommands 返回启动命令；未配置时按部署形态取默认值。
func (c Config) StartupCommands() []string {
	if len(c.Startup) > 0 {
		return append([]string(nil), c.Startup...)
	}
	if c.IsSocket() {
		return []string{"menu"}
	}
	return []string{"ls", "cat about"}
}

// MenuItems returns the configured menu or DefaultMenu.
func (c Config) MenuItems() []MenuItem {
	if len(c.Menu) > 0 {
		return c.Menu
	}
	return DefaultMenu
}

// UnknownPolicy 未配置时 socket 形态转发未知命令，静态形态忽略。
func (c Config) UnknownPolicy() string {
	if c.Unknown != "" {
		return c.Unknown
	}
	if c.IsSocket() {
		return UnknownRemote
	}
	return UnknownIgnore
}

// WelcomeMarkup 返回欢迎语；未配置时静态形态使用默认欢迎语，socket 形态为空。
func (c Config) WelcomeMarkup() string {
	if c.Welcome != "" {
		return c.Welcome
	}
	if c.IsSocket() {
		return ""
	}
	return DefaultWelcome
}

// EchoStartupCommands 未显式配置时，静态形态回显启动命令，socket 形态不回显。
func (c Config) EchoStartupCommands() bool {
	if c.EchoStartup != nil {
		return *c.EchoStartup
	}
	return !c.IsSocket()
}
