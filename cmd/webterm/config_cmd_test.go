package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"webterm/internal/config"
)

func TestRunConfigPrintsEffectiveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	var out bytes.Buffer
	root := rootArgs{overrides: []string{"variant=socket"}}
	if err := runConfig(root, []string{"-config", path, "-c", "directive=About"}, &out); err != nil {
		t.Fatalf("runConfig: %v", err)
	}
	got := out.String()
	if !strings.HasPrefix(got, "# webterm config") {
		t.Fatalf("missing header: %q", got)
	}
	for _, want := range []string{"variant = 'socket'", "directive = 'About'"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRunConfigWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	var out bytes.Buffer
	if err := runConfig(rootArgs{}, []string{"-config", path, "-c", "terminal.prompt=> ", "-write"}, &out); err != nil {
		t.Fatalf("runConfig: %v", err)
	}
	if !strings.Contains(out.String(), path) {
		t.Fatalf("output = %q", out.String())
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Terminal.Prompt != ">" {
		t.Fatalf("prompt = %q", cfg.Terminal.Prompt)
	}
}
