package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"webterm/internal/remote"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func execArgs(t *testing.T, extra ...string) []string {
	t.Helper()
	args := []string{"-config", filepath.Join(t.TempDir(), "none.toml"), "-c", "history.backend=memory"}
	return append(args, extra...)
}

func TestRunExecStaticDir(t *testing.T) {
	dir := writeFiles(t, map[string]string{"about": "hello world", "projects": "webterm"})

	var out bytes.Buffer
	args := execArgs(t, "-c", "files.dir="+dir, "ls", "cat about")
	if err := runExec(context.Background(), rootArgs{}, args, nil, &out); err != nil {
		t.Fatalf("runExec: %v", err)
	}
	got := out.String()
	for _, want := range []string{"$ ls", "about", "projects", "$ cat about", "hello world"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Index(got, "$ ls") > strings.Index(got, "$ cat about") {
		t.Fatalf("commands out of order:\n%s", got)
	}
}

func TestRunExecReadsStdin(t *testing.T) {
	dir := writeFiles(t, map[string]string{"about": "from stdin"})

	var out bytes.Buffer
	in := strings.NewReader("cat about\n\n  \n")
	if err := runExec(context.Background(), rootArgs{}, execArgs(t, "-c", "files.dir="+dir), in, &out); err != nil {
		t.Fatalf("runExec: %v", err)
	}
	if !strings.Contains(out.String(), "from stdin") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestRunExecRequiresCommands(t *testing.T) {
	dir := writeFiles(t, map[string]string{"about": "x"})
	err := runExec(context.Background(), rootArgs{}, execArgs(t, "-c", "files.dir="+dir), strings.NewReader(""), &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "no commands") {
		t.Fatalf("expected no commands error, got %v", err)
	}
}

func TestRunExecSocket(t *testing.T) {
	dir := writeFiles(t, map[string]string{"about": "served over the socket"})
	srv := httptest.NewServer(remote.NewServer(&remote.DirFiles{Root: dir}, nil).Handler())
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/socket"

	var out bytes.Buffer
	args := execArgs(t, "-c", "variant=socket", "-c", "socket.url="+url, "-timeout", "5", "cat about", "frobnicate")
	if err := runExec(context.Background(), rootArgs{}, args, nil, &out); err != nil {
		t.Fatalf("runExec: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "served over the socket") {
		t.Fatalf("missing socket response:\n%s", got)
	}
	if !strings.Contains(got, "frobnicate: command not found") {
		t.Fatalf("unknown command should be reported:\n%s", got)
	}
}

func TestReadCommands(t *testing.T) {
	cmds, err := readCommands(strings.NewReader(" ls \n\ncat about\n"))
	if err != nil {
		t.Fatalf("readCommands: %v", err)
	}
	if len(cmds) != 2 || cmds[0] != "ls" || cmds[1] != "cat about" {
		t.Fatalf("cmds = %q", cmds)
	}
	if cmds, _ := readCommands(nil); cmds != nil {
		t.Fatalf("nil reader should yield nothing, got %q", cmds)
	}
}

func TestAddrFromSocketURL(t *testing.T) {
	if got := addrFromSocketURL("ws://0.0.0.0:9000/socket"); got != "0.0.0.0:9000" {
		t.Fatalf("addr = %q", got)
	}
	if got := addrFromSocketURL("::bad"); got != defaultServeAddr {
		t.Fatalf("addr = %q", got)
	}
}
