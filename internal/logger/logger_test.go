package logger

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestPlainFormatter_EventPrefixAndFieldSkipping(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	cases := []struct {
		name    string
		data    logrus.Fields
		message string
		want    string
	}{
		{
			name: "with event",
			data: logrus.Fields{
				"component": "socket",
				"event":     "response",
				"caller":    "x.go:1",
				"command":   "cat about",
				"bytes":     12,
			},
			message: "received frame",
			want:    "x.go:1 [2025-01-02T03:04:05Z] [INFO] [socket] [event=response] received frame bytes=12 command=cat about\n",
		},
		{
			name: "without event",
			data: logrus.Fields{
				"component": "shell",
				"caller":    "x.go:1",
				"foo":       "bar",
			},
			message: "hello",
			want:    "x.go:1 [2025-01-02T03:04:05Z] [INFO] [shell] hello foo=bar\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entry := &logrus.Entry{
				Logger:  logrus.New(),
				Time:    ts,
				Level:   logrus.InfoLevel,
				Message: tc.message,
				Data:    tc.data,
			}
			out, err := (PlainFormatter{}).Format(entry)
			if err != nil {
				t.Fatalf("Format() error: %v", err)
			}
			got := string(out)
			if got != tc.want {
				t.Fatalf("unexpected format:\nwant: %q\ngot:  %q", tc.want, got)
			}
			if _, ok := tc.data["event"]; ok {
				if strings.Count(got, "event=response") != 1 {
					t.Fatalf("expected event to appear only once in output, got: %q", got)
				}
			}
		})
	}
}

func TestTrafficLoggerWritesEventField(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(PlainFormatter{})

	tl := NewTrafficLogger(logrus.NewEntry(l).WithField("component", "socket"))
	tl.Sent("command", "cat\nabout")

	got := buf.String()
	if !strings.Contains(got, "[event=command]") {
		t.Fatalf("missing event prefix: %q", got)
	}
	if !strings.Contains(got, `-> cat\nabout`) {
		t.Fatalf("payload should be sanitized: %q", got)
	}
}

func TestSetLevelRejectsUnknown(t *testing.T) {
	if err := SetLevel("verbose-ish"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if err := SetLevel(""); err != nil {
		t.Fatalf("empty level should be ignored: %v", err)
	}
}
