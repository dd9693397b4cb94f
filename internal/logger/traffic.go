package logger

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// DefaultTrafficLogPath 记录 socket 收发帧的独立日志文件。
const DefaultTrafficLogPath = "logs/socket.log"

// TrafficLogger 负责输出 socket 通道的收发帧与连接状态。
type TrafficLogger interface {
	Sent(event string, payload string)
	Received(event string, payload string)
	State(state string, err error)
}

// Traffic 是全局唯一的 socket 流量日志器实例。
var Traffic TrafficLogger = NewTrafficLogger(nil)

// SetTrafficLogger 覆盖全局流量日志实例，传入 nil 将重置为默认实现。
func SetTrafficLogger(l TrafficLogger) {
	if l == nil {
		l = NewTrafficLogger(nil)
	}
	Traffic = l
}

// StdTrafficLogger 使用 logrus 输出日志。
type StdTrafficLogger struct {
	logger *logrus.Entry
}

// NewTrafficLogger 构造默认的流量日志记录器；entry 为 nil 时复用全局 logger。
func NewTrafficLogger(entry *LogEntry) *StdTrafficLogger {
	if entry == nil {
		entry = Named("socket")
	}
	return &StdTrafficLogger{logger: entry}
}

// Sent 记录一次发出的帧。
func (l *StdTrafficLogger) Sent(event string, payload string) {
	l.printf(logrus.DebugLevel, event, "-> %s", sanitize(payload))
}

// Received 记录一次收到的帧。
func (l *StdTrafficLogger) Received(event string, payload string) {
	l.printf(logrus.DebugLevel, event, "<- %s", sanitize(payload))
}

// State 记录连接状态变化（connect/disconnect/error）。
func (l *StdTrafficLogger) State(state string, err error) {
	if err != nil {
		l.printf(logrus.WarnLevel, state, "!! %v", err)
		return
	}
	l.printf(logrus.InfoLevel, state, "connection %s", state)
}

// NoopTrafficLogger 忽略所有日志输出。
type NoopTrafficLogger struct{}

func (NoopTrafficLogger) Sent(string, string)     {}
func (NoopTrafficLogger) Received(string, string) {}
func (NoopTrafficLogger) State(string, error)     {}

func (l *StdTrafficLogger) printf(level logrus.Level, event string, format string, args ...any) {
	if l == nil || l.logger == nil {
		return
	}
	if !l.logger.Logger.IsLevelEnabled(level) {
		return
	}
	entry := l.logger
	if event != "" {
		entry = entry.WithField("event", event)
	}
	if caller := findCaller(); caller != "" {
		entry = entry.WithField("caller", caller)
	}
	entry.Log(level, fmt.Sprintf(format, args...))
}

func sanitize(text string) string {
	text = strings.ReplaceAll(text, "\n", `\n`)
	text = strings.ReplaceAll(text, "\r", `\r`)
	return text
}

func findCaller() string {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if frame.File != "" && !strings.Contains(frame.File, "traffic.go") {
			return fmt.Sprintf("%s:%d", shortenFilePath(frame.File), frame.Line)
		}
		if !more {
			break
		}
	}
	return ""
}
