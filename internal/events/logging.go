package events

import (
	"webterm/internal/logger"
)

// DefaultTrafficLogPath 是 socket 收发帧日志的默认路径。
const DefaultTrafficLogPath = logger.DefaultTrafficLogPath

// log 复用全局 logger，标记事件组件。
var log = logger.Named("events")

// OpenTrafficLog 为 socket 流量创建独立的日志文件；失败时退回全局 logger。
func OpenTrafficLog(path string) (logger.TrafficLogger, func() error) {
	if path == "" {
		return logger.NewTrafficLogger(logger.Named("socket")), func() error { return nil }
	}
	entry, closer, _, err := logger.SetupComponentFile("socket", path)
	if err != nil {
		log.Warnf("failed to set up socket log file (%s): %v", path, err)
		return logger.NewTrafficLogger(logger.Named("socket")), func() error { return nil }
	}
	entry.Logger.SetLevel(logger.Root().GetLevel())
	return logger.NewTrafficLogger(entry), closer.Close
}
