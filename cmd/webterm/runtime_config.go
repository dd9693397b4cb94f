package main

import (
	"fmt"
	"strings"

	"webterm/internal/config"
	"webterm/internal/logger"
)

// loadConfig 读取配置文件并按顺序应用根参数与子命令的 -c 覆盖。
func loadConfig(cfgPath string, root rootArgs, overrides []string) (config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg = config.ApplyKVOverrides(cfg, prependOverrides(root.overrides, overrides))

	level := strings.TrimSpace(root.logLevel)
	if level == "" {
		level = cfg.LogLevel
	}
	if err := logger.SetLevel(level); err != nil {
		log.Warnf("ignoring log level: %v", err)
	}
	return cfg, nil
}
