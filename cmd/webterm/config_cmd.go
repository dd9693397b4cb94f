package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"webterm/internal/config"
)

func configMain(root rootArgs, args []string) {
	if err := runConfig(root, args, os.Stdout); err != nil {
		log.Fatalf("config failed: %v", err)
	}
}

// runConfig 打印生效的配置（文件 + 环境变量 + -c 覆盖），-write 时写回配置文件。
func runConfig(root rootArgs, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var cfgPath string
	var configOverrides stringSlice
	var write bool
	fs.StringVar(&cfgPath, "config", "", "Path to config file (default ~/.webterm/config.toml)")
	fs.Var(&configOverrides, "c", "Override config value key=value (repeatable)")
	fs.BoolVar(&write, "write", false, "Write the effective config back to the config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(cfgPath, root, configOverrides)
	if err != nil {
		return err
	}
	if write {
		if err := config.Save(cfg.Source, cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		log.WithField("path", cfg.Source).Info("config written")
		fmt.Fprintf(out, "wrote %s\n", cfg.Source)
		return nil
	}
	data, err := config.Encode(cfg)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
