package main

import (
	"flag"
	"fmt"
	"io"
)

type rootArgs struct {
	overrides []string
	logLevel  string
}

func parseRootArgs(args []string) (rootArgs, []string, error) {
	fs := flag.NewFlagSet("webterm", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var overrides stringSlice
	var variant string
	var logLevel string
	fs.Var(&overrides, "c", "Override config value key=value (repeatable, applied before subcommand overrides)")
	fs.StringVar(&variant, "variant", "", "Shortcut for -c variant=<static|socket>")
	fs.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return rootArgs{}, nil, err
	}

	all := append([]string{}, overrides...)
	if variant != "" {
		all = append(all, fmt.Sprintf("variant=%s", variant))
	}
	return rootArgs{overrides: all, logLevel: logLevel}, fs.Args(), nil
}

func prependOverrides(root []string, overrides []string) []string {
	merged := append([]string{}, root...)
	return append(merged, overrides...)
}
