package main

import "flag"

// interactiveArgs captures the flags of the default TUI entrypoint.
type interactiveArgs struct {
	cfgPath         string
	directive       string
	noHistory       bool
	inline          bool
	configOverrides stringSlice
}

func newInteractiveFlagSet(name string) (*flag.FlagSet, *interactiveArgs) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	args := &interactiveArgs{}

	fs.StringVar(&args.cfgPath, "config", "", "Path to config file (default ~/.webterm/config.toml)")
	fs.StringVar(&args.directive, "directive", "", "Menu action title to open on startup")
	fs.BoolVar(&args.noHistory, "no-history", false, "Keep command history in memory only")
	fs.BoolVar(&args.inline, "inline", false, "Render inline instead of using the alternate screen")
	fs.Var(&args.configOverrides, "c", "Override config value key=value (repeatable)")

	return fs, args
}

func (i *interactiveArgs) overrides() []string {
	out := append([]string{}, i.configOverrides...)
	if i.directive != "" {
		out = append(out, "directive="+i.directive)
	}
	return out
}
