package main

import (
	"os"

	"webterm/internal/logger"
)

var log = logger.Named("cli")

func main() {
	logger.Configure()
	if logFile, _, err := logger.SetupFile(logger.DefaultLogPath); err != nil {
		log.Warnf("failed to initialize log file: %v", err)
	} else {
		defer logFile.Close()
	}

	root, rest, err := parseRootArgs(os.Args[1:])
	if err != nil {
		log.Fatalf("parse args: %v", err)
	}
	if len(rest) > 0 {
		switch rest[0] {
		case "exec":
			execMain(root, rest[1:])
			return
		case "serve":
			serveMain(root, rest[1:])
			return
		case "config":
			configMain(root, rest[1:])
			return
		case "completion":
			completionMain(rest[1:])
			return
		}
	}

	runInteractive(root, rest)
}
