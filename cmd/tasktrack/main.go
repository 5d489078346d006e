// Package main starts the interactive task tracker.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	tasktrackcmd "github.com/louisbranch/tasktrack/internal/cmd/tasktrack"
	"github.com/louisbranch/tasktrack/internal/platform/config"
)

func main() {
	cfg, err := tasktrackcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := tasktrackcmd.Run(ctx, cfg, os.Stdin, os.Stdout, os.Stderr); err != nil {
		stop()
		config.Exitf("tasktrack: %v", err)
	}
}
