// Package cmd holds the startup plumbing shared by command entry points:
// environment-then-flags configuration and the telemetry lifecycle.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/louisbranch/tasktrack/internal/platform/config"
	"github.com/louisbranch/tasktrack/internal/platform/otel"
	"github.com/louisbranch/tasktrack/internal/platform/timeouts"
)

// ServiceTaskTrack names the interactive tracker in telemetry resources.
const ServiceTaskTrack = "tasktrack"

// RunOptions controls shared entrypoint behavior.
type RunOptions struct {
	// ShutdownTimeout sets the timeout used when stopping telemetry.
	ShutdownTimeout time.Duration
	// Logger receives telemetry lifecycle failures. Zero value discards them.
	Logger zerolog.Logger
}

// ParseConfig loads environment defaults into cfg.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses command-line flags.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// ParseConfigFromArgs loads defaults from env and then parses flags.
func ParseConfigFromArgs[T any](cfg *T, fs *flag.FlagSet, args []string) error {
	if err := ParseConfig(cfg); err != nil {
		return err
	}
	return ParseArgs(fs, args)
}

// RunWithTelemetry configures tracing and executes run. Telemetry failures
// go to the logger attached to ctx, if any.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error) error {
	logger := zerolog.Nop()
	if ctx != nil {
		logger = *zerolog.Ctx(ctx)
	}
	return RunWithTelemetryAndOptions(ctx, service, RunOptions{Logger: logger}, run)
}

// RunWithTelemetryAndOptions configures tracing and executes run, flushing
// spans when run returns.
func RunWithTelemetryAndOptions(ctx context.Context, service string, options RunOptions, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return fmt.Errorf("service name is required")
	}
	if run == nil {
		return fmt.Errorf("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}
	defer func() {
		shutdownTimeout := options.ShutdownTimeout
		if shutdownTimeout <= 0 {
			shutdownTimeout = timeouts.TelemetryShutdown
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			options.Logger.Error().
				Err(err).
				Str("service", service).
				Msg("failed to shut down telemetry")
		}
	}()
	return run(ctx)
}
