// Package tasktrack parses tracker flags and runs the interactive menu.
package tasktrack

import (
	"context"
	"flag"
	"fmt"
	"io"

	entrypoint "github.com/louisbranch/tasktrack/internal/platform/cmd"
	"github.com/louisbranch/tasktrack/internal/platform/logging"
	"github.com/louisbranch/tasktrack/internal/tracker/app"
	"github.com/louisbranch/tasktrack/internal/tracker/menu"
	"github.com/louisbranch/tasktrack/internal/tracker/storage/sqlite"
)

const (
	defaultDBPath    = "dbtest3.db"
	defaultLogLevel  = "info"
	defaultLogFormat = "console"
	defaultLocale    = "en-US"
)

// Config holds tracker command configuration.
type Config struct {
	DBPath      string `env:"TASKTRACK_DB_PATH" envDefault:"dbtest3.db"`
	ForeignKeys bool   `env:"TASKTRACK_FOREIGN_KEYS" envDefault:"false"`
	LogLevel    string `env:"TASKTRACK_LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"TASKTRACK_LOG_FORMAT" envDefault:"console"`
	Locale      string `env:"TASKTRACK_LOCALE" envDefault:"en-US"`
}

// ParseConfig parses environment and flags into Config. Flags win over
// the environment.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	fs.StringVar(&cfg.DBPath, "db", defaultDBPath, "SQLite database file")
	fs.BoolVar(&cfg.ForeignKeys, "foreign-keys", false, "Enforce the tasks to projects foreign key")
	fs.StringVar(&cfg.LogLevel, "log-level", defaultLogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", defaultLogFormat, "Log format (console, json)")
	fs.StringVar(&cfg.Locale, "locale", defaultLocale, "Menu language (en-US, pt-BR)")
	if err := entrypoint.ParseConfigFromArgs(&cfg, fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run opens the database and drives the menu over in and out until the
// operator exits. Logs go to errOut.
func Run(ctx context.Context, cfg Config, in io.Reader, out, errOut io.Writer) error {
	logger, err := logging.New(logging.Options{
		Service: entrypoint.ServiceTaskTrack,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Writer:  errOut,
	})
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}

	ctx = logger.WithContext(ctx)
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceTaskTrack, func(ctx context.Context) error {
		store, err := sqlite.Open(cfg.DBPath, sqlite.WithForeignKeys(cfg.ForeignKeys))
		if err != nil {
			logger.Error().Err(err).Str("path", cfg.DBPath).Msg("cannot create the database connection")
			return fmt.Errorf("open database: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Error().Err(err).Msg("failed to close database")
			}
		}()
		logger.Debug().Str("path", cfg.DBPath).Bool("foreign_keys", cfg.ForeignKeys).Msg("database open")

		svc := app.NewService(store, logger)
		loop := menu.New(svc, menu.Options{In: in, Out: out, Locale: cfg.Locale})
		if err := loop.Run(ctx); err != nil {
			logger.Error().Err(err).Msg("menu stopped")
			return err
		}
		return nil
	})
}
