package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"hourkeep/internal/db"
	"hourkeep/internal/metrics"
	"hourkeep/internal/store"
	"hourkeep/pkg/types"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

func loadConfig(prefix string) (*types.Config, error) {
	c := new(types.Config)
	if err := envconfig.Process(prefix, c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	switch db.Dialect(c.DatabaseDriver) {
	case db.SQLite, "":
		if c.SQLitePath == "" {
			c.SQLitePath = "hourkeep.db"
		}
	case db.Postgres:
		if c.DatabaseURL == "" {
			return nil, fmt.Errorf("set DATABASE_URL when DATABASE_DRIVER is postgres")
		}
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}

	if c.ServerPort == 0 {
		c.ServerPort = 8080
	}

	if c.ReadTimeoutSec == 0 {
		c.ReadTimeoutSec = 10
	}

	if c.WriteTimeoutSec == 0 {
		c.WriteTimeoutSec = 15
	}

	if c.AutosaveTimeoutSec == 0 {
		c.AutosaveTimeoutSec = 5
	}

	return c, nil
}

// newLogger builds the process logger. JSON output is for serve; the
// interactive commands keep the text formatter.
func newLogger(config *types.Config, jsonFormat bool) (*logrus.Logger, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(config.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", config.LogLevel, err)
	}
	logger.SetLevel(level)

	if jsonFormat {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	if config.LogFile != "" {
		logger.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   config.LogFile,
			MaxSize:    config.LogMaxSizeMB,
			MaxBackups: config.LogMaxBackups,
			Compress:   true,
		}))
	}

	logger.AddHook(metrics.LogHook{})

	return logger, nil
}

// setup loads config, builds the logger and opens the migrated database
// every command works against.
func setup(ctx context.Context, cCtx *cli.Context, jsonLogs bool) (*types.Config, *logrus.Logger, *db.Database, error) {
	config, err := loadConfig(cCtx.String("env-prefix"))
	if err != nil {
		return nil, nil, nil, err
	}

	logger, err := newLogger(config, jsonLogs)
	if err != nil {
		return nil, nil, nil, err
	}

	database, err := db.Open(ctx, config)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := store.Migrate(ctx, database); err != nil {
		database.Close()
		return nil, nil, nil, err
	}

	logger.WithField("driver", database.Dialect).Debug("connected to database")
	return config, logger, database, nil
}
