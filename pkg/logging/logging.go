package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	// KeyError is the key used for errors in log attributes.
	KeyError = "err"

	// KeyDal is the key used for the data access layer name.
	KeyDal = "dal"

	// KeyGuildID is the key used for a guild ID.
	KeyGuildID = "guild_id"

	// KeyUserID is the key used for a user ID.
	KeyUserID = "user_id"

	// KeyRunID is the key used to correlate the log lines of a single workflow run.
	KeyRunID = "run_id"

	// EnvLogLevel is the environment variable for the log level.
	EnvLogLevel = `LOG_LEVEL`
)

// Name is the name of the application, used to tag every log line.
type Name string

// Config is the configuration for the logger.
type Config struct {
	// appName is the name of the application.
	appName string

	// level is the minimum level that will be written.
	level slog.Level

	// w is where the logs are written to.
	w io.Writer
}

// NewConfig creates a new logging configuration for the given application.
func NewConfig(appName Name) *Config {
	return &Config{
		appName: string(appName),
		level:   levelFromEnv(),
		w:       os.Stdout,
	}
}

// WithWriter sets the writer for the logger. Mostly useful in tests.
func (c *Config) WithWriter(w io.Writer) *Config {
	c.w = w
	return c
}

// CommonLogger creates the JSON logger that all parts of the application share. The logger is also set as the
// slog default so that package level calls end up in the same place.
func CommonLogger(c *Config) (*slog.Logger, error) {
	if c == nil {
		return nil, fmt.Errorf("logging config is nil")
	} else if c.appName == "" {
		return nil, fmt.Errorf("app name is required")
	}

	w := c.w
	if w == nil {
		w = os.Stdout
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: true,
		Level:     c.level,
	})

	l := slog.New(h).With(slog.String("app", c.appName))
	slog.SetDefault(l)
	return l, nil
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv(EnvLogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
