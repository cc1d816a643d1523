package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Jacobbrewer1/oav/pkg/eventid"
	"github.com/Jacobbrewer1/oav/pkg/logging"
	"github.com/Jacobbrewer1/oav/pkg/scheduling"
	"github.com/Jacobbrewer1/oav/pkg/ticketing"
	"github.com/joho/godotenv"
)

var (
	// ErrMissingConfig is returned when a required environment variable is not set.
	ErrMissingConfig = errors.New("missing required configuration")

	// ErrInvalidConfig is returned when an environment variable has an invalid value.
	ErrInvalidConfig = errors.New("invalid configuration")
)

const (
	defaultSessionFile         = "gate_sessions.json"
	defaultMonitoringPort      = "8080"
	defaultInteractionInterval = 2 * time.Second
	defaultInteractionBurst    = 3
)

// Parse reads the configuration from the environment. A .env file in the working directory is loaded first if there
// is one; variables already set in the environment win.
func Parse(l *slog.Logger) error {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error loading .env file: %w", err)
		}
		l.Debug("No .env file found, using the environment only")
	}

	BotToken = lookup(l, EnvBotToken)
	ApplicationId = lookup(l, EnvApplicationId)
	PostgresUrl = lookup(l, EnvPostgresUrl)
	MongoUri = lookup(l, EnvMongoUri)
	MissingRolePolicy = lookup(l, EnvMissingRolePolicy)

	ScheduleStore = strings.ToLower(lookup(l, EnvScheduleStore))
	if ScheduleStore == "" {
		ScheduleStore = StorePostgres
	}

	SessionFile = lookup(l, EnvSessionFile)
	if SessionFile == "" {
		SessionFile = defaultSessionFile
	}

	MonitoringPort = lookup(l, EnvMonitoringPort)
	if MonitoringPort == "" {
		// Default to 8080 if not provided.
		MonitoringPort = defaultMonitoringPort
		l.Info("No monitoring port provided in environment, defaulting to 8080", slog.String("key", EnvMonitoringPort))
	}

	var err error
	if EventIDMin, err = lookupInt(l, EnvEventIDMin, eventid.DefaultMin); err != nil {
		return err
	}
	if EventIDMax, err = lookupInt(l, EnvEventIDMax, eventid.DefaultMax); err != nil {
		return err
	}
	if EventIDAttempts, err = lookupInt(l, EnvEventIDAttempts, scheduling.DefaultMaxAttempts); err != nil {
		return err
	}
	if InteractionBurst, err = lookupInt(l, EnvInteractionBurst, defaultInteractionBurst); err != nil {
		return err
	}

	seconds, err := lookupInt(l, EnvInteractionRate, int(defaultInteractionInterval/time.Second))
	if err != nil {
		return err
	}
	InteractionInterval = time.Duration(seconds) * time.Second

	return validate()
}

func validate() error {
	if BotToken == "" {
		return fmt.Errorf("%w: %s", ErrMissingConfig, EnvBotToken)
	}

	if ApplicationId == "" {
		return fmt.Errorf("%w: %s", ErrMissingConfig, EnvApplicationId)
	}

	switch ScheduleStore {
	case StorePostgres:
		if PostgresUrl == "" {
			return fmt.Errorf("%w: %s", ErrMissingConfig, EnvPostgresUrl)
		}
	case StoreMongo:
		if MongoUri == "" {
			return fmt.Errorf("%w: %s", ErrMissingConfig, EnvMongoUri)
		}
	default:
		return fmt.Errorf("%w: %s must be %q or %q", ErrInvalidConfig, EnvScheduleStore, StorePostgres, StoreMongo)
	}

	if _, err := eventid.NewGenerator(EventIDMin, EventIDMax); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if EventIDAttempts < 1 {
		return fmt.Errorf("%w: %s must be at least 1", ErrInvalidConfig, EnvEventIDAttempts)
	}

	if _, err := ticketing.ParsePingPolicy(MissingRolePolicy); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, EnvMissingRolePolicy, err)
	}

	if InteractionInterval < 0 || InteractionBurst < 1 {
		return fmt.Errorf("%w: %s and %s must be positive", ErrInvalidConfig, EnvInteractionRate, EnvInteractionBurst)
	}

	return nil
}

func lookup(l *slog.Logger, key string) string {
	v := os.Getenv(key)
	if v != "" {
		l.Debug("Found value in environment", slog.String("key", key))
	}
	return v
}

func lookupInt(l *slog.Logger, key string, fallback int) (int, error) {
	v := lookup(l, key)
	if v == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		l.Error("Invalid number in environment", slog.String("key", key), slog.String(logging.KeyError, err.Error()))
		return 0, fmt.Errorf("%w: %s: %q is not a number", ErrInvalidConfig, key, v)
	}
	return n, nil
}
