package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/oav/pkg/dataaccess/monitoring"
	"github.com/Jacobbrewer1/oav/pkg/entities"
	"github.com/Jacobbrewer1/oav/pkg/logging"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

const schedulePostgresDalName = "schedule_postgres_dal"

// pgUniqueViolation is the SQLSTATE for a unique constraint violation.
const pgUniqueViolation = "23505"

const createScheduledEventsTable = `
CREATE TABLE IF NOT EXISTS scheduled_events (
    event_id TEXT PRIMARY KEY,
    date TEXT,
    dep_airport TEXT,
    arr_airport TEXT,
    dep_time TEXT,
    flight_time TEXT,
    operator TEXT,
    flight_no TEXT,
    aircraft TEXT,
    server TEXT
)`

type schedulePostgresDal struct {
	// l is the logger.
	l *slog.Logger

	// pool is the connection pool.
	pool *pgxpool.Pool
}

// NewSchedulePostgresDal creates a new schedule data access layer backed by Postgres.
func NewSchedulePostgresDal(l *slog.Logger, pool *pgxpool.Pool) ScheduleDal {
	l = l.With(slog.String(logging.KeyDal, schedulePostgresDalName))

	if pool == nil {
		l.Warn("Postgres pool is nil, this can cause a panic. Proceeding...")
	}

	return &schedulePostgresDal{
		l:    l,
		pool: pool,
	}
}

func (d *schedulePostgresDal) observe(query string) func() {
	monitoring.PostgresTotalRequests.WithLabelValues(schedulePostgresDalName, query, scheduledEventsTable).Inc()
	t := prometheus.NewTimer(monitoring.PostgresLatency.WithLabelValues(schedulePostgresDalName, query, scheduledEventsTable))
	return func() { t.ObserveDuration() }
}

func (d *schedulePostgresDal) Migrate(ctx context.Context) error {
	defer d.observe("migrate")()

	if _, err := d.pool.Exec(ctx, createScheduledEventsTable); err != nil {
		return fmt.Errorf("error creating scheduled_events table: %w", err)
	}
	return nil
}

func (d *schedulePostgresDal) InsertEvent(ctx context.Context, event *entities.EventRecord) error {
	defer d.observe("insert_event")()

	const q = `INSERT INTO scheduled_events
    (event_id, date, dep_airport, arr_airport, dep_time, flight_time, operator, flight_no, aircraft, server)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := d.pool.Exec(ctx, q,
		event.ID,
		event.Date,
		event.DepAirport,
		event.ArrAirport,
		event.DepTime,
		event.FlightTime,
		event.Operator,
		event.FlightNo,
		event.Aircraft,
		event.Server,
	)
	if err != nil {
		return translatePostgresError(event.ID, err)
	}
	return nil
}

func (d *schedulePostgresDal) GetEvent(ctx context.Context, id string) (*entities.EventRecord, error) {
	defer d.observe("get_event")()

	const q = `SELECT event_id, date, dep_airport, arr_airport, dep_time, flight_time, operator, flight_no, aircraft, server
FROM scheduled_events WHERE event_id = $1`

	e := new(entities.EventRecord)
	err := d.pool.QueryRow(ctx, q, id).Scan(
		&e.ID,
		&e.Date,
		&e.DepAirport,
		&e.ArrAirport,
		&e.DepTime,
		&e.FlightTime,
		&e.Operator,
		&e.FlightNo,
		&e.Aircraft,
		&e.Server,
	)
	if err != nil {
		return nil, translatePostgresError(id, err)
	}
	return e, nil
}

func (d *schedulePostgresDal) Ping(ctx context.Context) error {
	defer d.observe("ping")()

	if err := d.pool.Ping(ctx); err != nil {
		return fmt.Errorf("error pinging postgres: %w", err)
	}
	return nil
}

// translatePostgresError maps driver errors onto the package errors.
func translatePostgresError(id string, err error) error {
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation:
		return fmt.Errorf("%w: event %s", ErrDuplicateKey, id)
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("%w: event %s", ErrNotFound, id)
	default:
		return fmt.Errorf("error querying event %s: %w", id, err)
	}
}
