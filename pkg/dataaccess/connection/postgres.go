package connection

import (
	"context"
	"fmt"
	"time"

	dbMonitoring "github.com/Jacobbrewer1/oav/pkg/dataaccess/monitoring"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

type Postgres struct {
	ConnectionString string

	// MaxConns is the maximum size of the pool. Zero keeps the pgx default.
	MaxConns int32
}

// Connect opens a connection pool and pings the database. The pool is closed again if the ping fails.
func (p *Postgres) Connect() (*pgxpool.Pool, error) {
	if p.ConnectionString == "" {
		return nil, fmt.Errorf("postgres connection string is empty")
	}

	cfg, err := pgxpool.ParseConfig(p.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("error parsing postgres connection string: %w", err)
	}

	if p.MaxConns > 0 {
		cfg.MaxConns = p.MaxConns
	}
	cfg.MaxConnLifetime = 30 * time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("error connecting to postgres: %w", err)
	}

	t := prometheus.NewTimer(dbMonitoring.PostgresLatency.WithLabelValues("connection", "ping", "-"))
	defer t.ObserveDuration()
	dbMonitoring.PostgresTotalRequests.WithLabelValues("connection", "ping", "-").Inc()

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging postgres: %w", err)
	}
	return pool, nil
}
