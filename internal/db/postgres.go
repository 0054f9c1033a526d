package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Options configures a single connection pool.
type Options struct {
	URL      string
	Schema   string
	MaxConns int32
}

func Connect(ctx context.Context, opts Options) (*pgxpool.Pool, error) {

	poolConfig, err := pgxpool.ParseConfig(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	if _, ok := poolConfig.ConnConfig.RuntimeParams["search_path"]; !ok && opts.Schema != "" {
		poolConfig.ConnConfig.RuntimeParams["search_path"] = opts.Schema
	}

	if opts.MaxConns > 0 {
		poolConfig.MaxConns = opts.MaxConns
	}
	poolConfig.MaxConnIdleTime = 15 * time.Minute
	poolConfig.MaxConnLifetime = 45 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// Handles are the process-scoped pools for one service. Replica may be the
// same pool as Primary when no read endpoint is configured; its data can lag
// the primary by an unbounded replication delay.
type Handles struct {
	Primary *pgxpool.Pool
	Replica *pgxpool.Pool
}

// ConnectHandles opens the primary pool and, when readURL names a different
// database, a replica pool.
func ConnectHandles(ctx context.Context, primary Options, readURL string) (*Handles, error) {
	p, err := Connect(ctx, primary)
	if err != nil {
		return nil, fmt.Errorf("connect primary: %w", err)
	}

	h := &Handles{Primary: p, Replica: p}
	if readURL == "" || readURL == primary.URL {
		return h, nil
	}

	replica := primary
	replica.URL = readURL
	r, err := Connect(ctx, replica)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("connect replica: %w", err)
	}
	h.Replica = r

	return h, nil
}

func (h *Handles) Close() {
	if h.Replica != nil && h.Replica != h.Primary {
		h.Replica.Close()
	}
	if h.Primary != nil {
		h.Primary.Close()
	}
}
