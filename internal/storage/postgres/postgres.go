// Package postgres persists dungeon documents in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/dungeonmap/internal/config"
)

// applicationName tags every connection in pg_stat_activity.
const applicationName = "dungeonmap"

// Pool owns the pgx connection pool behind the document store.
type Pool struct {
	db  *pgxpool.Pool
	dsn string
}

// PoolStats is a snapshot of pool usage.
type PoolStats struct {
	Total    int32
	Idle     int32
	Acquired int32
}

func poolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pc.ConnConfig.RuntimeParams["application_name"] = applicationName
	return pc, nil
}

// NewPool connects to the database described by cfg and verifies it answers.
//
// Precondition: cfg passed config validation.
// Postcondition: Returns a ready Pool, or a non-nil error with nothing left open.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	pc, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}
	db, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	p := &Pool{db: db, dsn: cfg.DSN()}
	if err := p.Ping(ctx, 5*time.Second); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return p, nil
}

// Ping checks that the database answers within timeout.
func (p *Pool) Ping(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.db.Ping(ctx)
}

// Stats reports current connection counts.
func (p *Pool) Stats() PoolStats {
	s := p.db.Stat()
	return PoolStats{Total: s.TotalConns(), Idle: s.IdleConns(), Acquired: s.AcquiredConns()}
}

// Migrate applies the embedded schema migrations to this pool's database.
func (p *Pool) Migrate(steps int, down bool) (MigrationResult, error) {
	return Migrate(p.dsn, steps, down)
}

// Documents returns a DocumentRepository on this pool.
func (p *Pool) Documents() *DocumentRepository {
	return NewDocumentRepository(p.db)
}

// DB exposes the pgx pool for repositories and tests.
func (p *Pool) DB() *pgxpool.Pool {
	return p.db
}

// Close releases every connection. The Pool is unusable afterwards.
func (p *Pool) Close() {
	p.db.Close()
}
