// Package testutil provides helpers for PostgreSQL-backed integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/cory-johannsen/dungeonmap/internal/config"
	"github.com/cory-johannsen/dungeonmap/internal/storage/postgres"
)

const (
	pgImage    = "postgres:16-alpine"
	pgUser     = "test"
	pgPassword = "test"
	pgDatabase = "dungeon_test"
)

// PostgresContainer is a running PostgreSQL container with a connected pool.
type PostgresContainer struct {
	container testcontainers.Container
	Pool      *postgres.Pool
	Config    config.DatabaseConfig
}

func startContainer(ctx context.Context) (*PostgresContainer, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        pgImage,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
				"POSTGRES_DB":       pgDatabase,
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("starting postgres container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("getting container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("getting mapped port: %w", err)
	}

	cfg := config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            pgUser,
		Password:        pgPassword,
		Name:            pgDatabase,
		SSLMode:         "disable",
		MaxConns:        5,
		MinConns:        1,
		MaxConnLifetime: 5 * time.Minute,
	}
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}
	if _, err := pool.Migrate(0, false); err != nil {
		pool.Close()
		_ = container.Terminate(ctx)
		return nil, err
	}
	return &PostgresContainer{container: container, Pool: pool, Config: cfg}, nil
}

// NewPostgresContainer starts a dedicated, migrated PostgreSQL container that
// is terminated when t finishes.
//
// Precondition: Docker must be available.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	start := time.Now()
	pc, err := startContainer(context.Background())
	if err != nil {
		t.Fatalf("%v [%s]", err, time.Since(start))
	}
	t.Logf("postgres container started [%s]", time.Since(start))
	t.Cleanup(func() {
		pc.Pool.Close()
		_ = pc.container.Terminate(context.Background())
	})
	return pc
}

var shared struct {
	once sync.Once
	pc   *PostgresContainer
	err  error
}

// NewPool returns a migrated pool for integration tests. With TEST_DSN set it
// connects there; otherwise every test in the binary shares one container,
// which the testcontainers reaper removes at exit. Without TEST_DSN the test
// is skipped in -short mode.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if dsn := os.Getenv("TEST_DSN"); dsn != "" {
		return poolFromDSN(t, dsn)
	}
	if testing.Short() {
		t.Skip("skipping PostgreSQL integration test in short mode; set TEST_DSN to run")
	}
	shared.once.Do(func() {
		shared.pc, shared.err = startContainer(context.Background())
	})
	if shared.err != nil {
		t.Fatalf("shared postgres container: %v", shared.err)
	}
	return shared.pc.Pool.DB()
}

func poolFromDSN(t *testing.T, dsn string) *pgxpool.Pool {
	t.Helper()
	if _, err := postgres.Migrate(dsn, 0, false); err != nil {
		t.Fatalf("applying migrations: %v", err)
	}
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connecting to TEST_DSN: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}
