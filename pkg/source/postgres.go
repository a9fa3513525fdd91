package source

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrymomot/storekit/pkg/catalog"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresConfig represents the configuration for the Postgres product backend.
type PostgresConfig struct {
	ConnectionString  string        `env:"PG_CONN_URL,required"`                   // ConnectionString is the connection string to the database.
	MaxOpenConns      int32         `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`      // MaxOpenConns is the maximum number of open connections to the database.
	MaxIdleConns      int32         `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`       // MaxIdleConns is the maximum number of idle connections to the database.
	HealthCheckPeriod time.Duration `env:"PG_HEALTHCHECK_PERIOD" envDefault:"1m"`  // HealthCheckPeriod is the period between health checks.
	MaxConnIdleTime   time.Duration `env:"PG_MAX_CONN_IDLE_TIME" envDefault:"10m"` // MaxConnIdleTime is the maximum amount of time a connection may be idle to be reused.
	MaxConnLifetime   time.Duration `env:"PG_MAX_CONN_LIFETIME" envDefault:"30m"`  // MaxConnLifetime is the maximum amount of time a connection may be reused.

	RetryAttempts int           `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`  // RetryAttempts is the number of retry attempts to connect to the database.
	RetryInterval time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"5s"` // RetryInterval is the interval between retry attempts. It should be in the format "5s" for 5 seconds.

	MigrationsTable string `env:"PG_MIGRATIONS_TABLE" envDefault:"storekit_schema_migrations"` // MigrationsTable is the name of the table used to store the migration version.
}

// ConnectPostgres establishes a PostgreSQL connection pool with retry logic.
// Uses a growing backoff to ride out transient network issues without
// hammering the database.
func ConnectPostgres(ctx context.Context, cfg PostgresConfig) (*pgxpool.Pool, error) {
	connConfig, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseDBConfig, err)
	}
	connConfig.MaxConns = cfg.MaxOpenConns
	connConfig.MinConns = cfg.MaxIdleConns
	connConfig.HealthCheckPeriod = cfg.HealthCheckPeriod
	connConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	connConfig.MaxConnLifetime = cfg.MaxConnLifetime

	// Attempt 1 waits RetryInterval, attempt 2 waits 2x, attempt 3 waits 3x.
	for i := range cfg.RetryAttempts {
		conn, err := pgxpool.NewWithConfig(ctx, connConfig)
		if err != nil {
			time.Sleep(time.Duration(i+1) * cfg.RetryInterval)
			continue
		}

		// An actual ping catches authentication and permission issues that
		// pool construction alone does not.
		if err := conn.Ping(ctx); err != nil {
			conn.Close()
			time.Sleep(time.Duration(i+1) * cfg.RetryInterval)
			continue
		}

		return conn, nil
	}

	return nil, ErrFailedToOpenDBConnection
}

// migrateLogger is the logging surface migrations need. Satisfied by *slog.Logger.
type migrateLogger interface {
	InfoContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// MigratePostgres applies the embedded schema migrations using goose.
// Goose works against database/sql, so the pgx pool is bridged through the
// stdlib adapter; the bridge shares the pool's connections.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool, cfg PostgresConfig, log migrateLogger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			log.ErrorContext(ctx, "Failed to close migration db handle", "error", err)
		}
	}(db)

	// Route goose output through the application logger instead of stdout.
	goose.SetLogger(gooseSlogAdapter{log: log})
	goose.SetTableName(cfg.MigrationsTable)
	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}
	return nil
}

// gooseSlogAdapter bridges goose's Printf-style logging to structured logging.
type gooseSlogAdapter struct {
	log migrateLogger
}

func (a gooseSlogAdapter) Fatalf(format string, v ...any) {
	a.log.ErrorContext(context.Background(), fmt.Sprintf(format, v...))
}

func (a gooseSlogAdapter) Printf(format string, v ...any) {
	a.log.InfoContext(context.Background(), fmt.Sprintf(format, v...))
}

// PostgresSource serves products stored as JSONB documents in the
// storekit_products table.
type PostgresSource struct {
	pool   *pgxpool.Pool
	closed bool
	mu     sync.RWMutex
}

// NewPostgresSource wraps an established connection pool. The source takes
// ownership of the pool: Close closes it.
func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

// Product fetches and decodes the product document stored under the handle.
func (s *PostgresSource) Product(ctx context.Context, handle string) (*catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrSourceClosed
	}

	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT document FROM storekit_products WHERE handle = $1`, handle,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrProductNotFound, handle)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch product %q: %w", handle, err)
	}

	var p catalog.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode product %q: %w", handle, err)
	}
	return &p, nil
}

// SetProduct validates the product and upserts its document.
func (s *PostgresSource) SetProduct(ctx context.Context, p *catalog.Product) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrSourceClosed
	}
	if err := catalog.Validate(p); err != nil {
		return err
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode product %q: %w", p.Handle, err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO storekit_products (handle, document, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (handle) DO UPDATE SET document = EXCLUDED.document, updated_at = now()`,
		p.Handle, data,
	)
	if err != nil {
		return fmt.Errorf("store product %q: %w", p.Handle, err)
	}
	return nil
}

// RemoveProduct deletes the product row.
func (s *PostgresSource) RemoveProduct(ctx context.Context, handle string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrSourceClosed
	}

	tag, err := s.pool.Exec(ctx, `DELETE FROM storekit_products WHERE handle = $1`, handle)
	if err != nil {
		return fmt.Errorf("remove product %q: %w", handle, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %q", ErrProductNotFound, handle)
	}
	return nil
}

// Close closes the underlying pool. Safe to call multiple times.
func (s *PostgresSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.pool.Close()
	return nil
}
