package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okian/fantasybakes/internal/domain/model"
)

const (
	schemaSQL = `CREATE TABLE IF NOT EXISTS seasons (
	key        TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	selectSQL = `SELECT data FROM seasons WHERE key = $1`
	upsertSQL = `INSERT INTO seasons (key, data, updated_at) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`
)

// pgPool is the subset of *pgxpool.Pool used by PostgresStore.
type pgPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore keeps each season as a JSONB row keyed by season key.
type PostgresStore struct {
	pool pgPool
	key  string
}

// NewPostgresStore wraps an existing pool.
func NewPostgresStore(pool pgPool, key string) *PostgresStore {
	return &PostgresStore{pool: pool, key: key}
}

// ConnectPostgres opens a pool for dsn and verifies it.
func ConnectPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the seasons table when missing.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("postgres schema: %w", err)
	}
	return nil
}

// Load reads the row for the season key.
func (p *PostgresStore) Load(ctx context.Context) (s *model.Season, err error) {
	defer func(start time.Time) { observe(BackendPostgres, opLoad, start, err) }(time.Now())

	var data []byte
	if err := p.pool.QueryRow(ctx, selectSQL, p.key).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, loadErr(BackendPostgres, fmt.Errorf("%s: %w", p.key, errEmpty))
		}
		return nil, loadErr(BackendPostgres, err)
	}
	s, err = decodeJSON(data)
	if err != nil {
		return nil, loadErr(BackendPostgres, err)
	}
	return s, nil
}

// Save upserts the row for the season key.
func (p *PostgresStore) Save(ctx context.Context, s *model.Season) (err error) {
	defer func(start time.Time) { observe(BackendPostgres, opSave, start, err) }(time.Now())

	data, err := encodeJSON(s)
	if err != nil {
		return saveErr(BackendPostgres, err)
	}
	if _, err := p.pool.Exec(ctx, upsertSQL, p.key, string(data)); err != nil {
		return saveErr(BackendPostgres, err)
	}
	return nil
}

// Close releases the pool.
func (p *PostgresStore) Close() { p.pool.Close() }
