package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/consensus-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store needs. Kept as an
// interface so tests can substitute pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store using pgxpool, for deployments where
// many workers share one cache.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}

	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS classifier_cache (
	key        TEXT PRIMARY KEY,
	result     JSONB NOT NULL,
	version    TEXT NOT NULL,
	category   TEXT NOT NULL DEFAULT '',
	times_used INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL,
	last_used  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_classifier_cache_version ON classifier_cache(version);
CREATE INDEX IF NOT EXISTS idx_classifier_cache_category ON classifier_cache(category);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (*Entry, error) {
	// Atomic touch-and-read: the increment and the read are one
	// statement, so concurrent hits never lose counts.
	row := s.pool.QueryRow(ctx,
		`UPDATE classifier_cache SET times_used = times_used + 1, last_used = $1 WHERE key = $2
		 RETURNING key, result, version, category, times_used, created_at, last_used`,
		time.Now().UTC(), key,
	)

	var e Entry
	var resultJSON []byte
	err := row.Scan(&e.Key, &resultJSON, &e.Version, &e.Category, &e.TimesUsed, &e.CreatedAt, &e.LastUsed)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "postgres: get cache entry")
	}
	if err := json.Unmarshal(resultJSON, &e.Result); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal result")
	}
	return &e, nil
}

func (s *PostgresStore) Put(ctx context.Context, e *Entry) error {
	resultJSON, err := json.Marshal(e.Result)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal result")
	}

	now := time.Now().UTC()
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	lastUsed := e.LastUsed
	if lastUsed.IsZero() {
		lastUsed = createdAt
	}

	tag, err := s.pool.Exec(ctx,
		`INSERT INTO classifier_cache (key, result, version, category, times_used, created_at, last_used)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (key) DO NOTHING`,
		e.Key, resultJSON, e.Version, e.Category, e.TimesUsed, createdAt, lastUsed,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: insert cache entry")
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(model.ErrDuplicateKey, "postgres: key %s", e.Key)
	}
	return nil
}

func (s *PostgresStore) DeleteByVersion(ctx context.Context, version string) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM classifier_cache WHERE version = $1`, version)
	if err != nil {
		return 0, eris.Wrapf(err, "postgres: delete by version %s", version)
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) DeleteByCategory(ctx context.Context, category string) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM classifier_cache WHERE category = $1`, category)
	if err != nil {
		return 0, eris.Wrapf(err, "postgres: delete by category %s", category)
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) Stats(ctx context.Context) (*Stats, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(times_used), 0) FROM classifier_cache`,
	)
	st := &Stats{}
	if err := row.Scan(&st.Entries, &st.TotalHits); err != nil {
		return nil, eris.Wrap(err, "postgres: scan stats")
	}
	return st, nil
}
