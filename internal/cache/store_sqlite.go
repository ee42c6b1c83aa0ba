package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/consensus-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL
// mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS classifier_cache (
	key        TEXT PRIMARY KEY,
	result     TEXT NOT NULL,
	version    TEXT NOT NULL,
	category   TEXT NOT NULL DEFAULT '',
	times_used INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	last_used  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_classifier_cache_version ON classifier_cache(version);
CREATE INDEX IF NOT EXISTS idx_classifier_cache_category ON classifier_cache(category);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (*Entry, error) {
	// The increment is a single UPDATE, so concurrent hits serialize in
	// the database and never lose counts.
	res, err := s.db.ExecContext(ctx,
		`UPDATE classifier_cache SET times_used = times_used + 1, last_used = ? WHERE key = ?`,
		time.Now().UTC(), key,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: touch cache entry")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return nil, nil
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT key, result, version, category, times_used, created_at, last_used FROM classifier_cache WHERE key = ?`,
		key,
	)
	return scanSQLiteEntry(row)
}

func (s *SQLiteStore) Put(ctx context.Context, e *Entry) error {
	resultJSON, err := json.Marshal(e.Result)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal result")
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

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO classifier_cache (key, result, version, category, times_used, created_at, last_used)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Key, string(resultJSON), e.Version, e.Category, e.TimesUsed, createdAt, lastUsed,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert cache entry")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Wrapf(model.ErrDuplicateKey, "sqlite: key %s", e.Key)
	}
	return nil
}

func (s *SQLiteStore) DeleteByVersion(ctx context.Context, version string) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM classifier_cache WHERE version = ?`, version)
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: delete by version %s", version)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: rows affected")
	}
	return int(n), nil
}

func (s *SQLiteStore) DeleteByCategory(ctx context.Context, category string) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM classifier_cache WHERE category = ?`, category)
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: delete by category %s", category)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: rows affected")
	}
	return int(n), nil
}

func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(times_used), 0) FROM classifier_cache`,
	)
	st := &Stats{}
	if err := row.Scan(&st.Entries, &st.TotalHits); err != nil {
		return nil, eris.Wrap(err, "sqlite: scan stats")
	}
	return st, nil
}

func scanSQLiteEntry(row *sql.Row) (*Entry, error) {
	var e Entry
	var resultJSON string
	if err := row.Scan(&e.Key, &resultJSON, &e.Version, &e.Category, &e.TimesUsed, &e.CreatedAt, &e.LastUsed); err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "sqlite: scan cache entry")
	}
	if err := json.Unmarshal([]byte(resultJSON), &e.Result); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal result")
	}
	return &e, nil
}
