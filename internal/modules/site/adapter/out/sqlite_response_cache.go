package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteResponseCache struct {
	db *sql.DB
}

func NewSQLiteResponseCache(dbPath string) (*SQLiteResponseCache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	cache := &SQLiteResponseCache{db: db}
	if err := cache.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return cache, nil
}

func (c *SQLiteResponseCache) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS http_cache (
  url TEXT PRIMARY KEY,
  etag TEXT,
  body BLOB NOT NULL,
  fetched_at TEXT NOT NULL
);
`
	if _, err := c.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create http_cache table: %w", err)
	}
	return nil
}

func (c *SQLiteResponseCache) Get(ctx context.Context, url string) (string, []byte, bool, error) {
	var etag sql.NullString
	var body []byte
	err := c.db.QueryRowContext(ctx, `SELECT etag, body FROM http_cache WHERE url = ?`, url).Scan(&etag, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil, false, nil
	}
	if err != nil {
		return "", nil, false, fmt.Errorf("query http cache: %w", err)
	}
	return etag.String, body, true, nil
}

func (c *SQLiteResponseCache) Put(ctx context.Context, url, etag string, body []byte) error {
	const stmt = `
INSERT INTO http_cache (url, etag, body, fetched_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(url) DO UPDATE SET
  etag=excluded.etag,
  body=excluded.body,
  fetched_at=excluded.fetched_at;
`
	if _, err := c.db.ExecContext(ctx, stmt, url, etag, body, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("store http cache: %w", err)
	}
	return nil
}

func (c *SQLiteResponseCache) Close() error {
	return c.db.Close()
}
