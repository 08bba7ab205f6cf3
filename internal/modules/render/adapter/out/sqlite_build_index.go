package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"suerga/internal/modules/render/domain"

	_ "modernc.org/sqlite"
)

type SQLiteBuildIndex struct {
	db *sql.DB
}

func NewSQLiteBuildIndex(dbPath string) (*SQLiteBuildIndex, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	index := &SQLiteBuildIndex{db: db}
	if err := index.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return index, nil
}

func (s *SQLiteBuildIndex) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS build_outputs (
  path TEXT PRIMARY KEY,
  source TEXT NOT NULL,
  kind TEXT NOT NULL,
  sha256 TEXT NOT NULL,
  size INTEGER NOT NULL,
  build_id TEXT NOT NULL,
  built_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS builds (
  id TEXT PRIMARY KEY,
  started_at TEXT NOT NULL,
  files INTEGER NOT NULL,
  changed INTEGER NOT NULL,
  unchanged INTEGER NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create build index tables: %w", err)
	}
	return nil
}

func (s *SQLiteBuildIndex) Digests(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path, sha256 FROM build_outputs`)
	if err != nil {
		return nil, fmt.Errorf("query build outputs: %w", err)
	}
	defer func() { _ = rows.Close() }()
	out := map[string]string{}
	for rows.Next() {
		var path, digest string
		if err := rows.Scan(&path, &digest); err != nil {
			return nil, fmt.Errorf("scan build output: %w", err)
		}
		out[path] = digest
	}
	return out, rows.Err()
}

// Record replaces the indexed outputs with the given build and appends it to the history.
func (s *SQLiteBuildIndex) Record(ctx context.Context, build domain.Build) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin build index tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM build_outputs`); err != nil {
		return fmt.Errorf("reset build outputs: %w", err)
	}
	const stmt = `
INSERT INTO build_outputs (path, source, kind, sha256, size, build_id, built_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(path) DO UPDATE SET
  source=excluded.source,
  kind=excluded.kind,
  sha256=excluded.sha256,
  size=excluded.size,
  build_id=excluded.build_id,
  built_at=excluded.built_at;
`
	builtAt := build.StartedAt.UTC().Format(time.RFC3339)
	for _, out := range build.Outputs {
		if _, err := tx.ExecContext(ctx, stmt, out.Path, out.Source, string(out.Kind), out.SHA256, out.Size, build.ID, builtAt); err != nil {
			return fmt.Errorf("upsert build output %s: %w", out.Path, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO builds (id, started_at, files, changed, unchanged) VALUES (?, ?, ?, ?, ?)`,
		build.ID, builtAt, len(build.Outputs), len(build.Changed), build.Unchanged,
	); err != nil {
		return fmt.Errorf("insert build: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit build index: %w", err)
	}
	return nil
}

func (s *SQLiteBuildIndex) Entries(ctx context.Context) ([]domain.IndexEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path, source, kind, sha256, size, build_id, built_at FROM build_outputs ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("query build outputs: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []domain.IndexEntry
	for rows.Next() {
		var entry domain.IndexEntry
		var kind, builtAt string
		if err := rows.Scan(&entry.Path, &entry.Source, &kind, &entry.SHA256, &entry.Size, &entry.BuildID, &builtAt); err != nil {
			return nil, fmt.Errorf("scan build output: %w", err)
		}
		entry.Kind = domain.Kind(kind)
		parsed, err := time.Parse(time.RFC3339, builtAt)
		if err != nil {
			return nil, fmt.Errorf("parse built_at: %w", err)
		}
		entry.BuiltAt = parsed
		out = append(out, entry)
	}
	return out, rows.Err()
}

func (s *SQLiteBuildIndex) Close() error {
	return s.db.Close()
}
