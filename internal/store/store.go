// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store caches fetched GNPS annotation tables in a local SQLite
// database so repeated match runs against the same task do not re-download.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/gnpslink/pkg/types"
)

const dbFile = "gnpslink.db"

// ErrTaskNotCached reports a cache miss for a task id.
var ErrTaskNotCached = errors.New("task not in cache")

// Store manages the annotation cache database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the cache database at cacheDir/gnpslink.db and
// creates the schema if it does not exist.
func Open(cfg types.CacheConfig) (*Store, error) {
	cacheDir := cfg.CacheDir
	if cacheDir == "" {
		cacheDir = "cache"
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	dbPath := filepath.Join(cacheDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			task_id TEXT PRIMARY KEY,
			source_url TEXT,
			fetched_at TEXT NOT NULL,
			rows INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS annotations (
			task_id TEXT NOT NULL REFERENCES tasks(task_id) ON DELETE CASCADE,
			cluster_id TEXT NOT NULL,
			mz REAL NOT NULL,
			rt REAL NOT NULL,
			library TEXT,
			link TEXT,
			PRIMARY KEY (task_id, cluster_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_annotations_task_mz ON annotations(task_id, mz)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Put stores an annotation table, replacing any previous rows for the task.
func (s *Store) Put(ctx context.Context, table types.AnnotationTable) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM annotations WHERE task_id = ?`, table.TaskID); err != nil {
		return fmt.Errorf("deleting old annotations: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO tasks (task_id, source_url, fetched_at, rows)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(task_id) DO UPDATE SET
			source_url=excluded.source_url, fetched_at=excluded.fetched_at,
			rows=excluded.rows`,
		table.TaskID, table.SourceURL,
		table.FetchedAt.UTC().Format(time.RFC3339Nano), len(table.Annotations),
	)
	if err != nil {
		return fmt.Errorf("upserting task: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO annotations (task_id, cluster_id, mz, rt, library, link)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, ann := range table.Annotations {
		if _, err := stmt.ExecContext(ctx,
			table.TaskID, ann.ClusterID, ann.MZ, ann.RT, ann.Library, ann.Link,
		); err != nil {
			return fmt.Errorf("inserting cluster %s: %w", ann.ClusterID, err)
		}
	}

	return tx.Commit()
}

// Has reports whether a task's annotations are cached.
func (s *Store) Has(ctx context.Context, taskID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM tasks WHERE task_id = ?`, taskID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking task: %w", err)
	}
	return n > 0, nil
}

// Annotations loads the cached table for a task, annotations ordered by m/z.
func (s *Store) Annotations(ctx context.Context, taskID string) (types.AnnotationTable, error) {
	var table types.AnnotationTable

	var fetchedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT source_url, fetched_at FROM tasks WHERE task_id = ?`, taskID,
	).Scan(&table.SourceURL, &fetchedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return table, fmt.Errorf("%w: %s", ErrTaskNotCached, taskID)
		}
		return table, fmt.Errorf("looking up task: %w", err)
	}
	table.TaskID = taskID
	if t, err := time.Parse(time.RFC3339Nano, fetchedAt); err == nil {
		table.FetchedAt = t
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT cluster_id, mz, rt, library, link
		 FROM annotations WHERE task_id = ? ORDER BY mz`, taskID)
	if err != nil {
		return table, fmt.Errorf("querying annotations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ann types.Annotation
		var library, link sql.NullString
		if err := rows.Scan(&ann.ClusterID, &ann.MZ, &ann.RT, &library, &link); err != nil {
			return table, fmt.Errorf("scanning row: %w", err)
		}
		ann.Library = library.String
		ann.Link = link.String
		table.Annotations = append(table.Annotations, ann)
	}
	return table, rows.Err()
}

// Window returns the cached annotations for a task inside an m/z and rt
// window, ordered by m/z. The range predicate runs in SQL against the
// (task_id, mz) index.
func (s *Store) Window(ctx context.Context, taskID string, mzMin, mzMax, rtMin, rtMax float64) ([]types.Annotation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cluster_id, mz, rt, library, link
		 FROM annotations
		 WHERE task_id = ? AND mz BETWEEN ? AND ? AND rt BETWEEN ? AND ?
		 ORDER BY mz`,
		taskID, mzMin, mzMax, rtMin, rtMax)
	if err != nil {
		return nil, fmt.Errorf("querying window: %w", err)
	}
	defer rows.Close()

	var anns []types.Annotation
	for rows.Next() {
		var ann types.Annotation
		var library, link sql.NullString
		if err := rows.Scan(&ann.ClusterID, &ann.MZ, &ann.RT, &library, &link); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		ann.Library = library.String
		ann.Link = link.String
		anns = append(anns, ann)
	}
	return anns, rows.Err()
}

// TaskInfo describes one cached task.
type TaskInfo struct {
	TaskID    string    `json:"task_id" yaml:"task_id"`
	SourceURL string    `json:"source_url" yaml:"source_url"`
	FetchedAt time.Time `json:"fetched_at" yaml:"fetched_at"`
	Rows      int       `json:"rows" yaml:"rows"`
}

// Tasks lists the cached tasks, most recently fetched first.
func (s *Store) Tasks(ctx context.Context) ([]TaskInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT task_id, source_url, fetched_at, rows FROM tasks ORDER BY fetched_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []TaskInfo
	for rows.Next() {
		var info TaskInfo
		var sourceURL sql.NullString
		var fetchedAt string
		if err := rows.Scan(&info.TaskID, &sourceURL, &fetchedAt, &info.Rows); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		info.SourceURL = sourceURL.String
		if t, err := time.Parse(time.RFC3339Nano, fetchedAt); err == nil {
			info.FetchedAt = t
		}
		tasks = append(tasks, info)
	}
	return tasks, rows.Err()
}

// Delete removes a task and its annotations from the cache.
func (s *Store) Delete(ctx context.Context, taskID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM annotations WHERE task_id = ?`, taskID); err != nil {
		return fmt.Errorf("deleting annotations: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE task_id = ?`, taskID); err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}
