// Package cachestore owns the cache directory: artifact writes are atomic,
// a sqlite ledger tracks per-stage fingerprints and counters, and a file
// lock keeps concurrent runs off the same cache.
package cachestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"srlprep/internal/config"
	"srlprep/internal/logging"
	"srlprep/internal/stageerr"
)

const (
	ledgerFile = "pipeline.db"
	lockFile   = "srlprep.lock"
)

const ledgerSchema = `
CREATE TABLE IF NOT EXISTS stage_runs (
    stage        TEXT PRIMARY KEY,
    fingerprint  TEXT NOT NULL,
    run_id       TEXT NOT NULL,
    completed_at TEXT NOT NULL,
    row_count    INTEGER NOT NULL DEFAULT 0,
    skipped      INTEGER NOT NULL DEFAULT 0,
    dropped      INTEGER NOT NULL DEFAULT 0
)`

// Counts are the per-stage counters persisted with each ledger entry.
type Counts struct {
	Rows    int
	Skipped int
	Dropped int
}

// Store manages cache artifacts and the stage ledger.
type Store struct {
	cacheDir string
	db       *sql.DB
	lock     *flock.Flock
	logger   *slog.Logger
}

// Open locks the cache directory and connects to the ledger. It fails when
// another srlprep run holds the lock.
func Open(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, stageerr.Wrap(stageerr.ErrCacheWrite, "cache", "ensure directories", cfg.Paths.CacheDir, err)
	}

	lock := flock.New(filepath.Join(cfg.Paths.CacheDir, lockFile))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, stageerr.Wrap(stageerr.ErrCacheWrite, "cache", "acquire lock", lock.Path(), err)
	}
	if !ok {
		return nil, stageerr.Wrap(stageerr.ErrCacheWrite, "cache", "acquire lock",
			"another srlprep run holds the cache lock", nil)
	}

	dbPath := filepath.Join(cfg.Paths.CacheDir, ledgerFile)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, stageerr.Wrap(stageerr.ErrCacheWrite, "cache", "open ledger", dbPath, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, stageerr.Wrap(stageerr.ErrCacheWrite, "cache", "apply pragma", pragma, execErr)
		}
	}

	if _, err := db.Exec(ledgerSchema); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, stageerr.Wrap(stageerr.ErrCacheWrite, "cache", "migrate ledger", dbPath, err)
	}

	return &Store{
		cacheDir: cfg.Paths.CacheDir,
		db:       db,
		lock:     lock,
		logger:   logging.NewComponentLogger(logger, "cache"),
	}, nil
}

// Close releases the ledger connection and the cache lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var firstErr error
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			firstErr = err
		}
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Dir returns the cache directory root.
func (s *Store) Dir() string {
	return s.cacheDir
}

// Path resolves an artifact name inside the cache directory.
func (s *Store) Path(name string) string {
	return filepath.Join(s.cacheDir, name)
}

// Fresh reports whether a stage can be skipped: its ledger fingerprint
// matches and every named output still exists on disk.
func (s *Store) Fresh(ctx context.Context, stage, fingerprint string, outputs []string) (bool, error) {
	var stored string
	row := s.db.QueryRowContext(ctx, "SELECT fingerprint FROM stage_runs WHERE stage = ?", stage)
	if err := row.Scan(&stored); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("query stage %s: %w", stage, err)
	}
	if stored != fingerprint {
		return false, nil
	}
	for _, name := range outputs {
		if _, err := os.Stat(s.Path(name)); err != nil {
			return false, nil
		}
	}
	return true, nil
}

// RecordStage upserts the ledger entry for a completed stage.
func (s *Store) RecordStage(ctx context.Context, stage, fingerprint, runID string, counts Counts) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO stage_runs (stage, fingerprint, run_id, completed_at, row_count, skipped, dropped)
         VALUES (?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(stage) DO UPDATE SET
             fingerprint = excluded.fingerprint,
             run_id = excluded.run_id,
             completed_at = excluded.completed_at,
             row_count = excluded.row_count,
             skipped = excluded.skipped,
             dropped = excluded.dropped`,
		stage, fingerprint, runID,
		time.Now().UTC().Format(time.RFC3339Nano),
		counts.Rows, counts.Skipped, counts.Dropped)
	if err != nil {
		return stageerr.Wrap(stageerr.ErrCacheWrite, "cache", "record stage", stage, err)
	}
	return nil
}

// StageEntry is one ledger row, surfaced by cache status.
type StageEntry struct {
	Stage       string
	Fingerprint string
	RunID       string
	CompletedAt string
	Counts      Counts
}

// Stages returns every ledger entry ordered by stage name.
func (s *Store) Stages(ctx context.Context) ([]StageEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT stage, fingerprint, run_id, completed_at, row_count, skipped, dropped FROM stage_runs ORDER BY stage")
	if err != nil {
		return nil, fmt.Errorf("query stages: %w", err)
	}
	defer rows.Close()

	var entries []StageEntry
	for rows.Next() {
		var entry StageEntry
		if err := rows.Scan(&entry.Stage, &entry.Fingerprint, &entry.RunID, &entry.CompletedAt,
			&entry.Counts.Rows, &entry.Counts.Skipped, &entry.Counts.Dropped); err != nil {
			return nil, fmt.Errorf("scan stage row: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Clear removes every cached artifact and resets the ledger. The lock file
// and the ledger database itself survive so the open store stays valid.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM stage_runs"); err != nil {
		return stageerr.Wrap(stageerr.ErrCacheWrite, "cache", "reset ledger", s.cacheDir, err)
	}

	entries, err := os.ReadDir(s.cacheDir)
	if err != nil {
		return stageerr.Wrap(stageerr.ErrCacheWrite, "cache", "list artifacts", s.cacheDir, err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == lockFile || name == ledgerFile ||
			name == ledgerFile+"-wal" || name == ledgerFile+"-shm" {
			continue
		}
		if err := os.Remove(s.Path(name)); err != nil {
			return stageerr.Wrap(stageerr.ErrCacheWrite, "cache", "remove artifact", name, err)
		}
	}
	s.logger.Info("cleared cache", logging.String("dir", s.cacheDir))
	return nil
}
