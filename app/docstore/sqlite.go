package docstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mucahitkurt/rahle/app/common"
)

// schemaVersion is compared against PRAGMA user_version on every open.
// Bump it whenever a migration is appended below.
const schemaVersion = 2

// migrations[i] moves the schema from version i to i+1. Applied pending
// steps are guarded by the stored version, not by probing for tables, so
// repeated and concurrent opens never re-create schema objects.
var migrations = []string{
	`
	CREATE TABLE quran_chapters (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		verse_count INTEGER NOT NULL,
		verses BLOB NOT NULL
	);
	CREATE TABLE hadiths (
		hadith_number TEXT PRIMARY KEY,
		seq INTEGER NOT NULL,
		page_index INTEGER NOT NULL,
		text_folded TEXT NOT NULL,
		doc BLOB NOT NULL
	);
	CREATE INDEX idx_hadiths_page ON hadiths(page_index);
	CREATE INDEX idx_hadiths_seq ON hadiths(seq);
	`,
	`
	CREATE TABLE dhikr_counters (
		name TEXT PRIMARY KEY,
		count INTEGER NOT NULL DEFAULT 0,
		target INTEGER NOT NULL DEFAULT 33,
		updated_at TEXT
	);
	`,
}

// Store is the single durable handle shared by all repositories. Writes to
// the same file are serialized by SQLite; no extra locking is added here.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if absent) rahle.db under dataDir and brings the
// schema up to date. Safe to call repeatedly; a second open against the same
// file yields an equivalent handle. Failures wrap ErrStorageUnavailable.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating data dir: %v", common.ErrStorageUnavailable, err)
	}
	dbPath := filepath.Join(dataDir, "rahle.db")
	slog.Info("opening SQLite DB", "dbPath", dbPath)

	db, err := sql.Open(SQLiteDriverName, sqliteDSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}
	return s, nil
}

// DB exposes the underlying handle for repository constructors.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	ctx := context.Background()

	var current int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if current >= schemaVersion {
		return nil
	}

	// Pin one connection so the explicit BEGIN/COMMIT pairs below stay on it.
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquiring migration connection: %w", err)
	}
	defer conn.Close()

	for v := current; v < schemaVersion; v++ {
		applied, err := applyMigration(ctx, conn, v)
		if err != nil {
			return err
		}
		if applied {
			slog.Info("applied schema migration", "version", v+1)
		}
	}
	return nil
}

// applyMigration takes the write lock up front, then re-reads the stored
// version under it: a racing open may have applied this step between our
// unlocked version read and here, in which case the step is skipped instead
// of failing on duplicate schema objects.
func applyMigration(ctx context.Context, conn *sql.Conn, v int) (bool, error) {
	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return false, fmt.Errorf("locking for migration %d: %w", v+1, err)
	}
	rollback := func() { conn.ExecContext(ctx, "ROLLBACK") }

	var current int
	if err := conn.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		rollback()
		return false, fmt.Errorf("re-reading schema version: %w", err)
	}
	if current > v {
		rollback()
		return false, nil
	}

	if _, err := conn.ExecContext(ctx, migrations[v]); err != nil {
		rollback()
		return false, fmt.Errorf("applying migration %d: %w", v+1, err)
	}
	if _, err := conn.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
		rollback()
		return false, fmt.Errorf("recording migration %d: %w", v+1, err)
	}
	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return false, fmt.Errorf("committing migration %d: %w", v+1, err)
	}
	return true, nil
}
