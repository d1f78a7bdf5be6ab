// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Keeps record values and index rows consistent inside one transaction

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Wait for the write lock instead of failing with SQLITE_BUSY when
	// concurrent writers collide on pooled connections
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS records (
			collection TEXT NOT NULL,
			id         TEXT NOT NULL,
			value      BLOB NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,

			PRIMARY KEY (collection, id)
		);

		CREATE TABLE IF NOT EXISTS record_indexes (
			collection TEXT NOT NULL,
			name       TEXT NOT NULL,
			key        TEXT NOT NULL,
			record_id  TEXT NOT NULL,

			PRIMARY KEY (collection, name, key, record_id),
			FOREIGN KEY (collection, record_id) REFERENCES records(collection, id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_record_indexes_lookup
			ON record_indexes(collection, name, key);

		CREATE INDEX IF NOT EXISTS idx_record_indexes_record
			ON record_indexes(collection, record_id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}

// Get retrieves a record value by primary id. Returns ErrNotFound for absent ids.
func (s *SQLiteStore) Get(ctx context.Context, collection, id string) (json.RawMessage, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM records WHERE collection = ? AND id = ?`,
		collection, id,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying record: %w", err)
	}
	return value, nil
}

// GetAll retrieves every record in a collection. Ordering is unspecified.
func (s *SQLiteStore) GetAll(ctx context.Context, collection string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, value FROM records WHERE collection = ?`,
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// GetByIndex retrieves every record indexed under the given composite key.
// The join reads committed state only: index rows are written and removed in
// the same transaction as the record value, so no stale entry is reachable.
func (s *SQLiteStore) GetByIndex(ctx context.Context, collection string, idx Index) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.value
		FROM record_indexes i
		JOIN records r ON r.collection = i.collection AND r.id = i.record_id
		WHERE i.collection = ? AND i.name = ? AND i.key = ?`,
		collection, string(idx.Name), idx.Value,
	)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Put upserts a record and re-derives its index rows in one transaction.
func (s *SQLiteStore) Put(ctx context.Context, collection, id string, value json.RawMessage, indexes ...Index) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO records (collection, id, value, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		collection, id, []byte(value), now, now,
	)
	if err != nil {
		return fmt.Errorf("upserting record: %w", err)
	}

	// Replace all index memberships; stale rows from a previous value go away here
	_, err = tx.ExecContext(ctx,
		`DELETE FROM record_indexes WHERE collection = ? AND record_id = ?`,
		collection, id,
	)
	if err != nil {
		return fmt.Errorf("clearing index entries: %w", err)
	}

	for _, idx := range indexes {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO record_indexes (collection, name, key, record_id) VALUES (?, ?, ?, ?)`,
			collection, string(idx.Name), idx.Value, id,
		)
		if err != nil {
			return fmt.Errorf("inserting index entry %s: %w", idx.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing put: %w", err)
	}

	s.logger.Debug("stored record", "collection", collection, "id", id, "indexes", len(indexes))
	return nil
}

// Delete removes a record and all its index entries. Absent ids are a no-op.
func (s *SQLiteStore) Delete(ctx context.Context, collection, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM record_indexes WHERE collection = ? AND record_id = ?`,
		collection, id,
	)
	if err != nil {
		return fmt.Errorf("deleting index entries: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM records WHERE collection = ? AND id = ?`,
		collection, id,
	)
	if err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}

	s.logger.Debug("deleted record", "collection", collection, "id", id)
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var r Record
		var value []byte
		if err := rows.Scan(&r.ID, &value); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		r.Value = value
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}
