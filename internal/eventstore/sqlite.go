package eventstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store and FingerprintStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

var (
	_ Store            = (*SQLiteStore)(nil)
	_ FingerprintStore = (*SQLiteStore)(nil)
)

// NewSQLiteStore opens the store at dbPath and creates its schema.
// Use ":memory:" for an in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, storeError("could not open event store database", err)
	}
	// A single connection keeps ":memory:" databases shared between calls.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, storeError("failed to initialize event store schema", err)
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		payload BLOB NOT NULL,
		metadata TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_build_id ON events(build_id);
	CREATE INDEX IF NOT EXISTS idx_timestamp ON events(timestamp);
	CREATE TABLE IF NOT EXISTS page_fingerprints (
		slug TEXT PRIMARY KEY,
		fingerprint TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append stores e. A zero timestamp is replaced with the current time.
func (s *SQLiteStore) Append(ctx context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var meta []byte
	if e.Meta != nil {
		var err error
		if meta, err = json.Marshal(e.Meta); err != nil {
			return storeError("failed to marshal event metadata", err)
		}
	}
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	payload := []byte(e.Payload)
	if payload == nil {
		payload = []byte("{}")
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (build_id, event_type, timestamp, payload, metadata) VALUES (?, ?, ?, ?, ?)",
		e.BuildID, e.Type, at.UnixMilli(), payload, meta,
	)
	if err != nil {
		return storeError("failed to append event to store", err)
	}
	return nil
}

// GetByBuildID returns the events of one build.
func (s *SQLiteStore) GetByBuildID(ctx context.Context, buildID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, build_id, event_type, timestamp, payload, metadata FROM events WHERE build_id = ? ORDER BY id",
		buildID,
	)
	if err != nil {
		return nil, storeError("failed to query events from store", err)
	}
	defer func() { _ = rows.Close() }()

	return scanEvents(rows)
}

// GetRange returns events stamped within [start, end].
func (s *SQLiteStore) GetRange(ctx context.Context, start, end time.Time) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, build_id, event_type, timestamp, payload, metadata FROM events WHERE timestamp >= ? AND timestamp <= ? ORDER BY id",
		start.UnixMilli(), end.UnixMilli(),
	)
	if err != nil {
		return nil, storeError("failed to query events from store", err)
	}
	defer func() { _ = rows.Close() }()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]Event, error) {
	var events []Event
	for rows.Next() {
		var (
			e      Event
			millis int64
			meta   []byte
		)
		if err := rows.Scan(&e.Seq, &e.BuildID, &e.Type, &millis, &e.Payload, &meta); err != nil {
			return nil, storeError("failed to scan event rows", err)
		}
		e.At = time.UnixMilli(millis)
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &e.Meta); err != nil {
				return nil, storeError("failed to unmarshal event metadata", err)
			}
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("failed to iterate event rows", err)
	}
	return events, nil
}

// LoadFingerprints returns all stored page fingerprints keyed by slug.
func (s *SQLiteStore) LoadFingerprints(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT slug, fingerprint FROM page_fingerprints")
	if err != nil {
		return nil, storeError("failed to query page fingerprints", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]string)
	for rows.Next() {
		var slug, fp string
		if err := rows.Scan(&slug, &fp); err != nil {
			return nil, storeError("failed to scan page fingerprints", err)
		}
		out[slug] = fp
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("failed to iterate page fingerprints", err)
	}
	return out, nil
}

// SaveFingerprints replaces all stored fingerprints in one transaction.
func (s *SQLiteStore) SaveFingerprints(ctx context.Context, fps map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeError("failed to begin fingerprint transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM page_fingerprints"); err != nil {
		return storeError("failed to clear page fingerprints", err)
	}
	now := time.Now().UnixMilli()
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO page_fingerprints (slug, fingerprint, updated_at) VALUES (?, ?, ?)")
	if err != nil {
		return storeError("failed to prepare fingerprint insert", err)
	}
	defer func() { _ = stmt.Close() }()
	for slug, fp := range fps {
		if _, err := stmt.ExecContext(ctx, slug, fp, now); err != nil {
			return storeError("failed to store page fingerprint", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return storeError("failed to commit page fingerprints", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
