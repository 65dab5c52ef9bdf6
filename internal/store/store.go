// Package store is the persistence boundary: an origin-scoped key-value
// table with JSON-encoded values. Each key is an independent record owned
// by exactly one manager; there is no transactional guarantee across keys.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName    = "spotyda"
	dbFileName = "spotyda.db"
)

// Store persists JSON values under string keys.
type Store struct {
	db     *sql.DB
	logger *log.Logger
}

// Open opens the store at the XDG data path, creating it if needed.
func Open(logger *log.Logger) (*Store, error) {
	dbPath, err := xdg.DataFile(filepath.Join(appName, dbFileName))
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}

	return openPath(dbPath, logger)
}

// OpenMemory opens an in-memory store. Used by tests and as the degraded
// mode when on-disk storage is unavailable.
func OpenMemory(logger *log.Logger) (*Store, error) {
	return openPath(":memory:", logger)
}

func openPath(path string, logger *log.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{db: db, logger: logger}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		)
	`)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Lookup reads the value stored under key into v, which must be a non-nil
// pointer. Returns false when the key is absent. Malformed JSON and storage
// errors are returned to the caller; most callers want Get instead.
// v is only written on success: a type mismatch partway through decoding
// must not leave it partially filled.
func (s *Store) Lookup(key string, v any) (bool, error) {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return false, fmt.Errorf("lookup %q: destination must be a non-nil pointer", key)
	}
	scratch := reflect.New(rv.Type().Elem())
	if err := json.Unmarshal([]byte(raw), scratch.Interface()); err != nil {
		return false, err
	}
	rv.Elem().Set(scratch.Elem())
	return true, nil
}

// Put writes v under key, replacing any previous value.
func (s *Store) Put(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, string(raw), time.Now().UnixMilli())
	return err
}

// Get reads the value under key into v and reports whether it was present.
// A missing key, malformed value or storage failure all resolve to false;
// failures are logged, never propagated. In-memory state stays authoritative.
func (s *Store) Get(key string, v any) bool {
	ok, err := s.Lookup(key, v)
	if err != nil {
		s.logger.Debug("store read failed", "key", key, "err", err)
		return false
	}
	return ok
}

// Set writes v under key. Failures (quota, access denial) are logged and
// swallowed; persistence is best-effort.
func (s *Store) Set(key string, v any) {
	if err := s.Put(key, v); err != nil {
		s.logger.Warn("store write failed", "key", key, "err", err)
	}
}

// Delete removes key. Missing keys are a no-op.
func (s *Store) Delete(key string) {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		s.logger.Warn("store delete failed", "key", key, "err", err)
	}
}
