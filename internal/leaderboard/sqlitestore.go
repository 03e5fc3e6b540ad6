package leaderboard

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/gob"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps each difficulty's list as one gob-encoded value in a
// key/value table.
type SQLiteStore struct {
	mu    sync.Mutex
	table string
	db    *sql.DB
}

func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite db: %w", err)
	}
	return db, nil
}

// Creates a new [SQLiteStore]. table may only contain Latin letters,
// digits, '-' and '_'.
func NewSQLiteStore(ctx context.Context, db *sql.DB, table string) (*SQLiteStore, error) {
	if err := CheckName(table); err != nil {
		return nil, err
	}

	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS "`+table+`" (
	key		TEXT PRIMARY KEY,
	value	BLOB
);`)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{table: table, db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context, difficulty string) ([]Record, error) {
	var v []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM "`+s.table+`" WHERE key = ?;`,
		difficulty).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, err
	}

	records := []Record{}
	if err := gob.NewDecoder(bytes.NewReader(v)).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if err := Validate(records); err != nil {
		return nil, err
	}
	return records, nil
}

// Persist inserts the list or replaces the stored one.
func (s *SQLiteStore) Persist(ctx context.Context, difficulty string, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(records); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO "`+s.table+`" (key, value)
VALUES(?, ?)
ON CONFLICT(key)
DO UPDATE SET value=excluded.value;`,
		difficulty, buf.Bytes())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}
