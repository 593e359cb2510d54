// internal/store/sqlite.go
//
// SQLite implementation of the Store interface, backed by a single
// string-keyed progress table (see sql/001_init.sql):
//
//   progress(owner TEXT, key TEXT, value TEXT, PRIMARY KEY(owner, key))
//
// Idempotence of RecordResult rides on the primary key: the completion flag
// is written with INSERT OR IGNORE, and only the insert that actually landed
// goes on to record the outcome and bump the score (all inside one
// transaction).

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/oussamaessid/brainbox-server/internal/catalog"
)

// sqliteStore persists progress in the server's SQLite database.
type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an already-opened (and migrated) database handle.
func NewSQLiteStore(db *sql.DB) Store {
	return &sqliteStore{db: db}
}

func (s *sqliteStore) get(ctx context.Context, owner, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM progress WHERE owner=? AND key=?`, owner, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *sqliteStore) Score(ctx context.Context, owner string, lang catalog.Language) (int, error) {
	v, ok, err := s.get(ctx, owner, scoreKey(lang))
	if err != nil || !ok {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("store: corrupt score value %q: %w", v, err)
	}
	return n, nil
}

func (s *sqliteStore) AddScore(ctx context.Context, owner string, lang catalog.Language, delta int) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO progress(owner, key, value) VALUES (?, ?, ?)
        ON CONFLICT(owner, key) DO UPDATE SET value = CAST(CAST(value AS INTEGER) + excluded.value AS TEXT)`,
		owner, scoreKey(lang), strconv.Itoa(delta))
	return err
}

func (s *sqliteStore) Completed(ctx context.Context, owner string, lang catalog.Language, date string) (bool, error) {
	_, ok, err := s.get(ctx, owner, completedKey(lang, date))
	return ok, err
}

func (s *sqliteStore) Result(ctx context.Context, owner string, lang catalog.Language, date string) (bool, bool, error) {
	v, ok, err := s.get(ctx, owner, resultKey(lang, date))
	if err != nil || !ok {
		return false, false, err
	}
	return v == "true", true, nil
}

func (s *sqliteStore) RecordResult(ctx context.Context, owner string, lang catalog.Language, date string, won bool, delta int) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO progress(owner, key, value) VALUES (?, ?, 'true')`,
		owner, completedKey(lang, date))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		// Already completed; leave the recorded outcome and score alone.
		return false, nil
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO progress(owner, key, value) VALUES (?, ?, ?)`,
		owner, resultKey(lang, date), strconv.FormatBool(won)); err != nil {
		return false, err
	}
	if won && delta != 0 {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO progress(owner, key, value) VALUES (?, ?, ?)
            ON CONFLICT(owner, key) DO UPDATE SET value = CAST(CAST(value AS INTEGER) + excluded.value AS TEXT)`,
			owner, scoreKey(lang), strconv.Itoa(delta)); err != nil {
			return false, err
		}
	}
	return true, tx.Commit()
}
