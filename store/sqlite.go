package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS emoji_usage (
	guild_id TEXT NOT NULL,
	emoji_id TEXT NOT NULL,
	count    INTEGER NOT NULL CHECK (count >= 0),
	PRIMARY KEY (guild_id, emoji_id)
)`

type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite store: empty path")
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, guildID string) (Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT emoji_id, count FROM emoji_usage WHERE guild_id = ?`, guildID)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", guildID, err)
	}
	defer rows.Close()

	rec := make(Record)
	for rows.Next() {
		var (
			id string
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan %s: %w", guildID, err)
		}
		rec[id] = n
	}
	return rec, rows.Err()
}

func (s *SQLiteStore) Put(ctx context.Context, guildID string, rec Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM emoji_usage WHERE guild_id = ?`, guildID); err != nil {
		return fmt.Errorf("clear %s: %w", guildID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO emoji_usage (guild_id, emoji_id, count) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for id, n := range rec {
		if _, err := stmt.ExecContext(ctx, guildID, id, n); err != nil {
			return fmt.Errorf("insert %s/%s: %w", guildID, id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", guildID, err)
	}
	return nil
}

func (s *SQLiteStore) All(ctx context.Context) (map[string]Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT guild_id, emoji_id, count FROM emoji_usage`)
	if err != nil {
		return nil, fmt.Errorf("query all: %w", err)
	}
	defer rows.Close()

	all := make(map[string]Record)
	for rows.Next() {
		var (
			guildID, id string
			n           int
		)
		if err := rows.Scan(&guildID, &id, &n); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		rec, ok := all[guildID]
		if !ok {
			rec = make(Record)
			all[guildID] = rec
		}
		rec[id] = n
	}
	return all, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
