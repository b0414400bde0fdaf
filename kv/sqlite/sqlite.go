package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite" // sqlite driver

	"github.com/gosom/submitmyurl/kv"
)

type backend struct {
	db *sql.DB
}

func New(path string) (kv.Backend, error) {
	db, err := initDatabase(path)
	if err != nil {
		return nil, err
	}

	return &backend{db: db}, nil
}

func (b *backend) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT value FROM records WHERE key = ?`

	var value []byte

	err := b.db.QueryRowContext(ctx, q, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, kv.ErrNotFound
		}

		return nil, err
	}

	return value, nil
}

func (b *backend) Set(ctx context.Context, key string, value []byte) error {
	const q = `INSERT INTO records (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	_, err := b.db.ExecContext(ctx, q, key, value, time.Now().UTC().Unix())

	return err
}

func initDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	_, err = db.Exec("PRAGMA busy_timeout = 5000")
	if err != nil {
		return nil, err
	}

	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	_, err = db.Exec("PRAGMA synchronous=NORMAL")
	if err != nil {
		return nil, err
	}

	err = db.Ping()
	if err != nil {
		return nil, err
	}

	return db, createSchema(db)
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS records (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at INT NOT NULL
		)
	`)

	return err
}
