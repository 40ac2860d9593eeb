// Package sqlite stores item collections in a single SQLite database. It backs
// the collection server and can be used directly as a local backend.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Makepad-fr/tada-remote/internal/model"
	"github.com/Makepad-fr/tada-remote/internal/store"
)

const timeLayout = time.RFC3339Nano

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	s, err := New(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func New(ctx context.Context, db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("sqlite: nil db")
	}
	// WAL gives one writer plus many readers; busy_timeout absorbs the
	// concurrent deletes issued by clear-all.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return nil, fmt.Errorf("pragma: %w", err)
		}
	}
	if err := migrate(ctx, db); err != nil {
		return nil, err
	}
	return &Store{db: db, now: time.Now}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS items (
			seq        INTEGER PRIMARY KEY AUTOINCREMENT,
			collection TEXT NOT NULL,
			id         TEXT NOT NULL,
			label      TEXT NOT NULL,
			checked    INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			UNIQUE (collection, id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_items_collection ON items (collection, seq);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) List(ctx context.Context, collection string) ([]model.Item, error) {
	if err := store.ValidateCollection(collection); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, label, checked FROM items
		WHERE collection = ? ORDER BY seq`, collection)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *Store) Get(ctx context.Context, collection string, id model.ID) (model.Item, error) {
	if err := store.ValidateCollection(collection); err != nil {
		return model.Item{}, err
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT id, label, checked FROM items
		WHERE collection = ? AND id = ?`, collection, string(id))
	it, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Item{}, fmt.Errorf("get %s: %w", id, store.ErrNotFound)
		}
		return model.Item{}, err
	}
	return it, nil
}

func (s *Store) Create(ctx context.Context, collection string, in model.Item) (model.Item, error) {
	if err := store.ValidateCollection(collection); err != nil {
		return model.Item{}, err
	}
	in.ID = model.ID(uuid.NewString())
	ts := s.now().UTC().Format(timeLayout)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO items (collection, id, label, checked, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		collection, string(in.ID), in.Label, boolInt(in.Checked), ts, ts,
	)
	if err != nil {
		return model.Item{}, fmt.Errorf("insert item: %w", err)
	}
	return in, nil
}

func (s *Store) Update(ctx context.Context, collection string, id model.ID, in model.Item) (model.Item, error) {
	if err := store.ValidateCollection(collection); err != nil {
		return model.Item{}, err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE items SET label = ?, checked = ?, updated_at = ?
		WHERE collection = ? AND id = ?`,
		in.Label, boolInt(in.Checked), s.now().UTC().Format(timeLayout), collection, string(id),
	)
	if err != nil {
		return model.Item{}, fmt.Errorf("update item: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		return model.Item{}, fmt.Errorf("update %s: %w", id, err)
	}
	in.ID = id
	return in, nil
}

func (s *Store) Remove(ctx context.Context, collection string, id model.ID) error {
	if err := store.ValidateCollection(collection); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE collection = ? AND id = ?`, collection, string(id))
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		return fmt.Errorf("remove %s: %w", id, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (model.Item, error) {
	var (
		id      string
		it      model.Item
		checked int
	)
	if err := row.Scan(&id, &it.Label, &checked); err != nil {
		return model.Item{}, err
	}
	it.ID = model.ID(id)
	it.Checked = checked != 0
	return it, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
