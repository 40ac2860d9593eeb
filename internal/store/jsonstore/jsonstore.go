package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/Makepad-fr/tada-remote/internal/model"
	"github.com/Makepad-fr/tada-remote/internal/store"
)

// JSON-backed storage. One human-readable file per collection, e.g. todos.json.
// The mutex serializes read-modify-write cycles inside one process; clear-all
// removes items concurrently.

type Store struct {
	dir string
	mu  sync.Mutex
}

func New(dir string) *Store {
	if dir == "" {
		dir = "."
	}
	return &Store{dir: dir}
}

func (s *Store) dataPath(collection string) (string, error) {
	if err := store.ValidateCollection(collection); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, collection+".json"), nil
}

func (s *Store) load(collection string) ([]model.Item, error) {
	p, err := s.dataPath(collection)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Item{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	var items []model.Item
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return items, nil
}

func (s *Store) save(collection string, items []model.Item) error {
	p, err := s.dataPath(collection)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	// write-then-rename so a crash never leaves a truncated file behind
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, collection string) ([]model.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(collection)
}

func (s *Store) Create(ctx context.Context, collection string, in model.Item) (model.Item, error) {
	if err := ctx.Err(); err != nil {
		return model.Item{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.load(collection)
	if err != nil {
		return model.Item{}, err
	}
	in.ID = model.ID(uuid.NewString())
	items = append(items, in)
	if err := s.save(collection, items); err != nil {
		return model.Item{}, err
	}
	return in, nil
}

func (s *Store) Update(ctx context.Context, collection string, id model.ID, in model.Item) (model.Item, error) {
	if err := ctx.Err(); err != nil {
		return model.Item{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.load(collection)
	if err != nil {
		return model.Item{}, err
	}
	idx := model.Find(items, id)
	if idx < 0 {
		return model.Item{}, fmt.Errorf("update %s: %w", id, store.ErrNotFound)
	}
	in.ID = id
	items[idx] = in
	if err := s.save(collection, items); err != nil {
		return model.Item{}, err
	}
	return in, nil
}

func (s *Store) Remove(ctx context.Context, collection string, id model.ID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.load(collection)
	if err != nil {
		return err
	}
	idx := model.Find(items, id)
	if idx < 0 {
		return fmt.Errorf("remove %s: %w", id, store.ErrNotFound)
	}
	items = append(items[:idx], items[idx+1:]...)
	return s.save(collection, items)
}
