package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/timshannon/badgerhold/v4"
)

// BadgerStore keeps keys in an embedded Badger database.
type BadgerStore struct {
	store *badgerhold.Store
}

type entry struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// NewBadgerStore opens (or creates) the database directory at path.
func NewBadgerStore(path string) (*BadgerStore, error) {
	if path == "" {
		return nil, fmt.Errorf("badger store: path is required")
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("create badger dir: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil

	s, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open badger %s: %w", path, err)
	}
	return &BadgerStore{store: s}, nil
}

func (b *BadgerStore) Get(_ context.Context, key string) (string, error) {
	var e entry
	err := b.store.Get(key, &e)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("badger get %s: %w", key, err)
	}
	return e.Value, nil
}

func (b *BadgerStore) Set(_ context.Context, key, value string) error {
	e := entry{Key: key, Value: value, UpdatedAt: time.Now()}
	if err := b.store.Upsert(key, &e); err != nil {
		return fmt.Errorf("badger set %s: %w", key, err)
	}
	return nil
}

func (b *BadgerStore) Delete(_ context.Context, key string) error {
	err := b.store.Delete(key, entry{})
	if err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return fmt.Errorf("badger delete %s: %w", key, err)
	}
	return nil
}

func (b *BadgerStore) Close() error {
	return b.store.Close()
}
