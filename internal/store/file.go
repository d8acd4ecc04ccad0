package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists all keys as one JSON object, rewritten on every change.
type FileStore struct {
	mu       sync.Mutex
	data     map[string]string
	filePath string
}

// NewFileStore loads filePath, or starts empty if it doesn't exist.
func NewFileStore(filePath string) (*FileStore, error) {
	if filePath == "" {
		return nil, fmt.Errorf("file store: path is required")
	}
	data, err := loadFile(filePath)
	if err != nil {
		return nil, err
	}
	return &FileStore{data: data, filePath: filePath}, nil
}

func (f *FileStore) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (f *FileStore) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev, had := f.data[key]
	f.data[key] = value
	if err := f.save(); err != nil {
		f.restore(key, prev, had)
		return err
	}
	return nil
}

func (f *FileStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev, ok := f.data[key]
	if !ok {
		return nil
	}
	delete(f.data, key)
	if err := f.save(); err != nil {
		f.restore(key, prev, true)
		return err
	}
	return nil
}

func (f *FileStore) Close() error { return nil }

func (f *FileStore) save() error {
	return saveFile(f.filePath, f.data)
}

// restore undoes an in-memory change whose write failed, so Get never
// returns a value that is not on disk.
func (f *FileStore) restore(key, prev string, had bool) {
	if had {
		f.data[key] = prev
		return
	}
	delete(f.data, key)
}

func loadFile(filePath string) (map[string]string, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}
	data := make(map[string]string)
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}
	return data, nil
}

func saveFile(filePath string, data map[string]string) error {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create store dir: %w", err)
		}
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filePath, raw, 0644); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	return nil
}
