package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File keeps every key in one JSON object on disk. The file is read once on
// first use; each write replaces it atomically (tmp file + rename).
type File struct {
	mu     sync.Mutex
	inMem  map[string]string
	path   string
	loaded bool
}

func NewFile(path string) *File {
	return &File{
		inMem: map[string]string{},
		path:  filepath.Clean(path),
	}
}

func (f *File) Path() string { return f.path }

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.loadLocked(); err != nil {
		return "", false, err
	}
	v, ok := f.inMem[key]
	return v, ok, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.loadLocked(); err != nil {
		return err
	}

	prev, had := f.inMem[key]
	f.inMem[key] = value
	if err := f.saveLocked(); err != nil {
		if had {
			f.inMem[key] = prev
		} else {
			delete(f.inMem, key)
		}
		return err
	}
	return nil
}

func (f *File) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.loadLocked(); err != nil {
		return err
	}

	prev, had := f.inMem[key]
	if !had {
		return nil
	}
	delete(f.inMem, key)
	if err := f.saveLocked(); err != nil {
		f.inMem[key] = prev
		return err
	}
	return nil
}

func (f *File) Close() error { return nil }

func (f *File) loadLocked() error {
	if f.loaded {
		return nil
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			f.loaded = true
			return nil
		}
		return fmt.Errorf("read %s: %w", f.path, err)
	}
	f.loaded = true

	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		// A corrupted store file is dropped rather than failing the app.
		return nil
	}
	for k, v := range m {
		f.inMem[k] = v
	}
	return nil
}

func (f *File) saveLocked() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(f.inMem, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
