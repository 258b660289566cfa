// Package kv provides the string key-value persistence used for the recent
// searches list. Backends: a JSON file in the user config dir, SQLite,
// Redis and an in-memory map.
package kv

import (
	"context"
	"fmt"
	"io"
)

// Store is a string key-value store. Get reports a missing key with
// ok == false and a nil error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Pather is implemented by backends kept in a local file.
type Pather interface {
	Path() string
}

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Options struct {
	Backend       string
	FilePath      string
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open builds the backend named by opts.Backend. The returned closer must be
// called when the store is no longer needed.
func Open(opts Options) (Store, io.Closer, error) {
	switch opts.Backend {
	case BackendFile, "":
		f := NewFile(opts.FilePath)
		return f, f, nil
	case BackendSQLite:
		s, err := NewSQLite(opts.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case BackendRedis:
		r := NewRedis(opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
		return r, r, nil
	case BackendMemory:
		m := NewMemory()
		return m, m, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
}
