// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package storage persists the severity map, per-site attribute sets, and the
// analysis cache in BadgerDB.
//
// BadgerDB gives us low-latency embedded key-value storage with atomic
// single-key reads and writes, which is all the key namespace needs: no
// cross-key transactions are used. Keys are permanent (no TTL).
//
// Key namespace:
//
//	config:attribute_severity   the global severity map (one JSON record)
//	tos:attrs:<domain>          per-site scored attribute set
//	tos:process:<domain-list>   cached PolicyAnalysis per domain set
package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
)

const (
	severityKey     = "config:attribute_severity"
	siteAttrsPrefix = "tos:attrs:"
	analysisPrefix  = "tos:process:"
)

// ErrStoreUnavailable wraps every backing-store failure. Handlers map it to
// a 503; it is never silently swallowed on synchronous request paths.
var ErrStoreUnavailable = errors.New("store unavailable")

// Config holds configuration for the BadgerDB instance backing a Store.
type Config struct {
	// Path is the directory for BadgerDB files. Required unless InMemory.
	Path string

	// InMemory enables in-memory mode (no disk persistence). For testing.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool

	// Logger receives BadgerDB's internal log output. If nil, BadgerDB's
	// internal logging is disabled.
	Logger *slog.Logger
}

// DefaultConfig returns production defaults for a persistent store at path.
func DefaultConfig(path string) Config {
	return Config{Path: path, SyncWrites: true}
}

// InMemoryConfig returns configuration for tests: no disk I/O, no sync.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Store owns the BadgerDB handle and exposes the typed stores built on it:
// severity map, site attributes, and the analysis cache. Safe for concurrent
// use; BadgerDB serializes conflicting writes per key.
type Store struct {
	db *badger.DB
}

// Open creates and opens the store with the given configuration.
//
// Creates the data directory if it doesn't exist. Caller must Close().
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent store")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create store directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens an in-memory store for tests.
func OpenInMemory() (*Store, error) {
	return Open(InMemoryConfig())
}

// Close releases the BadgerDB handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SetRaw stores an arbitrary key-value pair. Used by the raw KV endpoint.
func (s *Store) SetRaw(key string, value []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrStoreUnavailable, key, err)
	}
	return nil
}

// getRaw reads a key. The bool is false (with nil error) when the key does
// not exist.
func (s *Store) getRaw(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: get %s: %v", ErrStoreUnavailable, key, err)
	}
	return value, true, nil
}

// setKey writes a key. deleteKey removes one; deleting a missing key is not
// an error.
func (s *Store) setKey(key string, value []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrStoreUnavailable, key, err)
	}
	return nil
}

func (s *Store) deleteKey(key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%w: delete %s: %v", ErrStoreUnavailable, key, err)
	}
	return nil
}
