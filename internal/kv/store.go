// Package kv provides the durable string key-value store used for the weak
// list and preferences.
//
// Values are opaque strings; callers own the encoding. Four backends are
// available: Memory, File, Postgres and SQLite. None of them coordinate
// writers beyond what the backend gives for free, which is enough for the
// single-user model this app runs under.
package kv

import (
	"context"
	"fmt"
	"strings"
)

// Store is a string key-value store.
type Store interface {
	// Get returns the value stored under key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// Backend names accepted by ParseBackend.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// ParseBackend normalizes a configured backend name.
func ParseBackend(s string) (string, error) {
	switch b := strings.ToLower(strings.TrimSpace(s)); b {
	case BackendMemory, BackendFile, BackendPostgres, BackendSQLite:
		return b, nil
	case "":
		return BackendFile, nil
	}
	return "", fmt.Errorf("unknown store backend %q", s)
}

// tableDDL is shared by the SQL backends.
const tableDDL = `
CREATE TABLE IF NOT EXISTS kv_store (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

var (
	_ Store = (*Memory)(nil)
	_ Store = (*File)(nil)
	_ Store = (*Postgres)(nil)
	_ Store = (*SQLite)(nil)
)
