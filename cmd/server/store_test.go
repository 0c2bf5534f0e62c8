package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/sheetquiz/internal/config"
	"github.com/JonMunkholm/sheetquiz/internal/kv"
)

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	tests := []struct {
		name    string
		cfg     config.StoreConfig
		want    any
		wantErr bool
	}{
		{"memory", config.StoreConfig{Backend: "memory"}, &kv.Memory{}, false},
		{"file default", config.StoreConfig{Path: filepath.Join(dir, "a", "s.json")}, &kv.File{}, false},
		{"sqlite", config.StoreConfig{Backend: "SQLite", SQLitePath: filepath.Join(dir, "s.db")}, &kv.SQLite{}, false},
		{"postgres bad url", config.StoreConfig{Backend: "postgres", DatabaseURL: "postgres://localhost:notaport/db"}, nil, true},
		{"unknown", config.StoreConfig{Backend: "redis"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			store, closeStore, err := openStore(ctx, &cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer closeStore()
			assert.IsType(t, tt.want, store)

			require.NoError(t, store.Set(ctx, "k", "v"))
			got, ok, err := store.Get(ctx, "k")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "v", got)

			closeStore()
			closeStore()
		})
	}
}
