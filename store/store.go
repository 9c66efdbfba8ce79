// Package store persists per-guild emoji usage counters.
package store

import (
	"context"
	"fmt"
)

// Record maps an emoji ID to the number of messages it was used in.
type Record map[string]int

// Clone returns a copy of r that is safe to mutate.
func (r Record) Clone() Record {
	c := make(Record, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// Store is keyed by guild ID. Get returns an empty, non-nil Record for unknown guilds.
type Store interface {
	Get(ctx context.Context, guildID string) (Record, error)
	Put(ctx context.Context, guildID string, rec Record) error
	All(ctx context.Context) (map[string]Record, error)
	Close() error
}

const (
	BackendJSON   = "json"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

type Config struct {
	Backend  string
	Path     string
	RedisURL string
}

func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendJSON, "":
		return OpenJSON(cfg.Path)
	case BackendRedis:
		return OpenRedis(ctx, cfg.RedisURL)
	case BackendSQLite:
		return OpenSQLite(ctx, cfg.Path)
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}
