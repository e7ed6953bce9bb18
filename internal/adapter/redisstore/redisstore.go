// Package redisstore keeps each report collection in a Redis hash: the
// hash field is the report ID and the value is the stored JSON record.
package redisstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/store"
)

// Open connects a Redis client. The connection is established lazily on the
// first command.
func Open(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
}

// Store implements store.KV on Redis hashes.
type Store struct {
	rc     *redis.Client
	prefix string
}

// New creates a Store whose hash keys are "<prefix>:<collection>".
func New(rc *redis.Client, prefix string) *Store {
	return &Store{rc: rc, prefix: prefix}
}

func (s *Store) key(collection string) string {
	if s.prefix == "" {
		return collection
	}
	return s.prefix + ":" + collection
}

func (s *Store) Read(ctx context.Context, collection string) ([]store.Entry, bool, error) {
	fields, err := s.rc.HGetAll(ctx, s.key(collection)).Result()
	if err != nil {
		return nil, false, fmt.Errorf("redis hgetall %s: %w", s.key(collection), err)
	}
	if len(fields) == 0 {
		return nil, false, nil
	}
	entries := make([]store.Entry, 0, len(fields))
	for id, value := range fields {
		entries = append(entries, store.Entry{Key: id, Value: []byte(value)})
	}
	return entries, true, nil
}

func (s *Store) Write(ctx context.Context, recordPath string, value []byte) error {
	collection, id, ok := store.SplitRecordPath(recordPath)
	if !ok {
		return fmt.Errorf("invalid record path %q", recordPath)
	}
	created, err := s.rc.HSetNX(ctx, s.key(collection), id, value).Result()
	if err != nil {
		return fmt.Errorf("redis hsetnx %s %s: %w", s.key(collection), id, err)
	}
	if !created {
		return fmt.Errorf("redis hsetnx %s %s: %w", s.key(collection), id, store.ErrRecordExists)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.rc.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}
