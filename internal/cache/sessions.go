// internal/cache/sessions.go
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// sessionKeyPrefix namespaces our keys in a shared Redis.
const sessionKeyPrefix = "cardtable:session:"

// sessionTTL bounds how long a dangling session binding can outlive its
// connection. Bindings are refreshed on every lookup.
const sessionTTL = 24 * time.Hour

// Sessions maps connection ids to the room they currently occupy. The
// binding is the only server-side session state, so reconnection works with
// nothing but the opaque connection id.
type Sessions interface {
	// Bind associates connID with roomID, replacing any prior binding.
	Bind(ctx context.Context, connID, roomID string) error

	// Room returns the room bound to connID. ok is false when no binding
	// exists; that is not an error.
	Room(ctx context.Context, connID string) (roomID string, ok bool, err error)

	// Unbind removes connID's binding, if any.
	Unbind(ctx context.Context, connID string) error
}

// RedisSessions stores bindings in Redis so they survive server restarts.
type RedisSessions struct {
	rdb *redis.Client
}

// NewRedisSessions connects to Redis and verifies the connection with a
// bounded ping.
func NewRedisSessions(addr string, db int) (*RedisSessions, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return &RedisSessions{rdb: rdb}, nil
}

func (s *RedisSessions) Bind(ctx context.Context, connID, roomID string) error {
	return s.rdb.Set(ctx, sessionKeyPrefix+connID, roomID, sessionTTL).Err()
}

func (s *RedisSessions) Room(ctx context.Context, connID string) (string, bool, error) {
	roomID, err := s.rdb.GetEx(ctx, sessionKeyPrefix+connID, sessionTTL).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return roomID, true, nil
}

func (s *RedisSessions) Unbind(ctx context.Context, connID string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+connID).Err()
}

// MemorySessions is the fallback store when no Redis address is configured.
// Bindings live only as long as the process.
type MemorySessions struct {
	mu    sync.RWMutex
	rooms map[string]string
}

// NewMemorySessions returns an empty in-memory session store.
func NewMemorySessions() *MemorySessions {
	return &MemorySessions{rooms: make(map[string]string)}
}

func (s *MemorySessions) Bind(_ context.Context, connID, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[connID] = roomID
	return nil
}

func (s *MemorySessions) Room(_ context.Context, connID string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	roomID, ok := s.rooms[connID]
	return roomID, ok, nil
}

func (s *MemorySessions) Unbind(_ context.Context, connID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, connID)
	return nil
}
