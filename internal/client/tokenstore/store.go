// Package tokenstore persists the single authentication token of this
// installation.
//
// Reads never fail: a backend that cannot be read is treated as "no token",
// which leaves the client anonymous instead of crashing. Writes return their
// error so callers can log it; an empty token deletes the stored value.
package tokenstore

import (
	"context"
	"sync"
)

// Store is the token persistence contract used by the request executor and
// the session manager.
type Store interface {
	// Get returns the stored token and true, or "" and false when there is
	// none or the backend is unavailable.
	Get(ctx context.Context) (string, bool)
	// Set overwrites the stored token. An empty token removes it.
	Set(ctx context.Context, token string) error
}

// Backend names accepted by configuration.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// TokenKey is the key under which persistent backends keep the token.
const TokenKey = "auth_token"

// Memory keeps the token in process memory. It is used in tests and when no
// durable backend is configured.
type Memory struct {
	mu    sync.RWMutex
	token string
}

func NewMemory(token string) *Memory {
	return &Memory{token: token}
}

func (m *Memory) Get(ctx context.Context) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.token != ""
}

func (m *Memory) Set(ctx context.Context, token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}
