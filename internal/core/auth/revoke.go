package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"newsportal/internal/core/cache"
)

// Revoker remembers logged-out token ids until they would have expired anyway.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

const revokedPrefix = "jwt:revoked:"

type RedisRevoker struct{ c *cache.Cache }

func NewRedisRevoker(c *cache.Cache) *RedisRevoker { return &RedisRevoker{c: c} }

func (r *RedisRevoker) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.c.SetFlag(ctx, revokedPrefix+tokenID, ttl)
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return r.c.HasFlag(ctx, revokedPrefix+tokenID)
}

// ErrRevocationFull is returned when the in-memory revocation list has no room left.
var ErrRevocationFull = errors.New("auth: revocation list is full")

// MemoryRevoker is the single-process fallback when no redis is configured.
// Entries live for the token TTL, so ttl passed to Revoke is ignored. It never evicts a live
// entry: once size revocations are pending, Revoke fails until older ones expire.
type MemoryRevoker struct {
	mu   sync.Mutex
	size int
	lru  *expirable.LRU[string, struct{}]
}

func NewMemoryRevoker(size int, tokenTTL time.Duration) *MemoryRevoker {
	return &MemoryRevoker{size: size, lru: expirable.NewLRU[string, struct{}](size, nil, tokenTTL)}
}

func (m *MemoryRevoker) Revoke(_ context.Context, tokenID string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lru.Contains(tokenID) {
		return nil
	}
	if m.lru.Len() >= m.size {
		return ErrRevocationFull
	}
	m.lru.Add(tokenID, struct{}{})
	return nil
}

func (m *MemoryRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	return m.lru.Contains(tokenID), nil
}
