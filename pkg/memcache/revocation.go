package mem

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore remembers logged-out JWT ids until the token would have
// expired anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

const revokedPrefix = "revoked_jwt:"

type redisRevocationStore struct {
	client *redis.Client
}

func NewRedisRevocationStore(client *redis.Client) RevocationStore {
	return &redisRevocationStore{client: client}
}

func (r *redisRevocationStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedPrefix+tokenID, 1, ttl).Err()
}

func (r *redisRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := r.client.Get(ctx, revokedPrefix+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type memoryRevocationStore struct {
	store *Store
}

func NewMemoryRevocationStore(store *Store) RevocationStore {
	return &memoryRevocationStore{store: store}
}

func (m *memoryRevocationStore) Revoke(_ context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	m.store.Set(revokedPrefix+tokenID, true, ttl)
	return nil
}

func (m *memoryRevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := m.store.Get(revokedPrefix + tokenID)
	return ok, nil
}
