package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RevocationStore tracks users whose live sessions must be rejected before
// their tokens expire. Blocking or deleting a user writes a marker with a
// TTL equal to the token lifetime; once every token issued before the
// block has expired, the marker is no longer needed and Redis drops it.
type RevocationStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRevocationStore(client *redis.Client, ttl time.Duration) *RevocationStore {
	return &RevocationStore{
		client: client,
		ttl:    ttl,
	}
}

// revokedKey generates the Redis key for a revoked user marker
func revokedKey(userID uuid.UUID) string {
	return fmt.Sprintf("revoked_user:%s", userID.String())
}

// Revoke marks every given user's sessions as invalid.
func (s *RevocationStore) Revoke(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, id := range ids {
		pipe.Set(ctx, revokedKey(id), "1", s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	return nil
}

// Restore clears the revocation markers, letting still-unexpired tokens
// work again after an unblock.
func (s *RevocationStore) Restore(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, revokedKey(id))
	}

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to restore sessions: %w", err)
	}

	return nil
}

// IsRevoked reports whether the user's sessions have been invalidated.
func (s *RevocationStore) IsRevoked(ctx context.Context, userID uuid.UUID) (bool, error) {
	exists, err := s.client.Exists(ctx, revokedKey(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check revocation: %w", err)
	}

	return exists > 0, nil
}
