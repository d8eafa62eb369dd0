package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedPrefix = "auth:revoked:"

// Revocations remembers signed-out token ids until the tokens expire.
type Revocations struct {
	rdb *redis.Client
}

func NewRevocations(rdb *redis.Client) *Revocations {
	return &Revocations{rdb: rdb}
}

// Revoke marks tokenID as signed out until expiresAt.
func (r *Revocations) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, revokedPrefix+tokenID, 1, ttl).Err()
}

// IsRevoked reports whether tokenID was signed out.
func (r *Revocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := r.rdb.Get(ctx, revokedPrefix+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
