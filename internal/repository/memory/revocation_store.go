package memory

import (
	"context"
	"errors"
	"time"

	"pkv-backend/internal/pkg/logger"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "auth:revoked:"

// RevocationStore remembers logged-out token ids until the token would have
// expired anyway. Redis makes the list visible to every instance; without
// it, or while it is unreachable, the list is process local.
type RevocationStore struct {
	rdb    *redis.Client
	local  *cache.Cache
	logger logger.ILogger
}

// NewRevocationStore accepts a nil client and a nil logger.
func NewRevocationStore(rdb *redis.Client, log logger.ILogger) *RevocationStore {
	return &RevocationStore{
		rdb:    rdb,
		local:  cache.New(cache.NoExpiration, 15*time.Minute),
		logger: log,
	}
}

func (s *RevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	s.local.Set(jti, struct{}{}, ttl)
	if s.rdb == nil {
		return nil
	}
	if err := s.rdb.Set(ctx, revokedKeyPrefix+jti, 1, ttl).Err(); err != nil {
		s.warn("Failed to share revoked token, kept locally", err)
	}
	return nil
}

func (s *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if _, found := s.local.Get(jti); found {
		return true, nil
	}
	if s.rdb == nil {
		return false, nil
	}
	err := s.rdb.Get(ctx, revokedKeyPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		s.warn("Redis unavailable, using local revocation list", err)
		return false, nil
	}
	return true, nil
}

func (s *RevocationStore) warn(msg string, err error) {
	if s.logger == nil {
		return
	}
	s.logger.Warn("REVOCATION", msg, map[string]interface{}{"error": err.Error()})
}
