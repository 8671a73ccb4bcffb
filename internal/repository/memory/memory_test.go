package memory

import (
	"context"
	"testing"
	"time"

	"pkv-backend/internal/pkg/logger"
	"pkv-backend/pkg/contractqa"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorpusCacheGetPut(t *testing.T) {
	ctx := context.Background()
	c := NewCorpusCache(time.Minute)
	docID := uuid.New()
	key := contractqa.CorpusKey(docID, "m", "text")

	_, ok := c.Get(ctx, key)
	assert.False(t, ok)

	corpus := &contractqa.Corpus{Units: []string{"a"}, Vectors: [][]float32{{1}}}
	c.Put(ctx, key, docID, corpus)

	got, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Same(t, corpus, got)
}

func TestCorpusCacheInvalidateOnlyTouchesOneContract(t *testing.T) {
	ctx := context.Background()
	c := NewCorpusCache(time.Minute)
	a, b := uuid.New(), uuid.New()
	corpus := &contractqa.Corpus{Units: []string{"x"}, Vectors: [][]float32{{1}}}

	c.Put(ctx, contractqa.CorpusKey(a, "m1", "t"), a, corpus)
	c.Put(ctx, contractqa.CorpusKey(a, "m2", "t"), a, corpus)
	c.Put(ctx, contractqa.CorpusKey(b, "m1", "t"), b, corpus)

	c.Invalidate(a)

	assert.Equal(t, 1, c.Len())
	_, ok := c.Get(ctx, contractqa.CorpusKey(b, "m1", "t"))
	assert.True(t, ok)
}

func TestRevocationStoreWithoutRedis(t *testing.T) {
	ctx := context.Background()
	s := NewRevocationStore(nil, nil)

	revoked, err := s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, s.Revoke(ctx, "jti-1", time.Minute))

	revoked, err = s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRevocationStoreIgnoresExpiredTokens(t *testing.T) {
	ctx := context.Background()
	s := NewRevocationStore(nil, nil)

	require.NoError(t, s.Revoke(ctx, "old", 0))

	revoked, err := s.IsRevoked(ctx, "old")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevocationStoreSurvivesRedisOutage(t *testing.T) {
	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	s := NewRevocationStore(rdb, logger.NewNopLogger())

	revoked, err := s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, s.Revoke(ctx, "jti-1", time.Minute))

	revoked, err = s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}
