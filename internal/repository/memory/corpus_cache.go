package memory

import (
	"context"
	"strings"
	"time"

	"pkv-backend/pkg/contractqa"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// CorpusCache keeps embedded contract corpora in process memory.
type CorpusCache struct {
	cache *cache.Cache
}

func NewCorpusCache(ttl time.Duration) *CorpusCache {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &CorpusCache{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (c *CorpusCache) Get(_ context.Context, key string) (*contractqa.Corpus, bool) {
	if x, found := c.cache.Get(key); found {
		return x.(*contractqa.Corpus), true
	}
	return nil, false
}

func (c *CorpusCache) Put(_ context.Context, key string, _ uuid.UUID, corpus *contractqa.Corpus) {
	c.cache.Set(key, corpus, cache.DefaultExpiration)
}

// Invalidate drops every corpus of the given contract, whatever model or
// text revision it was built from.
func (c *CorpusCache) Invalidate(documentID uuid.UUID) {
	prefix := documentID.String() + ":"
	for key := range c.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			c.cache.Delete(key)
		}
	}
}

func (c *CorpusCache) Len() int {
	return c.cache.ItemCount()
}
