package lookbook

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore is the no-Redis fallback for local development. Expired
// entries are purged in the background by go-cache.
type MemoryStore struct {
	cache *gocache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(DefaultTTL, time.Hour),
	}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Save(_ context.Context, share Share) error {
	ttl := time.Until(share.ExpiresAt)
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s.cache.Set(share.ID, share, ttl)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Share, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		return Share{}, ErrNotFound
	}
	return v.(Share), nil
}
