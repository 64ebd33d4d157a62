package geocache

import (
	"context"
	"fmt"

	"github.com/couchcryptid/launch-site-etl/internal/domain"
	lru "github.com/hashicorp/golang-lru/v2"
)

// LRUStore is the in-process Store used when no memcached is configured.
// It lives for one run and serves repeated cities, such as Sofia.csv and
// Sofia.v2.csv, without a second provider request.
type LRUStore struct {
	cache *lru.Cache[string, domain.GeocodingResult]
}

// NewLRUStore creates an LRUStore holding at most maxEntries results.
func NewLRUStore(maxEntries int) (*LRUStore, error) {
	cache, err := lru.New[string, domain.GeocodingResult](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("create lru store: %w", err)
	}
	return &LRUStore{cache: cache}, nil
}

// Get implements Store.
func (s *LRUStore) Get(_ context.Context, key string) (domain.GeocodingResult, bool, error) {
	v, ok := s.cache.Get(key)
	return v, ok, nil
}

// Set implements Store.
func (s *LRUStore) Set(_ context.Context, key string, value domain.GeocodingResult) error {
	s.cache.Add(key, value)
	return nil
}

// Len returns the number of cached entries.
func (s *LRUStore) Len() int {
	return s.cache.Len()
}
