package geocache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/couchcryptid/launch-site-etl/internal/domain"
)

const keyPrefix = "launch-geo:"

// maxRelativeExp is the longest expiration memcached treats as relative.
const maxRelativeExp = 30 * 24 * time.Hour

// MemcachedStore implements Store using memcached so lookups survive
// between runs.
type MemcachedStore struct {
	client *memcache.Client
	ttl    time.Duration
}

// NewMemcachedStore creates a MemcachedStore. addrs is a comma-separated list
// (e.g. "localhost:11211" or "host1:11211,host2:11211").
func NewMemcachedStore(addrs string, ttl, timeout time.Duration) *MemcachedStore {
	servers := parseAddrs(addrs)
	if len(servers) == 0 {
		servers = []string{"localhost:11211"}
	}
	client := memcache.New(servers...)
	if timeout > 0 {
		client.Timeout = timeout
	}
	return &MemcachedStore{client: client, ttl: ttl}
}

func parseAddrs(s string) []string {
	var out []string
	for _, a := range strings.Split(s, ",") {
		a = strings.TrimSpace(a)
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}

// key hashes the cache key; memcached keys may not contain spaces or
// control characters, and city names can.
func (c *MemcachedStore) key(k string) string {
	sum := sha256.Sum256([]byte(k))
	return keyPrefix + hex.EncodeToString(sum[:16])
}

// Get implements Store.
func (c *MemcachedStore) Get(ctx context.Context, key string) (domain.GeocodingResult, bool, error) {
	if ctx.Err() != nil {
		return domain.GeocodingResult{}, false, ctx.Err()
	}
	item, err := c.client.Get(c.key(key))
	if err != nil {
		if errors.Is(err, memcache.ErrCacheMiss) {
			return domain.GeocodingResult{}, false, nil
		}
		return domain.GeocodingResult{}, false, err
	}
	var result domain.GeocodingResult
	if err := json.Unmarshal(item.Value, &result); err != nil {
		return domain.GeocodingResult{}, false, err
	}
	return result, true, nil
}

// Set implements Store.
func (c *MemcachedStore) Set(ctx context.Context, key string, value domain.GeocodingResult) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(&memcache.Item{
		Key:        c.key(key),
		Value:      raw,
		Expiration: expirationSeconds(c.ttl),
	})
}

// expirationSeconds clamps ttl to memcached's relative expiration range,
// falling back to one day when ttl is out of range.
func expirationSeconds(ttl time.Duration) int32 {
	if ttl <= 0 || ttl > maxRelativeExp {
		return int32((24 * time.Hour).Seconds())
	}
	return int32(ttl.Seconds())
}

// Ping checks if memcached is reachable.
func (c *MemcachedStore) Ping() error {
	return c.client.Ping()
}

// Close closes the memcached client connections.
func (c *MemcachedStore) Close() error {
	return c.client.Close()
}
