package cache

import (
	"errors"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

const memcacheTimeout = 500 * time.Millisecond

// MemcacheService implements CacheService using memcache. Used when
// several checker instances share one block table.
type MemcacheService struct {
	client *memcache.Client
}

// NewMemcacheService creates a new memcache service
func NewMemcacheService(serverAddr string) *MemcacheService {
	client := memcache.New(serverAddr)
	client.Timeout = memcacheTimeout
	return &MemcacheService{client: client}
}

// Get retrieves a value from memcache. Absent keys report
// ErrCacheMiss like the in-memory service.
func (m *MemcacheService) Get(key string) ([]byte, error) {
	item, err := m.client.Get(key)
	if err != nil {
		if errors.Is(err, memcache.ErrCacheMiss) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	return item.Value, nil
}

// Set stores a value in memcache with an expiration time
func (m *MemcacheService) Set(key string, value []byte, expiration time.Duration) error {
	return m.client.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: int32(expiration.Seconds()),
	})
}

// Delete removes a value from memcache
func (m *MemcacheService) Delete(key string) error {
	return m.client.Delete(key)
}
