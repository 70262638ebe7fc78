package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// MemoryStore is an in-process Store backed by a ttlcache
type MemoryStore struct {
	items     *ttlcache.Cache[string, []byte]
	sweeping  bool
	closeOnce sync.Once
}

// NewMemoryStore creates an empty in-process store. With autoExpire set,
// expired entries are removed in the background until Close; otherwise
// they are only hidden from reads.
func NewMemoryStore(autoExpire bool) *MemoryStore {
	s := &MemoryStore{
		// Hits must not extend an entry past its window
		items: ttlcache.New[string, []byte](
			ttlcache.WithDisableTouchOnHit[string, []byte](),
		),
		sweeping: autoExpire,
	}

	if s.sweeping {
		go s.items.Start()
	}

	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	item := s.items.Get(key)
	if item == nil {
		return nil, false, nil
	}

	value := make([]byte, len(item.Value()))
	copy(value, item.Value())
	return value, true, nil
}

// Set stores a copy of value. A non-positive ttl stores nothing, since
// ttlcache reads it as "use the default" or "never expire".
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		s.items.Delete(key)
		return nil
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	s.items.Set(key, stored, ttl)
	return nil
}

// DeletePrefix removes every live entry under prefix and reports how many
// were removed
func (s *MemoryStore) DeletePrefix(_ context.Context, prefix string) (int, error) {
	removed := 0
	for _, key := range s.items.Keys() {
		if strings.HasPrefix(key, prefix) {
			s.items.Delete(key)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of unexpired entries
func (s *MemoryStore) Len() int {
	return s.items.Len()
}

// Close stops the background sweeper
func (s *MemoryStore) Close() error {
	s.closeOnce.Do(func() {
		if s.sweeping {
			s.items.Stop()
		}
	})
	return nil
}
