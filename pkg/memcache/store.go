package mem

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Store is a process-local TTL cache shared by services for read-mostly data.
type Store struct {
	c *cache.Cache
}

func NewStore(defaultTTL, cleanupInterval time.Duration) *Store {
	return &Store{c: cache.New(defaultTTL, cleanupInterval)}
}

func (s *Store) Get(key string) (interface{}, bool) {
	return s.c.Get(key)
}

// Set stores v under key; ttl <= 0 uses the store default.
func (s *Store) Set(key string, v interface{}, ttl time.Duration) {
	if ttl <= 0 {
		ttl = cache.DefaultExpiration
	}
	s.c.Set(key, v, ttl)
}

func (s *Store) Delete(key string) {
	s.c.Delete(key)
}

func (s *Store) Flush() {
	s.c.Flush()
}
