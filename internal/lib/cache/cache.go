package cache

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type item[T any] struct {
	value     T
	expiresAt time.Time
}

// SearchCache is a size-bounded LRU whose entries also expire after ttl.
// It is safe for concurrent use.
type SearchCache[T any] struct {
	// mu orders Set against Purge so a purged generation is never written back.
	mu      sync.Mutex
	gen     uint64
	storage *lru.Cache[string, item[T]]
	ttl     time.Duration
	now     func() time.Time
}

func NewSearchCache[T any](size int, ttl time.Duration) (*SearchCache[T], error) {
	c, err := lru.New[string, item[T]](size)
	if err != nil {
		return nil, err
	}
	return &SearchCache[T]{storage: c, ttl: ttl, now: time.Now}, nil
}

// Generation returns a counter bumped by every Purge. Read it before loading
// the value that will be passed to Set.
func (c *SearchCache[T]) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Set stores value only if no Purge happened since gen was read.
func (c *SearchCache[T]) Set(key string, value T, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.storage.Add(key, item[T]{value: value, expiresAt: c.now().Add(c.ttl)})
	return true
}

func (c *SearchCache[T]) Get(key string) (T, bool) {
	var zero T
	it, ok := c.storage.Get(key)
	if !ok {
		return zero, false
	}
	if !c.now().Before(it.expiresAt) {
		c.storage.Remove(key)
		return zero, false
	}
	return it.value, true
}

func (c *SearchCache[T]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.storage.Purge()
}

func (c *SearchCache[T]) Len() int {
	return c.storage.Len()
}
