package keeper

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

const dedupCacheSize = 1024

// messageDedup remembers recently handled message ids so a MessageCreate
// replayed after a gateway resume is not answered twice.
type messageDedup struct {
	cache *lru.Cache[string, struct{}]
}

func newMessageDedup(size int) (*messageDedup, error) {
	if size <= 0 {
		return nil, fmt.Errorf("cache size must be positive")
	}
	cache, err := lru.New[string, struct{}](size)
	if err != nil {
		return nil, fmt.Errorf("create dedup cache: %w", err)
	}
	return &messageDedup{cache: cache}, nil
}

// firstSighting reports whether id has not been seen before and marks it
// seen. Empty ids are never deduplicated.
func (d *messageDedup) firstSighting(id string) bool {
	if d == nil || id == "" {
		return true
	}
	seen, _ := d.cache.ContainsOrAdd(id, struct{}{})
	return !seen
}
