package fexpr

import (
	"sync"

	"github.com/dlclark/regexp2"
)

// regexCache compiles and memoizes dlclark/regexp2 patterns. Bounded by
// size: once full, a cache miss compiles but does not evict or insert —
// later lookups for the same pattern simply recompile, trading a little
// CPU for a hard memory ceiling rather than an LRU's bookkeeping.
type regexCache struct {
	mu    sync.RWMutex
	size  int
	cache map[string]*regexp2.Regexp
}

func newRegexCache(size int) *regexCache {
	return &regexCache{
		size:  size,
		cache: make(map[string]*regexp2.Regexp),
	}
}

func (c *regexCache) compile(pattern string) (*regexp2.Regexp, error) {
	c.mu.RLock()
	re, ok := c.cache[pattern]
	c.mu.RUnlock()
	if ok {
		return re, nil
	}

	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if len(c.cache) < c.size {
		c.cache[pattern] = re
	}
	c.mu.Unlock()

	return re, nil
}
