package local

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrNotFound is returned when a key does not exist.
var ErrNotFound = errors.New("cache: key not found")

// Config holds LocalCache settings.
type Config struct {
	GCInterval time.Duration
}

type item struct {
	value    string
	deadline time.Time // zero means no expiry
}

func (it item) live(now time.Time) bool {
	return it.deadline.IsZero() || now.Before(it.deadline)
}

type ranked struct {
	member string
	score  float64
}

// LocalCache is the in-process Cache used when no Redis address is
// configured. Expired entries are dropped lazily on read and in bulk by a
// periodic GC sweep.
type LocalCache struct {
	mu    sync.RWMutex
	kv    map[string]item
	zsets map[string][]ranked // each slice kept sorted by score descending
	done  chan struct{}
}

// NewCache creates a LocalCache and starts its GC goroutine.
func NewCache(cfg Config) (*LocalCache, error) {
	interval := cfg.GCInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	c := &LocalCache{
		kv:    make(map[string]item),
		zsets: make(map[string][]ranked),
		done:  make(chan struct{}),
	}
	go c.gcLoop(interval)
	return c, nil
}

// Close stops the GC goroutine.
func (c *LocalCache) Close() {
	close(c.done)
}

func (c *LocalCache) gcLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for k, it := range c.kv {
				if !it.live(now) {
					delete(c.kv, k)
				}
			}
			c.mu.Unlock()
		case <-c.done:
			return
		}
	}
}

// lookup returns the live item for key, pruning it if expired.
func (c *LocalCache) lookup(key string) (item, bool) {
	c.mu.RLock()
	it, ok := c.kv[key]
	c.mu.RUnlock()
	if !ok {
		return item{}, false
	}
	if !it.live(time.Now()) {
		c.mu.Lock()
		delete(c.kv, key)
		c.mu.Unlock()
		return item{}, false
	}
	return it, true
}

func (c *LocalCache) Get(_ context.Context, key string) (string, error) {
	it, ok := c.lookup(key)
	if !ok {
		return "", ErrNotFound
	}
	return it.value, nil
}

func (c *LocalCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	it := item{value: value}
	if ttl > 0 {
		it.deadline = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.kv[key] = it
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.kv, k)
	}
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := c.lookup(key)
	return ok, nil
}

func (c *LocalCache) Expire(_ context.Context, key string, ttl time.Duration) error {
	it, ok := c.lookup(key)
	if !ok {
		return ErrNotFound
	}
	it.deadline = time.Now().Add(ttl)
	c.mu.Lock()
	c.kv[key] = it
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) ZAdd(_ context.Context, key string, score float64, member string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	set := c.zsets[key]
	found := false
	for i := range set {
		if set[i].member == member {
			set[i].score = score
			found = true
			break
		}
	}
	if !found {
		set = append(set, ranked{member: member, score: score})
	}
	sort.SliceStable(set, func(a, b int) bool { return set[a].score > set[b].score })
	c.zsets[key] = set
	return nil
}

func (c *LocalCache) ZRevRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	set := c.zsets[key]
	n := int64(len(set))
	if start >= n {
		return nil, nil
	}
	if stop < 0 || stop >= n {
		stop = n - 1
	}
	members := make([]string, 0, stop-start+1)
	for _, r := range set[start : stop+1] {
		members = append(members, r.member)
	}
	return members, nil
}

func (c *LocalCache) ZScore(_ context.Context, key, member string) (float64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, r := range c.zsets[key] {
		if r.member == member {
			return r.score, nil
		}
	}
	return 0, ErrNotFound
}
