package schedule

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/MediDispenser_Go/internal/metrics"
)

// AlarmCache memoises alarm lists per user with time-based expiration.
// Invalidate bumps an epoch so a lookup that raced a mutation never stores
// its stale result.
type AlarmCache struct {
	mu    sync.Mutex
	lru   *expirable.LRU[string, []string]
	epoch uint64
}

// NewAlarmCache creates a cache holding at most size users for ttl
func NewAlarmCache(size int, ttl time.Duration) *AlarmCache {
	return &AlarmCache{
		lru: expirable.NewLRU[string, []string](size, nil, ttl),
	}
}

// Get returns a copy of the cached alarms and the epoch to pass to Set
func (c *AlarmCache) Get(user string) ([]string, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	alarms, ok := c.lru.Get(user)
	if !ok {
		metrics.AlarmCacheLookups.WithLabelValues(metrics.ResultMiss).Inc()
		return nil, c.epoch, false
	}
	metrics.AlarmCacheLookups.WithLabelValues(metrics.ResultHit).Inc()
	return append([]string{}, alarms...), c.epoch, true
}

// Set stores alarms unless an invalidation happened after epoch was read
func (c *AlarmCache) Set(user string, alarms []string, epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if epoch != c.epoch {
		return
	}
	c.lru.Add(user, append([]string{}, alarms...))
}

// Invalidate removes a user from the cache
func (c *AlarmCache) Invalidate(user string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.epoch++
	c.lru.Remove(user)
}

// Len reports the number of cached users
func (c *AlarmCache) Len() int {
	return c.lru.Len()
}
