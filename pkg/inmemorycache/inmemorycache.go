package inmemorycache

import (
	"runtime/debug"
	"sync"
	"time"

	"github.com/churnlabs/churnserve/pkg/logger"
	"github.com/churnlabs/churnserve/pkg/metrics"
	"github.com/coocood/freecache"
)

const (
	metricUpdateInterval = 1 * time.Minute
	infiniteExpiry       = 0
)

// InMemoryCache is a byte-oriented process-local cache.
type InMemoryCache interface {
	Get(key []byte) ([]byte, bool)
	Set(key, value []byte) error
	SetEx(key, value []byte, expiryInSec int) error
	Delete(key []byte) bool
	Clear()
	EntryCount() int64
}

var (
	instance InMemoryCache
	once     sync.Once
)

// Init creates the process-wide cache. gcPercentage below zero leaves the
// runtime GC target untouched.
func Init(sizeInBytes int, gcPercentage int) {
	once.Do(func() {
		cache := &freecacheStore{
			inMemCache: freecache.NewCache(sizeInBytes),
		}
		if gcPercentage >= 0 {
			debug.SetGCPercent(gcPercentage)
		}
		go cache.publishMetric()
		instance = cache
		logger.Info("In-memory cache initialized")
	})
}

// Instance returns the cache. Ensure Init is called before calling this.
func Instance() InMemoryCache {
	if instance == nil {
		logger.Panic("in-memory cache not initialized, call Init first", nil)
	}
	return instance
}

type freecacheStore struct {
	inMemCache *freecache.Cache
}

func (c *freecacheStore) Get(key []byte) ([]byte, bool) {
	value, err := c.inMemCache.Get(key)
	if err != nil {
		return nil, false
	}
	return value, true
}

func (c *freecacheStore) Set(key, value []byte) error {
	return c.inMemCache.Set(key, value, infiniteExpiry)
}

func (c *freecacheStore) SetEx(key, value []byte, expiryInSec int) error {
	return c.inMemCache.Set(key, value, expiryInSec)
}

func (c *freecacheStore) Delete(key []byte) bool {
	return c.inMemCache.Del(key)
}

func (c *freecacheStore) Clear() {
	c.inMemCache.Clear()
}

func (c *freecacheStore) EntryCount() int64 {
	return c.inMemCache.EntryCount()
}

func (c *freecacheStore) publishMetric() {
	for range time.Tick(metricUpdateInterval) {
		metrics.Gauge("cache.entry.count", float64(c.inMemCache.EntryCount()), nil)
		metrics.Gauge("cache.hit.rate", c.inMemCache.HitRate(), nil)
	}
}
