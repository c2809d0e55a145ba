package predictor

import (
	"encoding/binary"
	"math"

	"github.com/churnlabs/churnserve/pkg/feature"
	"github.com/churnlabs/churnserve/pkg/inmemorycache"
	"github.com/churnlabs/churnserve/pkg/metrics"
	"github.com/spaolacci/murmur3"
)

// PredictionCache memoizes (label, probability) per vector. Sound because a
// snapshot is deterministic and immutable; keys carry the snapshot version so
// entries from a replaced model can never be served, and the whole cache is
// cleared on swap anyway.
type PredictionCache struct {
	store inmemorycache.InMemoryCache
}

func NewPredictionCache(store inmemorycache.InMemoryCache) *PredictionCache {
	return &PredictionCache{store: store}
}

func (c *PredictionCache) Get(version string, vec feature.Vector) (int, float64, bool) {
	value, ok := c.store.Get(cacheKey(version, vec))
	if !ok || len(value) != 9 {
		metrics.Count("prediction.cache.miss", 1, nil)
		return 0, 0, false
	}
	metrics.Count("prediction.cache.hit", 1, nil)
	label := int(value[0])
	prob := math.Float64frombits(binary.BigEndian.Uint64(value[1:]))
	return label, prob, true
}

func (c *PredictionCache) Put(version string, vec feature.Vector, label int, prob float64) {
	value := make([]byte, 9)
	value[0] = byte(label)
	binary.BigEndian.PutUint64(value[1:], math.Float64bits(prob))
	// Best effort: an entry too large or evicted is just a future miss.
	_ = c.store.Set(cacheKey(version, vec), value)
}

// Clear drops all entries. Called on snapshot swap.
func (c *PredictionCache) Clear() {
	c.store.Clear()
}

func cacheKey(version string, vec feature.Vector) []byte {
	h := murmur3.New128()
	h.Write([]byte(version))
	buf := make([]byte, 8)
	for _, v := range vec {
		binary.BigEndian.PutUint64(buf, math.Float64bits(v))
		h.Write(buf)
	}
	return h.Sum(nil)
}
