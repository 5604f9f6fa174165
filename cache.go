package cellr

import (
	"strconv"
	"sync"

	"github.com/dgraph-io/ristretto/v2"
)

const (
	DefaultRistrettoNumCounters = 10 * 100 * 1024
	DefaultRistrettoMaxCost     = 100 * 1024
	DefaultRistrettoBufferItems = 64
)

// geometryKeyTemplate documents the cache key layout: ellipsoid id,
// colon, cell id in lowercase hex.
const geometryKeyTemplate = "%s:%x"

// Cacher stores realized geometry between lookups.
type Cacher interface {
	Get(key string) (Geometry, bool)
	Set(key string, value Geometry) bool
	Close()
	Clear()
}

// keyBufPool provides shared 64-byte pre-allocated buffers for building
// cache keys.
var keyBufPool = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, 64)
		return &buf
	},
}

// buildGeometryKey efficiently builds the cache key for a cell on an
// ellipsoid using a shared buffer pool.
func buildGeometryKey(ellipsoidID string, id CellID) string {
	bufPtr, _ := keyBufPool.Get().(*[]byte) //nolint:errcheck
	buf := (*bufPtr)[:0]                    // Reset length but keep capacity
	defer keyBufPool.Put(bufPtr)

	buf = append(buf, ellipsoidID...)
	buf = append(buf, ':')
	buf = strconv.AppendUint(buf, uint64(id), 16)

	return string(buf)
}

type RistrettoCacheOption = func(cfg *ristretto.Config[string, Geometry])

func NewRistrettoCache(opts ...RistrettoCacheOption) (*RistrettoCache, error) {
	cfg := &ristretto.Config[string, Geometry]{
		NumCounters: DefaultRistrettoNumCounters,
		MaxCost:     DefaultRistrettoMaxCost,
		BufferItems: DefaultRistrettoBufferItems,
	}

	for _, o := range opts {
		o(cfg)
	}

	cache, err := ristretto.NewCache(cfg)
	if err != nil {
		return &RistrettoCache{}, err
	}

	return &RistrettoCache{
		cache: cache,
	}, nil
}

type RistrettoCache struct {
	cache *ristretto.Cache[string, Geometry]
}

func (rc *RistrettoCache) Get(key string) (Geometry, bool) {
	return rc.cache.Get(key)
}

func (rc *RistrettoCache) Set(key string, value Geometry) bool {
	ok := rc.cache.Set(key, value, 1)
	rc.cache.Wait()

	return ok
}

func (rc *RistrettoCache) Close() {
	rc.cache.Close()
}

func (rc *RistrettoCache) Clear() {
	rc.cache.Clear()
}
