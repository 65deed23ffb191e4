package scripttable

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/nspcc-dev/neovm/pkg/util"
	"github.com/nspcc-dev/neovm/pkg/vm"
)

// DefaultCacheSize is the number of scripts Cached keeps by default.
const DefaultCacheSize = 256

type cacheKey struct {
	hash    util.Uint160
	dynamic bool
}

// Cached is an LRU cache in front of some other script table. Only found
// scripts are cached.
type Cached struct {
	table vm.ScriptTable
	cache *lru.Cache
}

var _ vm.ScriptTable = (*Cached)(nil)

// NewCached wraps the table with a cache of the given size, non-positive
// size means DefaultCacheSize.
func NewCached(table vm.ScriptTable, size int) *Cached {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, _ := lru.New(size) // Never errors for positive size.
	return &Cached{
		table: table,
		cache: cache,
	}
}

// GetScript implements the vm.ScriptTable interface.
func (c *Cached) GetScript(h util.Uint160, isDynamicInvoke bool) []byte {
	key := cacheKey{hash: h, dynamic: isDynamicInvoke}
	if s, ok := c.cache.Get(key); ok {
		return s.([]byte)
	}
	script := c.table.GetScript(h, isDynamicInvoke)
	if script != nil {
		_ = c.cache.Add(key, script)
	}
	return script
}

// Purge drops all cached scripts.
func (c *Cached) Purge() {
	c.cache.Purge()
}

// Len returns the number of cached scripts.
func (c *Cached) Len() int {
	return c.cache.Len()
}
