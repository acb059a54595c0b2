package nav

import (
	"sync"

	"blockpath/engine/grid"
)

const (
	// DefaultCacheCapacity bounds the node cache when the caller does not
	// configure one.
	DefaultCacheCapacity = 10000

	// evictFraction of the capacity is dropped in one sweep once the cache
	// overflows.
	evictFraction = 10
)

// CacheStats is a point-in-time snapshot of cache behaviour.
type CacheStats struct {
	Size      int     `json:"size"`
	Capacity  int     `json:"capacity"`
	Hits      uint64  `json:"hits"`
	Misses    uint64  `json:"misses"`
	Evictions uint64  `json:"evictions"`
	HitRate   float64 `json:"hitRate"`
}

// NodeCache memoizes one Node per coordinate up to a fixed capacity.
//
// Eviction is deliberately approximate: once an insert pushes the cache past
// capacity, roughly a tenth of the entries are dropped in map iteration
// order. That order is arbitrary, not least-recently-used; the cache only
// promises boundedness, never recency. Evicted nodes become unreachable and
// a later Get for the same coordinate builds a fresh Node.
//
// The engine invokes searches one at a time, but stats and clears may arrive
// from diagnostics handlers on other goroutines, so all access goes through
// the mutex.
type NodeCache struct {
	mu        sync.Mutex
	nodes     map[grid.Coord]*Node
	capacity  int
	hits      uint64
	misses    uint64
	evictions uint64
}

// NewNodeCache builds a cache bounded to capacity entries. Non-positive
// capacities fall back to the default.
func NewNodeCache(capacity int) *NodeCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &NodeCache{
		nodes:    make(map[grid.Coord]*Node, capacity/4),
		capacity: capacity,
	}
}

// Get returns the live Node for the coordinate, creating it on first use.
// When the observed classification differs from the cached one the node is
// reset in place rather than replaced, so holders of the pointer see the
// refreshed terrain.
func (c *NodeCache) Get(x, y, z int, terrain Terrain) *Node {
	coord := grid.Coord{X: x, Y: y, Z: z}

	c.mu.Lock()
	defer c.mu.Unlock()

	if node, ok := c.nodes[coord]; ok {
		c.hits++
		if node.Terrain != terrain {
			node.reset(terrain)
		}
		return node
	}

	c.misses++
	node := newNode(coord, terrain)
	c.nodes[coord] = node
	if len(c.nodes) > c.capacity {
		c.evictLocked()
	}
	return node
}

// evictLocked drops roughly capacity/evictFraction entries. Selection is
// whatever the map yields first; see the type comment.
func (c *NodeCache) evictLocked() {
	batch := c.capacity / evictFraction
	if batch < 1 {
		batch = 1
	}
	for coord := range c.nodes {
		delete(c.nodes, coord)
		c.evictions++
		batch--
		if batch == 0 {
			break
		}
	}
}

// Clear drops every entry and resets the counters.
func (c *NodeCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nodes = make(map[grid.Coord]*Node, c.capacity/4)
	c.hits = 0
	c.misses = 0
	c.evictions = 0
}

// Stats snapshots the counters.
func (c *NodeCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := CacheStats{
		Size:      len(c.nodes),
		Capacity:  c.capacity,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total)
	}
	return stats
}
