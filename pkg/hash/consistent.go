// Package hash provides a consistent hashing ring.
//
// This process has no cluster: there is a single directory of live keys,
// sharded across a fixed set of in-process shard actors purely to spread
// mailbox contention across goroutines. The ring here routes a key to a
// shard ID ("shard-0", "shard-1", ...) exactly the way it would route a
// key to a physical node in a distributed deployment — the shard count
// never changes at runtime, so the redistribution-on-resize property goes
// unused, but the lookup itself is the same problem.
//
// Example usage:
//
//	ch := hash.New(150)
//	ch.AddNode("shard-0")
//	ch.AddNode("shard-1")
//
//	shardID := ch.GetNode("user:123")
package hash

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"sync"
)

// DefaultVirtualNodes is the default number of virtual nodes per shard.
// Virtual nodes help achieve better key distribution across the hash ring.
// A higher number provides better distribution but uses more memory.
const DefaultVirtualNodes = 150

// ConsistentHash implements a consistent hashing ring with virtual nodes.
// It provides thread-safe operations for adding/removing shards and
// mapping keys to the shard responsible for them.
//
// The hash ring uses SHA-256 for hashing and maintains virtual nodes to
// ensure better key distribution. If the shard count ever changed at
// runtime, only a fraction of keys would need to move to a different
// shard — this process never resizes its shard set, but the directory
// still gets that property for free from the underlying ring.
type ConsistentHash struct {
	mu           sync.RWMutex      // Protects all fields
	ring         map[uint32]string // Hash -> shard ID mapping
	sortedHashes []uint32          // Sorted hash values for binary search
	nodes        map[string]bool   // Set of active shard IDs
	virtualNodes int               // Number of virtual nodes per shard
}

// New creates a new ConsistentHash with the specified number of virtual
// nodes. If virtualNodes is <= 0, DefaultVirtualNodes is used.
//
// Virtual nodes are replicas of each shard placed at different positions
// on the hash ring. More virtual nodes provide better distribution but
// consume more memory.
//
// Example:
//
//	ch := hash.New(100) // 100 virtual nodes per shard
func New(virtualNodes int) *ConsistentHash {
	if virtualNodes <= 0 {
		virtualNodes = DefaultVirtualNodes
	}
	return &ConsistentHash{
		ring:         make(map[uint32]string),
		nodes:        make(map[string]bool),
		virtualNodes: virtualNodes,
	}
}

// AddNode adds a shard ID to the consistent hash ring. The shard is
// replicated virtualNodes times around the ring. If the shard ID already
// exists, this operation is a no-op.
//
// The directory calls this once per shard at startup, with a fixed shard
// count that never changes afterward — but the ring supports adding a
// shard later without disturbing the majority of existing key
// assignments, should the shard count ever become dynamic.
//
// Example:
//
//	ch.AddNode("shard-0")
//	ch.AddNode("shard-1")
//
// Parameters:
//   - node: The shard identifier (e.g. "shard-0")
func (c *ConsistentHash) AddNode(node string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.nodes[node] {
		return
	}

	c.nodes[node] = true
	for i := 0; i < c.virtualNodes; i++ {
		virtualKey := fmt.Sprintf("%s:%d", node, i)
		hash := c.hashKey(virtualKey)
		c.ring[hash] = node
		c.sortedHashes = append(c.sortedHashes, hash)
	}
	sort.Slice(c.sortedHashes, func(i, j int) bool {
		return c.sortedHashes[i] < c.sortedHashes[j]
	})
}

// RemoveNode removes a shard ID from the consistent hash ring. All
// virtual nodes for this shard are removed. If the shard ID doesn't
// exist, this operation is a no-op.
//
// Removing a shard would cause keys previously routed to it to be
// redistributed across the remaining shards — unused in normal
// operation, since this process's shard count is fixed for its
// lifetime, but kept so the ring's contract stays symmetric.
//
// Example:
//
//	ch.RemoveNode("shard-0")
//
// Parameters:
//   - node: The shard identifier to remove
func (c *ConsistentHash) RemoveNode(node string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.nodes[node] {
		return
	}

	delete(c.nodes, node)
	for i := 0; i < c.virtualNodes; i++ {
		virtualKey := fmt.Sprintf("%s:%d", node, i)
		hash := c.hashKey(virtualKey)
		delete(c.ring, hash)
	}

	var newSortedHashes []uint32
	for _, hash := range c.sortedHashes {
		if _, exists := c.ring[hash]; exists {
			newSortedHashes = append(newSortedHashes, hash)
		}
	}
	c.sortedHashes = newSortedHashes
}

// GetNode returns the shard ID responsible for the given key. Returns an
// empty string if no shards are available.
//
// The same key always maps to the same shard ID unless the ring topology
// changes (shards added/removed).
//
// Example:
//
//	shardID := ch.GetNode("user:123")
//	if shardID != "" {
//		// route the key's commands to this shard's actor
//		fmt.Printf("key routed to shard: %s\n", shardID)
//	}
//
// Parameters:
//   - key: The key to hash and locate
//
// Returns:
//   - The shard identifier responsible for this key, or empty string if
//     no shards are registered
func (c *ConsistentHash) GetNode(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.ring) == 0 {
		return ""
	}

	hash := c.hashKey(key)
	idx := c.search(hash)
	return c.ring[c.sortedHashes[idx]]
}

// GetNodes returns a slice of all active shard IDs in the hash ring. The
// order is not guaranteed.
//
// Example:
//
//	shardIDs := ch.GetNodes()
//	fmt.Printf("active shards: %v\n", shardIDs)
//
// Returns:
//   - Slice of shard identifiers currently in the ring
func (c *ConsistentHash) GetNodes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	nodes := make([]string, 0, len(c.nodes))
	for node := range c.nodes {
		nodes = append(nodes, node)
	}
	return nodes
}

// search performs binary search to find the first hash >= the given hash.
// If no such hash exists, it wraps around to the first hash (index 0).
// This implements the circular nature of the hash ring.
func (c *ConsistentHash) search(hash uint32) int {
	idx := sort.Search(len(c.sortedHashes), func(i int) bool {
		return c.sortedHashes[i] >= hash
	})
	if idx == len(c.sortedHashes) {
		idx = 0
	}
	return idx
}

// hashKey computes a 32-bit hash of the given key using SHA-256.
// Only the first 4 bytes of the SHA-256 hash are used to create
// a 32-bit hash value for ring positioning.
func (c *ConsistentHash) hashKey(key string) uint32 {
	h := sha256.Sum256([]byte(key))
	return uint32(h[0])<<24 | uint32(h[1])<<16 | uint32(h[2])<<8 | uint32(h[3])
}

// Stats returns statistics about the current state of the hash ring.
// This is useful for monitoring and debugging the distribution of keys
// across shards.
//
// Example:
//
//	stats := ch.Stats()
//	fmt.Printf("shards: %d, virtual nodes: %d\n",
//		stats["nodes"], stats["virtual_nodes"])
//
// Returns:
//   - Map containing statistics:
//   - "nodes": number of shards
//   - "virtual_nodes": total number of virtual nodes
//   - "ring_size": size of the sorted hash array
func (c *ConsistentHash) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return map[string]interface{}{
		"nodes":         len(c.nodes),
		"virtual_nodes": len(c.ring),
		"ring_size":     len(c.sortedHashes),
	}
}
