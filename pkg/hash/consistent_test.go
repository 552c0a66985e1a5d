package hash

import (
	"fmt"
	"testing"
)

func TestConsistentHash(t *testing.T) {
	ch := New(3)

	shards := []string{"shard-0", "shard-1", "shard-2"}
	for _, shard := range shards {
		ch.AddNode(shard)
	}

	if len(ch.GetNodes()) != 3 {
		t.Errorf("Expected 3 shards, got %d", len(ch.GetNodes()))
	}

	key1 := "user:1"
	key2 := "user:2"

	shard1 := ch.GetNode(key1)
	shard2 := ch.GetNode(key2)

	if shard1 == "" || shard2 == "" {
		t.Error("GetNode returned empty string")
	}

	for i := 0; i < 10; i++ {
		if ch.GetNode(key1) != shard1 {
			t.Error("GetNode should be consistent")
		}
	}

	ch.RemoveNode("shard-0")
	if len(ch.GetNodes()) != 2 {
		t.Errorf("Expected 2 shards after removal, got %d", len(ch.GetNodes()))
	}

	newShard1 := ch.GetNode(key1)
	if newShard1 == "shard-0" {
		t.Error("Removed shard should not be returned")
	}
}

func TestConsistentHashDistribution(t *testing.T) {
	ch := New(150)

	shards := []string{"shard-0", "shard-1", "shard-2"}
	for _, shard := range shards {
		ch.AddNode(shard)
	}

	distribution := make(map[string]int)

	for i := 0; i < 1000; i++ {
		key := fmt.Sprintf("key_%d", i)
		shard := ch.GetNode(key)
		distribution[shard]++
	}

	for shard, count := range distribution {
		if count < 200 || count > 500 {
			t.Errorf("Poor distribution for shard %s: %d keys", shard, count)
		}
	}
}

func TestConsistentHashStats(t *testing.T) {
	ch := New(10)
	ch.AddNode("shard-0")
	ch.AddNode("shard-1")

	stats := ch.Stats()
	if stats["nodes"] != 2 {
		t.Errorf("Stats()[\"nodes\"] = %v, want 2", stats["nodes"])
	}
	if stats["virtual_nodes"] != 20 {
		t.Errorf("Stats()[\"virtual_nodes\"] = %v, want 20", stats["virtual_nodes"])
	}
}
