package actor

import "testing"

func TestHashActorSetGet(t *testing.T) {
	a := NewHash()
	defer a.Stop()

	resp := send(t, a, "hset", "name", "Alice")
	if resp.Int != 1 {
		t.Errorf("hset on new field: got %d, want 1", resp.Int)
	}

	resp = send(t, a, "hset", "name", "Bob")
	if resp.Int != 0 {
		t.Errorf("hset overwrite: got %d, want 0", resp.Int)
	}

	resp = send(t, a, "hget", "name")
	if resp.Str != "Bob" {
		t.Errorf("hget: got %q, want %q", resp.Str, "Bob")
	}
}

func TestHashActorHSetNx(t *testing.T) {
	a := NewHash()
	defer a.Stop()

	send(t, a, "hset", "f", "v1")
	resp := send(t, a, "hsetnx", "f", "v2")
	if resp.Int != 0 {
		t.Errorf("hsetnx on existing field: got %d, want 0", resp.Int)
	}
	resp = send(t, a, "hget", "f")
	if resp.Str != "v1" {
		t.Errorf("hsetnx should not overwrite: got %q", resp.Str)
	}
}

func TestHashActorHDelHExists(t *testing.T) {
	a := NewHash()
	defer a.Stop()

	send(t, a, "hset", "f", "v")
	if resp := send(t, a, "hexists", "f"); !resp.Bool {
		t.Error("expected hexists true")
	}
	if resp := send(t, a, "hdel", "f"); !resp.Bool {
		t.Error("expected hdel true")
	}
	if resp := send(t, a, "hexists", "f"); resp.Bool {
		t.Error("expected hexists false after delete")
	}
}

func TestHashActorHIncrBy(t *testing.T) {
	a := NewHash()
	defer a.Stop()

	resp := send(t, a, "hincrby", "count", "5")
	if resp.Int != 5 {
		t.Errorf("hincrby on missing field: got %d, want 5", resp.Int)
	}
	resp = send(t, a, "hincrby", "count", "3")
	if resp.Int != 8 {
		t.Errorf("hincrby: got %d, want 8", resp.Int)
	}
}

func TestHashActorHScanFlattensPairs(t *testing.T) {
	a := NewHash()
	defer a.Stop()

	send(t, a, "hset", "alpha", "1")
	send(t, a, "hset", "beta", "2")

	resp := send(t, a, "hscan", "0", "*", "10")
	if len(resp.List) == 0 {
		t.Fatal("expected non-empty hscan result")
	}
	// first element is the next cursor, followed by field,value pairs
	if len(resp.List[1:])%2 != 0 {
		t.Errorf("expected flattened field/value pairs, got %v", resp.List)
	}
}
