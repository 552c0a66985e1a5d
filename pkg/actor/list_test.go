package actor

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/keynode/keynode/pkg/protocol"
)

func TestListActorPushPop(t *testing.T) {
	a := NewList(nil)
	defer a.Stop()

	resp := send(t, a, "rpush", "a", "b", "c")
	if resp.Int != 3 {
		t.Errorf("rpush: got %d, want 3", resp.Int)
	}

	resp = send(t, a, "lpush", "z")
	if resp.Int != 4 {
		t.Errorf("lpush: got %d, want 4", resp.Int)
	}

	resp = send(t, a, "lrange", "0", "-1")
	want := []string{"z", "a", "b", "c"}
	if !reflect.DeepEqual(resp.List, want) {
		t.Errorf("lrange: got %v, want %v", resp.List, want)
	}

	resp = send(t, a, "lpop")
	if resp.Str != "z" {
		t.Errorf("lpop: got %q, want %q", resp.Str, "z")
	}

	resp = send(t, a, "rpop")
	if resp.Str != "c" {
		t.Errorf("rpop: got %q, want %q", resp.Str, "c")
	}
}

func TestListActorLRemPositional(t *testing.T) {
	a := NewList(nil)
	defer a.Stop()

	send(t, a, "rpush", "a", "b", "c")
	resp := send(t, a, "lrem", "1")
	if !resp.Bool {
		t.Fatal("expected lrem to report success")
	}

	resp = send(t, a, "lrange", "0", "-1")
	want := []string{"a", "c"}
	if !reflect.DeepEqual(resp.List, want) {
		t.Errorf("lrange after lrem: got %v, want %v", resp.List, want)
	}
}

func TestListActorLInsert(t *testing.T) {
	a := NewList(nil)
	defer a.Stop()

	send(t, a, "rpush", "a", "c")
	resp := send(t, a, "linsert", "before", "c", "b")
	if resp.Int != 3 {
		t.Errorf("linsert: got %d, want 3", resp.Int)
	}

	resp = send(t, a, "lrange", "0", "-1")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(resp.List, want) {
		t.Errorf("lrange after linsert: got %v, want %v", resp.List, want)
	}
}

// A compliant client sends the wire syntax from spec.md §4.4 verbatim:
// LINSERT BEFORE|AFTER pivot v — uppercase, since ParsePayload only
// lowercases the command token, not its arguments.
func TestListActorLInsertUppercaseWireSyntax(t *testing.T) {
	a := NewList(nil)
	defer a.Stop()

	send(t, a, "rpush", "a", "c")
	resp := send(t, a, "linsert", "BEFORE", "c", "b")
	if resp.Int != 3 {
		t.Errorf("linsert BEFORE: got %d, want 3", resp.Int)
	}

	resp = send(t, a, "lrange", "0", "-1")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(resp.List, want) {
		t.Errorf("lrange after linsert BEFORE: got %v, want %v", resp.List, want)
	}

	resp = send(t, a, "linsert", "AFTER", "c", "d")
	if resp.Int != 4 {
		t.Errorf("linsert AFTER: got %d, want 4", resp.Int)
	}
}

type stubDispatcher struct {
	dest ValueActor
}

func (d *stubDispatcher) Resolve(ctx context.Context, key string) (ValueActor, protocol.NodeType, bool) {
	if d.dest == nil {
		return nil, "", false
	}
	return d.dest, d.dest.NodeType(), true
}

func (d *stubDispatcher) EnsureAndTell(ctx context.Context, key string, nodeType protocol.NodeType, p *protocol.Payload) error {
	if d.dest == nil {
		d.dest = NewList(nil)
	}
	return d.dest.Tell(ctx, p)
}

func TestListActorRPopLPush(t *testing.T) {
	dest := NewList(nil)
	defer dest.Stop()
	dispatch := &stubDispatcher{dest: dest}

	src := NewList(dispatch)
	defer src.Stop()

	send(t, src, "rpush", "x", "y", "z")
	resp := send(t, src, "rpoplpush", "other")
	if resp.Str != "z" {
		t.Fatalf("rpoplpush returned %q, want %q", resp.Str, "z")
	}

	// Give the fire-and-forget push to dest a moment to land.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for i := 0; i < 50; i++ {
		r, err := dest.Send(ctx, &protocol.Payload{Command: "llen", NodeType: protocol.ListNode, Key: "other"})
		if err == nil && r.Int == 1 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	resp, err := dest.Send(ctx, &protocol.Payload{Command: "lindex", NodeType: protocol.ListNode, Key: "other", Args: []string{"0"}})
	if err != nil {
		t.Fatalf("lindex: %v", err)
	}
	if resp.Str != "z" {
		t.Errorf("destination head = %q, want %q", resp.Str, "z")
	}
}
