package directory

import (
	"context"
	"testing"
	"time"

	"github.com/keynode/keynode/pkg/protocol"
)

func withTimeout(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithTimeout(context.Background(), time.Second)
}

func TestDirectoryDispatchCreatesAndRoutes(t *testing.T) {
	d := New(4, 10)
	defer d.Stop()
	ctx, cancel := withTimeout(t)
	defer cancel()

	resp := d.Dispatch(ctx, &protocol.Payload{Command: "set", NodeType: protocol.StringNode, Key: "greeting", Args: []string{"hi"}})
	if resp.Type != protocol.RespOK {
		t.Fatalf("set: unexpected response %+v", resp)
	}

	resp = d.Dispatch(ctx, &protocol.Payload{Command: "get", NodeType: protocol.StringNode, Key: "greeting"})
	if resp.Str != "hi" {
		t.Errorf("get: got %q, want %q", resp.Str, "hi")
	}
}

func TestDirectoryDispatchTypeMismatch(t *testing.T) {
	d := New(2, 10)
	defer d.Stop()
	ctx, cancel := withTimeout(t)
	defer cancel()

	d.Dispatch(ctx, &protocol.Payload{Command: "set", NodeType: protocol.StringNode, Key: "k", Args: []string{"v"}})
	resp := d.Dispatch(ctx, &protocol.Payload{Command: "hget", NodeType: protocol.HashNode, Key: "k", Args: []string{"f"}})
	if resp.Type != protocol.RespError {
		t.Errorf("expected type-mismatch error, got %+v", resp)
	}
}

func TestDirectoryExistsAndDelete(t *testing.T) {
	d := New(4, 10)
	defer d.Stop()
	ctx, cancel := withTimeout(t)
	defer cancel()

	if d.Exists(ctx, "missing") {
		t.Error("expected missing key to not exist")
	}

	d.Dispatch(ctx, &protocol.Payload{Command: "set", NodeType: protocol.StringNode, Key: "k", Args: []string{"v"}})
	if !d.Exists(ctx, "k") {
		t.Error("expected key to exist after set")
	}

	if !d.Delete(ctx, "k") {
		t.Error("expected delete to report true for existing key")
	}
	if d.Exists(ctx, "k") {
		t.Error("expected key to no longer exist after delete")
	}
	if d.Delete(ctx, "k") {
		t.Error("expected second delete to report false")
	}
}

func TestDirectoryAllExistAnyExists(t *testing.T) {
	d := New(4, 10)
	defer d.Stop()
	ctx, cancel := withTimeout(t)
	defer cancel()

	d.Dispatch(ctx, &protocol.Payload{Command: "set", NodeType: protocol.StringNode, Key: "a", Args: []string{"1"}})

	if d.AllExist(ctx, []string{"a", "b"}) {
		t.Error("expected AllExist false when one key missing")
	}
	if !d.AnyExists(ctx, []string{"a", "b"}) {
		t.Error("expected AnyExists true when one key present")
	}
	if d.AnyExists(ctx, []string{"b", "c"}) {
		t.Error("expected AnyExists false when none present")
	}
}

func TestDirectoryKeysAndScan(t *testing.T) {
	d := New(4, 10)
	defer d.Stop()
	ctx, cancel := withTimeout(t)
	defer cancel()

	for _, k := range []string{"user:1", "user:2", "order:1"} {
		d.Dispatch(ctx, &protocol.Payload{Command: "set", NodeType: protocol.StringNode, Key: k, Args: []string{"x"}})
	}

	keys := d.Keys(ctx)
	if len(keys) != 3 {
		t.Fatalf("keys: got %d, want 3", len(keys))
	}

	_, page := d.Scan(ctx, 0, "user:*", 10)
	if len(page) != 2 {
		t.Errorf("scan user:*: got %v, want 2 matches", page)
	}
}

func TestDirectoryKeyCommandsViaDispatch(t *testing.T) {
	d := New(2, 10)
	defer d.Stop()
	ctx, cancel := withTimeout(t)
	defer cancel()

	resp := d.Dispatch(ctx, &protocol.Payload{Command: "add", IsKeyCommand: true, Args: []string{"newkey", "string"}})
	if !resp.Bool {
		t.Fatalf("add: expected true, got %+v", resp)
	}

	resp = d.Dispatch(ctx, &protocol.Payload{Command: "add", IsKeyCommand: true, Args: []string{"newkey", "string"}})
	if resp.Bool {
		t.Error("add: expected false for already-existing key")
	}

	resp = d.Dispatch(ctx, &protocol.Payload{Command: "exists", IsKeyCommand: true, Args: []string{"newkey"}})
	if !resp.Bool {
		t.Error("exists: expected true")
	}

	resp = d.Dispatch(ctx, &protocol.Payload{Command: "del", IsKeyCommand: true, Args: []string{"newkey"}})
	if resp.Int != 1 {
		t.Errorf("del: got %d, want 1", resp.Int)
	}
}

func TestDirectoryRandomKeyEmpty(t *testing.T) {
	d := New(2, 10)
	defer d.Stop()
	ctx, cancel := withTimeout(t)
	defer cancel()

	if _, ok := d.RandomKey(ctx); ok {
		t.Error("expected RandomKey to report false on empty directory")
	}
}
