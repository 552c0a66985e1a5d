package actor

import (
	"context"
	"testing"
	"time"

	"github.com/keynode/keynode/pkg/protocol"
)

func send(t *testing.T, a ValueActor, cmd string, args ...string) *protocol.Response {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	resp, err := a.Send(ctx, &protocol.Payload{Command: cmd, NodeType: a.NodeType(), Key: "k", Args: args})
	if err != nil {
		t.Fatalf("send %s: %v", cmd, err)
	}
	return resp
}

func TestStringActorSetGet(t *testing.T) {
	a := NewString()
	defer a.Stop()

	resp := send(t, a, "set", "hello")
	if resp.Type != protocol.RespOK {
		t.Fatalf("set: unexpected response %+v", resp)
	}

	resp = send(t, a, "get")
	if resp.Str != "hello" {
		t.Errorf("get: got %q, want %q", resp.Str, "hello")
	}
}

func TestStringActorIncrDecr(t *testing.T) {
	a := NewString()
	defer a.Stop()

	send(t, a, "set", "10")
	resp := send(t, a, "incr")
	if resp.Int != 11 {
		t.Errorf("incr: got %d, want 11", resp.Int)
	}

	resp = send(t, a, "decrby", "5")
	if resp.Int != 6 {
		t.Errorf("decrby: got %d, want 6", resp.Int)
	}
}

func TestStringActorAppendStrlen(t *testing.T) {
	a := NewString()
	defer a.Stop()

	send(t, a, "set", "foo")
	resp := send(t, a, "append", "bar")
	if resp.Str != "foobar" {
		t.Errorf("append: got %q, want %q", resp.Str, "foobar")
	}

	resp = send(t, a, "strlen")
	if resp.Int != 6 {
		t.Errorf("strlen: got %d, want 6", resp.Int)
	}
}

func TestStringActorGetRangeNegativeIndices(t *testing.T) {
	a := NewString()
	defer a.Stop()

	send(t, a, "set", "Hello World")
	resp := send(t, a, "getrange", "-5", "-1")
	if resp.Str != "World" {
		t.Errorf("getrange: got %q, want %q", resp.Str, "World")
	}
}

func TestStringActorSetRangeSpliceOneChar(t *testing.T) {
	a := NewString()
	defer a.Stop()

	send(t, a, "set", "Hello")
	resp := send(t, a, "setrange", "0", "J")
	if resp.Str != "Jello" {
		t.Errorf("setrange: got %q, want %q", resp.Str, "Jello")
	}
}

func TestStringActorTypeMismatch(t *testing.T) {
	a := NewString()
	defer a.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	resp, err := a.Send(ctx, &protocol.Payload{Command: "hget", NodeType: protocol.HashNode, Key: "k"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if resp.Type != protocol.RespError {
		t.Errorf("expected type-mismatch error, got %+v", resp)
	}
}

func TestStringActorStopRejectsFurtherMessages(t *testing.T) {
	a := NewString()
	a.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := a.Send(ctx, &protocol.Payload{Command: "get", NodeType: protocol.StringNode, Key: "k"})
	if err != ErrStopped {
		t.Errorf("expected ErrStopped, got %v", err)
	}
}
