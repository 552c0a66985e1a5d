package session

import (
	"testing"

	"github.com/keynode/keynode/pkg/protocol"
)

func TestHandleMSetThenMGet(t *testing.T) {
	s := newTestSession(t)

	resp := s.process("mset a 1 b 2")
	if resp.Type != protocol.RespOK {
		t.Fatalf("mset: unexpected response %+v", resp)
	}

	resp = s.process("mget a b missing")
	want := []string{"1", "2", "None"}
	if len(resp.List) != len(want) {
		t.Fatalf("mget: got %v, want %v", resp.List, want)
	}
	for i := range want {
		if resp.List[i] != want[i] {
			t.Errorf("mget[%d] = %q, want %q", i, resp.List[i], want[i])
		}
	}
}

func TestHandleMSetNxFailsWhenAnyKeyExists(t *testing.T) {
	s := newTestSession(t)

	s.process("set a existing")
	resp := s.process("msetnx a 1 b 2")
	if resp.Int != 0 {
		t.Fatalf("msetnx: got %+v, want 0", resp)
	}

	resp = s.process("exists b")
	if resp.Bool {
		t.Error("msetnx must not create any key when one already exists")
	}
}

func TestHandleMSetNxSucceedsWhenNoneExist(t *testing.T) {
	s := newTestSession(t)

	resp := s.process("msetnx x 1 y 2")
	if resp.Int != 1 {
		t.Fatalf("msetnx: got %+v, want 1", resp)
	}

	resp = s.process("get x")
	if resp.Str != "1" {
		t.Errorf("get x: got %q, want %q", resp.Str, "1")
	}
	resp = s.process("get y")
	if resp.Str != "2" {
		t.Errorf("get y: got %q, want %q", resp.Str, "2")
	}
}
