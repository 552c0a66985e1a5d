package registry

import (
	"testing"

	"github.com/keynode/keynode/pkg/protocol"
)

func TestLookupKnownCommands(t *testing.T) {
	tests := []struct {
		cmd      string
		nodeType protocol.NodeType
		isClient bool
		isKey    bool
	}{
		{"get", protocol.StringNode, false, false},
		{"hset", protocol.HashNode, false, false},
		{"lpush", protocol.ListNode, false, false},
		{"sadd", protocol.SetNode, false, false},
		{"keys", protocol.KeyNode, false, true},
		{"mget", protocol.ClientNode, true, false},
	}

	for _, tt := range tests {
		nt, isClient, isKey := Lookup(tt.cmd)
		if nt != tt.nodeType || isClient != tt.isClient || isKey != tt.isKey {
			t.Errorf("Lookup(%q) = (%v, %v, %v), want (%v, %v, %v)",
				tt.cmd, nt, isClient, isKey, tt.nodeType, tt.isClient, tt.isKey)
		}
	}
}

func TestLookupUnknownCommand(t *testing.T) {
	nt, isClient, isKey := Lookup("nosuchcommand")
	if nt != "" || isClient || isKey {
		t.Errorf("expected zero values for unknown command, got (%v, %v, %v)", nt, isClient, isKey)
	}
}

func TestMustExistAndCantExist(t *testing.T) {
	if !MustExist("lpushx") {
		t.Error("expected lpushx to require existence")
	}
	if MustExist("lpush") {
		t.Error("did not expect lpush to require existence")
	}
	if !CantExist("setnx") {
		t.Error("expected setnx to require non-existence")
	}
	if CantExist("set") {
		t.Error("did not expect set to require non-existence")
	}
}

func TestNotImplemented(t *testing.T) {
	if !NotImplemented("blpop") {
		t.Error("expected blpop to be marked not implemented")
	}
	if NotImplemented("lpop") {
		t.Error("did not expect lpop to be marked not implemented")
	}
}
