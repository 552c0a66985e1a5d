package protocol

import "testing"

func TestParsePayloadEmpty(t *testing.T) {
	p := ParsePayload("")
	if p.Command != "" {
		t.Errorf("expected empty command, got %q", p.Command)
	}
}

func TestParsePayloadKeyedCommand(t *testing.T) {
	SetClassifier(func(cmd string) (NodeType, bool, bool) {
		if cmd == "get" {
			return StringNode, false, false
		}
		return "", false, false
	})
	defer SetClassifier(nil)

	p := ParsePayload("get mykey")
	if p.Command != "get" || p.Key != "mykey" || p.NodeType != StringNode {
		t.Errorf("unexpected payload: %+v", p)
	}
}

func TestParsePayloadClientCommand(t *testing.T) {
	SetClassifier(func(cmd string) (NodeType, bool, bool) {
		if cmd == "mget" {
			return "", true, false
		}
		return "", false, false
	})
	defer SetClassifier(nil)

	p := ParsePayload("mget a b c")
	if !p.IsClientCommand {
		t.Error("expected IsClientCommand to be true")
	}
	if len(p.Args) != 3 {
		t.Errorf("expected 3 args, got %d", len(p.Args))
	}
}

func TestParsePayloadKeyCommand(t *testing.T) {
	SetClassifier(func(cmd string) (NodeType, bool, bool) {
		if cmd == "keys" {
			return "", false, true
		}
		return "", false, false
	})
	defer SetClassifier(nil)

	p := ParsePayload("keys *")
	if !p.IsKeyCommand {
		t.Error("expected IsKeyCommand to be true")
	}
	if p.Key != "keys" {
		t.Errorf("expected synthetic key 'keys', got %q", p.Key)
	}
}

func TestResponseEncode(t *testing.T) {
	tests := []struct {
		name string
		resp *Response
		want string
	}{
		{"ok", OK(), "OK"},
		{"string", Str("hello"), "hello"},
		{"int", Int(42), "42"},
		{"bool true", Bool(true), "1"},
		{"bool false", Bool(false), "0"},
		{"list", List([]string{"a", "b"}), "a\nb"},
		{"nil", Nil(), "None"},
		{"error", Error("boom"), "boom"},
		{"nil response", nil, "None"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.resp.Encode(); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}
