package session

import (
	"context"
	"sync"

	"github.com/keynode/keynode/pkg/protocol"
)

// handleClient answers the client-local orchestration commands: these
// aren't a single key's concern, so the session itself fans the work out
// across the directory, one goroutine per key, gathered under the same
// 10-second ask timeout as any other dispatch.
func (s *Session) handleClient(ctx context.Context, p *protocol.Payload) *protocol.Response {
	switch p.Command {
	case "mget":
		return s.handleMGet(ctx, p.Args)
	case "mset":
		return s.handleMSet(ctx, p.Args)
	case "msetnx":
		return s.handleMSetNx(ctx, p.Args)
	default:
		return protocol.Errorf("unknown command: %s", p.Command)
	}
}

func (s *Session) handleMGet(ctx context.Context, keys []string) *protocol.Response {
	if len(keys) == 0 {
		return protocol.Error("Too few parameters")
	}
	results := make([]string, len(keys))
	var wg sync.WaitGroup
	for i, key := range keys {
		wg.Add(1)
		go func(i int, key string) {
			defer wg.Done()
			a, nodeType, found := s.dir.Resolve(ctx, key)
			if !found || nodeType != protocol.StringNode {
				results[i] = "None"
				return
			}
			resp, err := a.Send(ctx, &protocol.Payload{Command: "get", NodeType: protocol.StringNode, Key: key})
			if err != nil || resp.Type == protocol.RespError {
				results[i] = "None"
				return
			}
			results[i] = resp.Str
		}(i, key)
	}
	wg.Wait()
	return protocol.List(results)
}

// pairs splits a flat key,value,key,value... argument list.
func pairs(args []string) ([][2]string, bool) {
	if len(args) == 0 || len(args)%2 != 0 {
		return nil, false
	}
	out := make([][2]string, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		out = append(out, [2]string{args[i], args[i+1]})
	}
	return out, true
}

func (s *Session) handleMSet(ctx context.Context, args []string) *protocol.Response {
	kv, ok := pairs(args)
	if !ok {
		return protocol.Error("Too few parameters")
	}
	var wg sync.WaitGroup
	for _, kv := range kv {
		wg.Add(1)
		go func(key, value string) {
			defer wg.Done()
			s.dir.Dispatch(ctx, &protocol.Payload{Command: "set", NodeType: protocol.StringNode, Key: key, Args: []string{value}})
		}(kv[0], kv[1])
	}
	wg.Wait()
	return protocol.OK()
}

// handleMSetNx succeeds, performing every write, only when none of the
// given keys currently exist; otherwise it mutates nothing and returns 0 —
// the atomic-create-only reading of the ambiguous "msetnx" wording (see
// DESIGN.md).
func (s *Session) handleMSetNx(ctx context.Context, args []string) *protocol.Response {
	kv, ok := pairs(args)
	if !ok {
		return protocol.Error("Too few parameters")
	}
	keys := make([]string, len(kv))
	for i, p := range kv {
		keys[i] = p[0]
	}
	if s.dir.AnyExists(ctx, keys) {
		return protocol.Int(0)
	}
	s.handleMSet(ctx, args)
	return protocol.Int(1)
}
