package directory

import (
	"context"

	"github.com/keynode/keynode/pkg/actor"
	"github.com/keynode/keynode/pkg/protocol"
)

// entry is what a shard owns per live key: the actor handling that key's
// commands, and the node type it was created as (so a later command with a
// mismatched type can be rejected before ever reaching the actor).
type entry struct {
	actor    actor.ValueActor
	nodeType protocol.NodeType
}

type shardOp int

const (
	opEnsure shardOp = iota
	opResolve
	opDelete
	opKeys
	opStopAll
)

type shardRequest struct {
	op       shardOp
	key      string
	nodeType protocol.NodeType
	dispatch actor.Dispatcher
	reply    chan shardResponse
}

type shardResponse struct {
	actor    actor.ValueActor
	nodeType protocol.NodeType
	found    bool
	deleted  bool
	keys     []string
}

// shard owns a disjoint partition of the key directory. Like a value
// actor, it is driven by exactly one goroutine reading from its own
// mailbox, so its entries map never needs a lock — this is the same
// single-writer-goroutine shape as pkg/actor, just one level up, sharding
// the directory itself instead of a single key's state.
type shard struct {
	id      string
	entries map[string]*entry
	inbox   chan shardRequest
	quit    chan struct{}
}

func newShard(id string) *shard {
	s := &shard{
		id:      id,
		entries: make(map[string]*entry),
		inbox:   make(chan shardRequest, 256),
		quit:    make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *shard) run() {
	for {
		select {
		case req := <-s.inbox:
			s.handle(req)
		case <-s.quit:
			return
		}
	}
}

func (s *shard) handle(req shardRequest) {
	switch req.op {
	case opEnsure:
		e, ok := s.entries[req.key]
		if !ok {
			e = &entry{actor: newActor(req.nodeType, req.dispatch), nodeType: req.nodeType}
			s.entries[req.key] = e
		}
		req.reply <- shardResponse{actor: e.actor, nodeType: e.nodeType, found: true}
	case opResolve:
		e, ok := s.entries[req.key]
		if !ok {
			req.reply <- shardResponse{found: false}
			return
		}
		req.reply <- shardResponse{actor: e.actor, nodeType: e.nodeType, found: true}
	case opDelete:
		e, ok := s.entries[req.key]
		if !ok {
			req.reply <- shardResponse{deleted: false}
			return
		}
		e.actor.Stop()
		delete(s.entries, req.key)
		req.reply <- shardResponse{deleted: true}
	case opKeys:
		keys := make([]string, 0, len(s.entries))
		for k := range s.entries {
			keys = append(keys, k)
		}
		req.reply <- shardResponse{keys: keys}
	case opStopAll:
		for _, e := range s.entries {
			e.actor.Stop()
		}
		close(s.quit)
		req.reply <- shardResponse{}
	}
}

func (s *shard) send(ctx context.Context, req shardRequest) (shardResponse, error) {
	req.reply = make(chan shardResponse, 1)
	select {
	case s.inbox <- req:
	case <-ctx.Done():
		return shardResponse{}, ctx.Err()
	}
	select {
	case resp := <-req.reply:
		return resp, nil
	case <-ctx.Done():
		return shardResponse{}, ctx.Err()
	}
}

// newActor constructs the concrete value actor for a node type. List and
// set actors receive dispatch so RPOPLPUSH, SMOVE and the *STORE
// set-algebra commands can reach other keys without the actor package
// depending on the directory package directly.
func newActor(nodeType protocol.NodeType, dispatch actor.Dispatcher) actor.ValueActor {
	switch nodeType {
	case protocol.StringNode:
		return actor.NewString()
	case protocol.HashNode:
		return actor.NewHash()
	case protocol.ListNode:
		return actor.NewList(dispatch)
	case protocol.SetNode:
		return actor.NewSet(dispatch)
	default:
		return actor.NewString()
	}
}
