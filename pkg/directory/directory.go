// Package directory implements the sharded key directory: the mapping from
// key name to the actor currently responsible for it. The directory itself
// never holds key state — each shard actor owns the state for its own
// partition of keys, and the directory is just consistent-hash routing
// plus the KEYS/SCAN/EXISTS/DEL/ADD/RANDOMKEY fan-out logic that spans
// shards.
package directory

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/keynode/keynode/pkg/actor"
	"github.com/keynode/keynode/pkg/hash"
	"github.com/keynode/keynode/pkg/protocol"
	"github.com/keynode/keynode/pkg/scan"
)

// shardFanoutTimeout bounds a single round-trip to one shard when gathering
// across all shards (KEYS, SCAN, RANDOMKEY) and when stopping them.
// EXISTS and DEL ask each key's own shard under the caller's context.
const shardFanoutTimeout = 2 * time.Second

// Directory routes keys to shard actors over a consistent-hash ring and
// answers the directory-level wire commands (KeyNode in the registry).
type Directory struct {
	ring   *hash.ConsistentHash
	shards map[string]*shard
	order  []*shard
}

// New builds a Directory with shardCount shards, each replicated
// virtualNodes times on the routing ring.
func New(shardCount, virtualNodes int) *Directory {
	if shardCount <= 0 {
		shardCount = 1
	}
	d := &Directory{
		ring:   hash.New(virtualNodes),
		shards: make(map[string]*shard, shardCount),
	}
	for i := 0; i < shardCount; i++ {
		id := "shard-" + strconv.Itoa(i)
		s := newShard(id)
		d.shards[id] = s
		d.order = append(d.order, s)
		d.ring.AddNode(id)
	}
	return d
}

func (d *Directory) shardFor(key string) *shard {
	id := d.ring.GetNode(key)
	if s, ok := d.shards[id]; ok {
		return s
	}
	return d.order[0]
}

// Resolve implements actor.Resolver: look up the actor for key without
// creating one.
func (d *Directory) Resolve(ctx context.Context, key string) (actor.ValueActor, protocol.NodeType, bool) {
	resp, err := d.shardFor(key).send(ctx, shardRequest{op: opResolve, key: key})
	if err != nil || !resp.found {
		return nil, "", false
	}
	return resp.actor, resp.nodeType, true
}

// EnsureAndTell implements actor.Dispatcher: create the key as nodeType if
// it doesn't exist yet (or reuse the existing actor if the type matches),
// then fire the payload at it without waiting for the handler to run.
func (d *Directory) EnsureAndTell(ctx context.Context, key string, nodeType protocol.NodeType, p *protocol.Payload) error {
	a, existingType, err := d.ensure(ctx, key, nodeType)
	if err != nil {
		return err
	}
	if existingType != nodeType {
		return fmt.Errorf("type mismatch: key holds a %s value, not %s", existingType, nodeType)
	}
	return a.Tell(ctx, p)
}

// ensure resolves key to its actor, creating it as nodeType if absent.
func (d *Directory) ensure(ctx context.Context, key string, nodeType protocol.NodeType) (actor.ValueActor, protocol.NodeType, error) {
	resp, err := d.shardFor(key).send(ctx, shardRequest{op: opEnsure, key: key, nodeType: nodeType, dispatch: d})
	if err != nil {
		return nil, "", err
	}
	return resp.actor, resp.nodeType, nil
}

// Exists reports whether key currently has a live actor, without creating
// one — used by the session to enforce must-exist (LPUSHX/RPUSHX) and
// cannot-exist (SETNX) preconditions before a payload ever reaches an
// actor.
func (d *Directory) Exists(ctx context.Context, key string) bool {
	_, _, found := d.Resolve(ctx, key)
	return found
}

// AllExist reports whether every given key currently exists — the
// "exists" wire command's all-match semantics.
func (d *Directory) AllExist(ctx context.Context, keys []string) bool {
	for _, k := range keys {
		if !d.Exists(ctx, k) {
			return false
		}
	}
	return true
}

// AnyExists reports whether at least one of the given keys currently
// exists — used by MSETNX, which must succeed only when none do.
func (d *Directory) AnyExists(ctx context.Context, keys []string) bool {
	for _, k := range keys {
		if d.Exists(ctx, k) {
			return true
		}
	}
	return false
}

// Delete removes key's actor (stopping it) and reports whether it had
// existed.
func (d *Directory) Delete(ctx context.Context, key string) bool {
	resp, err := d.shardFor(key).send(ctx, shardRequest{op: opDelete, key: key})
	if err != nil {
		return false
	}
	return resp.deleted
}

// Keys gathers every live key across all shards.
func (d *Directory) Keys(ctx context.Context) []string {
	var all []string
	for _, s := range d.order {
		shardCtx, cancel := context.WithTimeout(ctx, shardFanoutTimeout)
		resp, err := s.send(shardCtx, shardRequest{op: opKeys})
		cancel()
		if err != nil {
			continue
		}
		all = append(all, resp.keys...)
	}
	return all
}

// RandomKey picks a key uniformly at random from the full directory, or
// reports false if the directory is empty.
func (d *Directory) RandomKey(ctx context.Context) (string, bool) {
	all := d.Keys(ctx)
	if len(all) == 0 {
		return "", false
	}
	return all[rand.Intn(len(all))], true
}

// Scan runs one cursor step of the shared scan engine over the full set of
// live keys.
func (d *Directory) Scan(ctx context.Context, cursor int, pattern string, count int) (next int, page []string) {
	return scan.Page(d.Keys(ctx), cursor, pattern, count)
}

// Dispatch is the session's single entry point for everything that isn't a
// client-local orchestration command: directory-level (KeyNode) commands
// are answered here directly, and everything else is routed to its key's
// actor, creating that actor on first use.
func (d *Directory) Dispatch(ctx context.Context, p *protocol.Payload) *protocol.Response {
	if p.IsKeyCommand {
		return d.dispatchKeyCommand(ctx, p)
	}
	a, existingType, err := d.ensure(ctx, p.Key, p.NodeType)
	if err != nil {
		return protocol.Errorf("dispatch: %v", err)
	}
	if existingType != p.NodeType {
		return protocol.Errorf("type mismatch: key holds a %s value, not %s", existingType, p.NodeType)
	}
	resp, err := a.Send(ctx, p)
	if err != nil {
		return protocol.Errorf("dispatch: %v", err)
	}
	return resp
}

func (d *Directory) dispatchKeyCommand(ctx context.Context, p *protocol.Payload) *protocol.Response {
	switch p.Command {
	case "add":
		return d.handleAdd(ctx, p.Args)
	case "keys":
		return protocol.List(d.Keys(ctx))
	case "scan":
		cursor, pattern, count := parseScanArgs(p.Args)
		next, page := d.Scan(ctx, cursor, pattern, count)
		out := append([]string{strconv.Itoa(next)}, page...)
		return protocol.List(out)
	case "exists":
		if len(p.Args) == 0 {
			return protocol.Error("Too few parameters")
		}
		return protocol.Bool(d.AllExist(ctx, p.Args))
	case "randomkey":
		key, ok := d.RandomKey(ctx)
		if !ok {
			return protocol.Nil()
		}
		return protocol.Str(key)
	case "del":
		if len(p.Args) == 0 {
			return protocol.Error("Too few parameters")
		}
		count := int64(0)
		for _, k := range p.Args {
			if d.Delete(ctx, k) {
				count++
			}
		}
		return protocol.Int(count)
	default:
		return protocol.Errorf("unknown command: %s", p.Command)
	}
}

// handleAdd creates a key explicitly rather than as a side effect of a
// first write, exposed as "add key type". It replies 0 if the key already
// exists.
func (d *Directory) handleAdd(ctx context.Context, args []string) *protocol.Response {
	if len(args) < 2 {
		return protocol.Error("Too few parameters")
	}
	key, nodeType := args[0], protocol.NodeType(args[1])
	switch nodeType {
	case protocol.StringNode, protocol.HashNode, protocol.ListNode, protocol.SetNode:
	default:
		return protocol.Errorf("unknown type: %s", args[1])
	}
	if d.Exists(ctx, key) {
		return protocol.Bool(false)
	}
	if _, _, err := d.ensure(ctx, key, nodeType); err != nil {
		return protocol.Errorf("add: %v", err)
	}
	return protocol.Bool(true)
}

func parseScanArgs(args []string) (cursor int, pattern string, count int) {
	cursor, pattern, count = 0, "*", scan.DefaultCount
	if len(args) > 0 {
		if c, err := strconv.Atoi(args[0]); err == nil {
			cursor = c
		}
	}
	if len(args) > 1 {
		pattern = args[1]
	}
	if len(args) > 2 {
		if c, err := strconv.Atoi(args[2]); err == nil {
			count = c
		}
	}
	return
}

// Stop terminates every shard and every actor it owns.
func (d *Directory) Stop() {
	for _, s := range d.order {
		ctx, cancel := context.WithTimeout(context.Background(), shardFanoutTimeout)
		s.send(ctx, shardRequest{op: opStopAll})
		cancel()
	}
}
