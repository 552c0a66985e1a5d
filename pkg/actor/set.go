package actor

import (
	"context"
	"math/rand"
	"strconv"

	"github.com/keynode/keynode/pkg/protocol"
	"github.com/keynode/keynode/pkg/registry"
	"github.com/keynode/keynode/pkg/scan"
)

// SetActor is the per-key actor for an unordered collection of distinct
// strings.
type SetActor struct {
	mailbox
	members  map[string]struct{}
	dispatch Dispatcher
	handlers map[string]func([]string) *protocol.Response
}

// NewSet creates and starts a SetActor. dispatch is used by SDIFF/SINTER/
// SUNION (read-only, via its embedded Resolver) and their *STORE variants,
// which additionally need to create the destination key if absent.
func NewSet(dispatch Dispatcher) *SetActor {
	a := &SetActor{members: make(map[string]struct{}), dispatch: dispatch, mailbox: newMailbox()}
	a.handlers = map[string]func([]string) *protocol.Response{
		"sadd":        a.handleSAdd,
		"srem":        a.handleSRem,
		"scard":       a.handleSCard,
		"sismember":   a.handleSIsMember,
		"smembers":    a.handleSMembers,
		"srandmember": a.handleSRandMember,
		"spop":        a.handleSPop,
		"sdiff":       a.handleSDiff,
		"sinter":      a.handleSInter,
		"sunion":      a.handleSUnion,
		"sdiffstore":  a.handleSDiffStore,
		"sinterstore": a.handleSInterStore,
		"sunionstore": a.handleSUnionStore,
		"smove":       a.handleSMove,
		"sscan":       a.handleSScan,
		"sreplace":    a.handleSReplace,
	}
	go a.loop(a.handle)
	return a
}

func (a *SetActor) NodeType() protocol.NodeType { return protocol.SetNode }

func (a *SetActor) handle(p *protocol.Payload) *protocol.Response {
	if p.NodeType != protocol.SetNode {
		return typeMismatch(protocol.SetNode, p.NodeType)
	}
	if registry.NotImplemented(p.Command) {
		return notImplementedResponse()
	}
	h, ok := a.handlers[p.Command]
	if !ok {
		return unknownCommand(p.Command)
	}
	return h(p.Args)
}

func (a *SetActor) handleSAdd(args []string) *protocol.Response {
	if len(args) < 1 {
		return protocol.Error("Too few parameters")
	}
	added := int64(0)
	for _, m := range args {
		if _, ok := a.members[m]; !ok {
			a.members[m] = struct{}{}
			added++
		}
	}
	return protocol.Int(added)
}

func (a *SetActor) handleSRem(args []string) *protocol.Response {
	if len(args) < 1 {
		return protocol.Error("Too few parameters")
	}
	removed := int64(0)
	for _, m := range args {
		if _, ok := a.members[m]; ok {
			delete(a.members, m)
			removed++
		}
	}
	return protocol.Int(removed)
}

func (a *SetActor) handleSCard([]string) *protocol.Response {
	return protocol.Int(int64(len(a.members)))
}

// handleSIsMember returns 1 only when every given member is present,
// diverging from Redis's single-member boolean — an explicit spec choice.
func (a *SetActor) handleSIsMember(args []string) *protocol.Response {
	if len(args) < 1 {
		return protocol.Error("Too few parameters")
	}
	for _, m := range args {
		if _, ok := a.members[m]; !ok {
			return protocol.Bool(false)
		}
	}
	return protocol.Bool(true)
}

func (a *SetActor) handleSMembers([]string) *protocol.Response {
	return protocol.List(a.snapshot())
}

// handleSRandMember returns an empty reply for an empty set rather than
// faulting.
func (a *SetActor) handleSRandMember([]string) *protocol.Response {
	members := a.snapshot()
	if len(members) == 0 {
		return protocol.Nil()
	}
	return protocol.Str(members[rand.Intn(len(members))])
}

func (a *SetActor) handleSPop([]string) *protocol.Response {
	members := a.snapshot()
	if len(members) == 0 {
		return protocol.Nil()
	}
	pick := members[rand.Intn(len(members))]
	delete(a.members, pick)
	return protocol.Str(pick)
}

func (a *SetActor) handleSDiff(args []string) *protocol.Response {
	others, err := a.resolveMembers(args)
	if err != nil {
		return protocol.Errorf("sdiff: %v", err)
	}
	result := a.snapshotSet()
	for _, other := range others {
		for m := range other {
			delete(result, m)
		}
	}
	return protocol.List(setToSlice(result))
}

func (a *SetActor) handleSInter(args []string) *protocol.Response {
	others, err := a.resolveMembers(args)
	if err != nil {
		return protocol.Errorf("sinter: %v", err)
	}
	result := a.snapshotSet()
	for _, other := range others {
		for m := range result {
			if _, ok := other[m]; !ok {
				delete(result, m)
			}
		}
	}
	return protocol.List(setToSlice(result))
}

func (a *SetActor) handleSUnion(args []string) *protocol.Response {
	others, err := a.resolveMembers(args)
	if err != nil {
		return protocol.Errorf("sunion: %v", err)
	}
	result := a.snapshotSet()
	for _, other := range others {
		for m := range other {
			result[m] = struct{}{}
		}
	}
	return protocol.List(setToSlice(result))
}

// handleSMove removes a member from this set and delivers it to the
// destination set's own actor, letting that actor's own SADD handle
// dedup — SMOVE never mutates the destination directly.
func (a *SetActor) handleSMove(args []string) *protocol.Response {
	if len(args) < 2 {
		return protocol.Error("Too few parameters")
	}
	dest, member := args[0], args[1]
	if _, ok := a.members[member]; !ok {
		return protocol.Bool(false)
	}
	if a.dispatch == nil {
		return protocol.Error("smove: no resolver configured")
	}
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()
	destActor, nodeType, found := a.dispatch.Resolve(ctx, dest)
	if !found || nodeType != protocol.SetNode {
		return protocol.Errorf("type mismatch: destination key %q is not a set", dest)
	}
	payload := &protocol.Payload{Command: "sadd", NodeType: protocol.SetNode, Key: dest, Args: []string{member}}
	if _, err := destActor.Send(ctx, payload); err != nil {
		return protocol.Errorf("smove: %v", err)
	}
	delete(a.members, member)
	return protocol.Bool(true)
}

// handleSDiffStore, handleSInterStore and handleSUnionStore compute the
// same result as their read-only counterparts, then replace the
// destination key's entire membership in one shot via the internal
// "sreplace" verb — never an incremental SADD, since a stale member from a
// previous store must not survive.
func (a *SetActor) handleSDiffStore(args []string) *protocol.Response {
	if len(args) < 1 {
		return protocol.Error("Too few parameters")
	}
	dest, sources := args[0], args[1:]
	others, err := a.resolveMembers(sources)
	if err != nil {
		return protocol.Errorf("sdiffstore: %v", err)
	}
	result := a.snapshotSet()
	for _, other := range others {
		for m := range other {
			delete(result, m)
		}
	}
	return a.storeResult(dest, result)
}

func (a *SetActor) handleSInterStore(args []string) *protocol.Response {
	if len(args) < 1 {
		return protocol.Error("Too few parameters")
	}
	dest, sources := args[0], args[1:]
	others, err := a.resolveMembers(sources)
	if err != nil {
		return protocol.Errorf("sinterstore: %v", err)
	}
	result := a.snapshotSet()
	for _, other := range others {
		for m := range result {
			if _, ok := other[m]; !ok {
				delete(result, m)
			}
		}
	}
	return a.storeResult(dest, result)
}

func (a *SetActor) handleSUnionStore(args []string) *protocol.Response {
	if len(args) < 1 {
		return protocol.Error("Too few parameters")
	}
	dest, sources := args[0], args[1:]
	others, err := a.resolveMembers(sources)
	if err != nil {
		return protocol.Errorf("sunionstore: %v", err)
	}
	result := a.snapshotSet()
	for _, other := range others {
		for m := range other {
			result[m] = struct{}{}
		}
	}
	return a.storeResult(dest, result)
}

// handleSReplace is an internal-only verb (never exposed through the
// registry) used by the *STORE commands to overwrite a destination set's
// full membership atomically within that key's own actor.
func (a *SetActor) handleSReplace(args []string) *protocol.Response {
	a.members = make(map[string]struct{}, len(args))
	for _, m := range args {
		a.members[m] = struct{}{}
	}
	return protocol.OK()
}

func (a *SetActor) storeResult(dest string, result map[string]struct{}) *protocol.Response {
	if a.dispatch == nil {
		return protocol.Error("store: no dispatcher configured")
	}
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()
	payload := &protocol.Payload{Command: "sreplace", NodeType: protocol.SetNode, Key: dest, Args: setToSlice(result)}
	if err := a.dispatch.EnsureAndTell(ctx, dest, protocol.SetNode, payload); err != nil {
		return protocol.Errorf("store: %v", err)
	}
	return protocol.Int(int64(len(result)))
}

func (a *SetActor) handleSScan(args []string) *protocol.Response {
	cursor, pattern, count := parseScanArgs(args)
	next, matched := scan.Page(a.snapshot(), cursor, pattern, count)
	out := append([]string{strconv.Itoa(next)}, matched...)
	return protocol.List(out)
}

func (a *SetActor) snapshot() []string {
	out := make([]string, 0, len(a.members))
	for m := range a.members {
		out = append(out, m)
	}
	return out
}

func (a *SetActor) snapshotSet() map[string]struct{} {
	out := make(map[string]struct{}, len(a.members))
	for m := range a.members {
		out[m] = struct{}{}
	}
	return out
}

func setToSlice(s map[string]struct{}) []string {
	out := make([]string, 0, len(s))
	for m := range s {
		out = append(out, m)
	}
	return out
}

// resolveMembers fetches SMEMBERS from each of the given keys via the
// directory's resolver, treating a missing key as an empty set rather than
// an error. Each lookup runs against a fresh dispatchTimeout deadline.
func (a *SetActor) resolveMembers(keys []string) ([]map[string]struct{}, error) {
	if a.dispatch == nil {
		return nil, ErrStopped
	}
	results := make([]map[string]struct{}, 0, len(keys))
	for _, key := range keys {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		actor, nodeType, found := a.dispatch.Resolve(ctx, key)
		if !found {
			cancel()
			results = append(results, map[string]struct{}{})
			continue
		}
		if nodeType != protocol.SetNode {
			cancel()
			return nil, ErrStopped
		}
		resp, err := actor.Send(ctx, &protocol.Payload{Command: "smembers", NodeType: protocol.SetNode, Key: key})
		cancel()
		if err != nil {
			return nil, err
		}
		set := make(map[string]struct{}, len(resp.List))
		for _, m := range resp.List {
			set[m] = struct{}{}
		}
		results = append(results, set)
	}
	return results, nil
}
