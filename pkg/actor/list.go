package actor

import (
	"context"
	"strconv"
	"strings"

	"github.com/keynode/keynode/pkg/protocol"
	"github.com/keynode/keynode/pkg/registry"
)

// ListActor is the per-key actor for an ordered sequence of strings.
type ListActor struct {
	mailbox
	items    []string
	dispatch Dispatcher
	handlers map[string]func([]string) *protocol.Response
}

// NewList creates and starts a ListActor. dispatch is used only by
// RPOPLPUSH to push into a (possibly different) destination key.
func NewList(dispatch Dispatcher) *ListActor {
	a := &ListActor{dispatch: dispatch, mailbox: newMailbox()}
	a.handlers = map[string]func([]string) *protocol.Response{
		"lpush":     a.handleLPush,
		"rpush":     a.handleRPush,
		"lpushx":    a.handleLPush,
		"rpushx":    a.handleRPush,
		"lpop":      a.handleLPop,
		"rpop":      a.handleRPop,
		"lset":      a.handleLSet,
		"lindex":    a.handleLIndex,
		"lrem":      a.handleLRem,
		"lrange":    a.handleLRange,
		"ltrim":     a.handleLTrim,
		"llen":      a.handleLLen,
		"linsert":   a.handleLInsert,
		"rpoplpush": a.handleRPopLPush,
	}
	go a.loop(a.handle)
	return a
}

func (a *ListActor) NodeType() protocol.NodeType { return protocol.ListNode }

func (a *ListActor) handle(p *protocol.Payload) *protocol.Response {
	if p.NodeType != protocol.ListNode {
		return typeMismatch(protocol.ListNode, p.NodeType)
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

func (a *ListActor) handleLPush(args []string) *protocol.Response {
	if len(args) < 1 {
		return protocol.Error("Too few parameters")
	}
	for _, v := range args {
		a.items = append([]string{v}, a.items...)
	}
	return protocol.Int(int64(len(a.items)))
}

func (a *ListActor) handleRPush(args []string) *protocol.Response {
	if len(args) < 1 {
		return protocol.Error("Too few parameters")
	}
	a.items = append(a.items, args...)
	return protocol.Int(int64(len(a.items)))
}

func (a *ListActor) handleLPop([]string) *protocol.Response {
	if len(a.items) == 0 {
		return protocol.Nil()
	}
	v := a.items[0]
	a.items = a.items[1:]
	return protocol.Str(v)
}

func (a *ListActor) handleRPop([]string) *protocol.Response {
	if len(a.items) == 0 {
		return protocol.Nil()
	}
	v := a.items[len(a.items)-1]
	a.items = a.items[:len(a.items)-1]
	return protocol.Str(v)
}

func (a *ListActor) handleLSet(args []string) *protocol.Response {
	if len(args) < 2 {
		return protocol.Error("Too few parameters")
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		return protocol.Error("value is not an integer")
	}
	idx = normalizeIndex(idx, len(a.items))
	if idx < 0 || idx >= len(a.items) {
		return protocol.Error("index out of range")
	}
	a.items[idx] = args[1]
	return protocol.OK()
}

func (a *ListActor) handleLIndex(args []string) *protocol.Response {
	if len(args) < 1 {
		return protocol.Error("Too few parameters")
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		return protocol.Error("value is not an integer")
	}
	idx = normalizeIndex(idx, len(a.items))
	if idx < 0 || idx >= len(a.items) {
		return protocol.Nil()
	}
	return protocol.Str(a.items[idx])
}

// handleLRem removes the element at the given position, per the spec's
// positional reading of LREM (index, not count+value): see DESIGN.md.
func (a *ListActor) handleLRem(args []string) *protocol.Response {
	if len(args) < 1 {
		return protocol.Error("Too few parameters")
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		return protocol.Error("value is not an integer")
	}
	idx = normalizeIndex(idx, len(a.items))
	if idx < 0 || idx >= len(a.items) {
		return protocol.Bool(false)
	}
	a.items = append(a.items[:idx], a.items[idx+1:]...)
	return protocol.Bool(true)
}

func (a *ListActor) handleLRange(args []string) *protocol.Response {
	if len(args) < 2 {
		return protocol.Error("Too few parameters")
	}
	start, err1 := strconv.Atoi(args[0])
	end, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		return protocol.Error("value is not an integer")
	}
	start = clampIndex(start, len(a.items))
	end = clampIndex(end, len(a.items))
	if end >= len(a.items) {
		end = len(a.items) - 1
	}
	if start > end || start >= len(a.items) || len(a.items) == 0 {
		return protocol.List(nil)
	}
	out := make([]string, end-start+1)
	copy(out, a.items[start:end+1])
	return protocol.List(out)
}

func (a *ListActor) handleLTrim(args []string) *protocol.Response {
	if len(args) < 2 {
		return protocol.Error("Too few parameters")
	}
	start, err1 := strconv.Atoi(args[0])
	end, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		return protocol.Error("value is not an integer")
	}
	start = clampIndex(start, len(a.items))
	end = clampIndex(end, len(a.items))
	if end >= len(a.items) {
		end = len(a.items) - 1
	}
	if start > end || start >= len(a.items) || len(a.items) == 0 {
		a.items = nil
		return protocol.OK()
	}
	a.items = append([]string{}, a.items[start:end+1]...)
	return protocol.OK()
}

func (a *ListActor) handleLLen([]string) *protocol.Response {
	return protocol.Int(int64(len(a.items)))
}

func (a *ListActor) handleLInsert(args []string) *protocol.Response {
	if len(args) < 3 {
		return protocol.Error("Too few parameters")
	}
	where, pivot, value := args[0], args[1], args[2]
	pos := -1
	for i, v := range a.items {
		if v == pivot {
			pos = i
			break
		}
	}
	if pos < 0 {
		return protocol.Int(-1)
	}
	switch strings.ToLower(where) {
	case "before":
		a.items = append(a.items[:pos], append([]string{value}, a.items[pos:]...)...)
	case "after":
		a.items = append(a.items[:pos+1], append([]string{value}, a.items[pos+1:]...)...)
	default:
		return protocol.Error("syntax error")
	}
	return protocol.Int(int64(len(a.items)))
}

// handleRPopLPush pops from this list's tail and pushes the value onto the
// head of the destination key, creating it as a list if it doesn't exist.
// The push uses Tell through the directory's EnsureAndTell so ordering
// relative to any other writer already queued against the destination is
// preserved, even though this handler doesn't wait for it to run.
func (a *ListActor) handleRPopLPush(args []string) *protocol.Response {
	if len(args) < 1 {
		return protocol.Error("Too few parameters")
	}
	if len(a.items) == 0 {
		return protocol.Nil()
	}
	dest := args[0]
	v := a.items[len(a.items)-1]
	a.items = a.items[:len(a.items)-1]

	if a.dispatch == nil {
		return protocol.Str(v)
	}
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()
	payload := &protocol.Payload{Command: "lpush", NodeType: protocol.ListNode, Key: dest, Args: []string{v}}
	if err := a.dispatch.EnsureAndTell(ctx, dest, protocol.ListNode, payload); err != nil {
		return protocol.Errorf("rpoplpush: %v", err)
	}
	return protocol.Str(v)
}

// normalizeIndex resolves a Redis-style negative index to an absolute
// offset without clamping it into range — callers decide what an
// out-of-range result means for their own command.
func normalizeIndex(i, length int) int {
	if i < 0 {
		i += length
	}
	return i
}
