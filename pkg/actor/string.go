package actor

import (
	"math/bits"
	"strconv"

	"github.com/keynode/keynode/pkg/protocol"
	"github.com/keynode/keynode/pkg/registry"
)

// StringActor is the per-key actor for a single string value. State starts
// at "" and is never shared outside this actor's own goroutine.
type StringActor struct {
	mailbox
	value    string
	handlers map[string]func([]string) *protocol.Response
}

// NewString creates and starts a StringActor.
func NewString() *StringActor {
	a := &StringActor{mailbox: newMailbox()}
	a.handlers = map[string]func([]string) *protocol.Response{
		"get":         a.handleGet,
		"set":         a.handleSet,
		"setnx":       a.handleSet, // cannot-exist guard is enforced by the session before dispatch
		"getset":      a.handleGetSet,
		"append":      a.handleAppend,
		"getrange":    a.handleGetRange,
		"setrange":    a.handleSetRange,
		"strlen":      a.handleStrLen,
		"incr":        a.handleIncr,
		"incrby":      a.handleIncrBy,
		"decr":        a.handleDecr,
		"decrby":      a.handleDecrBy,
		"incrbyfloat": a.handleIncrByFloat,
		"bitcount":    a.handleBitCount,
	}
	go a.loop(a.handle)
	return a
}

func (a *StringActor) NodeType() protocol.NodeType { return protocol.StringNode }

func (a *StringActor) handle(p *protocol.Payload) *protocol.Response {
	if p.NodeType != protocol.StringNode {
		return typeMismatch(protocol.StringNode, p.NodeType)
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

func (a *StringActor) handleGet([]string) *protocol.Response {
	return protocol.Str(a.value)
}

func (a *StringActor) handleSet(args []string) *protocol.Response {
	if len(args) < 1 {
		return protocol.Error("Too few parameters")
	}
	a.value = args[0]
	return protocol.OK()
}

func (a *StringActor) handleGetSet(args []string) *protocol.Response {
	if len(args) < 1 {
		return protocol.Error("Too few parameters")
	}
	prev := a.value
	a.value = args[0]
	return protocol.Str(prev)
}

func (a *StringActor) handleAppend(args []string) *protocol.Response {
	if len(args) < 1 {
		return protocol.Error("Too few parameters")
	}
	a.value += args[0]
	return protocol.Str(a.value)
}

func (a *StringActor) handleGetRange(args []string) *protocol.Response {
	if len(args) < 2 {
		return protocol.Error("Too few parameters")
	}
	start, err1 := strconv.Atoi(args[0])
	end, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		return protocol.Error("value is not an integer")
	}
	start = clampIndex(start, len(a.value))
	end = clampIndex(end, len(a.value))
	if start > end || start >= len(a.value) {
		return protocol.Str("")
	}
	if end >= len(a.value) {
		end = len(a.value) - 1
	}
	return protocol.Str(a.value[start : end+1])
}

// clampIndex converts a possibly-negative Redis-style index into an offset
// that is never below 0. The upper end is not bounded; callers cap it at
// the length themselves.
func clampIndex(i, length int) int {
	if i < 0 {
		i += length
	}
	if i < 0 {
		i = 0
	}
	return i
}

func (a *StringActor) handleSetRange(args []string) *protocol.Response {
	if len(args) < 2 {
		return protocol.Error("Too few parameters")
	}
	offset, err := strconv.Atoi(args[0])
	if err != nil || offset < 0 || offset > len(a.value) {
		return protocol.Error("index out of range")
	}
	replacement := args[1]
	end := offset + 1
	if end > len(a.value) {
		end = len(a.value)
	}
	a.value = a.value[:offset] + replacement + a.value[end:]
	return protocol.Str(a.value)
}

func (a *StringActor) handleStrLen([]string) *protocol.Response {
	return protocol.Int(int64(len(a.value)))
}

func (a *StringActor) handleIncr([]string) *protocol.Response {
	return a.incrBy(1)
}

func (a *StringActor) handleDecr([]string) *protocol.Response {
	return a.incrBy(-1)
}

func (a *StringActor) handleIncrBy(args []string) *protocol.Response {
	delta, err := parseDelta(args)
	if err != nil {
		return protocol.Error("value is not an integer")
	}
	return a.incrBy(delta)
}

func (a *StringActor) handleDecrBy(args []string) *protocol.Response {
	delta, err := parseDelta(args)
	if err != nil {
		return protocol.Error("value is not an integer")
	}
	return a.incrBy(-delta)
}

func parseDelta(args []string) (int64, error) {
	if len(args) < 1 {
		return 1, nil
	}
	return strconv.ParseInt(args[0], 10, 64)
}

func (a *StringActor) incrBy(delta int64) *protocol.Response {
	current := int64(0)
	if a.value != "" {
		v, err := strconv.ParseInt(a.value, 10, 64)
		if err != nil {
			return protocol.Error("value is not an integer")
		}
		current = v
	}
	current += delta
	a.value = strconv.FormatInt(current, 10)
	return protocol.Int(current)
}

func (a *StringActor) handleIncrByFloat(args []string) *protocol.Response {
	if len(args) < 1 {
		return protocol.Error("Too few parameters")
	}
	delta, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return protocol.Error("value is not a float")
	}
	current := 0.0
	if a.value != "" {
		v, err := strconv.ParseFloat(a.value, 64)
		if err != nil {
			return protocol.Error("value is not a float")
		}
		current = v
	}
	current += delta
	a.value = strconv.FormatFloat(current, 'f', -1, 64)
	return protocol.Str(a.value)
}

func (a *StringActor) handleBitCount([]string) *protocol.Response {
	count := 0
	for i := 0; i < len(a.value); i++ {
		count += bits.OnesCount8(a.value[i])
	}
	return protocol.Int(int64(count))
}

