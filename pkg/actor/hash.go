package actor

import (
	"strconv"

	"github.com/keynode/keynode/pkg/protocol"
	"github.com/keynode/keynode/pkg/registry"
	"github.com/keynode/keynode/pkg/scan"
)

// HashActor is the per-key actor for a field->value mapping.
type HashActor struct {
	mailbox
	fields   map[string]string
	handlers map[string]func([]string) *protocol.Response
}

// NewHash creates and starts a HashActor.
func NewHash() *HashActor {
	a := &HashActor{fields: make(map[string]string), mailbox: newMailbox()}
	a.handlers = map[string]func([]string) *protocol.Response{
		"hget":         a.handleHGet,
		"hset":         a.handleHSet,
		"hsetnx":       a.handleHSetNx,
		"hgetall":      a.handleHGetAll,
		"hkeys":        a.handleHKeys,
		"hvals":        a.handleHVals,
		"hdel":         a.handleHDel,
		"hexists":      a.handleHExists,
		"hlen":         a.handleHLen,
		"hmget":        a.handleHMGet,
		"hmset":        a.handleHMSet,
		"hincrby":      a.handleHIncrBy,
		"hincrbyfloat": a.handleHIncrByFloat,
		"hscan":        a.handleHScan,
	}
	go a.loop(a.handle)
	return a
}

func (a *HashActor) NodeType() protocol.NodeType { return protocol.HashNode }

func (a *HashActor) handle(p *protocol.Payload) *protocol.Response {
	if p.NodeType != protocol.HashNode {
		return typeMismatch(protocol.HashNode, p.NodeType)
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

func (a *HashActor) handleHGet(args []string) *protocol.Response {
	if len(args) < 1 {
		return protocol.Error("Too few parameters")
	}
	v, ok := a.fields[args[0]]
	if !ok {
		return protocol.Nil()
	}
	return protocol.Str(v)
}

func (a *HashActor) handleHSet(args []string) *protocol.Response {
	if len(args) < 2 {
		return protocol.Error("Too few parameters")
	}
	_, existed := a.fields[args[0]]
	a.fields[args[0]] = args[1]
	if existed {
		return protocol.Int(0)
	}
	return protocol.Int(1)
}

func (a *HashActor) handleHSetNx(args []string) *protocol.Response {
	if len(args) < 2 {
		return protocol.Error("Too few parameters")
	}
	if _, existed := a.fields[args[0]]; existed {
		return protocol.Int(0)
	}
	a.fields[args[0]] = args[1]
	return protocol.Int(1)
}

func (a *HashActor) handleHGetAll([]string) *protocol.Response {
	out := make([]string, 0, len(a.fields)*2)
	for f, v := range a.fields {
		out = append(out, f, v)
	}
	return protocol.List(out)
}

func (a *HashActor) handleHKeys([]string) *protocol.Response {
	out := make([]string, 0, len(a.fields))
	for f := range a.fields {
		out = append(out, f)
	}
	return protocol.List(out)
}

func (a *HashActor) handleHVals([]string) *protocol.Response {
	out := make([]string, 0, len(a.fields))
	for _, v := range a.fields {
		out = append(out, v)
	}
	return protocol.List(out)
}

func (a *HashActor) handleHDel(args []string) *protocol.Response {
	if len(args) < 1 {
		return protocol.Error("Too few parameters")
	}
	if _, ok := a.fields[args[0]]; !ok {
		return protocol.Bool(false)
	}
	delete(a.fields, args[0])
	return protocol.Bool(true)
}

func (a *HashActor) handleHExists(args []string) *protocol.Response {
	if len(args) < 1 {
		return protocol.Error("Too few parameters")
	}
	_, ok := a.fields[args[0]]
	return protocol.Bool(ok)
}

func (a *HashActor) handleHLen([]string) *protocol.Response {
	return protocol.Int(int64(len(a.fields)))
}

func (a *HashActor) handleHMGet(args []string) *protocol.Response {
	out := make([]string, 0, len(args))
	for _, f := range args {
		if v, ok := a.fields[f]; ok {
			out = append(out, v)
		} else {
			out = append(out, "None")
		}
	}
	return protocol.List(out)
}

func (a *HashActor) handleHMSet(args []string) *protocol.Response {
	if len(args) < 2 || len(args)%2 != 0 {
		return protocol.Error("Too few parameters")
	}
	for i := 0; i+1 < len(args); i += 2 {
		a.fields[args[i]] = args[i+1]
	}
	return protocol.OK()
}

func (a *HashActor) handleHIncrBy(args []string) *protocol.Response {
	if len(args) < 2 {
		return protocol.Error("Too few parameters")
	}
	delta, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return protocol.Error("value is not an integer")
	}
	current := int64(0)
	if v, ok := a.fields[args[0]]; ok && v != "" {
		current, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return protocol.Error("hash value is not an integer")
		}
	}
	current += delta
	a.fields[args[0]] = strconv.FormatInt(current, 10)
	return protocol.Int(current)
}

func (a *HashActor) handleHIncrByFloat(args []string) *protocol.Response {
	if len(args) < 2 {
		return protocol.Error("Too few parameters")
	}
	delta, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return protocol.Error("value is not a float")
	}
	current := 0.0
	if v, ok := a.fields[args[0]]; ok && v != "" {
		current, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return protocol.Error("hash value is not a float")
		}
	}
	current += delta
	a.fields[args[0]] = strconv.FormatFloat(current, 'f', -1, 64)
	return protocol.Str(a.fields[args[0]])
}

// handleHScan matches field names against the glob, then flattens matched
// fields into field,value pairs — the hash analogue of Redis HSCAN, which
// the spec's single "shared scan engine" wording implies but leaves
// unstated for hashes specifically (see DESIGN.md).
func (a *HashActor) handleHScan(args []string) *protocol.Response {
	cursor, pattern, count := parseScanArgs(args)
	fieldNames := make([]string, 0, len(a.fields))
	for f := range a.fields {
		fieldNames = append(fieldNames, f)
	}
	next, matched := scan.Page(fieldNames, cursor, pattern, count)
	out := make([]string, 0, len(matched)*2+1)
	out = append(out, strconv.Itoa(next))
	for _, f := range matched {
		out = append(out, f, a.fields[f])
	}
	return protocol.List(out)
}

// parseScanArgs parses the shared cursor/pattern/count positional
// arguments used by SCAN, HSCAN and SSCAN.
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
