// Package registry is the static, load-time command table: it binds each
// command name to the single value-type actor that owns it, and flags the
// must-exist / cannot-exist preconditions the client session enforces
// before a value actor is ever materialized.
//
// Centralizing this metadata here — rather than scattering "does this
// command need the key to exist" checks across each actor — is what lets
// the session reject a must-exist violation without ever creating an
// actor, and silently no-op a cannot-exist violation without ever
// dispatching to one.
package registry

import "github.com/keynode/keynode/pkg/protocol"

func init() {
	protocol.SetClassifier(Lookup)
}

var nodeTypes = map[string]protocol.NodeType{
	// string
	"get": protocol.StringNode, "set": protocol.StringNode,
	"setnx": protocol.StringNode, "getset": protocol.StringNode,
	"append": protocol.StringNode, "getrange": protocol.StringNode,
	"setrange": protocol.StringNode, "strlen": protocol.StringNode,
	"incr": protocol.StringNode, "incrby": protocol.StringNode,
	"decr": protocol.StringNode, "decrby": protocol.StringNode,
	"incrbyfloat": protocol.StringNode, "bitcount": protocol.StringNode,

	// hash
	"hget": protocol.HashNode, "hset": protocol.HashNode,
	"hsetnx": protocol.HashNode, "hgetall": protocol.HashNode,
	"hkeys": protocol.HashNode, "hvals": protocol.HashNode,
	"hdel": protocol.HashNode, "hexists": protocol.HashNode,
	"hlen": protocol.HashNode, "hmget": protocol.HashNode,
	"hmset": protocol.HashNode, "hincrby": protocol.HashNode,
	"hincrbyfloat": protocol.HashNode, "hscan": protocol.HashNode,

	// list
	"lpush": protocol.ListNode, "rpush": protocol.ListNode,
	"lpushx": protocol.ListNode, "rpushx": protocol.ListNode,
	"lpop": protocol.ListNode, "rpop": protocol.ListNode,
	"lset": protocol.ListNode, "lindex": protocol.ListNode,
	"lrem": protocol.ListNode, "lrange": protocol.ListNode,
	"ltrim": protocol.ListNode, "llen": protocol.ListNode,
	"linsert": protocol.ListNode, "rpoplpush": protocol.ListNode,
	"blpop": protocol.ListNode, "brpop": protocol.ListNode,
	"brpoplpush": protocol.ListNode,

	// set
	"sadd": protocol.SetNode, "srem": protocol.SetNode,
	"scard": protocol.SetNode, "sismember": protocol.SetNode,
	"smembers": protocol.SetNode, "srandmember": protocol.SetNode,
	"spop": protocol.SetNode, "sdiff": protocol.SetNode,
	"sinter": protocol.SetNode, "sunion": protocol.SetNode,
	"sdiffstore": protocol.SetNode, "sinterstore": protocol.SetNode,
	"sunionstore": protocol.SetNode, "smove": protocol.SetNode,
	"sscan": protocol.SetNode,

	// key directory
	"add": protocol.KeyNode, "keys": protocol.KeyNode,
	"scan": protocol.KeyNode, "exists": protocol.KeyNode,
	"randomkey": protocol.KeyNode, "del": protocol.KeyNode,

	// client-local orchestration
	"mget": protocol.ClientNode, "mset": protocol.ClientNode,
	"msetnx": protocol.ClientNode,
}

// mustExist commands are rejected with 0 rather than creating a fresh
// actor when the target key doesn't exist.
var mustExist = map[string]bool{
	"lpushx": true,
	"rpushx": true,
}

// cantExist commands are rejected with 0, without forwarding to the
// actor, when the target key already exists.
var cantExist = map[string]bool{
	"setnx": true,
}

// notImplemented commands are recognized (so they route instead of
// reporting "Unknown command") but always reply with a fixed diagnostic,
// matching the source's "not implemented" blocking commands.
var notImplemented = map[string]bool{
	"blpop":      true,
	"brpop":      true,
	"brpoplpush": true,
}

// Lookup returns the owning node type and routing class for cmd. An empty
// NodeType means the command is unrecognized.
func Lookup(cmd string) (nodeType protocol.NodeType, isClient bool, isKey bool) {
	nt, ok := nodeTypes[cmd]
	if !ok {
		return "", false, false
	}
	return nt, nt == protocol.ClientNode, nt == protocol.KeyNode
}

// NodeType exposes the node-type half of Lookup for callers that don't
// need the routing flags.
func NodeType(cmd string) protocol.NodeType {
	nt, _, _ := Lookup(cmd)
	return nt
}

// MustExist reports whether cmd requires its key to already exist.
func MustExist(cmd string) bool { return mustExist[cmd] }

// CantExist reports whether cmd must be rejected when its key already
// exists.
func CantExist(cmd string) bool { return cantExist[cmd] }

// NotImplemented reports whether cmd is recognized but deliberately
// unimplemented (out of scope per spec §1).
func NotImplemented(cmd string) bool { return notImplemented[cmd] }
