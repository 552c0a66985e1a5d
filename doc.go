// Package keynode provides a network-accessible, in-memory key-value
// store built on a per-key actor model: every live key is owned by its
// own goroutine, so operations on distinct keys run fully in parallel
// while operations on the same key are strictly serialized — without a
// single lock anywhere in the data path.
//
// # Architecture Overview
//
// keynode consists of several key components:
//
//   - Server: TCP server accepting connections and spawning one session per connection
//   - Session: the per-connection command loop (parse, precondition-check, dispatch)
//   - Key directory: sharded routing from key name to its owning actor
//   - Value actors: one goroutine per live key, specialized by type (string, hash, list, set)
//   - Protocol: a line-oriented wire format, one command or reply per line
//   - Consistent hashing: spreads the key directory across shards to reduce mailbox contention
//   - Configuration: flags and environment variables, following the server's own conventions
//
// # Quick Start
//
// Server:
//
//	import "github.com/keynode/keynode/internal/server"
//	import "github.com/keynode/keynode/pkg/config"
//
//	cfg := config.LoadServerConfig()
//	srv := server.New(cfg)
//	log.Fatal(srv.Start())
//
// Client:
//
//	import "github.com/keynode/keynode/pkg/client"
//
//	c, _ := client.New("localhost:8080")
//	defer c.Close()
//
//	// String operations
//	c.Set("user:123", "john_doe")
//	value, err := c.Get("user:123")
//
//	// Hash operations
//	c.HSet("user:123:profile", "name", "John Doe")
//	profile, err := c.HGetAll("user:123:profile")
//
//	// List operations
//	c.LPush("tasks", "task1", "task2", "task3")
//	task, err := c.LPop("tasks")
//
//	// Set operations
//	c.SAdd("tags", "golang", "cache", "distributed")
//	members, err := c.SMembers("tags")
//
// # Supported Operations
//
// String: GET, SET, SETNX, GETSET, APPEND, GETRANGE, SETRANGE, STRLEN,
// INCR, DECR, INCRBY, DECRBY, INCRBYFLOAT, BITCOUNT.
//
// Hash: HGET, HSET, HSETNX, HGETALL, HKEYS, HVALS, HDEL, HEXISTS, HLEN,
// HMGET, HMSET, HINCRBY, HINCRBYFLOAT, HSCAN.
//
// List: LPUSH, RPUSH, LPUSHX, RPUSHX, LPOP, RPOP, LSET, LINDEX, LREM,
// LRANGE, LTRIM, LLEN, LINSERT, RPOPLPUSH.
//
// Set: SADD, SREM, SCARD, SISMEMBER, SMEMBERS, SRANDMEMBER, SPOP, SDIFF,
// SINTER, SUNION, SDIFFSTORE, SINTERSTORE, SUNIONSTORE, SMOVE, SSCAN.
//
// Key directory: ADD, KEYS, SCAN, EXISTS, RANDOMKEY, DEL.
//
// Client-local orchestration: MGET, MSET, MSETNX.
//
// # Concurrency Model
//
// There is no global lock and no cluster. A single process owns the whole
// key directory, sharded across a fixed number of shard actors purely to
// spread mailbox contention; the consistent-hash ring that routes a key to
// its shard is the same one a distributed deployment would use to route a
// key to a physical node, repurposed here for in-process sharding. Every
// command that targets a single key runs against that key's own goroutine
// and is fully serialized with every other command against that same key,
// with no effect on any other key's throughput.
//
// # Configuration
//
// Server configuration via flags or environment variables:
//
//	./keynode-server -port 8080 -directory-shards 16
//	# or
//	KEYNODE_PORT=8080 KEYNODE_DIRECTORY_SHARDS=16 ./keynode-server
//
// # Package Structure
//
//   - pkg/client: single-connection client SDK
//   - pkg/actor: per-key actor implementations (string, hash, list, set)
//   - pkg/directory: sharded key directory and consistent-hash routing
//   - pkg/protocol: line-oriented wire protocol
//   - pkg/registry: command-to-node-type dispatch metadata
//   - pkg/scan: shared cursor/glob pagination for SCAN/HSCAN/SSCAN
//   - pkg/hash: consistent hashing ring
//   - pkg/config: configuration management
//   - internal/server: TCP server
//   - internal/session: per-connection command loop
//   - cmd/server: server executable
//   - cmd/client-example: example client usage
//
// For detailed documentation of individual packages, see their respective
// godoc pages.
package keynode
