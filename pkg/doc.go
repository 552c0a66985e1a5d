// Package keynode provides the core components for the keynode key-value
// store.
//
// This package serves as the documentation entry point for keynode's
// public API; the actual implementation lives in the sibling packages
// under pkg/ and internal/.
//
// # Overview
//
// keynode is an in-memory key-value store built around a per-key actor
// model rather than a shared lock-protected map: each live key is owned
// by exactly one goroutine, which serializes every command against that
// key while letting commands against other keys proceed without
// contention.
//
// # Key Features
//
//   - Line-oriented wire protocol, simple enough to script over a raw socket
//   - Per-key serializability with no explicit locking
//   - Four value types: strings, hashes, lists, sets
//   - A sharded key directory, so directory lookups don't serialize on a single map
//   - Single-connection client SDK with automatic reconnect-and-retry
//
// # Architecture Components
//
// Client SDK (pkg/client):
//   - Single persistent connection to the server
//   - Retry-then-reconnect on transient failures
//   - Per-command methods mirroring the wire protocol
//
// Value actors (pkg/actor):
//   - One goroutine per live key, driven by a buffered channel mailbox
//   - StringActor, HashActor, ListActor, SetActor, one per value type
//   - List and set actors reach other keys (RPOPLPUSH, SMOVE, set algebra)
//     through the Resolver/Dispatcher interfaces, never a direct import of
//     the directory package
//
// Key directory (pkg/directory):
//   - Shards the live-key map across a fixed number of shard actors
//   - Routes a key to its shard with the same consistent-hash ring a
//     distributed deployment would use to route a key to a physical node
//   - Answers KEYS/SCAN/RANDOMKEY by gathering from every shard, and
//     EXISTS/DEL by asking each named key's own shard
//
// Protocol (pkg/protocol):
//   - One command or one reply per line, whitespace-separated tokens
//   - No quoting: an argument cannot itself contain whitespace
//
// Command registry (pkg/registry):
//   - Static map from command name to owning value-type family
//   - Must-exist / cannot-exist preconditions enforced before dispatch
//
// Scan engine (pkg/scan):
//   - Shared cursor + glob-pattern pagination for SCAN, HSCAN, SSCAN
//
// Consistent hashing (pkg/hash):
//   - Virtual nodes for better distribution across shards
//   - Thread-safe ring operations
//
// Configuration (pkg/config):
//   - Command-line flags and environment variables
//   - Validation and defaults
//
// Server (internal/server) and session (internal/session):
//   - TCP server with one session goroutine per connection
//   - Session enforces preconditions and dispatches to the key directory
//
// # Thread Safety
//
// Every actor (value actor, directory shard) owns its own state and is
// driven by exactly one goroutine; nothing outside that goroutine ever
// touches the state directly. The Directory itself only routes to its
// shards, whose set is fixed when it is built. The client SDK serializes request/response
// pairs over its one connection with a mutex, since the protocol is
// strictly one-reply-per-request.
//
// For detailed documentation of specific components, refer to their
// individual package documentation.
package keynode
