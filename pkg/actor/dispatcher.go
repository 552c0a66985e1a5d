package actor

import (
	"context"

	"github.com/keynode/keynode/pkg/protocol"
)

// Resolver looks up the live actor for a key without creating one. Set
// algebra (SDIFF/SINTER/SUNION) uses this to fan out SMEMBERS to other
// keys; a missing key is treated as an empty collection, not an error.
type Resolver interface {
	Resolve(ctx context.Context, key string) (ValueActor, protocol.NodeType, bool)
}

// Dispatcher is the directory's full surface as seen by value actors that
// need to reach another key: resolve-or-create, then deliver. RPOPLPUSH
// uses EnsureAndTell to push into its destination fire-and-forget, exactly
// as if the session itself had received an LPUSH for that key.
type Dispatcher interface {
	Resolver
	EnsureAndTell(ctx context.Context, key string, nodeType protocol.NodeType, p *protocol.Payload) error
}
