// Package actor implements the per-key actor model: one goroutine per live
// key, driven by a buffered channel mailbox, processing exactly one message
// to completion before the next. This is what gives per-key
// serializability without locks while letting operations on distinct keys
// run fully in parallel — the Go scheduler's own M:N multiplexing of
// goroutines onto OS threads is the "M-to-N scheduling" spec §5 asks for;
// no separate thread pool is needed.
//
// The mailbox/run-loop shape is grounded in
// other_examples/e75dc0de_messdev072-multithreaded-redis (a Shard type with
// an inbox channel and a select-based run loop) and
// other_examples/0628c74c_ScottDaniels-tegu (an agent goroutine driven off a
// request channel).
package actor

import (
	"context"
	"errors"
	"time"

	"github.com/keynode/keynode/pkg/protocol"
)

// ErrStopped is returned by Send/Tell once an actor has been told to stop;
// any messages already queued at that point are discarded, matching spec
// §5's termination contract.
var ErrStopped = errors.New("actor: stopped")

// mailboxCapacity bounds how many in-flight asks a single actor will
// buffer before back-pressuring the caller.
const mailboxCapacity = 64

// dispatchTimeout bounds a value actor's own fan-out to another key (set
// algebra reads, RPOPLPUSH's push to its destination) — shorter than the
// session-level ask timeout since it's an internal hop, not a client wait.
const dispatchTimeout = 2 * time.Second

// Message is one request delivered to an actor's mailbox. Reply is
// buffered with capacity 1 so the actor's run loop never blocks writing a
// reply, even if the caller has already given up waiting for it (Tell).
type Message struct {
	Payload *protocol.Payload
	Reply   chan *protocol.Response
}

// ValueActor is the common interface satisfied by every value actor
// (string, hash, list, set), which the directory and the session treat
// uniformly as "something that accepts a Payload and answers with a
// Response."
type ValueActor interface {
	// Send delivers p and blocks for its reply, honoring ctx's deadline.
	Send(ctx context.Context, p *protocol.Payload) (*protocol.Response, error)
	// Tell delivers p without waiting for it to be handled — used for
	// fire-and-forget writes to another key (RPOPLPUSH's push to the
	// destination key, the *STORE commands' write of their result). The enqueue itself is synchronous, so ordering relative to the
	// caller's subsequent sends to the same destination actor is
	// preserved even though the handler runs later.
	Tell(ctx context.Context, p *protocol.Payload) error
	// NodeType reports which value-type family this actor belongs to.
	NodeType() protocol.NodeType
	// Stop terminates the actor. Messages already queued are discarded;
	// a stopped actor must not process further commands.
	Stop()
}

// mailbox is embedded by every concrete actor type to provide the
// send/receive/stop plumbing, so each value type only has to implement its
// own handle(payload) dispatch.
type mailbox struct {
	inbox chan Message
	quit  chan struct{}
}

func newMailbox() mailbox {
	return mailbox{
		inbox: make(chan Message, mailboxCapacity),
		quit:  make(chan struct{}),
	}
}

func (m *mailbox) Send(ctx context.Context, p *protocol.Payload) (*protocol.Response, error) {
	select {
	case <-m.quit:
		return nil, ErrStopped
	default:
	}

	reply := make(chan *protocol.Response, 1)
	select {
	case m.inbox <- Message{Payload: p, Reply: reply}:
	case <-m.quit:
		return nil, ErrStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case resp := <-reply:
		return resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *mailbox) Tell(ctx context.Context, p *protocol.Payload) error {
	select {
	case <-m.quit:
		return ErrStopped
	default:
	}

	reply := make(chan *protocol.Response, 1)
	select {
	case m.inbox <- Message{Payload: p, Reply: reply}:
		return nil
	case <-m.quit:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *mailbox) Stop() {
	select {
	case <-m.quit:
		// already stopped
	default:
		close(m.quit)
	}
}

// loop runs until stopped, calling handle for each delivered payload and
// relaying its result back to the waiting caller (if any).
func (m *mailbox) loop(handle func(*protocol.Payload) *protocol.Response) {
	for {
		select {
		case msg := <-m.inbox:
			select {
			case <-m.quit:
				return
			default:
			}
			msg.Reply <- handle(msg.Payload)
		case <-m.quit:
			return
		}
	}
}

// typeMismatch is the diagnostic every actor returns when a payload routed
// to it carries a different NodeType than its own — invariant 4 in spec
// §3: type dispatch is closed, and a mismatch must not mutate state.
func typeMismatch(want, got protocol.NodeType) *protocol.Response {
	return protocol.Errorf("type mismatch: key holds a %s value, not %s", want, got)
}

// unknownCommand is returned for a recognized node type but an
// unrecognized verb within it (should not happen via normal dispatch, since
// the registry is the single source of truth, but guards against drift).
func unknownCommand(cmd string) *protocol.Response {
	return protocol.Errorf("unknown command: %s", cmd)
}

// notImplementedResponse is the literal reply for commands the registry marks as
// recognized-but-out-of-scope (blpop/brpop/brpoplpush).
func notImplementedResponse() *protocol.Response {
	return protocol.Str("Not implemented")
}
