// Package runtime implements spec.md §5's cooperative scheduler: one-shot
// channel pairs, the seven interaction primitives, Begin/Loop dispatch, and
// error propagation by draining.
//
// Grounded on funvibe-funxy's general goroutine/channel idiom (no teacher
// subsystem implements session-typed delegation directly, since the
// retrieval pack's concurrency usage is limited to ordinary request/response
// plumbing) plus hashicorp-nomad's allocation-id pattern for giving
// long-lived concurrent units a stable, loggable identity — adapted here to
// per-channel and per-task uuid.UUIDs rather than scheduler allocations.
package runtime

import (
	"github.com/google/uuid"

	"github.com/funvibe/par/internal/calculus"
)

// Value is anything a channel can carry: a primitive literal or delegation
// of another channel's end (spec.md §3 "every send also transfers the rest
// of the session").
type Value interface{}

// ChannelEnd wraps the peer-facing *Channel so it can be stored as a Value
// without the calculus/types packages needing to import runtime.
type ChannelEnd struct{ Chan *Channel }

// Literal adapts a calculus.Literal into a runtime Value.
type Literal struct{ calculus.Literal }

// Channel is one end of a one-shot-message-at-a-time session channel pair.
// Every message exchanged also carries the fresh channel pair for
// whatever comes next in the protocol (delegation), so In/Out never need to
// carry more than one Message before the next delegated pair takes over.
type Channel struct {
	ID  uuid.UUID
	in  <-chan Message
	out chan<- Message
}

// NewChannelPair allocates two linked Channel ends: whatever is sent on one
// end's Out is received on the other's In. Each direction is a one-message
// cell (buffer 1): setting it never blocks, so a producer of plain data can
// finish even if the consumer reads later or never.
func NewChannelPair() (a, b *Channel) {
	ab := make(chan Message, 1)
	ba := make(chan Message, 1)
	return &Channel{ID: uuid.New(), in: ba, out: ab},
		&Channel{ID: uuid.New(), in: ab, out: ba}
}

func (c *Channel) send(m Message) { c.out <- m }
func (c *Channel) recv() Message  { return <-c.in }
