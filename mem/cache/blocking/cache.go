// Package blocking provides a blocking, write-through, no-write-allocate,
// direct-mapped cache with eight one-word lines.
//
// The cache serves at most one memory transaction at a time. Read hits are
// answered from the cache. Read misses fetch the word from memory and refill
// the line. Writes always go to memory and update the line only if it already
// holds the address.
package blocking

import (
	"github.com/sarchlab/blockingcache/mem/mem"
	"github.com/sarchlab/blockingcache/sim"
)

// Comp is a blocking cache.
type Comp struct {
	*sim.TickingComponent
	sim.MiddlewareHolder

	topPort             sim.Port
	bottomPort          sim.Port
	addressToPortMapper mem.AddressToPortMapper

	lines   [NumLines]Line
	pending *transaction
}

// Tick runs the controller for one cycle.
func (c *Comp) Tick() bool {
	return c.MiddlewareHolder.Tick()
}

// Line returns a copy of the i-th cache line.
func (c *Comp) Line(i int) Line {
	return c.lines[i]
}

// Lines returns a copy of all the cache lines.
func (c *Comp) Lines() []Line {
	lines := make([]Line, NumLines)
	copy(lines, c.lines[:])

	return lines
}

// IsWaiting tells if the cache is waiting for a memory response.
func (c *Comp) IsWaiting() bool {
	return c.pending != nil
}

// LineTrace returns a one-line summary of the tags held, such as
// "(0000080|       |...)".
func (c *Comp) LineTrace() string {
	return lineTrace(c.lines[:])
}

// State is a snapshot of the cache that can be encoded as JSON.
type State struct {
	Lines       []Line `json:"lines"`
	Waiting     bool   `json:"waiting"`
	PendingAddr uint32 `json:"pending_addr,omitempty"`
}

// State returns a snapshot of the lines and the pending transaction.
func (c *Comp) State() any {
	s := State{
		Lines:   c.Lines(),
		Waiting: c.IsWaiting(),
	}

	if c.pending != nil {
		s.PendingAddr = c.pending.req.Addr
	}

	return s
}
