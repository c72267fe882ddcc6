// Package srcsink provides the requester that drives a memory system in
// acceptance tests.
//
// An Agent owns a single port. Its Source sends a fixed list of requests
// through the port and its Sink checks the responses that come back against a
// fixed list of expectations. The two run as independent middlewares, each
// with its own delay.
package srcsink

import (
	"github.com/sarchlab/blockingcache/sim"
)

// An Agent is the requester side of a memory test.
type Agent struct {
	*sim.TickingComponent
	sim.MiddlewareHolder

	port   sim.Port
	source *Source
	sink   *Sink
}

// Tick runs the source and then the sink.
func (a *Agent) Tick() bool {
	return a.MiddlewareHolder.Tick()
}

// Source returns the part of the agent that sends requests.
func (a *Agent) Source() *Source {
	return a.source
}

// Sink returns the part of the agent that receives responses.
func (a *Agent) Sink() *Sink {
	return a.sink
}

// Done tells if all the requests are sent and all the responses have
// arrived.
func (a *Agent) Done() bool {
	return a.source.Done() && a.sink.Done()
}
