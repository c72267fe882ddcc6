// Package directconnection provides a connection that moves messages between
// ports without latency.
//
// The connection ticks as a secondary event. In every cycle it runs after all
// the components have ticked, so a message sent in cycle N is visible to the
// receiver in cycle N+1. This gives every port buffer the behavior of a
// valid/ready elastic queue.
package directconnection

import (
	"log"

	"github.com/sarchlab/blockingcache/sim"
)

// Comp is a DirectConnection connects two components without latency
type Comp struct {
	*sim.TickingComponent
	sim.MiddlewareHolder

	nextPortID int
	ports      []sim.Port
	remotes    map[sim.RemotePort]sim.Port
}

// PlugIn marks the port connects to this DirectConnection.
func (c *Comp) PlugIn(port sim.Port, _ int) {
	c.Lock()
	defer c.Unlock()

	if _, found := c.remotes[port.AsRemote()]; found {
		log.Panicf("port %s is already plugged in %s", port.AsRemote(), c.Name())
	}

	c.ports = append(c.ports, port)
	c.remotes[port.AsRemote()] = port

	port.SetConnection(c)
}

// Unplug marks the port no longer connects to this DirectConnection.
func (c *Comp) Unplug(_ sim.Port) {
	panic("not implemented")
}

// NotifyAvailable is called by a port to notify that the connection can
// deliver to the port again.
func (c *Comp) NotifyAvailable(p sim.Port) {
	for _, port := range c.ports {
		if port == p {
			continue
		}

		port.NotifyAvailable()
	}

	c.TickNow()
}

// NotifySend is called by a port to notify that the connection can start
// to tick now
func (c *Comp) NotifySend() {
	c.TickNow()
}

// Tick moves messages.
func (c *Comp) Tick() bool {
	return c.MiddlewareHolder.Tick()
}

type middleware struct {
	*Comp
}

// Tick delivers messages from every port, starting from a different port each
// cycle so that no sender is always served first.
func (m *middleware) Tick() bool {
	if len(m.ports) == 0 {
		return false
	}

	madeProgress := false
	for i := 0; i < len(m.ports); i++ {
		port := m.ports[(i+m.nextPortID)%len(m.ports)]
		madeProgress = m.forwardMany(port) || madeProgress
	}

	m.nextPortID = (m.nextPortID + 1) % len(m.ports)

	return madeProgress
}

func (m *middleware) forwardMany(port sim.Port) bool {
	madeProgress := false

	for {
		head := port.PeekOutgoing()
		if head == nil {
			break
		}

		dst, found := m.remotes[head.Meta().Dst]
		if !found {
			log.Panicf("%s cannot find destination %s of msg %s",
				m.Name(), head.Meta().Dst, head.Meta().ID)
		}

		if err := dst.Deliver(head); err != nil {
			break
		}

		madeProgress = true
		port.RetrieveOutgoing()
	}

	return madeProgress
}
