package srcsink

import (
	"github.com/sarchlab/blockingcache/sim"
)

// Builder can build agents.
type Builder struct {
	engine    sim.Engine
	freq      sim.Freq
	dst       sim.RemotePort
	srcDelay  int
	sinkDelay int
}

// MakeBuilder creates a builder of agents that never wait between messages.
func MakeBuilder() *Builder {
	return &Builder{
		freq: 1 * sim.GHz,
	}
}

// WithEngine sets the engine of the agent.
func (b *Builder) WithEngine(engine sim.Engine) *Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the agent.
func (b *Builder) WithFreq(freq sim.Freq) *Builder {
	b.freq = freq
	return b
}

// WithDst sets the port that the requests are sent to.
func (b *Builder) WithDst(dst sim.RemotePort) *Builder {
	b.dst = dst
	return b
}

// WithSrcDelay sets the number of idle cycles after each request.
func (b *Builder) WithSrcDelay(delay int) *Builder {
	b.srcDelay = delay
	return b
}

// WithSinkDelay sets the number of idle cycles after each response.
func (b *Builder) WithSinkDelay(delay int) *Builder {
	b.sinkDelay = delay
	return b
}

// Build creates an agent that runs the request and response pairs.
func (b *Builder) Build(name string, pairs []Pair) *Agent {
	a := new(Agent)
	a.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, a)

	a.port = sim.NewPort(a, 1, 1, name+".Port")
	a.AddPort("Port", a.port)

	a.source = &Source{
		Dst:   b.dst,
		Delay: b.srcDelay,
		port:  a.port,
		reqs:  Reqs(pairs),
	}
	a.sink = &Sink{
		Delay:    b.sinkDelay,
		port:     a.port,
		expected: Rsps(pairs),
	}

	a.AddMiddleware(a.source)
	a.AddMiddleware(a.sink)

	return a
}
