package blocking

import (
	"github.com/sarchlab/blockingcache/mem/mem"
	"github.com/sarchlab/blockingcache/sim"
)

// A Builder can build blocking caches.
type Builder struct {
	engine              sim.Engine
	freq                sim.Freq
	topBufSize          int
	bottomBufSize       int
	addressToPortMapper mem.AddressToPortMapper
}

// MakeBuilder creates a builder with default parameters. Every queue of the
// cache holds a single message by default.
func MakeBuilder() Builder {
	return Builder{
		freq:          1 * sim.GHz,
		topBufSize:    1,
		bottomBufSize: 1,
	}
}

// WithEngine sets the engine that the cache uses.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the cache.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithTopBufSize sets the capacity of the request and the response queue.
func (b Builder) WithTopBufSize(n int) Builder {
	b.topBufSize = n
	return b
}

// WithBottomBufSize sets the capacity of the memory-request and the
// memory-response queue.
func (b Builder) WithBottomBufSize(n int) Builder {
	b.bottomBufSize = n
	return b
}

// WithLowModule sets the only memory that the cache talks to.
func (b Builder) WithLowModule(port sim.RemotePort) Builder {
	b.addressToPortMapper = &mem.SinglePortMapper{Port: port}
	return b
}

// WithAddressToPortMapper sets how the cache finds the memory that holds an
// address.
func (b Builder) WithAddressToPortMapper(m mem.AddressToPortMapper) Builder {
	b.addressToPortMapper = m
	return b
}

// Build creates a new cache.
func (b Builder) Build(name string) *Comp {
	if b.addressToPortMapper == nil {
		panic("cache " + name + " does not know its low module")
	}

	c := new(Comp)
	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)
	c.addressToPortMapper = b.addressToPortMapper

	c.topPort = sim.NewPort(c, b.topBufSize, b.topBufSize, name+".TopPort")
	c.AddPort("Top", c.topPort)
	c.bottomPort = sim.NewPort(
		c, b.bottomBufSize, b.bottomBufSize, name+".BottomPort")
	c.AddPort("Bottom", c.bottomPort)

	c.AddMiddleware(&controller{Comp: c})

	return c
}
