package idealmemcontroller

import (
	"math/rand"

	"github.com/sarchlab/blockingcache/mem/mem"
	"github.com/sarchlab/blockingcache/sim"
)

// Builder can build ideal memory controllers.
type Builder struct {
	engine     sim.Engine
	freq       sim.Freq
	latency    int
	stallProb  float64
	seed       int64
	capacity   uint64
	topBufSize int
	storage    *mem.Storage
}

// MakeBuilder returns a new Builder
func MakeBuilder() Builder {
	return Builder{
		freq:       1 * sim.GHz,
		capacity:   4 * mem.GB,
		topBufSize: 1,
		seed:       1,
	}
}

// WithEngine sets the engine of the memory controller
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the memory controller
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithLatency sets the number of extra cycles before a response is sent.
func (b Builder) WithLatency(latency int) Builder {
	b.latency = latency
	return b
}

// WithStallProbability sets the chance that the memory refuses to accept a
// request in a cycle.
func (b Builder) WithStallProbability(p float64) Builder {
	b.stallProb = p
	return b
}

// WithSeed sets the seed of the random stalls.
func (b Builder) WithSeed(seed int64) Builder {
	b.seed = seed
	return b
}

// WithNewStorage sets the capacity of a new storage owned by the memory
// controller.
func (b Builder) WithNewStorage(capacity uint64) Builder {
	b.capacity = capacity
	return b
}

// WithStorage sets a storage that may be shared with others.
func (b Builder) WithStorage(storage *mem.Storage) Builder {
	b.storage = storage
	return b
}

// WithTopBufSize sets the size of the top port buffers.
func (b Builder) WithTopBufSize(topBufSize int) Builder {
	b.topBufSize = topBufSize
	return b
}

// Build builds a new Comp
func (b Builder) Build(name string) *Comp {
	if b.stallProb < 0 || b.stallProb >= 1 {
		panic("stall probability must be in [0, 1)")
	}

	c := &Comp{
		Latency:   b.latency,
		StallProb: b.stallProb,
		rand:      rand.New(rand.NewSource(b.seed)),
	}
	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	c.Storage = b.storage
	if c.Storage == nil {
		c.Storage = mem.NewStorage(b.capacity)
	}

	c.topPort = sim.NewPort(c, b.topBufSize, b.topBufSize, name+".TopPort")
	c.AddPort("Top", c.topPort)

	return c
}
