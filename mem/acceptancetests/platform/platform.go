// Package platform wires a source, a blocking cache, one or more ideal
// memories and a sink into a runnable simulation.
package platform

import (
	"fmt"

	"github.com/sarchlab/blockingcache/mem/acceptancetests/srcsink"
	"github.com/sarchlab/blockingcache/mem/cache/blocking"
	"github.com/sarchlab/blockingcache/mem/idealmemcontroller"
	"github.com/sarchlab/blockingcache/mem/mem"
	"github.com/sarchlab/blockingcache/sim"
	"github.com/sarchlab/blockingcache/sim/directconnection"
	"github.com/sarchlab/blockingcache/sim/simulation"
	"github.com/sarchlab/blockingcache/tracing"
)

// Config selects what to run and the timing of the agents and the memory.
type Config struct {
	srcsink.TestCase

	Seed     int64
	MemBanks int
	Freq     sim.Freq
}

// DefaultConfig returns the configuration of a test case with a single
// memory bank.
func DefaultConfig(tc srcsink.TestCase) Config {
	return Config{
		TestCase: tc,
		Seed:     1,
		MemBanks: 1,
		Freq:     1 * sim.GHz,
	}
}

// Platform holds every component of a cache test.
type Platform struct {
	Engine     sim.Engine
	Simulation *simulation.Simulation
	Conn       *directconnection.Comp
	Agent      *srcsink.Agent
	Cache      *blocking.Comp
	Mems       []*idealmemcontroller.Comp
	Storage    *mem.Storage

	freq       sim.Freq
	steps      *tracing.StepCountTracer
	reqLatency *tracing.TotalTimeTracer
}

// Build creates the platform on the engine.
func Build(engine sim.Engine, cfg Config) (*Platform, error) {
	gen, ok := srcsink.Scenarios[cfg.Scenario]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q", cfg.Scenario)
	}

	if cfg.MemBanks < 1 {
		return nil, fmt.Errorf("need at least one memory bank, got %d",
			cfg.MemBanks)
	}

	pairs := gen(srcsink.BaseAddr)

	p := &Platform{
		Engine:     engine,
		Simulation: simulation.NewSimulation(engine),
		Storage:    mem.NewStorage(4 * mem.GB),
		freq:       cfg.Freq,
	}

	p.Conn = directconnection.MakeBuilder().
		WithEngine(engine).
		WithFreq(cfg.Freq).
		Build("Conn")

	p.buildMems(cfg)
	p.buildCache(cfg)

	p.Agent = srcsink.MakeBuilder().
		WithEngine(engine).
		WithFreq(cfg.Freq).
		WithDst(p.Cache.GetPortByName("Top").AsRemote()).
		WithSrcDelay(cfg.SrcDelay).
		WithSinkDelay(cfg.SinkDelay).
		Build("Agent", pairs)

	p.connect()
	p.register()
	p.trace()

	return p, nil
}

func (p *Platform) buildMems(cfg Config) {
	for i := 0; i < cfg.MemBanks; i++ {
		name := "Mem"
		if cfg.MemBanks > 1 {
			name = sim.BuildNameWithIndex("", "Mem", i)
		}

		m := idealmemcontroller.MakeBuilder().
			WithEngine(p.Engine).
			WithFreq(cfg.Freq).
			WithLatency(cfg.Latency).
			WithStallProbability(cfg.StallProb).
			WithSeed(cfg.Seed + int64(i)).
			WithStorage(p.Storage).
			Build(name)

		p.Mems = append(p.Mems, m)
	}
}

func (p *Platform) buildCache(cfg Config) {
	b := blocking.MakeBuilder().
		WithEngine(p.Engine).
		WithFreq(cfg.Freq)

	if len(p.Mems) == 1 {
		b = b.WithLowModule(p.Mems[0].GetPortByName("Top").AsRemote())
	} else {
		mapper := mem.NewInterleavedAddressPortMapper(4)
		for _, m := range p.Mems {
			mapper.LowModules = append(mapper.LowModules,
				m.GetPortByName("Top").AsRemote())
		}

		b = b.WithAddressToPortMapper(mapper)
	}

	p.Cache = b.Build("Cache")
}

func (p *Platform) connect() {
	p.Conn.PlugIn(p.Agent.GetPortByName("Port"), 1)
	p.Conn.PlugIn(p.Cache.GetPortByName("Top"), 1)
	p.Conn.PlugIn(p.Cache.GetPortByName("Bottom"), 1)

	for _, m := range p.Mems {
		p.Conn.PlugIn(m.GetPortByName("Top"), 1)
	}
}

func (p *Platform) register() {
	p.Simulation.RegisterComponent(p.Agent)
	p.Simulation.RegisterComponent(p.Cache)

	for _, m := range p.Mems {
		p.Simulation.RegisterComponent(m)
	}

	p.Simulation.RegisterComponent(p.Conn)
}

func (p *Platform) trace() {
	p.steps = tracing.NewStepCountTracer(func(t tracing.Task) bool {
		return t.Kind == "req_in"
	})
	tracing.CollectTrace(p.Cache, p.steps)

	p.reqLatency = tracing.NewTotalTimeTracer(p.Engine,
		func(t tracing.Task) bool { return t.Kind == "req_in" })
	tracing.CollectTrace(p.Cache, p.reqLatency)
}
