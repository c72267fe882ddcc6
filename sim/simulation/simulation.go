// Package simulation keeps track of the engine and the components that form
// a simulation.
package simulation

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sarchlab/blockingcache/sim"
)

// A Simulation provides the service requires to define a simulation.
type Simulation struct {
	engine      sim.Engine
	components  []sim.Component
	compByName  map[string]sim.Component
	stateHolder map[string]StateHolder
}

// NewSimulation creates a new simulation driven by the engine.
func NewSimulation(engine sim.Engine) *Simulation {
	return &Simulation{
		engine:      engine,
		compByName:  make(map[string]sim.Component),
		stateHolder: make(map[string]StateHolder),
	}
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() sim.Engine {
	return s.engine
}

// RegisterComponent adds a component to the simulation. Components that can
// report their state are also registered as state holders.
func (s *Simulation) RegisterComponent(c sim.Component) {
	name := c.Name()

	if _, ok := s.compByName[name]; ok {
		panic("component " + name + " already registered")
	}

	s.components = append(s.components, c)
	s.compByName[name] = c

	if h, ok := c.(StateHolder); ok {
		s.stateHolder[name] = h
	}
}

// Components returns the components in the order they were registered.
func (s *Simulation) Components() []sim.Component {
	return s.components
}

// GetComponentByName returns the component with the given name, or nil.
func (s *Simulation) GetComponentByName(name string) sim.Component {
	return s.compByName[name]
}

// GetStateHolderByName returns the state holder with the given name.
func (s *Simulation) GetStateHolderByName(name string) StateHolder {
	return s.stateHolder[name]
}

// Save writes the current state of every state holder as a JSON object keyed
// by component name.
func (s *Simulation) Save(w io.Writer) error {
	data := make(map[string]any)

	for name, h := range s.stateHolder {
		data[name] = h.State()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding simulation state: %w", err)
	}

	return nil
}
