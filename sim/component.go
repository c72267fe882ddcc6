package sim

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// A Named object is an object that has a name.
type Named interface {
	Name() string
}

// A PortOwner is an element that can communicate with others through ports.
type PortOwner interface {
	AddPort(name string, port Port)
	GetPortByName(name string) Port
	Ports() []Port
}

// A Component is a element that is being simulated.
type Component interface {
	Named
	Handler
	Hookable
	PortOwner

	NotifyRecv(port Port)
	NotifyPortFree(port Port)
}

// PortOwnerBase provides an implementation of the PortOwner interface.
type PortOwnerBase struct {
	ports map[string]Port
}

// NewPortOwnerBase creates a new PortOwnerBase
func NewPortOwnerBase() *PortOwnerBase {
	return &PortOwnerBase{
		ports: make(map[string]Port),
	}
}

// AddPort adds a new port with a given name.
func (po *PortOwnerBase) AddPort(name string, port Port) {
	if _, found := po.ports[name]; found {
		panic("port " + name + " already exist")
	}

	po.ports[name] = port
}

// GetPortByName returns the port according to the name of the port. This
// function panics when the given name is not found.
func (po *PortOwnerBase) GetPortByName(name string) Port {
	port, found := po.ports[name]
	if !found {
		fmt.Fprintf(os.Stderr,
			"Port %s is not available. Available ports include: %s\n",
			name, strings.Join(po.portNames(), ", "))

		panic("port not found")
	}

	return port
}

// Ports returns all the ports owned, sorted by the name used to add them.
func (po *PortOwnerBase) Ports() []Port {
	names := po.portNames()

	list := make([]Port, 0, len(names))
	for _, n := range names {
		list = append(list, po.ports[n])
	}

	return list
}

func (po *PortOwnerBase) portNames() []string {
	names := make([]string, 0, len(po.ports))
	for n := range po.ports {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}

// ComponentBase provides some functions that other component can use.
type ComponentBase struct {
	HookableBase
	*PortOwnerBase
	sync.Mutex

	name string
}

// NewComponentBase creates a new ComponentBase
func NewComponentBase(name string) *ComponentBase {
	NameMustBeValid(name)

	c := new(ComponentBase)
	c.name = name
	c.PortOwnerBase = NewPortOwnerBase()

	return c
}

// Name returns the name of the component.
func (c *ComponentBase) Name() string {
	return c.name
}
