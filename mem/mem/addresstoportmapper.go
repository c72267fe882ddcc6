package mem

import "github.com/sarchlab/blockingcache/sim"

// AddressToPortMapper helps a cache to find the low module that holds the
// data at a certain address.
type AddressToPortMapper interface {
	Find(address uint32) sim.RemotePort
}

// SinglePortMapper is used when a unit is connected with only one
// low module
type SinglePortMapper struct {
	Port sim.RemotePort
}

// Find simply returns the solo unit that it connects to
func (f *SinglePortMapper) Find(uint32) sim.RemotePort {
	return f.Port
}

// InterleavedAddressPortMapper finds the low module when the address space
// is interleaved across several low modules.
type InterleavedAddressPortMapper struct {
	InterleavingSize uint32
	LowModules       []sim.RemotePort
}

// NewInterleavedAddressPortMapper creates a new mapper for interleaved low
// modules.
func NewInterleavedAddressPortMapper(
	interleavingSize uint32,
) *InterleavedAddressPortMapper {
	return &InterleavedAddressPortMapper{
		InterleavingSize: interleavingSize,
	}
}

// Find returns the low module that has the data at provided address
func (f *InterleavedAddressPortMapper) Find(address uint32) sim.RemotePort {
	n := address / f.InterleavingSize % uint32(len(f.LowModules))
	return f.LowModules[n]
}
