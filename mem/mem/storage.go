package mem

import (
	"encoding/binary"
	"fmt"
	"sync"
)

// For capacity
const (
	_         = iota
	KB uint64 = 1 << (10 * iota)
	MB
	GB
)

// A Storage keeps the data of the simulated memory.
//
// The storage is managed in units of 4 KB. No memory is allocated for the
// units that are never touched by Read and Write.
type Storage struct {
	sync.Mutex

	unitSize uint64
	capacity uint64
	data     map[uint64][]byte
}

// NewStorage creates a storage object with the specified capacity
func NewStorage(capacity uint64) *Storage {
	return &Storage{
		unitSize: 4 * KB,
		capacity: capacity,
		data:     make(map[uint64][]byte),
	}
}

// Capacity returns the number of bytes that the storage can hold.
func (s *Storage) Capacity() uint64 {
	return s.capacity
}

func (s *Storage) unit(addr uint64) []byte {
	base := addr / s.unitSize * s.unitSize

	u, ok := s.data[base]
	if !ok {
		u = make([]byte, s.unitSize)
		s.data[base] = u
	}

	return u
}

func (s *Storage) rangeMustFit(addr, n uint64) error {
	if addr+n > s.capacity || addr+n < addr {
		return fmt.Errorf(
			"accessing [0x%x, 0x%x) beyond the storage capacity 0x%x",
			addr, addr+n, s.capacity)
	}

	return nil
}

// Read returns n bytes starting from the address.
func (s *Storage) Read(addr, n uint64) ([]byte, error) {
	s.Lock()
	defer s.Unlock()

	if err := s.rangeMustFit(addr, n); err != nil {
		return nil, err
	}

	res := make([]byte, n)
	for done := uint64(0); done < n; {
		curr := addr + done
		offset := curr % s.unitSize
		copied := copy(res[done:], s.unit(curr)[offset:])
		done += uint64(copied)
	}

	return res, nil
}

// Write stores the data starting from the address.
func (s *Storage) Write(addr uint64, data []byte) error {
	s.Lock()
	defer s.Unlock()

	n := uint64(len(data))
	if err := s.rangeMustFit(addr, n); err != nil {
		return err
	}

	for done := uint64(0); done < n; {
		curr := addr + done
		offset := curr % s.unitSize
		copied := copy(s.unit(curr)[offset:], data[done:])
		done += uint64(copied)
	}

	return nil
}

// ReadWord reads a little-endian 32-bit word.
func (s *Storage) ReadWord(addr uint32) (uint32, error) {
	buf, err := s.Read(uint64(addr), 4)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(buf), nil
}

// WriteWord writes a little-endian 32-bit word.
func (s *Storage) WriteWord(addr uint32, word uint32) error {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, word)

	return s.Write(uint64(addr), buf)
}
