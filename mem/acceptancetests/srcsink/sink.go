package srcsink

import (
	"fmt"
	"log"
	"reflect"

	"github.com/sarchlab/blockingcache/mem/mem"
	"github.com/sarchlab/blockingcache/sim"
)

// A Sink accepts responses in order and compares each with the next expected
// one. It waits Delay idle cycles after each accept.
type Sink struct {
	Delay int

	port       sim.Port
	expected   []*mem.RespMsg
	next       int
	waitFor    int
	mismatches []string
}

// Tick accepts the next response if the delay has passed.
func (s *Sink) Tick() bool {
	if s.waitFor > 0 {
		s.waitFor--
		return true
	}

	msg := s.port.PeekIncoming()
	if msg == nil {
		return false
	}

	s.port.RetrieveIncoming()

	rsp, ok := msg.(*mem.RespMsg)
	if !ok {
		log.Panicf("cannot handle message of type %s", reflect.TypeOf(msg))
	}

	s.check(rsp)
	s.waitFor = s.Delay

	return true
}

func (s *Sink) check(rsp *mem.RespMsg) {
	if s.Done() {
		s.mismatches = append(s.mismatches,
			fmt.Sprintf("unexpected response %s", rsp))
		return
	}

	exp := s.expected[s.next]
	s.next++

	if !Matches(exp, rsp) {
		s.mismatches = append(s.mismatches,
			fmt.Sprintf("response %d: expected %s, got %s", s.next-1, exp, rsp))
	}
}

// Matches tells if a response carries the expected fields. The data of a
// write response is not compared.
func Matches(exp, rsp *mem.RespMsg) bool {
	if exp.Type != rsp.Type || exp.Opaque != rsp.Opaque || exp.Len != rsp.Len {
		return false
	}

	if exp.Type == mem.TypeWrite {
		return true
	}

	return exp.Data == rsp.Data
}

// Done tells if all the expected responses have arrived.
func (s *Sink) Done() bool {
	return s.next >= len(s.expected)
}

// NumReceived returns the number of expected responses that have arrived.
func (s *Sink) NumReceived() int {
	return s.next
}

// Mismatches returns a description of every wrong or unexpected response.
func (s *Sink) Mismatches() []string {
	return s.mismatches
}
