package srcsink

import (
	"log"

	"github.com/sarchlab/blockingcache/mem/mem"
	"github.com/sarchlab/blockingcache/sim"
)

// A Source sends its requests in order, waiting Delay idle cycles after each
// send.
type Source struct {
	Dst   sim.RemotePort
	Delay int

	port    sim.Port
	reqs    []*mem.ReqMsg
	next    int
	waitFor int
}

// Tick sends the next request if the delay has passed.
func (s *Source) Tick() bool {
	if s.Done() {
		return false
	}

	if s.waitFor > 0 {
		s.waitFor--
		return true
	}

	if !s.port.CanSend() {
		return false
	}

	req := s.reqs[s.next]
	req.Src = s.port.AsRemote()
	req.Dst = s.Dst

	if err := s.port.Send(req); err != nil {
		log.Panic("send failed after CanSend returned true")
	}

	s.next++
	s.waitFor = s.Delay

	return true
}

// Done tells if all the requests are sent.
func (s *Source) Done() bool {
	return s.next >= len(s.reqs)
}

// NumSent returns the number of requests sent so far.
func (s *Source) NumSent() int {
	return s.next
}

// NumReqs returns the number of requests the source has to send.
func (s *Source) NumReqs() int {
	return len(s.reqs)
}
