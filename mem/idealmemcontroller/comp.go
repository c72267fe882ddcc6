// Package idealmemcontroller provides a memory that answers every request
// after a fixed latency.
package idealmemcontroller

import (
	"encoding/binary"
	"log"
	"math/rand"
	"reflect"

	"github.com/sarchlab/blockingcache/mem/mem"
	"github.com/sarchlab/blockingcache/sim"
	"github.com/sarchlab/blockingcache/tracing"
)

type respondEvent struct {
	*sim.EventBase
	req *mem.ReqMsg
}

func newRespondEvent(
	time sim.VTimeInSec,
	handler sim.Handler,
	req *mem.ReqMsg,
) *respondEvent {
	return &respondEvent{sim.NewEventBase(time, handler), req}
}

// A Comp is an ideal memory controller that can perform read and write.
//
// It accepts at most one request per cycle. A stalled cycle accepts no
// request. Reads return the stored word and writes return a response with
// zero data. There is no limitation on the number of requests in flight.
type Comp struct {
	*sim.TickingComponent

	topPort   sim.Port
	Storage   *mem.Storage
	Latency   int
	StallProb float64

	rand *rand.Rand
}

// Handle defines how the Comp handles event
func (c *Comp) Handle(e sim.Event) error {
	switch e := e.(type) {
	case *respondEvent:
		return c.handleRespondEvent(e)
	case sim.TickEvent:
		return c.TickingComponent.Handle(e)
	default:
		log.Panicf("cannot handle event of %s", reflect.TypeOf(e))
	}

	return nil
}

// Tick accepts a new request.
func (c *Comp) Tick() bool {
	if c.topPort.PeekIncoming() == nil {
		return false
	}

	if c.stall() {
		return true
	}

	msg := c.topPort.RetrieveIncoming()
	tracing.TraceReqReceive(msg, c)

	req, ok := msg.(*mem.ReqMsg)
	if !ok {
		log.Panicf("cannot handle request of type %s", reflect.TypeOf(msg))
	}

	respondAt := c.Freq.NCyclesLater(c.Latency, c.CurrentTime())
	c.Engine.Schedule(newRespondEvent(respondAt, c, req))

	return true
}

func (c *Comp) stall() bool {
	if c.StallProb == 0 {
		return false
	}

	return c.rand.Float64() < c.StallProb
}

func (c *Comp) handleRespondEvent(e *respondEvent) error {
	req := e.req

	rsp := mem.RespMsgBuilder{}.
		AnsweringReq(req).
		WithSrc(c.topPort.AsRemote()).
		Build()

	if !c.topPort.CanSend() {
		retry := newRespondEvent(c.Freq.NextTick(e.Time()), c, req)
		c.Engine.Schedule(retry)

		return nil
	}

	switch req.Type {
	case mem.TypeRead:
		rsp.Data = c.read(req)
	case mem.TypeWrite:
		c.write(req)
	default:
		log.Panicf("unknown memory request type %d", req.Type)
	}

	if err := c.topPort.Send(rsp); err != nil {
		log.Panic("send failed after CanSend returned true")
	}

	tracing.TraceReqComplete(req, c)
	c.TickLater()

	return nil
}

// numBytes converts a request length into a byte count. A length of 0 means a
// full word.
func numBytes(l uint8) uint64 {
	if l == 0 {
		return 4
	}

	if l > 4 {
		log.Panicf("request length %d exceeds the 4-byte word", l)
	}

	return uint64(l)
}

func (c *Comp) read(req *mem.ReqMsg) uint32 {
	data, err := c.Storage.Read(uint64(req.Addr), numBytes(req.Len))
	if err != nil {
		log.Panic(err)
	}

	word := make([]byte, 4)
	copy(word, data)

	return binary.LittleEndian.Uint32(word)
}

func (c *Comp) write(req *mem.ReqMsg) {
	word := make([]byte, 4)
	binary.LittleEndian.PutUint32(word, req.Data)

	err := c.Storage.Write(uint64(req.Addr), word[:numBytes(req.Len)])
	if err != nil {
		log.Panic(err)
	}
}
