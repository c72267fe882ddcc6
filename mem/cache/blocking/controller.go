package blocking

import (
	"log"
	"reflect"

	"github.com/sarchlab/blockingcache/mem/mem"
	"github.com/sarchlab/blockingcache/tracing"
)

// controller runs the two rules of the cache in a fixed order every cycle.
// It accepts a request only while idle, and consumes a memory response only
// while waiting.
type controller struct {
	*Comp
}

func (m *controller) Tick() bool {
	madeProgress := false

	madeProgress = m.acceptRequest() || madeProgress
	madeProgress = m.consumeMemResponse() || madeProgress

	return madeProgress
}

func (m *controller) acceptRequest() bool {
	if m.pending != nil {
		return false
	}

	if m.topPort.PeekIncoming() == nil {
		return false
	}

	if !m.bottomPort.CanSend() || !m.topPort.CanSend() {
		return false
	}

	msg := m.topPort.RetrieveIncoming()

	req, ok := msg.(*mem.ReqMsg)
	if !ok {
		log.Panicf("cannot handle request of type %s", reflect.TypeOf(msg))
	}

	tracing.TraceReqReceive(req, m.Comp)

	switch req.Type {
	case mem.TypeWrite:
		m.processWrite(req)
	case mem.TypeRead:
		m.processRead(req)
	default:
		log.Panicf("unknown cache request type %d", req.Type)
	}

	return true
}

func (m *controller) processWrite(req *mem.ReqMsg) {
	line := &m.lines[indexOf(req.Addr)]

	if line.matches(tagOf(req.Addr)) {
		line.Data = req.Data
		m.step(req, "write-hit")
	} else {
		m.step(req, "write-miss")
	}

	m.forward(req)
}

func (m *controller) processRead(req *mem.ReqMsg) {
	line := m.lines[indexOf(req.Addr)]

	if !line.matches(tagOf(req.Addr)) {
		m.step(req, "read-miss")
		m.forward(req)

		return
	}

	m.step(req, "read-hit")

	rsp := req.GenerateRsp(line.Data)
	rsp.Src = m.topPort.AsRemote()

	if err := m.topPort.Send(rsp); err != nil {
		log.Panic("send failed after CanSend returned true")
	}

	tracing.TraceReqComplete(req, m.Comp)
}

func (m *controller) forward(req *mem.ReqMsg) {
	reqToBottom := mem.ReqMsgBuilder{}.
		WithSrc(m.bottomPort.AsRemote()).
		WithDst(m.addressToPortMapper.Find(req.Addr)).
		WithType(req.Type).
		WithOpaque(req.Opaque).
		WithAddress(req.Addr).
		WithLen(req.Len).
		WithData(req.Data).
		Build()

	if err := m.bottomPort.Send(reqToBottom); err != nil {
		log.Panic("send failed after CanSend returned true")
	}

	m.pending = &transaction{req: req, reqToBottom: reqToBottom}

	tracing.TraceReqInitiate(reqToBottom, m.Comp,
		tracing.MsgIDAtReceiver(req, m.Comp))
}

func (m *controller) consumeMemResponse() bool {
	if m.pending == nil {
		return false
	}

	if m.bottomPort.PeekIncoming() == nil {
		return false
	}

	if !m.topPort.CanSend() {
		return false
	}

	msg := m.bottomPort.RetrieveIncoming()

	rsp, ok := msg.(*mem.RespMsg)
	if !ok {
		log.Panicf("cannot handle response of type %s", reflect.TypeOf(msg))
	}

	req := m.pending.req
	if rsp.Type != req.Type {
		log.Panicf("memory responded %s to a %s request", rsp.Type, req.Type)
	}

	switch rsp.Type {
	case mem.TypeRead:
		m.lines[indexOf(req.Addr)] = Line{
			Valid: true,
			Tag:   tagOf(req.Addr),
			Data:  rsp.Data,
		}
	case mem.TypeWrite:
	default:
		log.Panicf("unknown memory response type %d", rsp.Type)
	}

	rspToTop := mem.RespMsgBuilder{}.
		WithSrc(m.topPort.AsRemote()).
		WithDst(req.Src).
		WithRspTo(req.ID).
		WithType(rsp.Type).
		WithOpaque(rsp.Opaque).
		WithLen(rsp.Len).
		WithData(rsp.Data).
		Build()

	if err := m.topPort.Send(rspToTop); err != nil {
		log.Panic("send failed after CanSend returned true")
	}

	tracing.TraceReqFinalize(m.pending.reqToBottom, m.Comp)
	tracing.TraceReqComplete(req, m.Comp)

	m.pending = nil

	return true
}

func (m *controller) step(req *mem.ReqMsg, what string) {
	tracing.AddTaskStep(tracing.MsgIDAtReceiver(req, m.Comp), m.Comp, what)
}
