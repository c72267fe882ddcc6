package mem

import (
	"fmt"
	"log"
	"reflect"

	"github.com/sarchlab/blockingcache/sim"
)

var reqByteOverhead = 12
var rspByteOverhead = 4

// MsgType tells if a memory message is a read or a write.
type MsgType uint8

// The message types understood by the memory system.
const (
	TypeRead  MsgType = 0
	TypeWrite MsgType = 1
)

func (t MsgType) String() string {
	switch t {
	case TypeRead:
		return "rd"
	case TypeWrite:
		return "wr"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// A ReqMsg is a one-word read or write request.
//
// Opaque is an 8-bit tag chosen by the requester and echoed back in the
// response. Len is a 2-bit length where 0 means a full 4-byte word.
type ReqMsg struct {
	sim.MsgMeta

	Type   MsgType
	Opaque uint8
	Addr   uint32
	Len    uint8
	Data   uint32
}

// Meta returns the message meta.
func (r *ReqMsg) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// Clone returns a copy of the request with a new ID.
func (r *ReqMsg) Clone() sim.Msg {
	cloneMsg := *r
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// String formats the request as type:opaque:addr:data.
func (r *ReqMsg) String() string {
	if r.Type == TypeRead {
		return fmt.Sprintf("%s:%02x:%08x:%8s", r.Type, r.Opaque, r.Addr, "")
	}

	return fmt.Sprintf("%s:%02x:%08x:%08x", r.Type, r.Opaque, r.Addr, r.Data)
}

// GenerateRsp builds the response that answers the request with the given
// data. The response is sent from the port that the request was sent to.
func (r *ReqMsg) GenerateRsp(data uint32) *RespMsg {
	return RespMsgBuilder{}.
		AnsweringReq(r).
		WithData(data).
		Build()
}

// ReqMsgBuilder can build requests.
type ReqMsgBuilder struct {
	src, dst sim.RemotePort
	msgType  MsgType
	opaque   uint8
	addr     uint32
	len      uint8
	data     uint32
}

// WithSrc sets the source of the request to build.
func (b ReqMsgBuilder) WithSrc(src sim.RemotePort) ReqMsgBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the request to build.
func (b ReqMsgBuilder) WithDst(dst sim.RemotePort) ReqMsgBuilder {
	b.dst = dst
	return b
}

// WithType sets if the request reads or writes.
func (b ReqMsgBuilder) WithType(t MsgType) ReqMsgBuilder {
	b.msgType = t
	return b
}

// WithOpaque sets the requester tag.
func (b ReqMsgBuilder) WithOpaque(opaque uint8) ReqMsgBuilder {
	b.opaque = opaque
	return b
}

// WithAddress sets the byte address of the request to build.
func (b ReqMsgBuilder) WithAddress(addr uint32) ReqMsgBuilder {
	b.addr = addr
	return b
}

// WithLen sets the length field. Only 0 to 3 are valid.
func (b ReqMsgBuilder) WithLen(l uint8) ReqMsgBuilder {
	b.len = l
	return b
}

// WithData sets the data to write.
func (b ReqMsgBuilder) WithData(data uint32) ReqMsgBuilder {
	b.data = data
	return b
}

// Build creates a new ReqMsg
func (b ReqMsgBuilder) Build() *ReqMsg {
	lenMustFit(b.len)

	r := &ReqMsg{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.TrafficClass = reflect.TypeOf(ReqMsg{}).String()
	r.TrafficBytes = reqByteOverhead
	r.Type = b.msgType
	r.Opaque = b.opaque
	r.Addr = b.addr
	r.Len = b.len
	r.Data = b.data

	if b.msgType == TypeWrite {
		r.TrafficBytes += 4
	}

	return r
}

// A RespMsg answers a ReqMsg. A write response carries no meaningful data.
type RespMsg struct {
	sim.MsgMeta

	RespondTo string
	Type      MsgType
	Opaque    uint8
	Len       uint8
	Data      uint32
}

// Meta returns the message meta.
func (r *RespMsg) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// Clone returns a copy of the response with a new ID.
func (r *RespMsg) Clone() sim.Msg {
	cloneMsg := *r
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// GetRspTo returns the ID of the request that the response answers.
func (r *RespMsg) GetRspTo() string {
	return r.RespondTo
}

// String formats the response as type:opaque:len:data.
func (r *RespMsg) String() string {
	if r.Type == TypeWrite {
		return fmt.Sprintf("%s:%02x:%d:%8s", r.Type, r.Opaque, r.Len, "")
	}

	return fmt.Sprintf("%s:%02x:%d:%08x", r.Type, r.Opaque, r.Len, r.Data)
}

// RespMsgBuilder can build responses.
type RespMsgBuilder struct {
	src, dst sim.RemotePort
	rspTo    string
	msgType  MsgType
	opaque   uint8
	len      uint8
	data     uint32
}

// WithSrc sets the source of the response to build.
func (b RespMsgBuilder) WithSrc(src sim.RemotePort) RespMsgBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the response to build.
func (b RespMsgBuilder) WithDst(dst sim.RemotePort) RespMsgBuilder {
	b.dst = dst
	return b
}

// WithRspTo sets the ID of the request to answer.
func (b RespMsgBuilder) WithRspTo(id string) RespMsgBuilder {
	b.rspTo = id
	return b
}

// WithType sets if the response answers a read or a write.
func (b RespMsgBuilder) WithType(t MsgType) RespMsgBuilder {
	b.msgType = t
	return b
}

// WithOpaque sets the requester tag.
func (b RespMsgBuilder) WithOpaque(opaque uint8) RespMsgBuilder {
	b.opaque = opaque
	return b
}

// WithLen sets the length field. Only 0 to 3 are valid.
func (b RespMsgBuilder) WithLen(l uint8) RespMsgBuilder {
	b.len = l
	return b
}

// WithData sets the data returned.
func (b RespMsgBuilder) WithData(data uint32) RespMsgBuilder {
	b.data = data
	return b
}

// AnsweringReq copies the response fields and routing from the request that
// is being answered. The data field is left untouched.
func (b RespMsgBuilder) AnsweringReq(req *ReqMsg) RespMsgBuilder {
	b.src = req.Dst
	b.dst = req.Src
	b.rspTo = req.ID
	b.msgType = req.Type
	b.opaque = req.Opaque
	b.len = req.Len

	return b
}

// Build creates a new RespMsg.
func (b RespMsgBuilder) Build() *RespMsg {
	lenMustFit(b.len)

	r := &RespMsg{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.TrafficClass = reflect.TypeOf(RespMsg{}).String()
	r.TrafficBytes = rspByteOverhead
	r.RespondTo = b.rspTo
	r.Type = b.msgType
	r.Opaque = b.opaque
	r.Len = b.len
	r.Data = b.data

	if b.msgType == TypeRead {
		r.TrafficBytes += 4
	}

	return r
}

func lenMustFit(l uint8) {
	if l > 3 {
		log.Panicf("len %d does not fit in 2 bits", l)
	}
}
