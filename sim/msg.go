package sim

import "reflect"

// A Msg is a piece of information that is transferred between components.
type Msg interface {
	Meta() *MsgMeta
	Clone() Msg
}

// MsgMeta contains the meta data that is attached to every message.
type MsgMeta struct {
	ID           string
	Src, Dst     RemotePort
	TrafficClass string
	TrafficBytes int
}

// Rsp is a message that marks the completion of a request.
type Rsp interface {
	Msg
	GetRspTo() string
}

// GeneralRsp is a response that carries no payload.
type GeneralRsp struct {
	MsgMeta

	RspTo string
}

// Meta returns the meta data of the message.
func (r *GeneralRsp) Meta() *MsgMeta {
	return &r.MsgMeta
}

// Clone returns cloned GeneralRsp with different ID
func (r *GeneralRsp) Clone() Msg {
	cloneMsg := *r
	cloneMsg.ID = GetIDGenerator().Generate()

	return &cloneMsg
}

// GetRspTo returns the ID of the original request.
func (r *GeneralRsp) GetRspTo() string {
	return r.RspTo
}

// GeneralRspBuilder can build general response messages.
type GeneralRspBuilder struct {
	src, dst     RemotePort
	trafficBytes int
	rspTo        string
}

// WithSrc sets the source of the general response message.
func (b GeneralRspBuilder) WithSrc(src RemotePort) GeneralRspBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the general response message.
func (b GeneralRspBuilder) WithDst(dst RemotePort) GeneralRspBuilder {
	b.dst = dst
	return b
}

// WithTrafficBytes sets the traffic bytes of the general response message.
func (b GeneralRspBuilder) WithTrafficBytes(n int) GeneralRspBuilder {
	b.trafficBytes = n
	return b
}

// WithRspTo sets the ID of the request that the response answers.
func (b GeneralRspBuilder) WithRspTo(id string) GeneralRspBuilder {
	b.rspTo = id
	return b
}

// Build creates a new general response message.
func (b GeneralRspBuilder) Build() *GeneralRsp {
	return &GeneralRsp{
		MsgMeta: MsgMeta{
			ID:           GetIDGenerator().Generate(),
			Src:          b.src,
			Dst:          b.dst,
			TrafficClass: reflect.TypeOf(GeneralRsp{}).String(),
			TrafficBytes: b.trafficBytes,
		},
		RspTo: b.rspTo,
	}
}
