package sim

import (
	"fmt"
	"sync"
)

// HookPosPortMsgSend marks when a message is sent out from the port.
var HookPosPortMsgSend = &HookPos{Name: "Port Msg Send"}

// HookPosPortMsgRecvd marks when an inbound message arrives at a the given port
var HookPosPortMsgRecvd = &HookPos{Name: "Port Msg Recv"}

// HookPosPortMsgRetrieveIncoming marks when an inbound message is retrieved
// from the incoming buffer.
var HookPosPortMsgRetrieveIncoming = &HookPos{
	Name: "Port Msg Retrieve Incoming",
}

// HookPosPortMsgRetrieveOutgoing marks when an outbound message is retrieved
// from the outgoing buffer.
var HookPosPortMsgRetrieveOutgoing = &HookPos{
	Name: "Port Msg Retrieve Outgoing",
}

// A RemotePort is a string that refers to another port.
type RemotePort string

// A Port is owned by a component and is used to plugin connections.
//
// A port holds two bounded queues. The component pushes into the outgoing
// queue with Send and pops the incoming queue with RetrieveIncoming. The
// connection does the opposite with RetrieveOutgoing and Deliver.
type Port interface {
	Named
	Hookable

	AsRemote() RemotePort

	SetConnection(conn Connection)
	Component() Component

	// For connection
	Deliver(msg Msg) *SendError
	NotifyAvailable()
	RetrieveOutgoing() Msg
	PeekOutgoing() Msg

	// For component
	CanSend() bool
	Send(msg Msg) *SendError
	RetrieveIncoming() Msg
	PeekIncoming() Msg
}

type defaultPort struct {
	HookableBase

	lock sync.Mutex
	name string
	comp Component
	conn Connection

	incomingBuf Buffer
	outgoingBuf Buffer
}

// NewPort creates a new port with default behavior.
func NewPort(
	comp Component,
	incomingBufCap, outgoingBufCap int,
	name string,
) Port {
	p := new(defaultPort)
	p.comp = comp
	p.name = name
	p.incomingBuf = NewBuffer(name+".IncomingBuf", incomingBufCap)
	p.outgoingBuf = NewBuffer(name+".OutgoingBuf", outgoingBufCap)

	return p
}

// AsRemote returns the remote port name.
func (p *defaultPort) AsRemote() RemotePort {
	return RemotePort(p.name)
}

// SetConnection sets which connection plugged in to this port.
func (p *defaultPort) SetConnection(conn Connection) {
	if p.conn != nil {
		panic(fmt.Sprintf(
			"connection already set to %s, now connecting to %s",
			p.conn.Name(), conn.Name(),
		))
	}

	p.conn = conn
}

// Component returns the owner component of the port.
func (p *defaultPort) Component() Component {
	return p.comp
}

// Name returns the name of the port.
func (p *defaultPort) Name() string {
	return p.name
}

// CanSend checks if the port can send a message without error.
func (p *defaultPort) CanSend() bool {
	p.lock.Lock()
	defer p.lock.Unlock()

	return p.outgoingBuf.CanPush()
}

// Send places a message in the outgoing buffer and lets the connection know.
func (p *defaultPort) Send(msg Msg) *SendError {
	p.msgMustBeValid(msg)

	p.lock.Lock()
	if !p.outgoingBuf.CanPush() {
		p.lock.Unlock()
		return NewSendError()
	}

	p.outgoingBuf.Push(msg)
	p.invoke(HookPosPortMsgSend, msg)
	p.lock.Unlock()

	if p.conn != nil {
		p.conn.NotifySend()
	}

	return nil
}

// Deliver places a message in the incoming buffer and wakes the owner.
func (p *defaultPort) Deliver(msg Msg) *SendError {
	p.lock.Lock()
	if !p.incomingBuf.CanPush() {
		p.lock.Unlock()
		return NewSendError()
	}

	p.invoke(HookPosPortMsgRecvd, msg)
	p.incomingBuf.Push(msg)
	p.lock.Unlock()

	if p.comp != nil {
		p.comp.NotifyRecv(p)
	}

	return nil
}

// RetrieveIncoming is used by the component to take a message from the
// incoming buffer.
func (p *defaultPort) RetrieveIncoming() Msg {
	p.lock.Lock()
	wasFull := !p.incomingBuf.CanPush()

	item := p.incomingBuf.Pop()
	if item == nil {
		p.lock.Unlock()
		return nil
	}

	msg := item.(Msg)
	p.invoke(HookPosPortMsgRetrieveIncoming, msg)
	p.lock.Unlock()

	if wasFull && p.conn != nil {
		p.conn.NotifyAvailable(p)
	}

	return msg
}

// RetrieveOutgoing is used by the connection to take a message from the
// outgoing buffer.
func (p *defaultPort) RetrieveOutgoing() Msg {
	p.lock.Lock()
	wasFull := !p.outgoingBuf.CanPush()

	item := p.outgoingBuf.Pop()
	if item == nil {
		p.lock.Unlock()
		return nil
	}

	msg := item.(Msg)
	p.invoke(HookPosPortMsgRetrieveOutgoing, msg)
	p.lock.Unlock()

	if wasFull && p.comp != nil {
		p.comp.NotifyPortFree(p)
	}

	return msg
}

// PeekIncoming returns the first message in the incoming buffer without
// removing it.
func (p *defaultPort) PeekIncoming() Msg {
	p.lock.Lock()
	defer p.lock.Unlock()

	item := p.incomingBuf.Peek()
	if item == nil {
		return nil
	}

	return item.(Msg)
}

// PeekOutgoing returns the first message in the outgoing buffer without
// removing it.
func (p *defaultPort) PeekOutgoing() Msg {
	p.lock.Lock()
	defer p.lock.Unlock()

	item := p.outgoingBuf.Peek()
	if item == nil {
		return nil
	}

	return item.(Msg)
}

// NotifyAvailable is called by the connection when the destination can take
// more messages.
func (p *defaultPort) NotifyAvailable() {
	if p.comp != nil {
		p.comp.NotifyPortFree(p)
	}
}

func (p *defaultPort) invoke(pos *HookPos, msg Msg) {
	if p.NumHooks() == 0 {
		return
	}

	p.InvokeHook(HookCtx{
		Domain: p,
		Pos:    pos,
		Item:   msg,
	})
}

func (p *defaultPort) msgMustBeValid(msg Msg) {
	meta := msg.Meta()

	if p.name != string(meta.Src) {
		panic("sending port is not msg src")
	}

	if meta.Dst == "" {
		panic("dst is not given")
	}

	if meta.Src == meta.Dst {
		panic("sending back to src")
	}
}
