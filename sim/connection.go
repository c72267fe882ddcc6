package sim

// SendError marks a failure send or receive
type SendError struct{}

// NewSendError creates a SendError
func NewSendError() *SendError {
	return new(SendError)
}

// Error implements the error interface.
func (e *SendError) Error() string {
	return "buffer full"
}

// A Connection is responsible for delivering messages to its destination.
type Connection interface {
	Named
	Hookable

	PlugIn(port Port, sourceSideBufSize int)
	Unplug(port Port)

	// NotifyAvailable is called by a port when its incoming buffer has room
	// again.
	NotifyAvailable(port Port)

	// NotifySend is called by a port when a message is placed in its
	// outgoing buffer.
	NotifySend()
}

// HookPosConnStartTrans marks a connection start to transmit a message.
var HookPosConnStartTrans = &HookPos{Name: "Conn Start Trans"}

// HookPosConnDeliver marks a connection delivered a message.
var HookPosConnDeliver = &HookPos{Name: "Conn Deliver"}
