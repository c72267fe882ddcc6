package sim

import (
	"log"
	"reflect"
)

// LogHookBase provides the common logic for all the hooks that write to a
// logger.
type LogHookBase struct {
	*log.Logger
}

// EventLogger is a hook that prints every event before it is handled.
type EventLogger struct {
	LogHookBase
}

// NewEventLogger returns a new EventLogger which will write into the logger.
func NewEventLogger(logger *log.Logger) *EventLogger {
	h := new(EventLogger)
	h.Logger = logger

	return h
}

// Func writes the event information into the logger
func (h *EventLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(Event)
	if !ok {
		return
	}

	if named, ok := evt.Handler().(Named); ok {
		h.Printf("%.10f, %s -> %s", evt.Time(), reflect.TypeOf(evt), named.Name())
		return
	}

	h.Printf("%.10f, %s", evt.Time(), reflect.TypeOf(evt))
}

// PortMsgLogger is a hook for logging messages as they go across a Port
type PortMsgLogger struct {
	LogHookBase

	timeTeller TimeTeller
}

// NewPortMsgLogger returns a new PortMsgLogger which will write into the
// logger. Time stamps are taken from the time teller.
func NewPortMsgLogger(
	logger *log.Logger,
	timeTeller TimeTeller,
) *PortMsgLogger {
	h := new(PortMsgLogger)
	h.Logger = logger
	h.timeTeller = timeTeller

	return h
}

// Func writes the message information into the logger
func (h *PortMsgLogger) Func(ctx HookCtx) {
	msg, ok := ctx.Item.(Msg)
	if !ok {
		return
	}

	port, ok := ctx.Domain.(Port)
	if !ok {
		return
	}

	h.Printf("%.10f,%s,%s,%s,%s,%s,%s",
		h.timeTeller.CurrentTime(),
		port.Name(),
		ctx.Pos.Name,
		msg.Meta().Src,
		msg.Meta().Dst,
		reflect.TypeOf(msg),
		msg.Meta().ID)
}
