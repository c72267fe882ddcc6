package sim

import "log"

// HookPosBufPush marks when an element is pushed into the buffer.
var HookPosBufPush = &HookPos{Name: "Buffer Push"}

// HookPosBufPop marks when an element is popped from the buffer.
var HookPosBufPop = &HookPos{Name: "Buffer Pop"}

// A Buffer is a bounded fifo queue for anything.
type Buffer interface {
	Named
	Hookable

	CanPush() bool
	Push(e interface{})
	Pop() interface{}
	Peek() interface{}
	Capacity() int
	Size() int

	// Clear removes all elements in the buffer.
	Clear()
}

// NewBuffer creates a default buffer object. The buffer is backed by a ring
// of fixed capacity.
func NewBuffer(name string, capacity int) Buffer {
	NameMustBeValid(name)

	if capacity <= 0 {
		log.Panicf("buffer %s must have a positive capacity", name)
	}

	return &ringBuffer{
		name:     name,
		elements: make([]interface{}, capacity),
	}
}

type ringBuffer struct {
	HookableBase

	name     string
	elements []interface{}
	head     int
	size     int
}

// Name returns the name of the buffer.
func (b *ringBuffer) Name() string {
	return b.name
}

func (b *ringBuffer) CanPush() bool {
	return b.size < len(b.elements)
}

func (b *ringBuffer) Push(e interface{}) {
	if !b.CanPush() {
		log.Panic("buffer overflow")
	}

	tail := (b.head + b.size) % len(b.elements)
	b.elements[tail] = e
	b.size++

	b.invoke(HookPosBufPush, e)
}

func (b *ringBuffer) Pop() interface{} {
	if b.size == 0 {
		return nil
	}

	e := b.elements[b.head]
	b.elements[b.head] = nil
	b.head = (b.head + 1) % len(b.elements)
	b.size--

	b.invoke(HookPosBufPop, e)

	return e
}

func (b *ringBuffer) invoke(pos *HookPos, e interface{}) {
	if b.NumHooks() == 0 {
		return
	}

	b.InvokeHook(HookCtx{
		Domain: b,
		Pos:    pos,
		Item:   e,
	})
}

func (b *ringBuffer) Peek() interface{} {
	if b.size == 0 {
		return nil
	}

	return b.elements[b.head]
}

func (b *ringBuffer) Capacity() int {
	return len(b.elements)
}

func (b *ringBuffer) Size() int {
	return b.size
}

func (b *ringBuffer) Clear() {
	for i := range b.elements {
		b.elements[i] = nil
	}

	b.head = 0
	b.size = 0
}
