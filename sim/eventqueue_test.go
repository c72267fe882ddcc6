package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("EventQueueImpl", func() {
	var queue *EventQueueImpl

	BeforeEach(func() {
		queue = NewEventQueue()
	})

	It("should pop in time order", func() {
		times := []VTimeInSec{3, 1, 4, 1.5, 9, 2.6}
		for _, t := range times {
			queue.Push(NewEventBase(t, nil))
		}

		Expect(queue.Len()).To(Equal(len(times)))

		var popped []VTimeInSec
		for queue.Len() > 0 {
			popped = append(popped, queue.Pop().Time())
		}

		Expect(popped).To(Equal([]VTimeInSec{1, 1.5, 2.6, 3, 4, 9}))
	})

	It("should keep push order for events of the same time", func() {
		first := NewEventBase(2, nil)
		second := NewEventBase(2, nil)
		third := NewEventBase(2, nil)

		queue.Push(first)
		queue.Push(second)
		queue.Push(third)

		Expect(queue.Peek()).To(BeIdenticalTo(first))
		Expect(queue.Pop()).To(BeIdenticalTo(first))
		Expect(queue.Pop()).To(BeIdenticalTo(second))
		Expect(queue.Pop()).To(BeIdenticalTo(third))
	})
})
