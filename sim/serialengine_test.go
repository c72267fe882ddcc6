package sim

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

type endHandlerFunc func(now VTimeInSec)

func (f endHandlerFunc) Handle(now VTimeInSec) {
	f(now)
}

var _ = Describe("SerialEngine", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *SerialEngine
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewSerialEngine()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	mockEvent := func(
		t VTimeInSec,
		handler Handler,
		secondary bool,
	) *MockEvent {
		evt := NewMockEvent(mockCtrl)
		evt.EXPECT().Time().Return(t).AnyTimes()
		evt.EXPECT().Handler().Return(handler).AnyTimes()
		evt.EXPECT().IsSecondary().Return(secondary).AnyTimes()

		return evt
	}

	It("should run events in time order", func() {
		handler1 := NewMockHandler(mockCtrl)
		handler2 := NewMockHandler(mockCtrl)
		evt1 := mockEvent(4, handler1, false)
		evt2 := mockEvent(2, handler2, false)
		evt3 := mockEvent(3, handler1, false)
		evt4 := mockEvent(5, handler1, false)

		handleEvt2 := handler2.EXPECT().Handle(evt2).
			DoAndReturn(func(e Event) error {
				engine.Schedule(evt3)
				engine.Schedule(evt4)
				return nil
			})
		handleEvt3 := handler1.EXPECT().Handle(evt3).After(handleEvt2)
		handleEvt1 := handler1.EXPECT().Handle(evt1).After(handleEvt3)
		handler1.EXPECT().Handle(evt4).After(handleEvt1)

		engine.Schedule(evt1)
		engine.Schedule(evt2)

		Expect(engine.Run()).To(Succeed())
		Expect(engine.CurrentTime()).To(Equal(VTimeInSec(5)))
	})

	It("should run secondary events after primary events", func() {
		handler1 := NewMockHandler(mockCtrl)
		handler2 := NewMockHandler(mockCtrl)
		handler3 := NewMockHandler(mockCtrl)
		evt1 := mockEvent(2, handler1, true)
		evt2 := mockEvent(2, handler2, false)
		evt3 := mockEvent(2, handler3, false)

		handleEvt2 := handler2.EXPECT().Handle(evt2)
		handleEvt3 := handler3.EXPECT().Handle(evt3)
		handler1.EXPECT().Handle(evt1).After(handleEvt2).After(handleEvt3)

		engine.Schedule(evt1)
		engine.Schedule(evt2)
		engine.Schedule(evt3)

		Expect(engine.Run()).To(Succeed())
	})

	It("should run an earlier secondary event before a later primary one", func() {
		handler := NewMockHandler(mockCtrl)
		secondary := mockEvent(1, handler, true)
		primary := mockEvent(2, handler, false)

		first := handler.EXPECT().Handle(secondary)
		handler.EXPECT().Handle(primary).After(first)

		engine.Schedule(primary)
		engine.Schedule(secondary)

		Expect(engine.Run()).To(Succeed())
	})

	It("should panic when scheduling an event in the past", func() {
		handler := NewMockHandler(mockCtrl)
		evt := mockEvent(2, handler, false)
		past := mockEvent(1, handler, false)

		handler.EXPECT().Handle(evt).DoAndReturn(func(e Event) error {
			engine.Schedule(past)
			return nil
		})

		engine.Schedule(evt)

		Expect(func() { _ = engine.Run() }).To(Panic())
	})

	It("should stop and return the error of a handler", func() {
		handler := NewMockHandler(mockCtrl)
		evt1 := mockEvent(1, handler, false)
		evt2 := mockEvent(2, handler, false)

		handler.EXPECT().Handle(evt1).Return(errors.New("boom"))

		engine.Schedule(evt1)
		engine.Schedule(evt2)

		Expect(engine.Run()).To(MatchError("boom"))
	})

	It("should invoke hooks around each event", func() {
		hook := &recordingHook{}
		engine.AcceptHook(hook)
		handler := NewMockHandler(mockCtrl)
		evt := mockEvent(1, handler, false)
		handler.EXPECT().Handle(evt)

		engine.Schedule(evt)

		Expect(engine.Run()).To(Succeed())
		Expect(hook.positions).To(Equal(
			[]*HookPos{HookPosBeforeEvent, HookPosAfterEvent}))
	})

	It("should pause and continue", func() {
		engine.Pause()
		engine.Pause()
		Expect(engine.isPaused).To(BeTrue())

		engine.Continue()
		engine.Continue()
		Expect(engine.isPaused).To(BeFalse())
	})

	It("should call simulation end handlers", func() {
		var calledAt VTimeInSec = -1
		engine.RegisterSimulationEndHandler(endHandlerFunc(func(now VTimeInSec) {
			calledAt = now
		}))

		engine.Finished()

		Expect(calledAt).To(Equal(VTimeInSec(0)))
	})
})
