package directconnection

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/blockingcache/sim"
	"go.uber.org/mock/gomock"
)

type sampleMsg struct {
	sim.MsgMeta
}

func (m *sampleMsg) Meta() *sim.MsgMeta {
	return &m.MsgMeta
}

func (m *sampleMsg) Clone() sim.Msg {
	cloneMsg := *m
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

func msgFromTo(src, dst sim.RemotePort) *sampleMsg {
	m := &sampleMsg{}
	m.Src = src
	m.Dst = dst

	return m
}

var _ = Describe("DirectConnection", func() {
	var (
		mockCtrl   *gomock.Controller
		port1      *MockPort
		port2      *MockPort
		engine     *MockEngine
		connection *Comp
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())

		port1 = NewMockPort(mockCtrl)
		port1.EXPECT().AsRemote().Return(sim.RemotePort("Port1")).AnyTimes()

		port2 = NewMockPort(mockCtrl)
		port2.EXPECT().AsRemote().Return(sim.RemotePort("Port2")).AnyTimes()

		engine = NewMockEngine(mockCtrl)
		connection = MakeBuilder().
			WithEngine(engine).
			WithFreq(1).
			Build("Direct")

		port1.EXPECT().SetConnection(connection)
		connection.PlugIn(port1, 1)

		port2.EXPECT().SetConnection(connection)
		connection.PlugIn(port2, 1)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should not plug in the same port twice", func() {
		Expect(func() { connection.PlugIn(port1, 1) }).To(Panic())
	})

	It("should tick now when a port sends", func() {
		engine.EXPECT().CurrentTime().Return(sim.VTimeInSec(10))
		engine.EXPECT().Schedule(gomock.Any()).Do(func(e sim.Event) {
			Expect(e.Time()).To(Equal(sim.VTimeInSec(10)))
			Expect(e.IsSecondary()).To(BeTrue())
		})

		connection.NotifySend()
	})

	It("should tell other ports when a port becomes available", func() {
		engine.EXPECT().CurrentTime().Return(sim.VTimeInSec(10))
		engine.EXPECT().Schedule(gomock.Any())
		port2.EXPECT().NotifyAvailable()

		connection.NotifyAvailable(port1)
	})

	It("should forward all messages that can be delivered", func() {
		msg1 := msgFromTo("Port1", "Port2")
		msg2 := msgFromTo("Port1", "Port2")
		msg3 := msgFromTo("Port2", "Port1")

		gomock.InOrder(
			port1.EXPECT().PeekOutgoing().Return(msg1),
			port2.EXPECT().Deliver(msg1).Return(nil),
			port1.EXPECT().RetrieveOutgoing().Return(msg1),
			port1.EXPECT().PeekOutgoing().Return(msg2),
			port2.EXPECT().Deliver(msg2).Return(sim.NewSendError()),
		)
		gomock.InOrder(
			port2.EXPECT().PeekOutgoing().Return(msg3),
			port1.EXPECT().Deliver(msg3).Return(nil),
			port2.EXPECT().RetrieveOutgoing().Return(msg3),
			port2.EXPECT().PeekOutgoing().Return(nil),
		)

		Expect(connection.Tick()).To(BeTrue())
	})

	It("should report no progress when nothing is sent", func() {
		port1.EXPECT().PeekOutgoing().Return(nil)
		port2.EXPECT().PeekOutgoing().Return(nil)

		Expect(connection.Tick()).To(BeFalse())
	})

	It("should panic on unknown destinations", func() {
		port1.EXPECT().PeekOutgoing().Return(msgFromTo("Port1", "Nowhere"))

		Expect(func() { connection.Tick() }).To(Panic())
	})
})

var _ = Describe("DirectConnection with real ports", func() {
	It("should move a message in the cycle after it is sent", func() {
		engine := sim.NewSerialEngine()
		connection := MakeBuilder().WithEngine(engine).Build("Conn")

		sender := sim.NewPort(nil, 1, 1, "Sender")
		receiver := sim.NewPort(nil, 1, 1, "Receiver")
		connection.PlugIn(sender, 1)
		connection.PlugIn(receiver, 1)

		msg := msgFromTo("Sender", "Receiver")
		Expect(sender.Send(msg)).To(BeNil())
		Expect(receiver.PeekIncoming()).To(BeNil())

		Expect(engine.Run()).To(Succeed())

		Expect(receiver.PeekIncoming()).To(BeIdenticalTo(msg))
		Expect(sender.PeekOutgoing()).To(BeNil())
	})
})
