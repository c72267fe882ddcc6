package platform

import (
	"fmt"

	"github.com/sarchlab/blockingcache/sim"
)

// Result summarizes a finished run.
type Result struct {
	Passed     bool
	Cycles     uint64
	Sent       int
	Received   int
	Mismatches []string

	ReadHits    uint64
	ReadMisses  uint64
	WriteHits   uint64
	WriteMisses uint64

	// AvgLatency is the average number of cycles that the cache spends on a
	// request, from accepting it to responding.
	AvgLatency float64
}

// Run starts the agent and runs the engine until no event is left.
func (p *Platform) Run() (Result, error) {
	p.Agent.TickLater()

	if err := p.Engine.Run(); err != nil {
		return Result{}, fmt.Errorf("running simulation: %w", err)
	}

	p.Engine.Finished()

	return p.result(), nil
}

func (p *Platform) result() Result {
	src := p.Agent.Source()
	sink := p.Agent.Sink()

	r := Result{
		Cycles:      p.freq.Cycle(p.Engine.CurrentTime()),
		Sent:        src.NumSent(),
		Received:    sink.NumReceived(),
		Mismatches:  sink.Mismatches(),
		ReadHits:    p.steps.GetStepCount("read-hit"),
		ReadMisses:  p.steps.GetStepCount("read-miss"),
		WriteHits:   p.steps.GetStepCount("write-hit"),
		WriteMisses: p.steps.GetStepCount("write-miss"),
		AvgLatency: float64(p.reqLatency.AverageTime()) /
			float64(p.freq.Period()),
	}

	r.Passed = p.Agent.Done() && len(r.Mismatches) == 0 && !p.Cache.IsWaiting()

	return r
}

// String formats the result as a short report.
func (r Result) String() string {
	status := "PASS"
	if !r.Passed {
		status = "FAIL"
	}

	return fmt.Sprintf(
		"%s: %d cycles, %d sent, %d received, "+
			"read %d hit %d miss, write %d hit %d miss, avg latency %.2f cycles",
		status, r.Cycles, r.Sent, r.Received,
		r.ReadHits, r.ReadMisses, r.WriteHits, r.WriteMisses, r.AvgLatency)
}

// LineTracer prints one line per cycle in which the cache ticks. Each line
// shows the number of requests sent, the tags held by the cache and the
// number of responses received.
type LineTracer struct {
	p      *Platform
	printf func(format string, args ...any)
}

// NewLineTracer creates a line tracer for the platform that prints with the
// given function, such as log.Printf.
func NewLineTracer(
	p *Platform,
	printf func(format string, args ...any),
) *LineTracer {
	return &LineTracer{p: p, printf: printf}
}

// Func prints after each cache tick.
func (t *LineTracer) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosAfterEvent {
		return
	}

	evt, ok := ctx.Item.(sim.Event)
	if !ok || evt.Handler() != sim.Handler(t.p.Cache.TickingComponent) {
		return
	}

	waiting := " "
	if t.p.Cache.IsWaiting() {
		waiting = "w"
	}

	t.printf("%4d: %3d > %s %s > %3d",
		t.p.freq.Cycle(evt.Time()),
		t.p.Agent.Source().NumSent(),
		t.p.Cache.LineTrace(),
		waiting,
		t.p.Agent.Sink().NumReceived())
}
