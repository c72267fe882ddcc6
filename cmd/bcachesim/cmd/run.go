package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/sarchlab/blockingcache/datarecording"
	"github.com/sarchlab/blockingcache/mem/acceptancetests/platform"
	"github.com/sarchlab/blockingcache/mem/acceptancetests/srcsink"
	"github.com/sarchlab/blockingcache/mem/trace"
	"github.com/sarchlab/blockingcache/monitoring"
	"github.com/sarchlab/blockingcache/sim"
	"github.com/sarchlab/blockingcache/tracing"
	"github.com/spf13/cobra"
)

// errFailed is returned when the simulation ran but the sink saw a wrong or
// missing response.
var errFailed = errors.New("simulation failed")

type runOptions struct {
	scenario string
	testCase string

	memLatency int
	stallProb  float64
	srcDelay   int
	sinkDelay  int
	seed       int64
	memBanks   int

	logEvents bool
	lineTrace bool
	traceLog  bool

	traceDB       string
	recorder      string
	clickhouseDSN string

	dumpState string

	monitor     bool
	monitorPort int
	openBrowser bool
}

func newRunCmd() *cobra.Command {
	o := &runOptions{}

	c := &cobra.Command{
		Use:   "run",
		Short: "Run a scenario through the cache.",
		Long: "`run --scenario stream` runs a scenario with the given timing. " +
			"`run --test-case stream_stall0.5_lat4` runs a named test case. " +
			"Timing flags left unset fall back to the BCACHE_* environment " +
			"variables and then to the test case.",
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, err := o.config(c.Flags().Changed)
			if err != nil {
				return err
			}

			res, err := o.execute(cfg, c.OutOrStdout())
			if err != nil {
				return err
			}

			fmt.Fprintln(c.OutOrStdout(), res)

			for _, m := range res.Mismatches {
				fmt.Fprintln(c.ErrOrStderr(), m)
			}

			if !res.Passed {
				return errFailed
			}

			return nil
		},
	}

	f := c.Flags()
	f.StringVar(&o.scenario, "scenario", "basic",
		"Scenario to run: basic, basic-hit, stream, alias or random.")
	f.StringVar(&o.testCase, "test-case", "",
		"Named test case to run, see `bcachesim list`.")
	f.IntVar(&o.memLatency, "mem-latency", 0,
		"Extra cycles the memory waits before responding.")
	f.Float64Var(&o.stallProb, "stall-prob", 0,
		"Probability that the memory stalls in a cycle.")
	f.IntVar(&o.srcDelay, "src-delay", 0,
		"Cycles the source waits between requests.")
	f.IntVar(&o.sinkDelay, "sink-delay", 0,
		"Cycles the sink waits between responses.")
	f.Int64Var(&o.seed, "seed", 1, "Seed of the memory stall generator.")
	f.IntVar(&o.memBanks, "mem-banks", 1,
		"Number of word-interleaved memory banks.")
	f.BoolVar(&o.logEvents, "log-events", false, "Print every event.")
	f.BoolVar(&o.lineTrace, "line-trace", false,
		"Print the cache lines after every cache tick.")
	f.BoolVar(&o.traceLog, "trace-log", false,
		"Print every memory transaction of the cache and the memory.")
	f.StringVar(&o.traceDB, "trace-db", "",
		"Record memory transactions into this SQLite file (without suffix).")
	f.StringVar(&o.recorder, "recorder", "sqlite",
		"Recorder backend for --trace-db: sqlite or clickhouse.")
	f.StringVar(&o.clickhouseDSN, "clickhouse-dsn", "",
		"ClickHouse DSN used when --recorder is clickhouse.")
	f.StringVar(&o.dumpState, "dump-state", "",
		"Write the final cache state as JSON into this file.")
	f.BoolVar(&o.monitor, "monitor", false, "Serve the monitoring web page.")
	f.IntVar(&o.monitorPort, "monitor-port", 0,
		"Port of the monitoring server, random when 0.")
	f.BoolVar(&o.openBrowser, "open-browser", false,
		"Open the monitoring page in a browser.")

	return c
}

// config resolves the platform configuration. Explicit flags win over the
// environment, which wins over the test case.
func (o *runOptions) config(changed func(string) bool) (platform.Config, error) {
	tc := srcsink.TestCase{Name: o.scenario, Scenario: o.scenario}

	if o.testCase != "" {
		found, ok := srcsink.FindTestCase(o.testCase)
		if !ok {
			return platform.Config{}, fmt.Errorf("unknown test case %q", o.testCase)
		}

		tc = found
	}

	if changed("scenario") {
		tc.Scenario = o.scenario
	}

	if _, ok := srcsink.Scenarios[tc.Scenario]; !ok {
		return platform.Config{}, fmt.Errorf("unknown scenario %q", tc.Scenario)
	}

	if !changed("trace-db") {
		envString(EnvTraceDB, &o.traceDB)
	}

	seed := int64(1)

	if err := o.applyEnv(&tc, &seed); err != nil {
		return platform.Config{}, err
	}

	o.applyFlags(changed, &tc, &seed)

	if tc.StallProb < 0 || tc.StallProb >= 1 {
		return platform.Config{}, fmt.Errorf(
			"stall probability must be in [0, 1), got %g", tc.StallProb)
	}

	if tc.Latency < 0 || tc.SrcDelay < 0 || tc.SinkDelay < 0 {
		return platform.Config{}, errors.New("latency and delays must not be negative")
	}

	cfg := platform.DefaultConfig(tc)
	cfg.Seed = seed
	cfg.MemBanks = o.memBanks

	return cfg, nil
}

func (*runOptions) applyEnv(tc *srcsink.TestCase, seed *int64) error {
	return errors.Join(
		envInt(EnvMemLatency, &tc.Latency),
		envFloat(EnvStallProb, &tc.StallProb),
		envInt(EnvSrcDelay, &tc.SrcDelay),
		envInt(EnvSinkDelay, &tc.SinkDelay),
		envInt64(EnvSeed, seed),
	)
}

func (o *runOptions) applyFlags(
	changed func(string) bool,
	tc *srcsink.TestCase,
	seed *int64,
) {
	if changed("mem-latency") {
		tc.Latency = o.memLatency
	}

	if changed("stall-prob") {
		tc.StallProb = o.stallProb
	}

	if changed("src-delay") {
		tc.SrcDelay = o.srcDelay
	}

	if changed("sink-delay") {
		tc.SinkDelay = o.sinkDelay
	}

	if changed("seed") {
		*seed = o.seed
	}
}

// execute builds the platform, attaches the requested observers and runs
// it to the end.
func (o *runOptions) execute(
	cfg platform.Config,
	out io.Writer,
) (res platform.Result, err error) {
	engine := sim.NewSerialEngine()

	p, err := platform.Build(engine, cfg)
	if err != nil {
		return platform.Result{}, err
	}

	o.attachLoggers(p, out)

	recorder, err := o.newRecorder()
	if err != nil {
		return platform.Result{}, err
	}

	if recorder != nil {
		attachTracer(p, trace.NewDBTracer(recorder, engine))

		defer func() {
			if cerr := recorder.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing recorder: %w", cerr)
			}
		}()
	}

	if o.monitor {
		if err := o.startMonitor(p); err != nil {
			return platform.Result{}, err
		}
	}

	res, err = p.Run()
	if err != nil {
		return res, err
	}

	if o.dumpState != "" {
		if err := writeState(p, o.dumpState); err != nil {
			return res, err
		}
	}

	return res, nil
}

func (o *runOptions) attachLoggers(p *platform.Platform, out io.Writer) {
	logger := log.New(out, "", 0)

	if o.logEvents {
		p.Engine.AcceptHook(sim.NewEventLogger(logger))
	}

	if o.lineTrace {
		p.Engine.AcceptHook(platform.NewLineTracer(p, logger.Printf))
	}

	if o.traceLog {
		attachTracer(p, trace.NewTracer(logger, p.Engine))
	}
}

func (o *runOptions) newRecorder() (datarecording.DataRecorder, error) {
	if o.traceDB == "" && o.recorder != "clickhouse" {
		return nil, nil
	}

	recorder, err := datarecording.NewDataRecorderWithConfig(
		datarecording.RecorderConfig{
			Type:    o.recorder,
			Path:    o.traceDB,
			ConnStr: o.clickhouseDSN,
		})
	if err != nil {
		return nil, fmt.Errorf("creating recorder: %w", err)
	}

	return recorder, nil
}

func attachTracer(p *platform.Platform, t tracing.Tracer) {
	tracing.CollectTrace(p.Cache, t)

	for _, m := range p.Mems {
		tracing.CollectTrace(m, t)
	}
}

func (o *runOptions) startMonitor(p *platform.Platform) error {
	m := monitoring.NewMonitor().WithPortNumber(o.monitorPort)
	m.RegisterSimulation(p.Simulation)

	src := p.Agent.Source()
	bar := m.CreateProgressBar("Requests", uint64(src.NumReqs()))
	p.Engine.AcceptHook(&progressHook{bar: bar, p: p})

	url, err := m.StartServer()
	if err != nil {
		return err
	}

	if o.openBrowser {
		if err := monitoring.OpenBrowser(url); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot open browser: %v\n", err)
		}
	}

	return nil
}

// progressHook updates a progress bar with the requests sent and the
// responses received after every event.
type progressHook struct {
	bar *monitoring.ProgressBar
	p   *platform.Platform
}

func (h *progressHook) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosAfterEvent {
		return
	}

	h.bar.Update(
		uint64(h.p.Agent.Source().NumSent()),
		uint64(h.p.Agent.Sink().NumReceived()))
}

func writeState(p *platform.Platform, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating state file: %w", err)
	}

	if err := p.Simulation.Save(f); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing state file: %w", err)
	}

	return nil
}
