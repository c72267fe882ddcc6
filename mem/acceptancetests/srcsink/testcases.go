package srcsink

// A TestCase is a scenario together with the memory and the agent timing it
// runs under.
type TestCase struct {
	Name      string
	Scenario  string
	StallProb float64
	Latency   int
	SrcDelay  int
	SinkDelay int
}

// Scenarios maps scenario names to their message generators.
var Scenarios = map[string]func(base uint32) []Pair{
	"basic":     BasicMsgs,
	"basic-hit": BasicHitMsgs,
	"stream":    StreamMsgs,
	"alias":     AliasMsgs,
	"random": func(base uint32) []Pair {
		return RandomMsgs(base, RandomSeed)
	},
}

// TestCases lists the standard combinations that the cache must pass.
var TestCases = []TestCase{
	{Name: "basic", Scenario: "basic"},
	{Name: "basic_hit", Scenario: "basic-hit", Latency: 5},
	{Name: "stream", Scenario: "stream"},
	{Name: "random", Scenario: "random"},
	{
		Name:      "alias_stall0.5_lat3_0x7",
		Scenario:  "alias",
		StallProb: 0.5,
		Latency:   3,
		SinkDelay: 7,
	},
	{Name: "random_3x14", Scenario: "random", SrcDelay: 3, SinkDelay: 14},
	{Name: "stream_stall0.5_lat0", Scenario: "stream", StallProb: 0.5},
	{Name: "stream_stall0.0_lat4", Scenario: "stream", Latency: 4},
	{Name: "stream_stall0.5_lat4", Scenario: "stream", StallProb: 0.5, Latency: 4},
	{
		Name:      "random_stall0.5_lat4_3x14",
		Scenario:  "random",
		StallProb: 0.5,
		Latency:   4,
		SrcDelay:  3,
		SinkDelay: 14,
	},
}

// FindTestCase returns the test case with the given name.
func FindTestCase(name string) (TestCase, bool) {
	for _, tc := range TestCases {
		if tc.Name == name {
			return tc, true
		}
	}

	return TestCase{}, false
}
