package cmd

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/sarchlab/blockingcache/mem/acceptancetests/srcsink"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the scenarios and the named test cases.",
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, _ []string) {
			out := c.OutOrStdout()

			names := make([]string, 0, len(srcsink.Scenarios))
			for name := range srcsink.Scenarios {
				names = append(names, name)
			}
			sort.Strings(names)

			fmt.Fprintln(out, "Scenarios:")
			for _, name := range names {
				fmt.Fprintf(out, "  %s\n", name)
			}

			fmt.Fprintln(out, "Test cases:")
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "  NAME\tSCENARIO\tSTALL\tLATENCY\tSRC\tSINK")
			for _, tc := range srcsink.TestCases {
				fmt.Fprintf(w, "  %s\t%s\t%.1f\t%d\t%d\t%d\n",
					tc.Name, tc.Scenario, tc.StallProb, tc.Latency,
					tc.SrcDelay, tc.SinkDelay)
			}
			w.Flush()
		},
	}
}
