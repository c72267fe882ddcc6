package cmd

import (
	"errors"
	"fmt"

	"github.com/sarchlab/blockingcache/daisen"
	"github.com/sarchlab/blockingcache/datarecording"
	"github.com/spf13/cobra"
)

func newViewCmd() *cobra.Command {
	var (
		traceDB string
		addr    string
	)

	c := &cobra.Command{
		Use:   "view",
		Short: "Serve a recorded trace over HTTP.",
		Long: "`view --trace-db run` serves the memory transactions that " +
			"`run --trace-db run` recorded into run.sqlite3.",
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			if !c.Flags().Changed("trace-db") {
				envString(EnvTraceDB, &traceDB)
			}

			if traceDB == "" {
				return errors.New("a trace database is required")
			}

			reader, err := datarecording.NewReader(traceDB + ".sqlite3")
			if err != nil {
				return err
			}
			defer reader.Close()

			err = daisen.NewServer(reader).ListenAndServe(addr)
			if err != nil {
				return fmt.Errorf("serving trace: %w", err)
			}

			return nil
		},
	}

	c.Flags().StringVar(&traceDB, "trace-db", "",
		"SQLite file written by `run --trace-db`, without suffix.")
	c.Flags().StringVar(&addr, "http", "localhost:3001",
		"HTTP service address.")

	return c
}
