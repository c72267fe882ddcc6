// Package cmd provides the command-line interface of bcachesim.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var envFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bcachesim",
		Short: "bcachesim simulates a blocking write-through cache.",
		Long: `bcachesim simulates a direct-mapped, write-through, ` +
			`no-write-allocate cache with eight one-word lines that serves ` +
			`one request at a time. It drives the cache with a test source ` +
			`and checks every response at a test sink.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return loadEnvFile(envFile)
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", ".env",
		"File with BCACHE_* defaults, ignored when missing.")

	root.AddCommand(newRunCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newViewCmd())

	return root
}

// Execute adds all child commands to the root command and sets flags
// appropriately. It runs the exit handlers before leaving the process.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
