package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	flagConfig      string
	flagLogLevel    string
	flagMetricsAddr string
)

// bindPersistentFlags registers defid's global flags directly against
// the *pflag.FlagSet cobra.Command.PersistentFlags() returns.
func bindPersistentFlags(fs *pflag.FlagSet) {
	fs.StringVar(&flagConfig, "config", "", "path to a scenario yaml file (required)")
	fs.StringVar(&flagLogLevel, "log-level", "info", "log level: debug, info, error, none")
	fs.StringVar(&flagMetricsAddr, "metrics-addr", "", "if set, serve Prometheus metrics on this address (e.g. :9090)")
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "defid",
		Short: "Run the DeFi engine demo node",
		Long: "defid seeds the weighted-pool, stableswap, lending, and farming " +
			"engines from a scenario file and drives them through a scripted " +
			"sequence of operations against in-memory adapters.",
	}

	bindPersistentFlags(root.PersistentFlags())
	root.AddCommand(createDemoCmd())
	return root
}
