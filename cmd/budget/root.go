package main

import (
	"github.com/spf13/cobra"
)

type rootOptions struct {
	color    bool
	seed     bool
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Category ledger and spending chart",
		Long: `budget keeps one ledger per spending category, applies deposits,
withdrawals and transfers, and prints each category's statement together with
a bar chart of the percentage spent by category.`,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.BoolVar(&opts.color, "color", false, "highlight chart bars")
	flags.BoolVar(&opts.seed, "seed", false, "open the seeded categories before replaying")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")

	cmd.AddCommand(demoCmd(opts))
	cmd.AddCommand(replayCmd(opts))
	cmd.AddCommand(chartCmd(opts))
	cmd.AddCommand(summaryCmd(opts))
	cmd.AddCommand(historyCmd(opts))

	return cmd
}
