package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var errJournalDisabled = errors.New("journal is disabled")

// demoScript reproduces the Food, Clothing and Auto example.
const demoScript = `open,Food
open,Clothing
open,Auto
deposit,Food,900,deposit
withdraw,Food,45.67,"milk, cereal, eggs, bacon, bread"
withdraw,Food,39.88,restaurant
deposit,Clothing,200,deposit
transfer,Food,20,Clothing
withdraw,Clothing,33,jacket
deposit,Auto,500,deposit
withdraw,Auto,10.99,car wash
`

func demoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Replay the built-in example and print statements and chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.replay(cmd.Context(), cmd, strings.NewReader(demoScript)); err != nil {
				return err
			}
			if err := a.printStatements(cmd.Context()); err != nil {
				return err
			}
			return a.printChart(cmd.Context())
		},
	}
}

func replayCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "replay <file|->",
		Short: "Replay a CSV script and print statements and chart",
		Long: `Replay a CSV operation script. Each row is one of:

  open,<category>
  deposit,<category>,<amount>[,<description>]
  withdraw,<category>,<amount>[,<description>]
  transfer,<from>,<amount>,<to>

Use - to read the script from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			in, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			if err := a.replay(cmd.Context(), cmd, in); err != nil {
				return err
			}
			if err := a.printStatements(cmd.Context()); err != nil {
				return err
			}
			return a.printChart(cmd.Context())
		},
	}
}

func chartCmd(opts *rootOptions) *cobra.Command {
	var categories string
	cmd := &cobra.Command{
		Use:   "chart <file|->",
		Short: "Replay a CSV script and print only the chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			in, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			if err := a.replay(cmd.Context(), cmd, in); err != nil {
				return err
			}
			return a.printChart(cmd.Context(), splitNames(categories)...)
		},
	}
	cmd.Flags().StringVar(&categories, "categories", "", "comma separated categories to chart, in order (default all)")
	return cmd
}

func summaryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <file|->",
		Short: "Replay a CSV script and print balance and spending per category",
		Long: `Replay a CSV script and print balance and spending per category.
Totals come from the journal when it is enabled, otherwise from memory.
Categories that are open but have no entries are listed with zero amounts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			in, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			if err := a.replay(cmd.Context(), cmd, in); err != nil {
				return err
			}

			summary := a.reports.Summary()
			if a.stack.Journal != nil {
				journaled, err := a.stack.Journal.Totals(cmd.Context())
				if err != nil {
					return err
				}
				summary = a.reports.WithOpenCategories(journaled)
			}

			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "Category\tBalance\tSpent\t")
			for _, c := range summary.ByCategory {
				fmt.Fprintf(w, "%s\t%s\t%s\t\n", c.Name, c.Balance, c.Spent)
			}
			fmt.Fprintf(w, "Total\t\t%s\t\n", summary.TotalSpent)
			return w.Flush()
		},
	}
}

func historyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history <file|-> <category>",
		Short: "Replay a CSV script and list the journaled entries of one category",
		Long: `Replay a CSV script and list the entries the journal holds for one
category, oldest first. Requires the journal (JOURNAL_ENABLED=true).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if a.stack.Journal == nil {
				return errJournalDisabled
			}

			in, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			if err := a.replay(cmd.Context(), cmd, in); err != nil {
				return err
			}

			records, err := a.stack.Journal.ListByCategory(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "Seq\tDescription\tAmount")
			for _, r := range records {
				fmt.Fprintf(w, "%d\t%s\t%s\n", r.Seq, r.Description, r.Amount)
			}
			return w.Flush()
		},
	}
}
