// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/lindex/internal/report"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previously computed L-index results",
	Long: `History lists the results ledger kept alongside the generated reports,
newest first. Each entry records who was scored, the resulting L-index,
and how many publications the calculation used.

L-index values are only comparable between computations that used the same
publication limit.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("output-dir", "L-index calculations", "directory holding the results ledger")
	rootCmd.AddCommand(historyCmd)
}

// ledgerDir resolves the ledger directory the same way compute resolves
// its output directory: an explicit flag wins, otherwise the
// config-file/env value applies.
func ledgerDir(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString("output-dir")
	if !cmd.Flags().Changed("output-dir") {
		if v := viper.GetString("report.output_dir"); v != "" {
			dir = v
		}
	}
	return dir
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := report.OpenStore(ledgerDir(cmd))
	if err != nil {
		return fmt.Errorf("opening results ledger: %w", err)
	}
	defer store.Close()

	entries, err := store.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No computations recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COMPUTED\tAUTHOR\tID\tL-INDEX\tPUBS\tLIMIT\tNOTE")
	for _, e := range entries {
		note := ""
		if e.RateLimited {
			note = "rate limited"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%d\t%d\t%s\n",
			e.ComputedAt.Format("2006-01-02 15:04"), e.AuthorName, e.AuthorID,
			e.LIndex, e.PubsUsed, e.MaxPubs, note)
	}
	return w.Flush()
}
