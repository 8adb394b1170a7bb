// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders finished results: console summary, PDF report,
// YAML record, and the results ledger. It only reads the ScoredResult the
// pipeline hands it; no metric logic lives here.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/lindex/pkg/types"
)

// Summary writes the human-readable result summary.
func Summary(w io.Writer, result types.ScoredResult, maxPubs int) {
	fmt.Fprintln(w, strings.Repeat("-", 60))
	if result.RateLimited {
		fmt.Fprintln(w, "NOTE: results based on INCOMPLETE data due to provider rate limiting")
	}
	fmt.Fprintf(w, "Author:       %s\n", result.Author.Name)
	if result.Author.Affiliation != "" {
		fmt.Fprintf(w, "Affiliation:  %s\n", result.Author.Affiliation)
	}
	if len(result.Author.Keywords) > 0 {
		fmt.Fprintf(w, "Keywords:     %s\n", strings.Join(result.Author.Keywords, ", "))
	}
	fmt.Fprintf(w, "Profile:      %s\n", result.Author.ProfileURL)
	fmt.Fprintf(w, "L-index:      %.2f\n", result.LIndex)
	fmt.Fprintf(w, "Computed on %s from the %d most cited publications (%d used, %d skipped)\n",
		result.ComputedAt.Format("2 January 2006"), maxPubs, result.PublicationsUsed, result.SkippedCount)

	if len(result.Publications) == 0 {
		fmt.Fprintln(w, "No usable publications were found for this author.")
	}
	fmt.Fprintln(w, strings.Repeat("-", 60))
}
