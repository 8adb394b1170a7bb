// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/lindex/internal/logging"
	"github.com/pdiddy/lindex/internal/pipeline"
	"github.com/pdiddy/lindex/internal/report"
	"github.com/pdiddy/lindex/internal/scholar"
	"github.com/pdiddy/lindex/internal/secrets"
	"github.com/pdiddy/lindex/pkg/types"
)

const defaultUserAgent = "lindex/0.1"

var computeCmd = &cobra.Command{
	Use:   "compute [queries...]",
	Short: "Compute the L-index for one or more researchers",
	Long: `Compute resolves each query to an OpenAlex author, fetches their most
cited publications, and computes the L-index. A query is either a free-text
author name or an OpenAlex author ID (recommended for common names; it is
the final segment of the profile URL).

Multiple queries run concurrently while sharing one rate-limit budget
against the provider. Results are printed as summaries and, unless
disabled, written as PDF reports and appended to the results ledger.`,
	RunE: runCompute,
}

func init() {
	f := computeCmd.Flags()
	f.Int("max-pubs", 100, "maximum number of most-cited publications to process per author")
	f.Int("max-search-results", 10, "maximum author search candidates to evaluate")
	f.Float64("single-threshold", 0.75, "minimum name similarity for a lone search candidate (0.0-1.0)")
	f.Float64("multi-threshold", 0.85, "minimum name similarity when several candidates compete (0.0-1.0)")
	f.Int("large-group-size", 50, "author count assigned to consortium-style author listings")
	f.Duration("timeout", 30*time.Second, "HTTP request timeout")
	f.Int("max-retries", 5, "rate-limit retries per request before giving up")
	f.Float64("rate", 10, "sustained requests per second against the provider")
	f.String("email", "", "contact email for the OpenAlex polite pool (overrides the openalex-email secret)")
	f.String("output-dir", "L-index calculations", "directory for PDF reports, YAML records, and the ledger")
	f.Int("top-pubs", 15, "how many top contributing publications the PDF report tabulates")
	f.Bool("no-pdf", false, "skip writing PDF reports and YAML records")
	f.Bool("no-store", false, "skip appending results to the ledger")
	f.Bool("json", false, "print full results as JSON instead of summaries")

	viper.BindPFlag("index.max_publications", f.Lookup("max-pubs"))
	viper.BindPFlag("disambiguation.max_results", f.Lookup("max-search-results"))
	viper.BindPFlag("disambiguation.single_result_threshold", f.Lookup("single-threshold"))
	viper.BindPFlag("disambiguation.multi_result_threshold", f.Lookup("multi-threshold"))
	viper.BindPFlag("normalize.large_group_size", f.Lookup("large-group-size"))
	viper.BindPFlag("scholar.timeout", f.Lookup("timeout"))
	viper.BindPFlag("scholar.max_retries", f.Lookup("max-retries"))
	viper.BindPFlag("scholar.requests_per_second", f.Lookup("rate"))
	viper.BindPFlag("scholar.email", f.Lookup("email"))
	viper.BindPFlag("report.output_dir", f.Lookup("output-dir"))
	viper.BindPFlag("report.top_publications", f.Lookup("top-pubs"))

	rootCmd.AddCommand(computeCmd)
}

// computeConfig assembles the pipeline configuration from flags, config
// file, environment, and secrets.
func computeConfig(cmd *cobra.Command) types.PipelineConfig {
	noPDF, _ := cmd.Flags().GetBool("no-pdf")
	noStore, _ := cmd.Flags().GetBool("no-store")

	return types.PipelineConfig{
		Scholar: types.ScholarConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("scholar.timeout"),
				UserAgent: defaultUserAgent,
			},
			Email:             secrets.Get(loadedSecrets, secrets.OpenAlexEmailKey, viper.GetString("scholar.email")),
			MaxRetries:        viper.GetInt("scholar.max_retries"),
			RequestsPerSecond: viper.GetFloat64("scholar.requests_per_second"),
		},
		Disambiguation: types.DisambiguationConfig{
			MaxResults:            viper.GetInt("disambiguation.max_results"),
			SingleResultThreshold: viper.GetFloat64("disambiguation.single_result_threshold"),
			MultiResultThreshold:  viper.GetFloat64("disambiguation.multi_result_threshold"),
		},
		Normalize: types.NormalizeConfig{
			LargeGroupSize: viper.GetInt("normalize.large_group_size"),
		},
		Index: types.IndexConfig{
			MaxPublications: viper.GetInt("index.max_publications"),
		},
		Report: types.ReportConfig{
			OutputDir:       viper.GetString("report.output_dir"),
			TopPublications: viper.GetInt("report.top_publications"),
			PDF:             !noPDF,
			Ledger:          !noStore,
		},
	}
}

func runCompute(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more author names or OpenAlex author IDs")
	}

	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	log := logging.New(os.Stderr, logLevel)

	cfg := computeConfig(cmd)
	asJSON, _ := cmd.Flags().GetBool("json")

	client := scholar.NewClient(cfg.Scholar, log)
	deps := pipeline.Deps{Fetcher: client, Log: log}

	outcomes := pipeline.RunAll(context.Background(), args, deps, cfg)

	var store *report.Store
	if cfg.Report.Ledger {
		s, err := report.OpenStore(cfg.Report.OutputDir)
		if err != nil {
			log.Warn().Err(err).Msg("results ledger unavailable, continuing without it")
		} else {
			store = s
			defer store.Close()
		}
	}

	failed := 0
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			failed++
			log.Error().Str("query", outcome.Query).Err(outcome.Err).Msg("computation failed")
			continue
		}
		if err := emit(cmd, outcome.Result, cfg, store, asJSON); err != nil {
			failed++
			log.Error().Str("query", outcome.Query).Err(err).Msg("reporting failed")
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d author(s) failed", failed)
	}
	return nil
}

// emit renders one successful result to the console and, as configured,
// to the PDF report, YAML record, and ledger.
func emit(cmd *cobra.Command, result types.ScoredResult, cfg types.PipelineConfig, store *report.Store, asJSON bool) error {
	maxPubs := cfg.Index.MaxPublications

	if asJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else {
		report.Summary(cmd.OutOrStdout(), result, maxPubs)
	}

	if cfg.Report.PDF {
		if err := os.MkdirAll(cfg.Report.OutputDir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		base := filepath.Join(cfg.Report.OutputDir, report.BaseName(result, maxPubs))
		if err := report.WritePDF(base+".pdf", result, maxPubs, cfg.Report.TopPublications); err != nil {
			return fmt.Errorf("writing PDF report: %w", err)
		}
		if err := report.WriteRecord(base+".yaml", result); err != nil {
			return fmt.Errorf("writing result record: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report saved: %s.pdf\n", base)
	}

	if store != nil {
		if _, err := store.Append(cmd.Context(), result, maxPubs); err != nil {
			return err
		}
	}
	return nil
}
