// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the per-author computation: resolve the author,
// fetch their most-cited publications, normalize, aggregate, and assemble
// the result. Each stage produces new values from the previous stage's
// output; nothing is mutated after construction.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/lindex/internal/disambig"
	"github.com/pdiddy/lindex/internal/lindex"
	"github.com/pdiddy/lindex/internal/normalize"
	"github.com/pdiddy/lindex/internal/scholar"
	"github.com/pdiddy/lindex/pkg/types"
)

// Fetcher is the provider access the pipeline needs. *scholar.Client
// satisfies it; tests substitute a frozen snapshot.
type Fetcher interface {
	ResolveAuthor(ctx context.Context, id string) (types.AuthorProfile, error)
	SearchAuthors(ctx context.Context, name string, maxResults int) ([]types.AuthorProfile, error)
	FetchTopPublications(ctx context.Context, id string, maxCount int) ([]types.RawPublication, error)
}

// Deps bundles the pipeline's collaborators.
type Deps struct {
	Fetcher Fetcher
	Log     zerolog.Logger

	// Now supplies the computation timestamp; nil means time.Now.
	Now func() time.Time
}

// Run computes one author's ScoredResult. The query is either a provider
// author ID (disambiguation skipped) or a free-text name.
//
// A rate-limit failure while fetching publications does not abort the run
// when at least one publication was already retrieved: the result is
// computed from the partial data and marked RateLimited. All other
// resolution and fetch failures are terminal for this author.
func Run(ctx context.Context, query string, deps Deps, cfg types.PipelineConfig) (types.ScoredResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return types.ScoredResult{}, fmt.Errorf("empty query: provide an author name or provider ID")
	}

	now := deps.Now
	if now == nil {
		now = time.Now
	}
	log := deps.Log.With().Str("query", query).Logger()

	var (
		author types.AuthorProfile
		err    error
	)
	if scholar.IsAuthorID(query) {
		log.Info().Msg("query looks like a provider ID, skipping disambiguation")
		author, err = deps.Fetcher.ResolveAuthor(ctx, query)
	} else {
		log.Info().Msg("searching for author")
		author, err = disambig.Disambiguate(ctx, deps.Fetcher, query, cfg.Disambiguation, log)
	}
	if err != nil {
		return types.ScoredResult{}, err
	}

	maxPubs := cfg.Index.MaxPublications
	if maxPubs <= 0 {
		maxPubs = 100
	}

	log.Info().Str("author", author.Name).Str("id", author.ID).Int("max_pubs", maxPubs).Msg("fetching most-cited publications")
	raw, err := deps.Fetcher.FetchTopPublications(ctx, author.ID, maxPubs)
	rateLimited := false
	if err != nil {
		var rl *scholar.RateLimitedError
		if errors.As(err, &rl) && len(raw) > 0 {
			// Partial-result policy: a truncated list still yields a
			// usable, annotated result.
			rateLimited = true
			log.Warn().Int("fetched", len(raw)).Err(err).Msg("provider throttled the run, continuing with partial data")
		} else {
			return types.ScoredResult{}, err
		}
	}

	currentYear := now().Year()
	normalized := make([]types.NormalizedPublication, 0, len(raw))
	skipped := 0
	for _, r := range raw {
		n, err := normalize.Normalize(r, currentYear, cfg.Normalize)
		if err != nil {
			var skip *normalize.SkipError
			if errors.As(err, &skip) {
				normalize.WarnSkip(log, r, skip)
				skipped++
				continue
			}
			return types.ScoredResult{}, err
		}
		normalized = append(normalized, n)
	}

	if len(normalized) == 0 {
		// Insufficient data is reportable, not fatal: the index is 0.
		log.Warn().Str("author", author.Name).Msg("no usable publications, L-index is 0")
	}

	index, ranked := lindex.Compute(normalized)
	log.Info().Float64("l_index", index).Int("used", len(ranked)).Int("skipped", skipped).Msg("computation complete")

	return assemble(author, index, ranked, len(raw), skipped, rateLimited, now()), nil
}

// assemble binds the finished pieces into the immutable ScoredResult.
// Pure and non-failing; reporting code only reads the result.
func assemble(author types.AuthorProfile, index float64, ranked []types.NormalizedPublication, fetched, skipped int, rateLimited bool, at time.Time) types.ScoredResult {
	return types.ScoredResult{
		Author:              author,
		LIndex:              index,
		PublicationsUsed:    len(ranked),
		PublicationsFetched: fetched,
		SkippedCount:        skipped,
		ComputedAt:          at,
		RateLimited:         rateLimited,
		Publications:        ranked,
	}
}

// Outcome pairs one query with its result or error.
type Outcome struct {
	Query  string
	Result types.ScoredResult
	Err    error
}

// RunAll computes results for several queries concurrently. The pipelines
// are independent; they share the Fetcher (and with it the global
// rate-limit coordinator), so one throttled pipeline slows the others
// instead of letting them pile onto the provider. A failed pipeline does
// not affect the rest. Outcomes are returned in query order.
func RunAll(ctx context.Context, queries []string, deps Deps, cfg types.PipelineConfig) []Outcome {
	outcomes := make([]Outcome, len(queries))
	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func(i int, q string) {
			defer wg.Done()
			result, err := Run(ctx, q, deps, cfg)
			outcomes[i] = Outcome{Query: q, Result: result, Err: err}
		}(i, q)
	}
	wg.Wait()
	return outcomes
}
