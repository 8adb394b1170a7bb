// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package disambig resolves a free-text author name to a single author
// profile by string similarity against search candidates. It is skipped
// entirely when the caller supplies a provider ID.
package disambig

import (
	"context"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/rs/zerolog"

	"github.com/pdiddy/lindex/pkg/types"
)

// Default thresholds. The multi-candidate threshold is stricter because
// a crowded result list carries higher ambiguity risk.
const (
	DefaultSingleResultThreshold = 0.75
	DefaultMultiResultThreshold  = 0.85
	DefaultMaxResults            = 10
)

// Searcher is the author-search capability the disambiguator needs.
// *scholar.Client satisfies it.
type Searcher interface {
	SearchAuthors(ctx context.Context, name string, maxResults int) ([]types.AuthorProfile, error)
}

// Disambiguate searches for name and selects the best-matching candidate.
//
// Zero candidates fail with NotFoundError. A lone candidate is accepted
// when its similarity to the query meets SingleResultThreshold. With
// several candidates the highest-similarity one is selected (ties keep
// the provider's ranking order) and accepted when it meets
// MultiResultThreshold. Anything below threshold fails with
// NoConfidentMatchError.
func Disambiguate(ctx context.Context, s Searcher, name string, cfg types.DisambiguationConfig, log zerolog.Logger) (types.AuthorProfile, error) {
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	singleThreshold := cfg.SingleResultThreshold
	if singleThreshold <= 0 {
		singleThreshold = DefaultSingleResultThreshold
	}
	multiThreshold := cfg.MultiResultThreshold
	if multiThreshold <= 0 {
		multiThreshold = DefaultMultiResultThreshold
	}

	candidates, err := s.SearchAuthors(ctx, name, maxResults)
	if err != nil {
		return types.AuthorProfile{}, err
	}
	if len(candidates) == 0 {
		return types.AuthorProfile{}, &NotFoundError{Query: name}
	}

	threshold := multiThreshold
	if len(candidates) == 1 {
		threshold = singleThreshold
	}

	best := candidates[0]
	bestScore := Similarity(name, best.Name)
	log.Info().Str("candidate", best.Name).Str("id", best.ID).Float64("similarity", bestScore).Msg("evaluating candidate")
	for _, c := range candidates[1:] {
		score := Similarity(name, c.Name)
		log.Info().Str("candidate", c.Name).Str("id", c.ID).Float64("similarity", score).Msg("evaluating candidate")
		// Strictly greater keeps the provider's first-ranked candidate
		// on ties.
		if score > bestScore {
			best = c
			bestScore = score
		}
	}

	if bestScore < threshold {
		return types.AuthorProfile{}, &NoConfidentMatchError{
			Query:     name,
			BestName:  best.Name,
			BestScore: bestScore,
			Threshold: threshold,
		}
	}

	log.Info().Str("author", best.Name).Str("id", best.ID).Float64("similarity", bestScore).Msg("selected author")
	return best, nil
}

// Similarity returns a normalized edit-distance ratio in [0, 1] between
// two names. Both inputs are lower-cased, trimmed, and whitespace-collapsed
// before comparison, so the function is deterministic and symmetric.
func Similarity(a, b string) float64 {
	a = normalizeName(a)
	b = normalizeName(b)
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	dist := levenshtein.ComputeDistance(a, b)
	longer := len([]rune(a))
	if lb := len([]rune(b)); lb > longer {
		longer = lb
	}
	return 1 - float64(dist)/float64(longer)
}

func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}
