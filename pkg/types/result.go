// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ScoredResult is the terminal artifact of one author computation. The
// pipeline assembles it once; reporting code only reads it.
type ScoredResult struct {
	// Author is the resolved author profile.
	Author AuthorProfile `json:"author" yaml:"author"`

	// LIndex is the computed L-index, >= 0.
	LIndex float64 `json:"l_index" yaml:"l_index"`

	// PublicationsUsed counts the publications that survived
	// normalization and entered the index.
	PublicationsUsed int `json:"publications_used" yaml:"publications_used"`

	// PublicationsFetched counts the publications retrieved from the
	// provider before normalization.
	PublicationsFetched int `json:"publications_fetched" yaml:"publications_fetched"`

	// SkippedCount counts publications dropped during normalization.
	SkippedCount int `json:"skipped_count" yaml:"skipped_count"`

	// ComputedAt is when the index was computed.
	ComputedAt time.Time `json:"computed_at" yaml:"computed_at"`

	// RateLimited marks a result computed from partial data because the
	// provider throttled the run before all publications were fetched.
	RateLimited bool `json:"rate_limited" yaml:"rate_limited"`

	// Publications holds the normalized publications sorted descending
	// by contribution score. Equal scores keep provider fetch order.
	Publications []NormalizedPublication `json:"publications" yaml:"publications"`
}
