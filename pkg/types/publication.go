// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RawPublication is a publication record exactly as retrieved from the
// provider, before validation. Missing fields keep their zero values:
// Year 0 means the provider reported no publication year.
type RawPublication struct {
	// Title is the work title as returned by the provider.
	Title string `json:"title" yaml:"title"`

	// AuthorList is the free-text author listing in the provider's own
	// format (comma-separated raw author names).
	AuthorList string `json:"author_list" yaml:"author_list"`

	// Year is the publication year, or 0 when absent.
	Year int `json:"year" yaml:"year"`

	// Citations is the provider's citation count; absent counts are 0.
	Citations int `json:"citations" yaml:"citations"`
}

// NormalizedPublication is a validated, scored publication. Every instance
// has a usable year and a positive author count; records failing those
// requirements are dropped during normalization and never reach this type.
type NormalizedPublication struct {
	// Title is the work title.
	Title string `json:"title" yaml:"title"`

	// Citations is the non-negative citation count.
	Citations int `json:"citations" yaml:"citations"`

	// AuthorCount is the estimated number of authors (>= 1).
	AuthorCount int `json:"author_count" yaml:"author_count"`

	// Year is the publication year.
	Year int `json:"year" yaml:"year"`

	// Age is the publication age in years, floored at 1 so current-year
	// papers do not degenerate the per-year normalization.
	Age int `json:"age" yaml:"age"`

	// Score is the publication's contribution to the L-index:
	// citations / (author count * age).
	Score float64 `json:"score" yaml:"score"`
}
