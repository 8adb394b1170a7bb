// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the lindex pipeline.
// Profiles and publications are built once by the stage that produces them
// and never mutated afterwards; each stage derives new values from the
// previous stage's output.
package types

// AuthorProfile identifies a researcher as known to the bibliometric
// provider. Built once per run by the fetch client and read-only afterwards.
type AuthorProfile struct {
	// ID is the provider's unique author identifier in bare form
	// (e.g. "A5023888391" for OpenAlex).
	ID string `json:"id" yaml:"id"`

	// Name is the author's display name.
	Name string `json:"name" yaml:"name"`

	// Affiliation is the most recent known institution, if any.
	Affiliation string `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`

	// Keywords lists the author's research topics in provider order.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	// ProfileURL is the canonical profile page for the author.
	ProfileURL string `json:"profile_url" yaml:"profile_url"`

	// CitedByCount is the total citation count the provider reports for
	// the author across all works.
	CitedByCount int `json:"cited_by_count" yaml:"cited_by_count"`
}
