// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize validates raw publication records and turns them into
// scored units. Records missing a usable year or author listing are
// dropped with a warning; the run itself never aborts on bad data.
package normalize

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/lindex/pkg/types"
)

// DefaultLargeGroupSize is the author count assigned to group-authored
// publications. The true count is unknowable from the author string, so a
// fixed constant keeps the metric deterministic.
const DefaultLargeGroupSize = 50

// etAlExtraAuthors is added to the parsed count when the listing ends in
// "et al": at least a few named authors were truncated.
const etAlExtraAuthors = 3

// Publication year sanity bounds. Records outside them are treated as
// having no usable year.
const (
	minPlausibleYear = 1800
	maxYearsInFuture = 2
)

// largeGroupKeywords marks author listings that name a consortium or
// similar group entity rather than individuals. Matching is
// case-insensitive on whole words; plural and adjectival variants are
// enumerated explicitly. Keep the list sorted when extending it (v1).
var largeGroupKeywords = []string{
	"association",
	"associations",
	"atlas",
	"collaboration",
	"collaborations",
	"committee",
	"committees",
	"consortia",
	"consortium",
	"group",
	"groups",
	"initiative",
	"initiatives",
	"international",
	"investigators",
	"network",
	"networks",
	"program",
	"programs",
	"programme",
	"programmes",
	"society",
	"societies",
	"team",
	"teams",
}

// SkipError explains why a publication was dropped during normalization.
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string { return "publication skipped: " + e.Reason }

// Skip reasons.
const (
	ReasonMissingYear     = "missing year"
	ReasonImplausibleYear = "implausible year"
	ReasonMissingAuthors  = "missing authors"
)

// Normalize validates one raw publication against currentYear and returns
// its normalized form with the contribution score left at zero (scoring
// belongs to the aggregator). A *SkipError is returned for records that
// cannot enter the calculation; the caller logs it and moves on.
func Normalize(raw types.RawPublication, currentYear int, cfg types.NormalizeConfig) (types.NormalizedPublication, error) {
	if raw.Year == 0 {
		return types.NormalizedPublication{}, &SkipError{Reason: ReasonMissingYear}
	}
	if raw.Year < minPlausibleYear || raw.Year > currentYear+maxYearsInFuture {
		return types.NormalizedPublication{}, &SkipError{Reason: ReasonImplausibleYear}
	}
	if strings.TrimSpace(raw.AuthorList) == "" {
		return types.NormalizedPublication{}, &SkipError{Reason: ReasonMissingAuthors}
	}

	citations := raw.Citations
	if citations < 0 {
		citations = 0
	}

	age := currentYear - raw.Year + 1
	if age < 1 {
		age = 1
	}

	return types.NormalizedPublication{
		Title:       raw.Title,
		Citations:   citations,
		AuthorCount: CountAuthors(raw.AuthorList, cfg),
		Year:        raw.Year,
		Age:         age,
	}, nil
}

// WarnSkip emits the one warning event a skipped publication gets.
func WarnSkip(log zerolog.Logger, raw types.RawPublication, skip *SkipError) {
	log.Warn().Str("title", raw.Title).Str("reason", skip.Reason).Msg("skipping publication")
}

// CountAuthors estimates the number of authors in a free-text listing.
// The listing is split on the provider's separator conventions (commas,
// semicolons, " and ") and non-empty tokens are counted; "et al" adds a
// few uncounted names. A large-group keyword replaces the parsed count
// with cfg.LargeGroupSize outright.
func CountAuthors(authorList string, cfg types.NormalizeConfig) int {
	lower := strings.ToLower(strings.TrimSpace(authorList))
	if lower == "" {
		return 1
	}

	largeGroupSize := cfg.LargeGroupSize
	if largeGroupSize <= 0 {
		largeGroupSize = DefaultLargeGroupSize
	}
	if containsLargeGroupKeyword(lower) {
		return largeGroupSize
	}

	separated := strings.NewReplacer(" and ", ",", ";", ",").Replace(lower)
	count := 0
	for _, part := range strings.Split(separated, ",") {
		if strings.TrimSpace(part) != "" {
			count++
		}
	}
	if count < 1 {
		count = 1
	}

	if strings.Contains(" "+lower+" ", " et al") {
		count += etAlExtraAuthors
	}
	return count
}

// containsLargeGroupKeyword reports whether the lower-cased listing
// contains any group keyword as a whole word.
func containsLargeGroupKeyword(lower string) bool {
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	for _, w := range words {
		for _, kw := range largeGroupKeywords {
			if w == kw {
				return true
			}
		}
	}
	return false
}
