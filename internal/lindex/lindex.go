// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lindex computes the L-index from normalized publications.
//
// The metric follows Belikov AV and Belikov VV, "A citation-based, author-
// and age-normalized, logarithmic index for evaluation of individual
// researchers independently of publication counts", F1000Research 2015,
// 4:884 (https://doi.org/10.12688/f1000research.7070.1): each publication
// contributes citations divided by author count and age, and the index is
// the natural logarithm of one plus the contribution sum.
package lindex

import (
	"math"
	"sort"

	"github.com/pdiddy/lindex/pkg/types"
)

// Score returns one publication's contribution: c / (a * t). Zero
// citations contribute exactly 0; authorCount and age are floored at 1 so
// malformed inputs cannot divide by zero.
func Score(citations, authorCount, age int) float64 {
	if citations <= 0 {
		return 0
	}
	if authorCount < 1 {
		authorCount = 1
	}
	if age < 1 {
		age = 1
	}
	return float64(citations) / (float64(authorCount) * float64(age))
}

// Compute fills in each publication's contribution score, sums them into
// the L-index, and returns the publications ranked descending by score.
// The sort is stable: equal scores keep their fetch order. An empty input
// yields index 0 and an empty ranking, which is a valid outcome, not an
// error.
func Compute(pubs []types.NormalizedPublication) (float64, []types.NormalizedPublication) {
	ranked := make([]types.NormalizedPublication, len(pubs))
	copy(ranked, pubs)

	sum := 0.0
	for i := range ranked {
		ranked[i].Score = Score(ranked[i].Citations, ranked[i].AuthorCount, ranked[i].Age)
		sum += ranked[i].Score
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return math.Log(1 + sum), ranked
}
