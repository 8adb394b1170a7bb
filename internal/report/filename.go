// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/lindex/pkg/types"
)

var (
	unsafeChars   = regexp.MustCompile(`[^\w\-.]+`)
	repeatedScore = regexp.MustCompile(`_+`)
)

// SanitizeFilename replaces characters unsuitable for filenames.
func SanitizeFilename(name string) string {
	s := unsafeChars.ReplaceAllString(name, "_")
	s = strings.Trim(repeatedScore.ReplaceAllString(s, "_"), "_")
	if s == "" {
		return "invalid_name"
	}
	return s
}

// BaseName builds the report filename stem for a result:
// {name}_{id}_L-Index_BasedOn{N}[_RATE_LIMITED]_{date}.
func BaseName(result types.ScoredResult, maxPubs int) string {
	stem := SanitizeFilename(result.Author.Name + "_" + result.Author.ID)
	tag := ""
	if result.RateLimited {
		tag = "_RATE_LIMITED"
	}
	return fmt.Sprintf("%s_L-Index_BasedOn%d%s_%s", stem, maxPubs, tag, result.ComputedAt.Format("2006-01-02"))
}
