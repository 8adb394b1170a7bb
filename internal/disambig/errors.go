// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package disambig

import "fmt"

// NotFoundError reports that the author search returned zero candidates.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("author %q not found: search returned no candidates", e.Query)
}

// NoConfidentMatchError reports that no search candidate was similar
// enough to the query name.
type NoConfidentMatchError struct {
	Query     string
	BestName  string
	BestScore float64
	Threshold float64
}

func (e *NoConfidentMatchError) Error() string {
	return fmt.Sprintf(
		"no confident match for %q: best candidate %q scored %.3f against threshold %.2f; supply the author ID directly to bypass name matching",
		e.Query, e.BestName, e.BestScore, e.Threshold)
}
