// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import "fmt"

// RateLimitedError reports that the provider throttled the client and the
// shared coordinator exhausted its retries. Callers holding partial data
// may still use whatever was fetched before the failure.
type RateLimitedError struct {
	// Op names the request that hit the limit.
	Op string

	// Attempts is how many retries were spent before giving up.
	Attempts int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%s: provider rate limit persisted after %d retries", e.Op, e.Attempts)
}

// FetchError reports a transport or protocol failure unrelated to rate
// limiting. These fail fast; there is nothing to retry.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NotFoundError reports that the provider has no author for the given
// identifier.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no author found for identifier %q", e.ID)
}
