// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"io"
	"net/http"

	"github.com/rs/zerolog"
)

// DoWithRetry executes an HTTP request through the shared coordinator and
// retries on HTTP 429 (Too Many Requests) with exponential backoff.
//
// On each 429 the response body is drained and closed before waiting.
// If the context is cancelled during a wait the function returns ctx.Err().
// After the coordinator exhausts its attempts the last 429 response is
// returned so the caller can map it to its own rate-limit error.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, coord *Coordinator, log zerolog.Logger) (*http.Response, error) {
	for {
		if err := coord.Acquire(ctx); err != nil {
			return nil, err
		}

		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			coord.ReportSuccess()
			return resp, nil
		}

		delay, ok := coord.ReportThrottle()
		if !ok {
			// Exhausted retries. Hand the 429 back as-is.
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		log.Warn().
			Str("url", req.URL.Redacted()).
			Dur("backoff", delay).
			Int("attempt", coord.Attempt()).
			Msg("rate limited by provider, backing off")
	}
}
