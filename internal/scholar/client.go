// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scholar retrieves author profiles and publication lists from the
// OpenAlex bibliometric API. It is the single point of rate-limit handling:
// every request flows through a shared backoff coordinator, and each call
// is a fresh remote request with no local caching.
package scholar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/lindex/internal/httputil"
	"github.com/pdiddy/lindex/pkg/types"
)

const defaultTimeout = 30 * time.Second

// worksPageSize caps the per_page parameter; 200 is the OpenAlex maximum.
const worksPageSize = 200

// Client talks to OpenAlex. One Client (and hence one coordinator) must be
// shared by all concurrent author pipelines, because the provider's rate
// limit is global.
type Client struct {
	http  *http.Client
	coord *httputil.Coordinator
	cfg   types.ScholarConfig
	log   zerolog.Logger
}

// NewClient builds a client from config. A zero Timeout selects 30s.
func NewClient(cfg types.ScholarConfig, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http:  &http.Client{Timeout: timeout},
		coord: httputil.NewCoordinator(cfg.RequestsPerSecond, cfg.MaxRetries, httputil.DefaultBaseDelay),
		cfg:   cfg,
		log:   log,
	}
}

// ResolveAuthor fetches the full profile for a bare author ID.
func (c *Client) ResolveAuthor(ctx context.Context, id string) (types.AuthorProfile, error) {
	id = NormalizeAuthorID(id)

	var author openAlexAuthor
	if err := c.get(ctx, "resolve author", openAlexAuthorsBase+"/"+url.PathEscape(id), nil, &author); err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			nf.ID = id
		}
		return types.AuthorProfile{}, err
	}
	return author.toProfile(), nil
}

// SearchAuthors queries OpenAlex author search and returns up to maxResults
// candidate profiles in provider ranking order.
func (c *Client) SearchAuthors(ctx context.Context, name string, maxResults int) ([]types.AuthorProfile, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	params := url.Values{
		"search":   {name},
		"per_page": {fmt.Sprintf("%d", maxResults)},
		"page":     {"1"},
	}

	var list openAlexAuthorList
	if err := c.get(ctx, "search authors", openAlexAuthorsBase, params, &list); err != nil {
		return nil, err
	}

	profiles := make([]types.AuthorProfile, 0, len(list.Results))
	for _, a := range list.Results {
		if a.ID == "" {
			c.log.Warn().Str("name", a.DisplayName).Msg("search result missing author id, ignoring")
			continue
		}
		profiles = append(profiles, a.toProfile())
	}
	return profiles, nil
}

// FetchTopPublications retrieves up to maxCount publications for an author,
// ordered by the provider's citation-count ranking, descending. When the
// provider throttles the client mid-run, the publications already fetched
// are returned together with the RateLimitedError so the caller can apply
// its partial-result policy.
func (c *Client) FetchTopPublications(ctx context.Context, id string, maxCount int) ([]types.RawPublication, error) {
	id = NormalizeAuthorID(id)
	if maxCount <= 0 {
		maxCount = 100
	}

	var pubs []types.RawPublication
	for page := 1; len(pubs) < maxCount; page++ {
		perPage := maxCount - len(pubs)
		if perPage > worksPageSize {
			perPage = worksPageSize
		}

		params := url.Values{
			"filter":   {"author.id:" + id},
			"sort":     {"cited_by_count:desc"},
			"per_page": {fmt.Sprintf("%d", perPage)},
			"page":     {fmt.Sprintf("%d", page)},
		}

		var list openAlexWorkList
		if err := c.get(ctx, "fetch publications", openAlexWorksBase, params, &list); err != nil {
			var rl *RateLimitedError
			if errors.As(err, &rl) {
				return pubs, err
			}
			return nil, err
		}

		for _, w := range list.Results {
			pubs = append(pubs, w.toRawPublication())
		}

		// Short page means the author has no further works.
		if len(list.Results) < perPage {
			break
		}
	}
	return pubs, nil
}

// get performs one GET request through the shared coordinator and decodes
// the JSON response into out.
func (c *Client) get(ctx context.Context, op, base string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	if c.cfg.Email != "" {
		params.Set("mailto", c.cfg.Email)
	}

	reqURL := base
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &FetchError{Op: op, Err: err}
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.coord, c.log)
	if err != nil {
		if errors.Is(err, httputil.ErrExhausted) {
			return &RateLimitedError{Op: op, Attempts: c.coord.Attempt()}
		}
		return &FetchError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitedError{Op: op, Attempts: c.coord.Attempt()}
	case resp.StatusCode == http.StatusNotFound:
		return &NotFoundError{}
	case resp.StatusCode != http.StatusOK:
		return &FetchError{Op: op, Err: fmt.Errorf("provider returned HTTP %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{Op: op, Err: fmt.Errorf("parsing response: %w", err)}
	}
	return nil
}
