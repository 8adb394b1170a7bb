// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"math"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/lindex/internal/disambig"
	"github.com/pdiddy/lindex/internal/scholar"
	"github.com/pdiddy/lindex/pkg/types"
)

// snapshotFetcher is a frozen provider snapshot: no network, fully
// deterministic.
type snapshotFetcher struct {
	authors      map[string]types.AuthorProfile
	candidates   []types.AuthorProfile
	publications map[string][]types.RawPublication
	fetchErr     error

	resolveCalls atomic.Int32
	searchCalls  atomic.Int32
}

func (f *snapshotFetcher) ResolveAuthor(_ context.Context, id string) (types.AuthorProfile, error) {
	f.resolveCalls.Add(1)
	a, ok := f.authors[scholar.NormalizeAuthorID(id)]
	if !ok {
		return types.AuthorProfile{}, &scholar.NotFoundError{ID: id}
	}
	return a, nil
}

func (f *snapshotFetcher) SearchAuthors(_ context.Context, _ string, _ int) ([]types.AuthorProfile, error) {
	f.searchCalls.Add(1)
	return f.candidates, nil
}

func (f *snapshotFetcher) FetchTopPublications(_ context.Context, id string, maxCount int) ([]types.RawPublication, error) {
	pubs := f.publications[scholar.NormalizeAuthorID(id)]
	if len(pubs) > maxCount {
		pubs = pubs[:maxCount]
	}
	return pubs, f.fetchErr
}

var frozenNow = time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)

func frozenDeps(f *snapshotFetcher) Deps {
	return Deps{Fetcher: f, Log: zerolog.Nop(), Now: func() time.Time { return frozenNow }}
}

func testFetcher() *snapshotFetcher {
	author := types.AuthorProfile{ID: "A111", Name: "Jane Q. Researcher", ProfileURL: "https://openalex.org/A111"}
	return &snapshotFetcher{
		authors:    map[string]types.AuthorProfile{"A111": author},
		candidates: []types.AuthorProfile{author},
		publications: map[string][]types.RawPublication{
			"A111": {
				{Title: "solo hit", AuthorList: "J. Q. Researcher", Year: 2026, Citations: 100},
				{Title: "shared", AuthorList: "J. Q. Researcher, B. Colleague", Year: 2024, Citations: 90},
				{Title: "no year", AuthorList: "J. Q. Researcher", Citations: 500},
				{Title: "consortium", AuthorList: "International Consortium for X", Year: 2021, Citations: 60},
			},
		},
	}
}

func TestRunByID(t *testing.T) {
	f := testFetcher()
	result, err := Run(context.Background(), "A111", frozenDeps(f), types.PipelineConfig{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if n := f.searchCalls.Load(); n != 0 {
		t.Errorf("searchCalls = %d, ID queries must skip disambiguation", n)
	}
	if n := f.resolveCalls.Load(); n != 1 {
		t.Errorf("resolveCalls = %d, want 1", n)
	}

	// Ages relative to frozen 2026: solo hit 1, shared 3, consortium 6.
	// Contributions: 100/(1*1)=100, 90/(2*3)=15, 60/(50*6)=0.2.
	want := math.Log(1 + 115.2)
	if math.Abs(result.LIndex-want) > 1e-12 {
		t.Errorf("LIndex = %v, want %v", result.LIndex, want)
	}
	if result.PublicationsUsed != 3 {
		t.Errorf("PublicationsUsed = %d, want 3", result.PublicationsUsed)
	}
	if result.PublicationsFetched != 4 {
		t.Errorf("PublicationsFetched = %d, want 4", result.PublicationsFetched)
	}
	if result.SkippedCount != 1 {
		t.Errorf("SkippedCount = %d, want 1", result.SkippedCount)
	}
	if !result.ComputedAt.Equal(frozenNow) {
		t.Errorf("ComputedAt = %v", result.ComputedAt)
	}
	if result.RateLimited {
		t.Error("RateLimited = true on a clean run")
	}

	// The record missing a year never reaches the ranking.
	for _, p := range result.Publications {
		if p.Title == "no year" {
			t.Error("skipped publication appeared in ranking")
		}
	}
	if result.Publications[0].Title != "solo hit" {
		t.Errorf("ranking head = %q, want highest contribution first", result.Publications[0].Title)
	}
}

func TestRunByName(t *testing.T) {
	f := testFetcher()
	result, err := Run(context.Background(), "Jane Q. Researcher", frozenDeps(f), types.PipelineConfig{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n := f.searchCalls.Load(); n != 1 {
		t.Errorf("searchCalls = %d, want 1", n)
	}
	if n := f.resolveCalls.Load(); n != 0 {
		t.Errorf("resolveCalls = %d, name queries resolve via search", n)
	}
	if result.Author.ID != "A111" {
		t.Errorf("Author.ID = %q", result.Author.ID)
	}
}

func TestRunUnknownID(t *testing.T) {
	f := testFetcher()
	_, err := Run(context.Background(), "A999", frozenDeps(f), types.PipelineConfig{})
	var nf *scholar.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want scholar.NotFoundError", err)
	}
}

func TestRunNoCandidates(t *testing.T) {
	f := testFetcher()
	f.candidates = nil
	_, err := Run(context.Background(), "Nobody Atall", frozenDeps(f), types.PipelineConfig{})
	var nf *disambig.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want disambig.NotFoundError", err)
	}
}

func TestRunPartialOnRateLimit(t *testing.T) {
	f := testFetcher()
	f.fetchErr = &scholar.RateLimitedError{Op: "fetch publications", Attempts: 5}

	result, err := Run(context.Background(), "A111", frozenDeps(f), types.PipelineConfig{})
	if err != nil {
		t.Fatalf("Run: partial data must not fail: %v", err)
	}
	if !result.RateLimited {
		t.Error("RateLimited = false, want annotation on partial result")
	}
	if result.PublicationsUsed == 0 {
		t.Error("PublicationsUsed = 0, want partial data used")
	}
}

func TestRunRateLimitWithNoDataFails(t *testing.T) {
	f := testFetcher()
	f.publications = map[string][]types.RawPublication{}
	f.fetchErr = &scholar.RateLimitedError{Op: "fetch publications", Attempts: 5}

	_, err := Run(context.Background(), "A111", frozenDeps(f), types.PipelineConfig{})
	var rl *scholar.RateLimitedError
	if !errors.As(err, &rl) {
		t.Fatalf("err = %v, want RateLimitedError when nothing was fetched", err)
	}
}

func TestRunNoUsablePublications(t *testing.T) {
	f := testFetcher()
	f.publications["A111"] = []types.RawPublication{
		{Title: "no year", AuthorList: "J. Q. Researcher", Citations: 500},
		{Title: "no authors", Year: 2020, Citations: 10},
	}

	result, err := Run(context.Background(), "A111", frozenDeps(f), types.PipelineConfig{})
	if err != nil {
		t.Fatalf("Run: insufficient data is reportable, not an error: %v", err)
	}
	if result.LIndex != 0 {
		t.Errorf("LIndex = %v, want 0", result.LIndex)
	}
	if len(result.Publications) != 0 {
		t.Errorf("len(Publications) = %d, want 0", len(result.Publications))
	}
	if result.SkippedCount != 2 {
		t.Errorf("SkippedCount = %d, want 2", result.SkippedCount)
	}
}

// TestRunWarnsOncePerSkippedPublication checks that a dropped record
// produces exactly one warn event, carrying the record's title and the
// skip reason.
func TestRunWarnsOncePerSkippedPublication(t *testing.T) {
	f := testFetcher() // includes one record without a year
	var buf bytes.Buffer
	deps := Deps{Fetcher: f, Log: zerolog.New(&buf), Now: func() time.Time { return frozenNow }}

	_, err := Run(context.Background(), "A111", deps, types.PipelineConfig{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var skipLines []string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, "skipping publication") {
			skipLines = append(skipLines, line)
		}
	}
	if len(skipLines) != 1 {
		t.Fatalf("got %d skip warnings, want exactly 1:\n%s", len(skipLines), buf.String())
	}

	event := skipLines[0]
	if !strings.Contains(event, `"level":"warn"`) {
		t.Errorf("skip event not warn-level: %s", event)
	}
	if !strings.Contains(event, `"title":"no year"`) {
		t.Errorf("skip event missing title: %s", event)
	}
	if !strings.Contains(event, `"reason":"missing year"`) {
		t.Errorf("skip event missing reason: %s", event)
	}
}

func TestRunEmptyQuery(t *testing.T) {
	if _, err := Run(context.Background(), "   ", frozenDeps(testFetcher()), types.PipelineConfig{}); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestRunMaxPublicationsBound(t *testing.T) {
	f := testFetcher()
	cfg := types.PipelineConfig{Index: types.IndexConfig{MaxPublications: 2}}
	result, err := Run(context.Background(), "A111", frozenDeps(f), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.PublicationsFetched != 2 {
		t.Errorf("PublicationsFetched = %d, want bounded 2", result.PublicationsFetched)
	}
}

// TestRunIdempotent runs the full pipeline twice on the same frozen
// snapshot and requires identical results.
func TestRunIdempotent(t *testing.T) {
	first, err := Run(context.Background(), "A111", frozenDeps(testFetcher()), types.PipelineConfig{})
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	second, err := Run(context.Background(), "A111", frozenDeps(testFetcher()), types.PipelineConfig{})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ across identical runs:\n%+v\n%+v", first, second)
	}
}

func TestRunAll(t *testing.T) {
	f := testFetcher()
	outcomes := RunAll(context.Background(), []string{"A111", "A999", "A111"}, frozenDeps(f), types.PipelineConfig{})
	if len(outcomes) != 3 {
		t.Fatalf("len(outcomes) = %d, want 3", len(outcomes))
	}
	if outcomes[0].Err != nil || outcomes[2].Err != nil {
		t.Errorf("healthy pipelines failed: %v, %v", outcomes[0].Err, outcomes[2].Err)
	}
	// The failing pipeline is isolated.
	if outcomes[1].Err == nil {
		t.Error("outcomes[1].Err = nil, want failure for unknown author")
	}
	if outcomes[0].Query != "A111" || outcomes[1].Query != "A999" {
		t.Errorf("outcome order not preserved: %+v", outcomes)
	}
}
