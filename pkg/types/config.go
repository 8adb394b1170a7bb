// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "lindex/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ScholarConfig holds settings for the bibliometric fetch client.
type ScholarConfig struct {
	HTTPConfig `yaml:",inline"`

	// Email is sent as the mailto parameter for OpenAlex polite-pool
	// access. Optional but strongly recommended.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// MaxRetries bounds rate-limit retries per request (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// RequestsPerSecond is the sustained outbound request rate shared
	// across all concurrent author pipelines (default 10).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
}

// DisambiguationConfig holds settings for name-based author matching.
type DisambiguationConfig struct {
	// MaxResults is the number of search candidates to consider (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// SingleResultThreshold is the minimum name similarity for accepting
	// a lone search candidate (default 0.75).
	SingleResultThreshold float64 `json:"single_result_threshold" yaml:"single_result_threshold"`

	// MultiResultThreshold is the minimum similarity for accepting the
	// best of several candidates (default 0.85). Stricter than the
	// single-result threshold because ambiguity risk is higher.
	MultiResultThreshold float64 `json:"multi_result_threshold" yaml:"multi_result_threshold"`
}

// NormalizeConfig holds settings for publication normalization.
type NormalizeConfig struct {
	// LargeGroupSize is the author count assigned to publications whose
	// author listing names a consortium or similar group entity, whose
	// true author count is unknowable from the string (default 50).
	LargeGroupSize int `json:"large_group_size" yaml:"large_group_size"`
}

// IndexConfig holds settings for the L-index computation.
type IndexConfig struct {
	// MaxPublications bounds how many most-cited publications enter the
	// calculation (default 100). Provider rate limits make ~100 the
	// practical ceiling; compare authors only at equal values.
	MaxPublications int `json:"max_publications" yaml:"max_publications"`
}

// ReportConfig holds settings for result reporting.
type ReportConfig struct {
	// OutputDir is where PDF reports, YAML records, and the results
	// ledger are written (default "L-index calculations").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// TopPublications is how many ranked publications the PDF report
	// tabulates (default 15).
	TopPublications int `json:"top_publications" yaml:"top_publications"`

	// PDF controls whether a PDF report is written.
	PDF bool `json:"pdf" yaml:"pdf"`

	// Ledger controls whether results are appended to the SQLite ledger.
	Ledger bool `json:"ledger" yaml:"ledger"`
}

// PipelineConfig groups all stage configurations for one invocation.
type PipelineConfig struct {
	Scholar        ScholarConfig        `json:"scholar" yaml:"scholar"`
	Disambiguation DisambiguationConfig `json:"disambiguation" yaml:"disambiguation"`
	Normalize      NormalizeConfig      `json:"normalize" yaml:"normalize"`
	Index          IndexConfig          `json:"index" yaml:"index"`
	Report         ReportConfig         `json:"report" yaml:"report"`
}
