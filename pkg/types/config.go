// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Default tolerance windows applied when a MatcherConfig field is zero.
const (
	DefaultMzTolerance = 0.1
	DefaultRTTolerance = 30.0
)

// MatcherConfig holds the tolerance windows for the annotation matcher.
// Tolerances are fixed at matcher construction and applied uniformly.
type MatcherConfig struct {
	// MzTolerance is the maximum |Δmz| for a feature/annotation pair to
	// match (default 0.1).
	MzTolerance float64 `json:"mz_tolerance" yaml:"mz_tolerance"`

	// RTTolerance is the maximum |Δrt| in seconds (default 30).
	RTTolerance float64 `json:"rt_tolerance" yaml:"rt_tolerance"`
}

// DefaultMatcherConfig returns a MatcherConfig with the default windows.
func DefaultMatcherConfig() MatcherConfig {
	return MatcherConfig{
		MzTolerance: DefaultMzTolerance,
		RTTolerance: DefaultRTTolerance,
	}
}

// HTTPConfig holds shared HTTP settings for stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "gnpslink/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for downloading GNPS task results.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the ProteoSAFe server root (default https://gnps.ucsd.edu).
	BaseURL string `json:"base_url" yaml:"base_url"`

	// ResultView is the result file requested from DownloadResultFile
	// (default "cluster_summary").
	ResultView string `json:"result_view" yaml:"result_view"`

	// MaxRetries is the number of retry attempts on rate-limited or
	// temporarily unavailable responses (0 = library default).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// CacheConfig holds settings for the local annotation cache.
type CacheConfig struct {
	// CacheDir is the directory holding the SQLite cache database
	// (default "cache").
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`
}

// Config groups all stage configurations for the CLI.
type Config struct {
	Matcher MatcherConfig `json:"matcher" yaml:"matcher"`
	Fetch   FetchConfig   `json:"fetch" yaml:"fetch"`
	Cache   CacheConfig   `json:"cache" yaml:"cache"`
}
