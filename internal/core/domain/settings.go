package domain

import (
	"fmt"
	"path/filepath"
	"time"
)

// Configuration keys read from the config store.
const (
	KeyCacheDir          = "cache.dir"
	KeyMaxAttempts       = "cache.max_attempts"
	KeyBackoffMillis     = "cache.backoff_ms"
	KeyFetchTimeoutSecs  = "fetch.timeout_seconds"
	KeyRequestsPerSecond = "fetch.requests_per_second"
	KeyFetchBurst        = "fetch.burst"
	KeyManifestPath      = "manifest.path"
	KeyHistoryEnabled    = "history.enabled"
	KeyHistoryRetention  = "history.retention_days"
	KeyRevalidateMinutes = "watch.revalidate_minutes"
	KeyDriveAPIKey       = "drive.api_key"
	KeyDriveAccessToken  = "drive.access_token"
	KeyGitHubToken       = "github.token"
)

// Defaults for CacheSettings.
const (
	DefaultMaxAttempts       = 3
	DefaultBackoff           = time.Second
	DefaultFetchTimeout      = 5 * time.Minute
	DefaultRequestsPerSecond = 2.0
	DefaultFetchBurst        = 1
	DefaultHistoryRetention  = 30 * 24 * time.Hour
	DefaultRevalidate        = time.Hour
	DefaultCacheDirName      = "models"
	DefaultManifestName      = "artifacts.toml"
)

// CacheSettings controls the artifact cache manager and its fetchers.
type CacheSettings struct {
	// CacheDir is the single directory holding artifact files.
	CacheDir string

	// ManifestPath points at the artifact table file.
	ManifestPath string

	// MaxAttempts bounds the ensure retry loop.
	MaxAttempts int

	// Backoff is the fixed pause after an undersized or failed attempt.
	Backoff time.Duration

	// FetchTimeout bounds a single remote fetch.
	FetchTimeout time.Duration

	// RequestsPerSecond and Burst pace requests to remote sources.
	RequestsPerSecond float64
	Burst             int

	// HistoryEnabled persists every attempt to the history store.
	HistoryEnabled bool

	// HistoryRetention is how long attempts are kept. Zero keeps everything.
	HistoryRetention time.Duration

	// RevalidateInterval is how often the watch command sweeps the cache.
	RevalidateInterval time.Duration

	// Credentials for locator schemes that need them. All optional.
	DriveAPIKey      string
	DriveAccessToken string
	GitHubToken      string
}

// DefaultCacheSettings returns settings rooted at configDir.
func DefaultCacheSettings(configDir string) CacheSettings {
	return CacheSettings{
		CacheDir:           filepath.Join(configDir, DefaultCacheDirName),
		ManifestPath:       filepath.Join(configDir, DefaultManifestName),
		MaxAttempts:        DefaultMaxAttempts,
		Backoff:            DefaultBackoff,
		FetchTimeout:       DefaultFetchTimeout,
		RequestsPerSecond:  DefaultRequestsPerSecond,
		Burst:              DefaultFetchBurst,
		HistoryEnabled:     true,
		HistoryRetention:   DefaultHistoryRetention,
		RevalidateInterval: DefaultRevalidate,
	}
}

// Validate checks the settings are usable.
func (s CacheSettings) Validate() error {
	if s.CacheDir == "" {
		return fmt.Errorf("%w: cache directory is required", ErrInvalidInput)
	}
	if s.MaxAttempts < 1 {
		return fmt.Errorf("%w: max attempts must be at least 1, got %d", ErrInvalidInput, s.MaxAttempts)
	}
	if s.Backoff < 0 {
		return fmt.Errorf("%w: backoff must not be negative", ErrInvalidInput)
	}
	if s.FetchTimeout < 0 {
		return fmt.Errorf("%w: fetch timeout must not be negative", ErrInvalidInput)
	}
	if s.HistoryRetention < 0 || s.RevalidateInterval < 0 {
		return fmt.Errorf("%w: retention and revalidate interval must not be negative", ErrInvalidInput)
	}
	if s.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: requests per second must not be negative", ErrInvalidInput)
	}
	return nil
}
