package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Rupali110289/emiprdict/internal/core/domain"
	"github.com/Rupali110289/emiprdict/internal/core/ports/driven"
	"github.com/Rupali110289/emiprdict/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindFloat
	kindBool
)

// settingKinds lists every key the service reads and how values are parsed.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
var settingKinds = map[string]settingKind{
	domain.KeyCacheDir:          kindString,
	domain.KeyManifestPath:      kindString,
	domain.KeyMaxAttempts:       kindInt,
	domain.KeyBackoffMillis:     kindInt,
	domain.KeyFetchTimeoutSecs:  kindInt,
	domain.KeyRequestsPerSecond: kindFloat,
	domain.KeyFetchBurst:        kindInt,
	domain.KeyHistoryEnabled:    kindBool,
	domain.KeyHistoryRetention:  kindInt,
	domain.KeyRevalidateMinutes: kindInt,
	domain.KeyDriveAPIKey:       kindString,
	domain.KeyDriveAccessToken:  kindString,
	domain.KeyGitHubToken:       kindString,
}

// SettingsService turns the config store into validated cache settings.
type SettingsService struct {
	configStore driven.ConfigStore
	configDir   string
}

// NewSettingsService creates a new settings service.
// Defaults for paths are rooted at configDir.
func NewSettingsService(configStore driven.ConfigStore, configDir string) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		configDir:   configDir,
	}
}

// Get returns the effective settings with defaults for unset keys.
func (s *SettingsService) Get() (*domain.CacheSettings, error) {
	settings := s.read(s.configStore)
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("settings in %s: %w", s.configStore.Path(), err)
	}
	return settings, nil
}

// Set parses value according to the key's type, checks the resulting
// settings are valid and only then persists it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	parsed, err := parseSetting(kind, strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}

	candidate := s.read(overlay{ConfigStore: s.configStore, key: key, value: parsed})
	if err := candidate.Validate(); err != nil {
		return err
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns every recognised settings key in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.CacheSettings {
	return domain.DefaultCacheSettings(s.configDir)
}

func parseSetting(kind settingKind, value string) (any, error) {
	var (
		parsed any
		err    error
	)
	switch kind {
	case kindInt:
		parsed, err = strconv.Atoi(value)
	case kindFloat:
		parsed, err = strconv.ParseFloat(value, 64)
	case kindBool:
		parsed, err = strconv.ParseBool(value)
	default:
		parsed = value
	}
	if err != nil {
		return nil, err
	}
	return parsed, nil
}

func (s *SettingsService) read(store driven.ConfigStore) *domain.CacheSettings {
	defaults := s.GetDefaults()
	return &domain.CacheSettings{
		CacheDir:           getString(store, domain.KeyCacheDir, defaults.CacheDir),
		ManifestPath:       getString(store, domain.KeyManifestPath, defaults.ManifestPath),
		MaxAttempts:        getInt(store, domain.KeyMaxAttempts, defaults.MaxAttempts),
		Backoff:            getDuration(store, domain.KeyBackoffMillis, time.Millisecond, defaults.Backoff),
		FetchTimeout:       getDuration(store, domain.KeyFetchTimeoutSecs, time.Second, defaults.FetchTimeout),
		RequestsPerSecond:  getFloat(store, domain.KeyRequestsPerSecond, defaults.RequestsPerSecond),
		Burst:              getInt(store, domain.KeyFetchBurst, defaults.Burst),
		HistoryEnabled:     getBool(store, domain.KeyHistoryEnabled, defaults.HistoryEnabled),
		HistoryRetention:   getDuration(store, domain.KeyHistoryRetention, 24*time.Hour, defaults.HistoryRetention),
		RevalidateInterval: getDuration(store, domain.KeyRevalidateMinutes, time.Minute, defaults.RevalidateInterval),
		DriveAPIKey:        store.GetString(domain.KeyDriveAPIKey),
		DriveAccessToken:   store.GetString(domain.KeyDriveAccessToken),
		GitHubToken:        store.GetString(domain.KeyGitHubToken),
	}
}

// overlay shows one pending value on top of a config store.
type overlay struct {
	driven.ConfigStore
	key   string
	value any
}

func (o overlay) Get(key string) (any, bool) {
	if key == o.key {
		return o.value, true
	}
	return o.ConfigStore.Get(key)
}

func (o overlay) GetString(key string) string {
	if key == o.key {
		str, _ := o.value.(string)
		return str
	}
	return o.ConfigStore.GetString(key)
}

func (o overlay) GetInt(key string) int {
	if key == o.key {
		n, _ := o.value.(int)
		return n
	}
	return o.ConfigStore.GetInt(key)
}

func (o overlay) GetBool(key string) bool {
	if key == o.key {
		b, _ := o.value.(bool)
		return b
	}
	return o.ConfigStore.GetBool(key)
}

// Helper functions for reading config with defaults.

func getString(store driven.ConfigStore, key, defaultVal string) string {
	val := store.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getInt(store driven.ConfigStore, key string, defaultVal int) int {
	if _, exists := store.Get(key); !exists {
		return defaultVal
	}
	return store.GetInt(key)
}

func getBool(store driven.ConfigStore, key string, defaultVal bool) bool {
	if _, exists := store.Get(key); !exists {
		return defaultVal
	}
	return store.GetBool(key)
}

func getFloat(store driven.ConfigStore, key string, defaultVal float64) float64 {
	val, exists := store.Get(key)
	if !exists {
		return defaultVal
	}
	// TOML numbers decode as float64 or int64 depending on how they were written
	switch v := val.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return defaultVal
	}
}

func getDuration(store driven.ConfigStore, key string, unit, defaultVal time.Duration) time.Duration {
	if _, exists := store.Get(key); !exists {
		return defaultVal
	}
	return time.Duration(store.GetInt(key)) * unit
}
