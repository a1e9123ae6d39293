package driving

import "github.com/Rupali110289/emiprdict/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns the effective cache settings with defaults applied.
	Get() (*domain.CacheSettings, error)

	// Set parses value for the key's type and persists it.
	Set(key, value string) error

	// Keys returns every recognised settings key in sorted order.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.CacheSettings
}
