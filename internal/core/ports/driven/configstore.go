package driven

// ConfigStore holds the user's settings as dotted keys (e.g. "cache.dir").
// The file adapter persists them as nested TOML tables.
type ConfigStore interface {
	// Get returns the raw value for key and whether it is set.
	Get(key string) (any, bool)

	// GetString, GetInt and GetBool return the zero value when the key is
	// missing or holds another type.
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool

	// Set stores value under key and persists it.
	Set(key string, value any) error

	// Save writes the settings out; Load re-reads them.
	Save() error
	Load() error

	// Path is the settings file location, used in error messages.
	Path() string
}
