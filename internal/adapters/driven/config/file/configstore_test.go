package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_CreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cfg")

	_, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.DirExists(t, dir)
}

func TestDefaultConfigDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	dir, err := DefaultConfigDir()

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".emiprdict"), dir)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("cache.dir", "/var/models"))
	require.NoError(t, store.Set("cache.max_attempts", 5))
	require.NoError(t, store.Set("history.enabled", true))

	assert.Equal(t, "/var/models", store.GetString("cache.dir"))
	assert.Equal(t, 5, store.GetInt("cache.max_attempts"))
	assert.True(t, store.GetBool("history.enabled"))

	// Wrong types and missing keys fall back to zero values
	assert.Equal(t, "", store.GetString("cache.max_attempts"))
	assert.Equal(t, 0, store.GetInt("cache.dir"))
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_PersistsNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("cache.max_attempts", 4))
	require.NoError(t, store.Set("fetch.requests_per_second", 1.5))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[cache]")
	assert.Contains(t, string(data), "[fetch]")

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, 4, reopened.GetInt("cache.max_attempts"))
	val, ok := reopened.Get("fetch.requests_per_second")
	require.True(t, ok)
	assert.Equal(t, 1.5, val)
}

func TestConfigStore_SetNilDeletes(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("github.token", "ghp_x"))
	require.NoError(t, store.Set("github.token", nil))

	_, ok := store.Get("github.token")
	assert.False(t, ok)

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	_, ok = reopened.Get("github.token")
	assert.False(t, ok)
}

func TestConfigStore_LoadHandwrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[cache]
dir = "/srv/models"
backoff_ms = 250

[drive]
api_key = "AIza-test"
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, "/srv/models", store.GetString("cache.dir"))
	assert.Equal(t, 250, store.GetInt("cache.backoff_ms"))
	assert.Equal(t, "AIza-test", store.GetString("drive.api_key"))
}

func TestConfigStore_LoadInvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("[cache\n"), 0600))

	_, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
}

func TestNestKeys(t *testing.T) {
	nested := nestKeys(map[string]any{
		"cache.dir":          "/m",
		"cache.max_attempts": 3,
		"top":                true,
		"top.child":          "kept flat",
	})

	cache, ok := nested["cache"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "/m", cache["dir"])
	assert.Equal(t, 3, cache["max_attempts"])
	assert.Equal(t, true, nested["top"])
	assert.Equal(t, "kept flat", nested["top.child"])
}

func TestFlattenMap(t *testing.T) {
	flat := flattenMap(map[string]any{
		"a": map[string]any{"b": map[string]any{"c": 1}},
		"d": "x",
	}, "")

	assert.Equal(t, map[string]any{"a.b.c": 1, "d": "x"}, flat)
}
