package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rupali110289/emiprdict/internal/core/domain"
)

func TestSettingsCmd_Show(t *testing.T) {
	_, cleanup := setupSettingsTest(map[string]any{
		domain.KeyMaxAttempts: 5,
		domain.KeyGitHubToken: "ghp_1234567890abcd",
	})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "[Cache]")
	assert.Contains(t, out, "Directory: /home/u/.emiprdict/models")
	assert.Contains(t, out, "Max attempts: 5")
	assert.Contains(t, out, "GitHub token: ghp_...abcd")
	assert.Contains(t, out, "Drive API key: (not set)")
	assert.NotContains(t, out, "1234567890")
}

func TestSettingsCmd_ShowWarnsAboutCache(t *testing.T) {
	_, cleanup := setupSettingsTest(nil)
	defer cleanup()
	cacheErr = domain.ErrNotFound
	defer func() { cacheErr = nil }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "show"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Warning: not found")
}

func TestSettingsCmd_Set(t *testing.T) {
	store, cleanup := setupSettingsTest(nil)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "set", domain.KeyMaxAttempts, "7"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "cache.max_attempts updated")
	assert.Equal(t, 7, store.GetInt(domain.KeyMaxAttempts))
}

func TestSettingsCmd_SetInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown key", key: "search.mode", value: "hybrid"},
		{name: "not a number", key: domain.KeyMaxAttempts, value: "many"},
		{name: "fails validation", key: domain.KeyMaxAttempts, value: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, cleanup := setupSettingsTest(nil)
			defer cleanup()

			rootCmd.SetOut(new(bytes.Buffer))
			rootCmd.SetErr(new(bytes.Buffer))
			rootCmd.SetArgs([]string{"settings", "set", tt.key, tt.value})
			defer func() {
				rootCmd.SetArgs(nil)
				rootCmd.SetErr(nil)
			}()

			err := rootCmd.Execute()

			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			_, ok := store.Get(tt.key)
			assert.False(t, ok)
		})
	}
}

func TestSettingsCmd_Keys(t *testing.T) {
	_, cleanup := setupSettingsTest(nil)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"settings", "keys"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), domain.KeyCacheDir)
	assert.Contains(t, buf.String(), domain.KeyGitHubToken)
}

func TestSettingsCmd_NotConfigured(t *testing.T) {
	defer resetServices()
	resetServices()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"settings"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetErr(nil)
	}()

	err := rootCmd.Execute()

	assert.EqualError(t, err, "settings service not configured")
}
