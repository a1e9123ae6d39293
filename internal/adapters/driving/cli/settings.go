package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change cache, fetch and credential settings.

Settings are stored in config.toml in the config directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a single setting. The value is parsed for the key's type and
checked before it is saved.

Run 'emiprdict settings keys' to list the recognised keys.`,
	Example: `  emiprdict settings set cache.max_attempts 5
  emiprdict settings set github.token ghp_xxx`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List recognised setting keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Cache]")
	cmd.Printf("  Directory: %s\n", settings.CacheDir)
	cmd.Printf("  Manifest: %s\n", settings.ManifestPath)
	cmd.Printf("  Max attempts: %d\n", settings.MaxAttempts)
	cmd.Printf("  Backoff: %s\n", settings.Backoff)
	cmd.Println()

	cmd.Println("[Fetch]")
	cmd.Printf("  Timeout: %s\n", settings.FetchTimeout)
	if settings.RequestsPerSecond > 0 {
		cmd.Printf("  Rate: %g req/s (burst %d)\n", settings.RequestsPerSecond, settings.Burst)
	} else {
		cmd.Printf("  Rate: unlimited\n")
	}
	cmd.Println()

	cmd.Println("[History]")
	if settings.HistoryEnabled {
		cmd.Printf("  Enabled: yes\n")
	} else {
		cmd.Printf("  Enabled: no\n")
	}
	if settings.HistoryRetention > 0 {
		cmd.Printf("  Retention: %s\n", settings.HistoryRetention)
	} else {
		cmd.Printf("  Retention: forever\n")
	}
	cmd.Printf("  Revalidate every: %s\n", settings.RevalidateInterval)
	cmd.Println()

	cmd.Println("[Credentials]")
	cmd.Printf("  Drive API key: %s\n", maskSecret(settings.DriveAPIKey))
	cmd.Printf("  Drive access token: %s\n", maskSecret(settings.DriveAccessToken))
	cmd.Printf("  GitHub token: %s\n", maskSecret(settings.GitHubToken))

	if cacheErr != nil {
		cmd.Println()
		cmd.Printf("Warning: %v\n", cacheErr)
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("%s updated\n", key)
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}
