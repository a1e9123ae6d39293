// Package cli provides the cobra command tree for emiprdict.
//
// Commands run against driving ports held in package variables. The binary
// builds the adapters in a BootstrapFunc that the root command calls before
// any subcommand runs; tests replace the variables directly.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Rupali110289/emiprdict/internal/core/ports/driving"
	"github.com/Rupali110289/emiprdict/internal/logger"
)

// version is overridden at build time.
var version = "dev"

// Services are the driving ports a bootstrap hands to the commands.
type Services struct {
	Cache       driving.CacheManager
	Loader      driving.ArtifactLoader
	Settings    driving.SettingsService
	Revalidator driving.Revalidator

	// CacheDir is the directory artifacts are stored in.
	CacheDir string

	// CacheErr explains why Cache is nil, e.g. a missing manifest. Settings
	// commands keep working so the problem can be fixed.
	CacheErr error

	// Close releases resources held by the adapters.
	Close func() error
}

// BootstrapFunc builds the services for a config directory.
// An empty configDir selects the default location.
type BootstrapFunc func(ctx context.Context, configDir string) (*Services, error)

// skipBootstrap marks commands that run without services.
const skipBootstrap = "skip-bootstrap"

var (
	verbose   bool
	configDir string

	bootstrap     BootstrapFunc
	closeServices func() error

	cacheManager    driving.CacheManager
	artifactLoader  driving.ArtifactLoader
	settingsService driving.SettingsService
	revalidator     driving.Revalidator
	cacheDir        string
	cacheErr        error
)

var rootCmd = &cobra.Command{
	Use:   "emiprdict",
	Short: "Artifact cache for the EMI prediction models",
	Long: `emiprdict keeps the trained model and scaler files used for EMI
eligibility and maximum EMI prediction present and size-valid in a local
cache directory.

Artifacts are declared in artifacts.toml in the config directory. Each one
has a source locator (https://, gdrive://, github:// or file://) and a
minimum valid size in bytes.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initialise,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Config directory (default ~/.emiprdict)")
}

// Execute runs the root command and releases the services afterwards.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if closeErr := shutdown(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap sets the function used to build services before a command runs.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetServices installs services directly.
func SetServices(s *Services) {
	if s == nil {
		return
	}
	cacheManager = s.Cache
	artifactLoader = s.Loader
	settingsService = s.Settings
	revalidator = s.Revalidator
	cacheDir = s.CacheDir
	cacheErr = s.CacheErr
	closeServices = s.Close
}

func initialise(cmd *cobra.Command, _ []string) error {
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetVerbose(verbose)

	if bootstrap == nil || cmd.Annotations[skipBootstrap] == "true" {
		return nil
	}

	s, err := bootstrap(cmd.Context(), configDir)
	if err != nil {
		return fmt.Errorf("initialise: %w", err)
	}
	SetServices(s)
	return nil
}

func shutdown() error {
	if closeServices == nil {
		return nil
	}
	fn := closeServices
	closeServices = nil
	return fn()
}

// requireCache returns the cache manager or explains why there is none.
func requireCache() (driving.CacheManager, error) {
	if cacheManager != nil {
		return cacheManager, nil
	}
	if cacheErr != nil {
		return nil, fmt.Errorf("cache manager not configured: %w", cacheErr)
	}
	return nil, errors.New("cache manager not configured")
}
